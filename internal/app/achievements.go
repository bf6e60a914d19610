package app

import "signparty-service/internal/domain"

// achievementSpec is one row of the declarative unlock table: an
// achievement unlocks the first time Progress reaches Required and
// stays unlocked forever after.
type achievementSpec struct {
	ID          string
	Title       string
	Description string
	IconName    string
	Required    int
	Progress    func(p domain.UserProgress) int
}

func achievementTable() []achievementSpec {
	return []achievementSpec{
		{
			ID: "FIRST_SIGN", Title: "First Sign", IconName: "star",
			Description: "Learn your first sign",
			Required:    1,
			Progress:    func(p domain.UserProgress) int { return p.SignsLearned },
		},
		{
			ID: "SIGNS_10", Title: "Getting Started", IconName: "sprout",
			Description: "Learn 10 signs",
			Required:    10,
			Progress:    func(p domain.UserProgress) int { return p.SignsLearned },
		},
		{
			ID: "SIGNS_50", Title: "Sign Scholar", IconName: "book",
			Description: "Learn 50 signs",
			Required:    50,
			Progress:    func(p domain.UserProgress) int { return p.SignsLearned },
		},
		{
			ID: "SIGNS_100", Title: "Sign Master", IconName: "trophy",
			Description: "Learn 100 signs",
			Required:    100,
			Progress:    func(p domain.UserProgress) int { return p.SignsLearned },
		},
		{
			ID: "GUESS_25", Title: "Keen Observer", IconName: "eye",
			Description: "Guess 25 signs correctly shown to you",
			Required:    25,
			Progress:    func(p domain.UserProgress) int { return p.GuessModeSigns },
		},
		{
			ID: "PERFORM_25", Title: "Performer", IconName: "hands",
			Description: "Perform 25 signs for others",
			Required:    25,
			Progress:    func(p domain.UserProgress) int { return p.PerformModeSigns },
		},
		{
			ID: "STREAK_3", Title: "Warming Up", IconName: "flame",
			Description: "Practice 3 days in a row",
			Required:    3,
			Progress:    func(p domain.UserProgress) int { return p.CurrentStreak },
		},
		{
			ID: "STREAK_7", Title: "On Fire", IconName: "fire",
			Description: "Practice 7 days in a row",
			Required:    7,
			Progress:    func(p domain.UserProgress) int { return p.CurrentStreak },
		},
		{
			ID: "STREAK_30", Title: "Unstoppable", IconName: "rocket",
			Description: "Practice 30 days in a row",
			Required:    30,
			Progress:    func(p domain.UserProgress) int { return p.CurrentStreak },
		},
		{
			ID: "COMBO_10", Title: "Hot Hands", IconName: "bolt",
			Description: "Answer 10 rounds correctly in a row",
			Required:    10,
			Progress:    func(p domain.UserProgress) int { return p.CorrectInARow },
		},
		{
			ID: "SHARP_EYE", Title: "Sharp Eye", IconName: "target",
			Description: "Keep 90% quiz accuracy over 20 or more attempts",
			Required:    90,
			Progress: func(p domain.UserProgress) int {
				if p.TotalAttempts < 20 {
					return 0
				}
				return int(p.Accuracy * 100)
			},
		},
		{
			ID: "HOUR_IN", Title: "Putting In The Time", IconName: "clock",
			Description: "Practice for a total of one hour",
			Required:    60,
			Progress: func(p domain.UserProgress) int {
				return int(p.TotalPracticeTime.Minutes())
			},
		},
	}
}
