package domain

import "time"

// Mode selects how a round is answered.
type Mode string

const (
	// ModeGuess presents multiple-choice options for the shown sign.
	ModeGuess Mode = "guess"
	// ModePerform asks a player to perform the sign; others judge it.
	ModePerform Mode = "perform"
)

// ParseMode maps a wire string onto a Mode.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case ModeGuess, ModePerform:
		return Mode(raw), true
	}
	return "", false
}

// SessionState is the lifecycle phase of a game session.
type SessionState string

const (
	StateLoading     SessionState = "loading"
	StateRoundActive SessionState = "round_active"
	StateFeedback    SessionState = "feedback"
	StateGameOver    SessionState = "game_over"
	// StateNoContent is terminal: the sign catalog was empty or unavailable.
	StateNoContent SessionState = "no_content"
)

// SignEntry is one catalog item: a sign clip, its meaning, and the
// choices shown in guess mode. Immutable after catalog load.
type SignEntry struct {
	VideoRef      string   `json:"videoRef"`
	CorrectAnswer string   `json:"correctAnswer"`
	Choices       []string `json:"choices"` // length 3, contains CorrectAnswer exactly once
}

// GameParameters is the immutable bundle produced by roster setup and
// consumed once by the session engine.
type GameParameters struct {
	IsMultiplayer  bool
	Players        []*Player // length >= 1, main player first
	QuestionsCount int       // > 0
}

// ScoreEntry is a snapshot-friendly view of one player.
type ScoreEntry struct {
	Name     string `json:"name"`
	IsMain   bool   `json:"isMain"`
	Score    int    `json:"score"`
	Answered bool   `json:"answered"`
	Correct  bool   `json:"correct"`
}

// SessionSnapshot captures everything a client needs to render a round.
// The correct answer is only present once the sign has been revealed or
// feedback is showing.
type SessionSnapshot struct {
	SessionID   string       `json:"sessionId"`
	State       SessionState `json:"state"`
	Mode        Mode         `json:"mode"`
	Round       int          `json:"round"` // 1-based count of signs served
	TotalRounds int          `json:"totalRounds"`
	VideoRef    string       `json:"videoRef,omitempty"`
	Choices     []string     `json:"choices,omitempty"`
	Answer      string       `json:"answer,omitempty"`
	SignHidden  bool         `json:"signHidden"`
	Feedback    string       `json:"feedback,omitempty"`
	Scoreboard  []ScoreEntry `json:"scoreboard"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// GameResult summarizes a finished session for the progress tracker.
type GameResult struct {
	Mode         Mode
	CorrectCount int
	TotalRounds  int
	Elapsed      time.Duration
}

// ActivityType classifies activity log entries.
type ActivityType string

const (
	ActivityPractice    ActivityType = "practice"
	ActivityQuiz        ActivityType = "quiz"
	ActivityAchievement ActivityType = "achievement"
	ActivityStreak      ActivityType = "streak"
)

// ActivityLog is an append-only record of something the user did.
// Score is display-oriented: "8/10" for quizzes, "+1" for practice.
type ActivityLog struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	IconName    string       `json:"iconName"`
	Timestamp   time.Time    `json:"timestamp"`
	Score       string       `json:"score"`
	Type        ActivityType `json:"type"`
}

// Achievement tracks one unlockable. IsUnlocked never reverts to false
// and ProgressCurrent never decreases.
type Achievement struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	IconName         string     `json:"iconName"`
	IsUnlocked       bool       `json:"isUnlocked"`
	UnlockedDate     *time.Time `json:"unlockedDate,omitempty"`
	ProgressCurrent  int        `json:"progressCurrent"`
	ProgressRequired int        `json:"progressRequired"`
}

// MaxActivities caps the persisted activity history.
const MaxActivities = 100

// UserProgress is the persisted aggregate of everything the user has
// done across sessions. It is written in full on every update.
type UserProgress struct {
	SignsLearned      int           `json:"signsLearned"`
	GuessModeSigns    int           `json:"guessModeSigns"`
	PerformModeSigns  int           `json:"performModeSigns"`
	CurrentStreak     int           `json:"currentStreak"`
	CorrectInARow     int           `json:"correctInARow"`
	Accuracy          float64       `json:"accuracy"` // in [0,1]
	TotalAttempts     int           `json:"totalAttempts"`
	CorrectAttempts   int           `json:"correctAttempts"`
	TotalPracticeTime time.Duration `json:"totalPracticeTime"`
	Achievements      []Achievement `json:"achievements"`
	Activities        []ActivityLog `json:"activities"` // most-recent-first
}

// NewUserProgress returns the zero-state aggregate used on first run or
// when the persisted document cannot be read.
func NewUserProgress() UserProgress {
	return UserProgress{
		Achievements: []Achievement{},
		Activities:   []ActivityLog{},
	}
}

// LastActivity returns the most recent entry, if any.
func (p UserProgress) LastActivity() (ActivityLog, bool) {
	if len(p.Activities) == 0 {
		return ActivityLog{}, false
	}
	return p.Activities[0], true
}
