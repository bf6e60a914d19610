package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"signparty-service/internal/domain"
)

// ProgressStore persists the full UserProgress document.
type ProgressStore interface {
	Load(ctx context.Context) (domain.UserProgress, error)
	Save(ctx context.Context, progress domain.UserProgress) error
}

// ProgressService tracks cumulative user statistics and evaluates
// achievement unlocks. Every logged activity runs as one transaction:
// stats fold, streak update, activity prepend, achievement sweep, then
// a single persist. The mutex keeps the read-modify-write cycle against
// the store single-writer.
type ProgressService struct {
	store ProgressStore
	log   *logrus.Logger
	now   func() time.Time
	newID func() string

	mu       sync.Mutex
	progress domain.UserProgress
}

// NewProgressService loads the persisted snapshot, falling back to a
// fresh aggregate when the store cannot be read.
func NewProgressService(ctx context.Context, store ProgressStore, log *logrus.Logger) *ProgressService {
	return NewProgressServiceWithClock(ctx, store, log, time.Now)
}

// NewProgressServiceWithClock is test-only for deterministic dates.
func NewProgressServiceWithClock(ctx context.Context, store ProgressStore, log *logrus.Logger, now func() time.Time) *ProgressService {
	if log == nil {
		log = logrus.New()
	}
	s := &ProgressService{
		store: store,
		log:   log,
		now:   now,
		newID: func() string { return uuid.New().String() },
	}
	progress, err := store.Load(ctx)
	if err != nil {
		log.WithError(err).Error("failed to load progress, starting fresh")
		progress = domain.NewUserProgress()
	}
	s.progress = progress
	return s
}

// Progress returns a copy of the current aggregate.
func (s *ProgressService) Progress() domain.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProgress(s.progress)
}

// Achievements returns the unlock table merged with stored state, in
// table order, so locked entries show their thresholds too.
func (s *ProgressService) Achievements() []domain.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Achievement, 0, len(achievementTable()))
	for _, spec := range achievementTable() {
		merged := domain.Achievement{
			ID:               spec.ID,
			Title:            spec.Title,
			Description:      spec.Description,
			IconName:         spec.IconName,
			ProgressRequired: spec.Required,
			ProgressCurrent:  spec.Progress(s.progress),
		}
		for _, a := range s.progress.Achievements {
			if a.ID == spec.ID {
				merged.IsUnlocked = a.IsUnlocked
				merged.UnlockedDate = a.UnlockedDate
				if a.ProgressCurrent > merged.ProgressCurrent {
					merged.ProgressCurrent = a.ProgressCurrent
				}
				break
			}
		}
		out = append(out, merged)
	}
	return out
}

// LogActivity appends an activity and folds it into the aggregate
// statistics. Practice entries count toward signs learned; quiz entries
// carry a "correct/total" score string that folds into the running
// accuracy. Persistence failures are logged, never fatal: the in-memory
// state stays authoritative until the next successful save.
func (s *ProgressService) LogActivity(ctx context.Context, entry domain.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordLocked(ctx, entry, nil)
	return nil
}

// RecordRound logs one answered round as a practice activity.
func (s *ProgressService) RecordRound(ctx context.Context, sign domain.SignEntry, mode domain.Mode, correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	verb := "Practiced"
	icon := "hands"
	if mode == domain.ModeGuess {
		verb = "Guessed"
		icon = "eye"
	}
	entry := domain.ActivityLog{
		Description: fmt.Sprintf("%s the sign %q", verb, sign.CorrectAnswer),
		IconName:    icon,
		Score:       "+1",
		Type:        domain.ActivityPractice,
	}
	s.recordLocked(ctx, entry, func(p *domain.UserProgress) {
		if mode == domain.ModePerform {
			p.PerformModeSigns++
		} else {
			p.GuessModeSigns++
		}
		if correct {
			p.CorrectInARow++
		} else {
			p.CorrectInARow = 0
		}
	})
	return nil
}

// RecordGameResult logs a finished session as a quiz activity and adds
// the session length to the total practice time.
func (s *ProgressService) RecordGameResult(ctx context.Context, result domain.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	label := "guess"
	if result.Mode == domain.ModePerform {
		label = "perform"
	}
	entry := domain.ActivityLog{
		Description: fmt.Sprintf("Finished a %s game", label),
		IconName:    "flag",
		Score:       fmt.Sprintf("%d/%d", result.CorrectCount, result.TotalRounds),
		Type:        domain.ActivityQuiz,
	}
	s.recordLocked(ctx, entry, func(p *domain.UserProgress) {
		p.TotalPracticeTime += result.Elapsed
	})
	return nil
}

// UpdateStreak advances the daily streak without logging a round. The
// first return value is false when the streak was already counted for
// today.
func (s *ProgressService) UpdateStreak(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.updateStreakLocked()
	if !updated {
		return false, nil
	}
	unlocked := s.sweepAchievementsLocked()
	s.announceLocked(unlocked)
	s.persistLocked(ctx)
	return true, nil
}

// recordLocked is the canonical end-of-round transaction.
func (s *ProgressService) recordLocked(ctx context.Context, entry domain.ActivityLog, apply func(*domain.UserProgress)) {
	p := &s.progress

	switch entry.Type {
	case domain.ActivityPractice:
		p.SignsLearned++
	case domain.ActivityQuiz:
		if correct, total, ok := parseQuizScore(entry.Score); ok {
			p.TotalAttempts += total
			p.CorrectAttempts += correct
			// Fold into the running average, weighted by how much history
			// is already behind it. Skipped on a fresh profile to avoid a
			// division by zero.
			if p.SignsLearned > 0 && total > 0 {
				ratio := float64(correct) / float64(total)
				p.Accuracy = (p.Accuracy*float64(p.SignsLearned) + ratio) / float64(p.SignsLearned+1)
			}
		}
	}
	if apply != nil {
		apply(p)
	}

	streakGrew := s.updateStreakLocked() && p.CurrentStreak > 1

	if entry.ID == "" {
		entry.ID = s.newID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	s.prependLocked(entry)

	if streakGrew {
		s.prependLocked(domain.ActivityLog{
			ID:          s.newID(),
			Description: fmt.Sprintf("%d-day practice streak", p.CurrentStreak),
			IconName:    "flame",
			Timestamp:   s.now(),
			Score:       fmt.Sprintf("+%d", p.CurrentStreak),
			Type:        domain.ActivityStreak,
		})
	}

	unlocked := s.sweepAchievementsLocked()
	s.announceLocked(unlocked)
	s.persistLocked(ctx)
}

// updateStreakLocked compares the newest activity's calendar date with
// today. Returns false when today is already counted.
func (s *ProgressService) updateStreakLocked() bool {
	today := dateOf(s.now())
	last, ok := s.progress.LastActivity()
	if !ok {
		s.progress.CurrentStreak = 1
		return true
	}
	lastDay := dateOf(last.Timestamp)
	switch {
	case lastDay.Equal(today):
		return false
	case lastDay.AddDate(0, 0, 1).Equal(today):
		s.progress.CurrentStreak++
		return true
	default:
		s.progress.CurrentStreak = 1
		return true
	}
}

// sweepAchievementsLocked evaluates the whole table once and returns
// the achievements that unlocked during this sweep. Unlocks latch, so
// running the sweep again without new activity is a no-op.
func (s *ProgressService) sweepAchievementsLocked() []domain.Achievement {
	var unlocked []domain.Achievement
	for _, spec := range achievementTable() {
		idx := -1
		for i := range s.progress.Achievements {
			if s.progress.Achievements[i].ID == spec.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			s.progress.Achievements = append(s.progress.Achievements, domain.Achievement{
				ID:               spec.ID,
				Title:            spec.Title,
				Description:      spec.Description,
				IconName:         spec.IconName,
				ProgressRequired: spec.Required,
			})
			idx = len(s.progress.Achievements) - 1
		}
		a := &s.progress.Achievements[idx]

		current := spec.Progress(s.progress)
		if current > a.ProgressCurrent {
			a.ProgressCurrent = current
		}
		if !a.IsUnlocked && current >= spec.Required {
			a.IsUnlocked = true
			when := s.now()
			a.UnlockedDate = &when
			unlocked = append(unlocked, *a)
		}
	}
	return unlocked
}

// announceLocked logs one achievement activity per fresh unlock. This
// replaces the recursive log-on-unlock chain: unlocks are collected
// first, announced once, and never re-evaluated in the same pass.
func (s *ProgressService) announceLocked(unlocked []domain.Achievement) {
	for _, a := range unlocked {
		s.prependLocked(domain.ActivityLog{
			ID:          s.newID(),
			Description: fmt.Sprintf("Unlocked %q", a.Title),
			IconName:    a.IconName,
			Timestamp:   s.now(),
			Score:       "★",
			Type:        domain.ActivityAchievement,
		})
	}
}

func (s *ProgressService) prependLocked(entry domain.ActivityLog) {
	s.progress.Activities = append([]domain.ActivityLog{entry}, s.progress.Activities...)
	if len(s.progress.Activities) > domain.MaxActivities {
		s.progress.Activities = s.progress.Activities[:domain.MaxActivities]
	}
}

// persistLocked writes the full snapshot. A failed write keeps the
// in-memory state; the next successful save reconciles.
func (s *ProgressService) persistLocked(ctx context.Context) {
	if err := s.store.Save(ctx, copyProgress(s.progress)); err != nil {
		s.log.WithError(err).Error("failed to persist progress")
	}
}

func parseQuizScore(score string) (correct, total int, ok bool) {
	if _, err := fmt.Sscanf(score, "%d/%d", &correct, &total); err != nil {
		return 0, 0, false
	}
	return correct, total, true
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func copyProgress(p domain.UserProgress) domain.UserProgress {
	out := p
	out.Achievements = append([]domain.Achievement(nil), p.Achievements...)
	out.Activities = append([]domain.ActivityLog(nil), p.Activities...)
	return out
}
