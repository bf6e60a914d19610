package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"signparty-service/internal/domain"
)

type stubProgressStore struct {
	progress domain.UserProgress
	loadErr  error
	saveErr  error
	saves    int
}

func (s *stubProgressStore) Load(context.Context) (domain.UserProgress, error) {
	return s.progress, s.loadErr
}

func (s *stubProgressStore) Save(_ context.Context, p domain.UserProgress) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.progress = p
	s.saves++
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testDay = time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

func newTestProgress(store *stubProgressStore, now time.Time) *ProgressService {
	return NewProgressServiceWithClock(context.Background(), store, nil, fixedClock(now))
}

func unlockedAt(id string, when time.Time) domain.Achievement {
	return domain.Achievement{ID: id, IsUnlocked: true, UnlockedDate: &when}
}

func TestSigns50UnlocksOnce(t *testing.T) {
	earlier := testDay.AddDate(0, 0, -30)
	store := &stubProgressStore{progress: domain.UserProgress{
		SignsLearned: 49,
		Achievements: []domain.Achievement{
			unlockedAt("FIRST_SIGN", earlier),
			unlockedAt("SIGNS_10", earlier),
		},
	}}
	svc := newTestProgress(store, testDay)

	err := svc.LogActivity(context.Background(), domain.ActivityLog{
		Description: "Practiced the sign \"Dog\"",
		Score:       "+1",
		Type:        domain.ActivityPractice,
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	p := svc.Progress()
	if p.SignsLearned != 50 {
		t.Fatalf("expected 50 signs learned, got %d", p.SignsLearned)
	}

	var signs50 *domain.Achievement
	for i := range p.Achievements {
		if p.Achievements[i].ID == "SIGNS_50" {
			signs50 = &p.Achievements[i]
		}
	}
	if signs50 == nil || !signs50.IsUnlocked {
		t.Fatalf("expected SIGNS_50 unlocked, got %+v", signs50)
	}
	if signs50.UnlockedDate == nil || !signs50.UnlockedDate.Equal(testDay) {
		t.Fatalf("expected unlock date stamped, got %v", signs50.UnlockedDate)
	}
	if signs50.ProgressCurrent != 50 {
		t.Fatalf("expected progress 50, got %d", signs50.ProgressCurrent)
	}

	announcements := 0
	for _, a := range p.Activities {
		if a.Type == domain.ActivityAchievement {
			announcements++
		}
	}
	if announcements != 1 {
		t.Fatalf("expected exactly one achievement activity, got %d", announcements)
	}
	if store.saves != 1 {
		t.Fatalf("expected a single persist for the transaction, got %d", store.saves)
	}
}

func TestAchievementSweepIsIdempotent(t *testing.T) {
	store := &stubProgressStore{progress: domain.UserProgress{SignsLearned: 12}}
	svc := newTestProgress(store, testDay)

	first := svc.sweepAchievementsLocked()
	if len(first) == 0 {
		t.Fatalf("expected initial sweep to unlock sign milestones")
	}
	second := svc.sweepAchievementsLocked()
	if len(second) != 0 {
		t.Fatalf("expected second sweep to unlock nothing, got %d", len(second))
	}
}

func TestProgressCurrentIsMonotone(t *testing.T) {
	store := &stubProgressStore{progress: domain.UserProgress{
		Achievements: []domain.Achievement{{ID: "SIGNS_50", ProgressCurrent: 30}},
	}}
	svc := newTestProgress(store, testDay)

	// Stats below the recorded progress must not pull it back.
	svc.mu.Lock()
	svc.sweepAchievementsLocked()
	svc.mu.Unlock()

	for _, a := range svc.Progress().Achievements {
		if a.ID == "SIGNS_50" && a.ProgressCurrent < 30 {
			t.Fatalf("progress regressed to %d", a.ProgressCurrent)
		}
	}
}

func TestStreakSameDayIsNoop(t *testing.T) {
	store := &stubProgressStore{progress: domain.UserProgress{
		CurrentStreak: 4,
		Activities: []domain.ActivityLog{
			{ID: "a1", Timestamp: testDay.Add(-2 * time.Hour), Type: domain.ActivityPractice},
		},
	}}
	svc := newTestProgress(store, testDay)

	for i := 0; i < 2; i++ {
		updated, err := svc.UpdateStreak(context.Background())
		if err != nil {
			t.Fatalf("update streak: %v", err)
		}
		if updated {
			t.Fatalf("call %d: expected no update on the same day", i+1)
		}
	}
	if got := svc.Progress().CurrentStreak; got != 4 {
		t.Fatalf("expected streak unchanged at 4, got %d", got)
	}
	if store.saves != 0 {
		t.Fatalf("expected no persistence for a no-op, got %d saves", store.saves)
	}
}

func TestStreakIncrementsAfterYesterday(t *testing.T) {
	store := &stubProgressStore{progress: domain.UserProgress{
		CurrentStreak: 2,
		Activities: []domain.ActivityLog{
			{ID: "a1", Timestamp: testDay.AddDate(0, 0, -1), Type: domain.ActivityPractice},
		},
	}}
	svc := newTestProgress(store, testDay)

	updated, err := svc.UpdateStreak(context.Background())
	if err != nil || !updated {
		t.Fatalf("expected streak update, got updated=%v err=%v", updated, err)
	}
	if got := svc.Progress().CurrentStreak; got != 3 {
		t.Fatalf("expected streak 3, got %d", got)
	}
}

func TestStreakResetsAfterGap(t *testing.T) {
	store := &stubProgressStore{progress: domain.UserProgress{
		CurrentStreak: 9,
		Activities: []domain.ActivityLog{
			{ID: "a1", Timestamp: testDay.AddDate(0, 0, -5), Type: domain.ActivityPractice},
		},
	}}
	svc := newTestProgress(store, testDay)

	updated, err := svc.UpdateStreak(context.Background())
	if err != nil || !updated {
		t.Fatalf("expected streak update, got updated=%v err=%v", updated, err)
	}
	if got := svc.Progress().CurrentStreak; got != 1 {
		t.Fatalf("expected streak reset to 1, got %d", got)
	}
}

func TestRecordRoundUpdatesModeCounters(t *testing.T) {
	store := &stubProgressStore{}
	svc := newTestProgress(store, testDay)
	ctx := context.Background()

	sign := domain.SignEntry{VideoRef: "dog.mp4", CorrectAnswer: "Dog"}
	if err := svc.RecordRound(ctx, sign, domain.ModeGuess, true); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := svc.RecordRound(ctx, sign, domain.ModePerform, true); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := svc.RecordRound(ctx, sign, domain.ModeGuess, false); err != nil {
		t.Fatalf("record: %v", err)
	}

	p := svc.Progress()
	if p.SignsLearned != 3 || p.GuessModeSigns != 2 || p.PerformModeSigns != 1 {
		t.Fatalf("unexpected counters %+v", p)
	}
	if p.CorrectInARow != 0 {
		t.Fatalf("expected correct-in-a-row reset, got %d", p.CorrectInARow)
	}
	if len(p.Activities) == 0 || p.Activities[0].Type != domain.ActivityPractice {
		t.Fatalf("expected practice activity first, got %+v", p.Activities)
	}
}

func TestQuizAccuracyFold(t *testing.T) {
	store := &stubProgressStore{}
	svc := newTestProgress(store, testDay)
	ctx := context.Background()

	// Fresh profile: the fold is skipped, raw counters still accumulate.
	if err := svc.RecordGameResult(ctx, domain.GameResult{
		Mode: domain.ModeGuess, CorrectCount: 8, TotalRounds: 10, Elapsed: 5 * time.Minute,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := svc.Progress()
	if p.Accuracy != 0 {
		t.Fatalf("expected fold skipped at zero signs learned, got %f", p.Accuracy)
	}
	if p.TotalAttempts != 10 || p.CorrectAttempts != 8 {
		t.Fatalf("expected raw counters 10/8, got %d/%d", p.TotalAttempts, p.CorrectAttempts)
	}
	if p.TotalPracticeTime != 5*time.Minute {
		t.Fatalf("expected practice time accumulated, got %v", p.TotalPracticeTime)
	}

	// With history behind it, the fold moves the running average.
	sign := domain.SignEntry{CorrectAnswer: "Dog"}
	if err := svc.RecordRound(ctx, sign, domain.ModeGuess, true); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := svc.RecordGameResult(ctx, domain.GameResult{
		Mode: domain.ModeGuess, CorrectCount: 10, TotalRounds: 10,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	p = svc.Progress()
	if p.Accuracy <= 0 || p.Accuracy > 1 {
		t.Fatalf("expected accuracy in (0,1], got %f", p.Accuracy)
	}
}

func TestActivityListCappedAt100(t *testing.T) {
	store := &stubProgressStore{}
	svc := newTestProgress(store, testDay)
	ctx := context.Background()

	for i := 0; i < domain.MaxActivities+20; i++ {
		entry := domain.ActivityLog{
			ID:          fmt.Sprintf("a%d", i),
			Description: "practice",
			Score:       "+1",
			Type:        domain.ActivityPractice,
		}
		if err := svc.LogActivity(ctx, entry); err != nil {
			t.Fatalf("log %d: %v", i, err)
		}
	}

	p := svc.Progress()
	if len(p.Activities) != domain.MaxActivities {
		t.Fatalf("expected %d activities, got %d", domain.MaxActivities, len(p.Activities))
	}
	// Most recent first.
	if p.Activities[0].ID != fmt.Sprintf("a%d", domain.MaxActivities+19) {
		t.Fatalf("expected newest entry first, got %s", p.Activities[0].ID)
	}
}

func TestLoadFailureFallsBackToDefaults(t *testing.T) {
	store := &stubProgressStore{loadErr: errors.New("disk gone")}
	svc := newTestProgress(store, testDay)

	p := svc.Progress()
	if p.SignsLearned != 0 || len(p.Activities) != 0 {
		t.Fatalf("expected fresh progress, got %+v", p)
	}
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	store := &stubProgressStore{saveErr: errors.New("disk full")}
	svc := newTestProgress(store, testDay)

	err := svc.LogActivity(context.Background(), domain.ActivityLog{
		Type: domain.ActivityPractice, Score: "+1", Description: "practice",
	})
	if err != nil {
		t.Fatalf("log must degrade, not fail: %v", err)
	}
	if svc.Progress().SignsLearned != 1 {
		t.Fatalf("expected in-memory state kept after save failure")
	}
}

func TestStreakActivityLoggedOnIncrement(t *testing.T) {
	store := &stubProgressStore{progress: domain.UserProgress{
		CurrentStreak: 1,
		Activities: []domain.ActivityLog{
			{ID: "a1", Timestamp: testDay.AddDate(0, 0, -1), Type: domain.ActivityPractice},
		},
	}}
	svc := newTestProgress(store, testDay)

	if err := svc.RecordRound(context.Background(), domain.SignEntry{CorrectAnswer: "Dog"}, domain.ModeGuess, true); err != nil {
		t.Fatalf("record: %v", err)
	}

	p := svc.Progress()
	if p.CurrentStreak != 2 {
		t.Fatalf("expected streak 2, got %d", p.CurrentStreak)
	}
	found := false
	for _, a := range p.Activities {
		if a.Type == domain.ActivityStreak {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a streak activity, got %+v", p.Activities)
	}
}
