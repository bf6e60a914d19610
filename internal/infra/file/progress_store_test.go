package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"signparty-service/internal/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store := NewProgressStore(filepath.Join(t.TempDir(), "progress.json"))

	progress, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if progress.SignsLearned != 0 || len(progress.Activities) != 0 {
		t.Fatalf("expected defaults, got %+v", progress)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "progress.json")
	store := NewProgressStore(path)
	ctx := context.Background()

	when := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	in := domain.NewUserProgress()
	in.SignsLearned = 42
	in.CurrentStreak = 3
	in.Accuracy = 0.85
	in.TotalPracticeTime = 90 * time.Minute
	in.Achievements = []domain.Achievement{
		{ID: "SIGNS_10", IsUnlocked: true, UnlockedDate: &when, ProgressCurrent: 42, ProgressRequired: 10},
	}
	in.Activities = []domain.ActivityLog{
		{ID: "a1", Description: "Guessed the sign \"Dog\"", Timestamp: when, Score: "+1", Type: domain.ActivityPractice},
	}

	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.SignsLearned != 42 || out.CurrentStreak != 3 || out.TotalPracticeTime != 90*time.Minute {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if len(out.Achievements) != 1 || !out.Achievements[0].IsUnlocked {
		t.Fatalf("achievements mismatch: %+v", out.Achievements)
	}
	if len(out.Activities) != 1 || out.Activities[0].Type != domain.ActivityPractice {
		t.Fatalf("activities mismatch: %+v", out.Activities)
	}
}

// Field names are matched case-insensitively on read, so documents
// written by other tooling still load.
func TestLoadCaseInsensitiveFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	doc := `{"SIGNSLEARNED": 7, "currentstreak": 2, "ACCURACY": 0.5}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	progress, err := NewProgressStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if progress.SignsLearned != 7 || progress.CurrentStreak != 2 || progress.Accuracy != 0.5 {
		t.Fatalf("expected case-insensitive read, got %+v", progress)
	}
}

func TestLoadCorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewProgressStore(path).Load(context.Background()); err == nil {
		t.Fatalf("expected error for corrupt document")
	}
}
