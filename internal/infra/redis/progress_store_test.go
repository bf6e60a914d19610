package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"signparty-service/internal/domain"
)

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestProgressStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewProgressStore(newClient(mr), "u1")
	ctx := context.Background()

	in := domain.NewUserProgress()
	in.SignsLearned = 12
	in.CurrentStreak = 2
	in.Activities = []domain.ActivityLog{
		{ID: "a1", Timestamp: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC), Score: "+1", Type: domain.ActivityPractice},
	}

	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("signparty:progress:u1") {
		t.Fatalf("expected progress key in redis")
	}

	out, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.SignsLearned != 12 || out.CurrentStreak != 2 || len(out.Activities) != 1 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestProgressStoreMissingKeyDefaults(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewProgressStore(newClient(mr), "fresh")
	progress, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if progress.SignsLearned != 0 || len(progress.Activities) != 0 {
		t.Fatalf("expected defaults, got %+v", progress)
	}
}

func TestProgressStoreKeysAreScopedPerUser(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	ctx := context.Background()

	a := NewProgressStore(client, "a")
	b := NewProgressStore(client, "b")

	pa := domain.NewUserProgress()
	pa.SignsLearned = 5
	if err := a.Save(ctx, pa); err != nil {
		t.Fatalf("save: %v", err)
	}

	pb, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if pb.SignsLearned != 0 {
		t.Fatalf("expected user b untouched, got %+v", pb)
	}
}
