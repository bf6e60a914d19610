package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"signparty-service/internal/domain"
)

// ProgressStore keeps the progress document as a single JSON blob in
// Redis, one key per user. The document is written in full on every
// update, mirroring the file backend.
type ProgressStore struct {
	client *redis.Client
	userID string
}

func NewProgressStore(client *redis.Client, userID string) *ProgressStore {
	return &ProgressStore{client: client, userID: userID}
}

func (s *ProgressStore) Load(ctx context.Context) (domain.UserProgress, error) {
	data, err := s.client.Get(ctx, s.key()).Bytes()
	if err == redis.Nil {
		return domain.NewUserProgress(), nil
	}
	if err != nil {
		return domain.UserProgress{}, fmt.Errorf("read progress: %w", err)
	}
	var progress domain.UserProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		return domain.UserProgress{}, fmt.Errorf("unmarshal progress: %w", err)
	}
	return progress, nil
}

func (s *ProgressStore) Save(ctx context.Context, progress domain.UserProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := s.client.Set(ctx, s.key(), data, 0).Err(); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

func (s *ProgressStore) key() string {
	return "signparty:progress:" + s.userID
}
