package memory

import (
	"context"
	"sync"

	"signparty-service/internal/domain"
)

// ProgressStore keeps the progress document in memory. Used when no
// persistence backend is configured, and in tests.
type ProgressStore struct {
	mu       sync.Mutex
	progress domain.UserProgress
	seeded   bool
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{}
}

// Seed preloads a document, mainly for tests.
func (s *ProgressStore) Seed(p domain.UserProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = p
	s.seeded = true
}

func (s *ProgressStore) Load(context.Context) (domain.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.seeded {
		return domain.NewUserProgress(), nil
	}
	return s.progress, nil
}

func (s *ProgressStore) Save(_ context.Context, p domain.UserProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = p
	s.seeded = true
	return nil
}
