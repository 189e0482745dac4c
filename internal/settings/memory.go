package settings

import (
	"context"
	"sync"
)

// MemoryRepository keeps settings in process memory.
type MemoryRepository struct {
	mu    sync.Mutex
	saved *Settings
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Load(ctx context.Context) (Settings, error) {
	if err := ctx.Err(); err != nil {
		return Settings{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved == nil {
		return Settings{}, ErrNotFound
	}
	return *r.saved, nil
}

func (r *MemoryRepository) Save(ctx context.Context, s Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = &s
	return nil
}
