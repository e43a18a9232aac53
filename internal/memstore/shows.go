package memstore

import (
	"context"
	"sync"

	"github.com/metinatakli/cinex-booking/internal/domain"
)

type Shows struct {
	mu    sync.RWMutex
	shows map[int]domain.Show
}

func NewShows() *Shows {
	return &Shows{shows: make(map[int]domain.Show)}
}

func (s *Shows) Put(show domain.Show) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shows[show.ID] = show
}

func (s *Shows) GetByID(ctx context.Context, id int) (*domain.Show, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	show, ok := s.shows[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return &show, nil
}
