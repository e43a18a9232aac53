package domain

import (
	"context"
	"time"
)

type ShowStatus string

const (
	ShowStatusUpcoming  ShowStatus = "UPCOMING"
	ShowStatusRunning   ShowStatus = "RUNNING"
	ShowStatusCompleted ShowStatus = "COMPLETED"
	ShowStatusCancelled ShowStatus = "CANCELLED"
)

type Show struct {
	ID          int
	MovieTitle  string
	TheaterName string
	ScreenName  string
	StartTime   time.Time
	Status      ShowStatus
	Currency    string
}

// Bookable reports whether seats of the show can still be reserved at now.
func (s *Show) Bookable(now time.Time) bool {
	if s.Status == ShowStatusCancelled || s.Status == ShowStatusCompleted {
		return false
	}

	return s.StartTime.After(now)
}

func (s *Show) Started(now time.Time) bool {
	return !s.StartTime.After(now)
}

type ShowRepository interface {
	GetByID(ctx context.Context, id int) (*Show, error)
}
