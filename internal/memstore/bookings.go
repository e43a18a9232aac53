package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/metinatakli/cinex-booking/internal/domain"
)

type Bookings struct {
	mu     sync.RWMutex
	nextID int
	byID   map[int]*domain.Booking
	byRef  map[string]int
}

func NewBookings() *Bookings {
	return &Bookings{
		byID:  make(map[int]*domain.Booking),
		byRef: make(map[string]int),
	}
}

func (s *Bookings) Create(ctx context.Context, booking *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byRef[booking.Reference]; ok {
		return domain.ErrDuplicateReference
	}

	s.nextID++
	booking.ID = s.nextID

	stored := copyBooking(booking)
	s.byID[booking.ID] = stored
	s.byRef[booking.Reference] = booking.ID

	return nil
}

func (s *Bookings) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byRef[reference]
	return ok, nil
}

func (s *Bookings) GetByID(ctx context.Context, id int) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return copyBooking(b), nil
}

// GetForUpdate needs no row lock here since TxManager serialises writers.
func (s *Bookings) GetForUpdate(ctx context.Context, id int) (*domain.Booking, error) {
	return s.GetByID(ctx, id)
}

func (s *Bookings) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	s.mu.RLock()
	id, ok := s.byRef[reference]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return s.GetByID(ctx, id)
}

func (s *Bookings) ListByUser(ctx context.Context, userID int) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]domain.Booking, 0)
	for _, b := range s.byID {
		if b.UserID == userID {
			bookings = append(bookings, *copyBooking(b))
		}
	}

	sortNewestFirst(bookings)
	return bookings, nil
}

func (s *Bookings) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]domain.Booking, 0)
	for _, b := range s.byID {
		if b.Status == domain.BookingStatusPending && b.CreatedAt.Before(cutoff) {
			bookings = append(bookings, *copyBooking(b))
		}
	}

	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})

	if limit > 0 && len(bookings) > limit {
		bookings = bookings[:limit]
	}

	return bookings, nil
}

func (s *Bookings) UpdateStatus(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.byID[booking.ID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	if stored.Status != from {
		return domain.ErrEditConflict
	}

	s.byID[booking.ID] = copyBooking(booking)
	return nil
}

func sortNewestFirst(bookings []domain.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		if bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].ID > bookings[j].ID
		}
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	c.SeatIDs = append([]int(nil), b.SeatIDs...)
	return &c
}
