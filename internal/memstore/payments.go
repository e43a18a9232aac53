package memstore

import (
	"context"
	"sync"

	"github.com/metinatakli/cinex-booking/internal/domain"
)

type Payments struct {
	mu        sync.RWMutex
	nextID    int
	byID      map[int]*domain.Payment
	byBooking map[int]int
}

func NewPayments() *Payments {
	return &Payments{
		byID:      make(map[int]*domain.Payment),
		byBooking: make(map[int]int),
	}
}

func (s *Payments) Create(ctx context.Context, payment *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byBooking[payment.BookingID]; ok {
		return domain.ErrDuplicatePayment
	}

	s.nextID++
	payment.ID = s.nextID

	stored := *payment
	s.byID[payment.ID] = &stored
	s.byBooking[payment.BookingID] = payment.ID

	return nil
}

func (s *Payments) GetByBookingID(ctx context.Context, bookingID int) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byBooking[bookingID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	p := *s.byID[id]
	return &p, nil
}

func (s *Payments) GetByExternalRef(ctx context.Context, externalRef string) (*domain.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.byID {
		if p.ExternalRef == externalRef {
			c := *p
			return &c, nil
		}
	}

	return nil, domain.ErrRecordNotFound
}

func (s *Payments) Update(ctx context.Context, payment *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[payment.ID]; !ok {
		return domain.ErrRecordNotFound
	}

	stored := *payment
	s.byID[payment.ID] = &stored
	return nil
}
