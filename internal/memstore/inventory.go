package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/metinatakli/cinex-booking/internal/domain"
)

type showArena struct {
	mu    sync.Mutex
	seats map[int]*domain.ShowSeat
}

type Inventory struct {
	mu    sync.RWMutex
	shows map[int]*showArena
}

func NewInventory() *Inventory {
	return &Inventory{shows: make(map[int]*showArena)}
}

func (i *Inventory) AddSeats(showID int, seats ...domain.ShowSeat) {
	i.mu.Lock()
	arena, ok := i.shows[showID]
	if !ok {
		arena = &showArena{seats: make(map[int]*domain.ShowSeat)}
		i.shows[showID] = arena
	}
	i.mu.Unlock()

	arena.mu.Lock()
	defer arena.mu.Unlock()

	for _, seat := range seats {
		seat.ShowID = showID
		if seat.Status == "" {
			seat.Status = domain.SeatStatusAvailable
		}
		arena.seats[seat.SeatID] = &seat
	}
}

func (i *Inventory) arena(showID int) *showArena {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.shows[showID]
}

func (i *Inventory) GetSeats(ctx context.Context, showID int, seatIDs []int) ([]domain.ShowSeat, error) {
	arena := i.arena(showID)
	if arena == nil {
		return nil, nil
	}

	arena.mu.Lock()
	defer arena.mu.Unlock()

	seats := make([]domain.ShowSeat, 0, len(seatIDs))
	for _, id := range seatIDs {
		if seat, ok := arena.seats[id]; ok {
			seats = append(seats, copySeat(seat))
		}
	}

	return seats, nil
}

func (i *Inventory) Layout(ctx context.Context, showID int) ([]domain.ShowSeat, error) {
	arena := i.arena(showID)
	if arena == nil {
		return nil, nil
	}

	arena.mu.Lock()
	seats := make([]domain.ShowSeat, 0, len(arena.seats))
	for _, seat := range arena.seats {
		seats = append(seats, copySeat(seat))
	}
	arena.mu.Unlock()

	sort.Slice(seats, func(a, b int) bool {
		if seats[a].Row != seats[b].Row {
			return seats[a].Row < seats[b].Row
		}
		return seats[a].Number < seats[b].Number
	})

	return seats, nil
}

func (i *Inventory) TryLock(ctx context.Context, showID int, seatIDs []int, token string) (domain.LockResult, error) {
	var result domain.LockResult

	arena := i.arena(showID)
	if arena == nil {
		result.Rejected = append(result.Rejected, seatIDs...)
		return result, nil
	}

	arena.mu.Lock()
	defer arena.mu.Unlock()

	for _, id := range seatIDs {
		seat, ok := arena.seats[id]
		if !ok || seat.Status != domain.SeatStatusAvailable {
			result.Rejected = append(result.Rejected, id)
			continue
		}

		owner := token
		seat.Status = domain.SeatStatusLocked
		seat.BookingRef = &owner
		result.Granted = append(result.Granted, id)
	}

	return result, nil
}

func (i *Inventory) Release(ctx context.Context, showID int, seatIDs []int, owner string) (int, error) {
	arena := i.arena(showID)
	if arena == nil {
		return 0, nil
	}

	arena.mu.Lock()
	defer arena.mu.Unlock()

	released := 0
	for _, id := range seatIDs {
		seat, ok := arena.seats[id]
		if !ok || seat.Status == domain.SeatStatusAvailable {
			continue
		}
		if owner != "" && (seat.BookingRef == nil || *seat.BookingRef != owner) {
			continue
		}

		seat.Status = domain.SeatStatusAvailable
		seat.BookingRef = nil
		released++
	}

	return released, nil
}

func (i *Inventory) Commit(ctx context.Context, showID int, seatIDs []int, bookingRef string) error {
	arena := i.arena(showID)
	if arena == nil {
		return fmt.Errorf("%w: show %d has no seats", domain.ErrInventory, showID)
	}

	arena.mu.Lock()
	defer arena.mu.Unlock()

	for _, id := range seatIDs {
		seat, ok := arena.seats[id]
		if !ok {
			return fmt.Errorf("%w: seat %d does not exist", domain.ErrInventory, id)
		}
		if seat.Status != domain.SeatStatusLocked || seat.BookingRef == nil || *seat.BookingRef != bookingRef {
			return fmt.Errorf("%w: seat %d is %s, not locked by %s", domain.ErrInventory, id, seat.Status, bookingRef)
		}
	}

	for _, id := range seatIDs {
		arena.seats[id].Status = domain.SeatStatusBooked
	}

	return nil
}

func (i *Inventory) CountAvailable(ctx context.Context, showID int) (int, error) {
	arena := i.arena(showID)
	if arena == nil {
		return 0, nil
	}

	arena.mu.Lock()
	defer arena.mu.Unlock()

	count := 0
	for _, seat := range arena.seats {
		if seat.Status == domain.SeatStatusAvailable {
			count++
		}
	}

	return count, nil
}

func copySeat(seat *domain.ShowSeat) domain.ShowSeat {
	c := *seat
	if seat.BookingRef != nil {
		ref := *seat.BookingRef
		c.BookingRef = &ref
	}
	return c
}
