package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrEditConflict        = errors.New("edit conflict")
	ErrDuplicateReference  = errors.New("booking reference already exists")
	ErrDuplicatePayment    = errors.New("payment already exists for booking")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrSeatUnavailable     = errors.New("seat(s) are not available")
	ErrUnauthorized        = errors.New("booking belongs to another user")
	ErrIllegalBookingState = errors.New("illegal booking state transition")
	ErrPayment             = errors.New("payment error")
	ErrInventory           = errors.New("seat inventory inconsistency")
)

// SeatUnavailableError names exactly the requested seats that could not be
// locked.
type SeatUnavailableError struct {
	SeatIDs []int
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat(s) %v are not available", e.SeatIDs)
}

func (e *SeatUnavailableError) Is(target error) bool {
	return target == ErrSeatUnavailable
}

type IllegalStateError struct {
	Current   BookingStatus
	Attempted BookingStatus
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("cannot move booking from %s to %s", e.Current, e.Attempted)
}

func (e *IllegalStateError) Is(target error) bool {
	return target == ErrIllegalBookingState
}
