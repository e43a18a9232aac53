package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

// PostgresSeatInventory keeps seat state in show_seats. Every transition is a
// conditional UPDATE, so the row lock decides which concurrent caller wins.
type PostgresSeatInventory struct {
	db *pgxpool.Pool
}

func NewPostgresSeatInventory(db *pgxpool.Pool) *PostgresSeatInventory {
	return &PostgresSeatInventory{
		db: db,
	}
}

const showSeatColumns = `show_id, seat_id, seat_row, seat_number, status, price, booking_ref`

func (p *PostgresSeatInventory) GetSeats(ctx context.Context, showID int, seatIDs []int) ([]domain.ShowSeat, error) {
	query := `
		SELECT ` + showSeatColumns + `
		FROM show_seats
		WHERE show_id = $1 AND seat_id = ANY($2)
		ORDER BY seat_id
	`

	return p.querySeats(ctx, query, showID, seatIDs)
}

func (p *PostgresSeatInventory) Layout(ctx context.Context, showID int) ([]domain.ShowSeat, error) {
	query := `
		SELECT ` + showSeatColumns + `
		FROM show_seats
		WHERE show_id = $1
		ORDER BY seat_row, seat_number
	`

	return p.querySeats(ctx, query, showID)
}

func (p *PostgresSeatInventory) TryLock(
	ctx context.Context,
	showID int,
	seatIDs []int,
	token string) (domain.LockResult, error) {

	// Rows are locked in seat_id order so overlapping requests cannot deadlock.
	query := `
		WITH candidates AS (
			SELECT seat_id
			FROM show_seats
			WHERE show_id = $1 AND seat_id = ANY($2) AND status = 'AVAILABLE'
			ORDER BY seat_id
			FOR UPDATE
		)
		UPDATE show_seats s
		SET status = 'LOCKED', booking_ref = $3, updated_at = NOW()
		FROM candidates c
		WHERE s.show_id = $1 AND s.seat_id = c.seat_id AND s.status = 'AVAILABLE'
		RETURNING s.seat_id
	`

	rows, err := conn(ctx, p.db).Query(ctx, query, showID, seatIDs, token)
	if err != nil {
		return domain.LockResult{}, err
	}

	locked, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return domain.LockResult{}, err
	}

	granted := make(map[int]struct{}, len(locked))
	for _, id := range locked {
		granted[id] = struct{}{}
	}

	var result domain.LockResult
	for _, id := range seatIDs {
		if _, ok := granted[id]; ok {
			result.Granted = append(result.Granted, id)
		} else {
			result.Rejected = append(result.Rejected, id)
		}
	}

	return result, nil
}

func (p *PostgresSeatInventory) Release(ctx context.Context, showID int, seatIDs []int, owner string) (int, error) {
	query := `
		UPDATE show_seats
		SET status = 'AVAILABLE', booking_ref = NULL, updated_at = NOW()
		WHERE show_id = $1
			AND seat_id = ANY($2)
			AND status <> 'AVAILABLE'
			AND ($3::text = '' OR booking_ref = $3)
	`

	tag, err := conn(ctx, p.db).Exec(ctx, query, showID, seatIDs, owner)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

func (p *PostgresSeatInventory) Commit(ctx context.Context, showID int, seatIDs []int, bookingRef string) error {
	query := `
		UPDATE show_seats
		SET status = 'BOOKED', updated_at = NOW()
		WHERE show_id = $1 AND seat_id = ANY($2) AND status = 'LOCKED' AND booking_ref = $3
	`

	tag, err := conn(ctx, p.db).Exec(ctx, query, showID, seatIDs, bookingRef)
	if err != nil {
		return err
	}

	if int(tag.RowsAffected()) != len(seatIDs) {
		return fmt.Errorf("%w: only %d of %d seats of show %d are locked by %s",
			domain.ErrInventory, tag.RowsAffected(), len(seatIDs), showID, bookingRef)
	}

	return nil
}

func (p *PostgresSeatInventory) CountAvailable(ctx context.Context, showID int) (int, error) {
	query := `SELECT COUNT(*) FROM show_seats WHERE show_id = $1 AND status = 'AVAILABLE'`

	var count int
	err := conn(ctx, p.db).QueryRow(ctx, query, showID).Scan(&count)
	return count, err
}

func (p *PostgresSeatInventory) querySeats(ctx context.Context, query string, args ...any) ([]domain.ShowSeat, error) {
	rows, err := conn(ctx, p.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.ShowSeat, 0)

	for rows.Next() {
		var seat domain.ShowSeat

		err = rows.Scan(
			&seat.ShowID,
			&seat.SeatID,
			&seat.Row,
			&seat.Number,
			&seat.Status,
			&seat.Price,
			&seat.BookingRef,
		)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}
