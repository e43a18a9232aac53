package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

const bookingColumns = `
	id, reference, user_id, show_id, seat_ids, total_amount, fee, final_amount, status,
	failure_reason, cancellation_reason, cancelled_at, created_at, updated_at`

func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (
			reference,
			user_id,
			show_id,
			seat_ids,
			total_amount,
			fee,
			final_amount,
			status,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := conn(ctx, p.db).QueryRow(
		ctx,
		query,
		booking.Reference,
		booking.UserID,
		booking.ShowID,
		booking.SeatIDs,
		booking.TotalAmount,
		booking.Fee,
		booking.FinalAmount,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	).Scan(&booking.ID)

	if isUniqueViolation(err, "bookings_reference_key") {
		return domain.ErrDuplicateReference
	}

	return err
}

func (p *PostgresBookingRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := conn(ctx, p.db).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE reference = $1)`, reference).
		Scan(&exists)
	return exists, err
}

func (p *PostgresBookingRepository) GetByID(ctx context.Context, id int) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(conn(ctx, p.db).QueryRow(ctx, query, id))
}

func (p *PostgresBookingRepository) GetForUpdate(ctx context.Context, id int) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return scanBooking(conn(ctx, p.db).QueryRow(ctx, query, id))
}

func (p *PostgresBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = $1`
	return scanBooking(conn(ctx, p.db).QueryRow(ctx, query, reference))
}

func (p *PostgresBookingRepository) ListByUser(ctx context.Context, userID int) ([]domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	return p.queryBookings(ctx, query, userID)
}

func (p *PostgresBookingRepository) ListExpiredPending(
	ctx context.Context,
	cutoff time.Time,
	limit int) ([]domain.Booking, error) {

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'PENDING' AND created_at < $1
		ORDER BY created_at
		LIMIT $2
	`

	return p.queryBookings(ctx, query, cutoff, limit)
}

func (p *PostgresBookingRepository) UpdateStatus(
	ctx context.Context,
	booking *domain.Booking,
	from domain.BookingStatus) error {

	query := `
		UPDATE bookings
		SET status = $1,
			failure_reason = $2,
			cancellation_reason = $3,
			cancelled_at = $4,
			updated_at = $5
		WHERE id = $6 AND status = $7
	`

	tag, err := conn(ctx, p.db).Exec(
		ctx,
		query,
		booking.Status,
		booking.FailureReason,
		booking.CancellationReason,
		booking.CancelledAt,
		booking.UpdatedAt,
		booking.ID,
		from,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEditConflict
	}

	return nil
}

func (p *PostgresBookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := conn(ctx, p.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, *booking)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking

	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.UserID,
		&b.ShowID,
		&b.SeatIDs,
		&b.TotalAmount,
		&b.Fee,
		&b.FinalAmount,
		&b.Status,
		&b.FailureReason,
		&b.CancellationReason,
		&b.CancelledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return &b, nil
}
