package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

const paymentColumns = `
	id, booking_id, external_ref, client_secret, settlement_ref, refund_ref,
	amount, currency, status, error_message, created_at, updated_at`

func (p *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			booking_id,
			external_ref,
			client_secret,
			amount,
			currency,
			status,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := conn(ctx, p.db).QueryRow(
		ctx,
		query,
		payment.BookingID,
		payment.ExternalRef,
		payment.ClientSecret,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.CreatedAt,
		payment.UpdatedAt,
	).Scan(&payment.ID)

	if isUniqueViolation(err, "") {
		return domain.ErrDuplicatePayment
	}

	return err
}

func (p *PostgresPaymentRepository) GetByBookingID(ctx context.Context, bookingID int) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1`
	return scanPayment(conn(ctx, p.db).QueryRow(ctx, query, bookingID))
}

func (p *PostgresPaymentRepository) GetByExternalRef(ctx context.Context, externalRef string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE external_ref = $1`
	return scanPayment(conn(ctx, p.db).QueryRow(ctx, query, externalRef))
}

func (p *PostgresPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $1,
			settlement_ref = $2,
			refund_ref = $3,
			error_message = $4,
			updated_at = $5
		WHERE id = $6
	`

	tag, err := conn(ctx, p.db).Exec(
		ctx,
		query,
		payment.Status,
		payment.SettlementRef,
		payment.RefundRef,
		payment.ErrorMsg,
		payment.UpdatedAt,
		payment.ID,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment

	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.ExternalRef,
		&payment.ClientSecret,
		&payment.SettlementRef,
		&payment.RefundRef,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.ErrorMsg,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return &payment, nil
}
