package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

func (p *PostgresShowRepository) GetByID(ctx context.Context, id int) (*domain.Show, error) {
	query := `
		SELECT id, movie_title, theater_name, screen_name, start_time, status, currency
		FROM shows
		WHERE id = $1
	`

	var show domain.Show

	err := conn(ctx, p.db).QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.MovieTitle,
		&show.TheaterName,
		&show.ScreenName,
		&show.StartTime,
		&show.Status,
		&show.Currency,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	return &show, nil
}
