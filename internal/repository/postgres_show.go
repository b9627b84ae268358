package repository

import (
	"context"
	"errors"

	"github.com/barisyildiz/cinema-booking-system/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

func (p *PostgresShowRepository) Create(ctx context.Context, show *domain.Show) error {
	query := `
		INSERT INTO shows (title, seat_rows, seats_per_row, price, starts_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	return p.db.QueryRow(
		ctx,
		query,
		show.Title,
		show.Rows,
		show.SeatsPerRow,
		show.Price,
		show.StartsAt,
	).Scan(&show.ID, &show.CreatedAt)
}

func (p *PostgresShowRepository) GetByID(ctx context.Context, id int64) (*domain.Show, error) {
	query := `
		SELECT id, title, seat_rows, seats_per_row, price, starts_at, created_at
		FROM shows
		WHERE id = $1
	`

	var show domain.Show

	err := p.db.QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.Title,
		&show.Rows,
		&show.SeatsPerRow,
		&show.Price,
		&show.StartsAt,
		&show.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &show, nil
}

func (p *PostgresShowRepository) GetUpcoming(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.Show, *domain.Metadata, error) {

	query := `
		SELECT COUNT(*) OVER(), id, title, seat_rows, seats_per_row, price, starts_at, created_at
		FROM shows
		WHERE starts_at > NOW()
		ORDER BY starts_at, id
		LIMIT $1 OFFSET $2
	`

	rows, err := p.db.Query(ctx, query, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	shows := make([]domain.Show, 0)
	totalRecords := 0

	for rows.Next() {
		var show domain.Show

		err := rows.Scan(
			&totalRecords,
			&show.ID,
			&show.Title,
			&show.Rows,
			&show.SeatsPerRow,
			&show.Price,
			&show.StartsAt,
			&show.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		shows = append(shows, show)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return shows, metadata, nil
}
