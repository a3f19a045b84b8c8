package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"shortlink/internal/models"
)

type LinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	GetByShortCode(ctx context.Context, code string) (*models.Link, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Link, error)
	IncrementClickCount(ctx context.Context, id int64) error
}

type linkRepository struct {
	db *PostgresDB
}

func NewLinkRepository(db *PostgresDB) LinkRepository {
	return &linkRepository{db: db}
}

// Create inserts the mapping. The unique constraint on short_code is
// the backstop for concurrent generation of the same code; callers
// retry with a fresh code on ErrCodeExists.
func (r *linkRepository) Create(ctx context.Context, link *models.Link) error {
	query := `
		INSERT INTO links (user_id, original_url, short_code, click_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(
		ctx,
		query,
		link.UserID,
		link.OriginalURL,
		link.ShortCode,
		link.ClickCount,
		link.CreatedAt,
	).Scan(&link.ID, &link.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrCodeExists
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

func (r *linkRepository) GetByShortCode(ctx context.Context, code string) (*models.Link, error) {
	query := `
		SELECT l.id, l.user_id, u.username, l.original_url, l.short_code, l.click_count, l.created_at
		FROM links l
		JOIN users u ON u.id = l.user_id
		WHERE l.short_code = $1
	`

	link := &models.Link{}
	err := r.db.Pool.QueryRow(ctx, query, code).Scan(
		&link.ID,
		&link.UserID,
		&link.Username,
		&link.OriginalURL,
		&link.ShortCode,
		&link.ClickCount,
		&link.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

func (r *linkRepository) ListByUser(ctx context.Context, userID int64) ([]models.Link, error) {
	query := `
		SELECT l.id, l.user_id, u.username, l.original_url, l.short_code, l.click_count, l.created_at
		FROM links l
		JOIN users u ON u.id = l.user_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		var link models.Link
		if err := rows.Scan(
			&link.ID,
			&link.UserID,
			&link.Username,
			&link.OriginalURL,
			&link.ShortCode,
			&link.ClickCount,
			&link.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

func (r *linkRepository) IncrementClickCount(ctx context.Context, id int64) error {
	query := `UPDATE links SET click_count = click_count + 1 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment click count: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}
