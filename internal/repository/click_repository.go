package repository

import (
	"context"
	"fmt"
	"time"

	"shortlink/internal/models"
)

type ClickRepository interface {
	Record(ctx context.Context, click *models.Click) error
	// CountDailyByLink buckets clicks of one link by calendar day over
	// [start, end], both bounds inclusive. Days without clicks are absent.
	CountDailyByLink(ctx context.Context, linkID int64, start, end time.Time) ([]models.DailyClicks, error)
	// CountDailyByUser buckets clicks across all of a user's links over
	// the half-open interval [start, end).
	CountDailyByUser(ctx context.Context, userID int64, start, end time.Time) ([]models.DailyClicks, error)
	CountByLink(ctx context.Context, linkID int64) (int64, error)
}

type clickRepository struct {
	db *PostgresDB
}

func NewClickRepository(db *PostgresDB) ClickRepository {
	return &clickRepository{db: db}
}

func (r *clickRepository) Record(ctx context.Context, click *models.Click) error {
	query := `
		INSERT INTO clicks (link_id, clicked_at)
		VALUES ($1, $2)
	`

	_, err := r.db.Pool.Exec(ctx, query, click.LinkID, click.ClickedAt)
	if err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}

	return nil
}

func (r *clickRepository) CountDailyByLink(ctx context.Context, linkID int64, start, end time.Time) ([]models.DailyClicks, error) {
	query := `
		SELECT TO_CHAR(DATE(clicked_at), 'YYYY-MM-DD') AS day, COUNT(*)
		FROM clicks
		WHERE link_id = $1
			AND clicked_at >= $2
			AND clicked_at <= $3
		GROUP BY DATE(clicked_at)
		ORDER BY day
	`

	return r.queryDaily(ctx, query, linkID, start, end)
}

func (r *clickRepository) CountDailyByUser(ctx context.Context, userID int64, start, end time.Time) ([]models.DailyClicks, error) {
	query := `
		SELECT TO_CHAR(DATE(c.clicked_at), 'YYYY-MM-DD') AS day, COUNT(*)
		FROM clicks c
		JOIN links l ON l.id = c.link_id
		WHERE l.user_id = $1
			AND c.clicked_at >= $2
			AND c.clicked_at < $3
		GROUP BY DATE(c.clicked_at)
		ORDER BY day
	`

	return r.queryDaily(ctx, query, userID, start, end)
}

func (r *clickRepository) queryDaily(ctx context.Context, query string, id int64, start, end time.Time) ([]models.DailyClicks, error) {
	rows, err := r.db.Pool.Query(ctx, query, id, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily clicks: %w", err)
	}
	defer rows.Close()

	var stats []models.DailyClicks
	for rows.Next() {
		var day models.DailyClicks
		if err := rows.Scan(&day.ClickDate, &day.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily clicks: %w", err)
		}
		stats = append(stats, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily clicks: %w", err)
	}

	return stats, nil
}

func (r *clickRepository) CountByLink(ctx context.Context, linkID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM clicks WHERE link_id = $1`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, linkID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}

	return count, nil
}
