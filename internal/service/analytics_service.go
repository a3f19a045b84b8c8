package service

import (
	"context"
	"time"

	"shortlink/internal/models"
	"shortlink/internal/repository"
)

// AnalyticsService buckets recorded clicks by calendar day. Both
// operations are read-only; neither touches click counters. Days with
// zero clicks are absent from results; callers wanting zero-filled
// series synthesize them client-side.
type AnalyticsService interface {
	// DailyClicksForCode counts clicks of one code per day over
	// [start, end], both bounds inclusive.
	DailyClicksForCode(ctx context.Context, code string, start, end time.Time) ([]models.DailyClicks, error)
	// DailyClicksForUser counts clicks across all of a user's links,
	// expanding the date-only bounds to [start 00:00, end+1d 00:00).
	DailyClicksForUser(ctx context.Context, user *models.User, start, end time.Time) (map[string]int64, error)
}

type analyticsService struct {
	linkRepo  repository.LinkRepository
	clickRepo repository.ClickRepository
}

func NewAnalyticsService(linkRepo repository.LinkRepository, clickRepo repository.ClickRepository) AnalyticsService {
	return &analyticsService{
		linkRepo:  linkRepo,
		clickRepo: clickRepo,
	}
}

func (s *analyticsService) DailyClicksForCode(ctx context.Context, code string, start, end time.Time) ([]models.DailyClicks, error) {
	link, err := s.linkRepo.GetByShortCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return s.clickRepo.CountDailyByLink(ctx, link.ID, start, end)
}

func (s *analyticsService) DailyClicksForUser(ctx context.Context, user *models.User, start, end time.Time) (map[string]int64, error) {
	// start and end arrive as date-only midnights; the interval covers
	// the whole end day.
	daily, err := s.clickRepo.CountDailyByUser(ctx, user.ID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(daily))
	for _, day := range daily {
		totals[day.ClickDate] = day.Count
	}
	return totals, nil
}
