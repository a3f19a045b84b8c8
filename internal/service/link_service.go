package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"shortlink/internal/models"
	"shortlink/internal/repository"
)

var (
	ErrEmptyURL           = errors.New("original URL cannot be empty")
	ErrCodeSpaceExhausted = errors.New("failed to generate a unique short code")
)

const (
	codeLength  = 8
	charset     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxAttempts = 10
)

type LinkService interface {
	Shorten(ctx context.Context, originalURL string, user *models.User) (*models.Link, error)
	Resolve(ctx context.Context, code string) (*models.Link, error)
	ListByUser(ctx context.Context, user *models.User) ([]models.Link, error)
	// RecordClick increments the click counter and appends a click row
	// for the given code. The two writes are sequential, not
	// transactional; the counter and the event log may transiently
	// diverge under concurrent load.
	RecordClick(ctx context.Context, code string) error
}

type linkService struct {
	linkRepo  repository.LinkRepository
	clickRepo repository.ClickRepository
	logger    *zap.Logger
}

func NewLinkService(linkRepo repository.LinkRepository, clickRepo repository.ClickRepository, logger *zap.Logger) LinkService {
	return &linkService{
		linkRepo:  linkRepo,
		clickRepo: clickRepo,
		logger:    logger,
	}
}

// Shorten creates a new mapping for originalURL owned by user. The same
// URL may be shortened repeatedly; each call produces a distinct code.
func (s *linkService) Shorten(ctx context.Context, originalURL string, user *models.User) (*models.Link, error) {
	if originalURL == "" {
		return nil, ErrEmptyURL
	}

	// Insert-and-retry: the generated code is overwhelmingly likely to
	// be free (62^8 space), and the unique constraint closes the
	// generate/insert race. A bounded attempt count keeps a pathological
	// collision streak from looping forever.
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := generateShortCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}

		link := &models.Link{
			UserID:      user.ID,
			Username:    user.Username,
			OriginalURL: originalURL,
			ShortCode:   code,
			ClickCount:  0,
			CreatedAt:   time.Now(),
		}

		err = s.linkRepo.Create(ctx, link)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, repository.ErrCodeExists) {
			return nil, err
		}

		s.logger.Warn("Short code collision, retrying",
			zap.String("code", code),
			zap.Int("attempt", attempt+1),
		)
	}

	return nil, ErrCodeSpaceExhausted
}

func (s *linkService) Resolve(ctx context.Context, code string) (*models.Link, error) {
	return s.linkRepo.GetByShortCode(ctx, code)
}

func (s *linkService) ListByUser(ctx context.Context, user *models.User) ([]models.Link, error) {
	return s.linkRepo.ListByUser(ctx, user.ID)
}

func (s *linkService) RecordClick(ctx context.Context, code string) error {
	link, err := s.linkRepo.GetByShortCode(ctx, code)
	if err != nil {
		return err
	}

	if err := s.linkRepo.IncrementClickCount(ctx, link.ID); err != nil {
		return err
	}

	click := &models.Click{
		LinkID:    link.ID,
		ClickedAt: time.Now(),
	}
	return s.clickRepo.Record(ctx, click)
}

// generateShortCode draws codeLength independent uniform symbols from
// the 62-symbol alphabet. crypto/rand keeps codes non-guessable, so
// unlisted links cannot be enumerated.
func generateShortCode() (string, error) {
	code := make([]byte, codeLength)
	alphabetLen := big.NewInt(int64(len(charset)))

	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		code[i] = charset[n.Int64()]
	}

	return string(code), nil
}
