package mocks

import (
	"context"
	"sync"
	"time"

	"shortlink/internal/models"
	"shortlink/internal/repository"
)

// MockUserRepository implements repository.UserRepository for testing
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[string]*models.User
	nextID int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[string]*models.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return repository.ErrUserExists
		}
	}

	user.ID = m.nextID
	m.nextID++
	m.users[user.Username] = user
	return nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[username]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *MockUserRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[string]*models.User)
	m.nextID = 1
}

// MockLinkRepository implements repository.LinkRepository for testing
type MockLinkRepository struct {
	mu     sync.RWMutex
	links  map[string]*models.Link
	nextID int64

	// ForceCollision makes every Create fail with ErrCodeExists,
	// simulating an exhausted code space.
	ForceCollision bool
}

func NewMockLinkRepository() *MockLinkRepository {
	return &MockLinkRepository{
		links:  make(map[string]*models.Link),
		nextID: 1,
	}
}

func (m *MockLinkRepository) Create(ctx context.Context, link *models.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ForceCollision {
		return repository.ErrCodeExists
	}
	if _, exists := m.links[link.ShortCode]; exists {
		return repository.ErrCodeExists
	}

	link.ID = m.nextID
	m.nextID++
	m.links[link.ShortCode] = link
	return nil
}

func (m *MockLinkRepository) GetByShortCode(ctx context.Context, code string) (*models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, exists := m.links[code]
	if !exists {
		return nil, repository.ErrLinkNotFound
	}
	copied := *link
	return &copied, nil
}

func (m *MockLinkRepository) ListByUser(ctx context.Context, userID int64) ([]models.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var links []models.Link
	for _, link := range m.links {
		if link.UserID == userID {
			links = append(links, *link)
		}
	}
	return links, nil
}

func (m *MockLinkRepository) IncrementClickCount(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, link := range m.links {
		if link.ID == id {
			link.ClickCount++
			return nil
		}
	}
	return repository.ErrLinkNotFound
}

func (m *MockLinkRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = make(map[string]*models.Link)
	m.nextID = 1
	m.ForceCollision = false
}

// MockClickRepository implements repository.ClickRepository for testing
type MockClickRepository struct {
	mu     sync.RWMutex
	clicks []*models.Click
	owners map[int64]int64 // link_id -> user_id, set by tests
	nextID int64
}

func NewMockClickRepository() *MockClickRepository {
	return &MockClickRepository{
		owners: make(map[int64]int64),
		nextID: 1,
	}
}

// SetOwner registers the owning user of a link so CountDailyByUser can
// scope results the way the SQL join does.
func (m *MockClickRepository) SetOwner(linkID, userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[linkID] = userID
}

func (m *MockClickRepository) Record(ctx context.Context, click *models.Click) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	click.ID = m.nextID
	m.nextID++
	m.clicks = append(m.clicks, click)
	return nil
}

func (m *MockClickRepository) CountDailyByLink(ctx context.Context, linkID int64, start, end time.Time) ([]models.DailyClicks, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int64)
	for _, click := range m.clicks {
		if click.LinkID != linkID {
			continue
		}
		if click.ClickedAt.Before(start) || click.ClickedAt.After(end) {
			continue
		}
		counts[click.ClickedAt.Format("2006-01-02")]++
	}
	return toDaily(counts), nil
}

func (m *MockClickRepository) CountDailyByUser(ctx context.Context, userID int64, start, end time.Time) ([]models.DailyClicks, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int64)
	for _, click := range m.clicks {
		if m.owners[click.LinkID] != userID {
			continue
		}
		if click.ClickedAt.Before(start) || !click.ClickedAt.Before(end) {
			continue
		}
		counts[click.ClickedAt.Format("2006-01-02")]++
	}
	return toDaily(counts), nil
}

func (m *MockClickRepository) CountByLink(ctx context.Context, linkID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, click := range m.clicks {
		if click.LinkID == linkID {
			count++
		}
	}
	return count, nil
}

func (m *MockClickRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks = nil
	m.owners = make(map[int64]int64)
	m.nextID = 1
}

func toDaily(counts map[string]int64) []models.DailyClicks {
	var stats []models.DailyClicks
	for day, count := range counts {
		stats = append(stats, models.DailyClicks{ClickDate: day, Count: count})
	}
	return stats
}
