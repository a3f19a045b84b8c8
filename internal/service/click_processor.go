package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"shortlink/internal/models"
)

const (
	defaultWorkerCount   = 3
	defaultChannelBuffer = 1000
)

// ClickProcessor decouples click recording from the redirect response.
// The redirect path enqueues an event and returns immediately; workers
// write the counter increment and the click row in the background.
// Recording failures are logged, never surfaced to the redirected client.
type ClickProcessor interface {
	Start()
	// Stop closes the queue and waits until every accepted event has
	// been processed.
	Stop()
	Enqueue(ctx context.Context, event *models.ClickEvent) error
}

type clickProcessor struct {
	links       LinkService
	logger      *zap.Logger
	events      chan *models.ClickEvent
	workerCount int
	wg          sync.WaitGroup
	stopOnce    sync.Once

	mu      sync.RWMutex
	stopped bool
}

func NewClickProcessor(links LinkService, logger *zap.Logger) ClickProcessor {
	return &clickProcessor{
		links:       links,
		logger:      logger,
		events:      make(chan *models.ClickEvent, defaultChannelBuffer),
		workerCount: defaultWorkerCount,
	}
}

func (p *clickProcessor) Start() {
	p.logger.Info("Starting click workers", zap.Int("count", p.workerCount))

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *clickProcessor) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		close(p.events)
	})
	p.wg.Wait()
	p.logger.Info("Click processor stopped")
}

func (p *clickProcessor) worker(id int) {
	defer p.wg.Done()

	for event := range p.events {
		p.process(event)
	}

	p.logger.Debug("Click worker drained", zap.Int("id", id))
}

func (p *clickProcessor) process(event *models.ClickEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.links.RecordClick(ctx, event.ShortCode); err != nil {
		p.logger.Error("Failed to record click",
			zap.String("short_code", event.ShortCode),
			zap.Error(err),
		)
	}
}

// Enqueue hands an event to the worker pool without blocking the
// request. When the buffer is full, or the processor is already
// stopped, the event is dropped with a warning; losing a statistic
// must not delay or fail the redirect.
func (p *clickProcessor) Enqueue(ctx context.Context, event *models.ClickEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		p.logger.Warn("Click processor stopped, event dropped",
			zap.String("short_code", event.ShortCode),
		)
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.events <- event:
		return nil
	default:
		p.logger.Warn("Click buffer full, event dropped",
			zap.String("short_code", event.ShortCode),
		)
		return nil
	}
}
