// Package monitor periodically checks the triple store.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const checkTimeout = 30 * time.Second

// Pinger checks that the store answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// TripleCounter counts the triples of the default graph
type TripleCounter interface {
	TripleCount(ctx context.Context) (int, error)
}

// Sink receives every check result
type Sink interface {
	SetStoreStatus(up bool, triples int)
}

// Status is the result of one check
type Status struct {
	Up        bool      `json:"up"`
	Triples   int       `json:"triples"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Service runs the store check on a cron schedule
type Service struct {
	pinger  Pinger
	counter TripleCounter
	sink    Sink
	logger  *slog.Logger
	cron    *cron.Cron

	mu      sync.RWMutex
	last    Status
	checked bool
}

// NewService creates a monitor. sink may be nil.
func NewService(pinger Pinger, counter TripleCounter, sink Sink, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		pinger:  pinger,
		counter: counter,
		sink:    sink,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start schedules the check and runs it once right away
func (s *Service) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		s.Check(ctx)
	}); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info("store monitor started", "schedule", schedule)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		s.Check(ctx)
	}()
	return nil
}

// Stop stops the scheduler and waits for a running check
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("store monitor stopped")
}

// Check pings the store and, when it answers, counts its triples
func (s *Service) Check(ctx context.Context) Status {
	status := Status{CheckedAt: time.Now().UTC()}

	if err := s.pinger.Ping(ctx); err != nil {
		status.Error = err.Error()
	} else {
		status.Up = true
		n, err := s.counter.TripleCount(ctx)
		if err != nil {
			status.Error = err.Error()
			s.logger.Warn("triple count failed", "error", err)
		} else {
			status.Triples = n
		}
	}

	if s.sink != nil {
		s.sink.SetStoreStatus(status.Up, status.Triples)
	}
	s.record(status)
	return status
}

// Last returns the latest check result; ok is false before the first check.
func (s *Service) Last() (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.checked
}

func (s *Service) record(status Status) {
	s.mu.Lock()
	prev, checked := s.last, s.checked
	s.last, s.checked = status, true
	s.mu.Unlock()

	switch {
	case !status.Up && (!checked || prev.Up):
		s.logger.Error("triple store unreachable", "error", status.Error)
	case status.Up && checked && !prev.Up:
		s.logger.Info("triple store reachable again", "triples", status.Triples)
	case status.Up && (!checked || prev.Triples != status.Triples):
		s.logger.Info("triple store size", "triples", status.Triples)
	}
}
