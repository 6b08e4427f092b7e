package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	apployalty "github.com/washpoint/backend/internal/application/loyalty"
)

// SweepRunner runs one expiration pass as of the given time
type SweepRunner interface {
	Sweep(ctx context.Context, asOf time.Time) (*apployalty.SweepResult, error)
}

// SweeperConfig holds configuration for the expiration sweeper
type SweeperConfig struct {
	// Interval is how often a sweep pass runs
	Interval time.Duration

	// SweepTimeout bounds how long a single pass may take
	SweepTimeout time.Duration
}

// DefaultSweeperConfig returns default sweeper configuration
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval:     time.Hour,
		SweepTimeout: 10 * time.Minute,
	}
}

// ExpirationSweeper periodically expires overdue loyalty points. Each pass
// walks the wallets holding earn entries past their expiry and debits them
// through the regular wallet apply path, so expiration shows up in the ledger
// like any other movement.
type ExpirationSweeper struct {
	config SweeperConfig
	runner SweepRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	sweeping  bool
}

// NewExpirationSweeper creates a new expiration sweeper
func NewExpirationSweeper(config SweeperConfig, runner SweepRunner, logger *zap.Logger) *ExpirationSweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultSweeperConfig().Interval
	}
	if config.SweepTimeout <= 0 {
		config.SweepTimeout = DefaultSweeperConfig().SweepTimeout
	}
	return &ExpirationSweeper{
		config: config,
		runner: runner,
		logger: logger,
	}
}

// Start starts the periodic sweep loop
func (s *ExpirationSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Expiration sweeper started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("sweep_timeout", s.config.SweepTimeout),
	)

	return nil
}

// Stop gracefully stops the sweep loop
func (s *ExpirationSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Expiration sweeper stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Expiration sweeper stop timed out")
		return ctx.Err()
	}
}

// TriggerNow runs a sweep pass immediately, outside the regular interval
func (s *ExpirationSweeper) TriggerNow(ctx context.Context) (*apployalty.SweepResult, error) {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil, ErrSweeperNotRunning
	}
	if s.sweeping {
		s.mu.Unlock()
		return nil, ErrSweepInProgress
	}
	s.mu.Unlock()

	return s.sweep(ctx)
}

// runLoop runs sweep passes on the configured interval
func (s *ExpirationSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.sweep(ctx); err != nil {
				s.logger.Error("Expiration sweep failed", zap.Error(err))
			}
		}
	}
}

// sweep runs a single pass with the configured timeout
func (s *ExpirationSweeper) sweep(ctx context.Context) (*apployalty.SweepResult, error) {
	s.mu.Lock()
	if s.sweeping {
		s.mu.Unlock()
		return nil, ErrSweepInProgress
	}
	s.sweeping = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sweeping = false
		s.mu.Unlock()
	}()

	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	return s.runner.Sweep(sweepCtx, time.Now())
}
