package scheduler

import (
	"context"
	"sync"
	"time"

	subscriptionUsecases "github.com/subledger-inc/subledger/internal/application/subscription/usecases"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

// BillingScheduler periodically runs the billing sweep: every due active
// subscription is billed and its schedule advanced. Optional; deployments
// that bill on confirmed payments only leave it disabled.
type BillingScheduler struct {
	processBillingUC *subscriptionUsecases.ProcessBillingUseCase
	logger           logger.Interface
	stopChan         chan struct{}
	stopOnce         sync.Once
	wg               sync.WaitGroup
	interval         time.Duration
}

// NewBillingScheduler creates a new BillingScheduler
func NewBillingScheduler(
	processBillingUC *subscriptionUsecases.ProcessBillingUseCase,
	interval time.Duration,
	logger logger.Interface,
) *BillingScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &BillingScheduler{
		processBillingUC: processBillingUC,
		logger:           logger,
		stopChan:         make(chan struct{}),
		interval:         interval,
	}
}

// Start starts the scheduler
func (s *BillingScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting billing scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully
func (s *BillingScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping billing scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("billing scheduler stopped")
	})
}

func (s *BillingScheduler) runLoop(ctx context.Context) {
	// Sweep immediately on startup to catch anything that came due while down
	s.runSweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("billing scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

func (s *BillingScheduler) runSweep(ctx context.Context) {
	startTime := time.Now()

	report, err := s.processBillingUC.RunSweep(ctx)
	if err != nil {
		s.logger.Errorw("billing sweep failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if report.DueCount > 0 {
		s.logger.Infow("billing sweep processed due subscriptions",
			"due", report.DueCount,
			"billed", len(report.Billed),
			"failed", len(report.Failed),
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("no subscriptions due for billing",
			"duration", time.Since(startTime),
		)
	}
}
