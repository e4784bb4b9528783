package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/classpoint/school-backend/pkg/config"
)

// SeederWorker drives the holiday seeder: one pass at startup, then on
// a fixed interval. The seeder itself is idempotent, so a pass that
// overlaps a previous one is harmless.
type SeederWorker struct {
	config config.SeederConfig
	seeder *HolidaySeeder
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSeederWorker creates a new seeder worker
func NewSeederWorker(cfg config.SeederConfig, seeder *HolidaySeeder, logger *zap.Logger) *SeederWorker {
	cfg.SetDefaults()
	return &SeederWorker{
		config: cfg,
		seeder: seeder,
		logger: logger.Named("seeder-worker"),
	}
}

// Start begins the worker in the background
func (w *SeederWorker) Start() {
	if !w.config.Enabled {
		w.logger.Info("Holiday seeder worker disabled")
		return
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.wg.Add(1)

	go w.run()

	w.logger.Info("Holiday seeder worker started",
		zap.Int("interval_hours", w.config.IntervalHours),
	)
}

// Stop gracefully stops the worker
func (w *SeederWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.logger.Info("Holiday seeder worker stopped")
}

// run is the main worker loop
func (w *SeederWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(time.Duration(w.config.IntervalHours) * time.Hour)
	defer ticker.Stop()

	// Run once immediately on startup
	w.reconcile()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.reconcile()
		}
	}
}

// reconcile performs a single seeding pass
func (w *SeederWorker) reconcile() {
	ctx, cancel := context.WithTimeout(w.ctx, 2*time.Minute)
	defer cancel()

	created, err := w.seeder.Reconcile(ctx, time.Now())
	if err != nil {
		w.logger.Error("Holiday reconcile pass failed",
			zap.Error(err),
		)
		return
	}

	w.logger.Debug("Completed holiday reconcile pass", zap.Int("created", created))
}

// RunOnce runs a single reconcile pass (useful for testing and the CLI)
func (w *SeederWorker) RunOnce(ctx context.Context, now time.Time) (int, error) {
	return w.seeder.Reconcile(ctx, now)
}
