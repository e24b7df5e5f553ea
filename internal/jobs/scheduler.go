// Package jobs runs the periodic maintenance tasks of the API process.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	catalogSpec  = "@every 5m"
	expirySpec   = "@hourly"
	reminderSpec = "0 9 * * *"
	visitorsSpec = "0 0 1 * *"
	jobTimeout   = 2 * time.Minute
)

// CatalogBuilder rebuilds the cached skill catalog.
type CatalogBuilder interface {
	RebuildCatalog(ctx context.Context) (int, error)
}

// ExchangeExpirer cancels pending exchanges older than ttl.
type ExchangeExpirer interface {
	ExpireStale(ctx context.Context, ttl time.Duration) (int, error)
}

// InsuranceReminder notifies owners of policies nearing expiry.
type InsuranceReminder interface {
	SendReminders(ctx context.Context) (int, error)
}

// VisitorCounter restarts the monthly guru site visitor counts.
type VisitorCounter interface {
	ResetMonthlyVisitors(ctx context.Context) (int64, error)
}

// Scheduler owns the cron runner.
type Scheduler struct {
	cron       *cron.Cron
	skills     CatalogBuilder
	exchanges  ExchangeExpirer
	insurance  InsuranceReminder
	gurus      VisitorCounter
	pendingTTL time.Duration
	log        *zap.Logger
}

// New registers the catalog, exchange expiry, insurance reminder and visitor
// reset jobs. Nothing runs until Start.
func New(
	skills CatalogBuilder,
	exchanges ExchangeExpirer,
	insurance InsuranceReminder,
	gurus VisitorCounter,
	pendingTTL time.Duration,
	log *zap.Logger,
) (*Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cl := cronLogger{log: log.Sugar()}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		skills:     skills,
		exchanges:  exchanges,
		insurance:  insurance,
		gurus:      gurus,
		pendingTTL: pendingTTL,
		log:        log,
	}
	if _, err := s.cron.AddFunc(catalogSpec, s.RebuildCatalog); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(expirySpec, s.ExpireExchanges); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(reminderSpec, s.SendInsuranceReminders); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(visitorsSpec, s.ResetVisitors); err != nil {
		return nil, err
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop halts scheduling and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}

// RebuildCatalog refreshes the skill catalog cache.
func (s *Scheduler) RebuildCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.skills.RebuildCatalog(ctx)
	if err != nil {
		s.log.Error("catalog rebuild failed", zap.Error(err))
		return
	}
	s.log.Debug("catalog rebuilt", zap.Int("skills", n))
}

// ExpireExchanges cancels stale pending exchanges.
func (s *Scheduler) ExpireExchanges() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.exchanges.ExpireStale(ctx, s.pendingTTL)
	if err != nil {
		s.log.Error("exchange expiry failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("expired pending exchanges", zap.Int("count", n), zap.Duration("ttl", s.pendingTTL))
	}
}

// SendInsuranceReminders warns providers about policies close to expiry.
func (s *Scheduler) SendInsuranceReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.insurance.SendReminders(ctx)
	if err != nil {
		s.log.Error("insurance reminders failed", zap.Int("sent", n), zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("insurance reminders sent", zap.Int("count", n))
	}
}

// ResetVisitors starts a new month of guru site visitor counts.
func (s *Scheduler) ResetVisitors() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.gurus.ResetMonthlyVisitors(ctx); err != nil {
		s.log.Error("visitor reset failed", zap.Error(err))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
