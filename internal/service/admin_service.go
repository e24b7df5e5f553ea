package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/featureflags"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

// UserCounts are the user figures of the admin dashboard.
type UserCounts struct {
	Total       int64 `json:"total"`
	ActiveWeek  int64 `json:"activeLast7Days"`
	NewThisWeek int64 `json:"newThisWeek"`
}

// ExchangeTotals are the exchange figures of the admin dashboard.
type ExchangeTotals struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

// AdminDashboard summarises the platform for operators.
type AdminDashboard struct {
	Users                UserCounts      `json:"users"`
	Exchanges            ExchangeTotals  `json:"exchanges"`
	PendingDocuments     int64           `json:"pendingDocuments"`
	PendingBadgeRequests int64           `json:"pendingBadgeRequests"`
	Flags                map[string]bool `json:"flags"`
	GeneratedAt          time.Time       `json:"generatedAt"`
}

// AdminService serves the admin console: dashboard and feature flags.
type AdminService interface {
	Dashboard(ctx context.Context) (*AdminDashboard, error)
	PublicFlags() map[string]bool
	AllFlags() map[string]bool
	WritesEnabled() bool
	UpdateFlag(ctx context.Context, name string, enabled bool) error
}

type adminService struct {
	flags     *featureflags.Registry
	users     repository.UserRepository
	exchanges repository.ExchangeRepository
	documents repository.DocumentRepository
	badges    repository.BadgeRepository
	now       func() time.Time
	log       *zap.Logger
}

// NewAdminService builds an AdminService over the flag registry and the
// repositories it counts.
func NewAdminService(
	flags *featureflags.Registry,
	users repository.UserRepository,
	exchanges repository.ExchangeRepository,
	documents repository.DocumentRepository,
	badges repository.BadgeRepository,
	log *zap.Logger,
) AdminService {
	if log == nil {
		log = zap.NewNop()
	}
	return &adminService{
		flags:     flags,
		users:     users,
		exchanges: exchanges,
		documents: documents,
		badges:    badges,
		now:       time.Now,
		log:       log,
	}
}

func (s *adminService) Dashboard(ctx context.Context) (*AdminDashboard, error) {
	now := s.now()
	weekAgo := now.AddDate(0, 0, -7)
	d := &AdminDashboard{Flags: s.flags.All(), GeneratedAt: now}

	var err error
	if d.Users.Total, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if d.Users.ActiveWeek, err = s.users.CountActiveSince(ctx, weekAgo); err != nil {
		return nil, err
	}
	if d.Users.NewThisWeek, err = s.users.CountCreatedSince(ctx, weekAgo); err != nil {
		return nil, err
	}
	if d.Exchanges.Total, err = s.exchanges.CountByStatus(ctx, ""); err != nil {
		return nil, err
	}
	if d.Exchanges.Completed, err = s.exchanges.CountByStatus(ctx, model.ExchangeStatusCompleted); err != nil {
		return nil, err
	}
	if d.Exchanges.Pending, err = s.exchanges.CountByStatus(ctx, model.ExchangeStatusPending); err != nil {
		return nil, err
	}
	if d.PendingDocuments, err = s.documents.CountByStatus(ctx, model.ReviewPending); err != nil {
		return nil, err
	}
	if d.PendingBadgeRequests, err = s.badges.CountPendingRequests(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *adminService) PublicFlags() map[string]bool { return s.flags.Public() }

func (s *adminService) AllFlags() map[string]bool { return s.flags.All() }

func (s *adminService) WritesEnabled() bool {
	return s.flags.IsEnabled(featureflags.AdminWriteEnabled)
}

func (s *adminService) UpdateFlag(ctx context.Context, name string, enabled bool) error {
	if !s.WritesEnabled() {
		return apperrors.ErrAdminWriteDisabled
	}
	if !s.flags.Update(name, enabled) {
		return apperrors.ErrFlagNotFound.WithMeta("flag", name)
	}
	s.log.Info("feature flag updated", zap.String("flag", name), zap.Bool("enabled", enabled))
	return nil
}
