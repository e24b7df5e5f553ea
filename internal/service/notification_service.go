package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/notify"
	"yoohoo/internal/repository"
)

const mailTimeout = 30 * time.Second

// NotificationService creates and reads in-app notifications.
type NotificationService interface {
	Notify(ctx context.Context, uid string, typ model.NotificationType, title, message string, data map[string]string) error
	List(ctx context.Context, uid string, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, uid string, id uuid.UUID) error
	MarkAllRead(ctx context.Context, uid string) (int64, error)
}

type notificationService struct {
	repo   repository.NotificationRepository
	users  repository.UserRepository
	mailer notify.Mailer
	log    *zap.Logger
	// dispatch runs the email copy; tests replace it to run inline.
	dispatch func(func())
}

// NewNotificationService builds a NotificationService. mailer may be nil.
func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository, mailer notify.Mailer, log *zap.Logger) NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &notificationService{
		repo:     repo,
		users:    users,
		mailer:   mailer,
		log:      log,
		dispatch: func(f func()) { go f() },
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func (s *notificationService) Notify(ctx context.Context, uid string, typ model.NotificationType, title, message string, data map[string]string) error {
	n := &model.Notification{
		UserID:  uid,
		Type:    typ,
		Title:   truncate(title, 100),
		Message: truncate(message, 500),
		Data:    data,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	if s.mailer != nil {
		bg := context.WithoutCancel(ctx)
		s.dispatch(func() { s.sendCopy(bg, uid, n.Title, n.Message) })
	}
	return nil
}

func (s *notificationService) sendCopy(ctx context.Context, uid, title, message string) {
	ctx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()

	u, err := s.users.FindByID(ctx, uid)
	if err != nil || u.Email == "" {
		return
	}
	if err := s.mailer.Send(ctx, u.Email, title, message); err != nil {
		s.log.Warn("notification email failed", zap.String("user_id", uid), zap.Error(err))
	}
}

func (s *notificationService) List(ctx context.Context, uid string, unreadOnly bool) ([]model.Notification, error) {
	return s.repo.ListForUser(ctx, uid, unreadOnly)
}

func (s *notificationService) MarkRead(ctx context.Context, uid string, id uuid.UUID) error {
	return notFound(s.repo.MarkRead(ctx, id, uid), apperrors.ErrNotificationNotFound)
}

func (s *notificationService) MarkAllRead(ctx context.Context, uid string) (int64, error) {
	return s.repo.MarkAllRead(ctx, uid)
}
