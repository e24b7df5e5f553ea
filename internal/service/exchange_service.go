package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

// CreateExchangeInput is a new exchange request.
type CreateExchangeInput struct {
	ProviderID     string `json:"providerId" validate:"required"`
	SkillOffered   string `json:"skillOffered" validate:"required,min=2,max=100"`
	SkillRequested string `json:"skillRequested" validate:"required,min=2,max=100"`
	Message        string `json:"message" validate:"max=1000"`
}

// ExchangeUpdate carries a status change and/or a review. Nil fields are ignored.
type ExchangeUpdate struct {
	Status      *model.ExchangeStatus `json:"status" validate:"omitempty,oneof=pending accepted scheduled completed cancelled declined"`
	ScheduledAt *time.Time            `json:"scheduledAt"`
	Rating      *int                  `json:"rating" validate:"omitempty,min=1,max=5"`
	Review      *string               `json:"review" validate:"omitempty,max=500"`
}

// SendMessageInput is a chat message posted to an exchange.
type SendMessageInput struct {
	Content string            `json:"content" validate:"required,min=1,max=2000"`
	Type    model.MessageType `json:"type" validate:"omitempty,oneof=text schedule_proposal"`
}

// ExchangeService runs the exchange lifecycle and its chat.
type ExchangeService interface {
	Create(ctx context.Context, requesterID string, in CreateExchangeInput) (*model.SkillExchange, error)
	List(ctx context.Context, uid string, status model.ExchangeStatus, role repository.ExchangeRole) ([]model.SkillExchange, error)
	Get(ctx context.Context, uid string, id uuid.UUID) (*model.SkillExchange, error)
	Update(ctx context.Context, uid string, id uuid.UUID, upd ExchangeUpdate) (*model.SkillExchange, error)
	Messages(ctx context.Context, uid string, id uuid.UUID) ([]model.Message, error)
	SendMessage(ctx context.Context, uid string, id uuid.UUID, in SendMessageInput) (*model.Message, error)
	ExpireStale(ctx context.Context, ttl time.Duration) (int, error)
}

type exchangeService struct {
	exchanges     repository.ExchangeRepository
	users         repository.UserRepository
	messages      repository.MessageRepository
	notifications NotificationService
	cache         KeyInvalidator
	log           *zap.Logger
	now           func() time.Time
}

// NewExchangeService builds an ExchangeService.
func NewExchangeService(
	exchanges repository.ExchangeRepository,
	users repository.UserRepository,
	messages repository.MessageRepository,
	notifications NotificationService,
	cache KeyInvalidator,
	log *zap.Logger,
) ExchangeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &exchangeService{
		exchanges:     exchanges,
		users:         users,
		messages:      messages,
		notifications: notifications,
		cache:         cache,
		log:           log,
		now:           time.Now,
	}
}

func (s *exchangeService) Create(ctx context.Context, requesterID string, in CreateExchangeInput) (*model.SkillExchange, error) {
	if in.ProviderID == requesterID {
		return nil, apperrors.ErrSelfExchange
	}
	provider, err := s.users.FindByID(ctx, in.ProviderID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}

	ex := &model.SkillExchange{
		RequesterID:    requesterID,
		ProviderID:     provider.ID,
		SkillOffered:   strings.TrimSpace(in.SkillOffered),
		SkillRequested: strings.TrimSpace(in.SkillRequested),
		Message:        strings.TrimSpace(in.Message),
		Status:         model.ExchangeStatusPending,
	}
	if err := s.exchanges.Create(ctx, ex); err != nil {
		return nil, err
	}

	if ex.Message != "" {
		msg := &model.Message{ExchangeID: ex.ID, SenderID: requesterID, Content: ex.Message, Type: model.MessageTypeExchangeRequest}
		if err := s.messages.Create(ctx, msg); err != nil {
			s.log.Warn("store exchange request message", zap.String("exchange_id", ex.ID.String()), zap.Error(err))
		}
	}

	s.notify(ctx, provider.ID, model.NotificationExchangeRequest, "New exchange request",
		fmt.Sprintf("Someone wants to learn %s in exchange for %s.", ex.SkillRequested, ex.SkillOffered), ex)
	return ex, nil
}

func (s *exchangeService) notify(ctx context.Context, uid string, typ model.NotificationType, title, message string, ex *model.SkillExchange) {
	data := map[string]string{"exchangeId": ex.ID.String()}
	if err := s.notifications.Notify(ctx, uid, typ, title, message, data); err != nil {
		s.log.Warn("create notification", zap.String("user_id", uid), zap.String("type", string(typ)), zap.Error(err))
	}
}

func (s *exchangeService) List(ctx context.Context, uid string, status model.ExchangeStatus, role repository.ExchangeRole) ([]model.SkillExchange, error) {
	switch role {
	case repository.RoleAny, repository.RoleRequester, repository.RoleProvider:
	default:
		return nil, apperrors.Invalid("role must be requester or provider")
	}
	return s.exchanges.ListForUser(ctx, uid, status, role)
}

func (s *exchangeService) Get(ctx context.Context, uid string, id uuid.UUID) (*model.SkillExchange, error) {
	ex, err := s.exchanges.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrExchangeNotFound)
	}
	if !ex.IsParticipant(uid) {
		return nil, apperrors.ErrForbidden
	}
	return ex, nil
}

// checkTransition validates moving ex to next on behalf of uid.
func checkTransition(ex *model.SkillExchange, uid string, next model.ExchangeStatus, scheduledAt *time.Time) error {
	if ex.Status.Terminal() {
		return apperrors.ErrExchangeClosed
	}
	switch ex.Status {
	case model.ExchangeStatusPending:
		switch next {
		case model.ExchangeStatusAccepted, model.ExchangeStatusDeclined:
			if uid != ex.ProviderID {
				return apperrors.New(apperrors.CodeForbidden, "Only the provider can accept or decline")
			}
			return nil
		case model.ExchangeStatusCancelled:
			return nil
		}
	case model.ExchangeStatusAccepted:
		switch next {
		case model.ExchangeStatusScheduled:
			if scheduledAt == nil {
				return apperrors.Invalid("scheduledAt is required to schedule an exchange")
			}
			return nil
		case model.ExchangeStatusCompleted, model.ExchangeStatusCancelled:
			return nil
		}
	case model.ExchangeStatusScheduled:
		switch next {
		case model.ExchangeStatusCompleted, model.ExchangeStatusCancelled:
			return nil
		}
	}
	return apperrors.ErrInvalidTransition.WithMeta("from", ex.Status).WithMeta("to", next)
}

func (s *exchangeService) Update(ctx context.Context, uid string, id uuid.UUID, upd ExchangeUpdate) (*model.SkillExchange, error) {
	var (
		result    *model.SkillExchange
		changedTo model.ExchangeStatus
		rated     bool
	)

	err := s.exchanges.WithTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		ex, err := tx.Exchanges.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, apperrors.ErrExchangeNotFound)
		}
		if !ex.IsParticipant(uid) {
			return apperrors.ErrForbidden
		}
		now := s.now()

		if upd.Status != nil && *upd.Status != ex.Status {
			next := *upd.Status
			if err := checkTransition(ex, uid, next, upd.ScheduledAt); err != nil {
				return err
			}
			ex.Status = next
			switch next {
			case model.ExchangeStatusScheduled:
				ex.ScheduledAt = upd.ScheduledAt
			case model.ExchangeStatusCompleted:
				ex.CompletedAt = &now
				if err := s.bumpExchangeCount(ctx, tx, ex.ProviderID); err != nil {
					return err
				}
				if err := s.bumpExchangeCount(ctx, tx, ex.RequesterID); err != nil {
					return err
				}
			}
			changedTo = next

			sys := &model.Message{ExchangeID: ex.ID, SenderID: uid, Type: model.MessageTypeSystem, Content: "Exchange " + string(next)}
			if err := tx.Messages.Create(ctx, sys); err != nil {
				return err
			}
		} else if upd.ScheduledAt != nil && ex.Status == model.ExchangeStatusScheduled {
			ex.ScheduledAt = upd.ScheduledAt
		}

		if upd.Rating != nil || upd.Review != nil {
			if err := s.applyReview(ctx, tx, ex, uid, upd); err != nil {
				return err
			}
			rated = true
		}

		if err := tx.Exchanges.Update(ctx, ex); err != nil {
			return err
		}
		result = ex
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case changedTo == model.ExchangeStatusCompleted:
		s.invalidateProfiles(ctx, result.ProviderID, result.RequesterID)
	case rated:
		s.invalidateProfiles(ctx, result.ProviderID)
	}

	switch changedTo {
	case model.ExchangeStatusAccepted:
		s.notify(ctx, result.RequesterID, model.NotificationExchangeAccepted, "Exchange accepted",
			fmt.Sprintf("Your request to learn %s was accepted.", result.SkillRequested), result)
	case model.ExchangeStatusDeclined:
		s.notify(ctx, result.RequesterID, model.NotificationExchangeDeclined, "Exchange declined",
			fmt.Sprintf("Your request to learn %s was declined.", result.SkillRequested), result)
	}
	if rated {
		s.notify(ctx, result.ProviderID, model.NotificationReviewReceived, "New review",
			fmt.Sprintf("You received a %d-star review for %s.", *result.Rating, result.SkillRequested), result)
	}
	return result, nil
}

// invalidateProfiles drops cached public profiles whose rating or exchange
// count changed in a committed transaction.
func (s *exchangeService) invalidateProfiles(ctx context.Context, uids ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(uids))
	for _, uid := range uids {
		keys = append(keys, publicUserKey(uid))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("invalidate public profiles", zap.Strings("user_ids", uids), zap.Error(err))
	}
}

func (s *exchangeService) bumpExchangeCount(ctx context.Context, tx repository.Tx, uid string) error {
	u, err := tx.Users.FindByIDForUpdate(ctx, uid)
	if err != nil {
		return notFound(err, apperrors.ErrUserNotFound)
	}
	return tx.Users.UpdateFields(ctx, uid, map[string]any{"total_exchanges": u.TotalExchanges + 1})
}

func (s *exchangeService) applyReview(ctx context.Context, tx repository.Tx, ex *model.SkillExchange, uid string, upd ExchangeUpdate) error {
	if uid != ex.RequesterID {
		return apperrors.New(apperrors.CodeForbidden, "Only the requester can rate an exchange")
	}
	if ex.Status != model.ExchangeStatusCompleted {
		return apperrors.Invalid("Only completed exchanges can be rated")
	}
	if ex.Rating != nil {
		return apperrors.ErrAlreadyRated
	}
	if upd.Rating == nil {
		return apperrors.Invalid("rating is required with a review")
	}
	r := *upd.Rating
	if r < 1 || r > 5 {
		return apperrors.Invalid("rating must be between 1 and 5")
	}
	ex.Rating = &r
	if upd.Review != nil {
		review := strings.TrimSpace(*upd.Review)
		if len([]rune(review)) > 500 {
			return apperrors.Invalid("review must be at most 500 characters")
		}
		ex.Review = review
	}

	provider, err := tx.Users.FindByIDForUpdate(ctx, ex.ProviderID)
	if err != nil {
		return notFound(err, apperrors.ErrUserNotFound)
	}
	count := provider.RatingCount + 1
	avg := (provider.Rating*float64(provider.RatingCount) + float64(r)) / float64(count)
	return tx.Users.UpdateFields(ctx, provider.ID, map[string]any{
		"rating":       roundTenth(avg),
		"rating_count": count,
	})
}

func (s *exchangeService) Messages(ctx context.Context, uid string, id uuid.UUID) ([]model.Message, error) {
	ex, err := s.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.messages.MarkRead(ctx, ex.ID, uid, s.now()); err != nil {
		s.log.Warn("mark messages read", zap.String("exchange_id", ex.ID.String()), zap.Error(err))
	}
	return s.messages.ListByExchange(ctx, ex.ID)
}

func (s *exchangeService) SendMessage(ctx context.Context, uid string, id uuid.UUID, in SendMessageInput) (*model.Message, error) {
	ex, err := s.Get(ctx, uid, id)
	if err != nil {
		return nil, err
	}
	if ex.Status.Terminal() {
		return nil, apperrors.ErrExchangeClosed
	}
	content := strings.TrimSpace(in.Content)
	if n := len([]rune(content)); n < 1 || n > 2000 {
		return nil, apperrors.Invalid("content must be between 1 and 2000 characters")
	}
	typ := in.Type
	if typ == "" {
		typ = model.MessageTypeText
	}
	if typ != model.MessageTypeText && typ != model.MessageTypeScheduleProposal {
		return nil, apperrors.Invalid("invalid message type")
	}

	msg := &model.Message{ExchangeID: ex.ID, SenderID: uid, Content: content, Type: typ}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.notify(ctx, ex.Counterpart(uid), model.NotificationMessageReceived, "New message", truncate(content, 120), ex)
	return msg, nil
}

// ExpireStale cancels pending exchanges created more than ttl ago.
func (s *exchangeService) ExpireStale(ctx context.Context, ttl time.Duration) (int, error) {
	stale, err := s.exchanges.ListPendingBefore(ctx, s.now().Add(-ttl))
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, candidate := range stale {
		var ex *model.SkillExchange
		err := s.exchanges.WithTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
			locked, err := tx.Exchanges.FindByIDForUpdate(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if locked.Status != model.ExchangeStatusPending {
				return nil
			}
			locked.Status = model.ExchangeStatusCancelled
			if err := tx.Exchanges.Update(ctx, locked); err != nil {
				return err
			}
			ex = locked
			return tx.Messages.Create(ctx, &model.Message{
				ExchangeID: locked.ID,
				SenderID:   locked.RequesterID,
				Type:       model.MessageTypeSystem,
				Content:    "This exchange request expired without a response and was cancelled.",
			})
		})
		if err != nil {
			s.log.Error("expire exchange", zap.String("exchange_id", candidate.ID.String()), zap.Error(err))
			continue
		}
		if ex == nil {
			continue
		}
		expired++
		msg := fmt.Sprintf("The exchange request for %s expired and was cancelled.", ex.SkillRequested)
		s.notify(ctx, ex.RequesterID, model.NotificationSystemAnnouncement, "Exchange expired", msg, ex)
		s.notify(ctx, ex.ProviderID, model.NotificationSystemAnnouncement, "Exchange expired", msg, ex)
	}
	return expired, nil
}
