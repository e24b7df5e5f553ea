package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yoohoo/internal/model"
)

// ExchangeRole restricts a listing to one side of the exchange.
type ExchangeRole string

const (
	RoleAny       ExchangeRole = ""
	RoleRequester ExchangeRole = "requester"
	RoleProvider  ExchangeRole = "provider"
)

// ExchangeCounts summarises a user's exchange history.
type ExchangeCounts struct {
	AsProvider  int64
	AsRequester int64
	Completed   int64
}

// ExchangeRepository defines skill exchange persistence operations.
type ExchangeRepository interface {
	Create(ctx context.Context, ex *model.SkillExchange) error
	Update(ctx context.Context, ex *model.SkillExchange) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SkillExchange, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.SkillExchange, error)
	ListForUser(ctx context.Context, uid string, status model.ExchangeStatus, role ExchangeRole) ([]model.SkillExchange, error)
	ListPendingBefore(ctx context.Context, before time.Time) ([]model.SkillExchange, error)
	CountByStatus(ctx context.Context, status model.ExchangeStatus) (int64, error)
	CountForUser(ctx context.Context, uid string) (ExchangeCounts, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx groups the repositories that take part in one transaction.
type Tx struct {
	Exchanges ExchangeRepository
	Users     UserRepository
	Messages  MessageRepository
}

type exchangeRepository struct {
	db *gorm.DB
}

// NewExchangeRepository creates a new exchange repository.
func NewExchangeRepository(db *gorm.DB) ExchangeRepository {
	return &exchangeRepository{db: db}
}

func (r *exchangeRepository) Create(ctx context.Context, ex *model.SkillExchange) error {
	return r.db.WithContext(ctx).Create(ex).Error
}

func (r *exchangeRepository) Update(ctx context.Context, ex *model.SkillExchange) error {
	return r.db.WithContext(ctx).Save(ex).Error
}

func (r *exchangeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SkillExchange, error) {
	var ex model.SkillExchange
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ex).Error; err != nil {
		return nil, err
	}
	return &ex, nil
}

// FindByIDForUpdate finds an exchange with a row-level lock.
func (r *exchangeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.SkillExchange, error) {
	var ex model.SkillExchange
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&ex).Error; err != nil {
		return nil, err
	}
	return &ex, nil
}

func (r *exchangeRepository) ListForUser(ctx context.Context, uid string, status model.ExchangeStatus, role ExchangeRole) ([]model.SkillExchange, error) {
	q := r.db.WithContext(ctx).Model(&model.SkillExchange{})
	switch role {
	case RoleRequester:
		q = q.Where("requester_id = ?", uid)
	case RoleProvider:
		q = q.Where("provider_id = ?", uid)
	default:
		q = q.Where("requester_id = ? OR provider_id = ?", uid, uid)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []model.SkillExchange
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *exchangeRepository) ListPendingBefore(ctx context.Context, before time.Time) ([]model.SkillExchange, error) {
	var out []model.SkillExchange
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", model.ExchangeStatusPending, before).
		Find(&out).Error
	return out, err
}

func (r *exchangeRepository) CountByStatus(ctx context.Context, status model.ExchangeStatus) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.SkillExchange{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *exchangeRepository) CountForUser(ctx context.Context, uid string) (ExchangeCounts, error) {
	var c ExchangeCounts
	base := r.db.WithContext(ctx).Model(&model.SkillExchange{})
	if err := base.Session(&gorm.Session{}).Where("provider_id = ?", uid).Count(&c.AsProvider).Error; err != nil {
		return c, err
	}
	if err := base.Session(&gorm.Session{}).Where("requester_id = ?", uid).Count(&c.AsRequester).Error; err != nil {
		return c, err
	}
	err := base.Session(&gorm.Session{}).
		Where("(provider_id = ? OR requester_id = ?) AND status = ?", uid, uid, model.ExchangeStatusCompleted).
		Count(&c.Completed).Error
	return c, err
}

// WithTransaction executes fn with exchange, user and message repositories
// bound to one database transaction.
func (r *exchangeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(ctx, Tx{
			Exchanges: &exchangeRepository{db: db},
			Users:     &userRepository{db: db},
			Messages:  &messageRepository{db: db},
		})
	})
}
