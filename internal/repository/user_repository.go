package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yoohoo/internal/model"
)

// UserFilter narrows List. Empty fields are ignored.
type UserFilter struct {
	Tier     string
	Location string
}

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByStripeCustomer(ctx context.Context, customerID string) (*model.User, error)
	FindByStripeAccount(ctx context.Context, accountID string) (*model.User, error)
	List(ctx context.Context, f UserFilter) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	WithTransaction(ctx context.Context, fn func(repo UserRepository) error) error
	FindByIDForUpdate(ctx context.Context, id string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByStripeCustomer(ctx context.Context, customerID string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByStripeAccount(ctx context.Context, accountID string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("stripe_account_id = ?", accountID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users ordered by rating; skill filtering happens in the service
// since skill lists are stored as JSON.
func (r *userRepository) List(ctx context.Context, f UserFilter) ([]model.User, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})
	if f.Tier != "" {
		q = q.Where("tier = ?", f.Tier)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}
	var users []model.User
	if err := q.Order("rating DESC").Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error
	return n, err
}

func (r *userRepository) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("last_login_at >= ?", since).Count(&n).Error
	return n, err
}

func (r *userRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("created_at >= ?", since).Count(&n).Error
	return n, err
}

// WithTransaction executes fn within a database transaction.
func (r *userRepository) WithTransaction(ctx context.Context, fn func(repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&userRepository{db: tx})
	})
}

// FindByIDForUpdate loads a user with a row lock. Only meaningful inside WithTransaction.
func (r *userRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
