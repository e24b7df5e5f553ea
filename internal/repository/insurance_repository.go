package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yoohoo/internal/model"
)

// InsuranceRepository defines insurance policy persistence operations.
type InsuranceRepository interface {
	Create(ctx context.Context, p *model.InsurancePolicy) error
	Update(ctx context.Context, p *model.InsurancePolicy) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InsurancePolicy, error)
	ListByUser(ctx context.Context, uid string) ([]model.InsurancePolicy, error)
	ListAll(ctx context.Context) ([]model.InsurancePolicy, error)
	ListExpiring(ctx context.Context, uid string, from, to time.Time) ([]model.InsurancePolicy, error)
	ListDueReminders(ctx context.Context, now time.Time) ([]model.InsurancePolicy, error)
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error
	FindReminderPrefs(ctx context.Context, uid string) (*model.InsuranceReminderPrefs, error)
	SaveReminderPrefs(ctx context.Context, prefs *model.InsuranceReminderPrefs) error
}

type insuranceRepository struct {
	db *gorm.DB
}

// NewInsuranceRepository creates a new insurance repository.
func NewInsuranceRepository(db *gorm.DB) InsuranceRepository {
	return &insuranceRepository{db: db}
}

func (r *insuranceRepository) Create(ctx context.Context, p *model.InsurancePolicy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *insuranceRepository) Update(ctx context.Context, p *model.InsurancePolicy) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *insuranceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.InsurancePolicy, error) {
	var p model.InsurancePolicy
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *insuranceRepository) ListByUser(ctx context.Context, uid string) ([]model.InsurancePolicy, error) {
	var out []model.InsurancePolicy
	err := r.db.WithContext(ctx).Where("user_id = ?", uid).Order("submitted_at DESC").Find(&out).Error
	return out, err
}

func (r *insuranceRepository) ListAll(ctx context.Context) ([]model.InsurancePolicy, error) {
	var out []model.InsurancePolicy
	err := r.db.WithContext(ctx).Order("submitted_at DESC").Find(&out).Error
	return out, err
}

// ListExpiring returns the user's approved policies ending in [from, to],
// soonest first.
func (r *insuranceRepository) ListExpiring(ctx context.Context, uid string, from, to time.Time) ([]model.InsurancePolicy, error) {
	var out []model.InsurancePolicy
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", uid, model.InsuranceApproved).
		Where("expiration_date >= ? AND expiration_date <= ?", from, to).
		Order("expiration_date ASC").
		Find(&out).Error
	return out, err
}

// ListDueReminders returns approved policies whose reminder time has passed
// and that have not been reminded yet.
func (r *insuranceRepository) ListDueReminders(ctx context.Context, now time.Time) ([]model.InsurancePolicy, error) {
	var out []model.InsurancePolicy
	err := r.db.WithContext(ctx).
		Where("status = ? AND reminder_at <= ? AND reminded_at IS NULL AND expiration_date > ?", model.InsuranceApproved, now, now).
		Order("reminder_at ASC").
		Find(&out).Error
	return out, err
}

func (r *insuranceRepository) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.InsurancePolicy{}).
		Where("id = ?", id).
		Update("reminded_at", at).Error
}

func (r *insuranceRepository) FindReminderPrefs(ctx context.Context, uid string) (*model.InsuranceReminderPrefs, error) {
	var p model.InsuranceReminderPrefs
	if err := r.db.WithContext(ctx).Where("user_id = ?", uid).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *insuranceRepository) SaveReminderPrefs(ctx context.Context, prefs *model.InsuranceReminderPrefs) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email_reminders", "sms_reminders", "reminder_days", "updated_at"}),
	}).Create(prefs).Error
}
