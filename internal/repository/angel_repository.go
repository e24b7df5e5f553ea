package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yoohoo/internal/model"
)

// AngelJobFilter narrows a job listing. Zero fields are ignored.
type AngelJobFilter struct {
	Category string
	City     string
	Urgency  string
	Status   model.AngelJobStatus
	Search   string
	Limit    int
	Offset   int
}

// AngelRepository defines odd-job and application persistence operations.
type AngelRepository interface {
	CreateJob(ctx context.Context, job *model.AngelJob) error
	UpdateJob(ctx context.Context, job *model.AngelJob) error
	FindJob(ctx context.Context, id uuid.UUID) (*model.AngelJob, error)
	FindJobForUpdate(ctx context.Context, id uuid.UUID) (*model.AngelJob, error)
	ListJobs(ctx context.Context, f AngelJobFilter) ([]model.AngelJob, int64, error)
	ListJobsByPoster(ctx context.Context, uid string) ([]model.AngelJob, error)
	FindJobs(ctx context.Context, ids []uuid.UUID) ([]model.AngelJob, error)
	CountApplications(ctx context.Context, jobIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	CreateApplication(ctx context.Context, app *model.AngelApplication) error
	UpdateApplication(ctx context.Context, app *model.AngelApplication) error
	FindApplication(ctx context.Context, jobID uuid.UUID, applicantID string) (*model.AngelApplication, error)
	ListApplications(ctx context.Context, jobID uuid.UUID) ([]model.AngelApplication, error)
	ListApplicationsByApplicant(ctx context.Context, uid string) ([]model.AngelApplication, error)
	RejectPendingExcept(ctx context.Context, jobID uuid.UUID, applicantID, message string, at time.Time) (int64, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo AngelRepository) error) error
}

type angelRepository struct {
	db *gorm.DB
}

// NewAngelRepository creates a new odd-job repository.
func NewAngelRepository(db *gorm.DB) AngelRepository {
	return &angelRepository{db: db}
}

func (r *angelRepository) CreateJob(ctx context.Context, job *model.AngelJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *angelRepository) UpdateJob(ctx context.Context, job *model.AngelJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *angelRepository) FindJob(ctx context.Context, id uuid.UUID) (*model.AngelJob, error) {
	var job model.AngelJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// FindJobForUpdate finds a job with a row-level lock.
func (r *angelRepository) FindJobForUpdate(ctx context.Context, id uuid.UUID) (*model.AngelJob, error) {
	var job model.AngelJob
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs returns one page of matching jobs, featured first then newest,
// with the total match count.
func (r *angelRepository) ListJobs(ctx context.Context, f AngelJobFilter) ([]model.AngelJob, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AngelJob{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Urgency != "" {
		q = q.Where("urgency = ?", f.Urgency)
	}
	if city := strings.TrimSpace(f.City); city != "" {
		q = q.Where("LOWER(location_city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []model.AngelJob
	err := q.Order("featured DESC").Order("created_at DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&out).Error
	return out, total, err
}

func (r *angelRepository) ListJobsByPoster(ctx context.Context, uid string) ([]model.AngelJob, error) {
	var out []model.AngelJob
	err := r.db.WithContext(ctx).Where("posted_by = ?", uid).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *angelRepository) FindJobs(ctx context.Context, ids []uuid.UUID) ([]model.AngelJob, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []model.AngelJob
	err := r.db.WithContext(ctx).Where(clause.IN{Column: clause.Column{Name: "id"}, Values: uuidValues(ids)}).Find(&out).Error
	return out, err
}

func (r *angelRepository) CountApplications(ctx context.Context, jobIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		JobID uuid.UUID
		N     int64
	}
	err := r.db.WithContext(ctx).Model(&model.AngelApplication{}).
		Select("job_id, COUNT(*) AS n").
		Where(clause.IN{Column: clause.Column{Name: "job_id"}, Values: uuidValues(jobIDs)}).
		Group("job_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.JobID] = row.N
	}
	return out, nil
}

func (r *angelRepository) CreateApplication(ctx context.Context, app *model.AngelApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *angelRepository) UpdateApplication(ctx context.Context, app *model.AngelApplication) error {
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *angelRepository) FindApplication(ctx context.Context, jobID uuid.UUID, applicantID string) (*model.AngelApplication, error) {
	var app model.AngelApplication
	if err := r.db.WithContext(ctx).Where("job_id = ? AND applicant_id = ?", jobID, applicantID).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *angelRepository) ListApplications(ctx context.Context, jobID uuid.UUID) ([]model.AngelApplication, error) {
	var out []model.AngelApplication
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Order("applied_at DESC").Find(&out).Error
	return out, err
}

func (r *angelRepository) ListApplicationsByApplicant(ctx context.Context, uid string) ([]model.AngelApplication, error) {
	var out []model.AngelApplication
	err := r.db.WithContext(ctx).Where("applicant_id = ?", uid).Order("applied_at DESC").Find(&out).Error
	return out, err
}

// RejectPendingExcept rejects every other pending application on a job.
func (r *angelRepository) RejectPendingExcept(ctx context.Context, jobID uuid.UUID, applicantID, message string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.AngelApplication{}).
		Where("job_id = ? AND applicant_id <> ? AND status = ?", jobID, applicantID, model.ApplicationPending).
		Updates(map[string]any{
			"status":           model.ApplicationRejected,
			"response_message": message,
			"responded_at":     at,
		})
	return res.RowsAffected, res.Error
}

// WithTransaction executes fn with the repository bound to one transaction.
func (r *angelRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo AngelRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &angelRepository{db: tx})
	})
}
