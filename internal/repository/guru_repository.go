package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yoohoo/internal/model"
)

// GuruStat names a counter on a guru site.
type GuruStat string

const (
	StatViews           GuruStat = "total_views"
	StatLeads           GuruStat = "total_leads"
	StatMonthlyVisitors GuruStat = "monthly_visitors"
)

// GuruRepository defines guru site content persistence operations.
type GuruRepository interface {
	CreatePost(ctx context.Context, post *model.GuruPost) error
	ListPublished(ctx context.Context, subdomain string) ([]model.GuruPost, error)
	FindPostBySlug(ctx context.Context, subdomain, slug string) (*model.GuruPost, error)
	IncrementViews(ctx context.Context, postID uuid.UUID) error
	CreateService(ctx context.Context, svc *model.GuruService) error
	ListServices(ctx context.Context, subdomain string) ([]model.GuruService, error)
	FindPage(ctx context.Context, subdomain, page string) (*model.GuruPage, error)
	SavePage(ctx context.Context, page *model.GuruPage) error
	CreateLead(ctx context.Context, lead *model.GuruLead) error
	Stats(ctx context.Context, subdomain string) (*model.GuruStats, error)
	IncrementStat(ctx context.Context, subdomain string, stat GuruStat) error
	ResetMonthlyVisitors(ctx context.Context) (int64, error)
}

type guruRepository struct {
	db *gorm.DB
}

// NewGuruRepository creates a new guru content repository.
func NewGuruRepository(db *gorm.DB) GuruRepository {
	return &guruRepository{db: db}
}

func (r *guruRepository) CreatePost(ctx context.Context, post *model.GuruPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// ListPublished returns published posts, newest first.
func (r *guruRepository) ListPublished(ctx context.Context, subdomain string) ([]model.GuruPost, error) {
	var out []model.GuruPost
	err := r.db.WithContext(ctx).
		Where("subdomain = ? AND status = ?", subdomain, model.PostPublished).
		Order("published_at DESC").
		Find(&out).Error
	return out, err
}

func (r *guruRepository) FindPostBySlug(ctx context.Context, subdomain, slug string) (*model.GuruPost, error) {
	var p model.GuruPost
	if err := r.db.WithContext(ctx).Where("subdomain = ? AND slug = ?", subdomain, slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *guruRepository) IncrementViews(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.GuruPost{}).
		Where("id = ?", postID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

func (r *guruRepository) CreateService(ctx context.Context, svc *model.GuruService) error {
	return r.db.WithContext(ctx).Create(svc).Error
}

func (r *guruRepository) ListServices(ctx context.Context, subdomain string) ([]model.GuruService, error) {
	var out []model.GuruService
	err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).Order("display_order ASC").Find(&out).Error
	return out, err
}

func (r *guruRepository) FindPage(ctx context.Context, subdomain, page string) (*model.GuruPage, error) {
	var p model.GuruPage
	if err := r.db.WithContext(ctx).Where("subdomain = ? AND page = ?", subdomain, page).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *guruRepository) SavePage(ctx context.Context, page *model.GuruPage) error {
	return r.db.WithContext(ctx).Save(page).Error
}

func (r *guruRepository) CreateLead(ctx context.Context, lead *model.GuruLead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

// Stats returns the site's counters; a site without activity has zero counters.
func (r *guruRepository) Stats(ctx context.Context, subdomain string) (*model.GuruStats, error) {
	var s model.GuruStats
	err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).Limit(1).Find(&s).Error
	if err != nil {
		return nil, err
	}
	s.Subdomain = subdomain
	return &s, nil
}

// IncrementStat adds one to a counter, creating the stats row on first use.
func (r *guruRepository) IncrementStat(ctx context.Context, subdomain string, stat GuruStat) error {
	switch stat {
	case StatViews, StatLeads, StatMonthlyVisitors:
	default:
		return fmt.Errorf("unknown guru stat %q", stat)
	}
	col := string(stat)
	now := time.Now()
	row := map[string]any{"subdomain": subdomain, col: 1, "updated_at": now}
	return r.db.WithContext(ctx).Model(&model.GuruStats{}).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "subdomain"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: col}, Value: gorm.Expr("guru_stats."+col+" + ?", 1)},
			{Column: clause.Column{Name: "updated_at"}, Value: now},
		},
	}).Create(row).Error
}

// ResetMonthlyVisitors zeroes the visitor counter of every site.
func (r *guruRepository) ResetMonthlyVisitors(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.GuruStats{}).
		Where("monthly_visitors > 0").
		Updates(map[string]any{"monthly_visitors": 0, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}
