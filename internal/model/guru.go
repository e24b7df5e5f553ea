package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostStatus is the publication state of a guru post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

// GuruPost is a blog post on a guru subdomain.
type GuruPost struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Subdomain   string     `json:"subdomain" gorm:"size:32;not null;uniqueIndex:idx_guru_post_slug"`
	Slug        string     `json:"slug" gorm:"size:160;not null;uniqueIndex:idx_guru_post_slug"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Excerpt     string     `json:"excerpt,omitempty" gorm:"size:500"`
	Content     string     `json:"content" gorm:"type:text"`
	Category    string     `json:"category,omitempty" gorm:"size:64"`
	Tags        []string   `json:"tags" gorm:"serializer:json;type:text"`
	Featured    bool       `json:"featured"`
	Status      PostStatus `json:"status" gorm:"type:varchar(16);not null;default:'draft';index"`
	Views       int64      `json:"views"`
	AuthorID    string     `json:"authorId,omitempty" gorm:"size:128"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" gorm:"index"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (p *GuruPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HasAnyTag reports whether the post shares a tag with tags.
func (p *GuruPost) HasAnyTag(tags []string) bool {
	for _, t := range p.Tags {
		for _, o := range tags {
			if t == o {
				return true
			}
		}
	}
	return false
}

// GuruService is a bookable offering listed on a guru site.
type GuruService struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Subdomain    string    `json:"subdomain" gorm:"size:32;not null;index"`
	Name         string    `json:"name" gorm:"size:120;not null"`
	Description  string    `json:"description,omitempty" gorm:"size:1000"`
	Price        string    `json:"price,omitempty" gorm:"size:32"`
	Duration     string    `json:"duration,omitempty" gorm:"size:32"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (s *GuruService) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// GuruFeature is one highlight on a guru about page.
type GuruFeature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GuruPage is editable static content, such as the about page, of a guru site.
type GuruPage struct {
	Subdomain string        `json:"-" gorm:"primaryKey;size:32"`
	Page      string        `json:"-" gorm:"primaryKey;size:32"`
	Title     string        `json:"title" gorm:"size:200"`
	Content   string        `json:"content" gorm:"type:text"`
	CTA       string        `json:"cta,omitempty" gorm:"size:64"`
	CTALink   string        `json:"ctaLink,omitempty" gorm:"size:255"`
	Features  []GuruFeature `json:"features" gorm:"serializer:json;type:text"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// LeadStatus tracks follow-up on a guru lead.
type LeadStatus string

// LeadNew is the state of an unprocessed lead.
const LeadNew LeadStatus = "new"

// GuruLead is a contact request submitted on a guru site.
type GuruLead struct {
	ID            uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Subdomain     string     `json:"subdomain" gorm:"size:32;not null;index"`
	GuruCharacter string     `json:"guruCharacter" gorm:"size:64"`
	Name          string     `json:"name" gorm:"size:100;not null"`
	Email         string     `json:"email" gorm:"size:255;not null"`
	Phone         string     `json:"phone,omitempty" gorm:"size:32"`
	Service       string     `json:"service" gorm:"size:120;not null"`
	Message       string     `json:"message,omitempty" gorm:"size:2000"`
	Status        LeadStatus `json:"status" gorm:"type:varchar(16);not null;default:'new'"`
	Source        string     `json:"source" gorm:"size:32"`
	IP            string     `json:"-" gorm:"size:64"`
	UserAgent     string     `json:"-" gorm:"size:255"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// BeforeCreate sets UUID before creating the record.
func (l *GuruLead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// GuruStats are per-site counters.
type GuruStats struct {
	Subdomain       string    `json:"-" gorm:"primaryKey;size:32"`
	TotalPosts      int64     `json:"totalPosts"`
	TotalViews      int64     `json:"totalViews"`
	TotalLeads      int64     `json:"totalLeads"`
	MonthlyVisitors int64     `json:"monthlyVisitors"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
