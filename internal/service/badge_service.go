package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"yoohoo/internal/catalog"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

// BadgeRequestInput is a user's badge application.
type BadgeRequestInput struct {
	BadgeType   string   `json:"badgeType" validate:"required"`
	DocumentIDs []string `json:"documentIds" validate:"required,min=1,dive,required"`
	Notes       string   `json:"notes" validate:"max=500"`
}

// BadgeReviewInput is an admin decision on a badge request.
type BadgeReviewInput struct {
	Action      string `json:"action" validate:"required"`
	ReviewNotes string `json:"reviewNotes" validate:"max=500"`
}

// MyBadges lists a user's earned badges and open requests.
type MyBadges struct {
	Badges          []model.UserBadge    `json:"badges"`
	PendingRequests []model.BadgeRequest `json:"pendingRequests"`
	TotalBadges     int                  `json:"totalBadges"`
	PendingCount    int                  `json:"pendingCount"`
}

// BadgeRequirement is one badge applying to a category, with the user's status.
type BadgeRequirement struct {
	Key      string            `json:"key"`
	Badge    catalog.BadgeType `json:"badge"`
	Required bool              `json:"required"`
	Status   string            `json:"status,omitempty"`
}

// CategoryBadges describes badge requirements for a category.
type CategoryBadges struct {
	Category        string             `json:"skillCategory"`
	Badges          []BadgeRequirement `json:"badges"`
	RequiredCount   int                `json:"requiredCount"`
	EarnedRequired  int                `json:"earnedRequired"`
	ComplianceScore int                `json:"complianceScore"`
}

// BadgeService handles badge applications and awards.
type BadgeService interface {
	Types(category string) map[string]catalog.BadgeType
	Request(ctx context.Context, uid string, in BadgeRequestInput) (*model.BadgeRequest, error)
	Mine(ctx context.Context, uid string) (*MyBadges, error)
	PublicBadges(ctx context.Context, uid string) ([]model.UserBadge, error)
	Requirements(ctx context.Context, category, uid string) (*CategoryBadges, error)
	Review(ctx context.Context, adminID string, requestID uuid.UUID, in BadgeReviewInput) (*model.BadgeRequest, error)
}

type badgeService struct {
	badges    repository.BadgeRepository
	documents repository.DocumentRepository
	now       func() time.Time
}

// NewBadgeService builds a BadgeService.
func NewBadgeService(badges repository.BadgeRepository, documents repository.DocumentRepository) BadgeService {
	return &badgeService{badges: badges, documents: documents, now: time.Now}
}

func (s *badgeService) Types(category string) map[string]catalog.BadgeType {
	return catalog.BadgesForCategory(strings.TrimSpace(category))
}

func (s *badgeService) Request(ctx context.Context, uid string, in BadgeRequestInput) (*model.BadgeRequest, error) {
	if _, ok := catalog.Badge(in.BadgeType); !ok {
		return nil, apperrors.Invalid("Invalid badge type")
	}
	if len(in.DocumentIDs) == 0 {
		return nil, apperrors.Invalid("At least one supporting document is required")
	}
	if len([]rune(in.Notes)) > 500 {
		return nil, apperrors.Invalid("notes must be at most 500 characters")
	}

	pending, err := s.badges.HasPendingRequest(ctx, uid, in.BadgeType)
	if err != nil {
		return nil, err
	}
	earned, err := s.badges.HasBadge(ctx, uid, in.BadgeType)
	if err != nil {
		return nil, err
	}
	if pending || earned {
		return nil, apperrors.ErrBadgeAlreadyExists
	}

	ids := make([]uuid.UUID, 0, len(in.DocumentIDs))
	seen := map[uuid.UUID]bool{}
	for _, raw := range in.DocumentIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, apperrors.ErrInvalidDocuments
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	docs, err := s.documents.FindManyForUser(ctx, uid, ids)
	if err != nil {
		return nil, err
	}
	if len(docs) != len(ids) {
		return nil, apperrors.ErrInvalidDocuments
	}

	docIDs := make([]string, len(ids))
	for i, id := range ids {
		docIDs[i] = id.String()
	}
	req := &model.BadgeRequest{
		UserID:      uid,
		BadgeType:   in.BadgeType,
		DocumentIDs: docIDs,
		Notes:       strings.TrimSpace(in.Notes),
		Status:      model.ReviewPending,
	}
	if err := s.badges.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *badgeService) Mine(ctx context.Context, uid string) (*MyBadges, error) {
	badges, err := s.badges.ListBadgesByUser(ctx, uid, false)
	if err != nil {
		return nil, err
	}
	pending, err := s.badges.ListRequestsByUser(ctx, uid, model.ReviewPending)
	if err != nil {
		return nil, err
	}
	if badges == nil {
		badges = []model.UserBadge{}
	}
	if pending == nil {
		pending = []model.BadgeRequest{}
	}
	return &MyBadges{
		Badges:          badges,
		PendingRequests: pending,
		TotalBadges:     len(badges),
		PendingCount:    len(pending),
	}, nil
}

func (s *badgeService) PublicBadges(ctx context.Context, uid string) ([]model.UserBadge, error) {
	badges, err := s.badges.ListBadgesByUser(ctx, uid, true)
	if err != nil {
		return nil, err
	}
	if badges == nil {
		badges = []model.UserBadge{}
	}
	return badges, nil
}

func (s *badgeService) Requirements(ctx context.Context, category, uid string) (*CategoryBadges, error) {
	applicable := catalog.BadgesForCategory(category)
	required := catalog.BadgesRequiredIn(category)

	earned := map[string]bool{}
	pending := map[string]bool{}
	if uid != "" {
		held, err := s.badges.ListBadgesByUser(ctx, uid, false)
		if err != nil {
			return nil, err
		}
		for _, b := range held {
			earned[b.BadgeType] = true
		}
		reqs, err := s.badges.ListRequestsByUser(ctx, uid, model.ReviewPending)
		if err != nil {
			return nil, err
		}
		for _, r := range reqs {
			pending[r.BadgeType] = true
		}
	}

	out := &CategoryBadges{Category: category, Badges: []BadgeRequirement{}}
	for _, key := range catalog.BadgeKeys() {
		b, ok := applicable[key]
		if !ok {
			continue
		}
		br := BadgeRequirement{Key: key, Badge: b, Required: required}
		switch {
		case earned[key]:
			br.Status = "earned"
		case pending[key]:
			br.Status = "pending"
		}
		if required {
			out.RequiredCount++
			if earned[key] {
				out.EarnedRequired++
			}
		}
		out.Badges = append(out.Badges, br)
	}

	out.ComplianceScore = 100
	if out.RequiredCount > 0 {
		out.ComplianceScore = int(math.Round(float64(out.EarnedRequired) / float64(out.RequiredCount) * 100))
	}
	return out, nil
}

func (s *badgeService) Review(ctx context.Context, adminID string, requestID uuid.UUID, in BadgeReviewInput) (*model.BadgeRequest, error) {
	if in.Action != "approve" && in.Action != "reject" {
		return nil, apperrors.Invalid("action must be approve or reject")
	}
	req, err := s.badges.FindRequest(ctx, requestID)
	if err != nil {
		return nil, notFound(err, apperrors.ErrBadgeRequestNotFound)
	}
	if req.Status != model.ReviewPending {
		return nil, apperrors.Invalid("Badge request has already been reviewed")
	}

	now := s.now()
	req.ReviewNotes = in.ReviewNotes
	req.ReviewedBy = adminID
	req.ReviewedAt = &now

	if in.Action == "reject" {
		req.Status = model.ReviewRejected
		if err := s.badges.UpdateRequest(ctx, req); err != nil {
			return nil, err
		}
		return req, nil
	}

	req.Status = model.ReviewApproved
	badge := &model.UserBadge{
		UserID:     req.UserID,
		BadgeType:  req.BadgeType,
		RequestID:  &req.ID,
		ApprovedBy: adminID,
		ApprovedAt: now,
		Public:     true,
	}
	if err := s.badges.Approve(ctx, req, badge); err != nil {
		return nil, err
	}
	return req, nil
}
