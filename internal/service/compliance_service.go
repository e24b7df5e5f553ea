package service

import (
	"context"
	"math"
	"strings"
	"time"

	"yoohoo/internal/catalog"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

// SectionStatus is the outcome of one compliance section.
type SectionStatus struct {
	Compliant bool     `json:"compliant"`
	Missing   []string `json:"missing"`
	Satisfied []string `json:"satisfied"`
}

// OverallStatus summarises every section.
type OverallStatus struct {
	Compliant      bool     `json:"compliant"`
	Score          int      `json:"score"`
	CanParticipate bool     `json:"canParticipate"`
	Restrictions   []string `json:"restrictions"`
}

// ComplianceStatus is a user's standing in one category.
type ComplianceStatus struct {
	Profile      SectionStatus `json:"profile"`
	Documents    SectionStatus `json:"documents"`
	Badges       SectionStatus `json:"badges"`
	Verification SectionStatus `json:"verification"`
	Insurance    SectionStatus `json:"insurance"`
	Overall      OverallStatus `json:"overall"`
}

// CategoryCompliance pairs a category with the user's status in it.
type CategoryCompliance struct {
	Category     string                `json:"skillCategory"`
	Name         string                `json:"name"`
	RiskLevel    catalog.RiskLevel     `json:"riskLevel"`
	Status       ComplianceStatus      `json:"complianceStatus"`
	Requirements catalog.RequiredItems `json:"requirements"`
	Restrictions map[string]any        `json:"restrictions"`
	LastChecked  time.Time             `json:"lastChecked"`
}

// ComplianceOverview aggregates the dashboard.
type ComplianceOverview struct {
	TotalCategories     int `json:"totalCategories"`
	CompliantCategories int `json:"compliantCategories"`
	ComplianceRate      int `json:"complianceRate"`
	AverageScore        int `json:"averageScore"`
	HighRiskCategories  int `json:"highRiskCategories"`
	HighRiskCompliant   int `json:"highRiskCompliant"`
}

// ComplianceDashboard is the user's compliance across selected categories.
type ComplianceDashboard struct {
	Overview   ComplianceOverview   `json:"overview"`
	Categories []CategoryCompliance `json:"categories"`
}

// VerificationInput is an admin verification decision.
type VerificationInput struct {
	VerificationType string             `json:"verificationType" validate:"required,max=64"`
	Status           model.ReviewStatus `json:"status" validate:"required"`
	Notes            string             `json:"notes" validate:"max=500"`
}

// ComplianceService evaluates users against category requirements.
type ComplianceService interface {
	Requirements(slug string) (catalog.ComplianceCategory, error)
	Status(ctx context.Context, uid, slug string) (*CategoryCompliance, error)
	Dashboard(ctx context.Context, uid string) (*ComplianceDashboard, error)
	SetVerification(ctx context.Context, adminID, userID string, in VerificationInput) (*model.Verification, error)
	SelectCategories(ctx context.Context, uid string, slugs []string) ([]string, error)
}

type complianceService struct {
	users         repository.UserRepository
	documents     repository.DocumentRepository
	badges        repository.BadgeRepository
	verifications repository.VerificationRepository
	now           func() time.Time
}

// NewComplianceService builds a ComplianceService.
func NewComplianceService(
	users repository.UserRepository,
	documents repository.DocumentRepository,
	badges repository.BadgeRepository,
	verifications repository.VerificationRepository,
) ComplianceService {
	return &complianceService{
		users:         users,
		documents:     documents,
		badges:        badges,
		verifications: verifications,
		now:           time.Now,
	}
}

func (s *complianceService) Requirements(slug string) (catalog.ComplianceCategory, error) {
	c, ok := catalog.ComplianceRequirements(slug)
	if !ok {
		return c, apperrors.ErrCategoryNotFound
	}
	return c, nil
}

// evidence is everything the checks look at for one user.
type evidence struct {
	user          *model.User
	documents     []model.Document
	badges        map[string]bool
	verifications map[string]model.ReviewStatus
}

func (s *complianceService) gather(ctx context.Context, uid string) (*evidence, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	docs, err := s.documents.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	held, err := s.badges.ListBadgesByUser(ctx, uid, false)
	if err != nil {
		return nil, err
	}
	vs, err := s.verifications.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	ev := &evidence{user: u, documents: docs, badges: map[string]bool{}, verifications: map[string]model.ReviewStatus{}}
	for _, b := range held {
		ev.badges[b.BadgeType] = true
	}
	for _, v := range vs {
		ev.verifications[v.Type] = v.Status
	}
	return ev, nil
}

func section(required []string, ok func(string) bool) SectionStatus {
	st := SectionStatus{Missing: []string{}, Satisfied: []string{}}
	for _, r := range required {
		if ok(r) {
			st.Satisfied = append(st.Satisfied, r)
		} else {
			st.Missing = append(st.Missing, r)
		}
	}
	st.Compliant = len(st.Missing) == 0
	return st
}

func (ev *evidence) hasApprovedDocument(docType string) bool {
	for _, d := range ev.documents {
		if d.Type == docType && d.Status == model.ReviewApproved {
			return true
		}
	}
	return false
}

func (ev *evidence) hasInsurance(insuranceType string, minimum int64) bool {
	for _, d := range ev.documents {
		if d.Type == model.DocumentTypeInsurance && d.InsuranceType == insuranceType &&
			d.Status == model.ReviewApproved && d.CoverageAmount >= minimum {
			return true
		}
	}
	return false
}

// evaluate runs every check for one category.
func evaluate(ev *evidence, req catalog.RequiredItems) ComplianceStatus {
	st := ComplianceStatus{
		Profile: section(req.Profile, func(f string) bool {
			return strings.TrimSpace(ev.user.ProfileField(f)) != ""
		}),
		Documents: section(req.Documents, ev.hasApprovedDocument),
		Badges:    section(req.Badges, func(b string) bool { return ev.badges[b] }),
		Verification: section(req.Verification, func(v string) bool {
			return ev.verifications[v] == model.ReviewApproved
		}),
		Insurance: section(req.Insurance.Types, func(t string) bool {
			return ev.hasInsurance(t, req.Insurance.MinimumCoverage)
		}),
	}

	sections := []struct {
		ok          bool
		restriction string
	}{
		{st.Profile.Compliant, "Complete profile required"},
		{st.Documents.Compliant, "Required documents missing"},
		{st.Badges.Compliant, "Required badges not earned"},
		{st.Verification.Compliant, "Background verification required"},
		{st.Insurance.Compliant, "Insurance verification required"},
	}
	compliant := 0
	restrictions := []string{}
	for _, sec := range sections {
		if sec.ok {
			compliant++
		} else {
			restrictions = append(restrictions, sec.restriction)
		}
	}
	all := compliant == len(sections)
	st.Overall = OverallStatus{
		Compliant:      all,
		Score:          int(math.Round(float64(compliant) / float64(len(sections)) * 100)),
		CanParticipate: all,
		Restrictions:   restrictions,
	}
	return st
}

func (s *complianceService) Status(ctx context.Context, uid, slug string) (*CategoryCompliance, error) {
	cat, err := s.Requirements(slug)
	if err != nil {
		return nil, err
	}
	ev, err := s.gather(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.categoryCompliance(ev, slug, cat), nil
}

func (s *complianceService) categoryCompliance(ev *evidence, slug string, cat catalog.ComplianceCategory) *CategoryCompliance {
	return &CategoryCompliance{
		Category:     slug,
		Name:         cat.Name,
		RiskLevel:    cat.RiskLevel,
		Status:       evaluate(ev, cat.Required),
		Requirements: cat.Required,
		Restrictions: cat.Restrictions,
		LastChecked:  s.now(),
	}
}

func (s *complianceService) Dashboard(ctx context.Context, uid string) (*ComplianceDashboard, error) {
	ev, err := s.gather(ctx, uid)
	if err != nil {
		return nil, err
	}

	d := &ComplianceDashboard{Categories: []CategoryCompliance{}}
	scoreSum := 0
	for _, slug := range ev.user.ComplianceCategories {
		cat, ok := catalog.ComplianceRequirements(slug)
		if !ok {
			continue
		}
		cc := s.categoryCompliance(ev, slug, cat)
		d.Categories = append(d.Categories, *cc)

		d.Overview.TotalCategories++
		scoreSum += cc.Status.Overall.Score
		if cc.Status.Overall.Compliant {
			d.Overview.CompliantCategories++
		}
		if cat.RiskLevel == catalog.RiskHigh {
			d.Overview.HighRiskCategories++
			if cc.Status.Overall.Compliant {
				d.Overview.HighRiskCompliant++
			}
		}
	}
	if n := d.Overview.TotalCategories; n > 0 {
		d.Overview.ComplianceRate = int(math.Round(float64(d.Overview.CompliantCategories) / float64(n) * 100))
		d.Overview.AverageScore = int(math.Round(float64(scoreSum) / float64(n)))
	}
	return d, nil
}

func (s *complianceService) SetVerification(ctx context.Context, adminID, userID string, in VerificationInput) (*model.Verification, error) {
	switch in.Status {
	case model.ReviewPending, model.ReviewApproved, model.ReviewRejected:
	default:
		return nil, apperrors.Invalid("Invalid verification status")
	}
	if strings.TrimSpace(in.VerificationType) == "" {
		return nil, apperrors.Invalid("verificationType is required")
	}

	v := &model.Verification{
		UserID:     userID,
		Type:       in.VerificationType,
		Status:     in.Status,
		VerifiedBy: adminID,
		Notes:      in.Notes,
	}
	if in.Status == model.ReviewApproved {
		now := s.now()
		v.VerifiedAt = &now
	}
	if err := s.verifications.Upsert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *complianceService) SelectCategories(ctx context.Context, uid string, slugs []string) ([]string, error) {
	clean := make([]string, 0, len(slugs))
	seen := map[string]bool{}
	for _, slug := range slugs {
		slug = strings.TrimSpace(slug)
		if _, ok := catalog.ComplianceRequirements(slug); !ok {
			return nil, apperrors.ErrCategoryNotFound.WithMeta("category", slug)
		}
		if !seen[slug] {
			seen[slug] = true
			clean = append(clean, slug)
		}
	}

	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	u.ComplianceCategories = clean
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return clean, nil
}
