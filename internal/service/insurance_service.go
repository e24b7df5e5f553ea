package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"yoohoo/internal/catalog"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

const (
	insuranceReminderLead = 30 * 24 * time.Hour
	expiringWindowDays    = 30
	urgentExpiryDays      = 7
	maxExpiryWindowDays   = 365
)

var defaultReminderDays = []int{30, 14, 7}

// SubmitInsuranceInput is a policy submitted for verification. Dates accept
// RFC 3339 timestamps or plain YYYY-MM-DD dates.
type SubmitInsuranceInput struct {
	InsuranceType     string          `json:"insuranceType" validate:"required"`
	PolicyNumber      string          `json:"policyNumber" validate:"required,max=50"`
	InsuranceCompany  string          `json:"insuranceCompany" validate:"required,max=100"`
	CoverageAmount    decimal.Decimal `json:"coverageAmount"`
	EffectiveDate     string          `json:"effectiveDate" validate:"required"`
	ExpirationDate    string          `json:"expirationDate" validate:"required"`
	DocumentIDs       []string        `json:"documentIds" validate:"required,min=1,dive,uuid"`
	AdditionalDetails string          `json:"additionalDetails" validate:"max=1000"`
}

// InsuranceSubmission acknowledges a stored policy.
type InsuranceSubmission struct {
	InsuranceID          uuid.UUID             `json:"insuranceId"`
	Status               model.InsuranceStatus `json:"status"`
	SubmittedAt          time.Time             `json:"submittedAt"`
	RequiresVerification bool                  `json:"requiresVerification"`
}

// InsuranceTypeStatus is the latest state of one insurance type for a user.
type InsuranceTypeStatus struct {
	Status      model.InsuranceStatus `json:"status"`
	InsuranceID uuid.UUID             `json:"insuranceId"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// InsuranceStatusReport is a provider's insurance overview.
type InsuranceStatusReport struct {
	Records           []model.InsurancePolicy        `json:"insuranceRecords"`
	StatusSummary     map[string]InsuranceTypeStatus `json:"statusSummary"`
	ExpiringInsurance []model.InsurancePolicy        `json:"expiringInsurance"`
	ComplianceScore   int                            `json:"complianceScore"`
	TotalRecords      int                            `json:"totalRecords"`
	ApprovedCount     int                            `json:"approvedCount"`
	ExpiringCount     int                            `json:"expiringCount"`
}

// InsuranceTypeList is the public insurance catalog, optionally narrowed to
// one skill category.
type InsuranceTypeList struct {
	InsuranceTypes []catalog.InsuranceType `json:"insuranceTypes"`
	SkillCategory  string                  `json:"skillCategory,omitempty"`
	TotalTypes     int                     `json:"totalTypes"`
}

// InsuranceRequirements is what a skill category demands and how a user measures up.
type InsuranceRequirements struct {
	SkillCategory       string                         `json:"skillCategory"`
	RequiredInsurance   []catalog.InsuranceType        `json:"requiredInsurance"`
	UserInsuranceStatus map[string]InsuranceTypeStatus `json:"userInsuranceStatus"`
	ComplianceScore     int                            `json:"complianceScore"`
	IsCompliant         bool                           `json:"isCompliant"`
	TotalRequired       int                            `json:"totalRequired"`
	UserCompliant       int                            `json:"userCompliant"`
}

// VerifyInsuranceInput is an admin decision on a policy.
type VerifyInsuranceInput struct {
	Action string `json:"action" validate:"required"`
	Notes  string `json:"notes" validate:"max=1000"`
}

// ExpiringPolicy is an approved policy close to its end date.
type ExpiringPolicy struct {
	model.InsurancePolicy
	DaysUntilExpiration int `json:"daysUntilExpiration"`
}

// ExpiringInsurance lists a user's policies ending within a window.
type ExpiringInsurance struct {
	ExpiringInsurance []ExpiringPolicy `json:"expiringInsurance"`
	AlertThreshold    int              `json:"alertThreshold"`
	TotalExpiring     int              `json:"totalExpiring"`
	UrgentCount       int              `json:"urgentCount"`
}

// ReminderPrefsInput updates expiry reminder settings. Nil fields take defaults.
type ReminderPrefsInput struct {
	EmailReminders *bool `json:"emailReminders"`
	SMSReminders   *bool `json:"smsReminders"`
	ReminderDays   []int `json:"reminderDays"`
}

// InsuranceStats is the admin overview of every submission.
type InsuranceStats struct {
	TotalRecords      int              `json:"totalRecords"`
	ByType            map[string]int   `json:"byType"`
	ByStatus          map[string]int   `json:"byStatus"`
	ExpiringIn30Days  int              `json:"expiringIn30Days"`
	AverageCoverage   map[string]int64 `json:"averageCoverage"`
	RecentSubmissions int              `json:"recentSubmissions"`
}

// InsuranceService handles provider insurance submissions and their review.
type InsuranceService interface {
	Types(category string) InsuranceTypeList
	Submit(ctx context.Context, uid string, in SubmitInsuranceInput) (*InsuranceSubmission, error)
	Status(ctx context.Context, uid string) (*InsuranceStatusReport, error)
	Requirements(ctx context.Context, category, uid string) (*InsuranceRequirements, error)
	Verify(ctx context.Context, adminID string, id uuid.UUID, in VerifyInsuranceInput) (*model.InsurancePolicy, error)
	Expiring(ctx context.Context, uid string, days int) (*ExpiringInsurance, error)
	ReminderPrefs(ctx context.Context, uid string) (*model.InsuranceReminderPrefs, error)
	UpdateReminderPrefs(ctx context.Context, uid string, in ReminderPrefsInput) (*model.InsuranceReminderPrefs, error)
	Stats(ctx context.Context) (*InsuranceStats, error)
	SendReminders(ctx context.Context) (int, error)
}

type insuranceService struct {
	repo          repository.InsuranceRepository
	documents     repository.DocumentRepository
	notifications NotificationService
	log           *zap.Logger
	now           func() time.Time
}

// NewInsuranceService builds an InsuranceService.
func NewInsuranceService(
	repo repository.InsuranceRepository,
	documents repository.DocumentRepository,
	notifications NotificationService,
	log *zap.Logger,
) InsuranceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &insuranceService{
		repo:          repo,
		documents:     documents,
		notifications: notifications,
		log:           log,
		now:           time.Now,
	}
}

func (s *insuranceService) Types(category string) InsuranceTypeList {
	category = strings.TrimSpace(category)
	types := catalog.InsuranceTypesFor(category)
	return InsuranceTypeList{InsuranceTypes: types, SkillCategory: category, TotalTypes: len(types)}
}

func (s *insuranceService) Submit(ctx context.Context, uid string, in SubmitInsuranceInput) (*InsuranceSubmission, error) {
	it, ok := catalog.LookupInsuranceType(in.InsuranceType)
	if !ok {
		return nil, apperrors.Invalid("Invalid insurance type").WithMeta("insuranceType", in.InsuranceType)
	}
	policyNumber := strings.TrimSpace(in.PolicyNumber)
	company := strings.TrimSpace(in.InsuranceCompany)
	if policyNumber == "" || company == "" {
		return nil, apperrors.Invalid("policyNumber and insuranceCompany are required")
	}

	minimum := decimal.NewFromInt(it.MinimumCoverage)
	if in.CoverageAmount.LessThan(minimum) {
		return nil, apperrors.Invalid("Coverage amount must be at least $"+groupThousands(it.MinimumCoverage)).
			WithMeta("minimumRequired", it.MinimumCoverage).
			WithMeta("provided", in.CoverageAmount)
	}

	effective, err := parseISODate(in.EffectiveDate)
	if err != nil {
		return nil, apperrors.Invalid("effectiveDate must be an ISO 8601 date")
	}
	expiration, err := parseISODate(in.ExpirationDate)
	if err != nil {
		return nil, apperrors.Invalid("expirationDate must be an ISO 8601 date")
	}
	now := s.now()
	if effective.After(now) {
		return nil, apperrors.ErrInsuranceNotEffective
	}
	if expiration.Before(now) {
		return nil, apperrors.ErrInsuranceExpired
	}

	docIDs, err := s.ownedDocuments(ctx, uid, in.DocumentIDs)
	if err != nil {
		return nil, err
	}

	p := &model.InsurancePolicy{
		UserID:            uid,
		InsuranceType:     it.Key,
		PolicyNumber:      policyNumber,
		InsuranceCompany:  company,
		CoverageAmount:    in.CoverageAmount.Round(2),
		EffectiveDate:     effective,
		ExpirationDate:    expiration,
		DocumentIDs:       docIDs,
		AdditionalDetails: strings.TrimSpace(in.AdditionalDetails),
		Status:            model.InsurancePendingVerification,
		SubmittedAt:       now,
	}
	if !it.VerificationRequired {
		p.Status = model.InsuranceApproved
		p.VerifiedAt = &now
		p.VerifiedBy = "system"
	}
	// Policies already inside the lead window are reminded on the next run.
	remindAt := expiration.Add(-insuranceReminderLead)
	if remindAt.Before(now) {
		remindAt = now
	}
	p.ReminderAt = &remindAt
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("insurance submitted",
		zap.String("user_id", uid),
		zap.String("insurance_id", p.ID.String()),
		zap.String("insurance_type", it.Key),
		zap.String("status", string(p.Status)),
	)
	return &InsuranceSubmission{
		InsuranceID:          p.ID,
		Status:               p.Status,
		SubmittedAt:          p.SubmittedAt,
		RequiresVerification: it.VerificationRequired,
	}, nil
}

// ownedDocuments checks every id names a document the user uploaded.
func (s *insuranceService) ownedDocuments(ctx context.Context, uid string, raw []string) ([]string, error) {
	seen := make(map[uuid.UUID]bool, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(strings.TrimSpace(r))
		if err != nil {
			return nil, apperrors.ErrInvalidDocuments
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, apperrors.ErrInvalidDocuments
	}
	docs, err := s.documents.FindManyForUser(ctx, uid, ids)
	if err != nil {
		return nil, err
	}
	if len(docs) != len(ids) {
		return nil, apperrors.ErrInvalidDocuments
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out, nil
}

// summarizeInsurance keeps the most recently updated record per insurance type.
func summarizeInsurance(records []model.InsurancePolicy) map[string]InsuranceTypeStatus {
	out := make(map[string]InsuranceTypeStatus)
	for _, r := range records {
		cur, ok := out[r.InsuranceType]
		if ok && !r.UpdatedAt.After(cur.UpdatedAt) {
			continue
		}
		out[r.InsuranceType] = InsuranceTypeStatus{Status: r.Status, InsuranceID: r.ID, UpdatedAt: r.UpdatedAt}
	}
	return out
}

func expiresWithin(p model.InsurancePolicy, now time.Time, days int) bool {
	if p.Status != model.InsuranceApproved {
		return false
	}
	limit := now.Add(time.Duration(days) * 24 * time.Hour)
	return !p.ExpirationDate.Before(now) && !p.ExpirationDate.After(limit)
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func (s *insuranceService) Status(ctx context.Context, uid string) (*InsuranceStatusReport, error) {
	records, err := s.repo.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	now := s.now()
	summary := summarizeInsurance(records)

	approvedTypes := 0
	for _, st := range summary {
		if st.Status == model.InsuranceApproved {
			approvedTypes++
		}
	}
	report := &InsuranceStatusReport{
		Records:           records,
		StatusSummary:     summary,
		ExpiringInsurance: []model.InsurancePolicy{},
		ComplianceScore:   percent(approvedTypes, len(catalog.InsuranceTypes())),
		TotalRecords:      len(records),
	}
	if report.Records == nil {
		report.Records = []model.InsurancePolicy{}
	}
	for _, r := range records {
		if r.Status == model.InsuranceApproved {
			report.ApprovedCount++
		}
		if expiresWithin(r, now, expiringWindowDays) {
			report.ExpiringInsurance = append(report.ExpiringInsurance, r)
		}
	}
	report.ExpiringCount = len(report.ExpiringInsurance)
	return report, nil
}

func (s *insuranceService) Requirements(ctx context.Context, category, uid string) (*InsuranceRequirements, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperrors.Invalid("skillCategory is required")
	}
	required := catalog.InsuranceTypesFor(category)
	summary := map[string]InsuranceTypeStatus{}
	if uid != "" {
		records, err := s.repo.ListByUser(ctx, uid)
		if err != nil {
			return nil, err
		}
		summary = summarizeInsurance(records)
	}

	compliant := 0
	for _, it := range required {
		if summary[it.Key].Status == model.InsuranceApproved {
			compliant++
		}
	}
	score := 100
	if len(required) > 0 {
		score = percent(compliant, len(required))
	}
	return &InsuranceRequirements{
		SkillCategory:       category,
		RequiredInsurance:   required,
		UserInsuranceStatus: summary,
		ComplianceScore:     score,
		IsCompliant:         score == 100,
		TotalRequired:       len(required),
		UserCompliant:       compliant,
	}, nil
}

func (s *insuranceService) Verify(ctx context.Context, adminID string, id uuid.UUID, in VerifyInsuranceInput) (*model.InsurancePolicy, error) {
	var status model.InsuranceStatus
	switch in.Action {
	case "approve":
		status = model.InsuranceApproved
	case "reject":
		status = model.InsuranceRejected
	default:
		return nil, apperrors.Invalid("Action must be approve or reject")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrInsuranceNotFound)
	}
	now := s.now()
	p.Status = status
	p.VerifiedAt = &now
	p.VerifiedBy = adminID
	p.VerificationNotes = strings.TrimSpace(in.Notes)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("insurance reviewed",
		zap.String("insurance_id", p.ID.String()),
		zap.String("admin_id", adminID),
		zap.String("status", string(status)),
	)
	msg := fmt.Sprintf("Your %s policy %s was %s.", p.InsuranceType, p.PolicyNumber, strings.ReplaceAll(string(status), "_", " "))
	if err := s.notifications.Notify(ctx, p.UserID, model.NotificationInsuranceReviewed, "Insurance reviewed", msg,
		map[string]string{"insuranceId": p.ID.String(), "status": string(status)}); err != nil {
		s.log.Warn("insurance review notification", zap.String("insurance_id", p.ID.String()), zap.Error(err))
	}
	return p, nil
}

func (s *insuranceService) Expiring(ctx context.Context, uid string, days int) (*ExpiringInsurance, error) {
	days = clampLimit(days, expiringWindowDays, maxExpiryWindowDays)
	now := s.now()
	policies, err := s.repo.ListExpiring(ctx, uid, now, now.Add(time.Duration(days)*24*time.Hour))
	if err != nil {
		return nil, err
	}
	out := &ExpiringInsurance{ExpiringInsurance: make([]ExpiringPolicy, 0, len(policies)), AlertThreshold: days}
	for _, p := range policies {
		left := int(math.Ceil(p.ExpirationDate.Sub(now).Hours() / 24))
		out.ExpiringInsurance = append(out.ExpiringInsurance, ExpiringPolicy{InsurancePolicy: p, DaysUntilExpiration: left})
		if left <= urgentExpiryDays {
			out.UrgentCount++
		}
	}
	out.TotalExpiring = len(out.ExpiringInsurance)
	return out, nil
}

// ReminderPrefs returns stored settings, or the defaults when none were saved.
func (s *insuranceService) ReminderPrefs(ctx context.Context, uid string) (*model.InsuranceReminderPrefs, error) {
	prefs, err := s.repo.FindReminderPrefs(ctx, uid)
	if err == nil {
		return prefs, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return &model.InsuranceReminderPrefs{UserID: uid, EmailReminders: true, ReminderDays: defaultReminderDays}, nil
}

func (s *insuranceService) UpdateReminderPrefs(ctx context.Context, uid string, in ReminderPrefsInput) (*model.InsuranceReminderPrefs, error) {
	prefs := &model.InsuranceReminderPrefs{
		UserID:         uid,
		EmailReminders: true,
		ReminderDays:   defaultReminderDays,
		UpdatedAt:      s.now(),
	}
	if in.EmailReminders != nil {
		prefs.EmailReminders = *in.EmailReminders
	}
	if in.SMSReminders != nil {
		prefs.SMSReminders = *in.SMSReminders
	}
	if in.ReminderDays != nil {
		days := make([]int, 0, len(in.ReminderDays))
		for _, d := range in.ReminderDays {
			if d >= 1 && d <= 90 {
				days = append(days, d)
			}
		}
		prefs.ReminderDays = days
	}
	if err := s.repo.SaveReminderPrefs(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *insuranceService) Stats(ctx context.Context) (*InsuranceStats, error) {
	records, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	recentSince := now.Add(-30 * 24 * time.Hour)
	stats := &InsuranceStats{
		TotalRecords: len(records),
		ByType:       map[string]int{},
		ByStatus: map[string]int{
			string(model.InsurancePendingVerification): 0,
			string(model.InsuranceApproved):            0,
			string(model.InsuranceRejected):            0,
			string(model.InsuranceExpired):             0,
		},
		AverageCoverage: map[string]int64{},
	}
	coverage := map[string]decimal.Decimal{}
	for _, r := range records {
		stats.ByType[r.InsuranceType]++
		stats.ByStatus[string(r.EffectiveStatus(now))]++
		if expiresWithin(r, now, expiringWindowDays) {
			stats.ExpiringIn30Days++
		}
		if r.SubmittedAt.After(recentSince) {
			stats.RecentSubmissions++
		}
		coverage[r.InsuranceType] = coverage[r.InsuranceType].Add(r.CoverageAmount)
	}
	for typ, total := range coverage {
		stats.AverageCoverage[typ] = total.Div(decimal.NewFromInt(int64(stats.ByType[typ]))).Round(0).IntPart()
	}
	return stats, nil
}

// SendReminders notifies owners of approved policies that reached their
// reminder time and reports how many were sent.
func (s *insuranceService) SendReminders(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.repo.ListDueReminders(ctx, now)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, p := range due {
		left := int(math.Ceil(p.ExpirationDate.Sub(now).Hours() / 24))
		msg := fmt.Sprintf("Your %s policy %s with %s expires in %d days.", p.InsuranceType, p.PolicyNumber, p.InsuranceCompany, left)
		if err := s.notifications.Notify(ctx, p.UserID, model.NotificationInsuranceExpiring, "Insurance expiring soon", msg,
			map[string]string{"insuranceId": p.ID.String()}); err != nil {
			s.log.Warn("insurance reminder", zap.String("insurance_id", p.ID.String()), zap.Error(err))
			continue
		}
		if err := s.repo.MarkReminded(ctx, p.ID, now); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func parseISODate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// groupThousands renders n with comma separators, e.g. 1000000 as 1,000,000.
func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
