package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"yoohoo/internal/catalog"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

// WaiverVersion is the current revision of the waiver text.
const WaiverVersion = "1.0"

// WaiverInput is a waiver acceptance.
type WaiverInput struct {
	SkillCategory       string                  `json:"skillCategory" validate:"required,max=100"`
	RiskLevel           string                  `json:"riskLevel" validate:"required,oneof=low medium high"`
	ActivityDescription string                  `json:"activityDescription" validate:"max=2000"`
	EmergencyContact    *model.EmergencyContact `json:"emergencyContact"`
	ExchangeID          string                  `json:"exchangeId"`
	IPAddress           string                  `json:"-"`
	UserAgent           string                  `json:"-"`
}

// WaiverCheck tells the client whether a skill needs a waiver.
type WaiverCheck struct {
	Skill          string            `json:"skill"`
	Category       string            `json:"category"`
	RiskLevel      catalog.RiskLevel `json:"riskLevel"`
	WaiverRequired bool              `json:"waiverRequired"`
}

// LiabilityService records liability waivers.
type LiabilityService interface {
	Accept(ctx context.Context, uid string, in WaiverInput) (*model.LiabilityWaiver, error)
	List(ctx context.Context, uid string) ([]model.LiabilityWaiver, error)
	Check(skill string) (*WaiverCheck, error)
}

type liabilityService struct {
	waivers repository.WaiverRepository
}

// NewLiabilityService builds a LiabilityService.
func NewLiabilityService(waivers repository.WaiverRepository) LiabilityService {
	return &liabilityService{waivers: waivers}
}

func (s *liabilityService) Accept(ctx context.Context, uid string, in WaiverInput) (*model.LiabilityWaiver, error) {
	switch catalog.RiskLevel(in.RiskLevel) {
	case catalog.RiskLow, catalog.RiskMedium, catalog.RiskHigh:
	default:
		return nil, apperrors.Invalid("riskLevel must be low, medium or high")
	}
	if strings.TrimSpace(in.SkillCategory) == "" {
		return nil, apperrors.Invalid("skillCategory is required")
	}
	if catalog.RiskLevel(in.RiskLevel) == catalog.RiskHigh {
		ec := in.EmergencyContact
		if ec == nil || strings.TrimSpace(ec.Name) == "" || strings.TrimSpace(ec.Phone) == "" {
			return nil, apperrors.Invalid("Emergency contact name and phone are required for high-risk activities")
		}
	}

	w := &model.LiabilityWaiver{
		UserID:              uid,
		SkillCategory:       strings.TrimSpace(in.SkillCategory),
		RiskLevel:           in.RiskLevel,
		ActivityDescription: strings.TrimSpace(in.ActivityDescription),
		EmergencyContact:    in.EmergencyContact,
		IPAddress:           in.IPAddress,
		UserAgent:           truncate(in.UserAgent, 255),
		Version:             WaiverVersion,
	}
	if in.ExchangeID != "" {
		id, err := uuid.Parse(in.ExchangeID)
		if err != nil {
			return nil, apperrors.Invalid("exchangeId must be a UUID")
		}
		w.ExchangeID = &id
	}
	if err := s.waivers.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *liabilityService) List(ctx context.Context, uid string) ([]model.LiabilityWaiver, error) {
	out, err := s.waivers.ListByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.LiabilityWaiver{}
	}
	return out, nil
}

func (s *liabilityService) Check(skill string) (*WaiverCheck, error) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return nil, apperrors.Invalid("skill is required")
	}
	return &WaiverCheck{
		Skill:          skill,
		Category:       catalog.Categorize(skill),
		RiskLevel:      catalog.SkillRiskLevel(skill),
		WaiverRequired: catalog.RequiresLiabilityWaiver(skill),
	}, nil
}
