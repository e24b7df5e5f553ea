package catalog

import "sort"

// ComplianceLastUpdated is the revision date of the requirement table.
const ComplianceLastUpdated = "2024-12-01"

// InsuranceRequirement lists insurance types a provider must hold and the
// minimum coverage in dollars.
type InsuranceRequirement struct {
	Types           []string `json:"types"`
	MinimumCoverage int64    `json:"minimumCoverage"`
}

// RequiredItems is what a provider must have to participate in a category.
type RequiredItems struct {
	Profile      []string             `json:"profile"`
	Documents    []string             `json:"documents"`
	Badges       []string             `json:"badges"`
	Verification []string             `json:"verification"`
	Insurance    InsuranceRequirement `json:"insurance"`
}

// ComplianceCategory is one regulated skill category.
type ComplianceCategory struct {
	Name         string         `json:"name"`
	RiskLevel    RiskLevel      `json:"riskLevel"`
	Required     RequiredItems  `json:"required"`
	Restrictions map[string]any `json:"restrictions"`
}

var complianceCategories = map[string]ComplianceCategory{
	"physical-training": {
		Name:      "Physical Training & Fitness",
		RiskLevel: RiskHigh,
		Required: RequiredItems{
			Profile:      []string{"displayName", "bio", "location", "photo"},
			Documents:    []string{"liability_insurance", "first_aid_cert"},
			Badges:       []string{"safety-certified", "insured-provider"},
			Verification: []string{"background_check"},
			Insurance:    InsuranceRequirement{Types: []string{"general_liability"}, MinimumCoverage: 1000000},
		},
		Restrictions: map[string]any{"minAge": 18, "maxParticipants": 8, "requiresWaiver": true, "emergencyContactRequired": true},
	},
	"childcare": {
		Name:      "Childcare & Education",
		RiskLevel: RiskHigh,
		Required: RequiredItems{
			Profile:      []string{"displayName", "bio", "location", "photo", "references"},
			Documents:    []string{"background_check", "child_protection_training"},
			Badges:       []string{"background-verified"},
			Verification: []string{"criminal_background_check", "child_abuse_clearance"},
			Insurance:    InsuranceRequirement{Types: []string{"general_liability", "professional_liability"}, MinimumCoverage: 1000000},
		},
		Restrictions: map[string]any{"minAge": 21, "maxParticipants": 6, "requiresWaiver": true, "parentalConsentRequired": true},
	},
	"medical": {
		Name:      "Medical & Health Services",
		RiskLevel: RiskHigh,
		Required: RequiredItems{
			Profile:      []string{"displayName", "bio", "location", "photo", "credentials"},
			Documents:    []string{"professional_license", "malpractice_insurance"},
			Badges:       []string{"licensed-professional", "insured-provider"},
			Verification: []string{"license_verification", "education_verification"},
			Insurance:    InsuranceRequirement{Types: []string{"malpractice", "general_liability"}, MinimumCoverage: 2000000},
		},
		Restrictions: map[string]any{"minAge": 25, "scopeOfPractice": "must_match_license", "requiresWaiver": true, "medicalHistoryRequired": true},
	},
	"construction": {
		Name:      "Construction & Home Repair",
		RiskLevel: RiskHigh,
		Required: RequiredItems{
			Profile:      []string{"displayName", "bio", "location", "photo"},
			Documents:    []string{"contractors_license", "liability_insurance", "workers_comp"},
			Badges:       []string{"licensed-professional", "insured-provider"},
			Verification: []string{"license_verification"},
			Insurance:    InsuranceRequirement{Types: []string{"general_liability", "workers_compensation"}, MinimumCoverage: 1000000},
		},
		Restrictions: map[string]any{"minAge": 18, "requiresWaiver": true, "propertyWaiverRequired": true},
	},
	"automotive": {
		Name:      "Automotive Services",
		RiskLevel: RiskMedium,
		Required: RequiredItems{
			Profile:      []string{"displayName", "bio", "location", "photo"},
			Documents:    []string{"auto_insurance", "mechanic_certification"},
			Badges:       []string{"insured-provider"},
			Verification: []string{"certification_verification"},
			Insurance:    InsuranceRequirement{Types: []string{"auto_liability", "garage_liability"}, MinimumCoverage: 500000},
		},
		Restrictions: map[string]any{"minAge": 18, "requiresWaiver": true, "vehicleInspectionRequired": true},
	},
	"tutoring": {
		Name:      "Tutoring & Education",
		RiskLevel: RiskMedium,
		Required: RequiredItems{
			Profile:      []string{"displayName", "bio", "location", "photo", "education"},
			Documents:    []string{"background_check", "education_verification"},
			Badges:       []string{"background-verified"},
			Verification: []string{"background_check"},
			Insurance:    InsuranceRequirement{Types: []string{"general_liability"}, MinimumCoverage: 500000},
		},
		Restrictions: map[string]any{"minAge": 18, "requiresWaiver": false, "parentalConsentRequired": true},
	},
	"cooking": {
		Name:      "Cooking & Food Services",
		RiskLevel: RiskMedium,
		Required: RequiredItems{
			Profile:      []string{"displayName", "bio", "location", "photo"},
			Documents:    []string{"food_handlers_permit", "kitchen_insurance"},
			Badges:       []string{},
			Verification: []string{"food_safety_certification"},
			Insurance:    InsuranceRequirement{Types: []string{"general_liability"}, MinimumCoverage: 500000},
		},
		Restrictions: map[string]any{"minAge": 18, "allergyDisclosureRequired": true, "kitchenInspectionRequired": true},
	},
	"arts-crafts": {
		Name:      "Arts & Crafts",
		RiskLevel: RiskLow,
		Required: RequiredItems{
			Profile:      []string{"displayName", "bio", "location"},
			Documents:    []string{},
			Badges:       []string{},
			Verification: []string{},
			Insurance:    InsuranceRequirement{Types: []string{}},
		},
		Restrictions: map[string]any{"minAge": 16, "requiresWaiver": false},
	},
	"technology": {
		Name:      "Technology & IT",
		RiskLevel: RiskLow,
		Required: RequiredItems{
			Profile:      []string{"displayName", "bio", "location"},
			Documents:    []string{},
			Badges:       []string{},
			Verification: []string{},
			Insurance:    InsuranceRequirement{Types: []string{}},
		},
		Restrictions: map[string]any{"minAge": 16, "requiresWaiver": false},
	},
}

// ComplianceRequirements returns the requirements for a category slug.
func ComplianceRequirements(slug string) (ComplianceCategory, bool) {
	c, ok := complianceCategories[slug]
	return c, ok
}

// ComplianceCategorySlugs lists every regulated category slug, sorted.
func ComplianceCategorySlugs() []string {
	slugs := make([]string, 0, len(complianceCategories))
	for slug := range complianceCategories {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
