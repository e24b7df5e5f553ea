package catalog

// InsuranceType is a policy kind providers can submit for verification.
type InsuranceType struct {
	Key                  string   `json:"type"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	RequiredFor          []string `json:"requiredFor"`
	MinimumCoverage      int64    `json:"minimumCoverage"`
	Documents            []string `json:"documents"`
	VerificationRequired bool     `json:"verificationRequired"`
}

var insuranceTypes = []InsuranceType{
	{
		Key:                  "general_liability",
		Name:                 "General Liability Insurance",
		Description:          "Protects against claims of bodily injury or property damage",
		RequiredFor:          []string{"physical-training", "construction", "home-repair", "childcare"},
		MinimumCoverage:      1000000,
		Documents:            []string{"policy_certificate", "policy_schedule"},
		VerificationRequired: true,
	},
	{
		Key:                  "professional_liability",
		Name:                 "Professional Liability Insurance",
		Description:          "Covers claims related to professional errors or negligence",
		RequiredFor:          []string{"medical", "legal", "financial", "consulting"},
		MinimumCoverage:      1000000,
		Documents:            []string{"policy_certificate", "policy_schedule"},
		VerificationRequired: true,
	},
	{
		Key:                  "malpractice",
		Name:                 "Medical Malpractice Insurance",
		Description:          "Specific coverage for medical professionals",
		RequiredFor:          []string{"medical", "nursing", "therapy"},
		MinimumCoverage:      2000000,
		Documents:            []string{"policy_certificate", "policy_schedule", "claims_history"},
		VerificationRequired: true,
	},
	{
		Key:                  "workers_compensation",
		Name:                 "Workers Compensation Insurance",
		Description:          "Required for businesses with employees",
		RequiredFor:          []string{"construction", "cleaning", "landscaping"},
		MinimumCoverage:      500000,
		Documents:            []string{"policy_certificate", "coverage_verification"},
		VerificationRequired: true,
	},
	{
		Key:                  "auto_liability",
		Name:                 "Automotive Liability Insurance",
		Description:          "Coverage for vehicle-related services",
		RequiredFor:          []string{"automotive", "delivery", "transportation"},
		MinimumCoverage:      500000,
		Documents:            []string{"policy_certificate", "vehicle_registration"},
		VerificationRequired: false,
	},
	{
		Key:                  "garage_liability",
		Name:                 "Garage Liability Insurance",
		Description:          "Specialized coverage for automotive services",
		RequiredFor:          []string{"automotive", "mechanic"},
		MinimumCoverage:      1000000,
		Documents:            []string{"policy_certificate", "garage_keeper_coverage"},
		VerificationRequired: true,
	},
}

// InsuranceTypes returns every insurance type in display order.
func InsuranceTypes() []InsuranceType {
	out := make([]InsuranceType, len(insuranceTypes))
	copy(out, insuranceTypes)
	return out
}

// LookupInsuranceType finds an insurance type by key.
func LookupInsuranceType(key string) (InsuranceType, bool) {
	for _, t := range insuranceTypes {
		if t.Key == key {
			return t, true
		}
	}
	return InsuranceType{}, false
}

// InsuranceTypesFor lists the types a skill category requires. An empty
// category returns every type.
func InsuranceTypesFor(category string) []InsuranceType {
	if category == "" {
		return InsuranceTypes()
	}
	out := []InsuranceType{}
	for _, t := range insuranceTypes {
		for _, c := range t.RequiredFor {
			if c == category {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
