package catalog

import "sort"

// BadgeType describes an earnable credential.
type BadgeType struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Icon            string   `json:"icon"`
	Color           string   `json:"color"`
	Requirements    []string `json:"requirements"`
	SkillCategories []string `json:"skillCategories"`
}

// allCategories marks a badge that applies to every skill category.
const allCategories = "all"

var badgeTypes = map[string]BadgeType{
	"safety-certified": {
		Name:            "Safety Certified",
		Description:     "Verified safety training and certification",
		Icon:            "🛡️",
		Color:           "#FF6B35",
		Requirements:    []string{"safety_training_cert", "first_aid_cert"},
		SkillCategories: []string{"physical-training", "construction", "automotive"},
	},
	"licensed-professional": {
		Name:            "Licensed Professional",
		Description:     "Professional license verification",
		Icon:            "📋",
		Color:           "#4ECDC4",
		Requirements:    []string{"professional_license"},
		SkillCategories: []string{"legal", "medical", "financial", "construction"},
	},
	"insured-provider": {
		Name:            "Insured Provider",
		Description:     "General liability insurance verified",
		Icon:            "🏛️",
		Color:           "#45B7D1",
		Requirements:    []string{"general_liability_insurance"},
		SkillCategories: []string{"physical-training", "home-repair", "automotive", "construction"},
	},
	"background-verified": {
		Name:            "Background Verified",
		Description:     "Background check completed",
		Icon:            "✅",
		Color:           "#96CEB4",
		Requirements:    []string{"background_check"},
		SkillCategories: []string{"childcare", "eldercare", "tutoring", "home-services"},
	},
	"expert-level": {
		Name:            "Expert Level",
		Description:     "Demonstrated expertise and positive reviews",
		Icon:            "⭐",
		Color:           "#FFEAA7",
		Requirements:    []string{"min_reviews_25", "avg_rating_4_5"},
		SkillCategories: []string{allCategories},
	},
	"master-craftsperson": {
		Name:            "Master Craftsperson",
		Description:     "Advanced skill certification and portfolio",
		Icon:            "🔨",
		Color:           "#DDA0DD",
		Requirements:    []string{"portfolio_verified", "skill_assessment_passed"},
		SkillCategories: []string{"arts-crafts", "woodworking", "construction", "design"},
	},
}

// badgeRequiredCategories are the categories where applicable badges are mandatory.
var badgeRequiredCategories = map[string]bool{
	"physical-training": true,
	"construction":      true,
	"childcare":         true,
}

// Badge returns the badge type with the given key.
func Badge(key string) (BadgeType, bool) {
	b, ok := badgeTypes[key]
	return b, ok
}

// BadgeKeys lists every badge key, sorted.
func BadgeKeys() []string {
	keys := make([]string, 0, len(badgeTypes))
	for k := range badgeTypes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BadgesForCategory returns the badge types applying to category. An empty
// category returns every badge type.
func BadgesForCategory(category string) map[string]BadgeType {
	out := make(map[string]BadgeType)
	for k, b := range badgeTypes {
		if category == "" || b.appliesTo(category) {
			out[k] = b
		}
	}
	return out
}

// BadgesRequiredIn reports whether applicable badges are mandatory in category.
func BadgesRequiredIn(category string) bool {
	return badgeRequiredCategories[category]
}

func (b BadgeType) appliesTo(category string) bool {
	for _, c := range b.SkillCategories {
		if c == category || c == allCategories {
			return true
		}
	}
	return false
}
