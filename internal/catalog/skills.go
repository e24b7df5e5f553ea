// Package catalog holds the static lookup tables of the marketplace: skill
// categories and their risk levels, compliance requirements per category,
// badge types and the launch set of marketplace categories.
package catalog

import "strings"

// RiskLevel grades how dangerous a skill is to teach or learn.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskExtreme RiskLevel = "extreme"
)

// OtherCategory is returned for skills no keyword matches.
const OtherCategory = "Other"

// SessionTemplate is a suggested session format for a category.
type SessionTemplate struct {
	Name         string `json:"name"`
	Duration     string `json:"duration"`
	Participants string `json:"participants"`
	Difficulty   string `json:"difficulty"`
}

// SkillCategory describes one entry of the categorization table.
type SkillCategory struct {
	Name             string            `json:"name"`
	Keywords         []string          `json:"keywords"`
	RiskLevel        RiskLevel         `json:"riskLevel"`
	Description      string            `json:"description"`
	SessionTemplates []SessionTemplate `json:"sessionTemplates"`
}

// skillCategories is scanned in order; more specific categories come first.
var skillCategories = []SkillCategory{
	{
		Name:        "Martial Arts",
		Keywords:    []string{"martial-arts", "martial arts", "karate", "judo", "taekwondo", "boxing", "kickboxing", "mma", "self-defense", "jiu-jitsu", "kung fu"},
		RiskLevel:   RiskHigh,
		Description: "Combat and martial arts training with significant injury risk",
		SessionTemplates: []SessionTemplate{
			{"Sparring Session", "45 min", "2", "Intermediate"},
			{"Technique Training", "60 min", "2-4", "All Levels"},
			{"Self-Defense Workshop", "90 min", "4-8", "Beginner"},
		},
	},
	{
		Name:        "Electrical",
		Keywords:    []string{"electrical", "electrician", "wiring", "electronics", "circuit", "voltage", "power systems"},
		RiskLevel:   RiskHigh,
		Description: "Electrical work with high risk of shock or electrocution",
		SessionTemplates: []SessionTemplate{
			{"Electrical Safety Training", "120 min", "2-3", "Beginner"},
			{"Circuit Installation", "180 min", "2", "Advanced"},
			{"Troubleshooting Session", "90 min", "2", "Intermediate"},
		},
	},
	{
		Name:        "Woodworking",
		Keywords:    []string{"woodworking", "wood working", "furniture making", "cabinetry", "joinery", "sawing", "power tools", "carpentry"},
		RiskLevel:   RiskHigh,
		Description: "Woodworking and carpentry with high risk from power tools and sharp instruments",
		SessionTemplates: []SessionTemplate{
			{"Power Tool Safety", "90 min", "2-4", "Beginner"},
			{"Furniture Building", "240 min", "2-3", "Intermediate"},
			{"Advanced Joinery", "180 min", "2", "Advanced"},
		},
	},
	{
		Name:        "Health & Fitness",
		Keywords:    []string{"fitness training", "fitness", "yoga", "meditation", "nutrition", "cooking", "exercise", "health", "wellness", "personal training", "strength training"},
		RiskLevel:   RiskMedium,
		Description: "Health and fitness activities with moderate physical exertion risk",
		SessionTemplates: []SessionTemplate{
			{"Personal Training Session", "60 min", "1-2", "All Levels"},
			{"Wellness Consultation", "45 min", "2", "Beginner"},
			{"Group Meditation", "30 min", "4-8", "All Levels"},
		},
	},
	{
		Name:        "Creative",
		Keywords:    []string{"graphic design", "design", "music", "photography", "writing", "painting", "drawing", "pottery", "craft", "creative", "art"},
		RiskLevel:   RiskLow,
		Description: "Artistic and creative skills with minimal physical risk",
		SessionTemplates: []SessionTemplate{
			{"1-on-1 Design Critique", "60 min", "2", "Beginner"},
			{"Portfolio Review Session", "90 min", "2-3", "Intermediate"},
			{"Creative Workshop", "120 min", "3-6", "All Levels"},
		},
	},
	{
		Name:        "Technical",
		Keywords:    []string{"programming", "coding", "web development", "software", "computer", "tech", "development", "data", "ai", "machine learning"},
		RiskLevel:   RiskLow,
		Description: "Technology and software skills with minimal physical risk",
		SessionTemplates: []SessionTemplate{
			{"Code Review & Mentoring", "45 min", "2", "Intermediate"},
			{"Pair Programming Session", "120 min", "2", "All Levels"},
			{"Technical Interview Prep", "60 min", "2", "Advanced"},
		},
	},
	{
		Name:        "Language",
		Keywords:    []string{"english", "spanish", "french", "german", "chinese", "japanese", "language", "translation"},
		RiskLevel:   RiskLow,
		Description: "Language learning and communication skills with minimal risk",
		SessionTemplates: []SessionTemplate{
			{"Conversation Practice", "30 min", "2", "Beginner"},
			{"Grammar Deep Dive", "45 min", "2-3", "Intermediate"},
			{"Cultural Immersion Chat", "60 min", "2-4", "All Levels"},
		},
	},
	{
		Name:        "Business",
		Keywords:    []string{"marketing", "sales", "finance", "accounting", "management", "business", "entrepreneurship"},
		RiskLevel:   RiskLow,
		Description: "Business and professional skills with minimal risk",
		SessionTemplates: []SessionTemplate{
			{"Business Plan Review", "90 min", "2-3", "Intermediate"},
			{"Pitch Practice Session", "60 min", "2-4", "All Levels"},
			{"Strategy Workshop", "120 min", "3-6", "Advanced"},
		},
	},
	{
		Name:        "Practical",
		Keywords:    []string{"repair", "maintenance", "plumbing", "gardening", "cleaning", "organizing"},
		RiskLevel:   RiskMedium,
		Description: "Practical and maintenance skills with moderate risk",
		SessionTemplates: []SessionTemplate{
			{"Hands-on Tutorial", "90 min", "2-3", "Beginner"},
			{"Repair Workshop", "120 min", "2-4", "Intermediate"},
			{"Master Class", "180 min", "4-6", "Advanced"},
		},
	},
	{
		Name:        "Academic",
		Keywords:    []string{"math", "science", "physics", "chemistry", "biology", "history", "geography", "tutoring", "teaching"},
		RiskLevel:   RiskLow,
		Description: "Academic subjects and tutoring with minimal risk",
		SessionTemplates: []SessionTemplate{
			{"Tutoring Session", "60 min", "2", "All Levels"},
			{"Study Group", "90 min", "3-6", "All Levels"},
			{"Exam Prep Workshop", "120 min", "4-8", "Intermediate"},
		},
	},
}

// Categorize returns the first category whose keyword occurs in skill, or
// OtherCategory.
func Categorize(skill string) string {
	lower := strings.ToLower(strings.TrimSpace(skill))
	if lower == "" {
		return OtherCategory
	}
	for _, c := range skillCategories {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				return c.Name
			}
		}
	}
	return OtherCategory
}

// SkillRiskLevel returns the risk level of the skill's category. Unknown skills are low risk.
func SkillRiskLevel(skill string) RiskLevel {
	c := CategoryMetadata(Categorize(skill))
	if c == nil {
		return RiskLow
	}
	return c.RiskLevel
}

// CategoryMetadata returns the table entry for name, or nil.
func CategoryMetadata(name string) *SkillCategory {
	for i := range skillCategories {
		if skillCategories[i].Name == name {
			c := skillCategories[i]
			return &c
		}
	}
	return nil
}

// SkillCategories returns every table entry in scan order.
func SkillCategories() []SkillCategory {
	out := make([]SkillCategory, len(skillCategories))
	copy(out, skillCategories)
	return out
}

// CategoryNames lists category names in scan order followed by OtherCategory.
func CategoryNames() []string {
	names := make([]string, 0, len(skillCategories)+1)
	for _, c := range skillCategories {
		names = append(names, c.Name)
	}
	return append(names, OtherCategory)
}

// CategoriesByRisk lists the categories graded at level.
func CategoriesByRisk(level RiskLevel) []string {
	var names []string
	for _, c := range skillCategories {
		if c.RiskLevel == level {
			names = append(names, c.Name)
		}
	}
	return names
}

// RequiresLiabilityWaiver reports whether teaching skill needs a signed waiver.
func RequiresLiabilityWaiver(skill string) bool {
	level := SkillRiskLevel(skill)
	return level == RiskHigh || level == RiskExtreme
}

// HighRiskCategories lists high and extreme categories.
func HighRiskCategories() []string {
	return append(CategoriesByRisk(RiskHigh), CategoriesByRisk(RiskExtreme)...)
}

// ValidRiskLevel reports whether s names a known risk level.
func ValidRiskLevel(s string) bool {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh, RiskExtreme:
		return true
	}
	return false
}
