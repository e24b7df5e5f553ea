package model

// Category is a marketplace service category.
type Category struct {
	Slug       string `json:"slug" gorm:"primaryKey;size:64"`
	Name       string `json:"name" gorm:"size:128;not null"`
	Class      string `json:"class" gorm:"size:4"`
	ComingSoon bool   `json:"comingSoon"`

	Requirement *CategoryRequirement `json:"requirements,omitempty" gorm:"foreignKey:Slug;references:Slug"`
}

// CategoryRequirement gates participation in a category.
type CategoryRequirement struct {
	Slug                    string   `json:"-" gorm:"primaryKey;size:64"`
	RequiresLicense         bool     `json:"requiresLicense"`
	RequiresGL              bool     `json:"requiresGeneralLiability"`
	MinGLPerOccurrenceCents int64    `json:"minGLPerOccurrenceCents,omitempty"`
	MinGLAggregateCents     int64    `json:"minGLAggregateCents,omitempty"`
	RequiresBackgroundCheck bool     `json:"requiresBackgroundCheck"`
	RequiresAutoInsurance   bool     `json:"requiresAutoInsurance"`
	Notes                   string   `json:"notes,omitempty" gorm:"size:255"`
	Recommends              []string `json:"recommends,omitempty" gorm:"serializer:json;type:text"`
}

// All lists every model for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&SkillExchange{},
		&Message{},
		&Notification{},
		&Payment{},
		&Document{},
		&Verification{},
		&BadgeRequest{},
		&UserBadge{},
		&LiabilityWaiver{},
		&Category{},
		&CategoryRequirement{},
		&InsurancePolicy{},
		&InsuranceReminderPrefs{},
		&AngelJob{},
		&AngelApplication{},
		&GuruPost{},
		&GuruService{},
		&GuruPage{},
		&GuruLead{},
		&GuruStats{},
	}
}
