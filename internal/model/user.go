package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Tier is a user's community standing.
type Tier string

const (
	TierStoneDropper   Tier = "Stone Dropper"
	TierWaveMaker      Tier = "Wave Maker"
	TierCurrentCreator Tier = "Current Creator"
	TierTideTurner     Tier = "Tide Turner"
)

// ValidTier reports whether t is one of the known tiers.
func ValidTier(t string) bool {
	switch Tier(t) {
	case TierStoneDropper, TierWaveMaker, TierCurrentCreator, TierTideTurner:
		return true
	}
	return false
}

// RoleAdmin marks platform administrators.
const RoleAdmin = "admin"

// User is a marketplace member keyed by their Firebase uid.
type User struct {
	ID          string `json:"id" gorm:"primaryKey;size:128"`
	Email       string `json:"email,omitempty" gorm:"size:255;index"`
	DisplayName string `json:"displayName" gorm:"size:50"`
	PhotoURL    string `json:"photoURL,omitempty" gorm:"size:512"`
	Bio         string `json:"bio,omitempty" gorm:"size:500"`

	SkillsOffered []string `json:"skillsOffered" gorm:"serializer:json;type:text"`
	SkillsWanted  []string `json:"skillsWanted" gorm:"serializer:json;type:text"`

	Location string `json:"location,omitempty" gorm:"size:100"`
	City     string `json:"city,omitempty" gorm:"size:100;index"`

	Tier           Tier    `json:"tier" gorm:"size:32;index"`
	Rating         float64 `json:"rating"`
	RatingCount    int     `json:"ratingCount"`
	TotalExchanges int     `json:"totalExchanges"`
	Role           string  `json:"role,omitempty" gorm:"size:32"`

	References  string `json:"references,omitempty" gorm:"type:text"`
	Credentials string `json:"credentials,omitempty" gorm:"type:text"`
	Education   string `json:"education,omitempty" gorm:"type:text"`

	ComplianceCategories []string `json:"complianceCategories,omitempty" gorm:"serializer:json;type:text"`

	StripeCustomerID      string     `json:"-" gorm:"size:64;index"`
	StripeAccountID       string     `json:"-" gorm:"size:64;index"`
	PayoutsReady          bool       `json:"payoutsReady"`
	SubscriptionID        string     `json:"-" gorm:"size:64"`
	SubscriptionStatus    string     `json:"subscriptionStatus,omitempty" gorm:"size:32"`
	SubscriptionPeriodEnd *time.Time `json:"subscriptionPeriodEnd,omitempty"`

	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BeforeCreate fills defaults before the first insert.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Tier == "" {
		u.Tier = TierStoneDropper
	}
	if u.Role == "" {
		u.Role = "user"
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Public returns a copy without private contact and activity fields.
func (u User) Public() User {
	u.Email = ""
	u.LastLoginAt = nil
	u.ComplianceCategories = nil
	return u
}

// ProfileField returns the value of a compliance profile field by name.
func (u *User) ProfileField(name string) string {
	switch name {
	case "displayName":
		return u.DisplayName
	case "bio":
		return u.Bio
	case "location":
		return u.Location
	case "photo":
		return u.PhotoURL
	case "references":
		return u.References
	case "credentials":
		return u.Credentials
	case "education":
		return u.Education
	default:
		return ""
	}
}

// OffersSkill reports whether the user lists skill as offered (case-insensitive).
func (u *User) OffersSkill(skill string) bool { return containsFold(u.SkillsOffered, skill) }

// WantsSkill reports whether the user lists skill as wanted (case-insensitive).
func (u *User) WantsSkill(skill string) bool { return containsFold(u.SkillsWanted, skill) }

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
