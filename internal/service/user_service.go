package service

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"yoohoo/internal/auth"
	"yoohoo/internal/cache"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

const (
	userCacheTTL   = 5 * time.Minute
	maxListedSkill = 20
)

// ListUsersQuery filters the public directory.
type ListUsersQuery struct {
	Tier     string
	Skills   []string
	Location string
	Limit    int
	Offset   int
}

// ProfileUpdate carries the editable profile fields. Nil fields are left alone.
type ProfileUpdate struct {
	DisplayName   *string   `json:"displayName" validate:"omitempty,min=2,max=50"`
	PhotoURL      *string   `json:"photoURL" validate:"omitempty,max=512"`
	Bio           *string   `json:"bio" validate:"omitempty,max=500"`
	SkillsOffered *[]string `json:"skillsOffered" validate:"omitempty,max=20,dive,min=1,max=100"`
	SkillsWanted  *[]string `json:"skillsWanted" validate:"omitempty,max=20,dive,min=1,max=100"`
	Location      *string   `json:"location" validate:"omitempty,max=100"`
	City          *string   `json:"city" validate:"omitempty,max=100"`
	References    *string   `json:"references" validate:"omitempty,max=2000"`
	Credentials   *string   `json:"credentials" validate:"omitempty,max=2000"`
	Education     *string   `json:"education" validate:"omitempty,max=2000"`
}

// SkillSearchHit is a user matched by skill search.
type SkillSearchHit struct {
	model.User
	MatchedIn []string `json:"matchedIn"`
}

// UserStats is the public activity summary of a user.
type UserStats struct {
	Tier               model.Tier `json:"tier"`
	SkillsOfferedCount int        `json:"skillsOfferedCount"`
	SkillsWantedCount  int        `json:"skillsWantedCount"`
	ExchangesProvided  int64      `json:"exchangesAsProvider"`
	ExchangesRequested int64      `json:"exchangesAsRequester"`
	ExchangesCompleted int64      `json:"exchangesCompleted"`
	AverageRating      float64    `json:"averageRating"`
	JoinedAt           time.Time  `json:"joinedAt"`
}

// UserService exposes profile and directory operations.
type UserService interface {
	EnsureProfile(ctx context.Context, id auth.Identity) (*model.User, error)
	UpdateProfile(ctx context.Context, uid string, upd ProfileUpdate) (*model.User, error)
	GetPublic(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, q ListUsersQuery) ([]model.User, int, error)
	SearchBySkill(ctx context.Context, query, kind string) ([]SkillSearchHit, error)
	Stats(ctx context.Context, id string) (*UserStats, error)
	UpdateTier(ctx context.Context, caller auth.Identity, id, tier string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	exchanges repository.ExchangeRepository
	cache     *cache.Client
	now       func() time.Time
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, exchanges repository.ExchangeRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, exchanges: exchanges, cache: cache, now: time.Now}
}

func publicUserKey(id string) string { return "user:public:" + id }

func (s *userService) invalidate(ctx context.Context, id string) {
	_ = s.cache.Delete(ctx, publicUserKey(id), skillCatalogKey)
}

// EnsureProfile returns the caller's profile, creating it from the token on
// first sight, and stamps the login time.
func (s *userService) EnsureProfile(ctx context.Context, id auth.Identity) (*model.User, error) {
	now := s.now()
	u, err := s.repo.FindByID(ctx, id.UID)
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		u = &model.User{
			ID:            id.UID,
			Email:         id.Email,
			DisplayName:   displayNameFromEmail(id.Email),
			SkillsOffered: []string{},
			SkillsWanted:  []string{},
			LastLoginAt:   &now,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return nil, err
		}
		s.invalidate(ctx, u.ID)
		return u, nil
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"last_login_at": now}
	if u.Email == "" && id.Email != "" {
		fields["email"] = id.Email
		u.Email = id.Email
	}
	if err := s.repo.UpdateFields(ctx, u.ID, fields); err != nil {
		return nil, err
	}
	u.LastLoginAt = &now
	return u, nil
}

func displayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	name := []rune(local)
	if len(name) < 2 {
		return "New Member"
	}
	if len(name) > 50 {
		name = name[:50]
	}
	return string(name)
}

func (s *userService) UpdateProfile(ctx context.Context, uid string, upd ProfileUpdate) (*model.User, error) {
	u, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}

	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setString(&u.DisplayName, upd.DisplayName)
	setString(&u.PhotoURL, upd.PhotoURL)
	setString(&u.Bio, upd.Bio)
	setString(&u.Location, upd.Location)
	setString(&u.City, upd.City)
	setString(&u.References, upd.References)
	setString(&u.Credentials, upd.Credentials)
	setString(&u.Education, upd.Education)

	if upd.SkillsOffered != nil {
		if len(*upd.SkillsOffered) > maxListedSkill {
			return nil, apperrors.Invalid("At most 20 skills offered are allowed")
		}
		u.SkillsOffered = normalizeSkills(*upd.SkillsOffered)
	}
	if upd.SkillsWanted != nil {
		if len(*upd.SkillsWanted) > maxListedSkill {
			return nil, apperrors.Invalid("At most 20 skills wanted are allowed")
		}
		u.SkillsWanted = normalizeSkills(*upd.SkillsWanted)
	}
	if n := len([]rune(u.DisplayName)); n < 2 || n > 50 {
		return nil, apperrors.Invalid("Display name must be between 2 and 50 characters")
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.invalidate(ctx, uid)
	return u, nil
}

func normalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, sk := range in {
		sk = strings.TrimSpace(sk)
		key := strings.ToLower(sk)
		if sk == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sk)
	}
	return out
}

func (s *userService) GetPublic(ctx context.Context, id string) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, publicUserKey(id), &cached) {
		return &cached, nil
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	pub := u.Public()
	s.cache.SetJSON(ctx, publicUserKey(id), pub, userCacheTTL)
	return &pub, nil
}

func (s *userService) List(ctx context.Context, q ListUsersQuery) ([]model.User, int, error) {
	users, err := s.repo.List(ctx, repository.UserFilter{Tier: q.Tier, Location: q.Location})
	if err != nil {
		return nil, 0, err
	}

	filtered := make([]model.User, 0, len(users))
	for _, u := range users {
		if len(q.Skills) > 0 && !matchesAnySkill(u, q.Skills) {
			continue
		}
		filtered = append(filtered, u.Public())
	}

	total := len(filtered)
	limit := clampLimit(q.Limit, 50, 100)
	start := q.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

func matchesAnySkill(u model.User, wanted []string) bool {
	all := append(append([]string{}, u.SkillsOffered...), u.SkillsWanted...)
	for _, w := range wanted {
		if containsFoldSubstring(all, w) {
			return true
		}
	}
	return false
}

func (s *userService) SearchBySkill(ctx context.Context, query, kind string) ([]SkillSearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.Invalid("Search query is required")
	}
	switch kind {
	case "", "both", "offered", "wanted":
	default:
		return nil, apperrors.Invalid("type must be one of both, offered, wanted")
	}

	users, err := s.repo.List(ctx, repository.UserFilter{})
	if err != nil {
		return nil, err
	}

	hits := []SkillSearchHit{}
	for _, u := range users {
		var matched []string
		if kind != "wanted" && containsFoldSubstring(u.SkillsOffered, query) {
			matched = append(matched, "offered")
		}
		if kind != "offered" && containsFoldSubstring(u.SkillsWanted, query) {
			matched = append(matched, "wanted")
		}
		if len(matched) > 0 {
			hits = append(hits, SkillSearchHit{User: u.Public(), MatchedIn: matched})
		}
	}
	return hits, nil
}

func (s *userService) Stats(ctx context.Context, id string) (*UserStats, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	counts, err := s.exchanges.CountForUser(ctx, id)
	if err != nil {
		return nil, err
	}

	tier := u.Tier
	if tier == "" {
		tier = model.TierStoneDropper
	}
	return &UserStats{
		Tier:               tier,
		SkillsOfferedCount: len(u.SkillsOffered),
		SkillsWantedCount:  len(u.SkillsWanted),
		ExchangesProvided:  counts.AsProvider,
		ExchangesRequested: counts.AsRequester,
		ExchangesCompleted: counts.Completed,
		AverageRating:      roundTenth(u.Rating),
		JoinedAt:           u.CreatedAt,
	}, nil
}

func (s *userService) UpdateTier(ctx context.Context, caller auth.Identity, id, tier string) (*model.User, error) {
	if !model.ValidTier(tier) {
		return nil, apperrors.ErrInvalidTier
	}
	if caller.UID != id && !caller.IsAdmin() {
		return nil, apperrors.New(apperrors.CodeForbidden, "Unauthorized to update this user")
	}

	if err := s.repo.UpdateFields(ctx, id, map[string]any{"tier": tier}); err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	s.invalidate(ctx, id)
	return s.repo.FindByID(ctx, id)
}

func roundTenth(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
