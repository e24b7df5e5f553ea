package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"yoohoo/internal/cache"
	"yoohoo/internal/catalog"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

const (
	skillCatalogKey = "skills:catalog"
	skillCatalogTTL = 5 * time.Minute
	popularSkills   = 20
)

// Match scores.
const (
	scoreTheyTeachWhatYouWant = 10
	scoreTheyWantWhatYouTeach = 10
	scoreSharedCategory       = 3
	scoreSameCity             = 5
)

// UserSummary is the compact user shape embedded in skill listings.
type UserSummary struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	PhotoURL    string     `json:"photoURL,omitempty"`
	City        string     `json:"city,omitempty"`
	Tier        model.Tier `json:"tier"`
	Rating      float64    `json:"rating"`
}

func summarize(u model.User) UserSummary {
	return UserSummary{ID: u.ID, DisplayName: u.DisplayName, PhotoURL: u.PhotoURL, City: u.City, Tier: u.Tier, Rating: u.Rating}
}

// SkillEntry aggregates one skill across every profile.
type SkillEntry struct {
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	RiskLevel    catalog.RiskLevel `json:"riskLevel"`
	OfferedBy    []UserSummary     `json:"offeredBy"`
	WantedBy     []UserSummary     `json:"wantedBy"`
	TotalOffered int               `json:"totalOffered"`
	TotalWanted  int               `json:"totalWanted"`
	TotalUsers   int               `json:"totalUsers"`
}

// SkillQuery filters the catalog.
type SkillQuery struct {
	Category string
	Search   string
	Popular  bool
}

// SkillSuggestion is an autocomplete result.
type SkillSuggestion struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	TotalUsers int    `json:"totalUsers"`
}

// Match is a scored counterpart for a user.
type Match struct {
	User             UserSummary `json:"user"`
	Score            int         `json:"score"`
	CanTeach         []string    `json:"canTeach"`
	WantsToLearn     []string    `json:"wantsToLearn"`
	SharedCategories []string    `json:"sharedCategories"`
	SameCity         bool        `json:"sameCity"`
}

// ExchangePair is two users who can each teach the other.
type ExchangePair struct {
	UserA   UserSummary `json:"userA"`
	UserB   UserSummary `json:"userB"`
	Score   int         `json:"score"`
	AOffers []string    `json:"aTeachesB"`
	BOffers []string    `json:"bTeachesA"`
}

// SkillService builds the skill catalog and computes matches.
type SkillService interface {
	Catalog(ctx context.Context) ([]SkillEntry, error)
	RebuildCatalog(ctx context.Context) (int, error)
	List(ctx context.Context, q SkillQuery) ([]SkillEntry, error)
	Get(ctx context.Context, name string) (*SkillEntry, error)
	Autocomplete(ctx context.Context, q string, limit int) ([]SkillSuggestion, error)
	Matches(ctx context.Context, uid string, limit, minScore int) ([]Match, error)
	ExchangePairs(ctx context.Context, limit, minScore int) ([]ExchangePair, error)
}

type skillService struct {
	users repository.UserRepository
	cache *cache.Client
}

// NewSkillService builds a SkillService.
func NewSkillService(users repository.UserRepository, cache *cache.Client) SkillService {
	return &skillService{users: users, cache: cache}
}

func (s *skillService) Catalog(ctx context.Context) ([]SkillEntry, error) {
	var cached []SkillEntry
	if s.cache.GetJSON(ctx, skillCatalogKey, &cached) {
		return cached, nil
	}
	entries, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, skillCatalogKey, entries, skillCatalogTTL)
	return entries, nil
}

// RebuildCatalog recomputes and caches the catalog, returning its size.
func (s *skillService) RebuildCatalog(ctx context.Context) (int, error) {
	entries, err := s.build(ctx)
	if err != nil {
		return 0, err
	}
	s.cache.SetJSON(ctx, skillCatalogKey, entries, skillCatalogTTL)
	return len(entries), nil
}

func (s *skillService) build(ctx context.Context) ([]SkillEntry, error) {
	users, err := s.users.List(ctx, repository.UserFilter{})
	if err != nil {
		return nil, err
	}
	return buildCatalog(users), nil
}

func buildCatalog(users []model.User) []SkillEntry {
	byKey := map[string]*SkillEntry{}
	entry := func(name string) *SkillEntry {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil
		}
		e, ok := byKey[key]
		if !ok {
			e = &SkillEntry{
				Name:      strings.TrimSpace(name),
				Category:  catalog.Categorize(name),
				RiskLevel: catalog.SkillRiskLevel(name),
				OfferedBy: []UserSummary{},
				WantedBy:  []UserSummary{},
			}
			byKey[key] = e
		}
		return e
	}

	for _, u := range users {
		seen := map[*SkillEntry]bool{}
		for _, sk := range normalizeSkills(u.SkillsOffered) {
			if e := entry(sk); e != nil {
				e.OfferedBy = append(e.OfferedBy, summarize(u))
				seen[e] = true
			}
		}
		for _, sk := range normalizeSkills(u.SkillsWanted) {
			if e := entry(sk); e != nil {
				e.WantedBy = append(e.WantedBy, summarize(u))
				seen[e] = true
			}
		}
		for e := range seen {
			e.TotalUsers++
		}
	}

	out := make([]SkillEntry, 0, len(byKey))
	for _, e := range byKey {
		e.TotalOffered = len(e.OfferedBy)
		e.TotalWanted = len(e.WantedBy)
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalUsers != out[j].TotalUsers {
			return out[i].TotalUsers > out[j].TotalUsers
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (s *skillService) List(ctx context.Context, q SkillQuery) ([]SkillEntry, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]SkillEntry, 0, len(all))
	for _, e := range all {
		if q.Category != "" && !strings.EqualFold(e.Category, q.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		out = append(out, e)
	}
	if q.Popular && len(out) > popularSkills {
		out = out[:popularSkills]
	}
	return out, nil
}

func (s *skillService) Get(ctx context.Context, name string) (*SkillEntry, error) {
	all, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Name, strings.TrimSpace(name)) {
			return &all[i], nil
		}
	}
	return nil, apperrors.ErrSkillNotFound
}

func (s *skillService) Autocomplete(ctx context.Context, q string, limit int) ([]SkillSuggestion, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if len([]rune(q)) < 2 {
		return []SkillSuggestion{}, nil
	}
	limit = clampLimit(limit, 10, 50)

	all, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	var prefix, contains []SkillSuggestion
	for _, e := range all {
		lower := strings.ToLower(e.Name)
		sug := SkillSuggestion{Name: e.Name, Category: e.Category, TotalUsers: e.TotalUsers}
		switch {
		case strings.HasPrefix(lower, q):
			prefix = append(prefix, sug)
		case strings.Contains(lower, q):
			contains = append(contains, sug)
		}
	}
	out := append(prefix, contains...)
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []SkillSuggestion{}
	}
	return out, nil
}

func skillsMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// overlap returns the entries of offers matching any of wants.
func overlap(offers, wants []string) []string {
	var out []string
	for _, o := range offers {
		for _, w := range wants {
			if skillsMatch(o, w) {
				out = append(out, o)
				break
			}
		}
	}
	return out
}

func categoriesOf(skills []string) map[string]bool {
	out := map[string]bool{}
	for _, sk := range skills {
		if c := catalog.Categorize(sk); c != catalog.OtherCategory {
			out[c] = true
		}
	}
	return out
}

// scoreMatch rates candidate c for user u.
func scoreMatch(u, c model.User) Match {
	m := Match{User: summarize(c), CanTeach: []string{}, WantsToLearn: []string{}, SharedCategories: []string{}}

	if teach := overlap(c.SkillsOffered, u.SkillsWanted); len(teach) > 0 {
		m.Score += scoreTheyTeachWhatYouWant
		m.CanTeach = teach
	}
	if learn := overlap(c.SkillsWanted, u.SkillsOffered); len(learn) > 0 {
		m.Score += scoreTheyWantWhatYouTeach
		m.WantsToLearn = learn
	}

	wanted := categoriesOf(u.SkillsWanted)
	for cat := range categoriesOf(c.SkillsOffered) {
		if wanted[cat] {
			m.Score += scoreSharedCategory
			m.SharedCategories = append(m.SharedCategories, cat)
		}
	}
	sort.Strings(m.SharedCategories)

	if u.City != "" && strings.EqualFold(strings.TrimSpace(u.City), strings.TrimSpace(c.City)) {
		m.Score += scoreSameCity
		m.SameCity = true
	}
	return m
}

func (s *skillService) Matches(ctx context.Context, uid string, limit, minScore int) ([]Match, error) {
	limit = clampLimit(limit, 10, 100)
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, notFound(err, apperrors.ErrUserNotFound)
	}
	users, err := s.users.List(ctx, repository.UserFilter{})
	if err != nil {
		return nil, err
	}

	matches := []Match{}
	for _, c := range users {
		if c.ID == u.ID {
			continue
		}
		if m := scoreMatch(*u, c); m.Score >= minScore && m.Score > 0 {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *skillService) ExchangePairs(ctx context.Context, limit, minScore int) ([]ExchangePair, error) {
	limit = clampLimit(limit, 20, 100)
	users, err := s.users.List(ctx, repository.UserFilter{})
	if err != nil {
		return nil, err
	}

	pairs := []ExchangePair{}
	for i := 0; i < len(users); i++ {
		for j := i + 1; j < len(users); j++ {
			a, b := users[i], users[j]
			aTeaches := overlap(a.SkillsOffered, b.SkillsWanted)
			bTeaches := overlap(b.SkillsOffered, a.SkillsWanted)
			if len(aTeaches) == 0 || len(bTeaches) == 0 {
				continue
			}
			score := scoreMatch(a, b).Score
			if score < minScore {
				continue
			}
			pairs = append(pairs, ExchangePair{
				UserA:   summarize(a),
				UserB:   summarize(b),
				Score:   score,
				AOffers: aTeaches,
				BOffers: bTeaches,
			})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Score > pairs[j].Score })
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs, nil
}
