package service

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"yoohoo/internal/catalog"
	apperrors "yoohoo/internal/errors"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

const (
	homePostCount       = 6
	relatedPostCount    = 3
	defaultPostPageSize = 12
	maxPostPageSize     = 50
	aboutPage           = "about"
	leadSource          = "guru-website"
)

var (
	leadEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	slugSeparators   = regexp.MustCompile(`[^a-z0-9]+`)
)

// GuruHome is the landing page of a guru site.
type GuruHome struct {
	Guru          catalog.Guru     `json:"guru"`
	FeaturedPosts []model.GuruPost `json:"featuredPosts"`
	Stats         model.GuruStats  `json:"stats"`
	Subdomain     string           `json:"subdomain"`
}

// PostQuery filters a guru blog listing. "all" for Tag or Category is ignored.
type PostQuery struct {
	Tag      string
	Category string
	Search   string
	Featured bool
	Page     int
	Limit    int
}

// PostPagination describes one page of posts.
type PostPagination struct {
	TotalPosts  int  `json:"totalPosts"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	Limit       int  `json:"limit"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// PostFilters lists the tags and categories present in a result set.
type PostFilters struct {
	AvailableTags       []string `json:"availableTags"`
	AvailableCategories []string `json:"availableCategories"`
}

// PostPage is one page of guru blog posts.
type PostPage struct {
	Posts      []model.GuruPost `json:"posts"`
	Pagination PostPagination   `json:"pagination"`
	Filters    PostFilters      `json:"filters"`
}

// PostView is a single post with posts sharing its tags.
type PostView struct {
	Post         model.GuruPost   `json:"post"`
	RelatedPosts []model.GuruPost `json:"relatedPosts"`
	Guru         catalog.Guru     `json:"guru"`
}

// LeadInput is a contact request from a guru site visitor.
type LeadInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,max=255"`
	Phone   string `json:"phone" validate:"max=32"`
	Service string `json:"service" validate:"required,max=120"`
	Message string `json:"message" validate:"max=2000"`
}

// LeadOrigin identifies the client that sent a lead.
type LeadOrigin struct {
	IP        string
	UserAgent string
}

// LeadReceipt acknowledges a stored lead.
type LeadReceipt struct {
	LeadID uuid.UUID `json:"leadId"`
	Guru   string    `json:"guru"`
}

// GuruServices lists the bookable offerings of a guru site.
type GuruServices struct {
	Services []model.GuruService `json:"services"`
	Guru     catalog.Guru        `json:"guru"`
}

// GuruAbout is the about page of a guru site.
type GuruAbout struct {
	About model.GuruPage `json:"about"`
	Guru  catalog.Guru   `json:"guru"`
}

// CreatePostInput authors a guru blog post. A blank slug is derived from the title.
type CreatePostInput struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Slug     string   `json:"slug" validate:"max=160"`
	Excerpt  string   `json:"excerpt" validate:"max=500"`
	Content  string   `json:"content" validate:"required"`
	Category string   `json:"category" validate:"max=64"`
	Tags     []string `json:"tags" validate:"max=20,dive,max=40"`
	Featured bool     `json:"featured"`
	Publish  bool     `json:"publish"`
}

// CreateGuruServiceInput adds an offering to a guru site.
type CreateGuruServiceInput struct {
	Name         string `json:"name" validate:"required,max=120"`
	Description  string `json:"description" validate:"max=1000"`
	Price        string `json:"price" validate:"max=32"`
	Duration     string `json:"duration" validate:"max=32"`
	DisplayOrder int    `json:"displayOrder"`
}

// SavePageInput replaces the about page of a guru site.
type SavePageInput struct {
	Title    string              `json:"title" validate:"required,max=200"`
	Content  string              `json:"content" validate:"required"`
	CTA      string              `json:"cta" validate:"max=64"`
	CTALink  string              `json:"ctaLink" validate:"max=255"`
	Features []model.GuruFeature `json:"features" validate:"max=12"`
}

// GuruSiteService serves the themed guru subdomain sites.
type GuruSiteService interface {
	Home(ctx context.Context, g catalog.Guru) (*GuruHome, error)
	Posts(ctx context.Context, g catalog.Guru, q PostQuery) (*PostPage, error)
	Post(ctx context.Context, g catalog.Guru, slug string) (*PostView, error)
	SubmitLead(ctx context.Context, g catalog.Guru, in LeadInput, origin LeadOrigin) (*LeadReceipt, error)
	Services(ctx context.Context, g catalog.Guru) (*GuruServices, error)
	About(ctx context.Context, g catalog.Guru) (*GuruAbout, error)
	CreatePost(ctx context.Context, authorID string, g catalog.Guru, in CreatePostInput) (*model.GuruPost, error)
	CreateService(ctx context.Context, g catalog.Guru, in CreateGuruServiceInput) (*model.GuruService, error)
	SaveAbout(ctx context.Context, g catalog.Guru, in SavePageInput) (*model.GuruPage, error)
	ResetMonthlyVisitors(ctx context.Context) (int64, error)
}

type guruSiteService struct {
	repo repository.GuruRepository
	log  *zap.Logger
	now  func() time.Time
}

// NewGuruSiteService builds a GuruSiteService.
func NewGuruSiteService(repo repository.GuruRepository, log *zap.Logger) GuruSiteService {
	if log == nil {
		log = zap.NewNop()
	}
	return &guruSiteService{repo: repo, log: log, now: time.Now}
}

func (s *guruSiteService) Home(ctx context.Context, g catalog.Guru) (*GuruHome, error) {
	posts, err := s.repo.ListPublished(ctx, g.Subdomain)
	if err != nil {
		return nil, err
	}
	featured := make([]model.GuruPost, 0, homePostCount)
	for _, p := range posts {
		if p.Featured && len(featured) < homePostCount {
			featured = append(featured, p)
		}
	}
	for _, p := range posts {
		if len(featured) >= homePostCount {
			break
		}
		if !p.Featured {
			featured = append(featured, p)
		}
	}

	if err := s.repo.IncrementStat(ctx, g.Subdomain, repository.StatMonthlyVisitors); err != nil {
		s.log.Warn("guru visitor counter", zap.String("subdomain", g.Subdomain), zap.Error(err))
	}
	stats, err := s.repo.Stats(ctx, g.Subdomain)
	if err != nil {
		return nil, err
	}
	stats.TotalPosts = int64(len(posts))
	return &GuruHome{Guru: g, FeaturedPosts: featured, Stats: *stats, Subdomain: g.Subdomain}, nil
}

func (s *guruSiteService) Posts(ctx context.Context, g catalog.Guru, q PostQuery) (*PostPage, error) {
	posts, err := s.repo.ListPublished(ctx, g.Subdomain)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]model.GuruPost, 0, len(posts))
	for _, p := range posts {
		if q.Featured && !p.Featured {
			continue
		}
		if q.Tag != "" && q.Tag != "all" && !p.HasAnyTag([]string{q.Tag}) {
			continue
		}
		if q.Category != "" && q.Category != "all" && p.Category != q.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Excerpt), search) &&
			!strings.Contains(strings.ToLower(p.Content), search) {
			continue
		}
		matched = append(matched, p)
	}

	limit := clampLimit(q.Limit, defaultPostPageSize, maxPostPageSize)
	page := q.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	end := start + limit
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	tags := map[string]bool{}
	categories := map[string]bool{}
	for _, p := range matched {
		for _, t := range p.Tags {
			tags[t] = true
		}
		if p.Category != "" {
			categories[p.Category] = true
		}
	}
	return &PostPage{
		Posts: matched[start:end],
		Pagination: PostPagination{
			TotalPosts:  len(matched),
			TotalPages:  int(math.Ceil(float64(len(matched)) / float64(limit))),
			CurrentPage: page,
			Limit:       limit,
			HasNext:     end < len(matched),
			HasPrev:     page > 1,
		},
		Filters: PostFilters{AvailableTags: sortedKeys(tags), AvailableCategories: sortedKeys(categories)},
	}, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Post returns a published post and counts the view.
func (s *guruSiteService) Post(ctx context.Context, g catalog.Guru, slug string) (*PostView, error) {
	post, err := s.repo.FindPostBySlug(ctx, g.Subdomain, slug)
	if err != nil {
		return nil, notFound(err, apperrors.ErrPostNotFound.WithMeta("slug", slug))
	}
	if post.Status != model.PostPublished {
		return nil, apperrors.ErrPostNotFound.WithMeta("slug", slug)
	}

	if err := s.repo.IncrementViews(ctx, post.ID); err != nil {
		return nil, err
	}
	post.Views++
	if err := s.repo.IncrementStat(ctx, g.Subdomain, repository.StatViews); err != nil {
		s.log.Warn("guru view counter", zap.String("subdomain", g.Subdomain), zap.Error(err))
	}

	related := []model.GuruPost{}
	if len(post.Tags) > 0 {
		posts, err := s.repo.ListPublished(ctx, g.Subdomain)
		if err != nil {
			return nil, err
		}
		for _, p := range posts {
			if len(related) == relatedPostCount {
				break
			}
			if p.ID != post.ID && p.HasAnyTag(post.Tags) {
				related = append(related, p)
			}
		}
	}
	return &PostView{Post: *post, RelatedPosts: related, Guru: g}, nil
}

func (s *guruSiteService) SubmitLead(ctx context.Context, g catalog.Guru, in LeadInput, origin LeadOrigin) (*LeadReceipt, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	service := strings.TrimSpace(in.Service)
	if name == "" || email == "" || service == "" {
		return nil, apperrors.Invalid("Name, email, and service are required")
	}
	if !leadEmailPattern.MatchString(email) {
		return nil, apperrors.Invalid("Invalid email format")
	}

	lead := &model.GuruLead{
		Subdomain:     g.Subdomain,
		GuruCharacter: g.Character,
		Name:          name,
		Email:         email,
		Phone:         strings.TrimSpace(in.Phone),
		Service:       service,
		Message:       strings.TrimSpace(in.Message),
		Status:        model.LeadNew,
		Source:        leadSource,
		IP:            origin.IP,
		UserAgent:     truncate(origin.UserAgent, 255),
	}
	if err := s.repo.CreateLead(ctx, lead); err != nil {
		return nil, err
	}
	if err := s.repo.IncrementStat(ctx, g.Subdomain, repository.StatLeads); err != nil {
		s.log.Warn("guru lead counter", zap.String("subdomain", g.Subdomain), zap.Error(err))
	}
	s.log.Info("guru lead submitted",
		zap.String("subdomain", g.Subdomain),
		zap.String("lead_id", lead.ID.String()),
		zap.String("email", maskEmail(email)),
	)
	return &LeadReceipt{LeadID: lead.ID, Guru: g.Character}, nil
}

// maskEmail keeps the first three characters of an address for logs.
func maskEmail(email string) string {
	r := []rune(email)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r) + "***@"
}

func (s *guruSiteService) Services(ctx context.Context, g catalog.Guru) (*GuruServices, error) {
	services, err := s.repo.ListServices(ctx, g.Subdomain)
	if err != nil {
		return nil, err
	}
	if services == nil {
		services = []model.GuruService{}
	}
	return &GuruServices{Services: services, Guru: g}, nil
}

// About returns the stored about page, or one generated from the guru profile.
func (s *guruSiteService) About(ctx context.Context, g catalog.Guru) (*GuruAbout, error) {
	page, err := s.repo.FindPage(ctx, g.Subdomain, aboutPage)
	if err == nil {
		return &GuruAbout{About: *page, Guru: g}, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return &GuruAbout{About: defaultAbout(g), Guru: g}, nil
}

func defaultAbout(g catalog.Guru) model.GuruPage {
	features := make([]model.GuruFeature, 0, len(g.PrimarySkills))
	for _, skill := range g.PrimarySkills {
		features = append(features, model.GuruFeature{
			Title:       titleWords(strings.Replace(skill, "-", " ", 1)),
			Description: "Expert guidance in " + skill,
		})
	}
	return model.GuruPage{
		Subdomain: g.Subdomain,
		Page:      aboutPage,
		Title:     "About " + g.Character,
		Content: "Meet " + g.Character + ", your expert guide in " + g.Category +
			". With years of experience and a passion for teaching, they're here to help you master " +
			strings.Join(g.PrimarySkills, ", ") + " and achieve your goals.",
		CTA:      "Book a Session",
		CTALink:  "/contact",
		Features: features,
	}
}

// titleWords upper-cases the first letter of every word.
func titleWords(s string) string {
	r := []rune(s)
	start := true
	for i, c := range r {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			if start {
				r[i] = unicode.ToUpper(c)
			}
			start = false
			continue
		}
		start = true
	}
	return string(r)
}

func slugify(s string) string {
	return strings.Trim(slugSeparators.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func (s *guruSiteService) CreatePost(ctx context.Context, authorID string, g catalog.Guru, in CreatePostInput) (*model.GuruPost, error) {
	title := strings.TrimSpace(in.Title)
	slug := slugify(in.Slug)
	if slug == "" {
		slug = slugify(title)
	}
	if title == "" || slug == "" {
		return nil, apperrors.Invalid("title must contain letters or digits")
	}
	if _, err := s.repo.FindPostBySlug(ctx, g.Subdomain, slug); err == nil {
		return nil, apperrors.New(apperrors.CodeAlreadyExists, "A post with this slug already exists").WithMeta("slug", slug)
	} else if !isNotFound(err) {
		return nil, err
	}

	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	post := &model.GuruPost{
		Subdomain: g.Subdomain,
		Slug:      slug,
		Title:     title,
		Excerpt:   strings.TrimSpace(in.Excerpt),
		Content:   in.Content,
		Category:  strings.TrimSpace(in.Category),
		Tags:      tags,
		Featured:  in.Featured,
		Status:    model.PostDraft,
		AuthorID:  authorID,
	}
	if in.Publish {
		now := s.now()
		post.Status = model.PostPublished
		post.PublishedAt = &now
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	s.log.Info("guru post created",
		zap.String("subdomain", g.Subdomain),
		zap.String("slug", slug),
		zap.String("status", string(post.Status)),
	)
	return post, nil
}

func (s *guruSiteService) CreateService(ctx context.Context, g catalog.Guru, in CreateGuruServiceInput) (*model.GuruService, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.Invalid("name is required")
	}
	svc := &model.GuruService{
		Subdomain:    g.Subdomain,
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		Price:        strings.TrimSpace(in.Price),
		Duration:     strings.TrimSpace(in.Duration),
		DisplayOrder: in.DisplayOrder,
	}
	if err := s.repo.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *guruSiteService) SaveAbout(ctx context.Context, g catalog.Guru, in SavePageInput) (*model.GuruPage, error) {
	features := in.Features
	if features == nil {
		features = []model.GuruFeature{}
	}
	page := &model.GuruPage{
		Subdomain: g.Subdomain,
		Page:      aboutPage,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		CTA:       strings.TrimSpace(in.CTA),
		CTALink:   strings.TrimSpace(in.CTALink),
		Features:  features,
		UpdatedAt: s.now(),
	}
	if err := s.repo.SavePage(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// ResetMonthlyVisitors starts a new visitor count on every site.
func (s *guruSiteService) ResetMonthlyVisitors(ctx context.Context) (int64, error) {
	n, err := s.repo.ResetMonthlyVisitors(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Info("guru visitor counters reset", zap.Int64("sites", n))
	return n, nil
}
