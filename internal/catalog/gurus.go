package catalog

import "sort"

// GuruSEO is the search metadata of a guru site.
type GuruSEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Guru is one themed subdomain site such as cooking.yoohoo.guru.
type Guru struct {
	Subdomain     string   `json:"subdomain"`
	Character     string   `json:"character"`
	Category      string   `json:"category"`
	PrimarySkills []string `json:"primarySkills"`
	PrimaryColor  string   `json:"primaryColor"`
	SEO           GuruSEO  `json:"seo"`
}

// ReservedSubdomains never resolve to a guru site.
var ReservedSubdomains = []string{"www", "api", "admin", "staging", "dev", "test"}

var gurus = map[string]Guru{
	"cooking": {
		Character:     "Chef Guru",
		Category:      "culinary",
		PrimarySkills: []string{"cooking", "baking", "nutrition", "meal-prep", "food-styling"},
		PrimaryColor:  "#e74c3c",
		SEO: GuruSEO{
			Title:       "Chef Guru - Master Culinary Skills",
			Description: "Learn cooking, baking, and culinary arts from expert chefs. Master knife skills, cooking techniques, and recipes.",
		},
	},
	"music": {
		Character:     "Music Guru",
		Category:      "audio",
		PrimarySkills: []string{"guitar", "piano", "vocals", "production", "composition"},
		PrimaryColor:  "#9b59b6",
		SEO: GuruSEO{
			Title:       "Music Guru - Learn Musical Instruments & Production",
			Description: "Master guitar, piano, vocals, and music production. Learn from professional musicians and producers.",
		},
	},
	"fitness": {
		Character:     "Fitness Guru",
		Category:      "health",
		PrimarySkills: []string{"personal-training", "yoga", "strength-training", "nutrition", "wellness"},
		PrimaryColor:  "#27ae60",
		SEO: GuruSEO{
			Title:       "Fitness Guru - Personal Training & Wellness",
			Description: "Get fit with personal training, yoga, strength training, and nutrition coaching from certified professionals.",
		},
	},
	"tech": {
		Character:     "Tech Guru",
		Category:      "technology",
		PrimarySkills: []string{"programming", "web-development", "mobile-apps", "data-science", "ai-ml"},
		PrimaryColor:  "#3498db",
		SEO: GuruSEO{
			Title:       "Tech Guru - Programming & Technology Skills",
			Description: "Learn programming, web development, mobile apps, and AI/ML from experienced tech professionals.",
		},
	},
	"art": {
		Character:     "Art Guru",
		Category:      "creative",
		PrimarySkills: []string{"drawing", "painting", "digital-art", "sculpture", "photography"},
		PrimaryColor:  "#e67e22",
		SEO: GuruSEO{
			Title:       "Art Guru - Master Visual Arts & Creative Skills",
			Description: "Learn drawing, painting, digital art, and photography from professional artists and creatives.",
		},
	},
	"language": {
		Character:     "Language Guru",
		Category:      "education",
		PrimarySkills: []string{"english", "spanish", "french", "mandarin", "conversation"},
		PrimaryColor:  "#8e44ad",
		SEO: GuruSEO{
			Title:       "Language Guru - Master New Languages Fast",
			Description: "Learn languages with native speakers and certified teachers. Practice conversation and master grammar.",
		},
	},
	"business": {
		Character:     "Business Guru",
		Category:      "professional",
		PrimarySkills: []string{"entrepreneurship", "marketing", "sales", "leadership", "strategy"},
		PrimaryColor:  "#34495e",
		SEO: GuruSEO{
			Title:       "Business Guru - Entrepreneurship & Professional Skills",
			Description: "Learn business skills, entrepreneurship, marketing, and leadership from successful business professionals.",
		},
	},
	"design": {
		Character:     "Design Guru",
		Category:      "creative",
		PrimarySkills: []string{"graphic-design", "ui-ux", "branding", "typography", "layout"},
		PrimaryColor:  "#e91e63",
		SEO: GuruSEO{
			Title:       "Design Guru - Graphic Design & UI/UX Skills",
			Description: "Master graphic design, UI/UX, branding, and visual design with professional designers.",
		},
	},
	"writing": {
		Character:     "Writing Guru",
		Category:      "creative",
		PrimarySkills: []string{"creative-writing", "copywriting", "blogging", "editing", "storytelling"},
		PrimaryColor:  "#795548",
		SEO: GuruSEO{
			Title:       "Writing Guru - Master Creative & Professional Writing",
			Description: "Learn creative writing, copywriting, blogging, and storytelling from published authors and professionals.",
		},
	},
	"photography": {
		Character:     "Photography Guru",
		Category:      "creative",
		PrimarySkills: []string{"portrait", "landscape", "wedding", "editing", "equipment"},
		PrimaryColor:  "#607d8b",
		SEO: GuruSEO{
			Title:       "Photography Guru - Master Photography Skills",
			Description: "Learn photography techniques, editing, and equipment use from professional photographers.",
		},
	},
	"gardening": {
		Character:     "Garden Guru",
		Category:      "lifestyle",
		PrimarySkills: []string{"vegetable-gardening", "flower-gardening", "landscaping", "composting", "plant-care"},
		PrimaryColor:  "#4caf50",
		SEO: GuruSEO{
			Title:       "Garden Guru - Master Gardening & Plant Care",
			Description: "Learn gardening, plant care, landscaping, and sustainable growing from expert gardeners.",
		},
	},
	"crafts": {
		Character:     "Crafts Guru",
		Category:      "creative",
		PrimarySkills: []string{"woodworking", "knitting", "pottery", "jewelry-making", "sewing"},
		PrimaryColor:  "#ff9800",
		SEO: GuruSEO{
			Title:       "Crafts Guru - Master Handmade Arts & Crafts",
			Description: "Learn woodworking, knitting, pottery, jewelry making, and more crafts from skilled artisans.",
		},
	},
	"wellness": {
		Character:     "Wellness Guru",
		Category:      "health",
		PrimarySkills: []string{"meditation", "mindfulness", "stress-management", "life-coaching", "therapy"},
		PrimaryColor:  "#009688",
		SEO: GuruSEO{
			Title:       "Wellness Guru - Mental Health & Mindfulness",
			Description: "Learn meditation, mindfulness, stress management, and wellness practices from certified professionals.",
		},
	},
	"finance": {
		Character:     "Finance Guru",
		Category:      "professional",
		PrimarySkills: []string{"investing", "budgeting", "tax-planning", "real-estate", "retirement"},
		PrimaryColor:  "#2e7d32",
		SEO: GuruSEO{
			Title:       "Finance Guru - Investment & Money Management",
			Description: "Learn investing, budgeting, tax planning, and financial management from certified financial professionals.",
		},
	},
	"home": {
		Character:     "Home Guru",
		Category:      "lifestyle",
		PrimarySkills: []string{"organization", "cleaning", "home-improvement", "interior-design", "maintenance"},
		PrimaryColor:  "#5e35b1",
		SEO: GuruSEO{
			Title:       "Home Guru - Home Organization & Improvement",
			Description: "Learn home organization, cleaning, interior design, and home improvement from professional organizers.",
		},
	},
}

// LookupGuru finds a guru site by subdomain.
func LookupGuru(subdomain string) (Guru, bool) {
	g, ok := gurus[subdomain]
	if !ok {
		return Guru{}, false
	}
	g.Subdomain = subdomain
	return g, true
}

// GuruSubdomains lists every guru subdomain, sorted.
func GuruSubdomains() []string {
	out := make([]string, 0, len(gurus))
	for k := range gurus {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsReservedSubdomain reports whether label belongs to platform hosts.
func IsReservedSubdomain(label string) bool {
	for _, r := range ReservedSubdomains {
		if r == label {
			return true
		}
	}
	return false
}
