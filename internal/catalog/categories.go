package catalog

import "yoohoo/internal/model"

const (
	glPerOccurrenceCents = 100000000
	glAggregateCents     = 200000000
)

// LaunchCategories returns the marketplace categories seeded at launch, each
// with its requirement row attached.
func LaunchCategories() []model.Category {
	reqs := map[string]model.CategoryRequirement{
		"tutoring":    {Notes: "Guardian present for minors (MVP)."},
		"music":       {},
		"fitness":     {Recommends: []string{"CPR/First Aid", "PT cert (NASM/ACE)"}},
		"handyman":    {RequiresGL: true, MinGLPerOccurrenceCents: glPerOccurrenceCents, MinGLAggregateCents: glAggregateCents, Notes: "No gas, roofing, or structural work."},
		"cleaning":    {Notes: "No mold/biohazard."},
		"yard-farm":   {RequiresGL: true, MinGLPerOccurrenceCents: glPerOccurrenceCents, MinGLAggregateCents: glAggregateCents, Notes: "No tree felling >15 ft (Coming Soon)."},
		"moving-help": {},
		"errands":     {},
		"electrical":  {RequiresLicense: true, RequiresGL: true, MinGLPerOccurrenceCents: glPerOccurrenceCents, MinGLAggregateCents: glAggregateCents},
		"plumbing":    {RequiresLicense: true, RequiresGL: true, MinGLPerOccurrenceCents: glPerOccurrenceCents, MinGLAggregateCents: glAggregateCents},
		"hvac":        {RequiresLicense: true, RequiresGL: true, MinGLPerOccurrenceCents: glPerOccurrenceCents, MinGLAggregateCents: glAggregateCents, Notes: "EPA 608 required if applicable."},
		"tree-work":   {RequiresGL: true, MinGLPerOccurrenceCents: glPerOccurrenceCents, MinGLAggregateCents: glAggregateCents, Notes: "ISA recommended; higher-risk controls Coming Soon."},
		"transport":   {RequiresAutoInsurance: true, Notes: "No hazmat; securement rules apply."},
	}

	cats := []model.Category{
		{Slug: "tutoring", Name: "Tutoring & Lessons", Class: "E"},
		{Slug: "music", Name: "Music Lessons", Class: "E"},
		{Slug: "fitness", Name: "Personal Training", Class: "E"},

		{Slug: "handyman", Name: "Handyman (basic)", Class: "B"},
		{Slug: "cleaning", Name: "Cleaning (non-bio)", Class: "F"},
		{Slug: "yard-farm", Name: "Yard & Farm (non-mechanical)", Class: "B"},
		{Slug: "moving-help", Name: "Moving Help (no truck)", Class: "A"},
		{Slug: "errands", Name: "Errands & Organizing", Class: "A"},

		{Slug: "electrical", Name: "Electrical (licensed)", Class: "C", ComingSoon: true},
		{Slug: "plumbing", Name: "Plumbing (licensed)", Class: "C", ComingSoon: true},
		{Slug: "hvac", Name: "HVAC (licensed)", Class: "C", ComingSoon: true},
		{Slug: "tree-work", Name: "Tree Work (higher risk)", Class: "C", ComingSoon: true},
		{Slug: "transport", Name: "Transport/Hauling (provider vehicle)", Class: "D", ComingSoon: true},
	}

	for i := range cats {
		r := reqs[cats[i].Slug]
		r.Slug = cats[i].Slug
		cats[i].Requirement = &r
	}
	return cats
}
