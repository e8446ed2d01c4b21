package schema

// Subcategory is a single entry of a category's enumeration. AutoTags are
// merged into document tags during tag enhancement.
type Subcategory struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	AutoTags []string `json:"autoTags"`
}

type Category struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Taxonomy is the externally supplied category/subcategory enumeration.
type Taxonomy struct {
	Categories []Category `json:"categories"`
}

// CategoryIDs returns the set of valid category ids.
func (t *Taxonomy) CategoryIDs() []string {
	ids := make([]string, len(t.Categories))
	for i, c := range t.Categories {
		ids[i] = c.ID
	}
	return ids
}

// Category looks up a category by id. Returns nil when absent.
func (t *Taxonomy) Category(id string) *Category {
	for i := range t.Categories {
		if t.Categories[i].ID == id {
			return &t.Categories[i]
		}
	}
	return nil
}

// ContentSchema mirrors the upstream content-schema.json layout.
type ContentSchema struct {
	ArticleSchema struct {
		FrontmatterRequired []string `json:"frontmatter_required"`
	} `json:"article_schema"`
	Requirements struct {
		Frontmatter struct {
			ValidationRules struct {
				Title struct {
					MinLength int `json:"min_length"`
					MaxLength int `json:"max_length"`
				} `json:"title"`
				Difficulty struct {
					Values []string `json:"values"`
				} `json:"difficulty"`
			} `json:"validation_rules"`
		} `json:"frontmatter"`
	} `json:"requirements"`
}

// Metrics summarizes measurable document properties.
type Metrics struct {
	Words      int `json:"words"`
	CodeBlocks int `json:"codeBlocks"`
	Headers    int `json:"headers"`
}

// Report is the outcome of a validation pass. Errors are fatal; warnings
// are advisory only.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Metrics  Metrics  `json:"metrics"`
}

func (r *Report) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Valid = false
}

func (r *Report) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *Report) merge(other Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	if !other.Valid {
		r.Valid = false
	}
}
