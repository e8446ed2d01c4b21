package schema

import "strings"

// Default pair used when no tag matches the lookup table.
const (
	DefaultCategory    = "programming-languages"
	DefaultSubcategory = "general"
)

type categoryPair struct {
	category    string
	subcategory string
}

// tagTable maps lowercase tags to category/subcategory pairs. First
// matching tag in original list order wins.
var tagTable = map[string]categoryPair{
	"javascript": {"web-frontend", "javascript"},
	"typescript": {"web-frontend", "javascript"},
	"css":        {"web-frontend", "css"},
	"html":       {"web-frontend", "html"},
	"react":      {"web-frontend", "javascript"},
	"vue":        {"web-frontend", "javascript"},
	"angular":    {"web-frontend", "javascript"},

	"python": {"programming-languages", "python"},
	"java":   {"programming-languages", "java"},
	"cpp":    {"programming-languages", "cpp"},
	"c++":    {"programming-languages", "cpp"},
	"c":      {"programming-languages", "c"},
	"csharp": {"programming-languages", "csharp"},
	"c#":     {"programming-languages", "csharp"},
	"go":     {"programming-languages", "go"},
	"rust":   {"programming-languages", "rust"},
	"php":    {"programming-languages", "php"},
	"ruby":   {"programming-languages", "ruby"},

	"sql":        {"databases", "sql"},
	"mysql":      {"databases", "mysql"},
	"postgresql": {"databases", "postgresql"},
	"mongodb":    {"databases", "mongodb"},

	"android": {"mobile", "android"},
	"ios":     {"mobile", "ios"},
	"swift":   {"mobile", "ios"},
	"kotlin":  {"mobile", "android"},

	"linux":      {"system-devops", "linux"},
	"bash":       {"system-devops", "shell"},
	"shell":      {"system-devops", "shell"},
	"docker":     {"system-devops", "containerization"},
	"kubernetes": {"system-devops", "containerization"},
	"git":        {"system-devops", "version-control"},
	"aws":        {"system-devops", "cloud"},
	"rpm":        {"system-devops", "package-management"},
}

// Mapper assigns taxonomy categories and enhances tag lists.
type Mapper struct {
	taxonomy         *Taxonomy
	maxTags          int
	preserveOriginal bool
}

func NewMapper(taxonomy *Taxonomy, maxTags int) *Mapper {
	if maxTags <= 0 {
		maxTags = 5
	}
	return &Mapper{taxonomy: taxonomy, maxTags: maxTags, preserveOriginal: true}
}

// Categorize maps a tag list to a category/subcategory pair. Tags are
// inspected in their original order; the first table hit wins. No hit
// yields the default pair.
func (m *Mapper) Categorize(tags []string) (string, string) {
	for _, tag := range tags {
		if pair, ok := tagTable[strings.ToLower(tag)]; ok {
			return pair.category, m.fitSubcategory(pair.category, pair.subcategory, tags)
		}
	}
	return DefaultCategory, DefaultSubcategory
}

// fitSubcategory keeps the pair consistent with the loaded taxonomy: when
// the mapped subcategory is absent from the category's enumeration, a tag
// that is a valid subcategory id wins, then the category's first entry.
func (m *Mapper) fitSubcategory(categoryID, subcategory string, tags []string) string {
	cat := m.taxonomy.Category(categoryID)
	if cat == nil {
		return subcategory
	}

	valid := make(map[string]bool, len(cat.Subcategories))
	for _, sub := range cat.Subcategories {
		valid[sub.ID] = true
	}
	if valid[subcategory] {
		return subcategory
	}
	for _, tag := range tags {
		if valid[strings.ToLower(tag)] {
			return strings.ToLower(tag)
		}
	}
	if len(cat.Subcategories) > 0 {
		return cat.Subcategories[0].ID
	}
	return DefaultSubcategory
}

// EnhanceTags merges the original tags with the taxonomy's auto-tags for
// the assigned pair. Originals come first, duplicates are dropped
// case-insensitively, and the result is capped at the configured maximum.
func (m *Mapper) EnhanceTags(tags []string, categoryID, subcategoryID string) []string {
	var enhanced []string
	seen := make(map[string]bool)

	if m.preserveOriginal {
		for _, tag := range tags {
			key := strings.ToLower(tag)
			if !seen[key] {
				enhanced = append(enhanced, tag)
				seen[key] = true
			}
		}
	}

	if cat := m.taxonomy.Category(categoryID); cat != nil {
		for _, sub := range cat.Subcategories {
			if sub.ID != subcategoryID {
				continue
			}
			for _, tag := range sub.AutoTags {
				key := strings.ToLower(tag)
				if !seen[key] {
					enhanced = append(enhanced, tag)
					seen[key] = true
				}
			}
			break
		}
	}

	if len(enhanced) > m.maxTags {
		enhanced = enhanced[:m.maxTags]
	}
	return enhanced
}
