package convert

import (
	"crypto/sha256"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/deepvdocs/docstage/app/corpus"
	"github.com/deepvdocs/docstage/app/schema"
)

const (
	uniqueIDSalt   = "deepv-content-2025"
	titleMaxLength = 70
	titleMinLength = 5
	slugMaxLength  = 60
	readingSpeed   = 200
)

// Converter assembles validated staging documents from corpus records and
// generated article bodies.
type Converter struct {
	validator *schema.Validator
	mapper    *schema.Mapper
	now       func() time.Time
}

func New(s *schema.Schema, maxTags int) *Converter {
	return &Converter{
		validator: schema.NewValidator(s),
		mapper:    schema.NewMapper(&s.Taxonomy, maxTags),
		now:       time.Now,
	}
}

// Convert builds the staging document for rec with the generated body. The
// rendered result is validated before being returned; a document that fails
// validation is never produced.
func (c *Converter) Convert(rec *corpus.Record, body string, featured bool) (*Document, error) {
	title := normalizeTitle(rec.Title)
	slug := Slug(title)
	uniqueID := UniqueID(rec.ExternalID())

	body = stripFrontmatter(body)
	body = normalizeFences(body)
	body = normalizeStructure(body)
	body = strings.TrimSpace(body)

	category, subcategory := c.mapper.Categorize(rec.Tags)
	tags := c.mapper.EnhanceTags(rec.Tags, category, subcategory)
	if len(tags) == 0 {
		tags = []string{"programming"}
	}

	doc := &Document{
		Frontmatter: Frontmatter{
			Title:       title,
			Slug:        slug,
			Category:    category,
			Subcategory: subcategory,
			Description: describe(title, body),
			Tags:        tags,
			Difficulty:  assessDifficulty(rec.QuestionText),
			ReadTime:    readTime(body),
			LastUpdated: c.now().UTC().Format("2006-01-02T15:04:05.000Z"),
			Featured:    featured,
		},
		Body:     body,
		Filename: fmt.Sprintf("%s-%s.mdx", slug, uniqueID),
		SourceID: rec.ExternalID(),
		UniqueID: uniqueID,
	}

	report := c.validator.ValidateDocument(doc.Render())
	if !report.Valid {
		return nil, fmt.Errorf("document validation failed: %s", strings.Join(report.Errors, "; "))
	}
	doc.Metrics = report.Metrics

	return doc, nil
}

var titleNoise = []string{"[duplicate]", "[closed]"}

func normalizeTitle(title string) string {
	for _, noise := range titleNoise {
		title = strings.ReplaceAll(title, noise, "")
	}
	title = strings.TrimSpace(title)

	// Length limits count characters, not bytes, and truncation must not
	// split a multibyte rune
	if runes := []rune(title); len(runes) > titleMaxLength {
		title = string(runes[:titleMaxLength-3]) + "..."
	} else if len(runes) < titleMinLength {
		title = title + " - Programming Guide"
	}
	return title
}

var (
	slugFolder    = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	slugInvalid   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces    = regexp.MustCompile(`\s+`)
	slugHyphenRun = regexp.MustCompile(`-+`)
)

// Slug derives the URL-safe kebab-case form of a title. Diacritics are
// folded to their base letters before anything non-alphanumeric is dropped,
// and the result is capped at a word boundary.
func Slug(title string) string {
	slug := strings.ToLower(title)
	if folded, _, err := transform.String(slugFolder, slug); err == nil {
		slug = folded
	}
	slug = slugInvalid.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugHyphenRun.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > slugMaxLength {
		slug = slug[:slugMaxLength]
		if idx := strings.LastIndex(slug, "-"); idx > 0 {
			slug = slug[:idx]
		}
	}
	return slug
}

// UniqueID derives the stable 8-character document id from a source id.
func UniqueID(sourceID string) string {
	sum := sha256.Sum256([]byte(uniqueIDSalt + "-" + sourceID))
	return fmt.Sprintf("%x", sum)[:8]
}

func readTime(body string) int {
	words := len(strings.Fields(body))
	minutes := int(math.Round(float64(words) / readingSpeed))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

var (
	beginnerKeywords = []string{"how to", "getting started", "basic", "simple", "introduction", "tutorial"}
	advancedKeywords = []string{"performance", "optimization", "scalability", "architecture", "best practices", "production"}
)

func assessDifficulty(questionText string) string {
	lower := strings.ToLower(questionText)
	for _, keyword := range beginnerKeywords {
		if strings.Contains(lower, keyword) {
			return "beginner"
		}
	}
	for _, keyword := range advancedKeywords {
		if strings.Contains(lower, keyword) {
			return "advanced"
		}
	}
	return "intermediate"
}

var (
	quickAnswerSection = regexp.MustCompile(`(?s)## Quick Answer\s*(.*?)(?:##|\n\n)`)
	fencedCode         = regexp.MustCompile("(?s)```.*?```")
	markdownMarkup     = regexp.MustCompile("[*_`#]")
)

const (
	descriptionMinLength = 20
	descriptionMaxLength = 200
)

// describe derives the summary line: the Quick Answer section when the body
// has one, a template sentence otherwise. Length is clamped to the schema's
// bounds either way.
func describe(title, body string) string {
	description := ""
	if match := quickAnswerSection.FindStringSubmatch(body); match != nil {
		text := fencedCode.ReplaceAllString(match[1], "")
		text = markdownMarkup.ReplaceAllString(text, "")
		text = strings.Join(strings.Fields(text), " ")
		description = text
	}
	if description == "" {
		description = fmt.Sprintf("Learn %s with practical examples and best practices.", strings.ToLower(title))
	}

	runes := []rune(description)
	if len(runes) < descriptionMinLength {
		description += " Complete programming guide with code examples."
	}
	if runes = []rune(description); len(runes) > descriptionMaxLength {
		description = string(runes[:descriptionMaxLength-3]) + "..."
	}
	return description
}
