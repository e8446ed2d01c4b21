package schema

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// lastUpdated must match JavaScript's Date().toISOString() exactly:
// millisecond precision with a literal trailing Z. Any other ISO variant
// is rejected.
var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)

var (
	fencePattern       = regexp.MustCompile("(?s)```([^\n]*)\n(.*?)\n```")
	frontmatterPattern = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n`)
	headerPattern      = regexp.MustCompile(`(?m)^#+\s+.+$`)
)

// supportedLanguages are the canonical fence tags downstream rendering
// recognizes; alias forms (yml, shell, mysql) are rewritten to these before
// validation. Anything else is flagged as a warning, never a fatal error.
var supportedLanguages = map[string]bool{
	"javascript": true, "typescript": true, "html": true, "css": true,
	"scss": true, "less": true, "jsx": true, "tsx": true, "vue": true,
	"svelte": true, "json": true, "xml": true,
	"python": true, "java": true, "csharp": true, "php": true, "ruby": true,
	"go": true, "rust": true, "kotlin": true, "scala": true,
	"swift": true, "dart": true, "objective-c": true,
	"sql": true, "mongodb": true, "redis": true, "sqlite": true,
	"bash": true, "powershell": true, "dockerfile": true,
	"yaml": true, "terraform": true,
	"c": true, "cpp": true, "mermaid": true, "markdown": true,
	"text": true,
}

const minHeaderCount = 3

// Validator enforces frontmatter and content contracts against a schema.
type Validator struct {
	schema *Schema
}

func NewValidator(s *Schema) *Validator {
	return &Validator{schema: s}
}

// ValidateFrontmatter checks the decoded frontmatter fields against the
// required-field list and per-field rules.
func (v *Validator) ValidateFrontmatter(fields map[string]interface{}) Report {
	report := Report{Valid: true}

	for _, field := range v.schema.Content.ArticleSchema.FrontmatterRequired {
		if _, ok := fields[field]; !ok {
			report.addError(fmt.Sprintf("missing required field: %s", field))
		}
	}

	rules := v.schema.Content.Requirements.Frontmatter.ValidationRules

	if raw, ok := fields["title"]; ok {
		title, _ := raw.(string)
		// Bounds count characters, not bytes
		length := utf8.RuneCountInString(title)
		if length < rules.Title.MinLength {
			report.addError(fmt.Sprintf("title too short (minimum %d characters)", rules.Title.MinLength))
		}
		if length > rules.Title.MaxLength {
			report.addError(fmt.Sprintf("title too long (maximum %d characters)", rules.Title.MaxLength))
		}
	}

	if raw, ok := fields["category"]; ok {
		category, _ := raw.(string)
		if v.schema.Taxonomy.Category(category) == nil {
			report.addError(fmt.Sprintf("invalid category: %s (valid: %s)",
				category, strings.Join(v.schema.Taxonomy.CategoryIDs(), ", ")))
		}
	}

	if raw, ok := fields["difficulty"]; ok {
		difficulty, _ := raw.(string)
		valid := false
		for _, d := range rules.Difficulty.Values {
			if difficulty == d {
				valid = true
				break
			}
		}
		if !valid {
			report.addError(fmt.Sprintf("invalid difficulty: %s", difficulty))
		}
	}

	if raw, ok := fields["lastUpdated"]; ok {
		date, _ := raw.(string)
		if !isoDatePattern.MatchString(date) {
			report.addError("lastUpdated must be ISO 8601 with millisecond precision and trailing Z")
		}
	}

	return report
}

// ValidateCodeBlocks checks every fenced code block in body. An empty
// language tag is fatal; an unrecognized one is a warning.
func (v *Validator) ValidateCodeBlocks(body string) Report {
	report := Report{Valid: true}

	blocks := fencePattern.FindAllStringSubmatch(body, -1)
	for i, block := range blocks {
		language := strings.TrimSpace(block[1])
		if language == "" {
			report.addError(fmt.Sprintf("code block %d missing language tag", i+1))
			continue
		}
		if !supportedLanguages[strings.ToLower(language)] {
			report.addWarning(fmt.Sprintf("code block %d uses uncommon language: %s", i+1, language))
		}
	}

	report.Metrics.CodeBlocks = len(blocks)
	return report
}

// ValidateDocument validates a complete staging document: frontmatter block
// plus markdown body. Validity requires no fatal errors from either check.
func (v *Validator) ValidateDocument(text string) Report {
	report := Report{Valid: true}

	match := frontmatterPattern.FindStringSubmatch(text)
	if match == nil {
		report.addError("missing frontmatter block")
		return report
	}

	var fields map[string]interface{}
	if err := yaml.Unmarshal([]byte(match[1]), &fields); err != nil {
		report.addError(fmt.Sprintf("malformed frontmatter: %v", err))
		return report
	}

	report.merge(v.ValidateFrontmatter(fields))

	body := text[len(match[0]):]
	codeReport := v.ValidateCodeBlocks(body)
	report.merge(codeReport)

	report.Metrics.Words = len(strings.Fields(body))
	report.Metrics.CodeBlocks = codeReport.Metrics.CodeBlocks
	report.Metrics.Headers = len(headerPattern.FindAllString(body, -1))
	if report.Metrics.Headers < minHeaderCount {
		report.addWarning("few headers - content may lack structure")
	}

	return report
}
