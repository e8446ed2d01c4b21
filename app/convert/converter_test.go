package convert

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/deepvdocs/docstage/app/corpus"
	"github.com/deepvdocs/docstage/app/schema"
)

func newTestConverter(t *testing.T) *Converter {
	t.Helper()
	s, err := schema.Load(schema.LoadOptions{})
	if err != nil {
		t.Fatalf("Failed to load schema: %v", err)
	}
	c := New(s, 5)
	c.now = func() time.Time {
		return time.Date(2024, 9, 18, 12, 30, 0, 0, time.UTC)
	}
	return c
}

func TestSlug(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"How to Use Python Lists?", "how-to-use-python-lists"},
		{"What's   the   deal?", "whats-the-deal"},
		{"Café au lait: naïve façade", "cafe-au-lait-naive-facade"},
		{"--already--hyphenated--", "already-hyphenated"},
		{"C# vs C++", "c-vs-c"},
	}
	for _, c := range cases {
		if got := Slug(c.title); got != c.want {
			t.Errorf("Slug(%q) = %q, expected %q", c.title, got, c.want)
		}
	}
}

func TestSlug_CapsAtWordBoundary(t *testing.T) {
	title := "This is a very long title that keeps going and going well past any sensible limit"
	slug := Slug(title)
	if len(slug) > 60 {
		t.Errorf("Slug length %d exceeds 60: %q", len(slug), slug)
	}
	if strings.HasSuffix(slug, "-") {
		t.Errorf("Slug should not end with a hyphen: %q", slug)
	}
	// The cap cuts at a word boundary, never mid-word.
	if slug != "this-is-a-very-long-title-that-keeps-going-and-going-well" {
		t.Errorf("Unexpected truncation: %q", slug)
	}
}

func TestUniqueID(t *testing.T) {
	id := UniqueID("12345")
	if len(id) != 8 {
		t.Errorf("Expected 8-character id, got %q", id)
	}
	if id != UniqueID("12345") {
		t.Error("UniqueID must be deterministic")
	}
	if id == UniqueID("12346") {
		t.Error("Different sources should not collide")
	}
}

func TestNormalizeTitle(t *testing.T) {
	long := strings.Repeat("a", 80)
	got := normalizeTitle(long)
	if len(got) != 70 || !strings.HasSuffix(got, "...") {
		t.Errorf("Expected 70-char title ending in ellipsis, got %q", got)
	}

	if got := normalizeTitle("Hi"); got != "Hi - Programming Guide" {
		t.Errorf("Short title should be padded, got %q", got)
	}

	if got := normalizeTitle("Fix NPE [duplicate]"); got != "Fix NPE" {
		t.Errorf("Noise markers should be stripped, got %q", got)
	}
}

func TestNormalizeTitle_MultibyteRunes(t *testing.T) {
	long := strings.Repeat("é", 80)
	got := normalizeTitle(long)
	if !utf8.ValidString(got) {
		t.Fatalf("Truncated title is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 70 {
		t.Errorf("Expected 70 characters, got %d", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis suffix, got %q", got)
	}

	// 40 characters is within bounds even when every one is multibyte
	ok := strings.Repeat("é", 40)
	if got := normalizeTitle(ok); got != ok {
		t.Errorf("In-bounds title should pass untouched, got %q", got)
	}
}

func TestQuote(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`plain text`, `"plain text"`},
		{`say "hi"`, `"say \"hi\""`},
		{`C:\Users\dev`, `"C:\\Users\\dev"`},
		{`match \d+ and "\w+"`, `"match \\d+ and \"\\w+\""`},
	}
	for _, c := range cases {
		if got := quote(c.in); got != c.want {
			t.Errorf("quote(%q) = %s, expected %s", c.in, got, c.want)
		}
	}
}

func TestReadTime(t *testing.T) {
	if got := readTime(""); got != 1 {
		t.Errorf("Empty body should read in 1 minute, got %d", got)
	}
	if got := readTime(strings.Repeat("word ", 100)); got != 1 {
		t.Errorf("100 words should read in 1 minute, got %d", got)
	}
	if got := readTime(strings.Repeat("word ", 450)); got != 2 {
		t.Errorf("450 words should read in 2 minutes, got %d", got)
	}
}

func TestAssessDifficulty(t *testing.T) {
	cases := []struct {
		question string
		want     string
	}{
		{"How to reverse a list?", "beginner"},
		{"Getting started with goroutines", "beginner"},
		{"Query performance degrades under load", "advanced"},
		{"Production architecture for queues", "advanced"},
		{"Why does this closure capture by reference?", "intermediate"},
	}
	for _, c := range cases {
		if got := assessDifficulty(c.question); got != c.want {
			t.Errorf("assessDifficulty(%q) = %q, expected %q", c.question, got, c.want)
		}
	}
}

func TestDescribe(t *testing.T) {
	body := "# Title\n\n## Quick Answer\n\nUse `append` to add items to a list.\n\n## Detail\n\nMore text."
	got := describe("How to Use Python Lists?", body)
	if got != "Use append to add items to a list." {
		t.Errorf("Expected quick answer extract, got %q", got)
	}

	got = describe("How to Use Python Lists?", "No sections here.")
	want := "Learn how to use python lists? with practical examples and best practices."
	if got != want {
		t.Errorf("Expected fallback description %q, got %q", want, got)
	}

	long := "# T\n\n## Quick Answer\n\n" + strings.Repeat("words and more text here ", 20) + "\n\n## D"
	if got := describe("T", long); len(got) > 200 {
		t.Errorf("Description should be capped at 200 characters, got %d", len(got))
	}

	accented := "# T\n\n## Quick Answer\n\n" + strings.Repeat("résumé détaillé ", 20) + "\n\n## D"
	got = describe("T", accented)
	if !utf8.ValidString(got) {
		t.Fatalf("Truncated description is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n > 200 {
		t.Errorf("Description should be capped at 200 characters, got %d", n)
	}
}

func TestConvert(t *testing.T) {
	c := newTestConverter(t)
	rec := &corpus.Record{
		ID:           "12345",
		Title:        "How to Use Python Lists?",
		QuestionText: "How to add items to a list in Python?",
		Tags:         []string{"python", "list"},
	}
	body := "# How to Use Python Lists?\n\n## Quick Answer\n\nUse append to add items.\n\n## Examples\n\n```python\nitems.append(1)\n```\n"

	doc, err := c.Convert(rec, body, true)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if doc.Frontmatter.Slug != "how-to-use-python-lists" {
		t.Errorf("Unexpected slug: %q", doc.Frontmatter.Slug)
	}
	if doc.Filename != "how-to-use-python-lists-"+doc.UniqueID+".mdx" {
		t.Errorf("Unexpected filename: %q", doc.Filename)
	}
	if doc.Frontmatter.Category != "programming-languages" || doc.Frontmatter.Subcategory != "python" {
		t.Errorf("Unexpected pair: %s/%s", doc.Frontmatter.Category, doc.Frontmatter.Subcategory)
	}
	if doc.Frontmatter.Difficulty != "beginner" {
		t.Errorf("Expected beginner difficulty, got %q", doc.Frontmatter.Difficulty)
	}
	if doc.Frontmatter.LastUpdated != "2024-09-18T12:30:00.000Z" {
		t.Errorf("Unexpected lastUpdated: %q", doc.Frontmatter.LastUpdated)
	}
	if !doc.Frontmatter.Featured {
		t.Error("Featured flag should carry through")
	}
	if doc.SourceID != "12345" {
		t.Errorf("Unexpected source id: %q", doc.SourceID)
	}

	rendered := doc.Render()
	if !strings.HasPrefix(rendered, "---\ntitle: \"How to Use Python Lists?\"\n") {
		t.Errorf("Unexpected render prefix:\n%s", rendered)
	}
	if !strings.Contains(rendered, "\n---\n\n# How to Use Python Lists?") {
		t.Error("Body should follow frontmatter after a blank line")
	}
}

func TestConvert_TagsUntaggedFence(t *testing.T) {
	c := newTestConverter(t)
	rec := &corpus.Record{
		ID:           "67890",
		Title:        "How to define a function in Python?",
		QuestionText: "How to define a function?",
		Tags:         []string{"python"},
	}
	body := "# How to define a function in Python?\n\n## Quick Answer\n\nUse the def keyword.\n\n## Example\n\n```\ndef f(): pass\n```\n"

	doc, err := c.Convert(rec, body, false)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !strings.Contains(doc.Body, "```python\ndef f(): pass\n```") {
		t.Errorf("Untagged fence should be classified as python:\n%s", doc.Body)
	}
}

func TestConvert_BackslashTitle(t *testing.T) {
	c := newTestConverter(t)
	rec := &corpus.Record{
		ID:           "424242",
		Title:        `How to match \d+ with regex in Python?`,
		QuestionText: "How to match digits with a regex?",
		Tags:         []string{"python", "regex"},
	}
	body := "# T\n\n## Quick Answer\n\nUse re.findall to collect digit groups.\n\n## Detail\n\nMore text.\n"

	doc, err := c.Convert(rec, body, false)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if !strings.Contains(doc.Render(), `title: "How to match \\d+ with regex in Python?"`) {
		t.Errorf("Backslash should be escaped in rendered frontmatter:\n%s", doc.Render())
	}
}

func TestConvert_AccentedTitle(t *testing.T) {
	c := newTestConverter(t)
	rec := &corpus.Record{
		ID:           "515151",
		Title:        "Comment gérer les caractères spéciaux éèàç en Python ?",
		QuestionText: "How to handle special characters?",
		Tags:         []string{"python"},
	}
	body := "# T\n\n## Quick Answer\n\nUse unicodedata to normalize the input first.\n\n## Detail\n\nMore text.\n"

	doc, err := c.Convert(rec, body, false)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if doc.Frontmatter.Title != rec.Title {
		t.Errorf("In-bounds accented title should pass untouched, got %q", doc.Frontmatter.Title)
	}
	if doc.Frontmatter.Slug != "comment-gerer-les-caracteres-speciaux-eeac-en-python" {
		t.Errorf("Unexpected slug: %q", doc.Frontmatter.Slug)
	}
}

func TestConvert_ShortTitlePadded(t *testing.T) {
	c := newTestConverter(t)
	rec := &corpus.Record{
		ID:    "1",
		Title: "NPE?",
		Tags:  []string{"java"},
	}

	doc, err := c.Convert(rec, "# H\n\n## A\n\nSome body text here.\n\n## B\n\nMore text.", false)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if doc.Frontmatter.Title != "NPE? - Programming Guide" {
		t.Errorf("Expected padded title, got %q", doc.Frontmatter.Title)
	}
}
