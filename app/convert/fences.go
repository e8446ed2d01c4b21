package convert

import (
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)```([^\n]*)\n(.*?)\n```")

// languageAliases canonicalizes fence tags to the forms downstream
// rendering recognizes.
var languageAliases = map[string]string{
	"js":         "javascript",
	"ts":         "typescript",
	"py":         "python",
	"python3":    "python",
	"sh":         "bash",
	"shell":      "bash",
	"zsh":        "bash",
	"cmd":        "powershell",
	"ps1":        "powershell",
	"sass":       "scss",
	"mysql":      "sql",
	"postgresql": "sql",
	"c++":        "cpp",
	"c#":         "csharp",
	"yml":        "yaml",
	"docker":     "dockerfile",
	"md":         "markdown",
	"plain":      "text",
	"txt":        "text",
}

type fenceRule struct {
	label   string
	matches func(code string) bool
}

// fenceRules classify an untagged fence by its content. Rules are checked
// in order and the first hit wins; diagram detection runs before anything
// else so flowcharts never get mistaken for code.
var fenceRules = []fenceRule{
	{"mermaid", func(code string) bool {
		return containsAny(code, "flowchart td", "flowchart lr", "graph td", "graph lr",
			"sequencediagram", "classdiagram", "erdiagram", "pie title")
	}},
	{"python", func(code string) bool {
		return containsAny(code, "def ", "import ", "print(", "if __name__",
			"= [", "for ", "in range(", ".append(", "len(")
	}},
	{"javascript", func(code string) bool {
		return containsAny(code, "function", "const ", "let ", "=>", "console.log", "var ")
	}},
	{"html", func(code string) bool {
		return containsAny(code, "<html", "<div", "<span", "<!doctype")
	}},
	{"css", func(code string) bool {
		return strings.Contains(code, "{") && strings.Contains(code, ":") &&
			containsAny(code, "color", "margin", "padding", "font")
	}},
	{"sql", func(code string) bool {
		return containsAny(code, "select ", "insert ", "update ", "create table", "from ", "where ")
	}},
	{"bash", func(code string) bool {
		return containsAny(code, "#!/bin/", "$ ", "sudo ", "apt ", "echo ", "grep ", "chmod ")
	}},
	{"json", func(code string) bool {
		trimmed := strings.TrimSpace(code)
		return (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) &&
			strings.Contains(trimmed, "\":")
	}},
	{"yaml", func(code string) bool {
		trimmed := strings.TrimSpace(code)
		return (strings.Contains(trimmed, ": ") || strings.HasPrefix(trimmed, "- ")) &&
			!strings.Contains(trimmed, "{")
	}},
	{"python", func(code string) bool {
		return strings.Contains(code, " for ") && strings.Contains(code, " in ") &&
			(strings.Contains(code, "[") || strings.Contains(code, "("))
	}},
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// classifyFence picks a language for an untagged code block.
func classifyFence(code string) string {
	lower := strings.ToLower(code)
	for _, rule := range fenceRules {
		if rule.matches(lower) {
			return rule.label
		}
	}
	return "text"
}

// normalizeFences rewrites every fenced code block: a tagged fence gets its
// alias canonicalized, an untagged one gets a detected language. An odd
// delimiter count is repaired first by closing the final block.
func normalizeFences(body string) string {
	if strings.Count(body, "```")%2 != 0 {
		body = strings.TrimRight(body, "\n") + "\n```"
	}

	return fencePattern.ReplaceAllStringFunc(body, func(block string) string {
		match := fencePattern.FindStringSubmatch(block)
		language := strings.ToLower(strings.TrimSpace(match[1]))
		code := match[2]

		if language == "" {
			language = classifyFence(code)
		} else if alias, ok := languageAliases[language]; ok {
			language = alias
		}

		return "```" + language + "\n" + code + "\n```"
	})
}

var (
	headerSpacing = regexp.MustCompile(`(?m)^(#+)([^#\s])`)
	headerDepth   = regexp.MustCompile(`(?m)^#{7,}`)
	anchorLink    = regexp.MustCompile(`\[([^\]]+)\]\(#[^)]+\)`)
)

// normalizeStructure repairs header formatting and drops anchor-only links
// that have no target in a standalone document.
func normalizeStructure(body string) string {
	body = headerSpacing.ReplaceAllString(body, "$1 $2")
	body = headerDepth.ReplaceAllString(body, "######")
	body = anchorLink.ReplaceAllString(body, "$1")
	return body
}

// stripFrontmatter removes a leading --- block the generator may have
// emitted on its own. The converter always writes its own frontmatter.
func stripFrontmatter(body string) string {
	if !strings.HasPrefix(body, "---") {
		return body
	}
	parts := strings.SplitN(body, "---", 3)
	if len(parts) < 3 {
		return body
	}
	return strings.TrimSpace(parts[2])
}
