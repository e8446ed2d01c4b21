package generate

import (
	"fmt"
	"strings"

	"github.com/deepvdocs/docstage/app/corpus"
)

const (
	maxAnswerChars  = 1500
	maxCommentChars = 300
	maxSnippets     = 8
	maxComments     = 5
)

// BuildPrompt assembles the generation prompt: the article scaffold, the
// source question, and the selected answers with their voting context.
func BuildPrompt(rec *corpus.Record, answers []corpus.QualityAnswer) string {
	var b strings.Builder

	b.WriteString("Act as a top tech writer for content marketing, targeting users searching the query below. Write the content in markdown. When a diagram helps, express it in mermaid syntax.\n\n")

	fmt.Fprintf(&b, "User queries like:\n%s\n\n", rec.Title)

	b.WriteString("User personas to serve:\n")
	b.WriteString("- Speed Seeker: fastest method, minimal code\n")
	b.WriteString("- Learning Explorer: most educational, best practices\n")
	b.WriteString("- Problem Solver: just works, copy-paste solution\n")
	b.WriteString("- Architecture Builder: scalable, maintainable approach\n\n")

	b.WriteString("Required article structure, top to bottom:\n")
	fmt.Fprintf(&b, "1. Title: # %s\n", rec.Title)
	b.WriteString("2. Quick Answer: the immediate copy-paste solution from the highest-voted answer\n")
	b.WriteString("3. Choose Your Method: a mermaid decision tree picking between methods\n")
	b.WriteString("4. Ready-to-Use Code: the best 2-3 solutions as tagged code blocks\n")
	b.WriteString("5. Method sections: one per major approach from the answers\n")
	b.WriteString("6. Performance Comparison: table comparing methods\n")
	b.WriteString("7. Common Problems & Solutions: issues raised in comments\n")
	b.WriteString("8. Real-World Use Cases\n")
	b.WriteString("9. Summary: key takeaways\n")
	b.WriteString("10. Frequently Asked Questions\n\n")

	b.WriteString("===== below is the source data =====\n\n")
	fmt.Fprintf(&b, "Original Question: %s\n\n", rec.QuestionText)
	fmt.Fprintf(&b, "High-Quality Answers (%d available):\n", len(answers))

	for i, answer := range answers {
		marker := fmt.Sprintf("%d votes", answer.Votes)
		if answer.IsAccepted {
			marker = "ACCEPTED ANSWER"
		}
		fmt.Fprintf(&b, "\n=== ANSWER %d (%s) ===\n", i+1, marker)
		b.WriteString(truncate(answer.Text, maxAnswerChars))
		b.WriteString("\n\nCode Examples:\n")
		if len(answer.CodeSnippets) == 0 {
			b.WriteString("No code provided\n")
		} else {
			for _, snippet := range capSlice(answer.CodeSnippets, maxSnippets) {
				b.WriteString(snippet)
				b.WriteString("\n")
			}
		}
		b.WriteString("\nComments:\n")
		if len(answer.Comments) == 0 {
			b.WriteString("No comments\n")
		} else {
			for _, comment := range answer.Comments[:capLen(len(answer.Comments), maxComments)] {
				b.WriteString(truncate(comment.Text, maxCommentChars))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\nCONTENT REQUIREMENTS:\n")
	b.WriteString("- Follow the structure above in exact order\n")
	fmt.Fprintf(&b, "- Use all %d provided answers\n", len(answers))
	b.WriteString("- Tag every code block with its language\n")
	b.WriteString("- Update examples to current practices\n")
	b.WriteString("- Focus on practical, copy-paste ready solutions\n\n")

	b.WriteString("EXCLUSIONS:\n")
	b.WriteString("- NO vote or view statistics\n")
	b.WriteString("- NO references to the original post metadata\n")
	b.WriteString("- NO duplicate/closed labels in content\n")
	b.WriteString("- Focus purely on technical solutions\n")

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func capSlice(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}

func capLen(n, max int) int {
	if n > max {
		return max
	}
	return n
}
