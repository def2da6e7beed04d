package explain

import (
	"fmt"
	"strings"

	"github.com/statusteacher/statusteacher/pkg/models"
)

// FormatMarkdown renders an explanation as chat-friendly Markdown: a bold
// "HTTP {code} - {name}" heading followed by the labelled fields in a fixed
// order.
func FormatMarkdown(e models.StatusCodeExplanation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**HTTP %d - %s**\n\n", e.Code, e.Name)

	fields := []struct{ label, value string }{
		{"Category", e.Category},
		{"Description", e.Description},
		{"When to Use", e.WhenToUse},
		{"Common Scenarios", e.CommonScenarios},
		{"Best Practices", e.BestPractices},
		{"Example Response", e.ExampleResponse},
		{"Related Codes", e.RelatedCodes},
	}
	for i, f := range fields {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "**%s:** %s", f.label, f.value)
	}
	return b.String()
}

// FormatShort is the one-line summary used when no full explanation is
// available.
func FormatShort(code int) string {
	return fmt.Sprintf("HTTP %d - %s", code, CategoryFor(code))
}
