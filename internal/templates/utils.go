package templates

import (
	"html/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/gi8lino/sentry2ado/internal/sentry"
)

// TemplateFuncMap returns all helper functions for description templates.
func TemplateFuncMap() template.FuncMap {
	fm := sprig.HtmlFuncMap()
	fm["formatSentryDate"] = formatSentryDate
	fm["lookup"] = sentry.Lookup
	return fm
}

// formatSentryDate parses a Sentry timestamp and returns it formatted using the provided layout.
// If parsing fails, the original string is returned.
func formatSentryDate(input, layout string) string {
	parsed, err := time.Parse(time.RFC3339Nano, input)
	if err != nil {
		return input
	}
	return parsed.Format(layout)
}
