package sentry

import (
	"encoding/json"
	"strconv"
)

// IssueDetails is the flattened view of a Sentry event used to describe a work item.
type IssueDetails struct {
	Project     string
	IssueID     string
	EventID     string
	Level       string
	Environment string
	Culprit     string
	IssueURL    string
	EventURL    string
}

// ExtractDetails resolves IssueDetails from a normalized event. payload is the
// original body, consulted for the top-level url fallback.
func ExtractDetails(payload map[string]any, ev Event) IssueDetails {
	return IssueDetails{
		Project:     projectName(ev.Project),
		IssueID:     firstString(ev.Issue, "id", "short_id", "shortId", "shortID"),
		EventID:     firstString(ev.Event, "event_id", "id"),
		Level:       eventOrIssue(ev, "level"),
		Environment: eventOrIssue(ev, "environment"),
		Culprit:     eventOrIssue(ev, "culprit"),
		IssueURL:    orElse(firstString(ev.Issue, "url", "web_url"), scalar(payload["url"])),
		EventURL:    firstString(ev.Event, "url", "web_url"),
	}
}

// projectName resolves the project from an object (name, then slug) or a bare string.
func projectName(p any) string {
	switch v := p.(type) {
	case map[string]any:
		return firstString(v, "name", "slug")
	case string:
		return v
	}
	return ""
}

// eventOrIssue prefers the event's value for key and falls back to the issue's.
func eventOrIssue(ev Event, key string) string {
	return orElse(scalar(ev.Event[key]), scalar(ev.Issue[key]))
}

// firstString returns the first non-empty scalar value of keys in m.
func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := scalar(m[key]); s != "" {
			return s
		}
	}
	return ""
}

// scalar renders strings and numbers; everything else counts as absent.
func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return ""
	}
}

// orElse returns a unless it is empty.
func orElse(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
