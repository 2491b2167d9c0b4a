package sentry

// Event holds the logical sub-objects of a Sentry webhook payload.
type Event struct {
	Event   map[string]any
	Issue   map[string]any
	Project any // map[string]any or a bare slug string
}

// Candidate locations for each sub-object, most specific first.
var (
	eventPaths   = [][]string{{"event"}, {"data", "event"}}
	issuePaths   = [][]string{{"issue"}, {"data", "issue"}, {"data", "group"}, {"group"}}
	projectPaths = [][]string{{"project"}, {"data", "project"}}
)

// Normalize resolves the event, issue and project sub-objects out of payload.
// Missing or misshapen values fall back to empty objects; it never fails.
func Normalize(payload map[string]any) Event {
	ev := Event{
		Event:   firstObject(payload, eventPaths),
		Issue:   firstObject(payload, issuePaths),
		Project: map[string]any{},
	}

	for _, path := range projectPaths {
		switch v := dig(payload, path...).(type) {
		case map[string]any:
			if len(v) > 0 {
				ev.Project = v
				return ev
			}
		case string:
			if v != "" {
				ev.Project = v
				return ev
			}
		}
	}
	return ev
}

// firstObject returns the first non-empty object found at one of paths.
func firstObject(payload map[string]any, paths [][]string) map[string]any {
	for _, path := range paths {
		if m, ok := dig(payload, path...).(map[string]any); ok && len(m) > 0 {
			return m
		}
	}
	return map[string]any{}
}

// dig walks keys into nested objects. Any non-object on the way yields nil.
func dig(v any, keys ...string) any {
	cur := v
	for _, key := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}
