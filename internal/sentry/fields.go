package sentry

import (
	"strings"

	"github.com/gi8lino/sentry2ado/internal/azure"
	"github.com/gi8lino/sentry2ado/internal/config"
)

// FallbackTitle is used when the payload carries nothing usable as a title.
const FallbackTitle = "Sentry issue"

// DescriptionRenderer turns DescriptionData into the work item description.
type DescriptionRenderer interface {
	Render(data any) (string, error)
}

// DescriptionData is passed to description templates.
type DescriptionData struct {
	IssueDetails
	Payload map[string]any // the raw webhook body
}

// Mapping is the result of mapping a payload onto work item fields.
type Mapping struct {
	Fields  azure.Fields
	Details IssueDetails
}

// BuildFields maps a webhook payload onto Azure DevOps work item fields.
func BuildFields(payload map[string]any, cfg config.Config, desc DescriptionRenderer) (Mapping, error) {
	ev := Normalize(payload)
	details := ExtractDetails(payload, ev)

	description, err := desc.Render(DescriptionData{IssueDetails: details, Payload: payload})
	if err != nil {
		return Mapping{}, err
	}

	fields := azure.Fields{
		{Name: azure.FieldTitle, Value: Title(ev, cfg.TitlePrefix)},
		{Name: azure.FieldDescription, Value: description},
	}
	if cfg.AreaPath != "" {
		fields = append(fields, azure.Field{Name: azure.FieldAreaPath, Value: cfg.AreaPath})
	}
	if cfg.IterationPath != "" {
		fields = append(fields, azure.Field{Name: azure.FieldIterationPath, Value: cfg.IterationPath})
	}
	if tags := Tags(cfg.Tags, details.IssueID); tags != "" {
		fields = append(fields, azure.Field{Name: azure.FieldTags, Value: tags})
	}

	return Mapping{Fields: fields, Details: details}, nil
}

// Title picks the work item title and applies prefix as "<prefix>: ".
func Title(ev Event, prefix string) string {
	title := orElse(firstString(ev.Event, "title"), firstString(ev.Issue, "title"))
	title = orElse(title, firstString(ev.Event, "message"))
	title = orElse(title, firstString(ev.Issue, "culprit"))
	title = orElse(title, FallbackTitle)

	if prefix != "" {
		return prefix + ": " + title
	}
	return title
}

// Tags combines the default tags with the Sentry tags for issueID.
func Tags(defaults, issueID string) string {
	parts := make([]string, 0, 3)
	if defaults != "" {
		parts = append(parts, defaults)
	}
	parts = append(parts, "Sentry")
	if issueID != "" {
		parts = append(parts, "SentryIssue"+issueID)
	}
	return NormalizeTags(strings.Join(parts, ";"))
}

// NormalizeTags splits on semicolons, trims, drops empties and rejoins with ";".
func NormalizeTags(s string) string {
	var out []string
	for tag := range strings.SplitSeq(s, ";") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return strings.Join(out, ";")
}

// Lookup digs keys into v and returns the scalar found there, or "".
func Lookup(v any, keys ...string) string {
	return scalar(dig(v, keys...))
}
