package config

import (
	"fmt"
	"strings"

	"github.com/containeroo/resolver"
)

// Environment variables read by Resolve.
const (
	EnvBaseURL       = "ADO_BASE_URL"
	EnvOrganization  = "ADO_ORG"
	EnvProject       = "ADO_PROJECT"
	EnvPAT           = "ADO_PAT"
	EnvWorkItemType  = "ADO_WORK_ITEM_TYPE"
	EnvAreaPath      = "ADO_AREA_PATH"
	EnvIterationPath = "ADO_ITERATION_PATH"
	EnvTags          = "ADO_TAGS"
	EnvWebhookSecret = "SENTRY_WEBHOOK_SECRET"
	EnvTitlePrefix   = "SENTRY_TITLE_PREFIX"
)

// Defaults for optional settings.
const (
	DefaultBaseURL      = "https://dev.azure.com"
	DefaultWorkItemType = "Issue"
	DefaultTitlePrefix  = "Sentry"
)

// LookupFunc returns the value of an environment variable and whether it is set.
type LookupFunc func(key string) (string, bool)

// FromGetEnv adapts a getenv-style function to a LookupFunc. An empty value
// counts as unset, which is all a plain getenv can tell.
func FromGetEnv(getEnv func(string) string) LookupFunc {
	return func(key string) (string, bool) {
		v := getEnv(key)
		return v, v != ""
	}
}

// WithDefaults returns a LookupFunc that consults lookup first and falls back
// to values. Variables set in lookup always win, even when empty.
func WithDefaults(lookup LookupFunc, values map[string]string) LookupFunc {
	if len(values) == 0 {
		return lookup
	}
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}
}

// Resolve reads the bridge settings through lookup and validates the identity settings.
func Resolve(lookup LookupFunc) (Config, error) {
	org, _ := lookup(EnvOrganization)
	project, _ := lookup(EnvProject)
	pat, _ := lookup(EnvPAT)

	org = strings.TrimSpace(org)
	project = strings.TrimSpace(project)
	if org == "" || project == "" || strings.TrimSpace(pat) == "" {
		return Config{}, &Error{Message: "Missing required ADO_ORG, ADO_PROJECT, or ADO_PAT."}
	}

	pat, err := resolveRef(EnvPAT, pat)
	if err != nil {
		return Config{}, err
	}
	if pat == "" {
		return Config{}, &Error{Message: fmt.Sprintf("%s resolved to an empty value.", EnvPAT)}
	}

	secret, err := resolveRef(EnvWebhookSecret, withDefault(lookup, EnvWebhookSecret, ""))
	if err != nil {
		return Config{}, err
	}

	return Config{
		BaseURL:       withDefault(lookup, EnvBaseURL, DefaultBaseURL),
		Organization:  org,
		Project:       project,
		PAT:           pat,
		WorkItemType:  withDefault(lookup, EnvWorkItemType, DefaultWorkItemType),
		AreaPath:      withDefault(lookup, EnvAreaPath, ""),
		IterationPath: withDefault(lookup, EnvIterationPath, ""),
		Tags:          withDefault(lookup, EnvTags, ""),
		WebhookSecret: secret,
		TitlePrefix:   withDefault(lookup, EnvTitlePrefix, DefaultTitlePrefix),
	}, nil
}

// withDefault returns the variable's value, or def when it is not set at all.
func withDefault(lookup LookupFunc, key, def string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return def
}

// resolveRef expands env:, file:, json:, yaml:, ini: and toml: references.
// Plain values are returned unchanged.
func resolveRef(key, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	out, err := resolver.ResolveVariable(value)
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("Unable to resolve %s.", key), Err: err}
	}
	return strings.TrimSpace(out), nil
}
