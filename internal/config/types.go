package config

// Config is the per-request snapshot of the bridge settings.
type Config struct {
	BaseURL       string // Azure DevOps base URL, e.g. https://dev.azure.com
	Organization  string // Azure DevOps organization
	Project       string // Azure DevOps project
	PAT           string // personal access token
	WorkItemType  string // work item type, e.g. "Issue" or "Bug"
	AreaPath      string // optional System.AreaPath
	IterationPath string // optional System.IterationPath
	Tags          string // default tags, semicolon separated
	WebhookSecret string // shared secret expected from Sentry; empty disables auth
	TitlePrefix   string // prepended to the work item title as "<prefix>: "
}

// Error reports an unusable configuration.
type Error struct {
	Message string
	Err     error // detail for logs; never sent to the caller
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }
