package server

import (
	"log/slog"
	"net/http"

	"github.com/gi8lino/sentry2ado/internal/config"
	"github.com/gi8lino/sentry2ado/internal/handlers"
	"github.com/gi8lino/sentry2ado/internal/middleware"
	"github.com/gi8lino/sentry2ado/internal/sentry"
	"github.com/gi8lino/sentry2ado/internal/utils"
)

// DefaultWebhookPath is used when Routes.WebhookPath is empty.
const DefaultWebhookPath = "/api/sentry-webhook"

// Routes describes where the bridge is mounted.
type Routes struct {
	Prefix      string // canonical "" or "/prefix"
	WebhookPath string // e.g. "/api/sentry-webhook"
}

// NewRouter creates the HTTP router.
func NewRouter(
	routes Routes,
	lookup config.LookupFunc,
	creator handlers.WorkItemCreator,
	desc sentry.DescriptionRenderer,
	logger *slog.Logger,
	debug bool,
) http.Handler {
	root := http.NewServeMux()

	// Health checks (no logging)
	root.Handle("GET /healthz", handlers.Healthz())
	root.Handle("POST /healthz", handlers.Healthz())

	var webhook http.Handler = handlers.SentryWebhook(lookup, creator, desc, logger)
	if debug {
		webhook = middleware.Chain(webhook, middleware.LoggingMiddleware(logger))
	}
	webhook = middleware.Chain(webhook, middleware.RequestID(logger))
	path := utils.NormalizeRoutePrefix(routes.WebhookPath)
	if path == "" {
		path = DefaultWebhookPath
	}
	root.Handle("POST "+path, webhook)

	return mountUnderPrefix(root, utils.NormalizeRoutePrefix(routes.Prefix))
}
