package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gi8lino/sentry2ado/internal/auth"
	"github.com/gi8lino/sentry2ado/internal/azure"
	"github.com/gi8lino/sentry2ado/internal/config"
	"github.com/gi8lino/sentry2ado/internal/hash"
	"github.com/gi8lino/sentry2ado/internal/logging"
	"github.com/gi8lino/sentry2ado/internal/sentry"
)

// MaxBodyBytes caps the size of an inbound webhook body.
const MaxBodyBytes = 1 << 20

// Response bodies returned to the webhook sender.
const (
	msgInvalidJSON    = "Invalid JSON payload."
	msgTooLarge       = "Payload too large."
	msgBuildFailed    = "Failed to build work item."
	msgUpstreamFailed = "Azure DevOps work item creation failed."
)

// WorkItemCreator creates a work item in the target tracker.
type WorkItemCreator interface {
	CreateWorkItem(ctx context.Context, cfg config.Config, fields azure.Fields) (azure.Created, error)
}

// createdResponse is the body returned once a work item exists.
type createdResponse struct {
	Status     string `json:"status"`
	WorkItemID *int   `json:"work_item_id"`
}

// SentryWebhook turns a Sentry webhook into an Azure DevOps work item.
// Configuration is resolved through lookup on every request.
func SentryWebhook(
	lookup config.LookupFunc,
	creator WorkItemCreator,
	desc sentry.DescriptionRenderer,
	logger *slog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logging.FromContext(r.Context(), logger)

		payload, err := decodePayload(w, r)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeText(w, http.StatusRequestEntityTooLarge, msgTooLarge)
				return
			}
			log.Debug("rejecting payload", "error", err)
			writeText(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}

		cfg, err := config.Resolve(lookup)
		if err != nil {
			log.Error("config error", "error", err, "cause", errors.Unwrap(err))
			writeText(w, http.StatusInternalServerError, err.Error())
			return
		}

		if err := auth.Verify(cfg.WebhookSecret, r.Header); err != nil {
			log.Info("webhook authentication failed", "reason", err)
			writeText(w, http.StatusUnauthorized, err.Error())
			return
		}

		mapping, err := sentry.BuildFields(payload, cfg, desc)
		if err != nil {
			log.Error("failed to build work item fields", "error", err)
			writeText(w, http.StatusInternalServerError, msgBuildFailed)
			return
		}

		d := mapping.Details
		log = log.With(
			"issue_id", d.IssueID,
			"event_id", d.EventID,
			"fingerprint", hash.Fingerprint(d.Project, d.IssueID, d.EventID),
		)

		// A disconnecting sender must not abort a creation already in flight;
		// the client timeout bounds the call instead.
		created, err := creator.CreateWorkItem(context.WithoutCancel(r.Context()), cfg, mapping.Fields)
		if err != nil {
			var upErr *azure.UpstreamError
			if errors.As(err, &upErr) {
				log.Error("Azure DevOps error", "status", upErr.StatusCode, "body", upErr.Body, "error", upErr.Err)
			} else {
				log.Error("Azure DevOps request failed", "error", err)
			}
			writeText(w, http.StatusBadGateway, msgUpstreamFailed)
			return
		}

		if created.WorkItemID != nil {
			log.Info("created work item", "work_item_id", *created.WorkItemID)
		} else {
			log.Info("created work item without id in response")
		}
		writeJSON(w, http.StatusCreated, createdResponse{Status: "created", WorkItemID: created.WorkItemID})
	}
}

// decodePayload reads the request body and decodes it as a single JSON object.
func decodePayload(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("decode body: trailing data after JSON value")
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode body: expected a JSON object, got %T", payload)
	}
	return obj, nil
}
