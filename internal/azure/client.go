package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gi8lino/sentry2ado/internal/config"
	"github.com/gi8lino/sentry2ado/internal/logging"
)

// APIVersion is the work item tracking API version sent with every request.
const APIVersion = "7.1-preview.3"

// maxResponseBody bounds how much of a response is read.
const maxResponseBody = 1 << 20

// Created is the result of a successful work item creation.
type Created struct {
	WorkItemID *int // nil when the response carried no usable id
}

// Client creates work items through the Azure DevOps REST API.
type Client struct {
	HTTP *http.Client
}

// NewClient returns a Client whose requests are bounded by timeout.
func NewClient(timeout time.Duration, skipTLSVerify bool) *Client {
	return &Client{HTTP: newHTTPClient(timeout, skipTLSVerify)}
}

// CreateWorkItem posts fields as a new work item of cfg.WorkItemType.
//
// There is exactly one attempt. Sentry retries non-2xx deliveries itself and
// the request carries no deduplication key, so retrying here could create
// duplicate work items.
func (c *Client) CreateWorkItem(ctx context.Context, cfg config.Config, fields Fields) (Created, error) {
	u, err := WorkItemURL(cfg)
	if err != nil {
		return Created{}, fmt.Errorf("build url: %w", err)
	}

	body, err := fields.MarshalPatch()
	if err != nil {
		return Created{}, fmt.Errorf("marshal patch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return Created{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json-patch+json")
	req.Header.Set("Accept", "application/json")
	NewPATAuth(cfg.PAT)(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Created{}, &UpstreamError{Err: err}
	}
	defer resp.Body.Close() // nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	success := resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated
	if err != nil {
		if success {
			// The work item exists; failing here would make Sentry redeliver and duplicate it.
			logging.FromContext(ctx, slog.Default()).Debug("unreadable work item response", "status", resp.StatusCode, "error", err)
			return Created{}, nil
		}
		return Created{}, &UpstreamError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if !success {
		return Created{}, &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       string(trim(raw, maxErrorBody)),
		}
	}

	return Created{WorkItemID: parseID(raw)}, nil
}

// WorkItemURL builds the create endpoint for cfg's organization, project and work item type.
func WorkItemURL(cfg config.Config) (*url.URL, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil {
		return nil, err
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base url %q is not absolute", cfg.BaseURL)
	}

	u := base.JoinPath(cfg.Organization, cfg.Project, "_apis", "wit", "workitems", "$"+cfg.WorkItemType)

	q := u.Query()
	q.Set("api-version", APIVersion)
	u.RawQuery = q.Encode()
	return u, nil
}

// parseID extracts the integer "id" from a work item response. Anything
// unexpected yields nil rather than an error.
func parseID(raw []byte) *int {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var body map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil
	}

	n, ok := body["id"].(json.Number)
	if !ok {
		return nil
	}
	id, err := n.Int64()
	if err != nil {
		return nil
	}
	v := int(id)
	return &v
}
