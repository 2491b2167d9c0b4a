package flag

import (
	"errors"
	"fmt"
	"io"
	"net"
	"path/filepath"
	"time"

	"github.com/containeroo/tinyflags"
	"github.com/gi8lino/sentry2ado/internal/azure"
	"github.com/gi8lino/sentry2ado/internal/logging"
	"github.com/gi8lino/sentry2ado/internal/utils"
)

// Config aggregates CLI flags after parsing.
type Config struct {
	ListenAddr          string            // HTTP bind address (e.g. ":8080")
	RoutePrefix         string            // Canonical path prefix ("" or "/sentry2ado")
	WebhookPath         string            // Canonical webhook path (e.g. "/api/sentry-webhook")
	DescriptionTemplate string            // Optional description template file; empty = built-in
	EnvFile             string            // Optional dotenv file with bridge settings
	ADOTimeout          time.Duration     // Timeout for the Azure DevOps request
	ADOSkipTLSVerify    bool              // Skip TLS verification for Azure DevOps
	Debug               bool              // Enables debug logging
	LogFormat           logging.LogFormat // Log output format (text or json)
}

// ParseArgs parses CLI arguments into Config, handling version/help flags.
func ParseArgs(version string, args []string, out io.Writer, getEnv func(string) string) (Config, error) {
	var cfg Config
	tf := tinyflags.NewFlagSet("sentry2ado", tinyflags.ContinueOnError)
	tf.Version(version)
	tf.SetGetEnvFn(getEnv)
	tf.EnvPrefix("SENTRY2ADO")
	tf.SetOutput(out)

	// Server
	listenAddr := tf.TCPAddr("listen-address", &net.TCPAddr{IP: nil, Port: 8080}, "HTTP server listen address").
		Placeholder("ADDR:PORT").
		Value()

	route := tf.String("route-prefix", "", "Path prefix to mount the app (e.g., /sentry2ado). Empty = root.").
		Finalize(func(input string) string {
			return utils.NormalizeRoutePrefix(input) // canonical "" or "/sentry2ado"
		}).
		Placeholder("PATH").
		Value()

	webhook := tf.String("webhook-path", "/api/sentry-webhook", "Path Sentry posts webhooks to").
		Finalize(func(input string) string {
			return utils.NormalizeRoutePrefix(input)
		}).
		Placeholder("PATH").
		Value()

	tf.StringVar(&cfg.DescriptionTemplate, "description-template", "", "Template file defining \"description\". Empty = built-in.").
		Finalize(absPath).
		Placeholder("FILE").
		Value()

	tf.StringVar(&cfg.EnvFile, "env-file", "", "Dotenv file with ADO_* and SENTRY_* settings (env: references in it still read the process environment)").
		Finalize(absPath).
		Placeholder("FILE").
		Value()

	// Azure DevOps
	timeout := tf.String("ado-timeout", azure.DefaultTimeout.String(), "Timeout for the Azure DevOps request").
		Placeholder("DURATION").
		Value()
	tf.BoolVar(&cfg.ADOSkipTLSVerify, "ado-skip-tls-verify", false, "Skip TLS verification for Azure DevOps").Value()

	// Logging
	tf.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging").Value()
	logFormat := tf.String("log-format", "text", "Log format").Choices("text", "json").Short("l").Value()

	// Parse
	if err := tf.Parse(args); err != nil {
		return Config{}, err
	}

	// Post-parse
	d, err := time.ParseDuration(*timeout)
	if err != nil {
		return Config{}, fmt.Errorf("invalid value for flag --ado-timeout: %w", err)
	}
	if d <= 0 {
		return Config{}, errors.New("invalid value for flag --ado-timeout: timeout must be > 0.")
	}

	cfg.ADOTimeout = d
	cfg.LogFormat = logging.LogFormat(*logFormat)
	cfg.ListenAddr = (*listenAddr).String()
	cfg.RoutePrefix = *route
	cfg.WebhookPath = *webhook
	if cfg.WebhookPath == "" {
		cfg.WebhookPath = "/api/sentry-webhook"
	}

	return cfg, nil
}

// absPath makes a non-empty relative path absolute.
func absPath(s string) string {
	if s == "" || filepath.IsAbs(s) {
		return s
	}
	path, err := filepath.Abs(s)
	if err != nil {
		return s
	}
	return path
}
