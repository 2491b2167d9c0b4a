package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gi8lino/sentry2ado/internal/azure"
	"github.com/gi8lino/sentry2ado/internal/config"
	"github.com/gi8lino/sentry2ado/internal/flag"
	"github.com/gi8lino/sentry2ado/internal/logging"
	"github.com/gi8lino/sentry2ado/internal/server"
	"github.com/gi8lino/sentry2ado/internal/templates"
	"github.com/gi8lino/sentry2ado/internal/utils"

	"github.com/containeroo/tinyflags"
	"github.com/joho/godotenv"
)

// Run starts the sentry2ado application.
func Run(ctx context.Context, version, commit string, args []string, w io.Writer, lookup config.LookupFunc) error {
	// Create a new context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	getEnv := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	// Parse command-line flags
	flags, err := flag.ParseArgs(version, args, w, getEnv)
	if err != nil {
		if tinyflags.IsHelpRequested(err) || tinyflags.IsVersionRequested(err) {
			fmt.Fprint(w, err.Error()) // nolint:errcheck
			return nil
		}
		return fmt.Errorf("parsing error: %w", err)
	}

	// Setup logger
	logger := logging.SetupLogger(flags.LogFormat, flags.Debug, w)

	logger.Info("Starting sentry2ado",
		"version", version,
		"commit", commit,
	)

	// Load dotenv file; real environment variables keep precedence
	if flags.EnvFile != "" {
		values, err := godotenv.Read(flags.EnvFile)
		if err != nil {
			return fmt.Errorf("loading env file error: %w", err)
		}
		lookup = config.WithDefaults(lookup, values)
		logger.Info("Loaded env file", "path", flags.EnvFile, "variables", len(values))
	}

	// Parse description template once
	desc, err := templates.NewDescription(flags.DescriptionTemplate)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	// Bridge settings are resolved per request; a broken setup is only reported here
	if cfg, err := config.Resolve(lookup); err != nil {
		logger.Warn("Bridge configuration incomplete", "error", err)
	} else if u, err := azure.WorkItemURL(cfg); err != nil {
		logger.Warn("Invalid Azure DevOps base URL", "error", err)
	} else {
		logger.Debug("azure devops",
			"endpoint", u.String(),
			"header", utils.ObfuscateHeader(utils.GetAuthorizationHeader(azure.NewPATAuth(cfg.PAT))),
		)
	}

	c := azure.NewClient(flags.ADOTimeout, flags.ADOSkipTLSVerify)

	// Setup Server and run forever
	router := server.NewRouter(
		server.Routes{Prefix: flags.RoutePrefix, WebhookPath: flags.WebhookPath},
		lookup,
		c,
		desc,
		logger,
		flags.Debug,
	)
	err = server.RunHTTPServer(ctx, router, flags.ListenAddr, flags.ADOTimeout, logger)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server exited with error", "error", err)
	}

	return err
}
