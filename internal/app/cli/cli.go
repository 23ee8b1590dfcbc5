// Package cli implements portalctl, a terminal client that runs the portal
// services against a local SQLite cache.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/telconova/portal/internal/app/api"
	authports "github.com/telconova/portal/internal/domains/auth/ports"
	clientsports "github.com/telconova/portal/internal/domains/clients/ports"
	ordersports "github.com/telconova/portal/internal/domains/orders/ports"
	platformobservability "github.com/telconova/portal/internal/platform/observability"
	"github.com/telconova/portal/internal/shared/notify"
	"github.com/telconova/portal/internal/shared/session"
)

// LocalNamespace is the single session the CLI keeps in its cache.
const LocalNamespace = "local"

// Env is what every command runs against.
type Env struct {
	Auth    authports.Service
	Orders  ordersports.Service
	Clients clientsports.Service
}

// Opener builds the environment for one invocation. The returned cleanup
// releases the cache and flushes telemetry.
type Opener func(ctx context.Context, opts Options, stderr io.Writer) (*Env, func(), error)

// Options are the persistent flags.
type Options struct {
	CachePath  string
	BackendURL string
	LogLevel   string
}

type app struct {
	open Opener
	opts Options
	env  *Env
	done func()
}

// Execute runs portalctl with the process arguments and releases the
// environment afterwards, also when the command failed.
func Execute(ctx context.Context, open Opener) error {
	root, a := newRoot(open)
	defer a.close()
	return root.ExecuteContext(ctx)
}

// NewRootCommand assembles the portalctl command tree.
func NewRootCommand(open Opener) *cobra.Command {
	root, _ := newRoot(open)
	return root
}

func newRoot(open Opener) (*cobra.Command, *app) {
	a := &app{open: open}
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Work-order portal from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			env, done, err := a.open(cmd.Context(), a.opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.env, a.done = env, done
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.CachePath, "cache", DefaultCachePath(), "path of the local SQLite cache")
	flags.StringVar(&a.opts.BackendURL, "backend", "", "backend base URL (defaults to BACKEND_URL)")
	flags.StringVar(&a.opts.LogLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.ordersCommand(),
		a.clientsCommand(),
	)
	return root, a
}

func (a *app) close() {
	if a.done != nil {
		a.done()
		a.done = nil
	}
}

// session resolves the local session, loading its stored token.
func (a *app) session(ctx context.Context) (session.Session, error) {
	return a.env.Auth.Resolve(ctx, LocalNamespace)
}

// requireLogin fails early with a hint when no token is stored.
func (a *app) requireLogin(ctx context.Context) (session.Session, error) {
	sess, err := a.session(ctx)
	if err != nil {
		return session.Session{}, err
	}
	if !sess.HasToken() {
		return session.Session{}, errors.New("not logged in; run portalctl login first")
	}
	return sess, nil
}

// DefaultCachePath is ~/.telconova/cache.db, or a relative path when the home
// directory is unknown.
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".telconova", "cache.db")
	}
	return filepath.Join(home, ".telconova", "cache.db")
}

// OpenLocal is the production Opener: text logs on stderr, no span export,
// notices printed to stderr, SQLite cache at opts.CachePath.
func OpenLocal(ctx context.Context, opts Options, stderr io.Writer) (*Env, func(), error) {
	cfg, err := api.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	cfg.PostgresDSN = ""
	cfg.SQLitePath = opts.CachePath
	cfg.PinnedSessionID = LocalNamespace
	if opts.BackendURL != "" {
		cfg.BackendURL = opts.BackendURL
	}
	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create cache directory: %w", err)
	}

	instruments, shutdown, err := platformobservability.Init(ctx, "portalctl",
		platformobservability.WithLogOutput(stderr),
		platformobservability.WithLogLevel(platformobservability.ParseLevel(opts.LogLevel)),
		platformobservability.WithTextLogs(),
		platformobservability.WithoutSpanExport(),
	)
	if err != nil {
		return nil, nil, err
	}
	stopTelemetry := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}

	store, closeStore, err := api.OpenStore(ctx, cfg, instruments.Logger)
	if err != nil {
		stopTelemetry()
		return nil, nil, err
	}
	services, err := api.NewServices(cfg, store, notify.NewWriterNotifier(stderr), instruments)
	if err != nil {
		closeStore()
		stopTelemetry()
		return nil, nil, err
	}
	env := &Env{Auth: services.Auth, Orders: services.Orders, Clients: services.Clients}
	return env, func() {
		closeStore()
		stopTelemetry()
	}, nil
}
