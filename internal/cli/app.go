package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/biteroute/storefront/internal/api"
	"github.com/biteroute/storefront/internal/bus"
	"github.com/biteroute/storefront/internal/cart"
	"github.com/biteroute/storefront/internal/config"
	"github.com/biteroute/storefront/internal/session"
	"github.com/biteroute/storefront/internal/store"
)

// App wires the storefront core for one command invocation: persistent
// store, event bus, session, cart, and backend client, restored from disk.
type App struct {
	Config  config.Config
	KV      *store.Store
	Bus     *bus.Bus
	Session *session.Store
	Cart    *cart.Store
	Backend *api.Client
	Log     *slog.Logger
}

// openApp loads configuration, opens the persistent store, and restores
// session and cart state.
func openApp(ctx context.Context, opts *RootOptions) (*App, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if opts.DB != "" {
		cfg.StorePath = opts.DB
	}

	kv, err := store.Open(cfg.StorePath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open local store", err)
	}

	b := bus.New()

	sess := session.New(kv)
	if err := sess.Restore(ctx); err != nil {
		kv.Close()
		return nil, WrapExitError(ExitCommandError, "restore session", err)
	}

	c := cart.New(kv, b)
	if err := c.Load(ctx); err != nil {
		kv.Close()
		return nil, WrapExitError(ExitCommandError, "load cart", err)
	}

	logHandler := slog.NewTextHandler(io.Discard, nil)
	if opts.Verbose {
		logHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	log := slog.New(logHandler)

	backend := api.New(cfg.BackendURL, api.WithTokenSource(sess.Token))

	return &App{
		Config:  cfg,
		KV:      kv,
		Bus:     b,
		Session: sess,
		Cart:    c,
		Backend: backend,
		Log:     log,
	}, nil
}

// Close releases the persistent store.
func (a *App) Close() {
	a.KV.Close()
}

// requireRole gates a role-restricted command on the authorization
// verdict. A redirect verdict becomes the CLI's entry-point message; the
// wrong-role and not-logged-in cases are deliberately indistinguishable.
func requireRole(a *App, roles ...session.Role) error {
	if session.Authorize(a.Session, roles...) == session.VerdictRedirect {
		return NewExitError(ExitFailure, "please login to continue")
	}
	return nil
}
