// Package app wires the frontdesk subsystems into a running intake server.
//
// New creates and connects the store, the transcription backends, and the
// intake pipeline from a [config.Config]; Close tears everything down in
// reverse order. For testing, inject doubles via functional options
// (WithStore, WithTranscriber, WithMetrics) — when an option is not
// provided, New creates the real implementation from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autoaccru/frontdesk/internal/config"
	"github.com/autoaccru/frontdesk/internal/intake/namematch"
	"github.com/autoaccru/frontdesk/internal/observe"
	"github.com/autoaccru/frontdesk/internal/patient"
	"github.com/autoaccru/frontdesk/internal/resilience"
	"github.com/autoaccru/frontdesk/pkg/provider/transcribe"
	"github.com/autoaccru/frontdesk/pkg/provider/transcribe/elevenlabs"
)

// App owns the subsystem lifetimes for one frontdesk server instance.
type App struct {
	cfg     *config.Config
	store   patient.Store
	visits  *patient.Service
	matcher *namematch.Matcher
	metrics *observe.Metrics

	// transcriber is nil when no transcription provider is configured;
	// voice uploads are then rejected with [ErrNoTranscriber].
	transcriber     transcribe.Transcriber
	transcriberName string

	// pinger is set when the store is backed by a real database.
	pinger interface {
		Ping(ctx context.Context) error
	}

	// closers are called in reverse order during Close.
	closers []func() error

	closeOnce sync.Once
}

// Option is a functional option for [New]. Use these to inject test doubles.
type Option func(*App)

// WithStore injects a visit store instead of creating one from the config.
func WithStore(s patient.Store) Option {
	return func(a *App) { a.store = s }
}

// WithTranscriber injects a transcriber instead of creating one from the
// config's transcription block.
func WithTranscriber(name string, t transcribe.Transcriber) Option {
	return func(a *App) {
		a.transcriberName = name
		a.transcriber = t
	}
}

// WithMetrics injects a metrics bundle instead of using [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// New creates an [App] from cfg. Real subsystems are created for every slot
// not filled by an option: a PostgreSQL store when database.postgres_dsn is
// set (the in-memory store otherwise), and the configured transcriber with
// optional fallback. The returned App must be released with Close.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		if err := a.initStore(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}
	a.visits = patient.NewService(a.store)

	if a.transcriber == nil && cfg.Transcription.Primary.Name != "" {
		if err := a.initTranscriber(); err != nil {
			a.Close()
			return nil, err
		}
	}

	if cfg.Intake.NameCorrection {
		a.matcher = namematch.New()
	}
	if a.metrics == nil {
		a.metrics = observe.DefaultMetrics()
	}
	return a, nil
}

func (a *App) initStore(ctx context.Context) error {
	dsn := a.cfg.Database.PostgresDSN
	if dsn == "" {
		slog.Info("using in-memory visit store")
		a.store = patient.NewMemStore()
		return nil
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("app: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("app: ping postgres: %w", err)
	}
	a.closers = append(a.closers, func() error {
		pool.Close()
		return nil
	})
	a.pinger = pool

	store := patient.NewPostgresStore(pool)
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	slog.Info("using postgres visit store")
	a.store = store
	return nil
}

func (a *App) initTranscriber() error {
	registry := defaultRegistry()

	primary, err := registry.CreateTranscriber(a.cfg.Transcription.Primary)
	if err != nil {
		return fmt.Errorf("app: create primary transcriber: %w", err)
	}
	a.transcriberName = a.cfg.Transcription.Primary.Name
	a.transcriber = primary

	if fb := a.cfg.Transcription.Fallback; fb != nil {
		fallback, err := registry.CreateTranscriber(*fb)
		if err != nil {
			return fmt.Errorf("app: create fallback transcriber: %w", err)
		}
		group := resilience.NewTranscriberFallback(primary, a.transcriberName, resilience.FallbackConfig{})
		group.AddFallback(fb.Name, fallback)
		a.transcriber = group
	}
	return nil
}

// defaultRegistry returns the registry of built-in transcriber providers.
func defaultRegistry() *config.Registry {
	r := config.NewRegistry()
	r.RegisterTranscriber("elevenlabs", func(entry config.TranscriberEntry) (transcribe.Transcriber, error) {
		var opts []elevenlabs.Option
		if entry.Model != "" {
			opts = append(opts, elevenlabs.WithModel(entry.Model))
		}
		if entry.BaseURL != "" {
			opts = append(opts, elevenlabs.WithBaseURL(entry.BaseURL))
		}
		return elevenlabs.New(entry.APIKey, opts...)
	})
	return r
}

// CheckDatabase reports whether the backing database is reachable. It always
// succeeds on the in-memory store.
func (a *App) CheckDatabase(ctx context.Context) error {
	if a.pinger == nil {
		return nil
	}
	return a.pinger.Ping(ctx)
}

// Close releases all resources owned by the App. Safe to call more than once.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		var errs []error
		for i := len(a.closers) - 1; i >= 0; i-- {
			if cerr := a.closers[i](); cerr != nil {
				errs = append(errs, cerr)
			}
		}
		err = errors.Join(errs...)
	})
	return err
}
