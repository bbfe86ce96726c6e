// Package runtime provides the application composition root for Foqos.
package runtime

import (
	"os"

	"github.com/foqos/foqos/internal/config"
	"github.com/foqos/foqos/internal/engine"
	"github.com/foqos/foqos/internal/output"
	"github.com/foqos/foqos/internal/profilesync"
	"github.com/foqos/foqos/internal/storage"
)

// Context holds the application runtime context. It is constructed once per
// invocation and handed to commands by reference; nothing in here is a
// package-level singleton.
type Context struct {
	DB        *storage.DB
	Config    *config.RuntimeConfig
	Formatter *output.Formatter

	// Repositories
	ProfileRepo       *storage.ProfileRepo
	SessionRepo       *storage.SessionRepo
	ActiveSessionRepo *storage.ActiveSessionRepo
	CachedProfileRepo *storage.CachedProfileRepo

	// Services
	Engine   *engine.Engine
	Profiles *profilesync.Repository
}

// Options configures the runtime context.
type Options struct {
	DBPath    string
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:    storage.DefaultPath(),
		InMemory:  false,
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// New creates a new runtime context.
func New(opts Options) (*Context, error) {
	// Check for environment variable override
	if envPath := os.Getenv("FOQOS_DATABASE"); envPath != "" {
		if envPath == ":memory:" {
			opts.InMemory = true
		} else {
			opts.DBPath = envPath
		}
	}

	db, err := storage.Open(storage.Options{
		Path:     opts.DBPath,
		InMemory: opts.InMemory,
	})
	if err != nil {
		return nil, err
	}

	cfg := config.LoadFromEnv()

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	ctx := &Context{
		DB:        db,
		Config:    cfg,
		Formatter: formatter,
		ProfileRepo:       storage.NewProfileRepo(db),
		SessionRepo:       storage.NewSessionRepo(db),
		ActiveSessionRepo: storage.NewActiveSessionRepo(db),
		CachedProfileRepo: storage.NewCachedProfileRepo(db),
	}

	ctx.Engine = engine.New(engine.Config{
		TickInterval:   cfg.Engine.TickInterval,
		GhostThreshold: cfg.Engine.GhostThreshold,
	}, ctx.ProfileRepo, ctx.SessionRepo, ctx.ActiveSessionRepo, engine.NewLogEnforcer())

	ctx.Profiles = profilesync.NewRepository(ctx.CachedProfileRepo,
		profilesync.NewHTTPStore(profilesync.HTTPOptions{
			BaseURL:     cfg.HTTP.BaseURL,
			Timeout:     cfg.HTTP.Timeout,
			MaxRetries:  cfg.HTTP.MaxRetries,
			RetryDelays: cfg.HTTP.RetryDelays,
		}))

	// Adopt a session left open by a previous process before anything else
	// runs, then sweep ghosts.
	if err := ctx.Engine.LoadActiveSession(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := ctx.Engine.ReconcileGhostSessions(); err != nil {
		db.Close()
		return nil, err
	}

	return ctx, nil
}

// IsJSON returns true if JSON output is requested.
func (c *Context) IsJSON() bool {
	return c.Formatter.IsJSON()
}

// CLIFormatter returns a CLI formatter over the context's formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// Close releases the context's resources.
func (c *Context) Close() error {
	c.Profiles.Wait()
	c.Engine.Close()
	return c.DB.Close()
}
