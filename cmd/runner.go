package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/hamilmoji/internal/emoji"
	"github.com/desertthunder/hamilmoji/internal/repositories"
	"github.com/desertthunder/hamilmoji/internal/services"
	"github.com/desertthunder/hamilmoji/internal/shared"
	"github.com/desertthunder/hamilmoji/internal/tasks"
	"github.com/desertthunder/hamilmoji/internal/ui"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	lyrics    services.LyricsProvider
	index     services.SearchIndex
	db        *sql.DB
	logger    *log.Logger
	output    io.Writer
	errOutput io.Writer
	palette   *ui.Palette
	engine    tasks.Pipeline
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	Lyrics    services.LyricsProvider
	Index     services.SearchIndex
	DB        *sql.DB // Optional job journal
	Logger    *log.Logger
	Output    io.Writer
	ErrOutput io.Writer
	Palette   *ui.Palette
	Engine    tasks.Pipeline // Overrides the engine built from the other options
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.Palette == nil {
		opts.Palette = ui.Styles
	}

	engine := opts.Engine
	if engine == nil {
		engineOpts := tasks.EngineOpts{
			Lyrics:   opts.Lyrics,
			Index:    opts.Index,
			Document: repositories.NewLyricsStore(opts.Config.LyricsPath()),
			Emoji:    emoji.Source(opts.Config.Emoji.Path),
			AlbumID:  int64(opts.Config.Lyrics.AlbumID),
			Logger:   opts.Logger,
		}
		if opts.DB != nil {
			engineOpts.Recorder = repositories.NewJobRepository(opts.DB)
		}
		engine = tasks.NewPipelineEngine(engineOpts)
	}

	return &Runner{
		config:    opts.Config,
		lyrics:    opts.Lyrics,
		index:     opts.Index,
		db:        opts.DB,
		logger:    opts.Logger,
		output:    opts.Output,
		errOutput: opts.ErrOutput,
		palette:   opts.Palette,
		engine:    engine,
	}
}

// NewRunnerFromFiles loads the .env file and configuration, then connects the
// services whose credentials are present.
//
// Missing credentials are not an error here: the step that needs the service
// reports it when it runs.
func NewRunnerFromFiles(configPath, envFile string, logger *log.Logger) (*Runner, error) {
	if err := shared.LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	config, err := shared.ResolveConfig(configPath, os.LookupEnv)
	if err != nil {
		return nil, err
	}

	opts := RunnerOpts{Config: config, Logger: logger}

	if config.HasGenius() {
		svc, err := services.NewGeniusService(services.GeniusOpts{
			AccessToken: config.Credentials.Genius.AccessToken,
			BaseURL:     config.Credentials.Genius.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		opts.Lyrics = svc
	} else {
		logger.Debug("genius credentials not set", "env", shared.EnvGeniusToken)
	}

	if config.HasAlgolia() {
		idx, err := services.NewAlgoliaIndex(config.Credentials.Algolia)
		if err != nil {
			return nil, err
		}
		opts.Index = idx
	} else {
		logger.Debug("algolia credentials not set", "env", []string{shared.EnvAlgoliaAppID, shared.EnvAlgoliaSecret, shared.EnvAlgoliaIndex})
	}

	if config.Database.Path != "" {
		db, err := shared.OpenJournal(config.Database)
		if err != nil {
			return nil, err
		}
		opts.DB = db
		logger.Debug("job journal enabled", "path", config.Database.Path)
	}

	return NewRunner(opts), nil
}

// Close releases the job journal when one is open.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Dispatch runs the command named in opts. Unknown commands print usage.
func (r *Runner) Dispatch(ctx context.Context, opts Options) error {
	r.logger.Debug("dispatching", "command", opts.Command)

	switch opts.Command {
	case CommandSetup:
		return r.Setup(ctx)
	case CommandGetLyrics:
		return r.GetLyrics(ctx)
	case CommandSetupEmoji:
		return r.SetupEmoji(ctx)
	case CommandIndex:
		return r.Index(ctx)
	default:
		return r.Usage()
	}
}

// GetLyrics fetches every song of the album and writes the lyrics document.
func (r *Runner) GetLyrics(ctx context.Context) error {
	result, err := withProgress(r, func(progress chan<- tasks.ProgressUpdate) (*tasks.FetchResult, error) {
		return r.engine.FetchLyrics(ctx, progress)
	})
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", r.palette.OK("Successfully fetched lyrics and written to "+result.Path))
}

// SetupEmoji replaces the index synonyms with the emoji dataset.
func (r *Runner) SetupEmoji(ctx context.Context) error {
	if _, err := withProgress(r, func(progress chan<- tasks.ProgressUpdate) (*tasks.SynonymResult, error) {
		return r.engine.SetupEmoji(ctx, progress)
	}); err != nil {
		return err
	}
	return r.writePlain("%s\n", r.palette.OK("Successfully cleared synonyms and set up emojis."))
}

// Index clears the index and loads the lyrics document.
//
// A missing document prints an instruction and is not treated as a failure.
func (r *Runner) Index(ctx context.Context) error {
	_, err := withProgress(r, func(progress chan<- tasks.ProgressUpdate) (*tasks.IndexResult, error) {
		return r.engine.IndexLyrics(ctx, progress)
	})
	if errors.Is(err, shared.ErrLyricsFileMissing) {
		r.logger.Debug("lyrics document missing", "path", r.config.LyricsPath())
		return r.writeErr("%s\n", r.palette.Err("ERROR: Please run get-lyrics first!"))
	}
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", r.palette.OK("Successfully cleared index and indexed new lyrics."))
}

// Setup runs get-lyrics, setup-emoji and index in order, stopping at the first error.
// Each completed step prints its own confirmation.
func (r *Runner) Setup(ctx context.Context) error {
	result, err := withProgress(r, func(progress chan<- tasks.ProgressUpdate) (*tasks.SetupResult, error) {
		return r.engine.Setup(ctx, progress)
	})

	if result != nil {
		var confirmations []string
		if result.Fetch != nil {
			confirmations = append(confirmations, "Successfully fetched lyrics and written to "+result.Fetch.Path)
		}
		if result.Synonyms != nil {
			confirmations = append(confirmations, "Successfully cleared synonyms and set up emojis.")
		}
		if result.Index != nil {
			confirmations = append(confirmations, "Successfully cleared index and indexed new lyrics.")
		}
		for _, msg := range confirmations {
			if werr := r.writePlain("%s\n", r.palette.OK(msg)); werr != nil {
				return errors.Join(err, werr)
			}
		}
	}

	if errors.Is(err, shared.ErrLyricsFileMissing) {
		return r.writeErr("%s\n", r.palette.Err("ERROR: Please run get-lyrics first!"))
	}
	return err
}

// Usage prints the available commands.
func (r *Runner) Usage() error {
	return r.writePlain("%s", usageText(r.palette))
}

// withProgress runs fn with a progress channel drained into the logger.
// The drain finishes before withProgress returns.
func withProgress[T any](r *Runner, fn func(chan<- tasks.ProgressUpdate) (T, error)) (T, error) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			switch update.Phase {
			case tasks.FetchSongs, tasks.WaitTask:
				r.logger.Debug(update.Message, "phase", update.Phase)
			default:
				r.logger.Info(update.Message)
			}
		}
	}()

	result, err := fn(progress)
	close(progress)
	<-done
	return result, err
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeErr(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.errOutput.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
