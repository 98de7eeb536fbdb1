// Package extract drives one run: find source files, analyze them, record the
// matching declarations and write the document.
package extract

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mvp-joe/classmeta/internal/analyzer"
	"github.com/mvp-joe/classmeta/internal/config"
	"github.com/mvp-joe/classmeta/internal/metadata"
	"github.com/mvp-joe/classmeta/internal/output"
	"github.com/mvp-joe/classmeta/internal/watcher"
)

// Collect records every declaration whose qualified name passes the filter,
// with one field per member in declaration order. decls is consumed once.
func Collect(decls iter.Seq[analyzer.Declaration], patterns []string) *metadata.Database {
	db := metadata.NewDatabase()
	for decl := range decls {
		if !metadata.ShouldInclude(decl.Name, patterns) {
			continue
		}
		typ := db.AddType(decl.Name)
		for _, member := range decl.Members {
			typ.AddField(member.Type, member.Name)
		}
	}
	return db
}

// Extractor runs extraction for a set of input paths.
type Extractor struct {
	cfg      *config.Config
	inputs   []string
	logger   *zap.Logger
	progress analyzer.ProgressReporter
	stdout   io.Writer
	cache    *analyzer.ParseCache
	analyzer *analyzer.Analyzer
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProgress sets the analysis progress reporter.
func WithProgress(progress analyzer.ProgressReporter) Option {
	return func(e *Extractor) {
		if progress != nil {
			e.progress = progress
		}
	}
}

// WithStdout sets the stream used for the "-" destination.
func WithStdout(w io.Writer) Option {
	return func(e *Extractor) {
		if w != nil {
			e.stdout = w
		}
	}
}

// New creates an Extractor. inputs are files or directories; none means the
// current directory.
func New(cfg *config.Config, inputs []string, opts ...Option) (*Extractor, error) {
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	e := &Extractor{
		cfg:      cfg,
		inputs:   inputs,
		logger:   zap.NewNop(),
		progress: analyzer.NoOpProgressReporter{},
		stdout:   os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}

	cache, err := analyzer.NewParseCache(cfg.Analysis.CacheSize)
	if err != nil {
		return nil, err
	}
	e.cache = cache
	e.analyzer = analyzer.New(
		analyzer.WithWorkers(cfg.Analysis.Workers),
		analyzer.WithStrict(cfg.Analysis.Strict),
		analyzer.WithLogger(e.logger),
		analyzer.WithCache(cache),
		analyzer.WithProgress(e.progress),
	)

	return e, nil
}

// Close releases the parse cache.
func (e *Extractor) Close() {
	e.cache.Close()
}

// Run analyzes the inputs and returns the populated database.
func (e *Extractor) Run(ctx context.Context) (*metadata.Database, error) {
	files, err := analyzer.CollectFiles(e.inputs, e.cfg.Paths.Include, e.cfg.Paths.Ignore)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("discovered files", zap.Int("count", len(files)))

	result, err := e.analyzer.Analyze(ctx, files)
	if err != nil {
		return nil, err
	}

	return Collect(result.Declarations(), e.cfg.Filter.Patterns), nil
}

// Emit runs the extraction and writes the document. The database is complete
// before the destination is opened, so an analysis failure never touches it.
func (e *Extractor) Emit(ctx context.Context) (*metadata.Database, error) {
	start := time.Now()

	db, err := e.Run(ctx)
	if err != nil {
		return nil, err
	}

	dest, err := output.Open(e.cfg.Output.Destination, e.stdout)
	if err != nil {
		return nil, err
	}

	renderer := metadata.NewRenderer(
		metadata.WithFormat(metadata.Format(strings.ToLower(e.cfg.Output.Format))),
		metadata.WithIndent(e.cfg.Output.Indent),
	)
	if err := renderer.Render(dest, db); err != nil {
		_ = dest.Discard()
		return nil, fmt.Errorf("failed to write %s: %w", dest.Name(), err)
	}
	if err := dest.Close(); err != nil {
		return nil, err
	}

	e.logger.Info("wrote document",
		zap.String("destination", dest.Name()),
		zap.Int("types", db.Len()),
		zap.Duration("elapsed", time.Since(start)))

	return db, nil
}

// Watch emits the document, then emits a fresh one after every debounced
// batch of source changes until ctx is cancelled. A failed regeneration is
// logged and leaves the previous document in place.
func (e *Extractor) Watch(ctx context.Context) error {
	if _, err := e.Emit(ctx); err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(e.inputs, e.cfg.SourceExtensions(),
		watcher.WithDebounce(time.Duration(e.cfg.Watch.DebounceMS)*time.Millisecond),
		watcher.WithLogger(e.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer fw.Stop()

	err = fw.Start(ctx, func(files []string) {
		e.logger.Info("sources changed, regenerating", zap.Strings("files", files))
		for _, file := range files {
			if _, statErr := os.Stat(file); statErr != nil {
				e.cache.Forget(file)
			}
		}
		if _, err := e.Emit(ctx); err != nil && ctx.Err() == nil {
			e.logger.Error("regeneration failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	e.logger.Info("watching for changes", zap.Strings("paths", e.inputs))
	<-ctx.Done()
	return nil
}
