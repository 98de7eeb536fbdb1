package analyzer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"iter"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/classmeta/internal/analyzer/extraction"
	"github.com/mvp-joe/classmeta/internal/analyzer/parsers"
)

// ErrUnsupportedLanguage is returned for files no parser handles.
var ErrUnsupportedLanguage = errors.New("unsupported language")

type (
	// Declaration is one type definition found in a source file.
	Declaration = extraction.Declaration
	// Member is one data member of a Declaration.
	Member = extraction.Member
	// SyntaxError locates malformed input.
	SyntaxError = parsers.SyntaxError
)

// Analyzer parses source files into declarations. Files are parsed in
// parallel, one shard per file, and merged back in input order.
type Analyzer struct {
	workers  int
	strict   bool
	logger   *zap.Logger
	cache    *ParseCache
	progress ProgressReporter
	registry *registry
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithWorkers limits the number of files parsed at once. Zero or less uses
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithStrict controls whether a syntax error fails the analysis. When false,
// the error is logged and the declarations that could be recovered are kept.
func WithStrict(strict bool) Option {
	return func(a *Analyzer) { a.strict = strict }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithCache reuses parse results across calls to Analyze.
func WithCache(cache *ParseCache) Option {
	return func(a *Analyzer) { a.cache = cache }
}

// WithProgress sets the progress reporter.
func WithProgress(progress ProgressReporter) Option {
	return func(a *Analyzer) {
		if progress != nil {
			a.progress = progress
		}
	}
}

// New creates an Analyzer. It is strict by default.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		workers:  runtime.GOMAXPROCS(0),
		strict:   true,
		logger:   zap.NewNop(),
		progress: NoOpProgressReporter{},
		registry: newRegistry(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze parses every file. The first failing file in input order is
// reported: an unsupported extension, a read error, or a syntax error in
// strict mode.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*Result, error) {
	start := time.Now()
	a.progress.OnAnalysisStart(len(files))

	shards := make([]*parsers.FileExtraction, len(files))
	errs := make([]error, len(files))

	// Workers share the caller's context only: one file failing must not
	// cancel the files before it, whose errors take precedence.
	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, path := range files {
		g.Go(func() error {
			shard, err := a.analyzeFile(ctx, path)
			if err != nil {
				errs[i] = err
				return nil
			}
			shards[i] = shard
			a.progress.OnFileAnalyzed(path)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, fileErr := range errs {
		if fileErr != nil {
			return nil, fileErr
		}
	}

	result := &Result{files: files, shards: shards}
	elapsed := time.Since(start)
	a.progress.OnAnalysisComplete(result.Len(), elapsed)
	a.logger.Debug("analysis complete",
		zap.Int("files", len(files)),
		zap.Int("declarations", result.Len()),
		zap.Duration("elapsed", elapsed))

	return result, nil
}

// analyzeFile parses one file, consulting the cache first.
func (a *Analyzer) analyzeFile(ctx context.Context, path string) (*parsers.FileExtraction, error) {
	parser := a.registry.parserFor(path)
	if parser == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	hash := sha256.Sum256(source)
	shard, hit := a.lookup(path, hash)
	if !hit {
		shard, err = parser.ParseSource(ctx, path, source)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if a.cache != nil {
			a.cache.Store(path, hash, shard)
		}
	}

	if shard.Syntax != nil {
		if a.strict {
			return nil, shard.Syntax
		}
		a.logger.Warn("syntax error, keeping recovered declarations",
			zap.String("file", path),
			zap.Int("line", shard.Syntax.Line),
			zap.Int("column", shard.Syntax.Column))
	}

	a.logger.Debug("analyzed file",
		zap.String("file", path),
		zap.String("language", shard.Language),
		zap.Int("declarations", len(shard.Declarations)),
		zap.Bool("cached", hit))

	return shard, nil
}

func (a *Analyzer) lookup(path string, hash [sha256.Size]byte) (*parsers.FileExtraction, bool) {
	if a.cache == nil {
		return nil, false
	}
	return a.cache.Lookup(path, hash)
}

// Result holds the declarations of one analysis run in input file order.
type Result struct {
	files    []string
	shards   []*parsers.FileExtraction
	consumed atomic.Bool
}

// Files returns the analyzed files in input order.
func (r *Result) Files() []string {
	return r.files
}

// Len returns the total number of declarations.
func (r *Result) Len() int {
	n := 0
	for _, shard := range r.shards {
		n += len(shard.Declarations)
	}
	return n
}

// Declarations returns the declarations in file order, then source order
// within a file. The sequence can be consumed once; later iterations, from
// this or any other call, yield nothing.
func (r *Result) Declarations() iter.Seq[Declaration] {
	return func(yield func(Declaration) bool) {
		if r.consumed.Swap(true) {
			return
		}
		for _, shard := range r.shards {
			for _, decl := range shard.Declarations {
				if !yield(decl) {
					return
				}
			}
		}
	}
}
