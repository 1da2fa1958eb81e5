// Package stamper keeps the creation/update headers of a project's source
// and documentation files current.
package stamper

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rbum/devtools/internal/headers"
	"go.uber.org/zap"
)

// Notices printed at the start of every run.
const (
	CounterEnabledWarning = "Update counter is enabled. This should only be true for release."
	CounterDisabledNote   = "Update counter is disabled during core development."
)

// Reporter receives the user-facing output of a run.
type Reporter interface {
	Notice(msg string)
	Warning(msg string)
	Updated(path string)
}

// Options configures a Stamper.
type Options struct {
	Headers     headers.Options
	ExcludeDirs []string
}

// Result summarizes a run.
type Result struct {
	Scanned int
	Updated []string
	DryRun  bool
}

// Stamper rewrites file headers under a project root.
type Stamper struct {
	opts        Options
	excludeDirs []string
	reporter    Reporter
	logger      *zap.Logger

	// mu serializes read-modify-write cycles (watch mode fires from timers)
	// and guards written.
	mu sync.Mutex

	// written holds the hash of the content last written per path, so
	// watch mode can tell its own writes from user edits.
	written map[string][sha256.Size]byte
}

// New creates a stamper. A nil logger discards diagnostics.
func New(opts Options, reporter Reporter, logger *zap.Logger) *Stamper {
	if logger == nil {
		logger = zap.NewNop()
	}
	exclude := opts.ExcludeDirs
	if exclude == nil {
		exclude = DefaultExcludeDirs
	}
	return &Stamper{
		opts:        opts,
		excludeDirs: exclude,
		reporter:    reporter,
		logger:      logger,
		written:     make(map[string][sha256.Size]byte),
	}
}

// Run stamps every file of the project tree under root. The first read or
// write error aborts the run; files processed before it stay updated.
func (s *Stamper) Run(ctx context.Context, root string) (*Result, error) {
	return s.run(ctx, root, false)
}

// Plan reports which files Run would rewrite without writing anything.
func (s *Stamper) Plan(ctx context.Context, root string) (*Result, error) {
	return s.run(ctx, root, true)
}

func (s *Stamper) run(ctx context.Context, root string, dryRun bool) (*Result, error) {
	if s.opts.Headers.CounterEnabled {
		s.reporter.Warning(CounterEnabledWarning)
	} else {
		s.reporter.Notice(CounterDisabledNote)
	}

	files, err := s.Walk(root)
	if err != nil {
		return nil, err
	}

	opts := s.runOptions()
	res := &Result{DryRun: dryRun}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		changed, err := s.process(path, opts, dryRun)
		if err != nil {
			return res, err
		}
		res.Scanned++
		if changed {
			res.Updated = append(res.Updated, path)
		}
	}

	s.logger.Info("stamp finished",
		zap.String("root", root),
		zap.Int("scanned", res.Scanned),
		zap.Int("updated", len(res.Updated)),
		zap.Bool("dry_run", dryRun),
	)
	return res, nil
}

// ProcessFile stamps a single file. Untracked extensions are left alone.
// It reports whether the file was rewritten.
func (s *Stamper) ProcessFile(path string) (bool, error) {
	return s.process(path, s.runOptions(), false)
}

// ownWrite reports whether path still holds exactly what the stamper last
// wrote there.
func (s *Stamper) ownWrite(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.written[path]
	if !ok {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return sha256.Sum256(data) == sum
}

// runOptions pins the update date for the duration of a run.
func (s *Stamper) runOptions() headers.Options {
	opts := s.opts.Headers
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	return opts
}

func (s *Stamper) process(path string, opts headers.Options, dryRun bool) (bool, error) {
	r, ok := headers.RendererFor(path, opts)
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return false, fmt.Errorf("failed to decode %s: not valid UTF-8", path)
	}

	content := string(data)
	updated := r.Render(content, filepath.Base(path))
	if updated == content {
		s.logger.Debug("header current", zap.String("path", path))
		return false, nil
	}

	if dryRun {
		s.logger.Debug("header stale", zap.String("path", path), zap.String("kind", string(r.Kind())))
		return true, nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	s.written[path] = sha256.Sum256([]byte(updated))
	s.logger.Debug("header written", zap.String("path", path), zap.String("kind", string(r.Kind())))
	s.reporter.Updated(path)
	return true, nil
}
