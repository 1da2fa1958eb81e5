package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rbum/devtools/internal/config"
	"github.com/rbum/devtools/internal/stamper"
	"github.com/rbum/devtools/internal/storage"
	"github.com/rbum/devtools/internal/terminal"
	"go.uber.org/zap"
)

// loadConfig loads the config and applies the persistent flag overrides.
func loadConfig() (*config.Config, error) {
	root := rootFlag
	if root == "" {
		root = "."
	}
	cfg, err := config.Load(configFlag, root)
	if err != nil {
		return nil, err
	}
	if rootFlag != "" {
		cfg.SetProjectRoot(rootFlag)
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}
	if logFileFlag != "" {
		cfg.Log.File = logFileFlag
	}
	return cfg, nil
}

// newStamper builds a stamper for the loaded project, reporting to the terminal.
func newStamper(cfg *config.Config) *stamper.Stamper {
	return stamper.New(stamper.Options{
		Headers:     cfg.HeaderOptions(time.Now()),
		ExcludeDirs: cfg.ExcludeDirs,
	}, terminal.Reporter{}, appLogger.Logger)
}

// lockRoot takes the per-root run lock, creating the state dir first.
func lockRoot(cfg *config.Config, root string) (func(), error) {
	if err := cfg.EnsureStateDir(); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	fl, err := stamper.Lock(cfg.StateDir, root)
	if err != nil {
		return nil, err
	}
	return func() { stamper.Unlock(fl) }, nil
}

// recordRun appends res to the run log. A failure is logged, not returned.
func recordRun(cfg *config.Config, root string, res *stamper.Result, trigger string, started time.Time) {
	err := storage.NewRunStore(cfg.StateDir).Append(storage.RunRecord{
		Root:      root,
		Scanned:   res.Scanned,
		Updated:   res.Updated,
		DryRun:    res.DryRun,
		Trigger:   trigger,
		StartedAt: started,
	})
	if err != nil {
		appLogger.Warn("failed to record run", zap.String("root", root), zap.Error(err))
	}
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
