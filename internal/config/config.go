package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rbum/devtools/internal/headers"
	"gopkg.in/yaml.v3"
)

// FileName is the per-project config file looked up in the project root.
const FileName = ".rbumdev.yml"

// Config holds the CLI configuration.
type Config struct {
	// ProjectRoot is the directory every command works on.
	ProjectRoot string `yaml:"project_root"`

	// ProjectName is the project line of source headers.
	ProjectName string `yaml:"project_name"`

	// CreationDate is stamped into files that carry no creation date yet.
	CreationDate string `yaml:"creation_date"`

	// CounterEnabled turns on the "Update count" header line. Release only.
	CounterEnabled bool `yaml:"counter_enabled"`

	// ExcludeDirs are directory names never scanned by the stamper.
	ExcludeDirs []string `yaml:"exclude_dirs"`

	Audit AuditConfig `yaml:"audit"`
	Icons IconsConfig `yaml:"icons"`
	Log   LogConfig   `yaml:"log"`

	// Path is the file this config was read from. Empty means defaults.
	Path string `yaml:"-"`

	// StateDir holds run lock files (~/.cache/rbumdev equivalent).
	StateDir string `yaml:"-"`
}

// AuditConfig configures the project-file cross-reference audit.
type AuditConfig struct {
	PBXProj    string   `yaml:"pbxproj"`
	Extensions []string `yaml:"extensions"`
}

// IconsConfig configures app icon generation.
type IconsConfig struct {
	Label      string `yaml:"label"`
	OutputDir  string `yaml:"output_dir"`
	Sizes      []int  `yaml:"sizes"`
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
	FontPath   string `yaml:"font_path"`
}

// LogConfig configures the diagnostic logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		ProjectRoot:  ".",
		ProjectName:  headers.DefaultProjectName,
		CreationDate: headers.DefaultCreationDate,
		ExcludeDirs:  []string{"build", "Pods", "Carthage"},
		Audit: AuditConfig{
			PBXProj:    filepath.Join("rBUM.xcodeproj", "project.pbxproj"),
			Extensions: []string{".swift", ".m", ".h", ".mm", ".cpp"},
		},
		Icons: IconsConfig{
			Label:      "rBUM",
			OutputDir:  filepath.Join("rBUM", "rBUM", "Assets.xcassets", "AppIcon.appiconset"),
			Sizes:      []int{16, 32, 128, 256, 512},
			Background: "#0066CC",
			Foreground: "#FFFFFF",
			FontPath:   "/System/Library/Fonts/SFNSMono.ttf",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load resolves and reads the configuration.
// An explicit path must exist. Otherwise the project root's .rbumdev.yml
// is tried, then the user config file; if neither exists defaults are used.
func Load(explicitPath, root string) (*Config, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return finish(LoadFrom(explicitPath))
	}

	if root == "" {
		root = "."
	}
	projectFile := filepath.Join(root, FileName)
	if _, err := os.Stat(projectFile); err == nil {
		cfg, err := LoadFrom(projectFile)
		if err == nil && cfg.ProjectRoot == "." {
			cfg.ProjectRoot = root
		}
		return finish(cfg, err)
	}
	if userFile := userConfigPath(); userFile != "" {
		if _, err := os.Stat(userFile); err == nil {
			return finish(LoadFrom(userFile))
		}
	}

	cfg := DefaultConfig()
	return finish(&cfg, nil)
}

// LoadFrom reads configPath on top of the defaults. A missing file is not
// an error.
func LoadFrom(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.ProjectRoot = ""
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
	}
	cfg.Path = configPath

	// A relative root set in a config file is relative to that file.
	switch {
	case cfg.ProjectRoot == "":
		cfg.ProjectRoot = "."
	case !filepath.IsAbs(cfg.ProjectRoot):
		cfg.ProjectRoot = filepath.Join(filepath.Dir(configPath), cfg.ProjectRoot)
	}
	return &cfg, nil
}

func finish(cfg *Config, err error) (*Config, error) {
	if err != nil {
		return nil, err
	}
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = "."
	}
	if cfg.ProjectName == "" {
		cfg.ProjectName = headers.DefaultProjectName
	}
	if cfg.CreationDate == "" {
		cfg.CreationDate = headers.DefaultCreationDate
	}
	cfg.StateDir = stateDir()
	return cfg, nil
}

// SetProjectRoot points the config at a different project directory.
func (c *Config) SetProjectRoot(root string) {
	c.ProjectRoot = root
}

// AbsRoot returns the project root as an absolute path.
func (c *Config) AbsRoot() (string, error) {
	abs, err := filepath.Abs(c.ProjectRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root: %w", err)
	}
	return abs, nil
}

// ResolvePath returns p, or p joined to the project root when relative.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectRoot, p)
}

// HeaderOptions returns the stamping options for a run at now.
func (c *Config) HeaderOptions(now time.Time) headers.Options {
	return headers.Options{
		ProjectName:    c.ProjectName,
		CreationDate:   c.CreationDate,
		Now:            now,
		CounterEnabled: c.CounterEnabled,
	}
}

// EnsureStateDir creates the state directory if it doesn't exist.
func (c *Config) EnsureStateDir() error {
	if c.StateDir == "" {
		return fmt.Errorf("no state directory configured")
	}
	return os.MkdirAll(c.StateDir, 0o755)
}

func userConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rbumdev", "config.yml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rbumdev", "config.yml")
}

func stateDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "rbumdev")
	}
	return filepath.Join(os.TempDir(), "rbumdev")
}
