package commands

import (
	"github.com/rbum/devtools/internal/config"
	"github.com/rbum/devtools/internal/logging"
	"github.com/rbum/devtools/internal/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time.
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "rbumdev",
	Short:         "Developer tools for the rBUM project",
	Long:          "rbumdev keeps file headers current, audits the Xcode project file and renders the app icon set.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColorFlag {
			terminal.SetColor(false)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := logging.New(logging.Config{
			Level:    cfg.Log.Level,
			FilePath: cfg.Log.File,
		})
		if err != nil {
			return err
		}
		appConfig = cfg
		appLogger = logger
		return nil
	},
}

// Execute runs the root command. The logger is flushed and closed on every
// path, including failed runs, where cobra skips its post-run hooks.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		appLogger.Debug("command failed", zap.Error(err))
	}
	closeErr := appLogger.Close()
	appLogger = logging.Nop()
	if err != nil {
		return err
	}
	return closeErr
}

var (
	configFlag   string
	rootFlag     string
	logLevelFlag string
	logFileFlag  string
	noColorFlag  bool
)

// Set by PersistentPreRunE for the running command.
var (
	appConfig *config.Config
	appLogger = logging.Nop()
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", "", "Config file (default: <root>/.rbumdev.yml, then ~/.config/rbumdev/config.yml)")
	flags.StringVar(&rootFlag, "root", "", "Project root directory (default: project_root from config)")
	flags.StringVar(&logLevelFlag, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	flags.StringVar(&logFileFlag, "log-file", "", "Also write JSON logs to this rotating file")
	flags.BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(stampCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(iconsCmd)
	rootCmd.AddCommand(mcpCmd)
}
