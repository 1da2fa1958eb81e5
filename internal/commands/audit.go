package commands

import (
	"github.com/rbum/devtools/internal/audit"
	"github.com/rbum/devtools/internal/terminal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var auditPBXProj string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List source files missing from the Xcode project",
	Long:  "Print, one per line, every source file on disk that project.pbxproj does not reference.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := appConfig.AbsRoot()
		if err != nil {
			return err
		}
		pbx := appConfig.Audit.PBXProj
		if auditPBXProj != "" {
			pbx = auditPBXProj
		}

		report, err := audit.Run(audit.Options{
			Root:       root,
			PBXProj:    appConfig.ResolvePath(pbx),
			Extensions: appConfig.Audit.Extensions,
		})
		if err != nil {
			return err
		}
		appLogger.Debug("audit finished",
			zap.Int("sources", report.Sources),
			zap.Int("referenced", report.Referenced),
			zap.Int("unreferenced", len(report.Unreferenced)))
		for _, p := range report.Unreferenced {
			terminal.Line(p)
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().StringVar(&auditPBXProj, "pbxproj", "", "Path to project.pbxproj (default from config)")
}
