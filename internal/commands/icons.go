package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rbum/devtools/internal/icons"
	"github.com/rbum/devtools/internal/terminal"
	"github.com/spf13/cobra"
)

var (
	iconsOut   string
	iconsLabel string
	iconsFont  string
)

var iconsCmd = &cobra.Command{
	Use:   "icons",
	Short: "Render the app icon set",
	Long:  "Write icon_<s>x<s>.png and icon_<s>x<s>@2x.png for every configured size.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := icons.Options{
			Label:      appConfig.Icons.Label,
			OutputDir:  appConfig.ResolvePath(appConfig.Icons.OutputDir),
			Sizes:      appConfig.Icons.Sizes,
			Background: appConfig.Icons.Background,
			Foreground: appConfig.Icons.Foreground,
			FontPath:   appConfig.Icons.FontPath,
		}
		if iconsOut != "" {
			opts.OutputDir = iconsOut
		}
		if iconsLabel != "" {
			opts.Label = iconsLabel
		}
		if iconsFont != "" {
			opts.FontPath = iconsFont
		}

		if _, fallback, err := icons.LoadFont(opts.FontPath); err == nil && fallback {
			terminal.Warning(fmt.Sprintf("Could not load font %s; using Go Mono.", opts.FontPath))
		}

		sizes := opts.Sizes
		if len(sizes) == 0 {
			sizes = icons.DefaultSizes
		}
		progress := terminal.NewProgress("Rendering icons", 2*len(sizes))
		opts.OnWrite = func(icon icons.Icon) { progress.Advance(filepath.Base(icon.Path)) }
		progress.Start()

		written, err := icons.Generate(opts)
		if err != nil {
			progress.StopWithError("Icon generation failed")
			return err
		}
		progress.StopWithSuccess(fmt.Sprintf("Wrote %d icons to %s", len(written), opts.OutputDir))
		for _, icon := range written {
			terminal.Detail(fmt.Sprintf("%dpx", icon.Size), filepath.Base(icon.Path))
		}
		return nil
	},
}

func init() {
	iconsCmd.Flags().StringVar(&iconsOut, "out", "", "Output directory (default from config)")
	iconsCmd.Flags().StringVar(&iconsLabel, "label", "", "Icon label text")
	iconsCmd.Flags().StringVar(&iconsFont, "font", "", "TTF or OTF font file")
}
