package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nickrallison/obsidian-linker-new/internal/config"
	"github.com/nickrallison/obsidian-linker-new/internal/platform"
	"github.com/nickrallison/obsidian-linker-new/pkg/engine"
	"github.com/nickrallison/obsidian-linker-new/pkg/rewrite"
)

var (
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "linker",
	Short: "Turn plain mentions of note titles into links across a vault",
	Long: `linker indexes every note title (and frontmatter alias) in a vault, finds
unlinked mentions of those titles and lets you accept or decline each link.
Accepted links are written back to disk and, in a Git vault, committed.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	def := engine.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.String("vault", "", "Vault directory (default: nearest directory with .linker.yaml, .obsidian or .git)")
	flags.Bool("case-insensitive", def.CaseInsensitive, "Match titles regardless of case")
	flags.Bool("link-to-self", def.LinkToSelf, "Allow a document to link to itself")
	flags.Bool("aliases", def.Aliases, "Index frontmatter aliases as titles")
	flags.String("preview-color", def.PreviewColor, "Colour of the proposed link in previews")
	flags.String("preview-style", def.PreviewStyle, "Preview rendering: terminal, markdown or plain")
	flags.String("link-template", rewrite.DefaultLinkTemplate, "Link syntax with {target} and {text} placeholders")
	flags.StringSlice("include", []string{"**/*.md"}, "Glob patterns of documents to scan")
	flags.StringSlice("exclude", nil, "Glob patterns of documents to skip")
	flags.String("flush", def.Flush.String(), "When to write accepted links: each or batch")
	flags.String("versioning", config.VersioningAuto, "Commit written documents: auto, on or off")
	flags.Bool("read-only", false, "Never write to the vault")
}

// openEngine resolves settings for cmd and builds the engine over the vault.
func openEngine(cmd *cobra.Command) (*engine.Engine, *config.Settings, error) {
	settings, err := config.LoadSettingsWithFlags(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	if err := config.ValidateSettings(settings); err != nil {
		return nil, nil, err
	}
	config.Log(settings)

	opts := append(settings.Options(), platform.WithLogger(slog.Default()))
	eng, err := platform.New(settings.Vault, opts...)
	if err != nil {
		return nil, nil, err
	}
	return eng, settings, nil
}
