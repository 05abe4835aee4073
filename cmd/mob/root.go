package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/JonathanFeenstra/mob/internal/config"
	"github.com/JonathanFeenstra/mob/internal/git"
	"github.com/JonathanFeenstra/mob/internal/logx"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	configPath string

	// Shared state injected into commands
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mob",
	Short: "Build orchestrator for ModOrganizer development",
	Long: `mob drives git to fetch, update, and rewire the source trees
of the components that make up a ModOrganizer build.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		// Flags are parsed at this point, so the config path is final.
		loadedCfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = &loadedCfg

		level := logx.LevelInfo
		switch {
		case verbose:
			level = logx.LevelTrace
		case quiet:
			level = logx.LevelError
		}

		// Tag log lines when stderr is piped into a larger build log.
		tagged := !isatty.IsTerminal(os.Stderr.Fd())
		logger := logx.New(os.Stderr, level, tagged)
		cmd.SetContext(logx.WithLogger(cmd.Context(), logger))

		return git.CheckBinary(cfg.GitBinary())
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'mob -h' for help")
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands and their output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "~/.config/mob/mob.toml", "Path to the configuration file")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(newGitCmd())
}
