package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/msarson/Clarion-Extension-sub003/cmd/clarion-tokens/check"
	"github.com/msarson/Clarion-Extension-sub003/cmd/clarion-tokens/outline"
	"github.com/msarson/Clarion-Extension-sub003/cmd/clarion-tokens/refs"
	"github.com/msarson/Clarion-Extension-sub003/cmd/clarion-tokens/rules"
	"github.com/msarson/Clarion-Extension-sub003/cmd/clarion-tokens/semantic"
	"github.com/msarson/Clarion-Extension-sub003/cmd/clarion-tokens/tokens"
	"github.com/msarson/Clarion-Extension-sub003/pkg/config"
	"github.com/msarson/Clarion-Extension-sub003/pkg/logging"
	"github.com/msarson/Clarion-Extension-sub003/pkg/workspace"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

type rootFlags struct {
	config   string
	logLevel string
	logJSON  bool
	color    bool
}

func run() error {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "clarion-tokens",
		Short:         "Tokenize Clarion sources and report their structure",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "config file (default: .clarion-tokens.hcl or .yaml in the working directory)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level, overrides the config file")
	rootCmd.PersistentFlags().BoolVar(&flags.logJSON, "log-json", false, "log as JSON lines")
	rootCmd.PersistentFlags().BoolVar(&flags.color, "color", false, "colorize console logs")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		ctx, err := flags.setup(cmd.Context(), afero.NewOsFs())
		if err != nil {
			return err
		}
		cmd.SetContext(ctx)
		return nil
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	rootCmd.AddCommand(cmdVersion)

	rootCmd.AddCommand(tokens.NewTokensCommand())
	rootCmd.AddCommand(semantic.NewSemanticCommand())
	rootCmd.AddCommand(check.NewCheckCommand())
	rootCmd.AddCommand(refs.NewRefsCommand())
	rootCmd.AddCommand(outline.NewOutlineCommand())
	rootCmd.AddCommand(rules.NewRulesCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}

// setup loads the configuration and returns a context carrying the logger
// and the workspace.
func (f *rootFlags) setup(ctx context.Context, fs afero.Fs) (context.Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Default()
	path := f.config
	if path == "" {
		if found, ok := config.Discover(fs, "."); ok {
			path = found
		}
	}
	if path != "" {
		loaded, err := config.Load(fs, path)
		if err != nil {
			return ctx, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	level := cfg.LogLevel
	if f.logLevel != "" {
		level = f.logLevel
	}

	ctx, err := logging.WithContext(ctx, logging.Options{
		Level: level,
		JSON:  f.logJSON,
		Color: f.color,
	})
	if err != nil {
		return ctx, errors.Errorf("configuring logging: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("config", path).Int("tab_width", cfg.TabWidth).Msg("starting")

	return workspace.WithContext(ctx, workspace.New(fs, cfg)), nil
}
