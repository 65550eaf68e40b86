// Package cmd implements the command-line interface for philosophy.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/philosophy/cmd/common"
	"github.com/jonesrussell/philosophy/internal/config"
	"github.com/jonesrussell/philosophy/internal/game"
	"github.com/jonesrussell/philosophy/internal/logger"
	"github.com/jonesrussell/philosophy/internal/output"
)

// version is set at build time with -ldflags "-X .../cmd.version=...".
var version = "dev"

// rootOptions holds flags that are not configuration keys.
type rootOptions struct {
	cfgFile string
	debug   bool
	table   bool
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	// .env is optional; the environment may already carry everything.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode := 0
	rootCmd := NewRootCommand(viper.New(), &exitCode)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.PrintErrorf("Error: %v", err)
		return game.ExitAborted
	}
	return exitCode
}

// NewRootCommand builds the root command. Configuration is read into v and
// the outcome's exit code is stored in exitCode.
func NewRootCommand(v *viper.Viper, exitCode *int) *cobra.Command {
	opts := &rootOptions{}
	var deps common.CommandDeps

	rootCmd := &cobra.Command{
		Use:   "philosophy [flags] <article>",
		Short: "Play Getting to Philosophy on Wikipedia",
		Long: `Starting from an article, follow the first link of the article body that is not
in parentheses, italics or a table, until the target article is reached.

An article can be given as a title ("Ferrari"), a path ("/wiki/Ferrari") or a
full address ("https://en.wikipedia.org/wiki/Ferrari").`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			deps, err = initDeps(cmd, v, opts)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := run(cmd, deps, opts, args[0])
			if err != nil {
				return err
			}
			*exitCode = outcome.ExitCode()
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.StringP("target", "t", config.DefaultTarget, "article to reach")
	flags.IntP("max-hops", "m", config.DefaultMaxHops, "give up after this many hops")
	flags.String("cache-dir", "", "keep fetched articles in this directory across runs")
	flags.BoolVar(&opts.table, "table", false, "print the path as a table when the game ends")
	rootCmd.PersistentFlags().StringVar(
		&opts.cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	return rootCmd
}

// initDeps reads configuration from defaults, the environment, the config
// file and flags, then creates the logger.
func initDeps(cmd *cobra.Command, v *viper.Viper, opts *rootOptions) (common.CommandDeps, error) {
	config.SetDefaults(v)

	if err := config.BindEnv(v); err != nil {
		return common.CommandDeps{}, err
	}
	if err := bindCommandLineFlags(cmd, v); err != nil {
		return common.CommandDeps{}, err
	}

	config.ApplyDevelopment(v, opts.debug)

	cfg, err := config.Load(v, opts.cfgFile)
	if err != nil {
		return common.CommandDeps{}, fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return common.NewCommandDeps(cfg)
}

// bindCommandLineFlags binds command-line flags to Viper.
func bindCommandLineFlags(cmd *cobra.Command, v *viper.Viper) error {
	bindings := map[string]string{
		"game.target":   "target",
		"game.max_hops": "max-hops",
		"cache.dir":     "cache-dir",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind %s flag: %w", name, err)
		}
	}
	return nil
}

// run plays one game from startRef and prints its progress and summary.
func run(cmd *cobra.Command, deps common.CommandDeps, opts *rootOptions, startRef string) (game.Outcome, error) {
	ctx := cmd.Context()
	cfg := deps.Config
	log := deps.Logger.WithRunID(uuid.NewString())
	defer syncLogger(log)

	st, err := common.CreateStore(ctx, common.CommandDeps{Logger: log, Config: cfg})
	if err != nil {
		return 0, err
	}

	startKey, err := st.Resolve(startRef)
	if err != nil {
		return 0, fmt.Errorf("start article: %w", err)
	}

	printer := output.NewPrinter(cmd.OutOrStdout())
	var hops []game.Hop

	log.Info("Starting game",
		"start", startKey.String(),
		"target", cfg.GetGameConfig().Target,
		"max_hops", cfg.GetGameConfig().MaxHops,
	)
	started := time.Now()

	g, err := game.New(ctx, st, cfg.GetGameConfig().Target, cfg.GetGameConfig().MaxHops,
		game.WithLogger(log),
		game.WithHopObserver(func(h game.Hop) {
			hops = append(hops, h)
			printer.Hop(h)
		}),
	)
	if err != nil {
		return 0, err
	}

	outcome, err := g.Play(ctx, startRef)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("Game interrupted", "hops", len(hops))
		}
		return 0, err
	}

	printer.Summary(outcome, len(g.Hops()))
	if opts.table {
		output.NewTableRenderer(st.Site(), cmd.OutOrStdout()).RenderPath(startKey, hops)
	}

	log.WithDuration(time.Since(started)).Info("Game finished",
		"outcome", outcome.String(),
		"hops", len(g.Hops()),
		"fetches", st.Fetches(),
	)
	return outcome, nil
}

func syncLogger(log logger.Interface) {
	if s, ok := log.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}
