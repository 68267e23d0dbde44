// Package commands implements CLI command handlers for codeme.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeme/pkg/config"
	"github.com/Sumatoshi-tech/codeme/pkg/framework"
	"github.com/Sumatoshi-tech/codeme/pkg/gitlib"
	"github.com/Sumatoshi-tech/codeme/pkg/observability"
	"github.com/Sumatoshi-tech/codeme/pkg/version"
)

// app holds the global flags and the injectable dependencies shared by all
// commands.
type app struct {
	configPath string
	verbose    bool
	quiet      bool

	open framework.Opener
	now  func() time.Time

	// jsonErrors is set by commands rendering JSON so failures are
	// reported in the same format.
	jsonErrors bool
}

func newApp(open framework.Opener) *app {
	return &app{open: open, now: time.Now}
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp(gitlib.Opener)

	return a.execute(ctx, args, stdout, stderr)
}

func (a *app) execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		WriteError(stderr, err, a.jsonErrors)

		return 1
	}

	return 0
}

func (a *app) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "codeme",
		Short: "Contributor profiles from git history",
		Long: `codeme turns a developer's commit history into a yearly profile.

Commands:
  profile   Profile one repository
  batch     Profile every repository under a directory
  mcp       Serve profiles to AI agents over MCP
  version   Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ./config.yaml, ./config/config.yaml, ~/.codeme/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(a.profileCommand())
	rootCmd.AddCommand(a.batchCommand())
	rootCmd.AddCommand(a.mcpCommand())
	rootCmd.AddCommand(metricsCommand())
	rootCmd.AddCommand(versionCommand())

	return rootCmd
}

// session is the configured runtime of one command invocation.
type session struct {
	cfg       *config.Config
	loc       *time.Location
	providers observability.Providers
	red       *observability.REDMetrics
	runner    *framework.Runner
}

// start loads configuration, initializes observability and builds the
// pipeline runner. A non-empty timezone overrides the configured one.
func (a *app) start(mode observability.AppMode, timezone string) (*session, error) {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return nil, err
	}

	if timezone != "" {
		cfg.Analysis.Timezone = timezone
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	lexicon, err := cfg.Lexicon()
	if err != nil {
		return nil, err
	}

	providers, err := observability.Init(a.observabilityConfig(cfg, mode))
	if err != nil {
		return nil, err
	}

	sess := &session{cfg: cfg, loc: loc, providers: providers}

	analysisMetrics, err := observability.NewAnalysisMetrics(providers.Meter)
	if err != nil {
		sess.close()

		return nil, err
	}

	sess.red, err = observability.NewREDMetrics(providers.Meter)
	if err != nil {
		sess.close()

		return nil, err
	}

	runner := framework.NewRunner(a.open, framework.Options{
		SampleSize:     cfg.Analysis.SampleFiles,
		Workers:        cfg.Analysis.Workers,
		Parallelism:    cfg.Batch.Parallelism,
		Location:       loc,
		Lexicon:        lexicon,
		Thresholds:     cfg.Thresholds.Thresholds,
		CoreMultiplier: cfg.Thresholds.CoreMultiplier,
		TopKeywords:    cfg.Analysis.TopKeywords,
		TopExtensions:  cfg.Analysis.TopExtensions,
	})
	runner.Logger = providers.Logger
	runner.Tracer = providers.Tracer
	runner.Metrics = analysisMetrics

	sess.runner = runner

	return sess, nil
}

func (a *app) observabilityConfig(cfg *config.Config, mode observability.AppMode) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.MetricsTextfile = cfg.Telemetry.MetricsTextfile
	obsCfg.LogJSON = cfg.LogJSON() || mode == observability.ModeMCP
	obsCfg.LogLevel = a.logLevel(cfg)

	return obsCfg
}

func (a *app) logLevel(cfg *config.Config) slog.Level {
	switch {
	case a.quiet:
		return slog.LevelError
	case a.verbose:
		return slog.LevelDebug
	default:
		return cfg.LogLevel()
	}
}

// close flushes telemetry. Failures are logged, never returned.
func (s *session) close() {
	err := s.providers.Shutdown(context.Background())
	if err != nil {
		s.providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
