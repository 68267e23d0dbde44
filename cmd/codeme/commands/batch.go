package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeme/pkg/observability"
	"github.com/Sumatoshi-tech/codeme/pkg/renderer"
	"github.com/Sumatoshi-tech/codeme/pkg/scanner"
)

// ErrNoRepositories is returned when a batch run finds nothing to analyze.
var ErrNoRepositories = errors.New("no git repositories found")

func (a *app) batchCommand() *cobra.Command {
	flags := &analysisFlags{}

	var repos []string

	cmd := &cobra.Command{
		Use:   "batch [root]",
		Short: "Profile your commits across many repositories",
		Long: `Profile one author across every repository under a directory.

Repositories are discovered below root (default: current directory) up to
batch.scan_depth levels, skipping batch.skip_dirs. --repos lists them
explicitly instead. Repositories that fail are reported and skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd, args, repos, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVar(&repos, "repos", nil, "Explicit repository paths (comma separated), disables scanning")

	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, args, repos []string, flags *analysisFlags) error {
	a.jsonErrors = flags.jsonOutput()

	format, err := flags.validate(cmd)
	if err != nil {
		return err
	}

	sess, err := a.start(observability.ModeCLI, flags.timezone)
	if err != nil {
		return err
	}
	defer sess.close()

	paths, err := a.batchPaths(cmd, args, repos, sess)
	if err != nil {
		return err
	}

	req, err := flags.request(sess.loc, a.now())
	if err != nil {
		return err
	}

	sess.providers.Logger.Info("profiling repositories", "count", len(paths), "period", req.Period.Label)

	rep, err := sess.runner.Batch(cmd.Context(), paths, req)
	if err != nil {
		return err
	}

	return flags.write(cmd, func(w io.Writer, opts renderer.Options) error {
		return renderer.RenderMulti(w, format, &rep, opts)
	})
}

// batchPaths returns the explicit --repos list made absolute, or the
// repositories discovered below the root argument.
func (a *app) batchPaths(cmd *cobra.Command, args, repos []string, sess *session) ([]string, error) {
	if len(repos) > 0 {
		paths := make([]string, 0, len(repos))

		for _, repo := range repos {
			abs, err := filepath.Abs(repo)
			if err != nil {
				return nil, fmt.Errorf("resolve %s: %w", repo, err)
			}

			paths = append(paths, abs)
		}

		return paths, nil
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	sc := scanner.New(sess.cfg.Batch.ScanDepth, sess.cfg.Batch.SkipDirs)
	sc.Logger = sess.providers.Logger

	paths, err := sc.Scan(cmd.Context(), root)
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoRepositories, root)
	}

	return paths, nil
}
