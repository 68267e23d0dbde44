package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeme/pkg/observability"
	"github.com/Sumatoshi-tech/codeme/pkg/renderer"
)

func (a *app) profileCommand() *cobra.Command {
	flags := &analysisFlags{}

	cmd := &cobra.Command{
		Use:   "profile [repo]",
		Short: "Profile your commits in one repository",
		Long: `Profile the commits of one author in a git repository.

The author defaults to the repository's configured user.email. The period
defaults to the current calendar year; --since/--until override --year.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProfile(cmd, args, flags)
		},
	}

	flags.register(cmd)

	return cmd
}

func (a *app) runProfile(cmd *cobra.Command, args []string, flags *analysisFlags) error {
	a.jsonErrors = flags.jsonOutput()

	format, err := flags.validate(cmd)
	if err != nil {
		return err
	}

	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	sess, err := a.start(observability.ModeCLI, flags.timezone)
	if err != nil {
		return err
	}
	defer sess.close()

	req, err := flags.request(sess.loc, a.now())
	if err != nil {
		return err
	}

	sess.providers.Logger.Debug("profiling repository", "path", abs, "period", req.Period.Label)

	rep, err := sess.runner.Profile(cmd.Context(), abs, req)
	if err != nil {
		return err
	}

	return flags.write(cmd, func(w io.Writer, opts renderer.Options) error {
		return renderer.Render(w, format, &rep, opts)
	})
}
