package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codeme/pkg/mcp"
	"github.com/Sumatoshi-tech/codeme/pkg/observability"
)

func (a *app) mcpCommand() *cobra.Command {
	var timezone string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes one tool:
  - codeme_profile: yearly contributor profile of a git repository

Logs are written as JSON to stderr; stdout carries the protocol.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.start(observability.ModeMCP, timezone)
			if err != nil {
				return err
			}
			defer sess.close()

			srv := mcp.NewServer(mcp.ServerDeps{
				Profiler: sess.runner,
				Location: sess.loc,
				Logger:   sess.providers.Logger,
				Metrics:  sess.red,
				Tracer:   sess.providers.Tracer,
				Now:      a.now,
			})

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone for day and hour buckets (default from config)")

	return cmd
}
