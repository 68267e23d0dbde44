package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/codeme/pkg/framework"
	"github.com/Sumatoshi-tech/codeme/pkg/report"
)

// ToolNameProfile is the profile tool name.
const ToolNameProfile = "codeme_profile"

// Sentinel errors for tool input validation.
var (
	// ErrEmptyRepoPath indicates the repo_path parameter is empty.
	ErrEmptyRepoPath = errors.New("repo_path parameter is required and must not be empty")
	// ErrRepoPathNotAbsolute indicates the repo_path is not an absolute path.
	ErrRepoPathNotAbsolute = errors.New("repo_path must be an absolute path")
	// ErrInvalidSample indicates a negative sample size.
	ErrInvalidSample = errors.New("sample must be positive")
	// ErrNoProfiler indicates the server was built without a profiler.
	ErrNoProfiler = errors.New("profiler is not configured")
)

// ProfileInput is the input schema for the codeme_profile tool.
type ProfileInput struct {
	RepoPath string `json:"repo_path"        jsonschema:"absolute path to a Git repository"`
	Year     int    `json:"year,omitempty"   jsonschema:"calendar year to analyze (default: current year)"`
	Since    string `json:"since,omitempty"  jsonschema:"start date YYYY-MM-DD, overrides year"`
	Until    string `json:"until,omitempty"  jsonschema:"end date YYYY-MM-DD inclusive, overrides year"`
	Author   string `json:"author,omitempty" jsonschema:"author pattern (default: the repository's configured user)"`
	Sample   int    `json:"sample,omitempty" jsonschema:"number of top files sampled for collaboration scores"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// handleProfile processes codeme_profile tool calls.
func (s *Server) handleProfile(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input ProfileInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if s.profiler == nil {
		return errorResult(ErrNoProfiler)
	}

	err := validateProfileInput(input)
	if err != nil {
		return errorResult(err)
	}

	period, err := report.ResolvePeriod(input.Year, input.Since, input.Until, s.location, s.now())
	if err != nil {
		return errorResult(err)
	}

	rep, err := s.profiler.Profile(ctx, input.RepoPath, framework.Request{
		Author:     input.Author,
		Period:     period,
		SampleSize: input.Sample,
	})
	if err != nil {
		return errorResult(fmt.Errorf("profile %s: %w", input.RepoPath, err))
	}

	return jsonResult(rep)
}

func validateProfileInput(input ProfileInput) error {
	if input.RepoPath == "" {
		return ErrEmptyRepoPath
	}

	if !filepath.IsAbs(input.RepoPath) {
		return fmt.Errorf("%w: %s", ErrRepoPathNotAbsolute, input.RepoPath)
	}

	if _, err := os.Stat(input.RepoPath); err != nil {
		return fmt.Errorf("%w: %s", framework.ErrRepoNotFound, input.RepoPath)
	}

	if input.Sample < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSample, input.Sample)
	}

	return nil
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
