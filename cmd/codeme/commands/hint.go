package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/commitlog"
	"github.com/Sumatoshi-tech/codeme/pkg/config"
	"github.com/Sumatoshi-tech/codeme/pkg/framework"
	"github.com/Sumatoshi-tech/codeme/pkg/gitlib"
	"github.com/Sumatoshi-tech/codeme/pkg/renderer"
	"github.com/Sumatoshi-tech/codeme/pkg/report"
	"github.com/Sumatoshi-tech/codeme/pkg/scanner"
)

// Error codes reported to users.
const (
	CodeRepoNotFound     = "REPO_NOT_FOUND"
	CodeNotGitRepo       = "NOT_GIT_REPO"
	CodeNoGitUser        = "NO_GIT_USER"
	CodeNoData           = "NO_DATA"
	CodeInvalidYear      = "INVALID_YEAR"
	CodeInvalidDate      = "INVALID_DATE"
	CodeInvalidSample    = "INVALID_SAMPLE"
	CodeInvalidFormat    = "INVALID_FORMAT"
	CodeInvalidConfig    = "INVALID_CONFIG"
	CodeGitCommandFailed = "GIT_COMMAND_FAILED"
	CodeUnknown          = "UNKNOWN_ERROR"
)

// ErrorReport is the user-facing description of a failure.
type ErrorReport struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	Suggestion string `json:"suggestion,omitempty"`
}

type hintRule struct {
	target     error
	code       string
	suggestion string
}

var hintRules = []hintRule{
	{framework.ErrRepoNotFound, CodeRepoNotFound, "Check the repository path."},
	{scanner.ErrNotDirectory, CodeRepoNotFound, "Pass a directory to scan."},
	{gitlib.ErrNotRepository, CodeNotGitRepo, "Run codeme inside a git repository or pass its path."},
	{framework.ErrNoIdentity, CodeNoGitUser, "Set git config user.email or pass --author."},
	{framework.ErrNoData, CodeNoData, "Try another --year, a wider --since/--until range or a different --author."},
	{ErrNoRepositories, CodeNoData, "Check the root directory or raise batch.scan_depth."},
	{report.ErrInvalidYear, CodeInvalidYear, "Use a four digit year, e.g. --year 2024."},
	{report.ErrInvalidDate, CodeInvalidDate, "Use YYYY-MM-DD dates."},
	{report.ErrInvertedRange, CodeInvalidDate, "--since must not be after --until."},
	{ErrInvalidSample, CodeInvalidSample, "Use a positive --sample, e.g. --sample 10."},
	{renderer.ErrUnknownFormat, CodeInvalidFormat, "Use one of: text, json, yaml, plot."},
	{config.ErrInvalidTimezone, CodeInvalidConfig, "Use an IANA timezone such as Europe/Berlin or Local."},
	{config.ErrInvalidSampleFiles, CodeInvalidConfig, "Set analysis.sample_files to a positive number."},
	{config.ErrInvalidWorkers, CodeInvalidConfig, "Set analysis.workers to a positive number."},
	{config.ErrInvalidParallelism, CodeInvalidConfig, "Set batch.parallelism to a positive number."},
	{config.ErrInvalidScanDepth, CodeInvalidConfig, "Set batch.scan_depth to zero or more."},
	{config.ErrInvalidLogFormat, CodeInvalidConfig, "Set logging.format to text or json."},
	{config.ErrInvalidMultiplier, CodeInvalidConfig, "Set thresholds.core_multiplier to a positive number."},
	{config.ErrInvalidPattern, CodeInvalidConfig, "Fix the regular expressions under the sentiment section."},
	{commitlog.ErrMalformedTimestamp, CodeGitCommandFailed, "The git log output could not be parsed."},
}

// Hint maps err to a user-facing code and suggestion.
func Hint(err error) ErrorReport {
	out := ErrorReport{Error: err.Error(), Code: CodeUnknown}

	for _, rule := range hintRules {
		if errors.Is(err, rule.target) {
			out.Code = rule.code
			out.Suggestion = rule.suggestion

			return out
		}
	}

	var gitErr *git2go.GitError
	if errors.As(err, &gitErr) {
		out.Code = CodeGitCommandFailed
		out.Suggestion = "Check that git can read the repository."
	}

	return out
}

// WriteError prints err with its hint, as a JSON object when asJSON is set.
func WriteError(w io.Writer, err error, asJSON bool) {
	rep := Hint(err)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if encErr := enc.Encode(rep); encErr == nil {
			return
		}
	}

	fmt.Fprintf(w, "Error: %s\n", rep.Error)

	if rep.Suggestion != "" {
		fmt.Fprintf(w, "Hint: %s\n", rep.Suggestion)
	}
}
