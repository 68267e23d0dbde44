package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/commitlog"
	"github.com/Sumatoshi-tech/codeme/pkg/analyzers/stats"
	"github.com/Sumatoshi-tech/codeme/pkg/framework"
)

const testConfig = `analysis:
  timezone: UTC
  sample_files: 5
logging:
  level: error
`

type fakeSource struct {
	identity string
	name     string
	log      string
	stat     string
	project  stats.ProjectStats
}

func (f *fakeSource) Identity(context.Context) (string, error) {
	if f.identity == "" {
		return "", framework.ErrNoIdentity
	}

	return f.identity, nil
}

func (f *fakeSource) ProjectName(context.Context) string { return f.name }

func (f *fakeSource) RawLog(context.Context, string, framework.Period) (string, error) {
	return f.log, nil
}

func (f *fakeSource) RawDiffStat(context.Context, string, framework.Period) (string, error) {
	return f.stat, nil
}

func (f *fakeSource) BaselineProjectStats(context.Context, framework.Period) (stats.ProjectStats, error) {
	return f.project, nil
}

func (f *fakeSource) BlameAuthors(context.Context, string) (string, error) {
	return "Alice <alice@example.com>\nBob <bob@example.com>\n", nil
}

func (f *fakeSource) DistinctAuthorCount(context.Context, string) (int, error) { return 2, nil }

func (f *fakeSource) Close() {}

func repoOf(name string) *fakeSource {
	return &fakeSource{
		identity: "alice@example.com",
		name:     name,
		log: strings.Join([]string{
			"a1b2c3d|2024-03-01T10:00:00Z|feat: add parser",
			"b2c3d4e|2024-03-02T23:30:00Z|fix: broken build",
		}, "\n"),
		stat: commitlog.BlockSeparator + "a1b2c3d\n10\t2\tsrc/parser.go\n" +
			commitlog.BlockSeparator + "b2c3d4e\n3\t1\tsrc/parser.go\n",
		project: stats.NewProjectStats(10, 3),
	}
}

func openerOf(sources map[string]*fakeSource) framework.Opener {
	return func(path string) (framework.Source, error) {
		src, ok := sources[path]
		if !ok {
			return nil, framework.ErrRepoNotFound
		}

		return src, nil
	}
}

// testApp returns an app over the given sources and the path of a config
// file pinning the timezone.
func testApp(t *testing.T, sources map[string]*fakeSource) (*app, string) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0o600))

	a := newApp(openerOf(sources))
	a.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	return a, cfgPath
}

func run(a *app, args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer

	code = a.execute(context.Background(), args, &out, &errOut)

	return code, out.String(), errOut.String()
}
