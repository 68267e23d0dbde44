package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/codeme/pkg/framework"
	"github.com/Sumatoshi-tech/codeme/pkg/mcp"
	"github.com/Sumatoshi-tech/codeme/pkg/observability"
	"github.com/Sumatoshi-tech/codeme/pkg/report"
)

type fakeProfiler struct {
	mu    sync.Mutex
	path  string
	req   framework.Request
	calls int
	err   error
}

func (f *fakeProfiler) Profile(_ context.Context, path string, req framework.Request) (report.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.path = path
	f.req = req

	if f.err != nil {
		return report.Report{}, f.err
	}

	return report.Report{
		User:        "alice@example.com",
		ProjectName: "widgets",
		Period:      req.Period,
		Overview:    report.Overview{Commits: 42},
	}, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func connect(t *testing.T, deps mcp.ServerDeps) *mcpsdk.ClientSession {
	t.Helper()

	if deps.Location == nil {
		deps.Location = time.UTC
	}

	if deps.Now == nil {
		deps.Now = fixedNow
	}

	srv := mcp.NewServer(deps)

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return session
}

func callProfile(t *testing.T, session *mcpsdk.ClientSession, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      mcp.ToolNameProfile,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	return result
}

func textOf(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text
}

func TestMCPServer_InMemoryTransport_ToolsList(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.ServerDeps{Profiler: &fakeProfiler{}})

	toolsResult, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, toolsResult.Tools, 1)

	tool := toolsResult.Tools[0]
	assert.Equal(t, mcp.ToolNameProfile, tool.Name)
	assert.NotEmpty(t, tool.Description)
	assert.NotNil(t, tool.InputSchema)
}

func TestMCPServer_CallProfile(t *testing.T) {
	t.Parallel()

	profiler := &fakeProfiler{}
	session := connect(t, mcp.ServerDeps{Profiler: profiler})

	repo := t.TempDir()

	result := callProfile(t, session, map[string]any{
		"repo_path": repo,
		"year":      2024,
		"author":    "alice",
		"sample":    5,
	})
	require.False(t, result.IsError, textOf(t, result))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &decoded))
	assert.Equal(t, "alice@example.com", decoded["user"])

	profiler.mu.Lock()
	defer profiler.mu.Unlock()

	assert.Equal(t, 1, profiler.calls)
	assert.Equal(t, repo, profiler.path)
	assert.Equal(t, "alice", profiler.req.Author)
	assert.Equal(t, 5, profiler.req.SampleSize)
	assert.Equal(t, "2024", profiler.req.Period.Label)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), profiler.req.Period.Since)
}

func TestMCPServer_CallProfile_DefaultsToCurrentYear(t *testing.T) {
	t.Parallel()

	profiler := &fakeProfiler{}
	session := connect(t, mcp.ServerDeps{Profiler: profiler})

	result := callProfile(t, session, map[string]any{"repo_path": t.TempDir()})
	require.False(t, result.IsError, textOf(t, result))

	profiler.mu.Lock()
	defer profiler.mu.Unlock()

	assert.Equal(t, 2025, profiler.req.Period.Since.Year())
	assert.Empty(t, profiler.req.Author)
}

func TestMCPServer_CallProfile_DateRange(t *testing.T) {
	t.Parallel()

	profiler := &fakeProfiler{}
	session := connect(t, mcp.ServerDeps{Profiler: profiler})

	result := callProfile(t, session, map[string]any{
		"repo_path": t.TempDir(),
		"since":     "2024-03-01",
		"until":     "2024-03-31",
	})
	require.False(t, result.IsError, textOf(t, result))

	profiler.mu.Lock()
	defer profiler.mu.Unlock()

	assert.Equal(t, "2024-03-01 to 2024-03-31", profiler.req.Period.Label)
}

func TestMCPServer_CallProfile_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"empty path", map[string]any{"repo_path": ""}, "repo_path parameter is required"},
		{"relative path", map[string]any{"repo_path": "relative/repo"}, "absolute path"},
		{"missing path", map[string]any{"repo_path": "/definitely/not/here"}, "repository not found"},
		{"negative sample", map[string]any{"repo_path": "/", "sample": -1}, "sample must be positive"},
		{"bad year", map[string]any{"repo_path": "/", "year": 24}, "four digits"},
		{"bad date", map[string]any{"repo_path": "/", "since": "March"}, "YYYY-MM-DD"},
	}

	profiler := &fakeProfiler{}
	session := connect(t, mcp.ServerDeps{Profiler: profiler})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callProfile(t, session, tt.args)

			assert.True(t, result.IsError)
			assert.Contains(t, textOf(t, result), tt.want)
		})
	}

	profiler.mu.Lock()
	defer profiler.mu.Unlock()

	assert.Zero(t, profiler.calls)
}

func TestMCPServer_CallProfile_ProfilerError(t *testing.T) {
	t.Parallel()

	profiler := &fakeProfiler{err: framework.ErrNoData}
	session := connect(t, mcp.ServerDeps{Profiler: profiler})

	result := callProfile(t, session, map[string]any{"repo_path": t.TempDir()})

	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), framework.ErrNoData.Error())
}

func TestMCPServer_CallProfile_NoProfiler(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.ServerDeps{})

	result := callProfile(t, session, map[string]any{"repo_path": t.TempDir()})

	assert.True(t, result.IsError)
	assert.Contains(t, textOf(t, result), mcp.ErrNoProfiler.Error())
}

func TestMCPServer_CallProfile_RecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(provider.Meter("test"))
	require.NoError(t, err)

	session := connect(t, mcp.ServerDeps{
		Profiler: &fakeProfiler{err: errors.New("boom")},
		Metrics:  red,
	})

	result := callProfile(t, session, map[string]any{"repo_path": t.TempDir()})
	require.True(t, result.IsError)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := false

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "codeme.requests.total" {
				found = true
			}
		}
	}

	assert.True(t, found)
}
