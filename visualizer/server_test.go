package visualizer

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/instmix/instmix/ir"
	"github.com/instmix/instmix/logger"
	"github.com/instmix/instmix/profile/instmix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, cacheSize int) (*Server, *httptest.Server) {
	t.Helper()
	model := NewMixModel([]*ir.Module{makeLoopModule(t, "a"), makeBranchModule(t, "b"), makeBrokenModule(t, "x")}, instmix.FailOnEmptyBranch)
	s, err := NewServer(model, cacheSize, "critical")
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_IndexListsAllFunctions(t *testing.T) {
	_, ts := startServer(t, 4)

	code, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "/cfg/loop?module=a")
	assert.Contains(t, body, "/cfg/branch?module=b")
	assert.Contains(t, body, "x/broken")
	assert.Contains(t, body, instmix.ErrNoSuccessors.Error())
}

func TestServer_UnknownPageIsNotFound(t *testing.T) {
	_, ts := startServer(t, 4)

	code, _ := get(t, ts.URL+"/unknown")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServer_MixChartContainsAllCategories(t *testing.T) {
	_, ts := startServer(t, 4)

	code, body := get(t, ts.URL+"/mix")
	assert.Equal(t, http.StatusOK, code)
	for _, c := range instmix.Categories {
		assert.Contains(t, body, c.String())
	}
	assert.Contains(t, body, "a/loop")
	assert.NotContains(t, body, "x/broken")
}

func TestServer_DynOpsChartContainsProfiledFunctions(t *testing.T) {
	_, ts := startServer(t, 4)

	code, body := get(t, ts.URL+"/dynops")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "a/loop")
	assert.Contains(t, body, "b/branch")
	assert.Contains(t, body, "503")
}

func TestServer_GraphIsRenderedAndCached(t *testing.T) {
	s, ts := startServer(t, 4)

	code, body := get(t, ts.URL+"/cfg/loop?module=a")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "digraph")
	assert.Contains(t, body, "Control-Flow Graph of a/loop")
	assert.Equal(t, 1, s.graphs.Len())

	_, second := get(t, ts.URL+"/cfg/loop?module=a")
	assert.Equal(t, body, second)
	assert.Equal(t, 1, s.graphs.Len())
}

func TestServer_GraphCacheIsBounded(t *testing.T) {
	s, ts := startServer(t, 1)

	get(t, ts.URL+"/cfg/loop?module=a")
	get(t, ts.URL+"/cfg/branch?module=b")
	assert.Equal(t, 1, s.graphs.Len())
	if _, found := s.graphs.Get("b/branch"); !found {
		t.Errorf("most recent graph must be cached")
	}
}

func TestServer_UnknownGraphIsNotFound(t *testing.T) {
	_, ts := startServer(t, 4)

	code, _ := get(t, ts.URL+"/cfg/missing")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestNewServer_RejectsInvalidCacheSize(t *testing.T) {
	if _, err := NewServer(&MixModel{}, 0, "critical"); err == nil {
		t.Errorf("cache of size zero must be rejected")
	}
}

func TestServer_GraphFailuresAreLoggedAtConfiguredLevel(t *testing.T) {
	tests := map[string]bool{
		"critical": false,
		"error":    true,
		"debug":    true,
	}
	for level, logged := range tests {
		t.Run(level, func(t *testing.T) {
			fn, profile := ir.NewFunctionBuilder("f").
				Block("entry", "br").
				MustBuild()
			// a successor outside of the function cannot be drawn
			fn.Blocks[0].Successors = append(fn.Blocks[0].Successors, &ir.BasicBlock{Label: "outside"})
			model := &MixModel{Functions: []FunctionView{{Module: "m", Function: fn, Profile: profile}}}

			var buf bytes.Buffer
			logger.SetOutput(&buf)
			defer logger.SetOutput(os.Stdout)

			s, err := NewServer(model, 4, level)
			require.NoError(t, err)
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cfg/f?module=m", nil))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			if got := strings.Contains(buf.String(), "cannot render graph of m/f"); got != logged {
				t.Errorf("unexpected logging at level %v, wanted %v, got %v:\n%v", level, logged, got, buf.String())
			}
		})
	}
}

func TestRenderGraph_AnnotatesBlocksAndEdges(t *testing.T) {
	module := makeLoopModule(t, "a")
	var buf bytes.Buffer
	require.NoError(t, RenderGraph(module.Functions[0], module.Profile(), "dot", &buf))

	out := buf.String()
	for _, want := range []string{"entry", "body", "exit", "freq: 100", "0.99", "0.01", "red", "gray"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in rendered graph:\n%v", want, out)
		}
	}
}

func TestRenderGraph_MarksUnknownFrequencies(t *testing.T) {
	fn, profile := ir.NewFunctionBuilder("f").
		Block("entry", "br").
		Block("exit", "ret").
		Succ("entry", "exit").
		MustBuild()
	var buf bytes.Buffer
	require.NoError(t, RenderGraph(fn, profile, "dot", &buf))
	assert.Contains(t, buf.String(), "freq: unknown")
}

func TestRenderGraph_RejectsUnknownFormat(t *testing.T) {
	module := makeLoopModule(t, "a")
	if err := RenderGraph(module.Functions[0], module.Profile(), "gif", io.Discard); err == nil {
		t.Errorf("unknown format must be rejected")
	}
}

func TestRenderDotGraph_EscapesTemplateLiteral(t *testing.T) {
	fn, profile := ir.NewFunctionBuilder("f").
		Block("a`${x}`</script>", "ret").
		Count("a`${x}`</script>", 1).
		MustBuild()
	page, err := renderDotGraph("f", fn, profile)
	require.NoError(t, err)

	assert.Contains(t, page, "a\\`\\${x}\\`<\\/script>")
	assert.Contains(t, page, `\\nfreq: 1`)
	if got := strings.Count(page, "`") - strings.Count(page, "\\`"); got != 2 {
		t.Errorf("template literal must only be delimited by two backticks, got %d", got)
	}
	if got := strings.Count(page, "</script>"); got != 2 {
		t.Errorf("unexpected number of closing script tags, wanted 2, got %d", got)
	}
}

func TestEdgeColor(t *testing.T) {
	tests := []struct {
		p     float64
		color string
	}{
		{0, "gray"},
		{0.2, "gray"},
		{0.3, "green"},
		{0.5, "black"},
		{0.8, "indianred"},
		{1, "red"},
	}
	for _, test := range tests {
		if got := edgeColor(test.p); got != test.color {
			t.Errorf("unexpected color for %v, wanted %v, got %v", test.p, test.color, got)
		}
	}
}
