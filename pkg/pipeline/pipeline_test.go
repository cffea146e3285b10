package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/railmap/pkg/cache"
	rmerrors "github.com/matzehuels/railmap/pkg/errors"
	"github.com/matzehuels/railmap/pkg/observability"
	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
	"github.com/matzehuels/railmap/pkg/topology"
)

func testTopology() *topology.Topology {
	return &topology.Topology{
		Stations: []topology.Station{
			{ID: "a", Name: "Alpha", Share: 0},
			{ID: "b", Name: "Beta", Share: 1},
			{ID: "c", Name: "Gamma", Share: 2},
		},
		Branches: [][]string{{topology.LineStart, "a", "b", "c", topology.LineEnd}},
	}
}

func testParams() layout.Params {
	p := layout.DefaultParams()
	p.Width, p.Height, p.Padding = 100, 100, 0
	p.Current, p.HasCurrent = 1, true
	return p
}

func testRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(c, nil, log.New(io.Discard))
	t.Cleanup(func() { r.Close() })
	return r
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !rmerrors.Is(err, rmerrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, rmerrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Params: layout.DefaultParams()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if diff := cmp.Diff([]string{FormatSVG}, opts.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if opts.Scale != 2.0 {
		t.Errorf("Scale = %v, want 2", opts.Scale)
	}

	// Second call is a no-op
	opts.Formats = []string{"bogus"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("Second validation should be a no-op: %v", err)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code rmerrors.Code
	}{
		{"zero params", Options{}, rmerrors.ErrCodeInvalidParams},
		{"bad format", Options{Params: layout.DefaultParams(), Formats: []string{"gif"}}, rmerrors.ErrCodeInvalidFormat},
		{"negative scale", Options{Params: layout.DefaultParams(), Scale: -1}, rmerrors.ErrCodeInvalidParams},
		{"nan scale", Options{Params: layout.DefaultParams(), Scale: math.NaN()}, rmerrors.ErrCodeInvalidParams},
		{"infinite scale", Options{Params: layout.DefaultParams(), Scale: math.Inf(1)}, rmerrors.ErrCodeInvalidParams},
		{"bad background", Options{Params: layout.DefaultParams(), Background: "white"}, rmerrors.ErrCodeInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !rmerrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestNeedsConverter(t *testing.T) {
	tests := []struct {
		formats []string
		want    bool
	}{
		{[]string{"svg"}, false},
		{[]string{"svg", "json"}, false},
		{[]string{"png"}, true},
		{[]string{"json", "pdf"}, true},
	}
	for _, tt := range tests {
		opts := Options{Formats: tt.formats}
		if got := opts.NeedsConverter(); got != tt.want {
			t.Errorf("NeedsConverter(%v) = %v, want %v", tt.formats, got, tt.want)
		}
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Names: true, NoStations: true, Background: "#fff", Scale: 3, Runs: true}

	tests := []struct {
		format string
		want   cache.ArtifactKeyOpts
	}{
		{"svg", cache.ArtifactKeyOpts{Format: "svg", Names: true, NoStations: true, Background: "#fff"}},
		{"pdf", cache.ArtifactKeyOpts{Format: "pdf", Names: true, NoStations: true, Background: "#fff"}},
		{"png", cache.ArtifactKeyOpts{Format: "png", Names: true, NoStations: true, Background: "#fff", Scale: 3}},
		{"json", cache.ArtifactKeyOpts{Format: "json", Runs: true}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, opts.ArtifactKeyOpts(tt.format)); diff != "" {
			t.Errorf("ArtifactKeyOpts(%q) mismatch (-want +got):\n%s", tt.format, diff)
		}
	}
}

func TestResolveParams(t *testing.T) {
	width, current := 640.0, 2
	topo := testTopology()
	topo.Render = &topology.RenderConfig{Width: &width, Direction: "left", Current: &current}

	got, err := ResolveParams(topo, layout.DefaultParams())
	if err != nil {
		t.Fatalf("ResolveParams() error: %v", err)
	}
	want := layout.DefaultParams()
	want.Width = 640
	want.Direction = layout.Left
	want.Current, want.HasCurrent = 2, true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveParams() mismatch (-want +got):\n%s", diff)
	}

	topo.Render.Direction = "up"
	if _, err := ResolveParams(topo, layout.DefaultParams()); !rmerrors.Is(err, rmerrors.ErrCodeInvalidDirection) {
		t.Errorf("bad direction error = %v", err)
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	opts := Options{Params: testParams(), Formats: []string{"svg", "json"}}

	res, err := r.Execute(ctx, testTopology(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.CacheInfo.ComposeHit || res.CacheInfo.RenderHit {
		t.Errorf("first run cache info = %+v, want all misses", res.CacheInfo)
	}
	if res.Stats.Stations != 3 || res.Stats.Branches != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if len(res.InputHash) != 64 {
		t.Errorf("InputHash = %q", res.InputHash)
	}
	if !strings.HasPrefix(string(res.Artifacts["svg"]), "<svg") {
		t.Errorf("svg artifact = %.40q", res.Artifacts["svg"])
	}
	var doc map[string]any
	if err := json.Unmarshal(res.Artifacts["json"], &doc); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if _, ok := doc["lines"]; !ok {
		t.Error("json artifact has no lines")
	}

	again, err := r.Execute(ctx, testTopology(), opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !again.CacheInfo.ComposeHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run cache info = %+v, want all hits", again.CacheInfo)
	}
	if diff := cmp.Diff(res.Artifacts, again.Artifacts); diff != "" {
		t.Errorf("cached artifacts differ (-first +second):\n%s", diff)
	}

	opts.Refresh = true
	fresh, err := r.Execute(ctx, testTopology(), opts)
	if err != nil {
		t.Fatalf("refresh Execute() error: %v", err)
	}
	if fresh.CacheInfo.ComposeHit || fresh.CacheInfo.RenderHit {
		t.Errorf("refresh cache info = %+v, want all misses", fresh.CacheInfo)
	}
}

func TestRunnerExecuteChangedInputs(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	opts := Options{Params: testParams()}

	first, err := r.Execute(ctx, testTopology(), opts)
	if err != nil {
		t.Fatal(err)
	}

	opts.Params.Current = 2
	moved, err := r.Execute(ctx, testTopology(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if moved.CacheInfo.RenderHit || moved.InputHash == first.InputHash {
		t.Error("changing the current station should miss the cache")
	}
	if string(moved.Artifacts["svg"]) == string(first.Artifacts["svg"]) {
		t.Error("changing the current station should change the SVG")
	}
}

func TestRunnerExecuteErrors(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)

	broken := testTopology()
	broken.Branches = [][]string{{"a", "nowhere"}}

	tests := []struct {
		name string
		topo *topology.Topology
		opts Options
		code rmerrors.Code
	}{
		{"nil topology", nil, Options{Params: testParams()}, rmerrors.ErrCodeInvalidTopology},
		{"unknown station", broken, Options{Params: testParams()}, rmerrors.ErrCodeInvalidTopology},
		{"bad format", testTopology(), Options{Params: testParams(), Formats: []string{"bmp"}}, rmerrors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tt.topo, tt.opts)
			if !rmerrors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRunnerHooks(t *testing.T) {
	defer observability.Reset()
	stats := observability.NewStats()
	observability.SetPipelineHooks(stats)
	observability.SetCacheHooks(stats)

	ctx := context.Background()
	r := testRunner(t)
	opts := Options{Params: testParams(), Formats: []string{"svg"}}
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(ctx, testTopology(), opts); err != nil {
			t.Fatal(err)
		}
	}

	got := stats.Snapshot()
	if got.Composes != 2 || got.Renders != 1 {
		t.Errorf("composes/renders = %d/%d, want 2/1", got.Composes, got.Renders)
	}
	if got.CacheHits != 1 || got.CacheMisses != 1 || got.CacheBytes == 0 {
		t.Errorf("cache = %d/%d/%d", got.CacheHits, got.CacheMisses, got.CacheBytes)
	}
}

func TestRenderFormatsWithoutCache(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, log.New(io.Discard))
	d, err := r.Compose(ctx, testTopology(), Options{Params: testParams()})
	if err != nil {
		t.Fatal(err)
	}

	out, err := RenderFormats(ctx, d, []string{"svg", "json"}, Options{Names: true, Runs: true})
	if err != nil {
		t.Fatalf("RenderFormats() error: %v", err)
	}
	if !strings.Contains(string(out["svg"]), "Alpha") {
		t.Error("Names option should label stations")
	}
	if !strings.Contains(string(out["json"]), `"branches"`) {
		t.Error("Runs option should include run geometry")
	}

	out, err = RenderFormats(ctx, d, []string{"svg"}, Options{NoStations: true, Background: "#f0f0f0"})
	if err != nil {
		t.Fatalf("RenderFormats() error: %v", err)
	}
	svg := string(out["svg"])
	if strings.Contains(svg, `id="stations"`) {
		t.Error("NoStations option should leave out the station markers")
	}
	if !strings.Contains(svg, `fill="#f0f0f0"`) {
		t.Error("Background option should fill the canvas")
	}

	if _, err := RenderFormats(ctx, d, []string{"tiff"}, Options{}); !rmerrors.Is(err, rmerrors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format error = %v", err)
	}
}
