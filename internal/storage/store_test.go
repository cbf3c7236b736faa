package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/graphsim/internal/content"
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/graph"
	"github.com/san-kum/graphsim/internal/sim"
)

func testRun(t *testing.T) Run {
	t.Helper()
	articles := []content.Article{
		{Slug: "a", Title: "A", Links: []string{"b"}},
		{Slug: "b", Title: "B", Category: "go"},
	}
	bound := dynamo.NewContainerBound(0, 0, 400, 300)
	reg, ix, err := content.Build(articles, &content.Author{Name: "me"}, bound, content.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	rec := NewRecorder(2, dynamo.DefaultViewport())
	for step := 1; step <= 4; step++ {
		rec.OnStep(&sim.Frame{
			Step: step,
			Time: float64(step) * 0.1,
			Bodies: []sim.BodyState{
				{ID: 1, Pos: dynamo.V(1, 2)},
				{ID: 2, Pos: dynamo.V(3, 4)},
			},
		})
	}

	return Run{
		Name:       "test",
		Seed:       42,
		Dt:         0.1,
		Integrator: "euler",
		Settings:   dynamo.DefaultForceSettings(),
		Container:  bound,
		Result: &sim.Result{
			StepsTaken: 3,
			Energy:     []float64{3, 2, 1},
			Metrics:    map[string]float64{"energy": 2},
		},
		Registry:   reg,
		Index:      ix,
		Trajectory: rec,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testRun(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "test_") {
		t.Errorf("run id = %q, want test_ prefix", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 || meta.Steps != 3 || meta.Metrics["energy"] != 2 {
		t.Errorf("metadata = %+v", meta)
	}
	if len(meta.Nodes) != 3 || len(meta.Edges) != 1 {
		t.Errorf("nodes = %d, edges = %d", len(meta.Nodes), len(meta.Edges))
	}
	if meta.Nodes[1].Slug != "a" || meta.Nodes[0].Kind != "author" {
		t.Errorf("nodes = %+v", meta.Nodes)
	}

	energy, times, err := st.LoadEnergy(runID)
	if err != nil {
		t.Fatalf("load energy failed: %v", err)
	}
	if len(energy) != 3 || energy[2] != 1 || times[0] != 0.1 {
		t.Errorf("energy = %v, times = %v", energy, times)
	}

	samples, err := st.LoadPositions(runID)
	if err != nil {
		t.Fatalf("load positions failed: %v", err)
	}
	if len(samples) != 4 || samples[0].Step != 2 || samples[3].Pos != dynamo.V(3, 4) {
		t.Errorf("samples = %+v", samples)
	}
}

func TestStoreRunIDsAreUnique(t *testing.T) {
	st := New(t.TempDir())
	run := testRun(t)

	a, err := st.Save(run)
	if err != nil {
		t.Fatal(err)
	}
	b, err := st.Save(run)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("run ids collide: %s", a)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(testRun(t)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(st.baseDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runID, err := st.Save(testRun(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, energyFile, positionsFile} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load() = %v, want ErrRunNotFound", err)
	}
	if _, _, err := st.LoadEnergy("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadEnergy() = %v, want ErrRunNotFound", err)
	}
}

func TestRecorderSkipsFrames(t *testing.T) {
	vp := dynamo.Viewport{Offset: dynamo.V(10, 0), Scale: 2}
	rec := NewRecorder(0, vp)
	rec.OnStep(&sim.Frame{Step: 1, Bodies: []sim.BodyState{{ID: graph.NodeID(7), Pos: dynamo.V(1, 1)}}})

	got := rec.Samples()
	if len(got) != 1 || got[0].Pos != dynamo.V(12, 2) {
		t.Errorf("Samples() = %+v", got)
	}
}

func TestExportJSON(t *testing.T) {
	run := testRun(t)
	var buf bytes.Buffer
	if err := ExportJSON(&buf, run.Metadata(), run.Result.Energy); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["name"] != "test" {
		t.Errorf("name = %v", decoded["name"])
	}
	if e, ok := decoded["energy"].([]any); !ok || len(e) != 3 {
		t.Errorf("energy = %v", decoded["energy"])
	}
}
