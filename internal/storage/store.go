package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/graphsim/internal/content"
	"github.com/san-kum/graphsim/internal/dynamo"
	"github.com/san-kum/graphsim/internal/graph"
	"github.com/san-kum/graphsim/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile  = "metadata.json"
	energyFile    = "energy.csv"
	positionsFile = "positions.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type NodeRecord struct {
	ID       graph.NodeID `json:"id"`
	Slug     string       `json:"slug,omitempty"`
	Label    string       `json:"label"`
	Kind     string       `json:"kind"`
	Category string       `json:"category,omitempty"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Radius   float64      `json:"radius"`
}

type EdgeRecord struct {
	A    graph.NodeID `json:"a"`
	B    graph.NodeID `json:"b"`
	Kind string       `json:"kind"`
}

type RunMetadata struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Timestamp  time.Time             `json:"timestamp"`
	Seed       int64                 `json:"seed"`
	Dt         float64               `json:"dt"`
	Steps      int                   `json:"steps"`
	Integrator string                `json:"integrator"`
	Preset     string                `json:"preset,omitempty"`
	Settings   dynamo.ForceSettings  `json:"settings"`
	Container  dynamo.ContainerBound `json:"container"`
	Metrics    map[string]float64    `json:"metrics"`
	Nodes      []NodeRecord          `json:"nodes"`
	Edges      []EdgeRecord          `json:"edges"`
}

// Run bundles what a headless layout produced.
type Run struct {
	Name       string
	Seed       int64
	Dt         float64
	Integrator string
	Preset     string
	Settings   dynamo.ForceSettings
	Container  dynamo.ContainerBound
	Result     *sim.Result
	Registry   *graph.Registry
	Index      *content.Index
	Trajectory *Recorder
}

// Metadata captures the final layout from the registry.
func (r Run) Metadata() RunMetadata {
	meta := RunMetadata{
		Name:       r.Name,
		Seed:       r.Seed,
		Dt:         r.Dt,
		Integrator: r.Integrator,
		Preset:     r.Preset,
		Settings:   r.Settings,
		Container:  r.Container,
		Metrics:    map[string]float64{},
	}
	if r.Result != nil {
		meta.Steps = r.Result.StepsTaken
		meta.Metrics = r.Result.Metrics
	}
	if r.Registry != nil {
		for n := range r.Registry.All() {
			rec := NodeRecord{
				ID:       n.ID,
				Label:    graph.Label(n.Content),
				Kind:     graph.ContentKind(n.Content),
				Category: n.Category,
				X:        n.Position.X,
				Y:        n.Position.Y,
				Radius:   n.Radius,
			}
			if r.Index != nil {
				rec.Slug, _ = r.Index.Slug(n.ID)
			}
			meta.Nodes = append(meta.Nodes, rec)
		}
		for e := range r.Registry.Edges() {
			if r.Registry.Has(e.A) && r.Registry.Has(e.B) {
				meta.Edges = append(meta.Edges, EdgeRecord{A: e.A, B: e.B, Kind: e.Kind.String()})
			}
		}
	}
	return meta
}

func newRunID(name string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", name, now.Unix(), uuid.NewString()[:8])
}

func (s *Store) Save(run Run) (string, error) {
	now := time.Now()
	meta := run.Metadata()
	meta.ID = newRunID(run.Name, now)
	meta.Timestamp = now

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSONFile(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	var energy []float64
	if run.Result != nil {
		energy = run.Result.Energy
	}
	if err := writeEnergy(filepath.Join(runDir, energyFile), energy, run.Dt); err != nil {
		return "", err
	}

	var samples []Sample
	if run.Trajectory != nil {
		samples = run.Trajectory.Samples()
	}
	if err := writePositions(filepath.Join(runDir, positionsFile), samples); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeEnergy(path string, energy []float64, dt float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "time", "kinetic_energy"}); err != nil {
		return err
	}
	for i, e := range energy {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(float64(i+1)*dt, 'f', 6, 64),
			strconv.FormatFloat(e, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writePositions(path string, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"step", "time", "id", "x", "y"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Step),
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.FormatUint(uint64(s.ID), 10),
			strconv.FormatFloat(s.Pos.X, 'f', 3, 64),
			strconv.FormatFloat(s.Pos.Y, 'f', 3, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) openCSV(runID, name string) ([][]string, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}
	return records[1:], nil
}

// LoadEnergy returns the kinetic energy trace and its sample times.
func (s *Store) LoadEnergy(runID string) ([]float64, []float64, error) {
	records, err := s.openCSV(runID, energyFile)
	if err != nil {
		return nil, nil, err
	}

	energy := make([]float64, 0, len(records))
	times := make([]float64, 0, len(records))
	for _, rec := range records {
		if len(rec) < 3 {
			continue
		}
		t, err1 := strconv.ParseFloat(rec[1], 64)
		e, err2 := strconv.ParseFloat(rec[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		times = append(times, t)
		energy = append(energy, e)
	}
	return energy, times, nil
}

func (s *Store) LoadPositions(runID string) ([]Sample, error) {
	records, err := s.openCSV(runID, positionsFile)
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, len(records))
	for _, rec := range records {
		if len(rec) < 5 {
			continue
		}
		step, err1 := strconv.Atoi(rec[0])
		t, err2 := strconv.ParseFloat(rec[1], 64)
		id, err3 := strconv.ParseUint(rec[2], 10, 32)
		x, err4 := strconv.ParseFloat(rec[3], 64)
		y, err5 := strconv.ParseFloat(rec[4], 64)
		if err := errors.Join(err1, err2, err3, err4, err5); err != nil {
			continue
		}
		samples = append(samples, Sample{Step: step, Time: t, ID: graph.NodeID(id), Pos: dynamo.V(x, y)})
	}
	return samples, nil
}
