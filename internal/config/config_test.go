package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/san-kum/graphsim/internal/content"
	"github.com/san-kum/graphsim/internal/dynamo"
)

func TestDefaultScene(t *testing.T) {
	sc := DefaultScene()

	if err := sc.Validate(); err != nil {
		t.Fatalf("default scene invalid: %v", err)
	}
	if sc.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if sc.Forces != dynamo.DefaultForceSettings() {
		t.Error("forces should default to DefaultForceSettings")
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := `
steps: 120
container:
  width: 400
  height: 300
forces:
  repulsion_strength: 900
  enable_category_clustering: true
author:
  name: me
articles:
  - slug: a
    title: A
    category: go
    links: [b]
  - slug: b
    importance: 4
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if sc.Steps != 120 || sc.Container.Width != 400 {
		t.Errorf("scene = %+v", sc)
	}
	if sc.Forces.RepulsionStrength != 900 || !sc.Forces.EnableCategoryClustering {
		t.Errorf("forces = %+v", sc.Forces)
	}
	if sc.Forces.CenterStrength != dynamo.DefaultCenterStrength {
		t.Errorf("unset fields should keep defaults, center = %v", sc.Forces.CenterStrength)
	}
	if sc.Author == nil || sc.Author.Name != "me" {
		t.Errorf("author = %+v", sc.Author)
	}
	if len(sc.Articles) != 2 || sc.Articles[1].Importance != 4 || !slices.Equal(sc.Articles[0].Links, []string{"b"}) {
		t.Errorf("articles = %+v", sc.Articles)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.toml")
	data := `
dt = 0.02
steps = 50

[body]
integrator = "verlet"
linear_damping = 2.0
restitution = 0.5

[forces]
author_fixed_position = true

[[articles]]
slug = "x"
show_on_home = true
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if sc.Dt != 0.02 || sc.Body.Integrator != "verlet" || !sc.Forces.AuthorFixedPosition {
		t.Errorf("scene = %+v", sc)
	}
	if len(sc.Articles) != 1 || !sc.Articles[0].ShowOnHome {
		t.Errorf("articles = %+v", sc.Articles)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scene"+ext)
			sc := DefaultScene()
			sc.Steps = 42
			sc.Author = &content.Author{Name: "me"}
			sc.Articles = []content.Article{{Slug: "a", Links: []string{"b"}}, {Slug: "b", Category: "go"}}

			if err := Save(path, sc); err != nil {
				t.Fatalf("Save() = %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() = %v", err)
			}
			if got.Steps != 42 || got.Author.Name != "me" || len(got.Articles) != 2 || got.Articles[1].Category != "go" {
				t.Errorf("round trip = %+v", got)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scene)
		want   error
	}{
		{"zero dt", func(s *Scene) { s.Dt = 0 }, dynamo.ErrInvalidConfig},
		{"negative steps", func(s *Scene) { s.Steps = -1 }, dynamo.ErrInvalidConfig},
		{"zero scale", func(s *Scene) { s.Viewport.Scale = 0 }, dynamo.ErrInvalidConfig},
		{"empty container", func(s *Scene) { s.Container.Width = 0 }, dynamo.ErrInvalidConfig},
		{"bouncy", func(s *Scene) { s.Body.Restitution = 1.5 }, dynamo.ErrInvalidConfig},
		{"negative force", func(s *Scene) { s.Forces.RepulsionStrength = -1 }, dynamo.ErrInvalidConfig},
		{"integrator", func(s *Scene) { s.Body.Integrator = "rk45" }, dynamo.ErrUnknownIntegrator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := DefaultScene()
			tt.mutate(sc)
			if err := sc.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(bad, []byte("dt: [oops"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	_ = os.WriteFile(invalid, []byte("dt: -1\n"), 0644)
	if _, err := Load(invalid); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("Load(invalid) = %v, want ErrInvalidConfig", err)
	}
}

func TestGetPreset(t *testing.T) {
	s, ok := GetPreset("pinned-author")
	if !ok {
		t.Fatal("expected preset")
	}
	if !s.AuthorFixedPosition {
		t.Error("pinned-author should pin the author")
	}

	s, _ = GetPreset("clustered")
	if !s.EnableCategoryClustering {
		t.Error("clustered should enable clustering")
	}

	if _, ok := GetPreset("nonexistent"); ok {
		t.Error("expected miss for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	want := []string{"clustered", "default", "loose", "pinned-author", "tight"}
	if got := ListPresets(); !slices.Equal(got, want) {
		t.Errorf("ListPresets() = %v, want %v", got, want)
	}
	for _, name := range want {
		s, _ := GetPreset(name)
		if err := s.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := Save(path, DefaultScene()); err != nil {
		t.Fatal(err)
	}

	got := make(chan float64, 16)
	w := NewWatcher(path, func(sc *Scene) {
		select {
		case got <- sc.Forces.RepulsionStrength:
		default:
		}
	}, nil).WithDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	time.Sleep(100 * time.Millisecond)
	sc := DefaultScene()
	sc.Forces.RepulsionStrength = 4321
	if err := Save(path, sc); err != nil {
		t.Fatal(err)
	}

	// A truncating write can surface as more than one reload.
	timeout := time.After(5 * time.Second)
	for reloaded := 0.0; reloaded != 4321; {
		select {
		case reloaded = <-got:
		case <-timeout:
			t.Fatal("watcher did not pick up the edit")
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Watch() = %v, want context.Canceled", err)
	}
}
