package dynamo

import "fmt"

// ForceSettings parameterizes every force generator. The stepper reads it at
// the start of each tick, so a replacement is effective from the next step.
type ForceSettings struct {
	RepulsionStrength    float64 `json:"repulsion_strength" yaml:"repulsion_strength" toml:"repulsion_strength"`
	RepulsionMinDistance float64 `json:"repulsion_min_distance" yaml:"repulsion_min_distance" toml:"repulsion_min_distance"`

	CenterStrength float64 `json:"center_strength" yaml:"center_strength" toml:"center_strength"`
	CenterDamping  float64 `json:"center_damping" yaml:"center_damping" toml:"center_damping"`

	// Spring stiffness per edge kind. Edges touching the author always use
	// AuthorLinkStrength.
	LinkStrength       float64 `json:"link_strength" yaml:"link_strength" toml:"link_strength"`
	DirectLinkStrength float64 `json:"direct_link_strength" yaml:"direct_link_strength" toml:"direct_link_strength"`
	AuthorLinkStrength float64 `json:"author_link_strength" yaml:"author_link_strength" toml:"author_link_strength"`
	LinkDamping        float64 `json:"link_damping" yaml:"link_damping" toml:"link_damping"`

	EnableAuthorAttraction   bool    `json:"enable_author_attraction" yaml:"enable_author_attraction" toml:"enable_author_attraction"`
	AuthorAttractionStrength float64 `json:"author_attraction_strength" yaml:"author_attraction_strength" toml:"author_attraction_strength"`
	AuthorAttractionDamping  float64 `json:"author_attraction_damping" yaml:"author_attraction_damping" toml:"author_attraction_damping"`

	EnableCategoryClustering   bool    `json:"enable_category_clustering" yaml:"enable_category_clustering" toml:"enable_category_clustering"`
	CategoryAttractionStrength float64 `json:"category_attraction_strength" yaml:"category_attraction_strength" toml:"category_attraction_strength"`
	CategoryAttractionRange    float64 `json:"category_attraction_range" yaml:"category_attraction_range" toml:"category_attraction_range"`

	AuthorFixedPosition bool `json:"author_fixed_position" yaml:"author_fixed_position" toml:"author_fixed_position"`
	DebugMode           bool `json:"debug_mode" yaml:"debug_mode" toml:"debug_mode"`
	ShowConnectionLines bool `json:"show_connection_lines" yaml:"show_connection_lines" toml:"show_connection_lines"`
}

const (
	DefaultRepulsionStrength    = 1500.0
	DefaultRepulsionMinDistance = 20.0
	DefaultCenterStrength       = 0.8
	DefaultCenterDamping        = 0.5
	DefaultLinkStrength         = 1.5
	DefaultDirectLinkStrength   = 2.5
	DefaultAuthorLinkStrength   = 0.8
	DefaultLinkDamping          = 1.0
	DefaultAuthorAttraction     = 2000.0
	DefaultAuthorDamping        = 0.2
	DefaultCategoryAttraction   = 300.0
	DefaultCategoryRange        = 300.0
)

func DefaultForceSettings() ForceSettings {
	return ForceSettings{
		RepulsionStrength:          DefaultRepulsionStrength,
		RepulsionMinDistance:       DefaultRepulsionMinDistance,
		CenterStrength:             DefaultCenterStrength,
		CenterDamping:              DefaultCenterDamping,
		LinkStrength:               DefaultLinkStrength,
		DirectLinkStrength:         DefaultDirectLinkStrength,
		AuthorLinkStrength:         DefaultAuthorLinkStrength,
		LinkDamping:                DefaultLinkDamping,
		EnableAuthorAttraction:     true,
		AuthorAttractionStrength:   DefaultAuthorAttraction,
		AuthorAttractionDamping:    DefaultAuthorDamping,
		EnableCategoryClustering:   false,
		CategoryAttractionStrength: DefaultCategoryAttraction,
		CategoryAttractionRange:    DefaultCategoryRange,
		ShowConnectionLines:        true,
	}
}

// LinksEqual reports whether two settings build identical spring joints.
func (s ForceSettings) LinksEqual(o ForceSettings) bool {
	return s.LinkStrength == o.LinkStrength &&
		s.DirectLinkStrength == o.DirectLinkStrength &&
		s.AuthorLinkStrength == o.AuthorLinkStrength &&
		s.LinkDamping == o.LinkDamping
}

// fields maps the numeric parameter names to their storage.
func (s *ForceSettings) fields() []struct {
	name string
	ptr  *float64
} {
	return []struct {
		name string
		ptr  *float64
	}{
		{"repulsion_strength", &s.RepulsionStrength},
		{"repulsion_min_distance", &s.RepulsionMinDistance},
		{"center_strength", &s.CenterStrength},
		{"center_damping", &s.CenterDamping},
		{"link_strength", &s.LinkStrength},
		{"direct_link_strength", &s.DirectLinkStrength},
		{"author_link_strength", &s.AuthorLinkStrength},
		{"link_damping", &s.LinkDamping},
		{"author_attraction_strength", &s.AuthorAttractionStrength},
		{"author_attraction_damping", &s.AuthorAttractionDamping},
		{"category_attraction_strength", &s.CategoryAttractionStrength},
		{"category_attraction_range", &s.CategoryAttractionRange},
	}
}

// GetParams returns every numeric parameter by its config name.
func (s ForceSettings) GetParams() map[string]float64 {
	params := make(map[string]float64)
	for _, f := range s.fields() {
		params[f.name] = *f.ptr
	}
	return params
}

func (s *ForceSettings) SetParam(name string, value float64) error {
	for _, f := range s.fields() {
		if f.name == name {
			*f.ptr = value
			return nil
		}
	}
	return fmt.Errorf("%w: unknown force parameter %q", ErrInvalidConfig, name)
}

// Validate is for configuration loaders. The engine itself never calls it;
// out-of-range values only degrade the layout.
func (s ForceSettings) Validate() error {
	for _, f := range s.fields() {
		if *f.ptr < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %g", ErrInvalidConfig, f.name, *f.ptr)
		}
	}
	return nil
}
