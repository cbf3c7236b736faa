package content

import "math"

// Sizing maps importance and popularity to a node radius in simulation
// units.
type Sizing struct {
	Base          float64 `json:"base" yaml:"base" toml:"base"`
	PerImportance float64 `json:"per_importance" yaml:"per_importance" toml:"per_importance"`
	PerInbound    float64 `json:"per_inbound" yaml:"per_inbound" toml:"per_inbound"`
	Max           float64 `json:"max" yaml:"max" toml:"max"`
	Author        float64 `json:"author" yaml:"author" toml:"author"`
}

// Unrated articles are sized as this importance.
const defaultImportance = 3

func DefaultSizing() Sizing {
	return Sizing{
		Base:          20,
		PerImportance: 5,
		PerInbound:    2,
		Max:           60,
		Author:        60,
	}
}

func (s Sizing) Radius(importance int, inbound uint) float64 {
	if importance <= 0 {
		importance = defaultImportance
	}
	importance = min(importance, 5)
	r := s.Base + s.PerImportance*float64(importance-1) + s.PerInbound*math.Sqrt(float64(inbound))
	if s.Max > 0 {
		r = math.Min(r, s.Max)
	}
	return r
}

// NodeRadius sizes a node with DefaultSizing.
func NodeRadius(importance int, inbound uint) float64 {
	return DefaultSizing().Radius(importance, inbound)
}
