package config

import (
	"sort"

	"github.com/san-kum/graphsim/internal/dynamo"
)

var Presets = map[string]func() dynamo.ForceSettings{
	"default": dynamo.DefaultForceSettings,
	"clustered": func() dynamo.ForceSettings {
		s := dynamo.DefaultForceSettings()
		s.EnableCategoryClustering = true
		s.CategoryAttractionStrength = 600
		s.CategoryAttractionRange = 400
		return s
	},
	"loose": func() dynamo.ForceSettings {
		s := dynamo.DefaultForceSettings()
		s.RepulsionStrength = 3000
		s.RepulsionMinDistance = 40
		s.LinkStrength = 0.8
		s.DirectLinkStrength = 1.2
		s.CenterStrength = 0.4
		return s
	},
	"tight": func() dynamo.ForceSettings {
		s := dynamo.DefaultForceSettings()
		s.RepulsionStrength = 800
		s.RepulsionMinDistance = 10
		s.CenterStrength = 1.5
		s.LinkStrength = 3
		s.DirectLinkStrength = 4
		return s
	},
	"pinned-author": func() dynamo.ForceSettings {
		s := dynamo.DefaultForceSettings()
		s.AuthorFixedPosition = true
		return s
	},
}

func GetPreset(name string) (dynamo.ForceSettings, bool) {
	fn, ok := Presets[name]
	if !ok {
		return dynamo.ForceSettings{}, false
	}
	return fn(), true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
