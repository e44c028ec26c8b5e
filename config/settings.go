// Package config loads renderer settings from an optional settings.json
// next to the binary and can watch it for live edits.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Settings struct {
	Window WindowSettings `json:"window"`
	Render RenderSettings `json:"render"`
	Server ServerSettings `json:"server"`
	Waves  []WaveSettings `json:"waves"`
}

type WindowSettings struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
}

type RenderSettings struct {
	SampleCount  int     `json:"sampleCount"`
	Resolution   float64 `json:"resolution"` // render target scale, 0..1
	Filtering    bool    `json:"filtering"`
	R            float64 `json:"r"`
	G            float64 `json:"g"`
	B            float64 `json:"b"`
	ComplexColor bool    `json:"complexColor"`
	Absorption   float64 `json:"absorption"`
	Cutoff       float64 `json:"cutoff"`
	Distance     float64 `json:"distance"`
}

type ServerSettings struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

type WaveSettings struct {
	N           int     `json:"n"`
	L           int     `json:"l"`
	M           int     `json:"m"`
	Amplitude   float64 `json:"amplitude"`
	Phase       float64 `json:"phase"`
	Translation float64 `json:"translation"`
	Group       int     `json:"group"`
}

// Default returns the startup parameter values: two waves, the first a
// visible ground state, the second muted.
func Default() Settings {
	return Settings{
		Window: WindowSettings{
			Width:  1024,
			Height: 768,
			Title:  "Hydrogen Orbitals",
		},
		Render: RenderSettings{
			SampleCount: 40,
			Resolution:  0.5,
			Filtering:   false,
			R:           1.0,
			G:           0.6,
			B:           0.4,
			Absorption:  0.0,
			Cutoff:      0.0,
			Distance:    2.0,
		},
		Server: ServerSettings{
			Enabled: false,
			Addr:    ":8080",
		},
		Waves: []WaveSettings{
			{N: 1, Amplitude: 1.0},
			{N: 1, Amplitude: 0.0},
		},
	}
}

// Load reads settings from path, falling back to defaults when the file
// does not exist. Fields absent from the file keep their default values.
func Load(path string) (Settings, error) {
	s := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&s); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	if len(s.Waves) > 2 {
		s.Waves = s.Waves[:2]
	}
	for len(s.Waves) < 2 {
		s.Waves = append(s.Waves, WaveSettings{N: 1})
	}
	return s, nil
}
