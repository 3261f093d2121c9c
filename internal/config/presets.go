package config

import (
	"sort"

	"github.com/san-kum/armsim/internal/control"
	"github.com/san-kum/armsim/internal/kinematics"
)

func preset(target kinematics.Point, steps int, gains control.Gains, mod func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Target = target
	cfg.Steps = steps
	cfg.SetAllGains(gains)
	if mod != nil {
		mod(cfg)
	}
	return cfg
}

var Presets = map[string]*Config{
	"default": preset(kinematics.Point{X: 1.5, Y: 0.5}, 100, control.DefaultGains, nil),
	"stiff":   preset(kinematics.Point{X: 1.5, Y: 0.5}, 100, control.Gains{Kp: 8}, nil),
	"pid": preset(kinematics.Point{X: -0.8, Y: 1.6}, 200, control.Gains{Kp: 2, Ki: 0.5, Kd: 0.02}, func(c *Config) {
		c.IntegralLimit = 2
	}),
	"boundary": preset(kinematics.Point{X: 0, Y: 2.4}, 150, control.Gains{Kp: 3}, nil),
	"settle": preset(kinematics.Point{X: 1.0, Y: -1.2}, 1000, control.Gains{Kp: 4}, func(c *Config) {
		c.Tolerance = 1e-4
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
