package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/armsim/internal/control"
	"github.com/san-kum/armsim/internal/kinematics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Links != kinematics.DefaultLinks {
		t.Errorf("expected default links, got %+v", cfg.Links)
	}
	if cfg.Steps != 100 {
		t.Errorf("expected 100 steps, got %d", cfg.Steps)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestJointGainsDefault(t *testing.T) {
	cfg := DefaultConfig()
	gains := cfg.JointGains()

	if len(gains) != 3 {
		t.Fatalf("expected 3 gain sets, got %d", len(gains))
	}
	for i, g := range gains {
		if g != (control.Gains{Kp: 1}) {
			t.Errorf("joint %d: expected (1, 0, 0), got %+v", i, g)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.yaml")
	data := `
links: {l1: 2, l2: 1, l3: 0.5}
target: {x: 1.0, y: 2.0}
steps: 250
gains:
  - {kp: 2, ki: 0.1, kd: 0.01}
  - {kp: 3}
  - {kp: 4}
integral_limit: 5
logger:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Links != (kinematics.Links{L1: 2, L2: 1, L3: 0.5}) {
		t.Errorf("unexpected links %+v", cfg.Links)
	}
	if cfg.Target != (kinematics.Point{X: 1, Y: 2}) {
		t.Errorf("unexpected target %+v", cfg.Target)
	}
	if cfg.Steps != 250 {
		t.Errorf("expected 250 steps, got %d", cfg.Steps)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("expected default dt to survive, got %f", cfg.Dt)
	}
	if g := cfg.JointGains()[0]; g != (control.Gains{Kp: 2, Ki: 0.1, Kd: 0.01}) {
		t.Errorf("unexpected joint 0 gains %+v", g)
	}
	if cfg.IntegralLimit != 5 {
		t.Errorf("expected integral limit 5, got %f", cfg.IntegralLimit)
	}
	if cfg.Logger.Level != "debug" || cfg.Logger.ServiceName != "armsim" {
		t.Errorf("unexpected logger config %+v", cfg.Logger)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"zero dt", "dt: 0"},
		{"negative link", "links: {l1: -1, l2: 1, l3: 1}"},
		{"two gain sets", "gains: [{kp: 1}, {kp: 2}]"},
		{"short init angles", "init_angles: [0.1]"},
		{"negative steps", "steps: -5"},
		{"nan target", "target: {x: .nan, y: 0.5}"},
		{"infinite target", "target: {x: 1, y: -.inf}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("pid")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Target != cfg.Target || loaded.IntegralLimit != cfg.IntegralLimit {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
	if loaded.JointGains()[2] != cfg.JointGains()[2] {
		t.Errorf("gains mismatch after round trip")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("stiff")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.JointGains()[0].Kp != 8 {
		t.Errorf("expected kp 8, got %f", cfg.JointGains()[0].Kp)
	}

	cfg.Gains[0].Kp = 100
	if GetPreset("stiff").JointGains()[0].Kp != 8 {
		t.Error("GetPreset returned shared state")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsAreValid(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestInitialAngles(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.InitialAngles() != (kinematics.Angles{}) {
		t.Error("expected zero initial pose")
	}
	cfg.InitAngles = []float64{0.1, 0.2, 0.3}
	if cfg.InitialAngles() != (kinematics.Angles{0.1, 0.2, 0.3}) {
		t.Errorf("unexpected pose %v", cfg.InitialAngles())
	}
}
