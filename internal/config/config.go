package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/armsim/internal/control"
	"github.com/san-kum/armsim/internal/kinematics"
)

const (
	DefaultSteps           = 100
	DefaultDt              = 0.05
	DefaultTargetX         = 1.5
	DefaultTargetY         = 0.5
	DefaultSettleThreshold = 1e-3
	Joints                 = 3
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Links           kinematics.Links `yaml:"links"`
	Target          kinematics.Point `yaml:"target"`
	InitAngles      []float64        `yaml:"init_angles,omitempty"`
	Steps           int              `yaml:"steps"`
	Dt              float64          `yaml:"dt"`
	Gains           []control.Gains  `yaml:"gains,omitempty"`
	IntegralLimit   float64          `yaml:"integral_limit"`
	Tolerance       float64          `yaml:"tolerance"`
	SettleThreshold float64          `yaml:"settle_threshold"`
	Parallel        bool             `yaml:"parallel"`
	Logger          LoggerConfig     `yaml:"logger"`
}

type LoggerConfig struct {
	Level       string      `yaml:"level" mapstructure:"level"`
	Format      string      `yaml:"format" mapstructure:"format"`
	ServiceName string      `yaml:"service_name" mapstructure:"service_name"`
	LogFile     string      `yaml:"log_file" mapstructure:"log_file"`
	MaxSize     int         `yaml:"max_size" mapstructure:"max_size"`
	MaxBackups  int         `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge      int         `yaml:"max_age" mapstructure:"max_age"`
	Compress    bool        `yaml:"compress" mapstructure:"compress"`
	AddSource   bool        `yaml:"add_source" mapstructure:"add_source"`
	Colors      ColorConfig `yaml:"colors" mapstructure:"colors"`
}

// ColorConfig names the terminal color of each level in the console format.
type ColorConfig struct {
	Debug string `yaml:"debug" mapstructure:"debug"`
	Info  string `yaml:"info" mapstructure:"info"`
	Warn  string `yaml:"warn" mapstructure:"warn"`
	Error string `yaml:"error" mapstructure:"error"`
	Fatal string `yaml:"fatal" mapstructure:"fatal"`
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:       "info",
		Format:      "console",
		ServiceName: "armsim",
		MaxSize:     10,
		MaxBackups:  3,
		MaxAge:      28,
		Colors: ColorConfig{
			Debug: "cyan",
			Info:  "green",
			Warn:  "yellow",
			Error: "red",
			Fatal: "magenta",
		},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Links:           kinematics.DefaultLinks,
		Target:          kinematics.Point{X: DefaultTargetX, Y: DefaultTargetY},
		Steps:           DefaultSteps,
		Dt:              DefaultDt,
		SettleThreshold: DefaultSettleThreshold,
		Logger:          DefaultLoggerConfig(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Links.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !c.Target.IsValid() {
		return fmt.Errorf("%w: target must be finite, got %v", ErrInvalid, c.Target)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", ErrInvalid, c.Steps)
	}
	if n := len(c.Gains); n != 0 && n != Joints {
		return fmt.Errorf("%w: need %d gain sets, got %d", ErrInvalid, Joints, n)
	}
	if n := len(c.InitAngles); n != 0 && n != Joints {
		return fmt.Errorf("%w: need %d initial angles, got %d", ErrInvalid, Joints, n)
	}
	if c.IntegralLimit < 0 {
		return fmt.Errorf("%w: integral_limit must be non-negative", ErrInvalid)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be non-negative", ErrInvalid)
	}
	return nil
}

// JointGains returns one gain set per joint, defaulting to control.DefaultGains.
func (c *Config) JointGains() []control.Gains {
	gains := make([]control.Gains, Joints)
	for i := range gains {
		if i < len(c.Gains) {
			gains[i] = c.Gains[i]
		} else {
			gains[i] = control.DefaultGains
		}
	}
	return gains
}

// SetAllGains applies the same gains to every joint.
func (c *Config) SetAllGains(g control.Gains) {
	c.Gains = []control.Gains{g, g, g}
}

func (c *Config) InitialAngles() kinematics.Angles {
	var q kinematics.Angles
	copy(q[:], c.InitAngles)
	return q
}

// Clone returns a deep copy so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	cp := *c
	cp.InitAngles = append([]float64(nil), c.InitAngles...)
	cp.Gains = append([]control.Gains(nil), c.Gains...)
	return &cp
}
