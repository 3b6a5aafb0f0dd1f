package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/nidhogg/feral/internal/memory"
)

// Config is the top-level configuration structure.
type Config struct {
	Server ServerConfig `json:"server"`
	Clock  ClockConfig  `json:"clock"`
	World  WorldConfig  `json:"world"`
	Memory MemoryConfig `json:"memory"`
	Redis  RedisConfig  `json:"redis"`
	Spawns []SpawnConfig `json:"spawns,omitempty"`
}

type ServerConfig struct {
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`
}

// ClockConfig controls the simulation cadence.
type ClockConfig struct {
	FrameMillis int     `json:"frame_millis"` // wall interval between frames
	Speed       float64 `json:"speed"`        // time multiplier, 1.0 = realtime
	TurnSeconds int     `json:"turn_seconds"` // simulated time per discrete turn
}

// FrameInterval returns the frame interval as a duration.
func (c ClockConfig) FrameInterval() time.Duration {
	return time.Duration(c.FrameMillis) * time.Millisecond
}

// TurnEvery returns the simulated time per turn as a duration.
func (c ClockConfig) TurnEvery() time.Duration {
	return time.Duration(c.TurnSeconds) * time.Second
}

type WorldConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MemoryConfig is the retention policy as configuration; zero-valued
// fields fall back to the defaults.
type MemoryConfig struct {
	ReinforceBoost float64            `json:"reinforce_boost,omitempty"`
	Trivial        *memory.TierPolicy `json:"trivial,omitempty"`
	Normal         *memory.TierPolicy `json:"normal,omitempty"`
	High           *memory.TierPolicy `json:"high,omitempty"`
	Critical       *memory.TierPolicy `json:"critical,omitempty"`
}

// DecayPolicy merges the configured overrides over the default policy.
func (m MemoryConfig) DecayPolicy() memory.DecayPolicy {
	p := memory.DefaultDecayPolicy()
	if m.ReinforceBoost > 0 {
		p.ReinforceBoost = m.ReinforceBoost
	}
	if m.Trivial != nil {
		p.Trivial = *m.Trivial
	}
	if m.Normal != nil {
		p.Normal = *m.Normal
	}
	if m.High != nil {
		p.High = *m.High
	}
	if m.Critical != nil {
		p.Critical = *m.Critical
	}
	return p
}

type RedisConfig struct {
	URL    string `json:"url"`
	Stream string `json:"stream,omitempty"`
}

// SpawnConfig places one NPC at startup.
type SpawnConfig struct {
	ID       string `json:"id"`
	Behavior string `json:"behavior"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// envVarRe matches ${VAR} and ${VAR:default} patterns.
var envVarRe = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

// Load reads a JSON config file and substitutes environment variable
// references.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// Substitute ${VAR} and ${VAR:default} with environment values.
	resolved := envVarRe.ReplaceAllStringFunc(string(data), func(match string) string {
		parts := envVarRe.FindStringSubmatch(match)
		name := parts[1]
		defaultVal := parts[2]
		if v := os.Getenv(name); v != "" {
			return v
		}
		return defaultVal
	})

	var cfg Config
	if err := json.Unmarshal([]byte(resolved), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8787
	}
	if c.Clock.FrameMillis == 0 {
		c.Clock.FrameMillis = 100
	}
	if c.Clock.Speed == 0 {
		c.Clock.Speed = 1.0
	}
	if c.Clock.TurnSeconds == 0 {
		c.Clock.TurnSeconds = 10
	}
	if c.World.Width == 0 {
		c.World.Width = 32
	}
	if c.World.Height == 0 {
		c.World.Height = 32
	}
}
