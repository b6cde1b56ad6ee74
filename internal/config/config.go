package config

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/arena/internal/core/systems/physics"
)

var ErrInvalidConfig = errors.New("invalid arena configuration")

// Config is the full session configuration. Zero values are never used
// directly: Decode starts from Default and overlays the file.
type Config struct {
	LogLevel string `yaml:"log_level" json:"log_level"`
	// TickRate is the target number of simulation ticks per second.
	TickRate int `yaml:"tick_rate" json:"tick_rate"`
	// Seed feeds the session RNG; empty means seeded from the clock.
	Seed string `yaml:"seed" json:"seed"`

	Arena     ArenaConfig     `yaml:"arena" json:"arena"`
	Body      BodyConfig      `yaml:"body" json:"body"`
	Player    PlayerConfig    `yaml:"player" json:"player"`
	Enemy     RoleConfig      `yaml:"enemy" json:"enemy"`
	Camera    CameraConfig    `yaml:"camera" json:"camera"`
	Audio     AudioConfig     `yaml:"audio" json:"audio"`
	Spectator SpectatorConfig `yaml:"spectator" json:"spectator"`
}

type ArenaConfig struct {
	Map                string         `yaml:"map" json:"map"`
	PopulationCap      int            `yaml:"population_cap" json:"population_cap"`
	AvoidanceThreshold float64        `yaml:"avoidance_threshold" json:"avoidance_threshold"`
	ProbeRange         float64        `yaml:"probe_range" json:"probe_range"`
	HalfSize           float64        `yaml:"half_size" json:"half_size"`
	WallHeight         float64        `yaml:"wall_height" json:"wall_height"`
	WallThickness      float64        `yaml:"wall_thickness" json:"wall_thickness"`
	SpawnPoints        []physics.Vec3 `yaml:"spawn_points" json:"spawn_points"`
	EnemyVariants      []string       `yaml:"enemy_variants" json:"enemy_variants"`
}

// RoleConfig holds the per-role locomotion constants.
type RoleConfig struct {
	Speed           float64 `yaml:"speed" json:"speed"`
	TurnRate        float64 `yaml:"turn_rate" json:"turn_rate"`
	MaxLinearSpeed  float64 `yaml:"max_linear_speed" json:"max_linear_speed"`
	MaxAngularSpeed float64 `yaml:"max_angular_speed" json:"max_angular_speed"`
	LinearDamping   float64 `yaml:"linear_damping" json:"linear_damping"`
	AngularDamping  float64 `yaml:"angular_damping" json:"angular_damping"`
}

type PlayerConfig struct {
	RoleConfig `yaml:",inline"`
	Model      string       `yaml:"model" json:"model"`
	Start      physics.Vec3 `yaml:"start" json:"start"`
}

type BodyConfig struct {
	Mass        float64      `yaml:"mass" json:"mass"`
	HalfExtents physics.Vec3 `yaml:"half_extents" json:"half_extents"`
}

type CameraConfig struct {
	Distance float64 `yaml:"distance" json:"distance"`
	Height   float64 `yaml:"height" json:"height"`
}

type AudioConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Music     string `yaml:"music" json:"music"`
	Explosion string `yaml:"explosion" json:"explosion"`
}

type SpectatorConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// Default returns the reference arena layout.
func Default() Config {
	return Config{
		LogLevel: "info",
		TickRate: 60,
		Arena: ArenaConfig{
			Map:                "models/map/map.glb#Scene0",
			PopulationCap:      5,
			AvoidanceThreshold: 2.5,
			ProbeRange:         1000,
			HalfSize:           20,
			WallHeight:         6,
			WallThickness:      1,
			SpawnPoints: []physics.Vec3{
				{X: 15, Y: 2, Z: 15},
				{X: 15, Y: 2, Z: -15},
				{X: -15, Y: 2, Z: 15},
				{X: -15, Y: 2, Z: -15},
			},
			EnemyVariants: []string{
				"models/cars/car2.glb#Scene0",
				"models/cars/car3.glb#Scene0",
				"models/cars/car4.glb#Scene0",
				"models/cars/car5.glb#Scene0",
			},
		},
		Body: BodyConfig{
			Mass:        1,
			HalfExtents: physics.Vec3{X: 1, Y: 1, Z: 2.25},
		},
		Player: PlayerConfig{
			RoleConfig: RoleConfig{
				Speed:           30,
				TurnRate:        0.3,
				MaxLinearSpeed:  30,
				MaxAngularSpeed: 8,
				LinearDamping:   2,
				AngularDamping:  0.5,
			},
			Model: "models/cars/car1.glb#Scene0",
			Start: physics.Vec3{X: 4, Y: 2, Z: 0},
		},
		Enemy: RoleConfig{
			Speed:          10,
			TurnRate:       0.3,
			MaxLinearSpeed: 20,
			LinearDamping:  1,
		},
		Camera: CameraConfig{
			Distance: 12,
			Height:   4,
		},
		Audio: AudioConfig{
			Enabled:   true,
			Music:     "audio/bjallerklang_av_jack.ogg",
			Explosion: "audio/explode.ogg",
		},
		Spectator: SpectatorConfig{
			Enabled: false,
			Addr:    "127.0.0.1:8090",
		},
	}
}

// Decode reads YAML from r on top of Default and validates the result.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads a YAML file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return &cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Validate checks the static configuration once at startup.
func (c *Config) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, errors.New("tick_rate must be positive"))
	}
	if c.Arena.PopulationCap < 0 {
		errs = append(errs, errors.New("arena.population_cap must not be negative"))
	}
	if c.Arena.AvoidanceThreshold <= 0 {
		errs = append(errs, errors.New("arena.avoidance_threshold must be positive"))
	}
	if c.Arena.ProbeRange < c.Arena.AvoidanceThreshold {
		errs = append(errs, errors.New("arena.probe_range must cover the avoidance threshold"))
	}
	if c.Arena.HalfSize <= 0 || c.Arena.WallHeight <= 0 || c.Arena.WallThickness <= 0 {
		errs = append(errs, errors.New("arena walls need positive dimensions"))
	}
	if len(c.Arena.SpawnPoints) == 0 {
		errs = append(errs, errors.New("arena.spawn_points must not be empty"))
	}
	if len(c.Arena.EnemyVariants) == 0 {
		errs = append(errs, errors.New("arena.enemy_variants must not be empty"))
	}
	if c.Body.Mass <= 0 {
		errs = append(errs, errors.New("body.mass must be positive"))
	}
	if c.Body.HalfExtents.X <= 0 || c.Body.HalfExtents.Y <= 0 || c.Body.HalfExtents.Z <= 0 {
		errs = append(errs, errors.New("body.half_extents must be positive"))
	}
	for name, role := range map[string]RoleConfig{"player": c.Player.RoleConfig, "enemy": c.Enemy} {
		if role.Speed < 0 || role.TurnRate < 0 || role.MaxLinearSpeed < 0 || role.MaxAngularSpeed < 0 {
			errs = append(errs, fmt.Errorf("%s: speeds must not be negative", name))
		}
		if role.LinearDamping < 0 || role.AngularDamping < 0 {
			errs = append(errs, fmt.Errorf("%s: damping must not be negative", name))
		}
	}
	if c.Spectator.Enabled && c.Spectator.Addr == "" {
		errs = append(errs, errors.New("spectator.addr is required when enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// TickInterval is the wall-clock period of one tick.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// SeedValue hashes Seed into a 64-bit RNG seed.
func (c *Config) SeedValue() uint64 {
	if c.Seed == "" {
		return uint64(time.Now().UnixNano())
	}
	return xxhash.Sum64String(c.Seed)
}

// NewRand builds the session RNG from SeedValue. Every construction path
// uses it, so one seed string always yields one random stream.
func (c *Config) NewRand() *rand.Rand {
	seed := c.SeedValue()
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
