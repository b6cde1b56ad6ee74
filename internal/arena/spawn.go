package arena

import (
	"fmt"
	"math/rand/v2"

	"github.com/zeusync/arena/internal/config"
	bus "github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/system"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// Spawner creates at most one enemy per tick while the population is
// below the cap. Points and variants are drawn independently with
// replacement, so enemies may share a spawn point.
type Spawner struct {
	world    *World
	state    *State
	rng      *rand.Rand
	points   []physics.Vec3
	variants []string
	body     config.BodyConfig
	role     config.RoleConfig
	events   bus.EventBus
	logger   log.Log
}

func NewSpawner(world *World, state *State, rng *rand.Rand, cfg *config.Config, events bus.EventBus, logger log.Log) *Spawner {
	return &Spawner{
		world:    world,
		state:    state,
		rng:      rng,
		points:   cfg.Arena.SpawnPoints,
		variants: cfg.Arena.EnemyVariants,
		body:     cfg.Body,
		role:     cfg.Enemy,
		events:   events,
		logger:   logger,
	}
}

func (s *Spawner) Name() string { return "spawn" }

func (s *Spawner) Update(system.Tick) error {
	_, err := s.Spawn()
	return err
}

// Spawn creates one enemy, or returns nil when the arena is full.
func (s *Spawner) Spawn() (*Vehicle, error) {
	if !s.state.CanSpawn() {
		return nil, nil
	}
	point := s.points[s.rng.IntN(len(s.points))]
	variant := s.variants[s.rng.IntN(len(s.variants))]

	// the slot is counted first so the world never holds an uncounted enemy
	if err := s.state.EnemySpawned(); err != nil {
		return nil, err
	}
	desc := vehicleBody(s.body, s.role, physics.Transform{Position: point})
	v, err := s.world.AddVehicle(RoleEnemy, variant, desc, paramsFor(s.role))
	if err != nil {
		s.state.spawnAborted()
		return nil, fmt.Errorf("spawn enemy: %w", err)
	}

	s.logger.Debug("enemy spawned",
		log.Uint64("body", uint64(v.Body)),
		log.String("variant", variant),
		log.Float64("x", point.X),
		log.Float64("z", point.Z),
	)
	if s.events != nil {
		if err := s.events.Publish(bus.NewEvent(EventEnemySpawned, eventSource, EnemySpawned{Body: v.Body, Variant: variant, Position: point})); err != nil {
			s.logger.Warn("enemy spawned handlers failed", log.Error(err))
		}
	}
	return v, nil
}
