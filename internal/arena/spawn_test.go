package arena

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/assets"
	bus "github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

func TestSpawnerFillsToCapOnePerTick(t *testing.T) {
	cfg := testConfig()
	catalog := newCatalog(cfg)
	w := NewWorld(physics.NewSimpleEngine(), catalog)
	state := NewState(cfg.Arena.PopulationCap)
	events := bus.New()
	var spawned []EnemySpawned
	_, err := events.Subscribe(EventEnemySpawned, func(e bus.Event) error {
		spawned = append(spawned, e.Data().(EnemySpawned))
		return nil
	})
	require.NoError(t, err)

	s := NewSpawner(w, state, rand.New(rand.NewPCG(3, 3)), cfg, events, log.NewNop())
	for i := range cfg.Arena.PopulationCap + 3 {
		require.NoError(t, s.Update(tick(uint64(i+1))))
		want := min(i+1, cfg.Arena.PopulationCap)
		assert.Equal(t, want, state.EnemyCount())
		assert.Len(t, w.Enemies(), want)
	}

	require.Len(t, spawned, cfg.Arena.PopulationCap)
	for _, ev := range spawned {
		assert.True(t, slices.Contains(cfg.Arena.SpawnPoints, ev.Position), "%+v", ev.Position)
		assert.Contains(t, cfg.Arena.EnemyVariants, ev.Variant)
	}
	for _, v := range w.Enemies() {
		assert.True(t, v.Visual.Ready)
		assert.Equal(t, RoleEnemy, v.Role)
	}
	assert.Equal(t, cfg.Arena.PopulationCap, catalog.Live())
}

func TestSpawnerMissingAssetStillSpawns(t *testing.T) {
	cfg := testConfig()
	cfg.Arena.EnemyVariants = []string{"models/cars/missing.glb#Scene0"}
	w := NewWorld(physics.NewSimpleEngine(), assets.NewCatalog(log.NewNop()))
	state := NewState(cfg.Arena.PopulationCap)

	s := NewSpawner(w, state, rand.New(rand.NewPCG(3, 3)), cfg, nil, log.NewNop())
	v, err := s.Spawn()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, v.Visual.Ready)
	assert.Equal(t, 1, state.EnemyCount())
}

func TestSpawnerZeroCap(t *testing.T) {
	cfg := testConfig()
	w := NewWorld(physics.NewSimpleEngine(), newCatalog(cfg))
	s := NewSpawner(w, NewState(0), rand.New(rand.NewPCG(3, 3)), cfg, nil, log.NewNop())
	v, err := s.Spawn()
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Empty(t, w.Enemies())
}

func TestSpawnerFailedBodyLeavesNoTrace(t *testing.T) {
	cfg := testConfig()
	cfg.Body.Mass = 0
	catalog := newCatalog(cfg)
	w := NewWorld(physics.NewSimpleEngine(), catalog)
	state := NewState(cfg.Arena.PopulationCap)

	s := NewSpawner(w, state, rand.New(rand.NewPCG(3, 3)), cfg, nil, log.NewNop())
	v, err := s.Spawn()
	require.ErrorIs(t, err, physics.ErrInvalidBody)
	assert.Nil(t, v)
	assert.Equal(t, 0, state.EnemyCount())
	assert.Empty(t, w.Enemies())
	assert.Zero(t, catalog.Live())
	assert.True(t, state.CanSpawn())
}
