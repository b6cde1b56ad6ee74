package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bus "github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

type reactorFixture struct {
	world   *World
	state   *State
	audio   *recordingAudio
	events  bus.EventBus
	reactor *CollisionReactor
	player  *Vehicle
	enemies []*Vehicle
	wall    physics.BodyID
}

func newReactorFixture(t *testing.T, enemies int) *reactorFixture {
	t.Helper()
	cfg := testConfig()
	f := &reactorFixture{
		world:  NewWorld(physics.NewSimpleEngine(), newCatalog(cfg)),
		state:  NewState(cfg.Arena.PopulationCap),
		audio:  &recordingAudio{},
		events: bus.New(),
	}
	f.reactor = NewCollisionReactor(f.world, f.state, f.audio, cfg.Audio.Explosion, f.events, log.NewNop())
	f.player = addPlayer(t, f.world, cfg, at(0, 0, 0))
	for i := range enemies {
		f.enemies = append(f.enemies, addEnemy(t, f.world, cfg, at(float64(10*(i+1)), 0, 0)))
		require.NoError(t, f.state.EnemySpawned())
	}
	var err error
	f.wall, err = f.world.AddStatic(physics.BodyDesc{Transform: at(0, 30, 0), HalfExtents: physics.V3(30, 3, 1)})
	require.NoError(t, err)
	return f
}

func TestReactorIgnoresNonQualifyingContacts(t *testing.T) {
	f := newReactorFixture(t, 2)

	cases := map[string]physics.CollisionStart{
		"player-wall":  {A: f.player.Body, B: f.wall},
		"wall-player":  {A: f.wall, B: f.player.Body},
		"enemy-enemy":  {A: f.enemies[0].Body, B: f.enemies[1].Body},
		"enemy-wall":   {A: f.enemies[0].Body, B: f.wall},
		"player-self":  {A: f.player.Body, B: f.player.Body},
		"player-ghost": {A: f.player.Body, B: 9999},
		"ghost-ghost":  {A: 9998, B: 9999},
	}
	for name, ev := range cases {
		t.Run(name, func(t *testing.T) {
			killed, err := f.reactor.React(ev)
			require.NoError(t, err)
			assert.False(t, killed)
		})
	}

	enemies, score := f.state.Counters()
	assert.Equal(t, 2, enemies)
	assert.Equal(t, uint64(0), score)
	assert.Empty(t, f.audio.Calls())
	assert.Len(t, f.world.Enemies(), 2)
}

func TestReactorKillsStruckEnemy(t *testing.T) {
	f := newReactorFixture(t, 2)
	target := f.enemies[1]

	var scores []ScoreChanged
	_, err := f.events.Subscribe(EventScoreChanged, func(e bus.Event) error {
		scores = append(scores, e.Data().(ScoreChanged))
		return nil
	})
	require.NoError(t, err)
	var destroyed []EnemyDestroyed
	_, err = f.events.Subscribe(EventEnemyDestroyed, func(e bus.Event) error {
		destroyed = append(destroyed, e.Data().(EnemyDestroyed))
		return nil
	})
	require.NoError(t, err)

	// enemy on side A works just as well
	killed, err := f.reactor.React(physics.CollisionStart{A: target.Body, B: f.player.Body})
	require.NoError(t, err)
	require.True(t, killed)

	enemies, score := f.state.Counters()
	assert.Equal(t, 1, enemies)
	assert.Equal(t, uint64(1), score)
	assert.Equal(t, []audioCall{{name: "audio/explode.ogg", loop: false}}, f.audio.Calls())
	require.Len(t, scores, 1)
	assert.Equal(t, ScoreChanged{Score: 1, Enemies: 1}, scores[0])
	require.Len(t, destroyed, 1)
	assert.Equal(t, target.Body, destroyed[0].Body)

	// post-kill consistency
	_, ok := f.world.Vehicle(target.Body)
	assert.False(t, ok)
	_, ok = f.world.Engine().Transform(target.Body)
	assert.False(t, ok)
	assert.Len(t, f.world.Enemies(), enemies)
	assert.NotContains(t, f.world.Vehicles(), target)
}

func TestReactorIgnoresRepeatContact(t *testing.T) {
	f := newReactorFixture(t, 1)
	ev := physics.CollisionStart{A: f.player.Body, B: f.enemies[0].Body}

	killed, err := f.reactor.React(ev)
	require.NoError(t, err)
	require.True(t, killed)

	killed, err = f.reactor.React(ev)
	require.NoError(t, err)
	assert.False(t, killed)
	assert.Equal(t, uint64(1), f.state.Score())
	assert.Len(t, f.audio.Calls(), 1)
}

func TestReactorReportsUnderflow(t *testing.T) {
	cfg := testConfig()
	w := NewWorld(physics.NewSimpleEngine(), newCatalog(cfg))
	state := NewState(cfg.Arena.PopulationCap)
	reactor := NewCollisionReactor(w, state, nil, cfg.Audio.Explosion, nil, log.NewNop())
	player := addPlayer(t, w, cfg, at(0, 0, 0))
	// registered with the world but never counted
	enemy := addEnemy(t, w, cfg, at(5, 0, 0))

	_, err := reactor.React(physics.CollisionStart{A: player.Body, B: enemy.Body})
	require.ErrorIs(t, err, ErrPopulationUnderflow)
	assert.Equal(t, uint64(0), state.Score())
}

func TestReactorDrainsEngineStream(t *testing.T) {
	f := newReactorFixture(t, 0)
	cfg := testConfig()
	overlapping := addEnemy(t, f.world, cfg, at(1, 0, 0))
	require.NoError(t, f.state.EnemySpawned())

	engine := f.world.Engine()
	engine.Step(1.0 / 60)
	require.NoError(t, f.reactor.Update(tick(1)))

	_, alive := f.world.Vehicle(overlapping.Body)
	assert.False(t, alive)
	assert.Equal(t, uint64(1), f.state.Score())
	assert.Equal(t, 0, f.state.EnemyCount())
	assert.Empty(t, engine.DrainCollisions())
}

func TestReactorRequiresPlayer(t *testing.T) {
	cfg := testConfig()
	w := NewWorld(physics.NewSimpleEngine(), newCatalog(cfg))
	state := NewState(cfg.Arena.PopulationCap)
	reactor := NewCollisionReactor(w, state, nil, cfg.Audio.Explosion, nil, log.NewNop())
	a := addEnemy(t, w, cfg, at(0, 0, 0))
	b := addEnemy(t, w, cfg, at(5, 0, 0))

	killed, err := reactor.React(physics.CollisionStart{A: a.Body, B: b.Body})
	require.ErrorIs(t, err, ErrNoPlayer)
	assert.False(t, killed)
	assert.Len(t, w.Enemies(), 2)
}
