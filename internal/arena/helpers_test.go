package arena

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/assets"
	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/system"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

type audioCall struct {
	name string
	loop bool
}

type recordingAudio struct {
	mu    sync.Mutex
	calls []audioCall
}

func (a *recordingAudio) Play(name string, loop bool) {
	a.mu.Lock()
	a.calls = append(a.calls, audioCall{name: name, loop: loop})
	a.mu.Unlock()
}

func (a *recordingAudio) Calls() []audioCall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]audioCall(nil), a.calls...)
}

// recordingEngine records every force handed to the engine.
type recordingEngine struct {
	*physics.SimpleEngine
	mu     sync.Mutex
	forces map[physics.BodyID][]physics.Vec3
}

func newRecordingEngine() *recordingEngine {
	return &recordingEngine{SimpleEngine: physics.NewSimpleEngine(), forces: make(map[physics.BodyID][]physics.Vec3)}
}

func (e *recordingEngine) ApplyForce(id physics.BodyID, f physics.Vec3) error {
	e.mu.Lock()
	e.forces[id] = append(e.forces[id], f)
	e.mu.Unlock()
	return e.SimpleEngine.ApplyForce(id, f)
}

func (e *recordingEngine) Forces(id physics.BodyID) []physics.Vec3 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]physics.Vec3(nil), e.forces[id]...)
}

type heldKeys map[Control]bool

func (h heldKeys) Held(c Control) bool { return h[c] }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Seed = "arena-tests"
	return &cfg
}

func newCatalog(cfg *config.Config) *assets.Catalog {
	return assets.NewCatalog(log.NewNop(), knownAssets(cfg)...)
}

func addPlayer(t *testing.T, w *World, cfg *config.Config, at physics.Transform) *Vehicle {
	t.Helper()
	v, err := w.AddVehicle(RolePlayer, cfg.Player.Model, vehicleBody(cfg.Body, cfg.Player.RoleConfig, at), paramsFor(cfg.Player.RoleConfig))
	require.NoError(t, err)
	return v
}

func addEnemy(t *testing.T, w *World, cfg *config.Config, at physics.Transform) *Vehicle {
	t.Helper()
	v, err := w.AddVehicle(RoleEnemy, cfg.Arena.EnemyVariants[0], vehicleBody(cfg.Body, cfg.Enemy, at), paramsFor(cfg.Enemy))
	require.NoError(t, err)
	return v
}

func at(x, z, yaw float64) physics.Transform {
	return physics.Transform{Position: physics.V3(x, 0, z), Yaw: yaw}
}

func tick(frame uint64) system.Tick {
	return system.Tick{Frame: frame, DeltaTime: 1.0 / 60}
}
