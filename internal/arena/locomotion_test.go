package arena

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/core/systems/physics"
)

func TestDriveForceOpposesForward(t *testing.T) {
	for _, yaw := range []float64{0, 0.7, -2.1, math.Pi} {
		tf := physics.Transform{Yaw: yaw}
		f := DriveForce(tf, 30)
		assert.InDelta(t, 30, f.Length(), 1e-9)
		assert.InDelta(t, -30, f.Dot(tf.Forward()), 1e-9)
		assert.Zero(t, f.Y)
	}
}

func TestTurnStep(t *testing.T) {
	assert.InDelta(t, 0.3*2*math.Pi/60, TurnStep(0.3, 1.0/60), 1e-12)
	assert.Zero(t, TurnStep(0.3, 0))
}

func newLocomotionWorld(t *testing.T) (*World, *recordingEngine) {
	t.Helper()
	engine := newRecordingEngine()
	return NewWorld(engine, newCatalog(testConfig())), engine
}

func TestLocomotionAppliesForceAlongHeading(t *testing.T) {
	w, engine := newLocomotionWorld(t)
	cfg := testConfig()
	player := addPlayer(t, w, cfg, at(0, 0, 0.7))
	enemy := addEnemy(t, w, cfg, at(10, 0, -1.2))

	l := NewLocomotion(w, nil, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, l.Update(tick(1)))

	for _, v := range []*Vehicle{player, enemy} {
		forces := engine.Forces(v.Body)
		require.Len(t, forces, 1, v.Role.String())
		tf, ok := w.Transform(v)
		require.True(t, ok)
		want := tf.Forward().Scale(-v.Params.Speed)
		assert.True(t, forces[0].ApproxEqual(want, 1e-9), "%s force %+v, want %+v", v.Role, forces[0], want)
	}
}

func TestLocomotionPlayerSteering(t *testing.T) {
	cfg := testConfig()
	step := TurnStep(cfg.Player.TurnRate, 1.0/60)
	cases := []struct {
		name string
		keys heldKeys
		want float64
	}{
		{"none", heldKeys{}, 0},
		{"left", heldKeys{ControlLeft: true}, step},
		{"right", heldKeys{ControlRight: true}, -step},
		{"both", heldKeys{ControlLeft: true, ControlRight: true}, 0},
		{"up only", heldKeys{ControlUp: true}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := newLocomotionWorld(t)
			player := addPlayer(t, w, cfg, at(0, 0, 0))
			l := NewLocomotion(w, tc.keys, rand.New(rand.NewPCG(1, 2)))
			require.NoError(t, l.Update(tick(1)))
			assert.InDelta(t, tc.want, yawOf(t, w, player), 1e-12)
		})
	}
}

func TestLocomotionEnemyCoinFlip(t *testing.T) {
	w, _ := newLocomotionWorld(t)
	cfg := testConfig()
	enemy := addEnemy(t, w, cfg, at(0, 0, 0))
	l := NewLocomotion(w, nil, rand.New(rand.NewPCG(7, 7)))
	step := TurnStep(cfg.Enemy.TurnRate, 1.0/60)

	var left, right int
	prev := 0.0
	for i := range 200 {
		require.NoError(t, l.Update(tick(uint64(i+1))))
		yaw := yawOf(t, w, enemy)
		delta := physics.AngleBetween(prev, yaw)
		require.InDelta(t, step, math.Abs(delta), 1e-9)
		if delta > 0 {
			left++
		} else {
			right++
		}
		prev = yaw
	}
	// both outcomes occur; the steering keeps no memory between ticks
	assert.Positive(t, left)
	assert.Positive(t, right)
}

func TestLocomotionSameSeedSameSteering(t *testing.T) {
	run := func() float64 {
		w, _ := newLocomotionWorld(t)
		enemy := addEnemy(t, w, testConfig(), at(0, 0, 0))
		l := NewLocomotion(w, nil, rand.New(rand.NewPCG(42, 42)))
		for i := range 50 {
			require.NoError(t, l.Update(tick(uint64(i+1))))
		}
		return yawOf(t, w, enemy)
	}
	assert.Equal(t, run(), run())
}
