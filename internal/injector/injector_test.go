package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/arena"
	"github.com/zeusync/arena/internal/config"
)

func TestInitializeSession(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = "injector"
	cfg.Audio.Enabled = false

	session, cleanup, err := InitializeSession(&cfg, arena.NoInput{})
	require.NoError(t, err)
	defer cleanup()

	snap, err := session.Tick(1.0 / 60)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Enemies)
	assert.True(t, snap.Player.Ready)
}

func TestInitializeSessionBadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "loud"
	_, _, err := InitializeSession(&cfg, arena.NoInput{})
	require.Error(t, err)
}

func TestInjectedSessionMatchesDirectConstruction(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = "same-stream"
	cfg.Audio.Enabled = false

	injected, cleanup, err := InitializeSession(&cfg, arena.NoInput{})
	require.NoError(t, err)
	defer cleanup()
	direct, err := arena.NewSession(arena.Options{Config: &cfg})
	require.NoError(t, err)

	var a, b arena.Snapshot
	for range 30 {
		a, err = injected.Tick(1.0 / 60)
		require.NoError(t, err)
		b, err = direct.Tick(1.0 / 60)
		require.NoError(t, err)
	}
	assert.Equal(t, a.Vehicles, b.Vehicles)
}
