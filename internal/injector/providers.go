package injector

import (
	"math/rand/v2"

	"github.com/google/wire"

	"github.com/zeusync/arena/internal/arena"
	"github.com/zeusync/arena/internal/assets"
	"github.com/zeusync/arena/internal/audio"
	"github.com/zeusync/arena/internal/config"
	bus "github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideEngine,
	ProvideVisuals,
	ProvideAudio,
	ProvideBus,
	ProvideRand,
	ProvideOptions,
	arena.NewSession,
)

func ProvideLogger(cfg *config.Config) (log.Log, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.New(level), nil
}

func ProvideEngine() physics.Engine {
	return physics.NewSimpleEngine()
}

// ProvideVisuals preloads the map, the player model and every enemy variant.
func ProvideVisuals(cfg *config.Config, logger log.Log) arena.Visuals {
	names := append([]string{cfg.Arena.Map, cfg.Player.Model}, cfg.Arena.EnemyVariants...)
	return assets.NewCatalog(logger, names...)
}

// ProvideAudio opens the speaker when audio is enabled. A machine without
// a sound device keeps running silently.
func ProvideAudio(cfg *config.Config, logger log.Log) (arena.Audio, func(), error) {
	if !cfg.Audio.Enabled {
		return audio.Nop{}, func() {}, nil
	}
	player := audio.NewBeepPlayer(cfg.Audio, logger)
	if err := player.Initialize(); err != nil {
		logger.Warn("audio unavailable, continuing without sound", log.Error(err))
		return audio.Nop{}, func() {}, nil
	}
	return player, player.Close, nil
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideRand(cfg *config.Config) *rand.Rand {
	return cfg.NewRand()
}

func ProvideOptions(
	cfg *config.Config,
	engine physics.Engine,
	visuals arena.Visuals,
	sound arena.Audio,
	input arena.Input,
	events bus.EventBus,
	logger log.Log,
	rng *rand.Rand,
) arena.Options {
	return arena.Options{
		Config:  cfg,
		Engine:  engine,
		Visuals: visuals,
		Audio:   sound,
		Input:   input,
		Bus:     events,
		Logger:  logger,
		Rand:    rng,
	}
}
