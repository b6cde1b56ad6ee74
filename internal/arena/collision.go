package arena

import (
	bus "github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/system"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// CollisionReactor drains the engine's collision stream once per tick and
// turns player-enemy contacts into kills.
type CollisionReactor struct {
	world  *World
	state  *State
	audio  Audio
	sound  string
	events bus.EventBus
	logger log.Log
}

func NewCollisionReactor(world *World, state *State, audio Audio, sound string, events bus.EventBus, logger log.Log) *CollisionReactor {
	if audio == nil {
		audio = silentAudio{}
	}
	return &CollisionReactor{world: world, state: state, audio: audio, sound: sound, events: events, logger: logger}
}

func (r *CollisionReactor) Name() string { return "collision" }

func (r *CollisionReactor) Update(system.Tick) error {
	for _, ev := range r.world.Engine().DrainCollisions() {
		if _, err := r.React(ev); err != nil {
			return err
		}
	}
	return nil
}

// React handles one contact and reports whether it was a kill. Contacts
// that do not pair the player with a live enemy are ignored.
func (r *CollisionReactor) React(ev physics.CollisionStart) (bool, error) {
	player := r.world.Player()
	if player == nil {
		return false, ErrNoPlayer
	}
	if !ev.Involves(player.Body) || ev.A == ev.B {
		return false, nil
	}
	struck, ok := r.world.Vehicle(ev.Other(player.Body))
	if !ok || struck.Role != RoleEnemy {
		return false, nil
	}

	r.audio.Play(r.sound, false)
	if _, err := r.world.Destroy(struck.Body); err != nil {
		return false, err
	}
	score, err := r.state.EnemyKilled()
	if err != nil {
		return false, err
	}
	enemies := r.state.EnemyCount()

	r.logger.Debug("enemy destroyed",
		log.Uint64("body", uint64(struck.Body)),
		log.Uint64("score", score),
		log.Int("enemies", enemies),
	)
	if r.events != nil {
		err := r.events.PublishBatch(
			bus.NewEvent(EventEnemyDestroyed, eventSource, EnemyDestroyed{Body: struck.Body, Variant: struck.Variant}),
			bus.NewEvent(EventScoreChanged, eventSource, ScoreChanged{Score: score, Enemies: enemies}),
		)
		if err != nil {
			r.logger.Warn("kill handlers failed", log.Error(err))
		}
	}
	return true, nil
}
