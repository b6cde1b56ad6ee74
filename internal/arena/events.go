package arena

import "github.com/zeusync/arena/internal/core/systems/physics"

// Bus event types published by a session.
const (
	EventEnemySpawned   = "arena.enemy_spawned"
	EventEnemyDestroyed = "arena.enemy_destroyed"
	EventScoreChanged   = "arena.score_changed"
	EventTick           = "arena.tick"
)

const eventSource = "arena"

type EnemySpawned struct {
	Body     physics.BodyID
	Variant  string
	Position physics.Vec3
}

type EnemyDestroyed struct {
	Body    physics.BodyID
	Variant string
}

type ScoreChanged struct {
	Score   uint64
	Enemies int
}
