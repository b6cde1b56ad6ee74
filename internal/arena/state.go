package arena

import (
	"fmt"
	"sync"
)

// State holds the enemy population and the score. Every mutation is
// serialized by the mutex; there is no reset.
type State struct {
	mu      sync.Mutex
	cap     int
	enemies int
	score   uint64
}

func NewState(populationCap int) *State {
	return &State{cap: populationCap}
}

// Cap is the maximum number of live enemies.
func (s *State) Cap() int { return s.cap }

// CanSpawn reports whether the population is below the cap.
func (s *State) CanSpawn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enemies < s.cap
}

// EnemySpawned records one new enemy.
func (s *State) EnemySpawned() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enemies >= s.cap {
		return fmt.Errorf("%w: %d live, cap %d", ErrPopulationOverflow, s.enemies, s.cap)
	}
	s.enemies++
	return nil
}

// spawnAborted hands back a slot taken by EnemySpawned for an enemy that
// was never created.
func (s *State) spawnAborted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enemies > 0 {
		s.enemies--
	}
}

// EnemyKilled records a destroyed enemy and awards one point. It returns
// the new score.
func (s *State) EnemyKilled() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enemies <= 0 {
		return s.score, fmt.Errorf("%w: score %d", ErrPopulationUnderflow, s.score)
	}
	s.enemies--
	s.score++
	return s.score, nil
}

func (s *State) EnemyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enemies
}

func (s *State) Score() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Counters returns both values from one critical section.
func (s *State) Counters() (enemies int, score uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enemies, s.score
}
