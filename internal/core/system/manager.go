package system

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

type entry struct {
	system   System
	priority Priority
	seq      int
	enabled  bool
	metrics  Metrics
}

// Manager runs registered systems once per Update in priority order and
// stops at the first failing system.
type Manager struct {
	mu      sync.Mutex
	entries []*entry
	seq     int
	metrics ManagerMetrics
	onError func(name string, err error)
}

func NewManager() *Manager {
	return &Manager{}
}

// OnSystemError installs a callback invoked with every system failure.
func (m *Manager) OnSystemError(fn func(name string, err error)) {
	m.mu.Lock()
	m.onError = fn
	m.mu.Unlock()
}

func (m *Manager) RegisterSystem(s System, priority Priority) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.find(s.Name()) != nil {
		return fmt.Errorf("%w: %s", ErrSystemExists, s.Name())
	}
	m.seq++
	m.entries = append(m.entries, &entry{system: s, priority: priority, seq: m.seq, enabled: true})
	slices.SortStableFunc(m.entries, func(a, b *entry) int {
		if a.priority != b.priority {
			return int(b.priority) - int(a.priority)
		}
		return a.seq - b.seq
	})
	return nil
}

func (m *Manager) UnregisterSystem(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.entries {
		if e.system.Name() == name {
			m.entries = slices.Delete(m.entries, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
}

func (m *Manager) EnableSystem(name string) error  { return m.setEnabled(name, true) }
func (m *Manager) DisableSystem(name string) error { return m.setEnabled(name, false) }

func (m *Manager) setEnabled(name string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.find(name)
	if e == nil {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	e.enabled = enabled
	return nil
}

// Update executes every enabled system for this tick.
func (m *Manager) Update(tick Tick) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	defer func() {
		took := time.Since(start)
		m.metrics.Updates++
		m.metrics.TotalUpdateTime += took
		m.metrics.AverageUpdateTime = m.metrics.TotalUpdateTime / time.Duration(m.metrics.Updates)
		m.metrics.LastUpdate = start
	}()

	for _, e := range m.entries {
		if !e.enabled {
			continue
		}
		began := time.Now()
		err := e.system.Update(tick)
		e.record(time.Since(began), err)
		if err != nil {
			if m.onError != nil {
				m.onError(e.system.Name(), err)
			}
			return fmt.Errorf("system %s: %w", e.system.Name(), err)
		}
	}
	return nil
}

func (e *entry) record(took time.Duration, err error) {
	e.metrics.ExecutionCount++
	e.metrics.TotalExecutionTime += took
	e.metrics.AverageExecutionTime = e.metrics.TotalExecutionTime / time.Duration(e.metrics.ExecutionCount)
	e.metrics.LastExecutionTime = took
	if took > e.metrics.MaxExecutionTime {
		e.metrics.MaxExecutionTime = took
	}
	if err != nil {
		e.metrics.ErrorCount++
		e.metrics.LastError = err
	}
}

// ExecutionOrder lists system names in the order Update runs them.
func (m *Manager) ExecutionOrder() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		names = append(names, e.system.Name())
	}
	return names
}

func (m *Manager) GetSystemMetrics(name string) (Metrics, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.find(name); e != nil {
		return e.metrics, true
	}
	return Metrics{}, false
}

func (m *Manager) GetMetrics() ManagerMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.metrics
	out.RegisteredSystems = uint32(len(m.entries))
	for _, e := range m.entries {
		if e.enabled {
			out.EnabledSystems++
		}
	}
	return out
}

func (m *Manager) find(name string) *entry {
	for _, e := range m.entries {
		if e.system.Name() == name {
			return e
		}
	}
	return nil
}
