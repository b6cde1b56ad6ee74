package system

import (
	"errors"
	"time"
)

var (
	ErrSystemExists   = errors.New("system already registered")
	ErrSystemNotFound = errors.New("system not found")
)

// Tick carries the timing of one simulation step.
type Tick struct {
	Frame     uint64
	DeltaTime float64 // seconds since the previous tick
	Total     time.Duration
}

// System is one stage of the per-tick schedule.
type System interface {
	Name() string
	Update(tick Tick) error
}

// Priority orders systems; higher runs first. Equal priorities keep
// registration order.
type Priority uint16

const (
	PriorityLow    Priority = 500
	PriorityNormal Priority = 600
	PriorityHigh   Priority = 1000
)

// Func adapts a function to System.
type Func struct {
	ID string
	Fn func(Tick) error
}

func (f Func) Name() string           { return f.ID }
func (f Func) Update(tick Tick) error { return f.Fn(tick) }

// Metrics holds runtime numbers for one system.
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	LastExecutionTime    time.Duration
	ErrorCount           uint64
	LastError            error
}

// ManagerMetrics aggregates over all systems.
type ManagerMetrics struct {
	RegisteredSystems uint32
	EnabledSystems    uint32
	Updates           uint64
	TotalUpdateTime   time.Duration
	AverageUpdateTime time.Duration
	LastUpdate        time.Time
}
