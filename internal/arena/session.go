package arena

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/arena/internal/assets"
	"github.com/zeusync/arena/internal/config"
	bus "github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/system"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// Options wires a session to its collaborators. Only Config is required.
type Options struct {
	Config  *config.Config
	Engine  physics.Engine
	Visuals Visuals
	Audio   Audio
	Input   Input
	Bus     bus.EventBus
	Logger  log.Log
	Rand    *rand.Rand
}

// Session is one play-through: a fixed arena, one player and the enemy
// population, advanced by Tick.
type Session struct {
	id     string
	cfg    *config.Config
	logger log.Log
	events bus.EventBus
	audio  Audio

	world   *World
	state   *State
	manager *system.Manager
	camera  *CameraFollow
	reactor *CollisionReactor
	scene   assets.Visual

	mu      sync.Mutex
	frame   uint64
	total   time.Duration
	started bool
}

func NewSession(opts Options) (*Session, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("new session: %w", config.ErrInvalidConfig)
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	logger = logger.With(log.String("session", id))
	if opts.Engine == nil {
		opts.Engine = physics.NewSimpleEngine()
	}
	if opts.Visuals == nil {
		opts.Visuals = assets.NewCatalog(logger, knownAssets(cfg)...)
	}
	if opts.Audio == nil {
		opts.Audio = silentAudio{}
	}
	if opts.Input == nil {
		opts.Input = NoInput{}
	}
	if opts.Bus == nil {
		opts.Bus = bus.New()
	}
	if opts.Rand == nil {
		opts.Rand = cfg.NewRand()
	}

	s := &Session{
		id:      id,
		cfg:     cfg,
		logger:  logger,
		events:  opts.Bus,
		audio:   opts.Audio,
		world:   NewWorld(opts.Engine, opts.Visuals),
		state:   NewState(cfg.Arena.PopulationCap),
		manager: system.NewManager(),
	}
	s.events.AddObserver(&eventLogger{logger: logger})

	s.scene = opts.Visuals.Resolve(cfg.Arena.Map)
	if err := s.buildWalls(); err != nil {
		return nil, err
	}
	playerDesc := vehicleBody(cfg.Body, cfg.Player.RoleConfig, physics.Transform{Position: cfg.Player.Start})
	if _, err := s.world.AddVehicle(RolePlayer, cfg.Player.Model, playerDesc, paramsFor(cfg.Player.RoleConfig)); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	s.camera = NewCameraFollow(s.world, cfg.Camera.Distance, cfg.Camera.Height)
	s.reactor = NewCollisionReactor(s.world, s.state, opts.Audio, cfg.Audio.Explosion, s.events, logger)
	schedule := []system.System{
		NewLocomotion(s.world, opts.Input, opts.Rand),
		NewBoundaryAvoidance(s.world, cfg.Arena.AvoidanceThreshold, cfg.Arena.ProbeRange, runtime.GOMAXPROCS(0)),
		NewSpawner(s.world, s.state, opts.Rand, cfg, s.events, logger),
		system.Func{ID: "physics", Fn: func(t system.Tick) error {
			opts.Engine.Step(t.DeltaTime)
			return nil
		}},
		s.reactor,
		s.camera,
	}
	for _, sys := range schedule {
		if err := s.manager.RegisterSystem(sys, system.PriorityNormal); err != nil {
			return nil, err
		}
	}
	s.manager.OnSystemError(func(name string, err error) {
		logger.Error("system failed", log.String("system", name), log.Error(err))
	})
	return s, nil
}

// buildWalls encloses the square arena. The inner faces sit at ±HalfSize.
func (s *Session) buildWalls() error {
	a := s.cfg.Arena
	half := a.WallThickness / 2
	long := a.HalfSize + a.WallThickness
	y := a.WallHeight/2 - 1
	walls := []physics.BodyDesc{
		{Transform: physics.Transform{Position: physics.V3(0, y, -(a.HalfSize + half))}, HalfExtents: physics.V3(long, a.WallHeight/2, half)},
		{Transform: physics.Transform{Position: physics.V3(0, y, a.HalfSize+half)}, HalfExtents: physics.V3(long, a.WallHeight/2, half)},
		{Transform: physics.Transform{Position: physics.V3(-(a.HalfSize + half), y, 0)}, HalfExtents: physics.V3(half, a.WallHeight/2, long)},
		{Transform: physics.Transform{Position: physics.V3(a.HalfSize+half, y, 0)}, HalfExtents: physics.V3(half, a.WallHeight/2, long)},
	}
	for i, w := range walls {
		if _, err := s.world.AddStatic(w); err != nil {
			return fmt.Errorf("wall %d: %w", i, err)
		}
	}
	return nil
}

func knownAssets(cfg *config.Config) []string {
	names := []string{cfg.Arena.Map, cfg.Player.Model}
	return append(names, cfg.Arena.EnemyVariants...)
}

func (s *Session) ID() string               { return s.id }
func (s *Session) World() *World            { return s.world }
func (s *Session) State() *State            { return s.state }
func (s *Session) Events() bus.EventBus     { return s.events }
func (s *Session) Manager() *system.Manager { return s.manager }
func (s *Session) Config() *config.Config   { return s.cfg }

// Start begins the background music. Calling it again does nothing.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.audio.Play(s.cfg.Audio.Music, true)
	s.logger.Info("session started",
		log.Int("population_cap", s.state.Cap()),
		log.Int("spawn_points", len(s.cfg.Arena.SpawnPoints)),
	)
}

// Tick advances the simulation by dt seconds. Ticks are serialized; an
// invariant violation aborts the tick and is returned.
func (s *Session) Tick(dt float64) (Snapshot, error) {
	s.mu.Lock()
	s.frame++
	s.total += time.Duration(dt * float64(time.Second))
	tick := system.Tick{Frame: s.frame, DeltaTime: dt, Total: s.total}
	if err := s.manager.Update(tick); err != nil {
		s.mu.Unlock()
		return Snapshot{}, fmt.Errorf("tick %d: %w", tick.Frame, err)
	}
	snap := s.snapshot()
	s.mu.Unlock()

	if err := s.events.Publish(bus.NewEvent(EventTick, eventSource, snap)); err != nil {
		s.logger.Warn("tick handlers failed", log.Uint64("frame", snap.Frame), log.Error(err))
	}
	return snap, nil
}

// Run ticks at the configured rate with measured wall-clock deltas until
// ctx is done, maxTicks ticks have run (0 means no limit) or a tick fails.
func (s *Session) Run(ctx context.Context, maxTicks uint64) error {
	s.Start()
	ticker := time.NewTicker(s.cfg.TickInterval())
	defer ticker.Stop()

	last := time.Now()
	var ran uint64
	for {
		select {
		case <-ctx.Done():
			s.logRunEnd("session stopped", ran)
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if _, err := s.Tick(dt); err != nil {
				s.logger.Error("session aborted", log.Error(err))
				return err
			}
			ran++
			if maxTicks > 0 && ran >= maxTicks {
				s.logRunEnd("session finished", ran)
				return nil
			}
		}
	}
}

func (s *Session) logRunEnd(msg string, ran uint64) {
	m := s.manager.GetMetrics()
	fields := []log.Field{
		log.Uint64("ticks", ran),
		log.Uint64("score", s.state.Score()),
		log.Duration("avg_tick", m.AverageUpdateTime),
	}
	for _, name := range s.manager.ExecutionOrder() {
		if sm, ok := s.manager.GetSystemMetrics(name); ok {
			fields = append(fields, log.Duration(name+"_max", sm.MaxExecutionTime))
		}
	}
	s.logger.Info(msg, fields...)
}

// Snapshot reads the current state. It never mutates the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	enemies, score := s.state.Counters()
	snap := Snapshot{
		Session: s.id,
		Map:     s.scene.Name,
		Frame:   s.frame,
		Score:   score,
		Enemies: enemies,
		Camera:  s.camera.Rig(),
		Overlay: OverlayText(score),
	}
	for _, v := range s.world.Vehicles() {
		view := viewOf(s.world, v)
		if v.Role == RolePlayer {
			snap.Player = view
		}
		snap.Vehicles = append(snap.Vehicles, view)
	}
	return snap
}

// eventLogger writes every arena event delivery at debug level.
type eventLogger struct {
	logger log.Log
}

func (l *eventLogger) OnPublish(string, bus.Event) {}

func (l *eventLogger) OnDelivered(eventType string, handlers int, err error, took time.Duration) {
	if eventType == EventTick {
		return
	}
	fields := []log.Field{log.String("event", eventType), log.Int("handlers", handlers), log.Duration("took", took)}
	if err != nil {
		fields = append(fields, log.Error(err))
	}
	l.logger.Debug("event delivered", fields...)
}
