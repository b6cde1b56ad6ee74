package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/observability/log"
)

const sampleRate = beep.SampleRate(44100)

// Nop discards every request.
type Nop struct{}

func (Nop) Play(string, bool) {}

// BeepPlayer plays procedurally generated sounds through the system
// speaker. Asset names from the configuration map onto generators; the
// music name loops, the explosion name plays once.
type BeepPlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	loops       map[string]*beep.Ctrl
	sounds      map[string]func() beep.Streamer
	initialized bool
	logger      log.Log
}

func NewBeepPlayer(cfg config.AudioConfig, logger log.Log) *BeepPlayer {
	return &BeepPlayer{
		mixer: &beep.Mixer{},
		loops: make(map[string]*beep.Ctrl),
		sounds: map[string]func() beep.Streamer{
			cfg.Music:     func() beep.Streamer { return NewEngineDrone(sampleRate) },
			cfg.Explosion: func() beep.Streamer { return beep.Take(sampleRate.N(600*time.Millisecond), NewExplosion(sampleRate)) },
		},
		logger: logger,
	}
}

// Initialize opens the speaker. On failure the player stays silent.
func (p *BeepPlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play starts a sound without waiting for it.
func (p *BeepPlayer) Play(name string, loop bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	gen, ok := p.sounds[name]
	if !ok {
		p.logger.Warn("unknown sound", log.String("sound", name))
		return
	}
	if loop {
		if ctrl, playing := p.loops[name]; playing && !ctrl.Paused {
			return
		}
		ctrl := &beep.Ctrl{Streamer: gen(), Paused: false}
		p.loops[name] = ctrl
		p.add(ctrl)
		return
	}
	p.add(gen())
}

func (p *BeepPlayer) add(s beep.Streamer) {
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences everything.
func (p *BeepPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	for _, ctrl := range p.loops {
		ctrl.Paused = true
	}
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}
