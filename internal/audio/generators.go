package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// EngineDrone is an endless low engine hum used as background music.
type EngineDrone struct {
	sr  beep.SampleRate
	pos int
}

func NewEngineDrone(sr beep.SampleRate) *EngineDrone {
	return &EngineDrone{sr: sr}
}

func (g *EngineDrone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		wobble := 1 + 0.1*math.Sin(2*math.Pi*0.5*t)
		sample := 0.08*math.Sin(2*math.Pi*55*wobble*t) + 0.04*math.Sin(2*math.Pi*110*t)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *EngineDrone) Err() error { return nil }

// Explosion is a decaying noise burst with a low rumble.
type Explosion struct {
	sr   beep.SampleRate
	pos  int
	seed uint32
}

func NewExplosion(sr beep.SampleRate) *Explosion {
	return &Explosion{sr: sr, seed: 0x2545f491}
}

func (g *Explosion) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t * 6)

		// xorshift noise
		g.seed ^= g.seed << 13
		g.seed ^= g.seed >> 17
		g.seed ^= g.seed << 5
		noise := float64(g.seed)/float64(math.MaxUint32)*2 - 1

		rumble := 0.4 * math.Sin(2*math.Pi*60*t)
		sample := envelope * (0.5*noise + rumble)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *Explosion) Err() error { return nil }
