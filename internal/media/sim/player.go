package sim

import (
	"time"

	"github.com/Faultbox/vour/internal/media"
)

type callback struct {
	id int
	fn func()
}

// VideoPlayer simulates a decoder. It implements media.VideoPlayer.
type VideoPlayer struct {
	spec    media.VideoSpec
	latency float64
	frame   [2]int
	length  time.Duration
	tracks  int
	volumes []float32

	preparing bool
	prepared  bool
	remaining float64
	playing   bool
	t         time.Duration
	target    media.RenderTarget

	callbacks []callback
	nextID    int

	// Counters for assertions.
	PrepareRequests int
	Stops           int
	Pauses          int
}

// Spec returns the spec the player was created with.
func (p *VideoPlayer) Spec() media.VideoSpec { return p.spec }

func (p *VideoPlayer) Prepare() {
	if p.preparing || p.prepared {
		return
	}
	p.preparing = true
	p.remaining = p.latency
	p.PrepareRequests++
}

func (p *VideoPlayer) IsPreparing() bool { return p.preparing }
func (p *VideoPlayer) IsPrepared() bool  { return p.prepared }

// Play prepares the player if needed and starts playback once prepared.
func (p *VideoPlayer) Play() {
	p.Prepare()
	p.playing = true
}

func (p *VideoPlayer) Pause() {
	p.playing = false
	p.Pauses++
}

func (p *VideoPlayer) Stop() {
	p.playing = false
	p.preparing = false
	p.prepared = false
	p.t = 0
	p.Stops++
}

func (p *VideoPlayer) IsPlaying() bool { return p.playing && p.prepared }

func (p *VideoPlayer) Time() time.Duration { return p.t }
func (p *VideoPlayer) Seek(t time.Duration) { p.t = t }

func (p *VideoPlayer) FrameSize() (int, int, bool) {
	if p.spec.Clip != nil || p.prepared {
		return p.frame[0], p.frame[1], true
	}
	return 0, 0, false
}

func (p *VideoPlayer) AudioTrackCount() int { return p.tracks }

func (p *VideoPlayer) SetTrackVolume(track int, volume float32) {
	if track >= 0 && track < len(p.volumes) {
		p.volumes[track] = volume
	}
}

// TrackVolume returns the last volume set on a track.
func (p *VideoPlayer) TrackVolume(track int) float32 { return p.volumes[track] }

func (p *VideoPlayer) SetTarget(rt media.RenderTarget) { p.target = rt }

// Target returns the render target the player decodes into.
func (p *VideoPlayer) Target() media.RenderTarget { return p.target }

func (p *VideoPlayer) OnPrepared(fn func()) func() {
	p.nextID++
	id := p.nextID
	p.callbacks = append(p.callbacks, callback{id: id, fn: fn})
	return func() {
		for i, cb := range p.callbacks {
			if cb.id == id {
				p.callbacks = append(p.callbacks[:i], p.callbacks[i+1:]...)
				return
			}
		}
	}
}

// Pending returns the number of registered prepare callbacks.
func (p *VideoPlayer) Pending() int { return len(p.callbacks) }

// Complete finishes a pending preparation immediately.
func (p *VideoPlayer) Complete() {
	if !p.preparing {
		return
	}
	p.preparing = false
	p.prepared = true
	p.remaining = 0

	cbs := p.callbacks
	p.callbacks = nil
	for _, cb := range cbs {
		cb.fn()
	}
}

func (p *VideoPlayer) advance(dt float64) {
	if p.preparing {
		p.remaining -= dt
		if p.remaining <= 0 {
			p.Complete()
		}
	}
	if p.playing && p.prepared {
		p.t += time.Duration(dt * float64(time.Second))
		if p.length > 0 && p.t >= p.length {
			if p.spec.Loop {
				p.t %= p.length
			} else {
				p.t = p.length
				p.playing = false
			}
		}
	}
}
