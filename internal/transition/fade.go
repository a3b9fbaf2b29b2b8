// Package transition implements the blink fade and the teleport sequence it
// masks.
package transition

import (
	"github.com/Faultbox/vour/internal/media"
	"github.com/Faultbox/vour/pkg/math"
)

// DefaultFadeDuration is the blink duration in seconds.
const DefaultFadeDuration = 0.1

type fadeState uint8

const (
	fadeRunning fadeState = iota
	fadeDone
	fadeCanceled
)

// Fade is the handle of one Play call.
type Fade struct {
	target float64
	state  fadeState
}

// Target returns the alpha the fade settles at.
func (f *Fade) Target() float64 { return f.target }

// Done reports whether the fade settled at its target.
func (f *Fade) Done() bool { return f.state == fadeDone }

// Canceled reports whether a newer Play superseded the fade.
func (f *Fade) Canceled() bool { return f.state == fadeCanceled }

// Fader animates the blink overlay's alpha. Only one fade writes at a time.
type Fader struct {
	overlay  media.Overlay
	duration float64
	follow   func() math.Vec3

	alpha   float64
	start   float64
	elapsed float64
	current *Fade
}

// NewFader creates a fader over overlay. follow, if set, supplies the
// position the overlay is moved to when a fade starts.
func NewFader(overlay media.Overlay, duration float64, follow func() math.Vec3) *Fader {
	return &Fader{overlay: overlay, duration: duration, follow: follow}
}

// Alpha returns the current alpha.
func (f *Fader) Alpha() float64 { return f.alpha }

// Busy reports whether a fade is running.
func (f *Fader) Busy() bool {
	return f.current != nil && f.current.state == fadeRunning
}

// Set cancels any running fade and jumps to a.
func (f *Fader) Set(a float64) {
	f.cancel()
	f.write(a)
}

// Play cancels any running fade and starts animating from the current alpha
// to target.
func (f *Fader) Play(target float64) *Fade {
	f.cancel()

	if f.follow != nil {
		f.overlay.MoveTo(f.follow())
	}

	fade := &Fade{target: target}
	f.current = fade
	f.start = f.alpha
	f.elapsed = 0
	if f.duration <= 0 {
		f.settle()
	}
	return fade
}

// Update advances the running fade by dt seconds.
func (f *Fader) Update(dt float64) {
	if !f.Busy() {
		return
	}
	f.elapsed += dt
	if f.elapsed >= f.duration {
		f.settle()
		return
	}
	f.write(math.Lerp(f.start, f.current.target, f.elapsed/f.duration))
}

func (f *Fader) settle() {
	f.write(f.current.target)
	f.current.state = fadeDone
}

func (f *Fader) cancel() {
	if f.Busy() {
		f.current.state = fadeCanceled
	}
}

func (f *Fader) write(a float64) {
	f.alpha = a
	f.overlay.SetAlpha(a)
}
