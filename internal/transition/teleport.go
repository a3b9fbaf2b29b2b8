package transition

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/location"
	"github.com/Faultbox/vour/internal/manager"
	"github.com/Faultbox/vour/internal/metrics"
	"github.com/Faultbox/vour/internal/player"
	"github.com/Faultbox/vour/internal/view"
)

// ErrNoTarget is returned when a location switch has nowhere to go.
var ErrNoTarget = errors.New("teleport has no target location")

// State is a teleport phase.
type State uint8

const (
	StateIdle State = iota
	StateFadeOut
	StateSwapping
	StateWaitingReady
	StateFadeIn
)

var stateNames = [...]string{"idle", "fade-out", "swapping", "waiting-ready", "fade-in"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// Config holds teleport timing.
type Config struct {
	// WaitUntilReady holds the blink until the target view is ready.
	WaitUntilReady bool
	// SettleDelay is the fixed pause in seconds used when not waiting.
	SettleDelay float64
	// ReadyTimeout bounds WaitUntilReady in seconds. Zero waits forever.
	ReadyTimeout float64
}

// DefaultConfig returns the stock timing.
func DefaultConfig() Config {
	return Config{
		WaitUntilReady: true,
		SettleDelay:    0.2,
		ReadyTimeout:   10,
	}
}

// Teleporter runs one teleport at a time:
// idle -> fade-out -> swapping -> waiting-ready -> fade-in -> idle.
//
// Starting a teleport while another runs abandons the old one where it is.
// The new swap establishes the final state.
type Teleporter struct {
	cfg     Config
	mgr     *manager.Manager
	fader   *Fader
	player  player.Controller
	metrics *metrics.Transition
	log     *zap.Logger

	state State
	edge  *location.TeleportEdge
	fade  *Fade

	target    *view.View
	waitReady bool
	waited    float64
}

// NewTeleporter wires a teleporter. m may be nil.
func NewTeleporter(cfg Config, mgr *manager.Manager, fader *Fader, p player.Controller, m *metrics.Transition, log *zap.Logger) *Teleporter {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewTransition(nil)
	}
	return &Teleporter{cfg: cfg, mgr: mgr, fader: fader, player: p, metrics: m, log: log}
}

// State returns the current phase.
func (t *Teleporter) State() State { return t.state }

// Busy reports whether a teleport is running.
func (t *Teleporter) Busy() bool { return t.state != StateIdle }

// Start begins taking edge, cancelling any running teleport.
func (t *Teleporter) Start(edge *location.TeleportEdge) error {
	if edge == nil {
		return ErrNoTarget
	}
	if edge.Kind == location.SwitchLocation && edge.Target == nil {
		return fmt.Errorf("%s: %w", edge, ErrNoTarget)
	}

	if t.Busy() {
		t.metrics.Canceled.Inc()
		t.log.Debug("teleport superseded",
			zap.Stringer("edge", t.edge),
			zap.Stringer("state", t.state))
	}

	t.edge = edge
	t.target = nil
	t.waitReady = false
	t.waited = 0
	t.state = StateFadeOut
	t.fade = t.fader.Play(1)
	t.metrics.Started.WithLabelValues(edge.Kind.String()).Inc()

	t.log.Debug("teleport started", zap.Stringer("edge", edge))
	return nil
}

// Update advances the sequence. Call it once per tick after the fader.
func (t *Teleporter) Update(dt float64) {
	switch t.state {
	case StateFadeOut:
		if t.fade.Done() {
			t.state = StateSwapping
			t.swap()
			t.state = StateWaitingReady
		}

	case StateWaitingReady:
		t.waited += dt
		if t.waitReady {
			if t.target.Ready() {
				t.fadeIn()
			} else if t.cfg.ReadyTimeout > 0 && t.waited >= t.cfg.ReadyTimeout {
				t.metrics.ReadyTimeouts.Inc()
				t.log.Warn("target view never became ready",
					zap.Stringer("edge", t.edge),
					zap.Float64("waited", t.waited))
				t.fadeIn()
			}
			return
		}
		if t.waited >= t.cfg.SettleDelay {
			t.fadeIn()
		}

	case StateFadeIn:
		if t.fade.Done() {
			t.state = StateIdle
			t.metrics.Completed.WithLabelValues(t.edge.Kind.String()).Inc()
			t.log.Debug("teleport finished", zap.Stringer("edge", t.edge))
		}
	}
}

func (t *Teleporter) swap() {
	e := t.edge
	if e.Kind == location.RepositionOnly {
		if e.ResetRotation {
			t.player.ResetRotation()
		}
		t.reposition()
		return
	}

	to := e.Target
	// SetData resets through OnNewLocation for these targets.
	if e.ResetRotation && !player.ResetsOnEnter(to) {
		t.player.ResetRotation()
	}

	from := t.mgr.ActiveLocation()
	if from == nil {
		from = e.From
	}

	t.mgr.SwitchActiveView(to)
	t.mgr.SetData(to)

	if from != nil {
		from.UnloadLinked(to)
	}
	t.metrics.Preloads.Add(float64(to.PreloadLinked()))

	t.mgr.MoveTo(from, to)

	t.target = t.mgr.ViewFor(to)
	t.waitReady = t.cfg.WaitUntilReady && !t.target.Ready()
}

// reposition puts the camera over the teleport point, keeping the rig's
// height and the camera's offset inside the rig.
func (t *Teleporter) reposition() {
	pos := t.player.Position()
	camOffset := pos.Sub(t.player.CameraPosition()).Horizontal()
	t.player.SetPosition(t.edge.Position.Add(camOffset).WithY(pos.Y))
}

func (t *Teleporter) fadeIn() {
	t.metrics.ReadyWait.Observe(t.waited)
	t.state = StateFadeIn
	t.fade = t.fader.Play(0)
}
