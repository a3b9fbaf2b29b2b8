// Package viewer wires the tour systems together and advances them once per
// tick in a fixed order.
package viewer

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/config"
	"github.com/Faultbox/vour/internal/location"
	"github.com/Faultbox/vour/internal/manager"
	"github.com/Faultbox/vour/internal/media"
	"github.com/Faultbox/vour/internal/metrics"
	"github.com/Faultbox/vour/internal/player"
	"github.com/Faultbox/vour/internal/popup"
	"github.com/Faultbox/vour/internal/transition"
	"github.com/Faultbox/vour/internal/view"
	"github.com/Faultbox/vour/internal/world"
	"github.com/Faultbox/vour/pkg/math"
)

var (
	ErrUnknownEdge  = errors.New("unknown teleport")
	ErrUnknownPopup = errors.New("unknown popup")
	ErrNotStarted   = errors.New("viewer not started")
)

// Ticker is implemented by engines that need the frame delta.
type Ticker interface {
	Update(dt float64)
}

// Options are the collaborators of a viewer.
type Options struct {
	Config *config.Config
	World  *world.World
	// Loader rereads edited world files. Nil uses a fresh one.
	Loader *world.Loader
	Engine media.Engine
	// Overlay is required. Scenes and UI may be nil.
	Overlay media.Overlay
	Scenes  media.SceneLoader
	UI      media.VideoUI
	// Registerer receives the transition metrics. Nil keeps them private.
	Registerer prometheus.Registerer
	Log        *zap.Logger
}

// Viewer owns every system of a running tour.
type Viewer struct {
	cfg    *config.Config
	log    *zap.Logger
	world  *world.World
	loader *world.Loader

	engine   media.Engine
	player   *player.Desktop
	registry *view.Registry
	mgr      *manager.Manager
	fader    *transition.Fader
	teleport *transition.Teleporter
	popups   *popup.Set
	metrics  *metrics.Transition

	started bool
	elapsed float64
}

// New builds every system. Nothing is shown until Start.
func New(opts Options) (*Viewer, error) {
	if opts.World == nil {
		return nil, errors.New("viewer: no world")
	}
	if opts.Engine == nil || opts.Overlay == nil {
		return nil, errors.New("viewer: engine and overlay are required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	v := &Viewer{
		cfg:     cfg,
		log:     log,
		world:   opts.World,
		loader:  opts.Loader,
		engine:  opts.Engine,
		metrics: metrics.NewTransition(opts.Registerer),
	}

	if v.loader == nil {
		v.loader = world.NewLoader(nil, log.Named("world"))
	}

	var spawn math.Vec3
	if opts.World.Start != nil {
		spawn = opts.World.Start.Position
	}
	pc := cfg.Player
	v.player = player.NewDesktop(player.Config{
		CenterCamera:     pc.CenterCamera,
		MouseSensitivity: pc.MouseSensitivity,
		EyeHeight:        pc.EyeHeight,
		FOV:              pc.FOV,
		SurfaceDistance:  pc.SurfaceDistance,
	}, spawn, log.Named("player"))

	v.registry = view.NewRegistry(view.Deps{
		Engine:   opts.Engine,
		Scenes:   opts.Scenes,
		UI:       opts.UI,
		Viewport: v.player,
		Log:      log.Named("view"),
		Size:     cfg.Media.DefaultSize,
	})

	v.mgr = manager.New(manager.Config{
		StreamingRoot: cfg.World.StreamingRoot,
		Strict:        cfg.Debug.Strict,
	}, opts.Engine, v.registry, opts.World.Locations, v.player, log.Named("manager"))

	v.fader = transition.NewFader(opts.Overlay, cfg.Transition.FadeDuration.Seconds(), v.player.CameraPosition)
	v.teleport = transition.NewTeleporter(transition.Config{
		WaitUntilReady: cfg.Transition.WaitUntilReady,
		SettleDelay:    cfg.Transition.SettleDelay.Seconds(),
		ReadyTimeout:   cfg.Transition.ReadyTimeout.Seconds(),
	}, v.mgr, v.fader, v.player, v.metrics, log.Named("transition"))

	v.popups = popup.NewSet(opts.World.Popups)
	return v, nil
}

// Start enters the world's start location behind an opaque blink, then
// fades in.
func (v *Viewer) Start() error {
	start, err := v.world.StartLocation()
	if err != nil {
		return err
	}

	v.fader.Set(1)
	hasVideo, err := v.mgr.Start(start)
	if err != nil {
		return fmt.Errorf("starting at %s: %w", start.Name, err)
	}
	v.popups.Init(v.engine, v.log.Named("popup"))
	v.fader.Play(0)
	v.started = true

	v.log.Info("tour started",
		zap.String("location", start.Name),
		zap.Bool("video", hasVideo),
		zap.Int("popups", len(v.popups.Points())))
	return nil
}

// Step advances every system by dt seconds: media engine, blink, teleport,
// popups.
func (v *Viewer) Step(dt float64) {
	if t, ok := v.engine.(Ticker); ok {
		t.Update(dt)
	}
	v.fader.Update(dt)
	v.teleport.Update(dt)
	v.popups.Update(dt, v.player.CameraPosition())
	v.elapsed += dt
}

// Elapsed returns the simulated time since New.
func (v *Viewer) Elapsed() float64 { return v.elapsed }

// Teleport takes the named edge.
func (v *Viewer) Teleport(name string) error {
	if !v.started {
		return ErrNotStarted
	}
	e, ok := v.world.Edge(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownEdge)
	}
	return v.TakeEdge(e)
}

// TakeEdge starts a teleport along e.
func (v *Viewer) TakeEdge(e *location.TeleportEdge) error {
	if !v.started {
		return ErrNotStarted
	}
	if e.From != nil && e.From != v.mgr.ActiveLocation() {
		v.log.Warn("teleport taken from a hidden location",
			zap.Stringer("edge", e),
			zap.String("active", v.mgr.ActiveLocation().Name))
	}
	return v.teleport.Start(e)
}

// Interact toggles the named popup.
func (v *Viewer) Interact(name string) error {
	for _, p := range v.popups.Points() {
		if p.Name == name {
			p.Interact()
			return nil
		}
	}
	return fmt.Errorf("%q: %w", name, ErrUnknownPopup)
}

// Reload applies an edited world on top of the running one and refreshes
// the active view when its location changed.
func (v *Viewer) Reload(src *world.World) {
	changed := v.world.Apply(src, v.log)
	active := v.mgr.ActiveLocation()
	for _, l := range changed {
		l.Init(v.engine, v.cfg.World.StreamingRoot, v.log)
		if l != active {
			continue
		}
		moved := v.mgr.ViewFor(l) != v.mgr.ActiveView()
		if moved {
			v.mgr.Activate(l)
		}
		// The view may still hold l from an earlier bind; rebind regardless.
		v.mgr.SetDataToView(l)
		if moved {
			v.player.OnNewLocation(l)
		}
		v.log.Info("active location reloaded", zap.String("location", l.Name))
	}
}

// Close stops every video and clears the blink.
func (v *Viewer) Close() {
	v.mgr.Teardown()
	for _, p := range v.popups.Points() {
		if vp := p.Player(); vp != nil && vp.IsPlaying() {
			vp.Stop()
		}
	}
	v.fader.Set(0)
	v.started = false
	v.log.Info("tour closed", zap.Float64("elapsed", v.elapsed))
}

// Manager returns the location manager.
func (v *Viewer) Manager() *manager.Manager { return v.mgr }

// Teleporter returns the teleport state machine.
func (v *Viewer) Teleporter() *transition.Teleporter { return v.teleport }

// Fader returns the blink.
func (v *Viewer) Fader() *transition.Fader { return v.fader }

// Player returns the camera rig.
func (v *Viewer) Player() *player.Desktop { return v.player }

// Popups returns the popup points.
func (v *Viewer) Popups() *popup.Set { return v.popups }

// Metrics returns the transition collectors.
func (v *Viewer) Metrics() *metrics.Transition { return v.metrics }
