// Package manager tracks the active location and the view presenting it.
package manager

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/location"
	"github.com/Faultbox/vour/internal/media"
	"github.com/Faultbox/vour/internal/player"
	"github.com/Faultbox/vour/internal/view"
)

// ErrNoStartLocation is returned by Start when no start location is given.
var ErrNoStartLocation = errors.New("start location is not assigned")

// Config holds manager options.
type Config struct {
	// StreamingRoot prefixes streaming video paths.
	StreamingRoot string
	// Strict panics on invariant violations instead of logging them.
	Strict bool
}

// Manager owns the active location and active view.
type Manager struct {
	cfg       Config
	engine    media.Engine
	registry  *view.Registry
	locations []*location.Location
	player    player.Controller
	log       *zap.Logger

	active     *location.Location
	activeView *view.View
}

// New creates a manager over a fixed set of locations.
func New(cfg Config, engine media.Engine, registry *view.Registry, locations []*location.Location, p player.Controller, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		cfg:       cfg,
		engine:    engine,
		registry:  registry,
		locations: locations,
		player:    p,
		log:       log,
	}
}

// Start initializes every location and enters start. It reports whether any
// video location exists.
func (m *Manager) Start(start *location.Location) (hasVideo bool, err error) {
	if start == nil {
		return false, ErrNoStartLocation
	}

	m.DeactivateViews()
	m.DeactivateLocations()

	for _, l := range m.locations {
		l.Init(m.engine, m.cfg.StreamingRoot, m.log)
		if l.Kind.IsVideo() {
			hasVideo = true
		}
	}

	m.Activate(start)
	m.SetData(start)

	if hasVideo {
		n := start.PreloadLinked()
		m.log.Debug("preloaded linked videos", zap.String("location", start.Name), zap.Int("count", n))
	}

	m.log.Info("started",
		zap.String("location", start.Name),
		zap.Int("locations", len(m.locations)))
	return hasVideo, nil
}

// Locations returns every location known to the manager.
func (m *Manager) Locations() []*location.Location { return m.locations }

// Registry returns the view registry.
func (m *Manager) Registry() *view.Registry { return m.registry }

// ActiveLocation returns the current location.
func (m *Manager) ActiveLocation() *location.Location { return m.active }

// ActiveView returns the displayed view.
func (m *Manager) ActiveView() *view.View { return m.activeView }

// ViewFor returns the view l resolves to.
func (m *Manager) ViewFor(l *location.Location) *view.View {
	return m.registry.For(l)
}

// DeactivateViews hides every view.
func (m *Manager) DeactivateViews() {
	for _, v := range m.registry.All() {
		v.SetActive(false)
	}
	m.activeView = nil
}

// DeactivateLocations hides every location.
func (m *Manager) DeactivateLocations() {
	for _, l := range m.locations {
		l.SetVisible(false)
	}
}

// Activate hides everything, then shows l and its view.
func (m *Manager) Activate(l *location.Location) {
	m.DeactivateViews()
	m.DeactivateLocations()

	l.SetVisible(true)
	v := m.registry.For(l)
	v.SetActive(true)
	m.active = l
	m.activeView = v
}

// SwitchActiveView hides the current view, then shows and binds the view of
// next.
func (m *Manager) SwitchActiveView(next *location.Location) {
	v := m.registry.For(next)
	if m.activeView != nil {
		m.activeView.SetActive(false)
	}
	v.SetActive(true)
	v.Bind(next)
	m.activeView = v
}

// SetDataToView rebinds l's view without touching visibility.
func (m *Manager) SetDataToView(l *location.Location) {
	m.registry.For(l).Bind(l)
}

// SetData makes sure l's view presents l and notifies the player. A view
// already bound to l is left as is.
func (m *Manager) SetData(l *location.Location) {
	if v := m.registry.For(l); v.Location() != l {
		v.Bind(l)
	}
	if m.player != nil {
		m.player.OnNewLocation(l)
	}
}

// MoveTo hides from, shows to and makes to the active location.
func (m *Manager) MoveTo(from, to *location.Location) {
	if from != nil && from != to {
		from.SetVisible(false)
	}
	to.SetVisible(true)
	m.active = to
	m.CheckInvariant()
}

// Invariant returns an error when the active view is not the one the active
// location resolves to.
func (m *Manager) Invariant() error {
	if m.active == nil {
		return nil
	}
	want := m.registry.For(m.active)
	if m.activeView != want {
		got := "none"
		if m.activeView != nil {
			got = m.activeView.Slot().String()
		}
		return fmt.Errorf("active view %s diverges from %s (want %s)", got, m.active, want.Slot())
	}
	return nil
}

// CheckInvariant panics in strict mode and logs otherwise.
func (m *Manager) CheckInvariant() {
	err := m.Invariant()
	if err == nil {
		return
	}
	if m.cfg.Strict {
		panic(err)
	}
	m.log.Error("invariant violated", zap.Error(err))
}

// Teardown stops every video.
func (m *Manager) Teardown() {
	for _, l := range m.locations {
		l.Teardown()
	}
}
