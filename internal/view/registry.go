// Package view presents locations. One long-lived View exists per slot and is
// rebound every time the player enters a location of that slot.
package view

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/location"
	"github.com/Faultbox/vour/internal/media"
)

// ErrRegistryIncomplete means a slot was looked up before its view existed.
var ErrRegistryIncomplete = errors.New("view registry not initialized")

// DefaultSize is the uniform surface size used when no source size is known.
const DefaultSize = 4

// Slot is the view category a location resolves to.
type Slot uint8

const (
	SlotEmpty Slot = iota
	SlotImageFlat
	SlotImagePanorama
	SlotVideoFlat
	SlotVideoPanorama
	SlotScene

	slotCount
)

var slotNames = [...]string{"empty", "image-flat", "image-panorama", "video-flat", "video-panorama", "scene"}

func (s Slot) String() string {
	if s < slotCount {
		return slotNames[s]
	}
	return fmt.Sprintf("Slot(%d)", s)
}

// Slots lists every slot in registry order.
func Slots() []Slot {
	out := make([]Slot, 0, slotCount)
	for s := SlotEmpty; s < slotCount; s++ {
		out = append(out, s)
	}
	return out
}

// Resolve maps a kind and display mode to a slot. Unmapped pairs fall back
// to SlotEmpty.
func Resolve(kind location.Kind, display location.DisplayMode) Slot {
	switch kind {
	case location.KindEmpty:
		return SlotEmpty
	case location.KindScene:
		return SlotScene
	case location.KindImage:
		switch {
		case display == location.Display2D || display == location.Display3D:
			return SlotImageFlat
		case display.IsPanorama():
			return SlotImagePanorama
		}
	case location.KindVideo:
		switch {
		case display == location.Display2D || display == location.Display3D:
			return SlotVideoFlat
		case display.IsPanorama():
			return SlotVideoPanorama
		}
	}
	return SlotEmpty
}

// Viewport reports the world-space height that fills the screen at the media
// surface, used by locations scaled to fullscreen.
type Viewport interface {
	FullscreenHeight() float32
}

// Deps are the collaborators shared by all views.
type Deps struct {
	Engine media.Engine
	Scenes media.SceneLoader
	// UI and Viewport are optional.
	UI       media.VideoUI
	Viewport Viewport
	Log      *zap.Logger
	// Size is the uniform surface size. Zero means DefaultSize.
	Size float32
}

// Registry holds one view per slot.
type Registry struct {
	views [slotCount]*View
}

// NewRegistry creates the six views.
func NewRegistry(deps Deps) *Registry {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Size == 0 {
		deps.Size = DefaultSize
	}

	r := &Registry{}
	for _, s := range Slots() {
		r.views[s] = newView(s, deps)
	}
	return r
}

// ViewFor returns the view of slot s. It panics if the registry was not
// built by NewRegistry.
func (r *Registry) ViewFor(s Slot) *View {
	if s >= slotCount || r.views[s] == nil {
		panic(fmt.Errorf("%w: slot %s", ErrRegistryIncomplete, s))
	}
	return r.views[s]
}

// For returns the view l resolves to.
func (r *Registry) For(l *location.Location) *View {
	return r.ViewFor(Resolve(l.Kind, l.Display))
}

// All returns every view in slot order.
func (r *Registry) All() []*View {
	out := make([]*View, 0, slotCount)
	for _, s := range Slots() {
		out = append(out, r.ViewFor(s))
	}
	return out
}
