package location

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/media"
	"github.com/Faultbox/vour/pkg/math"
)

// Configuration errors. They are reported, never fatal.
var (
	ErrMissingMedia        = errors.New("missing media reference")
	ErrAmbiguousMedia      = errors.New("more than one media source set")
	ErrIncompatibleDisplay = errors.New("display mode not supported")
)

// Location is one navigable place.
//
// Locations are discovered once when the world loads and live until it is
// torn down. A video location owns its player, created by Init.
type Location struct {
	Name     string
	Kind     Kind
	Display  DisplayMode
	Layout   Layout3D
	Position math.Vec3

	// Image
	Texture media.Texture

	// Video
	Source        VideoSource
	Clip          *media.Clip
	StreamingPath string
	URL           string
	Loop          bool
	Volume        float32
	VideoUI       bool
	VideoUIVolume bool
	VideoUILoop   bool

	// Scene
	Scene string

	LockCamera        bool
	ScaleToFullscreen bool
	RotOffset         math.Vec3

	edges   []*TeleportEdge
	player  media.VideoPlayer
	visible bool
}

// New returns a location with the playback defaults of a freshly placed one.
func New(name string, kind Kind) *Location {
	return &Location{
		Name:          name,
		Kind:          kind,
		Loop:          true,
		Volume:        1,
		VideoUIVolume: true,
		VideoUILoop:   true,
	}
}

func (l *Location) String() string {
	return fmt.Sprintf("%s(%s/%s)", l.Name, l.Kind, l.Display)
}

// Link adds a teleport from l to target and returns it.
func (l *Location) Link(target *Location, kind TransitionKind, resetRotation bool) *TeleportEdge {
	e := &TeleportEdge{Target: target, Kind: kind, ResetRotation: resetRotation}
	l.AddEdge(e)
	return e
}

// AddEdge appends e to l's outgoing edges and sets its origin.
func (l *Location) AddEdge(e *TeleportEdge) {
	e.From = l
	l.edges = append(l.edges, e)
}

// Edges returns the outgoing teleports in placement order.
func (l *Location) Edges() []*TeleportEdge {
	return l.edges
}

// HasEdgeTo reports whether any outgoing teleport targets t.
func (l *Location) HasEdgeTo(t *Location) bool {
	for _, e := range l.edges {
		if e.Target == t {
			return true
		}
	}
	return false
}

// Player returns the video player, nil until Init for video locations.
func (l *Location) Player() media.VideoPlayer {
	return l.player
}

// Visible reports whether the location's placeables are shown.
func (l *Location) Visible() bool {
	return l.visible
}

// SetVisible shows or hides the location's placeables.
func (l *Location) SetVisible(v bool) {
	l.visible = v
}

// VideoSpec builds the player spec for l's source mode. Streaming paths are
// joined onto streamingRoot.
func (l *Location) VideoSpec(streamingRoot string) (media.VideoSpec, error) {
	spec := media.VideoSpec{Name: l.Name, Loop: l.Loop}
	switch l.Source {
	case SourceLocal:
		if l.Clip == nil {
			return spec, fmt.Errorf("%s: video clip: %w", l.Name, ErrMissingMedia)
		}
		spec.Clip = l.Clip
	case SourceStreamingPath:
		if strings.TrimSpace(l.StreamingPath) == "" {
			return spec, fmt.Errorf("%s: streaming video path: %w", l.Name, ErrMissingMedia)
		}
		spec.URL = path.Join(streamingRoot, l.StreamingPath)
	case SourceURL:
		if strings.TrimSpace(l.URL) == "" {
			return spec, fmt.Errorf("%s: video url: %w", l.Name, ErrMissingMedia)
		}
		spec.URL = l.URL
	}
	return spec, nil
}

// Init creates the video player of a video location if it has none yet.
// A missing source is logged and leaves the location without a player.
func (l *Location) Init(engine media.Engine, streamingRoot string, log *zap.Logger) {
	if !l.Kind.IsVideo() || l.player != nil {
		return
	}
	spec, err := l.VideoSpec(streamingRoot)
	if err != nil {
		log.Error("video player not created", zap.String("location", l.Name), zap.Error(err))
		return
	}
	l.player = engine.NewVideoPlayer(spec)
}

// ResetPlayer stops and drops the video player. The next Init creates a new
// one from the current source fields.
func (l *Location) ResetPlayer() {
	if l.player == nil {
		return
	}
	l.player.Stop()
	l.player = nil
}

// Validate checks the location's configuration invariants.
func (l *Location) Validate() error {
	var errs []error
	if l.Kind != KindScene && !l.Display.Valid() {
		errs = append(errs, fmt.Errorf("%s: %v: %w", l.Name, l.Display, ErrIncompatibleDisplay))
	}

	switch l.Kind {
	case KindVideo:
		set := 0
		if l.Clip != nil {
			set++
		}
		if strings.TrimSpace(l.StreamingPath) != "" {
			set++
		}
		if strings.TrimSpace(l.URL) != "" {
			set++
		}
		if _, err := l.VideoSpec(""); err != nil {
			errs = append(errs, err)
		} else if set > 1 {
			errs = append(errs, fmt.Errorf("%s: %w", l.Name, ErrAmbiguousMedia))
		}
	case KindScene:
		if strings.TrimSpace(l.Scene) == "" {
			errs = append(errs, fmt.Errorf("%s: scene: %w", l.Name, ErrMissingMedia))
		}
	}

	for i, e := range l.edges {
		if e.Kind == SwitchLocation && e.Target == nil {
			errs = append(errs, fmt.Errorf("%s: teleport %d has no target: %w", l.Name, i, ErrMissingMedia))
		}
	}
	return errors.Join(errs...)
}

// Teardown stops a playing video.
func (l *Location) Teardown() {
	if l.player != nil && l.player.IsPlaying() {
		l.player.Stop()
	}
}

// TeleportEdge is a directed link placed inside a location.
type TeleportEdge struct {
	Name          string
	From          *Location
	Target        *Location
	Kind          TransitionKind
	ResetRotation bool
	// Position of the teleport point in world space.
	Position math.Vec3
}

func (e *TeleportEdge) String() string {
	from, to := "?", "?"
	if e.From != nil {
		from = e.From.Name
	}
	if e.Target != nil {
		to = e.Target.Name
	}
	return fmt.Sprintf("%s -%s-> %s", from, e.Kind, to)
}
