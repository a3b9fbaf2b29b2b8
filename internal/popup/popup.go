// Package popup implements the info and video points placed inside
// locations. Interacting with a point opens or closes its panel.
package popup

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/location"
	"github.com/Faultbox/vour/internal/media"
	"github.com/Faultbox/vour/pkg/math"
)

// Panel animation times in seconds. Closing is faster.
const (
	OpenTime  = 0.15
	CloseTime = OpenTime / 1.5
)

// Kind is the panel type.
type Kind uint8

const (
	KindInfo Kind = iota
	KindVideo
)

// ImageSide places an info panel's picture.
type ImageSide uint8

const (
	LeftImage ImageSide = iota
	RightImage
)

// Info is the content of an info panel.
type Info struct {
	Title string
	Text  string
	Image string
	Side  ImageSide
	// Custom replaces the stock panel with a host-provided object.
	Custom       bool
	CustomObject string
}

// Point is one popup placed in a location.
type Point struct {
	Name     string
	Kind     Kind
	Location *location.Location
	Position math.Vec3
	Facing   bool

	Info   Info
	Video  media.VideoSpec
	Volume float32

	player media.VideoPlayer

	open     bool
	scale    float64
	velocity float64
	shown    bool
	yaw      float32
}

// Init creates the video player of a video point and reports configuration
// errors.
func (p *Point) Init(engine media.Engine, log *zap.Logger) {
	switch p.Kind {
	case KindInfo:
		if p.Info.Custom && p.Info.CustomObject == "" {
			log.Error("info point has no custom panel object", zap.String("point", p.Name))
		}
	case KindVideo:
		if p.player != nil {
			return
		}
		if p.Video.Clip == nil && p.Video.URL == "" {
			log.Error("video point has no video", zap.String("point", p.Name))
			return
		}
		p.player = engine.NewVideoPlayer(p.Video)
	}
}

// Player returns the video point's player.
func (p *Point) Player() media.VideoPlayer { return p.player }

// Open reports the requested panel state.
func (p *Point) Open() bool { return p.open }

// Shown reports whether the panel is drawn, which includes the closing
// animation.
func (p *Point) Shown() bool { return p.shown }

// Scale returns the panel scale in [0, 1].
func (p *Point) Scale() float64 { return p.scale }

// Yaw returns the point's heading in degrees.
func (p *Point) Yaw() float32 { return p.yaw }

// Interact toggles the panel. A toggle during an animation reverses it.
func (p *Point) Interact() {
	p.open = !p.open
	if p.open {
		p.shown = true
	}
	if p.player == nil {
		return
	}
	if p.open {
		for i := 0; i < p.player.AudioTrackCount(); i++ {
			p.player.SetTrackVolume(i, p.Volume)
		}
		p.player.Play()
	} else {
		p.player.Stop()
	}
}

// Update advances the open/close animation.
func (p *Point) Update(dt float64) {
	if !p.shown {
		return
	}
	target, smooth := 0.0, CloseTime
	if p.open {
		target, smooth = 1, OpenTime
	}
	if math.RoundTo(p.scale, 2) == target {
		p.scale = target
		if !p.open {
			p.shown = false
		}
		return
	}
	p.scale = math.SmoothDamp(p.scale, target, &p.velocity, smooth, dt)
}

// FaceTowards turns the point to look at pos around the vertical axis.
func (p *Point) FaceTowards(pos math.Vec3) {
	if !p.Facing {
		return
	}
	d := pos.Sub(p.Position)
	p.yaw = float32(gomath.Atan2(float64(d.X), float64(d.Z))*180/gomath.Pi)
}

// Set holds every point of a world.
type Set struct {
	points  []*Point
	visible map[*location.Location]bool
}

// NewSet creates a set over points.
func NewSet(points []*Point) *Set {
	return &Set{points: points, visible: make(map[*location.Location]bool)}
}

// Points returns all points.
func (s *Set) Points() []*Point { return s.points }

// Init initializes every point.
func (s *Set) Init(engine media.Engine, log *zap.Logger) {
	for _, p := range s.points {
		p.Init(engine, log)
	}
}

// In returns the points placed in l.
func (s *Set) In(l *location.Location) []*Point {
	var out []*Point
	for _, p := range s.points {
		if p.Location == l {
			out = append(out, p)
		}
	}
	return out
}

// Update animates the points of visible locations. Points whose location
// just became visible turn towards viewer; points whose location was hidden
// snap closed.
func (s *Set) Update(dt float64, viewer math.Vec3) {
	for _, p := range s.points {
		vis := p.Location == nil || p.Location.Visible()
		was := s.visible[p.Location]
		if !vis {
			if p.open {
				p.Interact()
			}
			p.scale, p.velocity, p.shown = 0, 0, false
			continue
		}
		if !was {
			p.FaceTowards(viewer)
		}
		p.Update(dt)
	}
	for _, p := range s.points {
		s.visible[p.Location] = p.Location == nil || p.Location.Visible()
	}
}
