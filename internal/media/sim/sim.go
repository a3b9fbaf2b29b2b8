// Package sim is an in-process media engine with no GPU and no decoder.
//
// Video preparation completes after a configurable latency measured in
// simulated seconds passed to Engine.Update, so every asynchronous path in
// the viewer can be driven deterministically from a single goroutine.
package sim

import (
	"fmt"

	"github.com/Faultbox/vour/internal/media"
	"github.com/Faultbox/vour/pkg/math"
)

// Default preparation latencies.
const (
	DefaultLocalLatency  = 0.05
	DefaultRemoteLatency = 0.5
)

// Engine implements media.Engine.
type Engine struct {
	// LocalLatency and RemoteLatency are preparation times in seconds for
	// clip-backed and URL-backed players.
	LocalLatency  float64
	RemoteLatency float64

	// RemoteFrames maps a URL to the frame size it decodes to. Unknown URLs
	// decode to DefaultRemoteFrame.
	RemoteFrames       map[string][2]int
	DefaultRemoteFrame [2]int
	AudioTracks        int

	loading  media.Texture
	surfaces map[string]*Surface
	targets  []*RenderTarget
	players  []*VideoPlayer

	Overlay *Overlay
	Scenes  *SceneLoader
	UI      *VideoUI
}

// New creates an engine with default latencies.
func New() *Engine {
	return &Engine{
		LocalLatency:       DefaultLocalLatency,
		RemoteLatency:      DefaultRemoteLatency,
		RemoteFrames:       make(map[string][2]int),
		DefaultRemoteFrame: [2]int{1920, 1080},
		AudioTracks:        2,
		loading:            &Texture{Name: "loading", W: 1, H: 1},
		surfaces:           make(map[string]*Surface),
		Overlay:            &Overlay{},
		Scenes:             &SceneLoader{},
		UI:                 &VideoUI{},
	}
}

// Update advances every player by dt seconds and fires due callbacks.
func (e *Engine) Update(dt float64) {
	for _, p := range e.players {
		p.advance(dt)
	}
}

// NewSurface implements media.Engine.
func (e *Engine) NewSurface(name string) media.Surface {
	s := &Surface{Name: name}
	e.surfaces[name] = s
	return s
}

// Surface returns the surface created under name.
func (e *Engine) Surface(name string) *Surface {
	return e.surfaces[name]
}

// NewRenderTarget implements media.Engine.
func (e *Engine) NewRenderTarget(w, h int) media.RenderTarget {
	rt := &RenderTarget{W: w, H: h}
	e.targets = append(e.targets, rt)
	return rt
}

// RenderTargets returns every target ever created, released ones included.
func (e *Engine) RenderTargets() []*RenderTarget {
	return e.targets
}

// NewVideoPlayer implements media.Engine.
func (e *Engine) NewVideoPlayer(spec media.VideoSpec) media.VideoPlayer {
	p := &VideoPlayer{spec: spec, tracks: e.AudioTracks}
	if spec.Clip != nil {
		p.latency = e.LocalLatency
		p.frame = [2]int{spec.Clip.Width, spec.Clip.Height}
		p.length = spec.Clip.Length
	} else {
		p.latency = e.RemoteLatency
		p.frame = e.DefaultRemoteFrame
		if f, ok := e.RemoteFrames[spec.URL]; ok {
			p.frame = f
		}
	}
	p.volumes = make([]float32, p.tracks)
	e.players = append(e.players, p)
	return p
}

// Players returns every player created by the engine.
func (e *Engine) Players() []*VideoPlayer {
	return e.players
}

// SetLoadingTexture replaces the placeholder shown while videos prepare.
func (e *Engine) SetLoadingTexture(tex media.Texture) {
	e.loading = tex
}

// LoadingTexture implements media.Engine.
func (e *Engine) LoadingTexture() media.Texture {
	return e.loading
}

// Texture is a named still texture.
type Texture struct {
	Name string
	W, H int
}

func (t *Texture) Width() int     { return t.W }
func (t *Texture) Height() int    { return t.H }
func (t *Texture) String() string { return fmt.Sprintf("%s(%dx%d)", t.Name, t.W, t.H) }

// RenderTarget records whether it has been released.
type RenderTarget struct {
	W, H     int
	Released bool
}

func (r *RenderTarget) Width() int  { return r.W }
func (r *RenderTarget) Height() int { return r.H }
func (r *RenderTarget) Release()    { r.Released = true }

// Surface records the last state written to it.
type Surface struct {
	Name       string
	Attached   int
	Texture    media.Texture
	Layout     media.StereoLayout
	Projection media.Projection
	Rotation   math.Vec3
	Scale      math.Vec3
	Visible    bool
}

func (s *Surface) Attach() { s.Attached++ }

func (s *Surface) SetTexture(tex media.Texture, layout media.StereoLayout) {
	s.Texture = tex
	s.Layout = layout
}

func (s *Surface) SetProjection(p media.Projection, rotation math.Vec3) {
	s.Projection = p
	s.Rotation = rotation
}

func (s *Surface) SetScale(scale math.Vec3) { s.Scale = scale }
func (s *Surface) SetVisible(v bool)        { s.Visible = v }

// Overlay records the blink alpha.
type Overlay struct {
	Alpha    float64
	Position math.Vec3
	Writes   int
}

func (o *Overlay) SetAlpha(a float64) {
	o.Alpha = a
	o.Writes++
}

func (o *Overlay) MoveTo(pos math.Vec3) { o.Position = pos }

// SceneLoader records requested scenes.
type SceneLoader struct {
	Loaded []string
}

func (l *SceneLoader) LoadScene(name string) {
	l.Loaded = append(l.Loaded, name)
}

// VideoUI records the state of the playback overlay.
type VideoUI struct {
	Enabled bool
	Player  media.VideoPlayer
	Options media.VideoUIOptions
	Volume  float32
}

func (u *VideoUI) Enable(p media.VideoPlayer, opts media.VideoUIOptions, volume float32) {
	u.Enabled = true
	u.Player = p
	u.Options = opts
	u.Volume = volume
}

func (u *VideoUI) Disable() {
	u.Enabled = false
	u.Player = nil
}
