// Package media defines the contract between the viewer core and the render /
// media engine that actually draws frames and decodes video.
//
// The core never decodes or renders anything itself. It asks the engine for
// surfaces, render targets and video players and drives them.
package media

import (
	"time"

	"github.com/Faultbox/vour/pkg/math"
)

// Texture is anything with pixel dimensions that can be shown on a surface.
type Texture interface {
	Width() int
	Height() int
}

// RenderTarget is a texture a video player decodes into. Each video view owns
// exactly one.
type RenderTarget interface {
	Texture
	Release()
}

// StereoLayout tells a surface how a 3D source is packed.
type StereoLayout int

const (
	LayoutMono StereoLayout = iota
	LayoutSideBySide
	LayoutOverUnder
)

// Projection tells a surface how to map its texture.
type Projection int

const (
	ProjectionFlat Projection = iota
	Projection360
	Projection180
)

// Surface is a view's own material and mesh. Writes to one surface never
// affect another.
type Surface interface {
	// Attach binds the view's material to its renderer.
	Attach()
	SetTexture(tex Texture, layout StereoLayout)
	SetProjection(p Projection, rotation math.Vec3)
	SetScale(scale math.Vec3)
	SetVisible(visible bool)
}

// VideoSpec describes where a video player reads its media from.
type VideoSpec struct {
	Name string
	// Exactly one of Clip or URL is set.
	Clip *Clip
	URL  string
	Loop bool
}

// Clip is a locally bundled video whose dimensions are known up front.
type Clip struct {
	Name   string
	Width  int
	Height int
	Length time.Duration
}

// VideoPlayer is one decoder instance.
//
// Preparation is asynchronous: OnPrepared callbacks run on the engine's
// update, on the same goroutine as everything else. Stop releases decode
// resources and suppresses a pending completion. Pause keeps them.
type VideoPlayer interface {
	Prepare()
	IsPreparing() bool
	IsPrepared() bool

	Play()
	Pause()
	Stop()
	IsPlaying() bool

	Time() time.Duration
	Seek(t time.Duration)

	// FrameSize reports decoded dimensions. ok is false until the source
	// metadata is known.
	FrameSize() (w, h int, ok bool)

	AudioTrackCount() int
	SetTrackVolume(track int, volume float32)

	SetTarget(rt RenderTarget)

	// OnPrepared registers fn to run once when preparation completes. The
	// returned func unregisters it.
	OnPrepared(fn func()) (cancel func())
}

// Overlay is the full-screen blink quad.
type Overlay interface {
	SetAlpha(a float64)
	MoveTo(pos math.Vec3)
}

// SceneLoader swaps in a referenced sub-scene.
type SceneLoader interface {
	LoadScene(name string)
}

// VideoUIOptions are the controls shown on the video UI.
type VideoUIOptions struct {
	Volume     bool
	LoopButton bool
}

// VideoUI is the optional playback control overlay.
type VideoUI interface {
	Enable(p VideoPlayer, opts VideoUIOptions, volume float32)
	Disable()
}

// Engine creates the engine-side resources the core drives.
type Engine interface {
	NewSurface(name string) Surface
	NewRenderTarget(w, h int) RenderTarget
	NewVideoPlayer(spec VideoSpec) VideoPlayer
	// LoadingTexture is shown while a video prepares.
	LoadingTexture() Texture
}
