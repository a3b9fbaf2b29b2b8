package view

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/location"
	"github.com/Faultbox/vour/internal/media"
	"github.com/Faultbox/vour/pkg/math"
)

// View presents whichever location is bound to it. Behaviour is selected by
// slot rather than by type.
type View struct {
	slot Slot
	deps Deps
	log  *zap.Logger

	// surface is nil for the empty and scene slots.
	surface     media.Surface
	resizeWidth bool

	loc    *location.Location
	ready  bool
	active bool
	output math.Vec3

	// token changes on every Bind. Prepare callbacks carry the token of the
	// bind that registered them.
	token          uuid.UUID
	awaiting       bool
	cancelPrepared func()
	sizePending    bool
	rt             media.RenderTarget
}

func newView(s Slot, deps Deps) *View {
	v := &View{
		slot: s,
		deps: deps,
		log:  deps.Log.With(zap.Stringer("slot", s)),
	}
	switch s {
	case SlotImageFlat, SlotVideoFlat:
		v.surface = deps.Engine.NewSurface(s.String())
		v.resizeWidth = true
	case SlotImagePanorama, SlotVideoPanorama:
		v.surface = deps.Engine.NewSurface(s.String())
	}
	return v
}

// Slot returns the view's slot.
func (v *View) Slot() Slot { return v.slot }

// Location returns the bound location, nil when unbound.
func (v *View) Location() *location.Location { return v.loc }

// Ready reports whether the presented content is loaded and safe to reveal.
func (v *View) Ready() bool { return v.ready }

// Active reports whether the view is the displayed one.
func (v *View) Active() bool { return v.active }

// OutputSize returns the last computed surface scale.
func (v *View) OutputSize() math.Vec3 { return v.output }

// RenderTarget returns the video render target, nil unless a video is set up.
func (v *View) RenderTarget() media.RenderTarget { return v.rt }

func (v *View) isVideo() bool {
	return v.slot == SlotVideoFlat || v.slot == SlotVideoPanorama
}

func (v *View) isImage() bool {
	return v.slot == SlotImageFlat || v.slot == SlotImagePanorama
}

// Bind attaches l to the view and recomputes what is presented.
func (v *View) Bind(l *location.Location) {
	v.ready = false
	v.dropPending()
	v.loc = l
	v.token = uuid.New()
	v.sizePending = false

	v.reinitialize()
	v.recompute()
}

// SetActive shows or hides the view. Hiding a video view releases its render
// target and any pending prepare callback.
func (v *View) SetActive(active bool) {
	if v.surface != nil {
		v.surface.SetVisible(active)
	}
	if active {
		v.active = true
		return
	}
	if !v.active {
		return
	}
	v.active = false
	v.ready = false

	if v.isVideo() {
		v.dropPending()
		v.releaseTarget()
		if v.loc != nil && v.loc.VideoUI && v.deps.UI != nil {
			v.deps.UI.Disable()
		}
	}
}

func (v *View) reinitialize() {
	switch {
	case v.isImage():
		v.surface.Attach()
	case v.isVideo():
		v.surface.Attach()
		p := v.loc.Player()
		if p == nil {
			return
		}
		if v.loc.VideoUI && v.deps.UI != nil {
			v.deps.UI.Enable(p, media.VideoUIOptions{
				Volume:     v.loc.VideoUIVolume,
				LoopButton: v.loc.VideoUILoop,
			}, v.loc.Volume)
		}
		p.Play()
	}
}

func (v *View) recompute() {
	switch {
	case v.slot == SlotEmpty:
		v.ready = true
	case v.slot == SlotScene:
		v.recomputeScene()
	case v.isImage():
		v.recomputeImage()
	case v.isVideo():
		v.recomputeVideo()
	}
}

func (v *View) recomputeScene() {
	if v.loc.Scene == "" {
		v.log.Error("scene location has no scene", zap.String("location", v.loc.Name))
		return
	}
	if v.deps.Scenes != nil {
		v.deps.Scenes.LoadScene(v.loc.Scene)
	}
	// The swap is treated as instantaneous.
	v.ready = true
}

func (v *View) recomputeImage() {
	tex := v.loc.Texture
	v.setMedia(tex)
	if tex != nil {
		v.updateSize(math.Size(tex.Width(), tex.Height()))
	} else {
		v.log.Error("image location has no texture", zap.String("location", v.loc.Name))
		v.updateSize(math.Uniform(v.deps.Size))
	}
	v.ready = true
}

func (v *View) recomputeVideo() {
	p := v.loc.Player()
	if p == nil {
		v.log.Error("video location has no valid media source", zap.String("location", v.loc.Name))
		v.setMedia(v.deps.Engine.LoadingTexture())
		return
	}

	// Local clips know their size up front, streamed sources only once
	// prepared.
	switch w, h, ok := p.FrameSize(); {
	case v.loc.Source == location.SourceLocal && v.loc.Clip != nil:
		v.updateSize(math.Size(v.loc.Clip.Width, v.loc.Clip.Height))
	case ok:
		v.updateSize(math.Size(w, h))
	default:
		v.sizePending = true
	}

	if p.IsPrepared() {
		v.setupLoadedVideo()
		return
	}

	v.setMedia(v.deps.Engine.LoadingTexture())
	token := v.token
	v.awaiting = true
	v.cancelPrepared = p.OnPrepared(func() {
		if !v.awaiting || token != v.token {
			v.log.Debug("ignoring stale prepare completion")
			return
		}
		v.awaiting = false
		v.cancelPrepared = nil
		v.setupLoadedVideo()
	})
}

func (v *View) setupLoadedVideo() {
	p := v.loc.Player()
	w, h, ok := p.FrameSize()
	if !ok {
		v.log.Error("prepared video reports no frame size", zap.String("location", v.loc.Name))
		return
	}

	if v.rt == nil || v.rt.Width() != w || v.rt.Height() != h {
		v.releaseTarget()
		v.rt = v.deps.Engine.NewRenderTarget(w, h)
	}
	p.SetTarget(v.rt)
	v.setMedia(v.rt)

	if v.sizePending {
		v.sizePending = false
		v.updateSize(math.Size(w, h))
	}

	for i := 0; i < p.AudioTrackCount(); i++ {
		p.SetTrackVolume(i, v.loc.Volume)
	}

	v.ready = true
	v.log.Debug("video ready",
		zap.String("location", v.loc.Name),
		zap.Int("width", w),
		zap.Int("height", h))
}

func (v *View) dropPending() {
	if v.cancelPrepared != nil {
		v.cancelPrepared()
		v.cancelPrepared = nil
	}
	v.awaiting = false
}

func (v *View) releaseTarget() {
	if v.rt != nil {
		v.rt.Release()
		v.rt = nil
	}
}

// setMedia puts tex on the view's own surface with the bound location's
// stereo layout and projection.
func (v *View) setMedia(tex media.Texture) {
	d := v.loc.Display

	layout := media.LayoutMono
	if d.Is3D() {
		layout = media.LayoutOverUnder
		if v.loc.Layout == location.SideBySide {
			layout = media.LayoutSideBySide
		}
	}
	v.surface.SetTexture(tex, layout)

	switch {
	case d.Is360():
		v.surface.SetProjection(media.Projection360, v.loc.RotOffset)
	case d.Is180():
		v.surface.SetProjection(media.Projection180, v.loc.RotOffset)
	default:
		v.surface.SetProjection(media.ProjectionFlat, math.Vec3{})
	}
}

func (v *View) updateSize(src math.Vec2) {
	size := v.deps.Size
	scale := math.Splat(size)

	if v.resizeWidth {
		scale.X = src.Aspect() * scale.Y
		if v.loc.Display.Is3D() {
			switch v.loc.Layout {
			case location.OverUnder:
				scale.Y /= 2
			case location.SideBySide:
				scale.X /= 2
			}
		}
	}

	if !v.loc.Display.Is360() && v.loc.ScaleToFullscreen {
		fullscreen := size
		if v.deps.Viewport != nil {
			fullscreen = v.deps.Viewport.FullscreenHeight()
		}
		scale = scale.Scale(fullscreen / size)
	}

	v.output = scale
	v.surface.SetScale(scale)
}
