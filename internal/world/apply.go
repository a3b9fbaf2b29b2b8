package world

import (
	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/location"
	"github.com/Faultbox/vour/internal/media"
)

// Apply copies the presentable content of src's locations onto the
// same-named locations of w. The teleport graph, popups and start location
// are left alone. It returns the locations whose content changed; video
// locations whose source changed have their player reset.
func (w *World) Apply(src *World, log *zap.Logger) []*location.Location {
	var changed []*location.Location
	for _, n := range src.Locations {
		l, ok := w.byName[n.Name]
		if !ok {
			log.Warn("new location ignored until restart", zap.String("location", n.Name))
			continue
		}
		if sameContent(l, n) {
			continue
		}
		if !sameSource(l, n) {
			l.ResetPlayer()
		}
		copyContent(l, n)
		changed = append(changed, l)
	}
	return changed
}

func sameSource(a, b *location.Location) bool {
	return a.Kind == b.Kind &&
		a.Source == b.Source &&
		sameClip(a, b) &&
		a.StreamingPath == b.StreamingPath &&
		a.URL == b.URL &&
		a.Loop == b.Loop
}

func sameClip(a, b *location.Location) bool {
	if a.Clip == nil || b.Clip == nil {
		return a.Clip == b.Clip
	}
	return *a.Clip == *b.Clip
}

func sameContent(a, b *location.Location) bool {
	return sameSource(a, b) &&
		a.Display == b.Display &&
		a.Layout == b.Layout &&
		a.Position == b.Position &&
		sameTexture(a, b) &&
		a.Volume == b.Volume &&
		a.VideoUI == b.VideoUI &&
		a.VideoUIVolume == b.VideoUIVolume &&
		a.VideoUILoop == b.VideoUILoop &&
		a.Scene == b.Scene &&
		a.LockCamera == b.LockCamera &&
		a.ScaleToFullscreen == b.ScaleToFullscreen &&
		a.RotOffset == b.RotOffset
}

func sameTexture(a, b *location.Location) bool {
	if a.Texture == nil || b.Texture == nil {
		return a.Texture == nil && b.Texture == nil
	}
	if a.Texture == b.Texture {
		return true
	}
	ia, okA := a.Texture.(*media.Image)
	ib, okB := b.Texture.(*media.Image)
	if okA && okB {
		return ia.Path == ib.Path &&
			ia.W == ib.W && ia.H == ib.H &&
			ia.ModTime.Equal(ib.ModTime)
	}
	return a.Texture.Width() == b.Texture.Width() && a.Texture.Height() == b.Texture.Height()
}

func copyContent(dst, src *location.Location) {
	dst.Kind = src.Kind
	dst.Display = src.Display
	dst.Layout = src.Layout
	dst.Position = src.Position
	dst.Texture = src.Texture
	dst.Source = src.Source
	dst.Clip = src.Clip
	dst.StreamingPath = src.StreamingPath
	dst.URL = src.URL
	dst.Loop = src.Loop
	dst.Volume = src.Volume
	dst.VideoUI = src.VideoUI
	dst.VideoUIVolume = src.VideoUIVolume
	dst.VideoUILoop = src.VideoUILoop
	dst.Scene = src.Scene
	dst.LockCamera = src.LockCamera
	dst.ScaleToFullscreen = src.ScaleToFullscreen
	dst.RotOffset = src.RotOffset
}
