package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/vour/internal/location"
	"github.com/Faultbox/vour/internal/media/sim"
)

func TestResolveTable(t *testing.T) {
	all := []location.DisplayMode{
		location.Display2D, location.Display3D,
		location.Display180, location.Display180Stereo,
		location.Display360, location.Display360Stereo,
	}

	tests := []struct {
		kind    location.Kind
		display location.DisplayMode
		want    Slot
	}{
		{location.KindImage, location.Display2D, SlotImageFlat},
		{location.KindImage, location.Display3D, SlotImageFlat},
		{location.KindImage, location.Display180, SlotImagePanorama},
		{location.KindImage, location.Display180Stereo, SlotImagePanorama},
		{location.KindImage, location.Display360, SlotImagePanorama},
		{location.KindImage, location.Display360Stereo, SlotImagePanorama},
		{location.KindVideo, location.Display2D, SlotVideoFlat},
		{location.KindVideo, location.Display3D, SlotVideoFlat},
		{location.KindVideo, location.Display180, SlotVideoPanorama},
		{location.KindVideo, location.Display180Stereo, SlotVideoPanorama},
		{location.KindVideo, location.Display360, SlotVideoPanorama},
		{location.KindVideo, location.Display360Stereo, SlotVideoPanorama},
	}
	for _, d := range all {
		tests = append(tests,
			struct {
				kind    location.Kind
				display location.DisplayMode
				want    Slot
			}{location.KindEmpty, d, SlotEmpty},
			struct {
				kind    location.Kind
				display location.DisplayMode
				want    Slot
			}{location.KindScene, d, SlotScene},
		)
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.display.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.kind, tt.display))
		})
	}
}

func TestResolveFallsBackToEmpty(t *testing.T) {
	assert.Equal(t, SlotEmpty, Resolve(location.Kind(9), location.Display360))
	assert.Equal(t, SlotEmpty, Resolve(location.KindImage, location.DisplayMode(42)))
	assert.Equal(t, SlotEmpty, Resolve(location.KindVideo, location.DisplayMode(42)))
	// Scene ignores the display mode entirely.
	assert.Equal(t, SlotScene, Resolve(location.KindScene, location.DisplayMode(42)))
}

func TestViewForIncompleteRegistryPanics(t *testing.T) {
	var r Registry
	assert.PanicsWithError(t, "view registry not initialized: slot image-flat", func() {
		r.ViewFor(SlotImageFlat)
	})
}

func TestRegistryHoldsOneViewPerSlot(t *testing.T) {
	e := sim.New()
	r := NewRegistry(Deps{Engine: e, Scenes: e.Scenes})

	views := r.All()
	require.Len(t, views, 6)
	for i, v := range views {
		assert.Equal(t, Slot(i), v.Slot())
		assert.Same(t, v, r.ViewFor(Slot(i)))
	}

	l := location.New("pano", location.KindImage)
	l.Display = location.Display180
	assert.Same(t, r.ViewFor(SlotImagePanorama), r.For(l))

	// Media slots own a surface each, the others none.
	for _, name := range []string{"image-flat", "image-panorama", "video-flat", "video-panorama"} {
		assert.NotNil(t, e.Surface(name), name)
	}
	assert.Nil(t, e.Surface("empty"))
	assert.Nil(t, e.Surface("scene"))
}
