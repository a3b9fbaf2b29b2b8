package world

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/location"
	"github.com/Faultbox/vour/internal/media"
	"github.com/Faultbox/vour/internal/media/sim"
)

func TestApplyCopiesChangedContent(t *testing.T) {
	w, err := Parse([]byte(museum), "", zap.NewNop())
	require.NoError(t, err)

	edited := strings.Replace(museum, "image_size: [4096, 2048]", "image_size: [2048, 1024]", 1)
	src, err := Parse([]byte(edited), "", zap.NewNop())
	require.NoError(t, err)

	changed := w.Apply(src, zap.NewNop())
	require.Len(t, changed, 1)
	lobby, _ := w.Location("lobby")
	assert.Same(t, lobby, changed[0])
	assert.Equal(t, 2048, lobby.Texture.Width())

	// Graph stays intact.
	e, _ := w.Edge("lobby-hall")
	hall, _ := w.Location("hall")
	assert.Same(t, hall, e.Target)
}

func TestApplyResetsVideoPlayerOnSourceChange(t *testing.T) {
	w, err := Parse([]byte(museum), "", zap.NewNop())
	require.NoError(t, err)
	hall, _ := w.Location("hall")

	e := sim.New()
	hall.Init(e, "root", zap.NewNop())
	old := hall.Player()
	require.NotNil(t, old)

	edited := strings.Replace(museum, "path: hall/intro.mp4", "path: hall/v2.mp4", 1)
	src, err := Parse([]byte(edited), "", zap.NewNop())
	require.NoError(t, err)

	changed := w.Apply(src, zap.NewNop())
	require.Len(t, changed, 1)
	assert.Nil(t, hall.Player())
	assert.Equal(t, 1, old.(*sim.VideoPlayer).Stops)

	hall.Init(e, "root", zap.NewNop())
	require.NotNil(t, hall.Player())
	assert.Equal(t, "root/hall/v2.mp4", hall.Player().(*sim.VideoPlayer).Spec().URL)
}

func TestApplyKeepsPlayerWhenOnlyVolumeChanges(t *testing.T) {
	w, err := Parse([]byte(museum), "", zap.NewNop())
	require.NoError(t, err)
	hall, _ := w.Location("hall")
	hall.Init(sim.New(), "", zap.NewNop())
	p := hall.Player()

	edited := strings.Replace(museum, "volume: 0.5", "volume: 0.8", 1)
	src, err := Parse([]byte(edited), "", zap.NewNop())
	require.NoError(t, err)

	require.Len(t, w.Apply(src, zap.NewNop()), 1)
	assert.Same(t, p, hall.Player())
	assert.Equal(t, float32(0.8), hall.Volume)
}

func TestApplyUnchangedAndUnknown(t *testing.T) {
	w, err := Parse([]byte(museum), "", zap.NewNop())
	require.NoError(t, err)

	same, err := Parse([]byte(museum), "", zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, w.Apply(same, zap.NewNop()))

	extra, err := Parse([]byte(museum+"  - name: attic\n"), "", zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, w.Apply(extra, zap.NewNop()))
	_, ok := w.Location("attic")
	assert.False(t, ok)
}

func TestApplyDetectsSameSizedImageSwap(t *testing.T) {
	w, err := Parse([]byte(museum), "", zap.NewNop())
	require.NoError(t, err)

	edited := strings.Replace(museum, "image: lobby.jpg", "image: lobby-night.jpg", 1)
	src, err := Parse([]byte(edited), "", zap.NewNop())
	require.NoError(t, err)

	changed := w.Apply(src, zap.NewNop())
	require.Len(t, changed, 1)
	lobby, _ := w.Location("lobby")
	assert.Equal(t, "lobby-night.jpg", lobby.Texture.(*media.Image).Path)
}

func TestSameTextureComparesFileVersion(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	img := func(path string, mod time.Time) *location.Location {
		l := location.New("l", location.KindImage)
		l.Texture = &media.Image{Path: path, W: 640, H: 480, ModTime: mod}
		return l
	}

	tests := []struct {
		name string
		a, b *location.Location
		want bool
	}{
		{"same file", img("a.png", at), img("a.png", at), true},
		{"other file same size", img("a.png", at), img("b.png", at), false},
		{"rewritten file", img("a.png", at), img("a.png", at.Add(time.Second)), false},
		{"both empty", location.New("x", location.KindImage), location.New("y", location.KindImage), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sameTexture(tt.a, tt.b))
		})
	}
}
