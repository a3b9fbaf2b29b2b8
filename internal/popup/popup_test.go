package popup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/location"
	"github.com/Faultbox/vour/internal/media"
	"github.com/Faultbox/vour/internal/media/sim"
	"github.com/Faultbox/vour/pkg/math"
)

const frame = 1.0 / 60

func TestInfoPanelOpensAndCloses(t *testing.T) {
	p := &Point{Name: "plaque", Kind: KindInfo, Info: Info{Title: "Atrium", Text: "Built 1902"}}

	p.Interact()
	require.True(t, p.Open())
	require.True(t, p.Shown())
	for i := 0; i < 120; i++ {
		p.Update(frame)
	}
	assert.Equal(t, 1.0, p.Scale())

	p.Interact()
	for i := 0; i < 120; i++ {
		p.Update(frame)
	}
	assert.Equal(t, 0.0, p.Scale())
	assert.False(t, p.Shown())
}

func TestToggleReversesAnimation(t *testing.T) {
	p := &Point{Kind: KindInfo}
	p.Interact()
	for i := 0; i < 3; i++ {
		p.Update(frame)
	}
	peak := p.Scale()
	require.Greater(t, peak, 0.0)
	require.Less(t, peak, 1.0)

	p.Interact()
	for i := 0; i < 3; i++ {
		p.Update(frame)
	}
	assert.Less(t, p.Scale(), 1.0)
	for i := 0; i < 120; i++ {
		p.Update(frame)
	}
	assert.Equal(t, 0.0, p.Scale())
}

func TestVideoPointPlaysWhileOpen(t *testing.T) {
	e := sim.New()
	p := &Point{
		Name:   "interview",
		Kind:   KindVideo,
		Video:  media.VideoSpec{Name: "interview", Clip: &media.Clip{Name: "i", Width: 640, Height: 360}},
		Volume: 0.25,
	}
	p.Init(e, zap.NewNop())
	require.NotNil(t, p.Player())

	p.Interact()
	e.Update(1)
	vp := p.Player().(*sim.VideoPlayer)
	assert.True(t, vp.IsPlaying())
	assert.Equal(t, float32(0.25), vp.TrackVolume(0))

	p.Interact()
	assert.False(t, vp.IsPlaying())
	assert.False(t, vp.IsPrepared())
	assert.Equal(t, 1, vp.Stops)
}

func TestVideoPointWithoutVideo(t *testing.T) {
	p := &Point{Kind: KindVideo}
	p.Init(sim.New(), zap.NewNop())
	assert.Nil(t, p.Player())
	assert.NotPanics(t, p.Interact)
}

func TestSetClosesPanelsOfHiddenLocations(t *testing.T) {
	hall := location.New("hall", location.KindImage)
	hall.SetVisible(true)
	p := &Point{Kind: KindInfo, Location: hall, Position: math.Vec3{Z: 2}, Facing: true}
	s := NewSet([]*Point{p})

	s.Update(frame, math.Vec3{})
	assert.InDelta(t, 180, p.Yaw(), 1e-4, "faces the viewer on the -Z side")

	p.Interact()
	s.Update(frame, math.Vec3{})
	require.True(t, p.Shown())

	hall.SetVisible(false)
	s.Update(frame, math.Vec3{})
	assert.False(t, p.Open())
	assert.False(t, p.Shown())
	assert.Equal(t, 0.0, p.Scale())
	assert.Equal(t, []*Point{p}, s.In(hall))
}
