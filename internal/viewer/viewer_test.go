package viewer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/config"
	"github.com/Faultbox/vour/internal/media/sim"
	"github.com/Faultbox/vour/internal/transition"
	"github.com/Faultbox/vour/internal/view"
	"github.com/Faultbox/vour/internal/world"
)

const frame = 1.0 / 60

const tour = `
start: lobby
locations:
  - name: lobby
    kind: image
    display: "360"
    image: lobby.jpg
    image_size: [4096, 2048]
    position: [0, 0, 0]
    teleports:
      - {name: lobby-hall, to: hall}
    popups:
      - {name: plaque, title: Lobby}
  - name: hall
    kind: video
    display: "360"
    position: [20, 0, 0]
    video:
      source: url
      url: https://cdn.example.com/hall.mp4
    teleports:
      - {name: hall-lobby, to: lobby}
      - {name: hall-garden, to: garden}
    popups:
      - name: interview
        kind: video
        video:
          clip: {name: interview, width: 640, height: 360}
  - name: garden
    kind: scene
    scene: Garden
`

type fixture struct {
	v   *Viewer
	e   *sim.Engine
	w   *world.World
	reg *prometheus.Registry
}

func newFixture(t *testing.T, doc string) *fixture {
	t.Helper()
	w, err := world.Parse([]byte(doc), "", zap.NewNop())
	require.NoError(t, err)

	e := sim.New()
	reg := prometheus.NewRegistry()
	v, err := New(Options{
		Config:     config.Default(),
		World:      w,
		Engine:     e,
		Overlay:    e.Overlay,
		Scenes:     e.Scenes,
		UI:         e.UI,
		Registerer: reg,
	})
	require.NoError(t, err)
	return &fixture{v: v, e: e, w: w, reg: reg}
}

func (f *fixture) settle(t *testing.T) {
	t.Helper()
	for i := 0; i < 60*30; i++ {
		f.v.Step(frame)
		if !f.v.Teleporter().Busy() && !f.v.Fader().Busy() {
			return
		}
	}
	t.Fatal("viewer did not settle")
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	w, err := world.Parse([]byte(tour), "", zap.NewNop())
	require.NoError(t, err)
	_, err = New(Options{World: w})
	assert.Error(t, err)
}

func TestStartFadesInFromOpaque(t *testing.T) {
	f := newFixture(t, tour)
	require.NoError(t, f.v.Start())

	assert.Equal(t, 1.0, f.v.Fader().Alpha())
	assert.True(t, f.v.Fader().Busy())

	lobby, _ := f.w.Location("lobby")
	assert.Same(t, lobby, f.v.Manager().ActiveLocation())
	assert.True(t, lobby.Visible())
	assert.True(t, f.v.Manager().ActiveView().Ready())

	f.settle(t)
	assert.Equal(t, 0.0, f.e.Overlay.Alpha)
	assert.NoError(t, f.v.Manager().Invariant())
}

func TestStartWithoutStartLocation(t *testing.T) {
	f := newFixture(t, strings.Replace(tour, "start: lobby\n", "", 1))
	assert.ErrorIs(t, f.v.Start(), world.ErrNoStartLocation)
}

func TestStartPreloadsLinkedVideos(t *testing.T) {
	f := newFixture(t, tour)
	require.NoError(t, f.v.Start())

	hall, _ := f.w.Location("hall")
	require.NotNil(t, hall.Player())
	assert.True(t, hall.Player().IsPreparing())
}

func TestTeleportBeforeStart(t *testing.T) {
	f := newFixture(t, tour)
	assert.ErrorIs(t, f.v.Teleport("lobby-hall"), ErrNotStarted)
}

func TestTeleportUnknownEdge(t *testing.T) {
	f := newFixture(t, tour)
	require.NoError(t, f.v.Start())
	assert.ErrorIs(t, f.v.Teleport("lobby-attic"), ErrUnknownEdge)
}

func TestTeleportToVideoLocation(t *testing.T) {
	f := newFixture(t, tour)
	require.NoError(t, f.v.Start())
	f.settle(t)

	require.NoError(t, f.v.Teleport("lobby-hall"))
	f.settle(t)

	hall, _ := f.w.Location("hall")
	lobby, _ := f.w.Location("lobby")
	assert.Same(t, hall, f.v.Manager().ActiveLocation())
	assert.False(t, lobby.Visible())
	assert.Equal(t, view.SlotVideoPanorama, f.v.Manager().ActiveView().Slot())
	assert.True(t, f.v.Manager().ActiveView().Ready())
	assert.True(t, hall.Player().IsPlaying())
	assert.Equal(t, transition.StateIdle, f.v.Teleporter().State())

	assert.Equal(t, 1.0, testutil.ToFloat64(f.v.Metrics().Started.WithLabelValues("switch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.v.Metrics().Completed.WithLabelValues("switch")))
}

func TestRunTour(t *testing.T) {
	f := newFixture(t, tour)
	require.NoError(t, f.v.Start())

	tr, err := NewTour(f.w, []string{"lobby-hall", "hall-garden"}, 500*time.Millisecond)
	require.NoError(t, err)

	err = f.v.Run(context.Background(), RunOptions{TickRate: 60, MaxDuration: time.Minute, Tour: tr})
	require.NoError(t, err)

	assert.True(t, tr.Done())
	assert.Equal(t, 2, tr.Taken())
	garden, _ := f.w.Location("garden")
	assert.Same(t, garden, f.v.Manager().ActiveLocation())
	assert.Equal(t, []string{"Garden"}, f.e.Scenes.Loaded)
	assert.Less(t, f.v.Elapsed(), 60.0)
}

func TestNewTourUnknownStop(t *testing.T) {
	w, err := world.Parse([]byte(tour), "", zap.NewNop())
	require.NoError(t, err)
	_, err = NewTour(w, []string{"lobby-hall", "nowhere"}, time.Second)
	assert.ErrorIs(t, err, ErrUnknownEdge)
}

func TestRunStopsAtMaxDuration(t *testing.T) {
	f := newFixture(t, tour)
	require.NoError(t, f.v.Start())

	require.NoError(t, f.v.Run(context.Background(), RunOptions{TickRate: 10, MaxDuration: time.Second}))
	assert.InDelta(t, 1.0, f.v.Elapsed(), 0.11)
}

func TestRunHonoursContext(t *testing.T) {
	f := newFixture(t, tour)
	require.NoError(t, f.v.Start())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.v.Run(ctx, RunOptions{TickRate: 60}), context.Canceled)
}

func TestRunRequiresStart(t *testing.T) {
	f := newFixture(t, tour)
	assert.ErrorIs(t, f.v.Run(context.Background(), RunOptions{TickRate: 60}), ErrNotStarted)
}

func TestInteractTogglesPopup(t *testing.T) {
	f := newFixture(t, tour)
	require.NoError(t, f.v.Start())

	require.NoError(t, f.v.Interact("plaque"))
	for i := 0; i < 60; i++ {
		f.v.Step(frame)
	}
	plaque := f.v.Popups().Points()[0]
	assert.True(t, plaque.Shown())
	assert.Equal(t, 1.0, plaque.Scale())

	assert.ErrorIs(t, f.v.Interact("missing"), ErrUnknownPopup)
}

func TestReloadRebindsActiveView(t *testing.T) {
	f := newFixture(t, tour)
	require.NoError(t, f.v.Start())
	f.settle(t)

	edited := strings.Replace(tour, "image_size: [4096, 2048]", "image_size: [8192, 4096]", 1)
	src, err := world.Parse([]byte(edited), "", zap.NewNop())
	require.NoError(t, err)
	f.v.Reload(src)

	surface := f.e.Surface(view.SlotImagePanorama.String())
	require.NotNil(t, surface.Texture)
	assert.Equal(t, 8192, surface.Texture.Width())
	assert.True(t, f.v.Manager().ActiveView().Ready())
}

func TestReloadMovesActiveLocationToNewSlot(t *testing.T) {
	f := newFixture(t, tour)
	require.NoError(t, f.v.Start())
	f.settle(t)

	edited := strings.Replace(tour, "display: \"360\"\n    image:", "display: \"2d\"\n    image:", 1)
	src, err := world.Parse([]byte(edited), "", zap.NewNop())
	require.NoError(t, err)
	f.v.Reload(src)

	assert.Equal(t, view.SlotImageFlat, f.v.Manager().ActiveView().Slot())
	assert.NoError(t, f.v.Manager().Invariant())
	assert.False(t, f.v.Manager().Registry().ViewFor(view.SlotImagePanorama).Active())
}

func TestReloadBackToEarlierSlotRebinds(t *testing.T) {
	f := newFixture(t, tour)
	require.NoError(t, f.v.Start())
	f.settle(t)

	flat := strings.Replace(tour, "display: \"360\"\n    image:", "display: \"2d\"\n    image:", 1)
	src, err := world.Parse([]byte(flat), "", zap.NewNop())
	require.NoError(t, err)
	f.v.Reload(src)
	require.Equal(t, view.SlotImageFlat, f.v.Manager().ActiveView().Slot())

	bigger := strings.Replace(tour, "image_size: [4096, 2048]", "image_size: [8192, 4096]", 1)
	src, err = world.Parse([]byte(bigger), "", zap.NewNop())
	require.NoError(t, err)
	f.v.Reload(src)

	active := f.v.Manager().ActiveView()
	require.Equal(t, view.SlotImagePanorama, active.Slot())
	assert.True(t, active.Ready())
	surface := f.e.Surface(view.SlotImagePanorama.String())
	require.NotNil(t, surface.Texture)
	assert.Equal(t, 8192, surface.Texture.Width())
	assert.NoError(t, f.v.Manager().Invariant())
}

func TestRunAppliesWorldChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tour), 0644))

	w, err := world.Load(path, zap.NewNop())
	require.NoError(t, err)
	e := sim.New()
	v, err := New(Options{World: w, Engine: e, Overlay: e.Overlay, Scenes: e.Scenes})
	require.NoError(t, err)
	require.NoError(t, v.Start())

	edited := strings.Replace(tour, "image_size: [4096, 2048]", "image_size: [1024, 512]", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0644))
	changes := make(chan string, 1)
	changes <- path

	require.NoError(t, v.Run(context.Background(), RunOptions{TickRate: 60, MaxDuration: 100 * time.Millisecond, Changes: changes}))

	lobby, _ := w.Location("lobby")
	assert.Equal(t, 1024, lobby.Texture.Width())
}

func TestCloseStopsVideosAndClearsBlink(t *testing.T) {
	f := newFixture(t, tour)
	require.NoError(t, f.v.Start())
	require.NoError(t, f.v.Teleport("lobby-hall"))
	f.settle(t)
	require.NoError(t, f.v.Interact("interview"))
	for i := 0; i < 10; i++ {
		f.v.Step(frame)
	}

	hall, _ := f.w.Location("hall")
	interview := f.v.Popups().Points()[1]
	require.True(t, hall.Player().IsPlaying())
	require.True(t, interview.Player().IsPlaying())

	f.v.Close()
	assert.False(t, hall.Player().IsPlaying())
	assert.False(t, interview.Player().IsPlaying())
	assert.Equal(t, 0.0, f.e.Overlay.Alpha)
}
