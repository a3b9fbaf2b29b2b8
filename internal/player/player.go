// Package player provides the camera rig the viewer moves around.
package player

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/vour/internal/location"
	"github.com/Faultbox/vour/pkg/math"
)

// Controller is what the viewer core needs from a player rig.
type Controller interface {
	ResetRotation()
	SetCenterCam(center bool)
	// OnNewLocation is called whenever a location's content is set.
	OnNewLocation(l *location.Location)

	Position() math.Vec3
	SetPosition(p math.Vec3)
	CameraPosition() math.Vec3
}

// Config holds rig settings.
type Config struct {
	CenterCamera     bool
	MouseSensitivity float32
	EyeHeight        float32
	// FOV is the vertical field of view in degrees.
	FOV float32
	// SurfaceDistance is how far flat media surfaces sit from the camera.
	SurfaceDistance float32
}

// DefaultConfig returns desktop defaults.
func DefaultConfig() Config {
	return Config{
		CenterCamera:     true,
		MouseSensitivity: 50,
		EyeHeight:        1.7,
		FOV:              60,
		SurfaceDistance:  5,
	}
}

// Desktop is a mouse-look rig.
type Desktop struct {
	cfg Config
	log *zap.Logger

	position   math.Vec3
	startY     float32
	camLocal   math.Vec3
	camRot     math.Vec3
	centerCam  bool
	canMoveCam bool

	resets int
}

// NewDesktop creates a rig standing at pos.
func NewDesktop(cfg Config, pos math.Vec3, log *zap.Logger) *Desktop {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Desktop{
		cfg:        cfg,
		log:        log,
		position:   pos,
		startY:     pos.Y,
		canMoveCam: true,
	}
	d.SetCenterCam(cfg.CenterCamera)
	return d
}

// ResetRotation points the camera straight ahead.
func (d *Desktop) ResetRotation() {
	d.camRot = math.Vec3{}
	d.resets++
}

// Resets returns how many times the rotation was reset.
func (d *Desktop) Resets() int { return d.resets }

// Rotation returns the camera euler angles in degrees.
func (d *Desktop) Rotation() math.Vec3 { return d.camRot }

// SetCenterCam centers the camera on the rig, or lifts it to eye height and
// puts the rig back on its starting floor level.
func (d *Desktop) SetCenterCam(center bool) {
	d.centerCam = center
	if center {
		d.camLocal = math.Vec3{}
		return
	}
	d.position = d.position.WithY(d.startY)
	d.camLocal = math.Vec3{Y: d.cfg.EyeHeight}
}

// CenterCamera reports the current centering mode.
func (d *Desktop) CenterCamera() bool { return d.centerCam }

// OnNewLocation resets the view for flat content and applies the location's
// camera lock.
func (d *Desktop) OnNewLocation(l *location.Location) {
	if ResetsOnEnter(l) {
		d.ResetRotation()
	}
	d.canMoveCam = !l.LockCamera || l.Display.Is360()
	d.log.Debug("entered location",
		zap.String("location", l.Name),
		zap.Bool("can_move_camera", d.canMoveCam))
}

// ResetsOnEnter reports whether entering l resets the camera rotation. Only
// non-empty locations that are not 360 do.
func ResetsOnEnter(l *location.Location) bool {
	return !l.Display.Is360() && l.Kind != location.KindEmpty
}

// CanMoveCamera reports whether look input is accepted.
func (d *Desktop) CanMoveCamera() bool { return d.canMoveCam }

// Look turns the camera by a pointer delta in pixels.
func (d *Desktop) Look(dx, dy, screenHeight, dpi float32) {
	if !d.canMoveCam || screenHeight == 0 || dpi == 0 {
		return
	}
	k := 1000 / screenHeight / dpi * d.cfg.MouseSensitivity
	d.camRot.X += dy * k
	d.camRot.Y -= dx * k
	d.camRot.X = float32(math.Clamp(float64(d.camRot.X), -90, 90))
}

// Position returns the rig root position.
func (d *Desktop) Position() math.Vec3 { return d.position }

// SetPosition moves the rig root.
func (d *Desktop) SetPosition(p math.Vec3) { d.position = p }

// CameraPosition returns the camera position in world space.
func (d *Desktop) CameraPosition() math.Vec3 { return d.position.Add(d.camLocal) }

// SetCameraOffset moves the camera inside the rig, as head tracking would.
func (d *Desktop) SetCameraOffset(off math.Vec3) { d.camLocal = off }

// FullscreenHeight returns the world height visible at the surface distance.
func (d *Desktop) FullscreenHeight() float32 {
	half := float64(d.cfg.FOV) * gomath.Pi / 360
	return float32(2 * float64(d.cfg.SurfaceDistance) * gomath.Tan(half))
}
