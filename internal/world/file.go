package world

import (
	"fmt"
	"time"

	"github.com/Faultbox/vour/pkg/math"
)

// File is the YAML world description.
type File struct {
	Start     string         `yaml:"start"`
	Locations []LocationSpec `yaml:"locations"`
}

// LocationSpec describes one location.
type LocationSpec struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Display  string `yaml:"display"`
	Layout   string `yaml:"layout"`
	Position Vec    `yaml:"position"`
	Rotation Vec    `yaml:"rotation"`

	Image     string `yaml:"image"`
	ImageSize []int  `yaml:"image_size"`

	Video *VideoSpec `yaml:"video"`
	Scene string     `yaml:"scene"`

	LockCamera        bool `yaml:"lock_camera"`
	ScaleToFullscreen bool `yaml:"scale_to_fullscreen"`

	Teleports []TeleportSpec `yaml:"teleports"`
	Popups    []PopupSpec    `yaml:"popups"`
}

// VideoSpec describes a video source.
type VideoSpec struct {
	Source string    `yaml:"source"`
	Clip   *ClipSpec `yaml:"clip"`
	Path   string    `yaml:"path"`
	URL    string    `yaml:"url"`
	Loop   *bool     `yaml:"loop"`
	Volume *float32  `yaml:"volume"`
	UI     *UISpec   `yaml:"ui"`
}

// ClipSpec describes a bundled clip.
type ClipSpec struct {
	Name   string        `yaml:"name"`
	Width  int           `yaml:"width"`
	Height int           `yaml:"height"`
	Length time.Duration `yaml:"length"`
}

// UISpec enables the on-screen video controls.
type UISpec struct {
	Volume *bool `yaml:"volume"`
	Loop   *bool `yaml:"loop"`
}

// TeleportSpec describes an outgoing edge.
type TeleportSpec struct {
	Name          string `yaml:"name"`
	To            string `yaml:"to"`
	Kind          string `yaml:"kind"`
	ResetRotation bool   `yaml:"reset_rotation"`
	Position      Vec    `yaml:"position"`
}

// PopupSpec describes an info or video popup point.
type PopupSpec struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Position Vec    `yaml:"position"`
	Facing   bool   `yaml:"facing"`

	Title        string `yaml:"title"`
	Text         string `yaml:"text"`
	Image        string `yaml:"image"`
	ImageSide    string `yaml:"image_side"`
	CustomPanel  bool   `yaml:"custom_panel"`
	CustomObject string `yaml:"custom_object"`

	Video  *VideoSpec `yaml:"video"`
	Volume *float32   `yaml:"volume"`
}

// Vec is a position written as [x, y, z]. Missing components are zero.
type Vec []float32

// Vec3 converts v.
func (v Vec) Vec3() (math.Vec3, error) {
	if len(v) > 3 {
		return math.Vec3{}, fmt.Errorf("vector has %d components", len(v))
	}
	var c [3]float32
	copy(c[:], v)
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}
