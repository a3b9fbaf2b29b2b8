// Package location holds the navigable places of a tour, the teleport edges
// between them and the video preload/unload policy that walks those edges.
package location

import (
	"fmt"
	"strings"
)

// Kind is what a location presents.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindImage
	KindVideo
	KindScene
)

var kindNames = [...]string{"empty", "image", "video", "scene"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsImage reports whether k is an image location.
func (k Kind) IsImage() bool { return k == KindImage }

// IsVideo reports whether k is a video location.
func (k Kind) IsVideo() bool { return k == KindVideo }

// IsMedia reports whether k draws onto a media surface.
func (k Kind) IsMedia() bool { return k == KindImage || k == KindVideo }

// ParseKind parses a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(s, n) {
			return Kind(i), nil
		}
	}
	return KindEmpty, fmt.Errorf("unknown location kind %q", s)
}

// DisplayMode is how a media location is projected.
type DisplayMode uint8

const (
	Display2D DisplayMode = iota
	Display3D
	Display180
	Display180Stereo
	Display360
	Display360Stereo
)

var displayNames = [...]string{"2d", "3d", "180", "180-3d", "360", "360-3d"}

func (d DisplayMode) String() string {
	if int(d) < len(displayNames) {
		return displayNames[d]
	}
	return fmt.Sprintf("DisplayMode(%d)", d)
}

// ParseDisplayMode parses a display mode such as "360-3d".
func ParseDisplayMode(s string) (DisplayMode, error) {
	for i, n := range displayNames {
		if strings.EqualFold(s, n) {
			return DisplayMode(i), nil
		}
	}
	return Display2D, fmt.Errorf("unknown display mode %q", s)
}

// Is2D reports a monoscopic mode.
func (d DisplayMode) Is2D() bool {
	return d == Display2D || d == Display180 || d == Display360
}

// Is3D reports a stereoscopic mode.
func (d DisplayMode) Is3D() bool {
	return d == Display3D || d == Display180Stereo || d == Display360Stereo
}

// Is180 reports a half-sphere mode.
func (d DisplayMode) Is180() bool {
	return d == Display180 || d == Display180Stereo
}

// Is360 reports a full-sphere mode.
func (d DisplayMode) Is360() bool {
	return d == Display360 || d == Display360Stereo
}

// IsPanorama reports a 180 or 360 mode.
func (d DisplayMode) IsPanorama() bool { return d.Is180() || d.Is360() }

// Valid reports whether d is a known mode.
func (d DisplayMode) Valid() bool { return int(d) < len(displayNames) }

// Layout3D is how a stereo source packs both eyes.
type Layout3D uint8

const (
	OverUnder Layout3D = iota
	SideBySide
)

func (l Layout3D) String() string {
	if l == SideBySide {
		return "side-by-side"
	}
	return "over-under"
}

// ParseLayout3D parses "over-under" or "side-by-side".
func ParseLayout3D(s string) (Layout3D, error) {
	switch strings.ToLower(s) {
	case "", "over-under", "overunder":
		return OverUnder, nil
	case "side-by-side", "sidebyside":
		return SideBySide, nil
	}
	return OverUnder, fmt.Errorf("unknown 3d layout %q", s)
}

// VideoSource is where a video location reads its media from.
type VideoSource uint8

const (
	SourceLocal VideoSource = iota
	SourceStreamingPath
	SourceURL
)

var sourceNames = [...]string{"local", "streaming", "url"}

func (s VideoSource) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return fmt.Sprintf("VideoSource(%d)", s)
}

// ParseVideoSource parses "local", "streaming" or "url".
func ParseVideoSource(s string) (VideoSource, error) {
	if s == "" {
		return SourceLocal, nil
	}
	for i, n := range sourceNames {
		if strings.EqualFold(s, n) {
			return VideoSource(i), nil
		}
	}
	return SourceLocal, fmt.Errorf("unknown video source %q", s)
}

// TransitionKind is what a teleport does when taken.
type TransitionKind uint8

const (
	// SwitchLocation moves the player into the target location.
	SwitchLocation TransitionKind = iota
	// RepositionOnly moves the player inside the current location.
	RepositionOnly
)

func (k TransitionKind) String() string {
	if k == RepositionOnly {
		return "reposition"
	}
	return "switch"
}

// ParseTransitionKind parses "switch" or "reposition".
func ParseTransitionKind(s string) (TransitionKind, error) {
	switch strings.ToLower(s) {
	case "", "switch":
		return SwitchLocation, nil
	case "reposition":
		return RepositionOnly, nil
	}
	return SwitchLocation, fmt.Errorf("unknown teleport kind %q", s)
}
