// Package world loads a tour description from YAML and builds its locations,
// teleport edges and popup points.
package world

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/vour/internal/assets"
	"github.com/Faultbox/vour/internal/location"
	"github.com/Faultbox/vour/internal/media"
	"github.com/Faultbox/vour/internal/popup"
)

var (
	ErrUnknownLocation = errors.New("unknown location")
	ErrNoStartLocation = errors.New("no start location")
	ErrDuplicateName   = errors.New("duplicate name")
)

// World is a loaded tour.
type World struct {
	Path      string
	Start     *location.Location
	Locations []*location.Location
	Popups    []*popup.Point

	byName map[string]*location.Location
	edges  map[string]*location.TeleportEdge
}

// Loader builds worlds, resolving images through a shared asset manager so
// reloads skip probing unchanged files.
type Loader struct {
	Assets *assets.Manager
	Log    *zap.Logger
}

// NewLoader returns a loader. Nil arguments get a fresh manager and a no-op
// logger.
func NewLoader(a *assets.Manager, log *zap.Logger) *Loader {
	if a == nil {
		a = assets.NewManager()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{Assets: a, Log: log}
}

// Load reads and builds the world at path with a one-off loader.
func Load(path string, log *zap.Logger) (*World, error) {
	return NewLoader(nil, log).Load(path)
}

// Parse builds a world from YAML with a one-off loader.
func Parse(data []byte, dir string, log *zap.Logger) (*World, error) {
	return NewLoader(nil, log).Parse(data, dir)
}

// Load reads and builds the world at path. Image names are resolved next to
// the file first.
func (ld *Loader) Load(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world: %w", err)
	}
	w, err := ld.Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("world %s: %w", path, err)
	}
	w.Path = path
	return w, nil
}

// Parse builds a world from YAML. Malformed structure is an error; content
// problems of a single location are logged and leave it partly configured.
func (ld *Loader) Parse(data []byte, dir string) (*World, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding world: %w", err)
	}
	return ld.Build(f, dir)
}

// Build turns a decoded file into a world.
func (ld *Loader) Build(f File, dir string) (*World, error) {
	log := ld.Log
	w := &World{
		byName: make(map[string]*location.Location, len(f.Locations)),
		edges:  make(map[string]*location.TeleportEdge),
	}

	for _, spec := range f.Locations {
		if spec.Name == "" {
			return nil, errors.New("location without name")
		}
		if _, dup := w.byName[spec.Name]; dup {
			return nil, fmt.Errorf("location %q: %w", spec.Name, ErrDuplicateName)
		}
		l, err := ld.buildLocation(spec, dir)
		if err != nil {
			return nil, fmt.Errorf("location %q: %w", spec.Name, err)
		}
		w.byName[l.Name] = l
		w.Locations = append(w.Locations, l)
	}

	// Edges need every location to exist first.
	for _, spec := range f.Locations {
		from := w.byName[spec.Name]
		for i, ts := range spec.Teleports {
			e, err := w.buildEdge(from, i, ts)
			if err != nil {
				return nil, fmt.Errorf("location %q: %w", spec.Name, err)
			}
			if _, dup := w.edges[e.Name]; dup {
				return nil, fmt.Errorf("teleport %q: %w", e.Name, ErrDuplicateName)
			}
			w.edges[e.Name] = e
			from.AddEdge(e)
		}
		for _, ps := range spec.Popups {
			p, err := buildPopup(from, ps)
			if err != nil {
				return nil, fmt.Errorf("location %q: popup %q: %w", spec.Name, ps.Name, err)
			}
			w.Popups = append(w.Popups, p)
		}
	}

	for _, l := range w.Locations {
		if err := l.Validate(); err != nil {
			log.Error("location misconfigured", zap.String("location", l.Name), zap.Error(err))
		}
	}

	if f.Start != "" {
		if err := w.SetStart(f.Start); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Location looks up a location by name.
func (w *World) Location(name string) (*location.Location, bool) {
	l, ok := w.byName[name]
	return l, ok
}

// Edge looks up a teleport by name.
func (w *World) Edge(name string) (*location.TeleportEdge, bool) {
	e, ok := w.edges[name]
	return e, ok
}

// SetStart overrides the start location.
func (w *World) SetStart(name string) error {
	l, ok := w.byName[name]
	if !ok {
		return fmt.Errorf("start %q: %w", name, ErrUnknownLocation)
	}
	w.Start = l
	return nil
}

// StartLocation returns the start location or ErrNoStartLocation.
func (w *World) StartLocation() (*location.Location, error) {
	if w.Start == nil {
		return nil, ErrNoStartLocation
	}
	return w.Start, nil
}

func (ld *Loader) buildLocation(spec LocationSpec, dir string) (*location.Location, error) {
	kind := location.KindEmpty
	if spec.Kind != "" {
		k, err := location.ParseKind(spec.Kind)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	l := location.New(spec.Name, kind)

	if spec.Display != "" {
		d, err := location.ParseDisplayMode(spec.Display)
		if err != nil {
			return nil, err
		}
		l.Display = d
	}
	if spec.Layout != "" {
		lay, err := location.ParseLayout3D(spec.Layout)
		if err != nil {
			return nil, err
		}
		l.Layout = lay
	}

	var err error
	if l.Position, err = spec.Position.Vec3(); err != nil {
		return nil, fmt.Errorf("position: %w", err)
	}
	if l.RotOffset, err = spec.Rotation.Vec3(); err != nil {
		return nil, fmt.Errorf("rotation: %w", err)
	}
	l.LockCamera = spec.LockCamera
	l.ScaleToFullscreen = spec.ScaleToFullscreen
	l.Scene = spec.Scene

	if spec.Image != "" {
		tex, err := ld.image(spec, dir)
		if err != nil {
			ld.Log.Error("image not loaded", zap.String("location", spec.Name), zap.Error(err))
		} else {
			l.Texture = tex
		}
	}

	if v := spec.Video; v != nil {
		if err := applyVideo(l, v); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (ld *Loader) image(spec LocationSpec, dir string) (media.Texture, error) {
	if len(spec.ImageSize) == 2 {
		path := spec.Image
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return &media.Image{Path: path, W: spec.ImageSize[0], H: spec.ImageSize[1]}, nil
	}
	return ld.Assets.Image(spec.Image, dir)
}

func applyVideo(l *location.Location, v *VideoSpec) error {
	src, err := location.ParseVideoSource(v.Source)
	if err != nil {
		return err
	}
	l.Source = src
	if v.Clip != nil {
		l.Clip = &media.Clip{Name: v.Clip.Name, Width: v.Clip.Width, Height: v.Clip.Height, Length: v.Clip.Length}
	}
	l.StreamingPath = v.Path
	l.URL = v.URL
	if v.Loop != nil {
		l.Loop = *v.Loop
	}
	if v.Volume != nil {
		l.Volume = *v.Volume
	}
	if v.UI != nil {
		l.VideoUI = true
		if v.UI.Volume != nil {
			l.VideoUIVolume = *v.UI.Volume
		}
		if v.UI.Loop != nil {
			l.VideoUILoop = *v.UI.Loop
		}
	}
	return nil
}

func (w *World) buildEdge(from *location.Location, i int, ts TeleportSpec) (*location.TeleportEdge, error) {
	kind := location.SwitchLocation
	if ts.Kind != "" {
		k, err := location.ParseTransitionKind(ts.Kind)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	e := &location.TeleportEdge{Name: ts.Name, Kind: kind, ResetRotation: ts.ResetRotation}
	if ts.To != "" {
		t, ok := w.byName[ts.To]
		if !ok {
			return nil, fmt.Errorf("teleport to %q: %w", ts.To, ErrUnknownLocation)
		}
		e.Target = t
	}
	if e.Name == "" {
		e.Name = fmt.Sprintf("%s#%d", from.Name, i)
	}
	pos, err := ts.Position.Vec3()
	if err != nil {
		return nil, fmt.Errorf("teleport %q position: %w", e.Name, err)
	}
	e.Position = pos
	return e, nil
}

func buildPopup(owner *location.Location, ps PopupSpec) (*popup.Point, error) {
	pos, err := ps.Position.Vec3()
	if err != nil {
		return nil, err
	}
	p := &popup.Point{
		Name:     ps.Name,
		Location: owner,
		Position: owner.Position.Add(pos),
		Facing:   ps.Facing,
		Volume:   1,
	}
	if ps.Volume != nil {
		p.Volume = *ps.Volume
	}

	switch ps.Kind {
	case "", "info":
		p.Kind = popup.KindInfo
		p.Info = popup.Info{
			Title:        ps.Title,
			Text:         ps.Text,
			Image:        ps.Image,
			Custom:       ps.CustomPanel,
			CustomObject: ps.CustomObject,
		}
		switch ps.ImageSide {
		case "", "left":
			p.Info.Side = popup.LeftImage
		case "right":
			p.Info.Side = popup.RightImage
		default:
			return nil, fmt.Errorf("unknown image side %q", ps.ImageSide)
		}
	case "video":
		p.Kind = popup.KindVideo
		if v := ps.Video; v != nil {
			p.Video = media.VideoSpec{Name: ps.Name, URL: v.URL, Loop: v.Loop == nil || *v.Loop}
			if v.Clip != nil {
				p.Video.Clip = &media.Clip{Name: v.Clip.Name, Width: v.Clip.Width, Height: v.Clip.Height, Length: v.Clip.Length}
			}
		}
	default:
		return nil, fmt.Errorf("unknown popup kind %q", ps.Kind)
	}
	return p, nil
}
