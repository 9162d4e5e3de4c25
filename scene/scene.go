// Package scene loads splat scenes: a vertex mesh, its base pose, overlays and the animation that drives it
package scene

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	_ "image/png"

	"github.com/lixenwraith/splat/mesh"
	"github.com/lixenwraith/splat/vmath"
)

//go:embed heart.yaml loveyou.png
var builtin embed.FS

const defaultFile = "heart.yaml"

var (
	ErrNoVertices = errors.New("scene has no vertices")
	ErrThreshold  = errors.New("threshold must be positive")
	ErrNegative   = errors.New("durations must not be negative")
)

// Scene is a parsed scene file
type Scene struct {
	Name      string    `yaml:"name"`
	Width     int       `yaml:"width"`
	Height    int       `yaml:"height"`
	Threshold float64   `yaml:"threshold"`
	Scale     Point     `yaml:"scale"`
	Translate Point     `yaml:"translation"`
	Rotation  Point     `yaml:"rotation"`
	Vertices  []Point   `yaml:"vertices"`
	Overlay   *Overlay  `yaml:"overlay,omitempty"`
	Labels    []Label   `yaml:"labels,omitempty"`
	Animation Animation `yaml:"animation"`

	// fsys resolves overlay paths
	fsys fs.FS
}

// Overlay is a 2D image stamped over the mesh
type Overlay struct {
	Image      string  `yaml:"image"`
	Position   Pixel   `yaml:"position"`
	Depth      float64 `yaml:"depth"`
	FollowSway bool    `yaml:"follow_sway"`
}

// Label is fixed text drawn by glyph backends
type Label struct {
	Position Pixel   `yaml:"position"`
	Text     string  `yaml:"text"`
	Style    string  `yaml:"style,omitempty"`
	Depth    float64 `yaml:"depth"`
}

// Animation drives the per-frame pose
type Animation struct {
	Sway struct {
		Amplitude float64       `yaml:"amplitude"`
		Period    time.Duration `yaml:"period"`
	} `yaml:"sway"`
	Beat struct {
		Interval time.Duration `yaml:"interval"`
		Pulse    float64       `yaml:"pulse"`
		Decay    time.Duration `yaml:"decay"`
	} `yaml:"beat"`
	Spin struct {
		XAmplitude float64       `yaml:"x_amplitude"`
		XPeriod    time.Duration `yaml:"x_period"`
		YPeriod    time.Duration `yaml:"y_period"`
		ZAmplitude float64       `yaml:"z_amplitude"`
		ZPeriod    time.Duration `yaml:"z_period"`
	} `yaml:"spin"`
}

// Default returns the embedded beating heart scene
func Default() *Scene {
	data, err := builtin.ReadFile(defaultFile)
	if err != nil {
		panic(fmt.Sprintf("scene: embedded %s: %v", defaultFile, err))
	}
	s, err := parse(data, builtin)
	if err != nil {
		panic(fmt.Sprintf("scene: embedded %s: %v", defaultFile, err))
	}
	return s
}

// Load reads a scene file; overlay paths resolve relative to its directory
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return parse(data, os.DirFS(filepath.Dir(path)))
}

// Parse decodes a scene without a base directory; overlays must then be absent
func Parse(data []byte) (*Scene, error) {
	return parse(data, nil)
}

func parse(data []byte, fsys fs.FS) (*Scene, error) {
	s := &Scene{
		Scale: Point{1, 1, 1},
		fsys:  fsys,
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %q: %w", s.Name, err)
	}
	return s, nil
}

// Validate checks the invariants a renderable scene needs
func (s *Scene) Validate() error {
	if len(s.Vertices) == 0 {
		return ErrNoVertices
	}
	if s.Threshold <= 0 {
		return ErrThreshold
	}
	a := s.Animation
	if a.Beat.Interval < 0 || a.Beat.Decay < 0 || a.Sway.Period < 0 ||
		a.Spin.XPeriod < 0 || a.Spin.YPeriod < 0 || a.Spin.ZPeriod < 0 {
		return ErrNegative
	}
	return nil
}

// Mesh builds a mesh from the scene vertices at the base pose
func (s *Scene) Mesh() *mesh.Mesh {
	verts := make([]vmath.Vec3, len(s.Vertices))
	for i, p := range s.Vertices {
		verts[i] = p.Vec3()
	}
	m := mesh.FromVertices(verts)
	m.SetPose(
		vmath.Scale(s.Scale.Vec3()),
		vmath.EulerRotation(s.Rotation.Vec3()),
		vmath.Translation(s.Translate.Vec3()),
	)
	return m
}

// OverlayImage decodes the overlay image, nil without an overlay
func (s *Scene) OverlayImage() (image.Image, error) {
	if s.Overlay == nil || s.Overlay.Image == "" {
		return nil, nil
	}
	if s.fsys == nil {
		return nil, fmt.Errorf("scene: overlay %q: no base directory", s.Overlay.Image)
	}
	f, err := s.fsys.Open(s.Overlay.Image)
	if err != nil {
		return nil, fmt.Errorf("scene: overlay: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("scene: overlay %q: %w", s.Overlay.Image, err)
	}
	return img, nil
}

// Pose is the mesh transform and derived values at one instant
type Pose struct {
	Scale       vmath.Mat4
	Rotation    vmath.Mat4
	Translation vmath.Mat4
	Sway        float64
	Pulse       float64
	Beat        int
}

// Apply sets the pose on m
func (p Pose) Apply(m *mesh.Mesh) {
	m.SetPose(p.Scale, p.Rotation, p.Translation)
}

// Pose computes the transform at elapsed time since the animation started
// Phases advance one radian per period; a beat pulse decays linearly back to 1
func (s *Scene) Pose(elapsed time.Duration) Pose {
	a := s.Animation

	sway := a.Sway.Amplitude * math.Sin(phase(elapsed, a.Sway.Period))

	beat := 0
	pulse := 1.0
	if a.Beat.Interval > 0 {
		beat = int(elapsed / a.Beat.Interval)
		if beat > 0 && a.Beat.Pulse > 1 {
			since := elapsed - time.Duration(beat)*a.Beat.Interval
			pulse = a.Beat.Pulse
			if a.Beat.Decay > 0 {
				pulse -= float64(since) / float64(a.Beat.Decay)
			}
			if pulse < 1 {
				pulse = 1
			}
		}
	}

	rot := s.Rotation.Vec3().Add(vmath.V3(
		a.Spin.XAmplitude*math.Sin(phase(elapsed, a.Spin.XPeriod)),
		phase(elapsed, a.Spin.YPeriod),
		a.Spin.ZAmplitude*math.Sin(phase(elapsed, a.Spin.ZPeriod)),
	))

	return Pose{
		Scale:       vmath.Scale(s.Scale.Vec3().Scale(pulse)),
		Rotation:    vmath.EulerRotation(rot),
		Translation: vmath.Translation(s.Translate.Vec3().Add(vmath.V3(sway, 0, 0))),
		Sway:        sway,
		Pulse:       pulse,
		Beat:        beat,
	}
}

// OverlayPosition returns where the overlay goes for a pose
func (s *Scene) OverlayPosition(p Pose) vmath.Vec2i {
	if s.Overlay == nil {
		return vmath.Vec2i{}
	}
	pos := s.Overlay.Position.Vec2i()
	if s.Overlay.FollowSway {
		pos.X += int(p.Sway)
	}
	return pos
}

// phase is elapsed/period in radians, 0 when the period is unset
func phase(elapsed, period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	return float64(elapsed) / float64(period)
}
