package main

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"time"

	"github.com/lixenwraith/splat/audio"
	"github.com/lixenwraith/splat/mesh"
	"github.com/lixenwraith/splat/render"
	"github.com/lixenwraith/splat/render/ansiterm"
	"github.com/lixenwraith/splat/scene"
	"github.com/lixenwraith/splat/vmath"
)

// statsDepth keeps the stats line in front of everything else
const statsDepth = -math.MaxFloat64

// styledDrawer is implemented by the glyph backends
type styledDrawer interface {
	render.TextDrawer
	DrawStyledAt(x, y int, text string, z float64, style ansiterm.Style) error
	SetStyle(s ansiterm.Style)
}

// player renders a scene into one backend, one frame per call
type player struct {
	scene     *scene.Scene
	mesh      *mesh.Mesh
	overlay   image.Image
	backend   render.Backend
	threshold float64
	stats     bool
	sound     *audio.SoundManager

	frame    int
	lastBeat int
}

func newPlayer(sc *scene.Scene, backend render.Backend, threshold float64) (*player, error) {
	img, err := sc.OverlayImage()
	if err != nil {
		return nil, err
	}
	if threshold <= 0 {
		threshold = sc.Threshold
	}
	return &player{
		scene:     sc,
		mesh:      sc.Mesh(),
		overlay:   img,
		backend:   backend,
		threshold: threshold,
		stats:     true,
	}, nil
}

// renderFrame draws the scene at elapsed and flushes the backend
func (p *player) renderFrame(elapsed time.Duration) error {
	pose := p.scene.Pose(elapsed)
	pose.Apply(p.mesh)

	if err := render.RasterizeMesh(p.backend, p.mesh, p.threshold); err != nil {
		return fmt.Errorf("rasterize: %w", err)
	}

	if p.overlay != nil {
		w, h := p.backend.Size()
		img, pos := cropOverlay(p.overlay, p.scene.OverlayPosition(pose), w, h)
		if img != nil {
			if err := render.DrawImage2D(p.backend, img, pos, p.scene.Overlay.Depth); err != nil {
				return fmt.Errorf("overlay: %w", err)
			}
		}
	}

	if d, ok := p.backend.(styledDrawer); ok {
		p.drawText(d, pose)
	}

	if pose.Beat != p.lastBeat {
		p.lastBeat = pose.Beat
		if p.sound != nil {
			p.sound.PlayBeat()
		}
	}

	p.frame++
	if err := p.backend.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// drawText places scene labels and the stats line; text that does not fit is skipped
func (p *player) drawText(d styledDrawer, pose scene.Pose) {
	for _, l := range p.scene.Labels {
		style, ok := ansiterm.ParseStyle(l.Style)
		if !ok {
			style = ansiterm.StyleNone
		}
		pos := l.Position.Vec2i()
		if err := d.DrawStyledAt(pos.X, pos.Y, l.Text, l.Depth, style); err != nil {
			logSkipped(err)
		}
		d.SetStyle(ansiterm.StyleNone)
	}

	if !p.stats {
		return
	}
	w, h := p.backend.Size()
	line := fmt.Sprintf("%s %dx%d frame %d beat %d pulse %.2f", p.scene.Name, w, h, p.frame, pose.Beat, pose.Pulse)
	if err := d.DrawStyledAt(0, 0, line, statsDepth, ansiterm.StyleUnderline); err != nil {
		logSkipped(err)
	}
	d.SetStyle(ansiterm.StyleNone)
}

// cropOverlay trims img to the part that lands on a w x h surface when placed at pos
// Returns nil when nothing is visible; images without SubImage are returned whole
func cropOverlay(img image.Image, pos vmath.Vec2i, w, h int) (image.Image, vmath.Vec2i) {
	b := img.Bounds()
	origin := image.Pt(b.Min.X-pos.X, b.Min.Y-pos.Y)
	vis := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}.Intersect(b)
	if vis.Empty() {
		return nil, pos
	}
	sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return img, pos
	}
	return sub.SubImage(vis), pos.Add(vmath.V2i(vis.Min.X-b.Min.X, vis.Min.Y-b.Min.Y))
}

func logSkipped(err error) {
	if errors.Is(err, render.ErrIndexOutOfRange) {
		log.Printf("text skipped: %v", err)
		return
	}
	log.Printf("text draw failed: %v", err)
}
