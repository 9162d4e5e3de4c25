package render

import (
	"image"
	"image/color"

	"github.com/lixenwraith/splat/mesh"
	"github.com/lixenwraith/splat/vmath"
)

// MarkerGlyph marks image pixels on glyph backends
const MarkerGlyph = '&'

// RasterizeVertices splats every vertex onto every cell within maxDistance of its XY projection
// Walk order is x outer, y inner, vertices in list order; the boundary is inclusive
func RasterizeVertices(s Surface, verts []vmath.Vec3, maxDistance float64) error {
	w, h := s.Size()
	for x := 0; x < w; x++ {
		fx := float64(x)
		for y := 0; y < h; y++ {
			fy := float64(y)
			for _, v := range verts {
				if v.PlanarDistance(fx, fy) > maxDistance {
					continue
				}
				if err := s.Plot(x, y, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// RasterizeMesh splats the mesh's transformed vertices
func RasterizeMesh(s Surface, m *mesh.Mesh, maxDistance float64) error {
	return RasterizeVertices(s, m.TransformedVertices(), maxDistance)
}

// DrawImage2D stamps every source pixel with a non-zero red channel at pos+(x,y)
// The first out-of-range stamp aborts the draw with the surface's error
func DrawImage2D(s Surface, img image.Image, pos vmath.Vec2i, z float64) error {
	b := img.Bounds()
	for sy := b.Min.Y; sy < b.Max.Y; sy++ {
		for sx := b.Min.X; sx < b.Max.X; sx++ {
			c := color.NRGBAModel.Convert(img.At(sx, sy)).(color.NRGBA)
			if c.R == 0 {
				continue
			}
			x := pos.X + sx - b.Min.X
			y := pos.Y + sy - b.Min.Y
			if err := s.Stamp(x, y, c, z); err != nil {
				return err
			}
		}
	}
	return nil
}

// Glyph maps depth to a density glyph, nearer is denser
func Glyph(z float64) rune {
	switch {
	case z > 16:
		return '.'
	case z > 8:
		return 'u'
	case z > 4:
		return 'w'
	case z > 2:
		return 'W'
	default:
		return '@'
	}
}
