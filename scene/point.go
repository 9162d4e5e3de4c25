package scene

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/splat/vmath"
)

// Point is a 3D coordinate written as [x, y, z] or {x:, y:, z:}
type Point struct {
	X, Y, Z float64
}

func (p Point) Vec3() vmath.Vec3 {
	return vmath.V3(p.X, p.Y, p.Z)
}

func (p *Point) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.SequenceNode:
		var xs []float64
		if err := n.Decode(&xs); err != nil {
			return err
		}
		if len(xs) < 2 || len(xs) > 3 {
			return fmt.Errorf("line %d: point needs 2 or 3 components, got %d", n.Line, len(xs))
		}
		p.X, p.Y = xs[0], xs[1]
		p.Z = 0
		if len(xs) == 3 {
			p.Z = xs[2]
		}
		return nil
	case yaml.MappingNode:
		var m struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
			Z float64 `yaml:"z"`
		}
		if err := n.Decode(&m); err != nil {
			return err
		}
		*p = Point{m.X, m.Y, m.Z}
		return nil
	}
	return fmt.Errorf("line %d: point must be a sequence or mapping", n.Line)
}

func (p Point) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float64{p.X, p.Y, p.Z} {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(v)})
	}
	return n, nil
}

// Pixel is an integer screen position written as [x, y]
type Pixel struct {
	X, Y int
}

func (p Pixel) Vec2i() vmath.Vec2i {
	return vmath.V2i(p.X, p.Y)
}

func (p *Pixel) UnmarshalYAML(n *yaml.Node) error {
	var xs []int
	if err := n.Decode(&xs); err != nil {
		return err
	}
	if len(xs) != 2 {
		return fmt.Errorf("line %d: position needs 2 components, got %d", n.Line, len(xs))
	}
	p.X, p.Y = xs[0], xs[1]
	return nil
}

func (p Pixel) MarshalYAML() (interface{}, error) {
	return []int{p.X, p.Y}, nil
}
