package main

import (
	"fmt"
	"math"

	"github.com/npillmayer/ufo/glif"
)

// point is a position in font units.
type point struct {
	X, Y float64
}

type segmentOp int

const (
	opMoveTo segmentOp = iota
	opLineTo
	opQuadTo
	opCubeTo
	opClose
)

// segment is a drawing operation; Args holds 1, 2 or 3 points, depending
// on Op.
type segment struct {
	Op   segmentOp
	Args [3]point
}

// matrix is an affine transform [xx xy yx yy dx dy], as glif.Transform.
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

func (m matrix) apply(x, y float64) point {
	return point{m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]}
}

// then returns the transform applying inner first, then m.
func (m matrix) then(inner matrix) matrix {
	return matrix{
		m[0]*inner[0] + m[2]*inner[1],
		m[1]*inner[0] + m[3]*inner[1],
		m[0]*inner[2] + m[2]*inner[3],
		m[1]*inner[2] + m[3]*inner[3],
		m[0]*inner[4] + m[2]*inner[5] + m[4],
		m[1]*inner[4] + m[3]*inner[5] + m[5],
	}
}

// glyphSource resolves component base glyphs.
type glyphSource interface {
	Get(name string) (*glif.Glyph, error)
}

const maxComponentDepth = 32

// glyphPath flattens the outline of g into drawing segments, resolving
// components through src.
func glyphPath(g *glif.Glyph, src glyphSource) ([]segment, error) {
	var segs []segment
	err := appendGlyph(&segs, g, src, identity, 0)
	return segs, err
}

func appendGlyph(segs *[]segment, g *glif.Glyph, src glyphSource, m matrix, depth int) error {
	if depth > maxComponentDepth {
		return fmt.Errorf("components of %q nested too deeply", g.Name)
	}
	for _, e := range g.Outline.Elements {
		switch e := e.(type) {
		case *glif.Contour:
			*segs = append(*segs, contourPath(e, m)...)
		case *glif.Component:
			base, err := src.Get(e.Base)
			if err != nil {
				return err
			}
			if base == nil {
				warnf("glyph %q: component base %q not found", g.Name, e.Base)
				continue
			}
			if err := appendGlyph(segs, base, src, m.then(e.Transform.Matrix()), depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// contourPath converts a contour to segments. Closed contours are rotated
// to start at an on-curve point; contours without on-curve points are
// quadratic with implied on-curve points between all control points.
func contourPath(c *glif.Contour, m matrix) []segment {
	pts := c.Points
	if len(pts) == 0 {
		return nil
	}
	at := func(p glif.Point) point { return m.apply(p.X, p.Y) }
	if pts[0].Type == glif.Move {
		segs := []segment{{Op: opMoveTo, Args: [3]point{at(pts[0])}}}
		return appendSegments(segs, pts[1:], at)
	}
	start := -1
	for i, p := range pts {
		if p.Type.IsOnCurve() {
			start = i
			break
		}
	}
	if start < 0 {
		return offCurvePath(pts, at)
	}
	seq := make([]glif.Point, 0, len(pts))
	seq = append(seq, pts[start+1:]...)
	seq = append(seq, pts[:start+1]...)
	segs := []segment{{Op: opMoveTo, Args: [3]point{at(pts[start])}}}
	segs = appendSegments(segs, seq, at)
	return append(segs, segment{Op: opClose})
}

func appendSegments(segs []segment, seq []glif.Point, at func(glif.Point) point) []segment {
	var pending []point
	for _, p := range seq {
		if !p.Type.IsOnCurve() {
			pending = append(pending, at(p))
			continue
		}
		to := at(p)
		switch {
		case len(pending) == 0:
			segs = append(segs, segment{Op: opLineTo, Args: [3]point{to}})
		case p.Type == glif.QCurve:
			for i := 0; i < len(pending)-1; i++ {
				segs = append(segs, segment{Op: opQuadTo, Args: [3]point{pending[i], mid(pending[i], pending[i+1])}})
			}
			segs = append(segs, segment{Op: opQuadTo, Args: [3]point{pending[len(pending)-1], to}})
		case len(pending) == 1:
			segs = append(segs, segment{Op: opQuadTo, Args: [3]point{pending[0], to}})
		default:
			// curves with more than two control points use the outer ones
			segs = append(segs, segment{Op: opCubeTo, Args: [3]point{pending[0], pending[len(pending)-1], to}})
		}
		pending = pending[:0]
	}
	return segs
}

func offCurvePath(pts []glif.Point, at func(glif.Point) point) []segment {
	n := len(pts)
	segs := []segment{{Op: opMoveTo, Args: [3]point{mid(at(pts[n-1]), at(pts[0]))}}}
	for i := range pts {
		p, next := at(pts[i]), at(pts[(i+1)%n])
		segs = append(segs, segment{Op: opQuadTo, Args: [3]point{p, mid(p, next)}})
	}
	return append(segs, segment{Op: opClose})
}

func mid(a, b point) point {
	return point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// bounds returns the box around all points of segs, including control
// points.
func bounds(segs []segment) (lo, hi point, ok bool) {
	lo = point{math.Inf(1), math.Inf(1)}
	hi = point{math.Inf(-1), math.Inf(-1)}
	for _, s := range segs {
		for _, p := range s.Args[:s.Op.argCount()] {
			lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
			hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
			ok = true
		}
	}
	return
}

func (op segmentOp) argCount() int {
	switch op {
	case opMoveTo, opLineTo:
		return 1
	case opQuadTo:
		return 2
	case opCubeTo:
		return 3
	}
	return 0
}
