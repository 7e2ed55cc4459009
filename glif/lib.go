package glif

import "github.com/npillmayer/ufo/plist"

// Well-known keys of glyph libs.
const (
	MarkColorKey      = "public.markColor"
	VerticalOriginKey = "public.verticalOrigin"
)

// MarkColor returns the mark color of g, a string of four comma-separated
// components in the range 0…1.
func (g *Glyph) MarkColor() (string, bool) {
	return g.Lib.String(MarkColorKey)
}

// SetMarkColor sets the mark color of g. An empty color removes it.
func (g *Glyph) SetMarkColor(color string) {
	if color == "" {
		g.deleteLibKey(MarkColorKey)
		return
	}
	g.setLibKey(MarkColorKey, color)
}

// VerticalOrigin returns the y coordinate of the vertical origin of g.
func (g *Glyph) VerticalOrigin() (float64, bool) {
	return g.Lib.Float(VerticalOriginKey)
}

// SetVerticalOrigin sets the vertical origin of g.
func (g *Glyph) SetVerticalOrigin(y float64) {
	if y == float64(int64(y)) {
		g.setLibKey(VerticalOriginKey, int64(y))
		return
	}
	g.setLibKey(VerticalOriginKey, y)
}

// ClearVerticalOrigin removes the vertical origin of g.
func (g *Glyph) ClearVerticalOrigin() {
	g.deleteLibKey(VerticalOriginKey)
}

func (g *Glyph) setLibKey(key string, v any) {
	if g.Lib == nil {
		g.Lib = plist.NewDict()
	}
	g.Lib.Set(key, v)
}

// deleteLibKey keeps an emptied lib absent.
func (g *Glyph) deleteLibKey(key string) {
	g.Lib.Delete(key)
	if g.Lib.Len() == 0 {
		g.Lib = nil
	}
}
