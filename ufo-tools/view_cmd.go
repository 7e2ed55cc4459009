package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/ufo"
	"github.com/thatisuday/commando"
	"golang.org/x/image/vector"
)

func runViewCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	r := mustOpen(args["font"].Value, true)
	defer r.Close()
	name := strings.TrimSpace(args["glyph"].Value)
	if name == "" {
		fatalf("glyph name is required")
	}
	layer := optString(flags["layer"], "layer")
	outPath := optString(flags["output"], "output")
	if outPath == "" {
		outPath = "ufo-tools-view.png"
	}
	width := mustFlagInt(flags["width"], "width")
	height := mustFlagInt(flags["height"], "height")
	ppem := mustFlagInt(flags["ppem"], "ppem")
	if width <= 0 || height <= 0 || ppem <= 0 {
		fatalf("width, height and ppem must be positive")
	}
	showBBox := mustFlagBool(flags["show-bbox"], "show-bbox")

	g, err := lookupGlyph(r, name, layer)
	if err != nil {
		fatalf("%v", err)
	}
	gs, err := r.GlyphSet()
	if layer != "" {
		gs, err = r.LayerGlyphSet(layer)
	}
	if err != nil {
		fatalf("%v", err)
	}
	segs, err := glyphPath(g, gs)
	if err != nil {
		fatalf("cannot resolve outline of %q: %v", name, err)
	}
	upm := 1000.0
	if fi, err := r.FontInfo(); err == nil {
		upm = ufo.MetricsInfo(fi).UnitsPerEm
	}
	if err := renderGlyphPNG(segs, upm, outPath, width, height, ppem, showBBox); err != nil {
		fatalf("cannot render %q: %v", name, err)
	}
	fmt.Printf("wrote %s\n", outPath)
}

func renderGlyphPNG(segs []segment, upm float64, outPath string, width int, height int, ppem int, showBBox bool) error {
	if upm <= 0 {
		return errors.New("invalid units-per-em")
	}
	scale := float64(ppem) / upm
	lo, hi, ok := bounds(segs)
	if !ok {
		lo, hi = point{}, point{}
	}
	// font units grow upward, image Y grows downward
	tx := float64(width)/2 - (lo.X+hi.X)/2*scale
	ty := float64(height)/2 + (lo.Y+hi.Y)/2*scale
	px := func(p point) (float32, float32) {
		return float32(tx + p.X*scale), float32(ty - p.Y*scale)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{255, 255, 255, 255}), image.Point{}, draw.Src)

	rast := vector.NewRasterizer(width, height)
	rast.DrawOp = draw.Over
	for _, seg := range segs {
		switch seg.Op {
		case opMoveTo:
			rast.MoveTo(px(seg.Args[0]))
		case opLineTo:
			rast.LineTo(px(seg.Args[0]))
		case opQuadTo:
			x1, y1 := px(seg.Args[0])
			x2, y2 := px(seg.Args[1])
			rast.QuadTo(x1, y1, x2, y2)
		case opCubeTo:
			x1, y1 := px(seg.Args[0])
			x2, y2 := px(seg.Args[1])
			x3, y3 := px(seg.Args[2])
			rast.CubeTo(x1, y1, x2, y2, x3, y3)
		case opClose:
			rast.ClosePath()
		}
	}
	rast.Draw(img, img.Bounds(), image.Black, image.Point{})
	if showBBox && ok {
		x0, y0 := px(point{lo.X, hi.Y})
		x1, y1 := px(point{hi.X, lo.Y})
		drawRectOutline(img,
			int(math.Floor(float64(x0))), int(math.Floor(float64(y0))),
			int(math.Ceil(float64(x1))), int(math.Ceil(float64(y1))),
			color.RGBA{255, 0, 0, 255})
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("cannot encode png: %w", err)
	}
	return nil
}

func drawRectOutline(img *image.RGBA, minX int, minY int, maxX int, maxY int, c color.RGBA) {
	if img == nil {
		return
	}
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	b := img.Bounds()
	minX, minY = max(minX, b.Min.X), max(minY, b.Min.Y)
	maxX, maxY = min(maxX, b.Max.X), min(maxY, b.Max.Y)
	if minX >= maxX || minY >= maxY {
		return
	}
	for x := minX; x < maxX; x++ {
		img.SetRGBA(x, minY, c)
		img.SetRGBA(x, maxY-1, c)
	}
	for y := minY; y < maxY; y++ {
		img.SetRGBA(minX, y, c)
		img.SetRGBA(maxX-1, y, c)
	}
}
