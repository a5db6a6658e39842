package confetti

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/vector"
)

// ErrRender is returned when a sprite surface cannot be allocated.
var ErrRender = errors.New("confetti: sprite render failed")

// maxSpriteSide bounds sprite allocations; anything larger is a config error.
const maxSpriteSide = 4096

// kappa is the cubic Bézier control distance for a quarter circle.
const kappa = 0.5522847498

// SpriteFactory renders confetti sprites procedurally.
type SpriteFactory struct {
	RectWidth, RectHeight int
	CircleDiameter        int
}

// DefaultSprites renders 20x13 rectangles and 10x10 circles.
var DefaultSprites = SpriteFactory{RectWidth: 20, RectHeight: 13, CircleDiameter: 10}

// RenderSprite renders a sprite with DefaultSprites.
func RenderSprite(c RGB, s Shape) (*image.RGBA, error) {
	return DefaultSprites.Render(c, s)
}

// Size returns the sprite dimensions for shape s.
func (f SpriteFactory) Size(s Shape) (w, h int) {
	switch s {
	case ShapeRectangle:
		return f.RectWidth, f.RectHeight
	case ShapeCircle:
		return f.CircleDiameter, f.CircleDiameter
	default:
		return 0, 0
	}
}

// Render fills a new surface with c using s as the mask: the whole surface
// for ShapeRectangle, the inscribed ellipse for ShapeCircle. Output depends
// only on (c, s) and the factory dimensions.
func (f SpriteFactory) Render(c RGB, s Shape) (*image.RGBA, error) {
	w, h := f.Size(s)
	if w <= 0 || h <= 0 || w > maxSpriteSide || h > maxSpriteSide {
		return nil, fmt.Errorf("%w: %s surface %dx%d", ErrRender, s, w, h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	src := image.NewUniform(c.RGBA())

	switch s {
	case ShapeRectangle:
		draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
	case ShapeCircle:
		z := vector.NewRasterizer(w, h)
		ellipsePath(z, float32(w), float32(h))
		z.Draw(dst, dst.Bounds(), src, image.Point{})
	}
	return dst, nil
}

// ellipsePath appends the ellipse inscribed in (0,0)-(w,h) as four cubic arcs.
func ellipsePath(z *vector.Rasterizer, w, h float32) {
	rx, ry := w/2, h/2
	cx, cy := rx, ry
	kx, ky := rx*kappa, ry*kappa

	z.MoveTo(cx+rx, cy)
	z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	z.ClosePath()
}

// spriteSheetPad is the gap between cells of a sprite sheet.
const spriteSheetPad = 2

// SpriteSheet lays out the sprite of every type in a grid with cols cells
// per row, in slice order.
func SpriteSheet(types []*ConfettiType, cols int) *image.RGBA {
	if cols <= 0 {
		cols = 1
	}
	cellW, cellH := 0, 0
	for _, ct := range types {
		b := ct.image.Bounds()
		cellW = max(cellW, b.Dx())
		cellH = max(cellH, b.Dy())
	}
	rows := (len(types) + cols - 1) / cols
	sheet := image.NewRGBA(image.Rect(0, 0,
		cols*(cellW+spriteSheetPad)+spriteSheetPad,
		rows*(cellH+spriteSheetPad)+spriteSheetPad))

	for i, ct := range types {
		x := spriteSheetPad + (i%cols)*(cellW+spriteSheetPad)
		y := spriteSheetPad + (i/cols)*(cellH+spriteSheetPad)
		b := ct.image.Bounds()
		draw.Draw(sheet, image.Rect(x, y, x+b.Dx(), y+b.Dy()), ct.image, b.Min, draw.Over)
	}
	return sheet
}

// WriteSpriteSheetPNG encodes SpriteSheet(types, cols) to a PNG file at path.
func WriteSpriteSheetPNG(path string, types []*ConfettiType, cols int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, SpriteSheet(types, cols)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
