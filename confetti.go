package confetti

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// RGBA returns c as a fully opaque color.RGBA.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// DefaultPalette is the nine-color confetti palette.
var DefaultPalette = []RGB{
	{149, 58, 255}, {255, 195, 41}, {255, 101, 26},
	{123, 92, 255}, {76, 126, 255}, {71, 192, 255},
	{255, 47, 39}, {255, 91, 134}, {233, 122, 208},
}

// Shape selects the sprite mask of a confetti piece.
type Shape uint8

const (
	ShapeRectangle Shape = iota // 20x13 filled rectangle
	ShapeCircle                 // 10x10 filled ellipse
)

func (s Shape) String() string {
	switch s {
	case ShapeRectangle:
		return "rectangle"
	case ShapeCircle:
		return "circle"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// Position is the depth layer of a confetti piece. It only affects draw
// order; physics treats both layers the same.
type Position uint8

const (
	PositionForeground Position = iota // drawn over background pieces
	PositionBackground                 // drawn first
)

func (p Position) String() string {
	if p == PositionBackground {
		return "background"
	}
	return "foreground"
}

var (
	allPositions = [...]Position{PositionForeground, PositionBackground}
	allShapes    = [...]Shape{ShapeRectangle, ShapeCircle}
)

// ErrEmptyPalette is returned when confetti types are requested for a
// palette with no colors.
var ErrEmptyPalette = errors.New("confetti: empty palette")

// ConfettiType is one particle variant. It is immutable after construction
// and owns its sprite image.
type ConfettiType struct {
	Color    RGB
	Shape    Shape
	Position Position

	image *image.RGBA
}

// Image returns the sprite rendered when the type was created. The returned
// image MUST NOT be mutated.
func (ct *ConfettiType) Image() *image.RGBA {
	return ct.image
}

func (ct *ConfettiType) String() string {
	return fmt.Sprintf("%s %s #%02x%02x%02x", ct.Position, ct.Shape, ct.Color.R, ct.Color.G, ct.Color.B)
}

// NewConfettiTypes builds one type per position × shape × color, in that
// nesting order, rendering each sprite with DefaultSprites.
func NewConfettiTypes(palette []RGB) ([]*ConfettiType, error) {
	return DefaultSprites.NewConfettiTypes(palette)
}

// NewConfettiTypes is like the package-level NewConfettiTypes but renders
// sprites with f's dimensions.
func (f SpriteFactory) NewConfettiTypes(palette []RGB) ([]*ConfettiType, error) {
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	types := make([]*ConfettiType, 0, len(allPositions)*len(allShapes)*len(palette))
	for _, pos := range allPositions {
		for _, shape := range allShapes {
			for _, c := range palette {
				img, err := f.Render(c, shape)
				if err != nil {
					return nil, err
				}
				types = append(types, &ConfettiType{Color: c, Shape: shape, Position: pos, image: img})
			}
		}
	}
	return types, nil
}

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// centered returns the range [mid-width/2, mid+width/2].
func centered(mid, width float64) Range {
	return Range{Min: mid - width/2, Max: mid + width/2}
}
