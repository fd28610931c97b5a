package gpu

import (
	"image"
)

// Target is a CPU-side pixel buffer that Frame.RenderShapes reads rendered
// frames into. Pixels are tightly packed RGBA8, 4 bytes per pixel, rows
// top to bottom.
type Target struct {
	// Data holds Width*Height*4 bytes of RGBA pixels.
	Data []uint8

	// Width and Height are the target dimensions in pixels.
	Width, Height int

	// Stride is the byte length of one row (Width * 4).
	Stride int
}

// NewTarget allocates a target with the given dimensions.
func NewTarget(width, height int) *Target {
	return &Target{
		Data:   make([]uint8, width*height*4),
		Width:  width,
		Height: height,
		Stride: width * 4,
	}
}

// Image wraps the target's pixels in an image.RGBA sharing the same
// backing array, ready for image/png encoding.
func (t *Target) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    t.Data,
		Stride: t.Stride,
		Rect:   image.Rect(0, 0, t.Width, t.Height),
	}
}
