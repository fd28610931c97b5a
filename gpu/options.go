package gpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/facet"
)

// PipelineOption configures a ShapePipeline.
type PipelineOption func(*pipelineConfig)

type pipelineConfig struct {
	source string
	format gputypes.TextureFormat
}

// WithShaderSource replaces the built-in shape shader with custom WGSL
// source. The source must declare vs_main and fs_main entry points and
// match the interleaved vertex layout. Combine with facet.LoadShader to
// read source from a file.
func WithShaderSource(source string) PipelineOption {
	return func(c *pipelineConfig) { c.source = source }
}

// WithTargetFormat sets the color target format the pipeline renders to.
// Default is BGRA8Unorm, matching Frame's offscreen texture.
func WithTargetFormat(format gputypes.TextureFormat) PipelineOption {
	return func(c *pipelineConfig) { c.format = format }
}

// ShapeOption configures a Shape at construction.
type ShapeOption func(*shapeConfig)

type shapeConfig struct {
	label     string
	format    facet.IndexFormat
	hasFormat bool
}

// WithLabel sets the GPU debug label prefix for the shape's buffers.
func WithLabel(label string) ShapeOption {
	return func(c *shapeConfig) { c.label = label }
}

// WithIndexFormat overrides the automatically selected index format.
// The override may widen but never narrow: forcing Uint16 on a geometry
// with more than 65536 vertices is a construction error.
func WithIndexFormat(format facet.IndexFormat) ShapeOption {
	return func(c *shapeConfig) {
		c.format = format
		c.hasFormat = true
	}
}

// FrameOption configures a Frame.
type FrameOption func(*frameConfig)

type frameConfig struct {
	clear gputypes.Color
}

// WithClearColor sets the color the frame's render pass clears to before
// shapes are drawn. Default is opaque black.
func WithClearColor(r, g, b, a float64) FrameOption {
	return func(c *frameConfig) {
		c.clear = gputypes.Color{R: r, G: g, B: b, A: a}
	}
}
