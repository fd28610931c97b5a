package gpu

import (
	"errors"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Errors returned by PassBindings when draw preconditions are not met.
var (
	// ErrNoPipeline is returned by DrawIndexed when no pipeline is bound.
	ErrNoPipeline = errors.New("gpu: draw without a bound pipeline")

	// ErrNoIndexBuffer is returned by DrawIndexed when no index buffer
	// is bound.
	ErrNoIndexBuffer = errors.New("gpu: indexed draw without a bound index buffer")
)

// PassBindings tracks the binding state of a single render pass: the
// current pipeline, vertex buffer slot 0, and index buffer. Draws go
// through the tracker so that a draw with missing bindings is an explicit
// error instead of undefined device behavior.
//
// The wrapped encoder may be nil, in which case bindings and draws are
// tracked but not forwarded. Tests use this to verify recording without a
// render pass.
//
// PassBindings is single-threaded, like the render pass it wraps.
type PassBindings struct {
	rp hal.RenderPassEncoder

	pipeline    hal.RenderPipeline
	vertexBuf   hal.Buffer
	indexBuf    hal.Buffer
	indexFormat gputypes.IndexFormat

	draws          int
	lastIndexCount uint32
}

// NewPassBindings creates a binding tracker for the given render pass
// encoder. All bindings start empty.
func NewPassBindings(rp hal.RenderPassEncoder) *PassBindings {
	return &PassBindings{rp: rp}
}

// SetPipeline binds a render pipeline.
func (p *PassBindings) SetPipeline(pipeline hal.RenderPipeline) {
	p.pipeline = pipeline
	if p.rp != nil {
		p.rp.SetPipeline(pipeline)
	}
}

// SetVertexBuffer binds a vertex buffer to slot 0.
func (p *PassBindings) SetVertexBuffer(buf hal.Buffer) {
	p.vertexBuf = buf
	if p.rp != nil {
		p.rp.SetVertexBuffer(0, buf, 0)
	}
}

// SetIndexBuffer binds an index buffer with the given format.
func (p *PassBindings) SetIndexBuffer(buf hal.Buffer, format gputypes.IndexFormat) {
	p.indexBuf = buf
	p.indexFormat = format
	if p.rp != nil {
		p.rp.SetIndexBuffer(buf, format, 0)
	}
}

// DrawIndexed issues one indexed draw of indexCount indices. Returns an
// error when no pipeline or no index buffer is bound.
func (p *PassBindings) DrawIndexed(indexCount uint32) error {
	if p.pipeline == nil {
		return ErrNoPipeline
	}
	if p.indexBuf == nil {
		return ErrNoIndexBuffer
	}
	if p.rp != nil {
		p.rp.DrawIndexed(indexCount, 1, 0, 0, 0)
	}
	p.draws++
	p.lastIndexCount = indexCount
	return nil
}

// Reset clears all tracked bindings. Shapes call this after recording so
// the pass returns to the unbound state between shapes. Draw statistics
// are kept.
func (p *PassBindings) Reset() {
	p.pipeline = nil
	p.vertexBuf = nil
	p.indexBuf = nil
	p.indexFormat = 0
}

// Pipeline returns the currently bound pipeline, or nil.
func (p *PassBindings) Pipeline() hal.RenderPipeline { return p.pipeline }

// HasVertexBuffer reports whether a vertex buffer is bound at slot 0.
func (p *PassBindings) HasVertexBuffer() bool { return p.vertexBuf != nil }

// HasIndexBuffer reports whether an index buffer is bound.
func (p *PassBindings) HasIndexBuffer() bool { return p.indexBuf != nil }

// DrawCount returns the number of draws issued through this tracker.
func (p *PassBindings) DrawCount() int { return p.draws }

// LastIndexCount returns the index count of the most recent draw.
func (p *PassBindings) LastIndexCount() uint32 { return p.lastIndexCount }
