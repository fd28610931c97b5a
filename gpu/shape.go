package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/facet"
)

// Errors returned by shape construction and recording.
var (
	// ErrShapeDestroyed is returned by Record after Destroy.
	ErrShapeDestroyed = errors.New("gpu: shape destroyed")

	// ErrNilGeometry is returned when NewShape is called without geometry.
	ErrNilGeometry = errors.New("gpu: nil geometry")

	// ErrNilPipeline is returned when NewShape is called without a pipeline.
	ErrNilPipeline = errors.New("gpu: nil pipeline")
)

// Shape is geometry uploaded to the device: a vertex buffer, an index
// buffer, and a reference to the shared pipeline that draws it. A shape is
// immutable after construction; recreate it to change geometry.
type Shape struct {
	device hal.Device

	pipeline  *ShapePipeline
	vertexBuf hal.Buffer
	indexBuf  hal.Buffer

	indexCount  uint32
	indexFormat facet.IndexFormat

	destroyed bool
}

// NewShape uploads the geometry's vertex and index data and returns a
// drawable shape. Any device allocation failure fails the construction and
// releases whatever was created; there is no degraded half-built shape.
//
// The pipeline is shared and stays owned by the caller.
func NewShape(device hal.Device, queue hal.Queue, pipeline *ShapePipeline, geom *facet.Geometry, opts ...ShapeOption) (*Shape, error) {
	if geom == nil {
		return nil, ErrNilGeometry
	}
	if pipeline == nil {
		return nil, ErrNilPipeline
	}

	cfg := shapeConfig{label: "shape"}
	for _, opt := range opts {
		opt(&cfg)
	}
	format := geom.IndexFormat()
	if cfg.hasFormat {
		format = cfg.format
	}

	indexData, err := geom.IndexData(format)
	if err != nil {
		return nil, fmt.Errorf("gpu: pack indices: %w", err)
	}

	vertexBuf, err := createAndUploadBuffer(device, queue, cfg.label+"_verts",
		geom.VertexData(), gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("gpu: create vertex buffer: %w", err)
	}

	indexBuf, err := createAndUploadBuffer(device, queue, cfg.label+"_indices",
		indexData, gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		device.DestroyBuffer(vertexBuf)
		return nil, fmt.Errorf("gpu: create index buffer: %w", err)
	}

	facet.Logger().Debug("gpu: shape created",
		"label", cfg.label,
		"vertices", geom.VertexCount(),
		"indices", geom.IndexCount(),
		"indexFormat", format.String())

	return &Shape{
		device:      device,
		pipeline:    pipeline,
		vertexBuf:   vertexBuf,
		indexBuf:    indexBuf,
		indexCount:  uint32(geom.IndexCount()), //nolint:gosec // index count fits uint32
		indexFormat: format,
	}, nil
}

// Record binds the shape's pipeline, vertex buffer, and index buffer into
// the pass and issues one indexed draw consuming the full index count.
// The bindings are reset afterwards, so every shape starts from the
// unbound state.
//
// Returns ErrShapeDestroyed after Destroy.
func (s *Shape) Record(pass *PassBindings) error {
	if s.destroyed {
		return ErrShapeDestroyed
	}
	pass.SetPipeline(s.pipeline.Raw())
	pass.SetVertexBuffer(s.vertexBuf)
	pass.SetIndexBuffer(s.indexBuf, halIndexFormat(s.indexFormat))
	err := pass.DrawIndexed(s.indexCount)
	pass.Reset()
	return err
}

// IndexCount returns the number of indices drawn by Record.
func (s *Shape) IndexCount() uint32 { return s.indexCount }

// IndexFormat returns the on-device index width.
func (s *Shape) IndexFormat() facet.IndexFormat { return s.indexFormat }

// Destroy releases the vertex and index buffers. Safe to call multiple
// times. The shared pipeline is not destroyed.
func (s *Shape) Destroy() {
	if s.destroyed {
		return
	}
	if s.indexBuf != nil {
		s.device.DestroyBuffer(s.indexBuf)
		s.indexBuf = nil
	}
	if s.vertexBuf != nil {
		s.device.DestroyBuffer(s.vertexBuf)
		s.vertexBuf = nil
	}
	s.destroyed = true
}

// halIndexFormat maps facet's index format to the hal enum.
func halIndexFormat(f facet.IndexFormat) gputypes.IndexFormat {
	if f == facet.IndexFormatUint32 {
		return gputypes.IndexFormatUint32
	}
	return gputypes.IndexFormatUint16
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func createAndUploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
