package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestPassBindingsDrawWithoutPipeline(t *testing.T) {
	pass := NewPassBindings(nil)

	if err := pass.DrawIndexed(6); !errors.Is(err, ErrNoPipeline) {
		t.Fatalf("expected ErrNoPipeline, got %v", err)
	}
	if pass.DrawCount() != 0 {
		t.Error("failed draw must not be counted")
	}
}

func TestPassBindingsDrawWithoutIndexBuffer(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	p, err := NewShapePipeline(device)
	if err != nil {
		t.Fatalf("NewShapePipeline failed: %v", err)
	}
	defer p.Destroy()

	pass := NewPassBindings(nil)
	pass.SetPipeline(p.Raw())

	if err := pass.DrawIndexed(6); !errors.Is(err, ErrNoIndexBuffer) {
		t.Fatalf("expected ErrNoIndexBuffer, got %v", err)
	}
}

func TestPassBindingsFullSequence(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p, err := NewShapePipeline(device)
	if err != nil {
		t.Fatalf("NewShapePipeline failed: %v", err)
	}
	defer p.Destroy()

	vertexBuf, err := createAndUploadBuffer(device, queue, "test_verts",
		make([]byte, 128), gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		t.Fatalf("create vertex buffer: %v", err)
	}
	defer device.DestroyBuffer(vertexBuf)

	indexBuf, err := createAndUploadBuffer(device, queue, "test_indices",
		make([]byte, 12), gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		t.Fatalf("create index buffer: %v", err)
	}
	defer device.DestroyBuffer(indexBuf)

	pass := NewPassBindings(nil)
	pass.SetPipeline(p.Raw())
	pass.SetVertexBuffer(vertexBuf)
	pass.SetIndexBuffer(indexBuf, gputypes.IndexFormatUint16)

	if err := pass.DrawIndexed(6); err != nil {
		t.Fatalf("DrawIndexed failed: %v", err)
	}
	if pass.DrawCount() != 1 {
		t.Errorf("expected 1 draw, got %d", pass.DrawCount())
	}
	if pass.LastIndexCount() != 6 {
		t.Errorf("expected 6 indices drawn, got %d", pass.LastIndexCount())
	}
}

func TestPassBindingsReset(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	p, err := NewShapePipeline(device)
	if err != nil {
		t.Fatalf("NewShapePipeline failed: %v", err)
	}
	defer p.Destroy()

	indexBuf, err := createAndUploadBuffer(device, queue, "test_indices",
		make([]byte, 12), gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		t.Fatalf("create index buffer: %v", err)
	}
	defer device.DestroyBuffer(indexBuf)

	pass := NewPassBindings(nil)
	pass.SetPipeline(p.Raw())
	pass.SetIndexBuffer(indexBuf, gputypes.IndexFormatUint16)
	if err := pass.DrawIndexed(3); err != nil {
		t.Fatalf("DrawIndexed failed: %v", err)
	}

	pass.Reset()

	if pass.Pipeline() != nil {
		t.Error("expected nil pipeline after Reset")
	}
	if pass.HasVertexBuffer() {
		t.Error("expected no vertex buffer after Reset")
	}
	if pass.HasIndexBuffer() {
		t.Error("expected no index buffer after Reset")
	}
	// Draw statistics survive Reset.
	if pass.DrawCount() != 1 {
		t.Errorf("expected draw count 1 after Reset, got %d", pass.DrawCount())
	}

	// Drawing again without rebinding is an explicit error.
	if err := pass.DrawIndexed(3); !errors.Is(err, ErrNoPipeline) {
		t.Fatalf("expected ErrNoPipeline after Reset, got %v", err)
	}
}
