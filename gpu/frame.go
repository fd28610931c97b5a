package gpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNilTarget is returned when RenderShapes is called without a target.
var ErrNilTarget = errors.New("gpu: nil render target")

// Frame renders shapes to an offscreen color texture and reads the pixels
// back to a CPU target. The color texture is created lazily and reused
// across frames; it is recreated when the target size changes.
//
// For windowed rendering the host owns the render pass; use RecordShapes
// with the host's encoder instead and skip the readback entirely.
type Frame struct {
	device hal.Device
	queue  hal.Queue

	colorTex  hal.Texture
	colorView hal.TextureView
	width     uint32
	height    uint32

	clear gputypes.Color
}

// NewFrame creates a frame renderer. Textures are not allocated until the
// first RenderShapes call.
func NewFrame(device hal.Device, queue hal.Queue, opts ...FrameOption) *Frame {
	cfg := frameConfig{
		clear: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Frame{
		device: device,
		queue:  queue,
		clear:  cfg.clear,
	}
}

// ensureTexture creates or recreates the offscreen color texture if the
// requested dimensions differ from the current size.
func (f *Frame) ensureTexture(w, h uint32) error {
	if f.width == w && f.height == h && f.colorTex != nil {
		return nil
	}
	f.destroyTexture()

	colorTex, err := f.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "frame_color",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	f.colorTex = colorTex

	colorView, err := f.device.CreateTextureView(colorTex, &hal.TextureViewDescriptor{
		Label: "frame_color_view",
	})
	if err != nil {
		f.destroyTexture()
		return fmt.Errorf("create color view: %w", err)
	}
	f.colorView = colorView

	f.width = w
	f.height = h
	return nil
}

// RecordShapes records every shape into an existing render pass through a
// fresh binding tracker. The pass is owned by the caller. Used for
// windowed rendering where the host controls attachments and presentation.
func (f *Frame) RecordShapes(rp hal.RenderPassEncoder, shapes []*Shape) error {
	pass := NewPassBindings(rp)
	for i, s := range shapes {
		if err := s.Record(pass); err != nil {
			return fmt.Errorf("record shape %d: %w", i, err)
		}
	}
	return nil
}

// RenderShapes renders all shapes in one render pass, clearing first, and
// reads the pixels back into target as tightly packed RGBA. Returns nil
// without touching the device when shapes is empty.
func (f *Frame) RenderShapes(target *Target, shapes []*Shape) error {
	if target == nil {
		return ErrNilTarget
	}
	if len(shapes) == 0 {
		return nil
	}

	w, h := uint32(target.Width), uint32(target.Height) //nolint:gosec // dimensions always fit uint32
	if err := f.ensureTexture(w, h); err != nil {
		return fmt.Errorf("gpu: ensure frame texture: %w", err)
	}

	encoder, err := f.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       f.colorView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: f.clear,
		}},
	})

	pass := NewPassBindings(rp)
	for i, s := range shapes {
		if err := s.Record(pass); err != nil {
			rp.End()
			encoder.DiscardEncoding()
			return fmt.Errorf("gpu: record shape %d: %w", i, err)
		}
	}

	rp.End()

	// The color texture leaves the pass in render-attachment layout;
	// CopyTextureToBuffer needs it as a transfer source. No-op on
	// backends without explicit layouts.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: f.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	// Copy to a staging buffer for CPU readback. WebGPU (and DX12)
	// requires BytesPerRow aligned to 256 bytes.
	bytesPerRow := w * 4
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingBufSize := uint64(alignedBytesPerRow) * uint64(h)

	stagingBuf, err := f.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "frame_staging",
		Size:  stagingBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer f.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(f.colorTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: f.colorTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	// Transition back so the next frame's render pass finds the texture
	// in the layout it expects.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: f.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer f.device.FreeCommandBuffer(cmdBuf)

	fence, err := f.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer f.device.DestroyFence(fence)

	if err := f.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	fenceOK, err := f.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("gpu: wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, stagingBufSize)
	if err := f.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("gpu: readback: %w", err)
	}

	// Strip row padding (if any) and convert BGRA -> RGBA.
	if alignedBytesPerRow == bytesPerRow {
		convertBGRAToRGBA(readback, target.Data, target.Width*target.Height)
	} else {
		tight := make([]byte, uint64(bytesPerRow)*uint64(h))
		for row := uint32(0); row < h; row++ {
			srcOff := int(row) * int(alignedBytesPerRow)
			dstOff := int(row) * int(bytesPerRow)
			copy(tight[dstOff:dstOff+int(bytesPerRow)], readback[srcOff:srcOff+int(bytesPerRow)])
		}
		convertBGRAToRGBA(tight, target.Data, target.Width*target.Height)
	}
	return nil
}

// Size returns the current offscreen texture dimensions.
func (f *Frame) Size() (uint32, uint32) {
	return f.width, f.height
}

// Destroy releases the offscreen texture. Safe to call multiple times or
// on a frame that never rendered.
func (f *Frame) Destroy() {
	f.destroyTexture()
}

func (f *Frame) destroyTexture() {
	if f.colorView != nil {
		f.device.DestroyTextureView(f.colorView)
		f.colorView = nil
	}
	if f.colorTex != nil {
		f.device.DestroyTexture(f.colorTex)
		f.colorTex = nil
	}
	f.width = 0
	f.height = 0
}

// convertBGRAToRGBA swaps the B and R channels of count pixels from src
// into dst. Both slices must hold at least count*4 bytes.
func convertBGRAToRGBA(src, dst []byte, count int) {
	for i := 0; i < count; i++ {
		o := i * 4
		dst[o+0] = src[o+2]
		dst[o+1] = src[o+1]
		dst[o+2] = src[o+0]
		dst[o+3] = src[o+3]
	}
}
