package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// halProvider implements gpucontext.DeviceProvider plus the structural
// HalDevice/HalQueue accessors the backend requires.
type halProvider struct {
	halDevice hal.Device
	halQueue  hal.Queue
}

func (p *halProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (p *halProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (p *halProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (p *halProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (p *halProvider) HalDevice() any                        { return p.halDevice }
func (p *halProvider) HalQueue() any                         { return p.halQueue }

// bareProvider implements gpucontext.DeviceProvider without hal access.
type bareProvider struct{}

func (p *bareProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (p *bareProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (p *bareProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (p *bareProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }

func TestNewBackend(t *testing.T) {
	b := NewBackend()
	if b.IsInitialized() {
		t.Error("new backend should not be initialized")
	}
	if b.Device() != nil {
		t.Error("expected nil device before Init")
	}
	if b.Queue() != nil {
		t.Error("expected nil queue before Init")
	}

	// Close before Init is a no-op.
	b.Close()
}

func TestNewBackendWithDevice(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	b := NewBackendWithDevice(device, queue)
	if !b.IsInitialized() {
		t.Fatal("expected initialized backend")
	}
	if b.Device() != device {
		t.Error("device not stored correctly")
	}
	if b.Queue() != queue {
		t.Error("queue not stored correctly")
	}

	// Close must not destroy the borrowed device.
	b.Close()
	if b.IsInitialized() {
		t.Error("expected uninitialized backend after Close")
	}

	// The device is still usable after Close.
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "survivor",
		Size:  16,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		t.Fatalf("borrowed device unusable after Close: %v", err)
	}
	device.DestroyBuffer(buf)
}

func TestBackendCloseIdempotent(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	b := NewBackendWithDevice(device, queue)
	b.Close()
	b.Close()
}

func TestSetDeviceProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	b := NewBackend()
	err := b.SetDeviceProvider(&halProvider{halDevice: device, halQueue: queue})
	if err != nil {
		t.Fatalf("SetDeviceProvider failed: %v", err)
	}
	if !b.IsInitialized() {
		t.Error("expected initialized backend after SetDeviceProvider")
	}
	if b.Device() != device {
		t.Error("shared device not adopted")
	}
	if b.Queue() != queue {
		t.Error("shared queue not adopted")
	}
}

func TestSetDeviceProviderNil(t *testing.T) {
	b := NewBackend()
	if err := b.SetDeviceProvider(nil); !errors.Is(err, ErrNilProvider) {
		t.Fatalf("expected ErrNilProvider, got %v", err)
	}
}

func TestSetDeviceProviderWithoutHalAccess(t *testing.T) {
	b := NewBackend()
	if err := b.SetDeviceProvider(&bareProvider{}); err == nil {
		t.Fatal("expected error for provider without hal access")
	}
	if b.IsInitialized() {
		t.Error("backend should stay uninitialized after failed SetDeviceProvider")
	}
}

func TestSetDeviceProviderNilHalHandles(t *testing.T) {
	b := NewBackend()
	if err := b.SetDeviceProvider(&halProvider{}); err == nil {
		t.Fatal("expected error for provider with nil hal handles")
	}
}
