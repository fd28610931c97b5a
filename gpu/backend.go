package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/facet"
)

// Errors returned by backend initialization and device sharing.
var (
	// ErrNoGPU is returned when no usable hal backend is available.
	ErrNoGPU = errors.New("gpu: no GPU backend available")

	// ErrNoAdapter is returned when the instance reports no adapters.
	ErrNoAdapter = errors.New("gpu: no GPU adapters found")

	// ErrNotInitialized is returned when a device is requested from a
	// backend that has not been initialized.
	ErrNotInitialized = errors.New("gpu: backend not initialized")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("gpu: nil DeviceProvider")
)

// Backend owns the hal instance, device, and queue used by shapes and
// frames. It either creates its own device via Init or borrows a host
// application's device via SetDeviceProvider.
//
// Backend methods are safe for concurrent use; rendering itself
// (Shape, Frame) is single-threaded.
type Backend struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	adapterName string
	shared      bool // device borrowed from a host provider, not owned
	initialized bool
}

// NewBackend creates an uninitialized backend. Call Init to create GPU
// resources, or SetDeviceProvider to borrow a host device.
func NewBackend() *Backend {
	return &Backend{}
}

// NewBackendWithDevice wraps an existing hal device and queue. The backend
// does not own them and Close will not destroy them. Used by hosts that
// manage their own device, and by tests with the noop backend.
func NewBackendWithDevice(device hal.Device, queue hal.Queue) *Backend {
	return &Backend{
		device:      device,
		queue:       queue,
		shared:      true,
		initialized: true,
	}
}

// Init creates the hal instance, selects an adapter (discrete GPUs
// preferred, then integrated), and opens a device and queue. Calling Init
// on an initialized backend is a no-op.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not available", ErrNoGPU)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("gpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("gpu: open device: %w", err)
	}

	b.instance = instance
	b.device = openDev.Device
	b.queue = openDev.Queue
	b.adapterName = selected.Info.Name
	b.initialized = true

	facet.Logger().Info("gpu: adapter selected", "name", selected.Info.Name)
	return nil
}

// SetDeviceProvider switches the backend to a shared GPU device supplied
// by a host application. The provider must also structurally expose
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
//
// Any device previously created by Init is destroyed first. The shared
// device is owned by the host; Close will not destroy it.
func (b *Backend) SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return ErrNilProvider
	}
	hp, ok := provider.(interface {
		HalDevice() any
		HalQueue() any
	})
	if !ok {
		return fmt.Errorf("gpu: provider does not expose hal device access")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseOwned()
	b.device = device
	b.queue = queue
	b.shared = true
	b.initialized = true

	facet.Logger().Debug("gpu: using shared device from host provider")
	return nil
}

// Close releases all backend resources in reverse creation order. Shared
// devices are left untouched. Safe to call multiple times.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	b.releaseOwned()
	b.device = nil
	b.queue = nil
	b.shared = false
	b.adapterName = ""
	b.initialized = false
}

// releaseOwned destroys the device and instance if this backend created
// them. Callers must hold b.mu.
func (b *Backend) releaseOwned() {
	if b.shared {
		return
	}
	if b.device != nil {
		b.device.Destroy()
		b.device = nil
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}
}

// IsInitialized reports whether the backend has a usable device.
func (b *Backend) IsInitialized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initialized
}

// Device returns the hal device, or nil if the backend is not initialized.
func (b *Backend) Device() hal.Device {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.device
}

// Queue returns the hal queue, or nil if the backend is not initialized.
func (b *Backend) Queue() hal.Queue {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queue
}

// AdapterName returns the name of the selected adapter. Empty for shared
// devices and uninitialized backends.
func (b *Backend) AdapterName() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.adapterName
}
