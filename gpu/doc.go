// Package gpu holds the device-facing half of facet: the backend that owns
// (or borrows) a wgpu hal device, the shared shape render pipeline, shapes
// with their uploaded vertex/index buffers, and offscreen frame rendering
// with CPU readback.
//
// All GPU work goes through gogpu/wgpu's hardware abstraction layer.
// Binding state within a render pass is explicit: draws are recorded
// through a PassBindings tracker, never through ambient device state.
package gpu
