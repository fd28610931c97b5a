package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/facet"
)

// ShapePipeline holds the compiled shape shader and render pipeline shared
// by all shapes. Create it once per device and pass it to NewShape; shapes
// reference the pipeline but do not own it.
type ShapePipeline struct {
	device hal.Device

	shader     hal.ShaderModule
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline

	format gputypes.TextureFormat
}

// NewShapePipeline compiles the shape shader and creates the render
// pipeline: triangle-list topology, no culling, premultiplied alpha
// blending, single-sample. The shader source is validated with naga before
// the module is handed to the device; an empty or broken source is an
// explicit construction error.
func NewShapePipeline(device hal.Device, opts ...PipelineOption) (*ShapePipeline, error) {
	cfg := pipelineConfig{
		source: facet.ShaderSource(),
		format: gputypes.TextureFormatBGRA8Unorm,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := facet.ValidateShader(cfg.source); err != nil {
		return nil, fmt.Errorf("gpu: shape shader: %w", err)
	}

	p := &ShapePipeline{device: device, format: cfg.format}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "shape_shader",
		Source: hal.ShaderSource{WGSL: cfg.source},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: compile shape shader: %w", err)
	}
	p.shader = shader

	// The shape shader has no uniforms or textures, so the pipeline
	// layout carries no bind group layouts.
	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "shape_pipe_layout",
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("gpu: create shape pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "shape_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    shapeVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    cfg.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("gpu: create shape pipeline: %w", err)
	}
	p.pipeline = pipeline

	facet.Logger().Debug("gpu: shape pipeline created", "format", cfg.format)
	return p, nil
}

// Raw returns the underlying hal render pipeline.
func (p *ShapePipeline) Raw() hal.RenderPipeline { return p.pipeline }

// TargetFormat returns the color target format the pipeline renders to.
func (p *ShapePipeline) TargetFormat() gputypes.TextureFormat { return p.format }

// Destroy releases all pipeline resources in reverse creation order.
// Safe to call multiple times or on a partially constructed pipeline.
func (p *ShapePipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// shapeVertexLayout returns the vertex buffer layout for the shape
// pipeline: one interleaved buffer at slot 0.
func shapeVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: facet.VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1}, // color
			},
		},
	}
}
