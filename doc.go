// Package facet is a minimal retained-geometry 2D shape renderer for the
// GoGPU ecosystem.
//
// # Overview
//
// facet owns vertex and index data for simple shapes (quads, rectangles),
// uploads them to a GPU device through gogpu/wgpu's hardware abstraction
// layer, and draws them as indexed triangle lists with a fixed
// position+color shader. It is intentionally small: no paths, no strokes,
// no text -- just pre-transformed clip-space geometry straight to the GPU.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/facet"
//	    "github.com/gogpu/facet/gpu"
//	)
//
//	backend := gpu.NewBackend()
//	if err := backend.Init(); err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	pipeline, err := gpu.NewShapePipeline(backend.Device())
//	// ...
//	quad := facet.NewRect(facet.Vertex{X: 0.4, Y: 0.6, W: 1, R: 0.5, G: 0.3, B: 0.8, A: 1}, 0.2, 0.2)
//	shape, err := gpu.NewShape(backend.Device(), backend.Queue(), pipeline, quad)
//
// # Architecture
//
// The library is organized into:
//   - Public API: Vertex, Geometry, Quad/Rect constructors, shader loading
//   - gpu: device backend, shape pipeline, shapes, frame rendering
//
// # Coordinate System
//
// Geometry is expressed directly in clip space:
//   - X and Y in [-1, 1], origin at the center
//   - Z is the depth value written as-is
//   - W is the homogeneous coordinate (1 for 2D shapes)
//
// Colors are non-premultiplied RGBA in [0, 1], interpolated per vertex.
package facet
