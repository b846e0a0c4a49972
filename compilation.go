package rgraph

import (
	"log"

	"github.com/cogentcore/webgpu/wgpu"
)

// Compilation is the replayable output of RenderGraph.Compile: a resolved
// node order baked down to a flat opcode queue, plus the shared
// resource/pipeline/bind-group state it was recorded against. Grounded on
// spec §4.5's "compile once, run many" artifact and
// original_source/src/graph.rs's Compilation.
type Compilation struct {
	resources *VirtualResources
	pipelines *PipelineStorage
	bindCache *BindGroupCache
	queue     []RenderCommand
	samplers  map[string]*SamplerConstraints

	// Logger, if non-nil, receives a diagnostic trace of every resource
	// the materializer allocates as a transient during Run. Defaults to
	// nil, discarding the trace.
	Logger *log.Logger
}

// Run materializes every virtual resource in the compilation against the
// supplied retained bindings (verifying retained entries, allocating
// transients for everything else), resolves the bind groups the
// recording pass accumulated, and replays the opcode queue against a
// single command encoder submitted to queue.
//
// Implements spec §4.4: binding materialization (§4.4.1), bind-group
// creation (§4.4.2), and command replay (§4.4.3).
func (c *Compilation) Run(device *wgpu.Device, queue *wgpu.Queue, bindings *ResourceBindings) error {
	m := newMaterializer(device, queue, bindings, c, c.Logger)

	if err := m.resolveBuffers(); err != nil {
		return err
	}
	if err := m.resolveTextures(); err != nil {
		return err
	}
	if err := m.resolveSamplers(c); err != nil {
		return err
	}
	if err := m.buildBindGroups(); err != nil {
		return err
	}
	return m.replay(c.queue)
}

// CompilationArtifacts holds the backing storage a Compilation and its
// originating RenderGraph accumulated, detached from any compile-time
// state, so that a caller recording the same graph shape repeatedly
// (e.g. once per frame) can reuse allocations instead of discarding and
// re-allocating them. Grounded on spec §4.5's clear-not-discard recycling
// and engine/scene/scene.go's reusable-slice-pool idiom.
type CompilationArtifacts struct {
	resources *VirtualResources
	bindCache *BindGroupCache
	queue     []RenderCommand
}

// IntoArtifacts detaches the Compilation's recording-side storage for
// reuse by a future compile of the same or a similar graph. The
// Compilation itself must not be used again after this call.
func (c *Compilation) IntoArtifacts() *CompilationArtifacts {
	a := &CompilationArtifacts{
		resources: c.resources,
		bindCache: c.bindCache,
		queue:     c.queue[:0],
	}
	a.resources.Clear()
	a.bindCache.Clear()
	return a
}

// FromArtifacts returns the VirtualResources and BindGroupCache a
// previously-recycled Compilation's RenderGraph.Compile call should reuse,
// already cleared and ready for fresh recording.
func (a *CompilationArtifacts) FromArtifacts() (*VirtualResources, *BindGroupCache) {
	return a.resources, a.bindCache
}
