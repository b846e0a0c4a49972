// Command graphdemo builds a two-node compute graph — one node filling a
// storage buffer, a second doubling it in place — and runs it once
// against a real adapter/device, the same headless bootstrap
// engine/renderer/wgpu_renderer_backend.go's newWGPURendererBackend does
// for a windowed renderer but with CompatibleSurface left nil.
package main

import (
	"log"
	"os"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/corvid-gpu/rgraph"
	"github.com/corvid-gpu/rgraph/shader"
)

const elementCount = 256

const doubleShaderWGSL = `
struct Data {
	values: array<u32>,
}

@group(0) @binding(0) var<storage, read_write> data: Data;

@compute @workgroup_size(64)
fn double_values(@builtin(global_invocation_id) gid: vec3<u32>) {
	let i = gid.x;
	if (i >= arrayLength(&data.values)) {
		return;
	}
	data.values[i] = data.values[i] * 2u;
}
`

func main() {
	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{})
	if err != nil {
		log.Fatalf("graphdemo: request adapter: %v", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "graphdemo device"})
	if err != nil {
		log.Fatalf("graphdemo: request device: %v", err)
	}
	queue := device.GetQueue()

	module, err := shader.ParseWGSL("double_values", doubleShaderWGSL)
	if err != nil {
		log.Fatalf("graphdemo: parse shader: %v", err)
	}
	reflected, err := shader.Reflect(device, module, "double_values")
	if err != nil {
		log.Fatalf("graphdemo: reflect shader: %v", err)
	}

	pipelines := rgraph.NewPipelineStorage()
	pipelines.InsertComputePipeline("double_values", reflected)

	graph := rgraph.NewRenderGraph()
	graph.AddNode(rgraph.NewFunctionNode("seed", func(cmds *rgraph.RenderCommands) {
		buf := cmds.Buffer("data")
		seed := make([]byte, elementCount*4)
		for i := range elementCount {
			seed[i*4] = byte(i)
		}
		cmds.WriteBuffer(buf, 0, seed)
	}))
	graph.AddNode(rgraph.NewFunctionNode("double", func(cmds *rgraph.RenderCommands) {
		buf := cmds.Buffer("data")
		pass := cmds.ComputePass("double pass")
		pass.Pipeline("double_values")
		pass.BindGroup(0, rgraph.SlotBinding{
			Slot:    0,
			Binding: buf.Slice(0, elementCount*4).Storage(rgraph.RWModeReadWrite).Bind(),
		})
		pass.Dispatch((elementCount+63)/64, 1, 1)
	}).After("seed"))

	resources := rgraph.NewVirtualResources()
	bindCache := rgraph.NewBindGroupCache()
	compilation, err := graph.Compile(resources, pipelines, bindCache)
	if err != nil {
		log.Fatalf("graphdemo: compile graph: %v", err)
	}

	retainedBuffer, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "data",
		Size:  elementCount * 4,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		log.Fatalf("graphdemo: create retained buffer: %v", err)
	}

	bindings := rgraph.NewResourceBindings()
	bindings.Buffers["data"] = rgraph.RetainedBuffer{
		Buffer: retainedBuffer,
		Size:   elementCount * 4,
		Usages: rgraph.BufferUsageStorage | rgraph.BufferUsageCopyDst | rgraph.BufferUsageCopySrc,
	}

	compilation.Logger = log.New(os.Stderr, "graphdemo: ", 0)

	if err := compilation.Run(device, queue, bindings); err != nil {
		log.Fatalf("graphdemo: run compilation: %v", err)
	}

	log.Println("graphdemo: compute graph ran successfully")
}
