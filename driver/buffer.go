// Package driver holds thin functional-options builders over
// *wgpu.Device object creation, following the teacher's
// *BuilderOption func(*x) convention (e.g. engine/light/light_builder.go)
// applied to the driver objects rgraph's materializer creates directly:
// buffers, texture views, and samplers.
package driver

import "github.com/cogentcore/webgpu/wgpu"

// BufferBuilderOption configures a pending wgpu.BufferDescriptor.
type BufferBuilderOption func(*wgpu.BufferDescriptor)

// WithBufferLabel sets the buffer's debug label.
func WithBufferLabel(label string) BufferBuilderOption {
	return func(d *wgpu.BufferDescriptor) {
		d.Label = label
	}
}

// WithBufferSize sets the buffer's byte size.
func WithBufferSize(size uint64) BufferBuilderOption {
	return func(d *wgpu.BufferDescriptor) {
		d.Size = size
	}
}

// WithBufferUsage sets the buffer's usage flags.
func WithBufferUsage(usage wgpu.BufferUsage) BufferBuilderOption {
	return func(d *wgpu.BufferDescriptor) {
		d.Usage = usage
	}
}

// WithMappedAtCreation requests the buffer be mapped for CPU writes
// immediately after creation.
func WithMappedAtCreation(mapped bool) BufferBuilderOption {
	return func(d *wgpu.BufferDescriptor) {
		d.MappedAtCreation = mapped
	}
}

// NewBuffer creates a buffer on device from the given options, in the
// same descriptor shape wgpu_renderer_backend.go's InitMeshBuffers uses.
func NewBuffer(device *wgpu.Device, opts ...BufferBuilderOption) (*wgpu.Buffer, error) {
	desc := &wgpu.BufferDescriptor{}
	for _, opt := range opts {
		opt(desc)
	}
	return device.CreateBuffer(desc)
}
