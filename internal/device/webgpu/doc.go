// Package webgpu implements the device memory capability on a GPU through
// WebGPU. Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO bindings.
//
// Device buffers are storage buffers drawn from a size-class pool. Uploads
// go through a mapped staging buffer and a buffer-to-buffer copy; read-backs
// copy into a map-read staging buffer and wait for the mapping, so every
// transfer has completed when the call returns.
//
// The binding is built on windows. On other platforms New reports
// device.ErrNoDevice and IsAvailable returns false.
package webgpu
