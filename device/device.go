package device

import (
	"math"
	"unsafe"

	"github.com/sunway513/gpudev/gpurt"
)

// Device is the facade numeric code threads through every memory and
// launch operation. It delegates to a borrowed Stream implementation and
// carries an immutable block-count budget set at construction.
type Device struct {
	stream    Stream
	maxBlocks int
}

// NewDevice wraps a Stream with an unbounded block budget. The Stream is
// borrowed, not owned; a nil Stream panics.
func NewDevice(stream Stream) *Device {
	return NewDeviceWithMaxBlocks(stream, math.MaxInt)
}

// NewDeviceWithMaxBlocks wraps a Stream with an explicit block-count
// budget.
func NewDeviceWithMaxBlocks(stream Stream, maxBlocks int) *Device {
	if stream == nil {
		panic("device: NewDevice requires a non-nil Stream")
	}
	return &Device{stream: stream, maxBlocks: maxBlocks}
}

// Stream returns the bound execution stream handle.
func (d *Device) Stream() gpurt.Stream {
	return d.stream.Stream()
}

// Allocate returns device memory of at least n bytes.
func (d *Device) Allocate(n uintptr) unsafe.Pointer {
	return d.stream.Allocate(n)
}

// Deallocate releases a pointer previously returned by Allocate.
func (d *Device) Deallocate(ptr unsafe.Pointer) {
	d.stream.Deallocate(ptr)
}

// Scratchpad returns the ScratchSize-byte scratch block.
func (d *Device) Scratchpad() unsafe.Pointer {
	return d.stream.Scratchpad()
}

// Semaphore returns the reset-to-zero kernel coordination counter.
func (d *Device) Semaphore() *uint32 {
	return d.stream.Semaphore()
}

// Memcpy enqueues an asynchronous device-to-device copy of n bytes on the
// bound stream.
func (d *Device) Memcpy(dst, src unsafe.Pointer, n uintptr) {
	status := gpurt.MemcpyAsync(dst, src, n, gpurt.MemcpyDeviceToDevice, d.stream.Stream())
	if status != gpurt.Success {
		fatalf("device-to-device copy of %d bytes failed: %s", n, gpurt.ErrorString(status))
	}
}

// MemcpyHostToDevice enqueues an asynchronous upload of n bytes on the
// bound stream. The host memory must stay valid until the stream drains.
func (d *Device) MemcpyHostToDevice(dst, src unsafe.Pointer, n uintptr) {
	status := gpurt.MemcpyAsync(dst, src, n, gpurt.MemcpyHostToDevice, d.stream.Stream())
	if status != gpurt.Success {
		fatalf("host-to-device copy of %d bytes failed: %s", n, gpurt.ErrorString(status))
	}
}

// MemcpyDeviceToHost enqueues an asynchronous download of n bytes on the
// bound stream.
func (d *Device) MemcpyDeviceToHost(dst, src unsafe.Pointer, n uintptr) {
	status := gpurt.MemcpyAsync(dst, src, n, gpurt.MemcpyDeviceToHost, d.stream.Stream())
	if status != gpurt.Success {
		fatalf("device-to-host copy of %d bytes failed: %s", n, gpurt.ErrorString(status))
	}
}

// Memset enqueues an asynchronous fill of n bytes at ptr on the bound
// stream.
func (d *Device) Memset(ptr unsafe.Pointer, value byte, n uintptr) {
	status := gpurt.MemsetAsync(ptr, value, n, d.stream.Stream())
	if status != gpurt.Success {
		fatalf("memset of %d bytes failed: %s", n, gpurt.ErrorString(status))
	}
}

// Synchronize blocks the calling thread until the bound stream drains.
// This is the only blocking host-side wait in the package.
func (d *Device) Synchronize() {
	if status := gpurt.StreamSynchronize(d.stream.Stream()); status != gpurt.Success {
		fatalf("error detected in GPU stream: %s", gpurt.ErrorString(status))
	}
}

// Ok polls the bound stream without blocking. Both "all work complete" and
// "work still running" count as healthy; use it as a lightweight health
// check, not a correctness gate.
func (d *Device) Ok() bool {
	status := gpurt.StreamQuery(d.stream.Stream())
	return status == gpurt.Success || status == gpurt.ErrorNotReady
}

// MultiProcessorCount returns the bound device's multiprocessor count.
func (d *Device) MultiProcessorCount() int {
	return d.stream.DeviceProperties().MultiProcessorCount
}

// MaxThreadsPerBlock returns the bound device's per-block thread limit.
func (d *Device) MaxThreadsPerBlock() int {
	return d.stream.DeviceProperties().MaxThreadsPerBlock
}

// MaxThreadsPerMultiProcessor returns the bound device's per-multiprocessor
// thread limit.
func (d *Device) MaxThreadsPerMultiProcessor() int {
	return d.stream.DeviceProperties().MaxThreadsPerMultiProcessor
}

// SharedMemPerBlock returns the shared memory available to one block, in
// bytes.
func (d *Device) SharedMemPerBlock() int {
	return d.stream.DeviceProperties().SharedMemPerBlock
}

// MajorVersion returns the device's major compute-capability version.
func (d *Device) MajorVersion() int {
	return d.stream.DeviceProperties().Major
}

// MinorVersion returns the device's minor compute-capability version.
func (d *Device) MinorVersion() int {
	return d.stream.DeviceProperties().Minor
}

// NumThreads returns the warp width assumed by block-size heuristics.
func (d *Device) NumThreads() int {
	return 32
}

// FirstLevelCacheSize returns the assumed per-multiprocessor first-level
// cache size.
func (d *Device) FirstLevelCacheSize() int {
	return 48 * 1024
}

// LastLevelCacheSize returns the same figure as FirstLevelCacheSize: no
// distinct last-level cache model is attempted for GPU devices.
func (d *Device) LastLevelCacheSize() int {
	return d.FirstLevelCacheSize()
}

// MaxBlocks returns the block-count budget fixed at construction.
func (d *Device) MaxBlocks() int {
	return d.maxBlocks
}
