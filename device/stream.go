package device

import (
	"unsafe"

	"github.com/sunway513/gpudev/gpurt"
)

// ScratchSize is the size in bytes of the scratch block handed out by
// Stream implementations.
const ScratchSize = 1024

const semaphoreSize = 4

// Stream is the capability contract between kernel-launching code and a
// backing execution stream: it exposes the stream handle and the bound
// device's properties, allocates and frees device memory, and hands out
// the fixed-size scratch block and its semaphore.
//
// The Device facade borrows a Stream; it never owns one. The caller must
// keep the implementation alive for at least the facade's lifetime. Any
// conforming implementation, including test doubles, can be substituted.
type Stream interface {
	// Stream returns the bound execution stream handle.
	Stream() gpurt.Stream

	// DeviceProperties returns the cached property record of the bound
	// device.
	DeviceProperties() *gpurt.DeviceProp

	// Allocate returns device memory of at least n bytes. Allocation
	// failure is fatal.
	Allocate(n uintptr) unsafe.Pointer

	// Deallocate releases a pointer previously returned by Allocate.
	Deallocate(ptr unsafe.Pointer)

	// Scratchpad returns the ScratchSize-byte scratch block, allocated
	// lazily on first use and reused thereafter.
	Scratchpad() unsafe.Pointer

	// Semaphore returns a device counter that is zero before any kernel
	// runs. Every kernel using it must reset it to zero before completing,
	// so the next kernel finds it zero again.
	Semaphore() *uint32
}

// StreamDevice binds the Stream contract to one device and one execution
// stream: either the runtime's default stream or a caller-supplied one.
// It owns at most one lazily allocated scratch block, released by Destroy.
//
// Lazy first use of Scratchpad and Semaphore mutates the receiver and is
// single-writer: share an instance across goroutines only after the scratch
// block exists (or guard the first call externally).
type StreamDevice struct {
	stream    gpurt.Stream
	device    int
	scratch   unsafe.Pointer
	semaphore *uint32
}

var _ Stream = (*StreamDevice)(nil)

// NewStreamDevice binds to the current device and its default stream.
func NewStreamDevice() *StreamDevice {
	device, status := gpurt.GetDevice()
	if status != gpurt.Success {
		fatalf("failed to query the current GPU device: %s", gpurt.ErrorString(status))
	}
	initDeviceProperties()
	return &StreamDevice{stream: gpurt.DefaultStream, device: device}
}

// NewStreamDeviceAt binds to the given device index and its default stream.
// An index outside the visible device count is fatal.
func NewStreamDeviceAt(device int) *StreamDevice {
	initDeviceProperties()
	if device < 0 || device >= len(deviceProps) {
		fatalf("device index %d out of range (%d devices visible)", device, len(deviceProps))
	}
	return &StreamDevice{stream: gpurt.DefaultStream, device: device}
}

// NewStreamDeviceWithStream binds to a caller-supplied stream. The caller
// retains ownership of the stream and must ensure it can run on the given
// device. A negative device index selects the current device.
func NewStreamDeviceWithStream(stream gpurt.Stream, device int) *StreamDevice {
	initDeviceProperties()
	if device < 0 {
		var status gpurt.Error
		device, status = gpurt.GetDevice()
		if status != gpurt.Success {
			fatalf("failed to query the current GPU device: %s", gpurt.ErrorString(status))
		}
	} else if device >= len(deviceProps) {
		fatalf("device index %d out of range (%d devices visible)", device, len(deviceProps))
	}
	return &StreamDevice{stream: stream, device: device}
}

// Destroy releases the scratch block if one was allocated. It never touches
// a caller-supplied stream's lifetime.
func (d *StreamDevice) Destroy() {
	if d.scratch != nil {
		d.Deallocate(d.scratch)
		d.scratch = nil
		d.semaphore = nil
	}
}

// Stream returns the bound execution stream.
func (d *StreamDevice) Stream() gpurt.Stream {
	return d.stream
}

// Device returns the bound device index.
func (d *StreamDevice) Device() int {
	return d.device
}

// DeviceProperties returns the cached property record of the bound device.
func (d *StreamDevice) DeviceProperties() *gpurt.DeviceProp {
	return &deviceProps[d.device]
}

// Allocate pins the bound device and allocates n bytes of device memory.
func (d *StreamDevice) Allocate(n uintptr) unsafe.Pointer {
	if status := gpurt.SetDevice(d.device); status != gpurt.Success {
		fatalf("failed to switch to GPU device #%d: %s", d.device, gpurt.ErrorString(status))
	}
	ptr, status := gpurt.Malloc(n)
	if status != gpurt.Success {
		fatalf("failed to allocate %d bytes on GPU device #%d: %s", n, d.device, gpurt.ErrorString(status))
	}
	if ptr == nil {
		fatalf("GPU allocation of %d bytes returned a nil pointer", n)
	}
	return ptr
}

// Deallocate pins the bound device and frees a pointer returned by
// Allocate. A nil pointer is fatal.
func (d *StreamDevice) Deallocate(ptr unsafe.Pointer) {
	if status := gpurt.SetDevice(d.device); status != gpurt.Success {
		fatalf("failed to switch to GPU device #%d: %s", d.device, gpurt.ErrorString(status))
	}
	if ptr == nil {
		fatalf("deallocate of a nil GPU pointer")
	}
	if status := gpurt.Free(ptr); status != gpurt.Success {
		fatalf("failed to free GPU memory on device #%d: %s", d.device, gpurt.ErrorString(status))
	}
}

// Scratchpad returns the scratch block, allocating it on first use. The
// allocation also reserves the trailing semaphore slot.
func (d *StreamDevice) Scratchpad() unsafe.Pointer {
	if d.scratch == nil {
		d.scratch = d.Allocate(ScratchSize + semaphoreSize)
	}
	return d.scratch
}

// Semaphore returns the counter carved from the tail of the scratch block,
// zeroing it asynchronously on first use.
func (d *StreamDevice) Semaphore() *uint32 {
	if d.semaphore == nil {
		sem := unsafe.Add(d.Scratchpad(), ScratchSize)
		if status := gpurt.MemsetAsync(sem, 0, semaphoreSize, d.stream); status != gpurt.Success {
			fatalf("failed to zero the GPU semaphore: %s", gpurt.ErrorString(status))
		}
		d.semaphore = (*uint32)(sem)
	}
	return d.semaphore
}
