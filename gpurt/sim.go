//go:build !cuda && !hip

package gpurt

// The simulated backend: a host-memory rendition of the runtime operation
// set, compiled in when neither vendor tag is selected. Device memory is
// plain host memory held by an allocation table, streams execute eagerly,
// and kernels are ordinary Go functions. Status codes mirror the CUDA
// runtime's numbering so diagnostics read familiarly.

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"unsafe"

	"k8s.io/klog/v2"
)

const (
	Success       Error = 0
	ErrorNotReady Error = 600

	errorInvalidValue         Error = 1
	errorMemoryAllocation     Error = 2
	errorInvalidConfiguration Error = 9
	errorNoDevice             Error = 100
	errorInvalidDevice        Error = 101
)

// Stream is a simulated execution queue. The nil Stream is the default
// stream. Simulated streams execute every operation at issue time, so
// StreamQuery never reports outstanding work.
type Stream *simStream

type simStream struct {
	id int64
}

// DefaultStream is the runtime-owned default execution stream.
var DefaultStream Stream

// Kernel is a host Go function standing in for a device kernel. It receives
// the launch geometry and the positional argument list of LaunchKernel.
// Argument types are not validated.
type Kernel func(grid, block Dim3, sharedMem int, args []unsafe.Pointer)

// cudaMalloc guarantees at least 256-byte alignment; the simulation keeps
// the same promise.
const simAllocAlignment = 256

type simRuntime struct {
	props         []DeviceProp
	currentDevice atomic.Int64
	nextStreamID  atomic.Int64

	mu sync.Mutex
	// allocs keys the aligned pointer address to its backing array, which
	// both keeps the memory live and lets Free reject foreign pointers.
	allocs     map[uintptr][]byte
	allocBytes map[uintptr]uintptr
	liveBytes  uintptr

	sharedMemConfig atomic.Int64
}

var (
	simOnce sync.Once
	sim     *simRuntime
)

func simState() *simRuntime {
	simOnce.Do(func() {
		count := 1
		if v := os.Getenv("GPUDEV_SIM_DEVICES"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				klog.Warningf("ignoring invalid GPUDEV_SIM_DEVICES=%q", v)
			} else {
				count = n
			}
		}
		props := make([]DeviceProp, count)
		for i := range props {
			props[i] = DeviceProp{
				Name:                        fmt.Sprintf("gpudev simulator #%d", i),
				MultiProcessorCount:         8,
				MaxThreadsPerBlock:          1024,
				MaxThreadsPerMultiProcessor: 2048,
				SharedMemPerBlock:           48 * 1024,
				TotalGlobalMem:              1 << 30,
				Major:                       1,
				Minor:                       0,
			}
		}
		sim = &simRuntime{
			props:      props,
			allocs:     make(map[uintptr][]byte),
			allocBytes: make(map[uintptr]uintptr),
		}
	})
	return sim
}

// GetDeviceCount reports the number of visible devices.
func GetDeviceCount() (int, Error) {
	s := simState()
	if len(s.props) == 0 {
		return 0, errorNoDevice
	}
	return len(s.props), Success
}

// GetDevice reports the device the calling thread is currently bound to.
// The simulation keeps a single process-wide current device.
func GetDevice() (int, Error) {
	return int(simState().currentDevice.Load()), Success
}

// SetDevice binds subsequent operations to the given device.
func SetDevice(device int) Error {
	s := simState()
	if device < 0 || device >= len(s.props) {
		return errorInvalidDevice
	}
	s.currentDevice.Store(int64(device))
	return Success
}

// GetDeviceProperties returns the capability record for one device.
func GetDeviceProperties(device int) (DeviceProp, Error) {
	s := simState()
	if device < 0 || device >= len(s.props) {
		return DeviceProp{}, errorInvalidDevice
	}
	return s.props[device], Success
}

// Malloc allocates n bytes of simulated device memory, aligned the way the
// vendor allocators align. Zero-byte requests still return a distinct,
// valid pointer.
func Malloc(n uintptr) (unsafe.Pointer, Error) {
	s := simState()
	size := n
	if size == 0 {
		size = 1
	}
	backing := make([]byte, size+simAllocAlignment)
	base := unsafe.Pointer(&backing[0])
	var offset uintptr
	if rem := uintptr(base) % simAllocAlignment; rem != 0 {
		offset = simAllocAlignment - rem
	}
	aligned := unsafe.Add(base, offset)
	s.mu.Lock()
	s.allocs[uintptr(aligned)] = backing
	s.allocBytes[uintptr(aligned)] = n
	s.liveBytes += n
	s.mu.Unlock()
	return aligned, Success
}

// Free releases memory returned by Malloc. Freeing a pointer the simulation
// does not know (including one already freed) fails.
func Free(ptr unsafe.Pointer) Error {
	s := simState()
	s.mu.Lock()
	defer s.mu.Unlock()
	addr := uintptr(ptr)
	if _, ok := s.allocs[addr]; !ok {
		return errorInvalidValue
	}
	s.liveBytes -= s.allocBytes[addr]
	delete(s.allocs, addr)
	delete(s.allocBytes, addr)
	return Success
}

// MemsetAsync fills n bytes at ptr with value. The simulation executes at
// issue time; the stream argument only mirrors the vendor signature.
func MemsetAsync(ptr unsafe.Pointer, value byte, n uintptr, _ Stream) Error {
	if ptr == nil {
		return errorInvalidValue
	}
	dst := unsafe.Slice((*byte)(ptr), n)
	for i := range dst {
		dst[i] = value
	}
	return Success
}

// MemcpyAsync copies n bytes from src to dst. All three directions are the
// same host-memory copy in the simulation.
func MemcpyAsync(dst, src unsafe.Pointer, n uintptr, kind MemcpyKind, _ Stream) Error {
	if dst == nil || src == nil || !kind.IsAMemcpyKind() {
		return errorInvalidValue
	}
	copy(unsafe.Slice((*byte)(dst), n), unsafe.Slice((*byte)(src), n))
	return Success
}

// StreamCreate returns a new execution stream owned by the caller.
func StreamCreate() (Stream, Error) {
	s := simState()
	return &simStream{id: s.nextStreamID.Add(1)}, Success
}

// StreamDestroy releases a stream created with StreamCreate.
func StreamDestroy(stream Stream) Error {
	if stream == nil {
		return errorInvalidValue
	}
	return Success
}

// StreamQuery polls a stream for outstanding work without blocking.
// Simulated streams are always drained.
func StreamQuery(_ Stream) Error {
	return Success
}

// StreamSynchronize blocks until the stream drains. A no-op here: simulated
// work completes at issue time.
func StreamSynchronize(_ Stream) Error {
	return Success
}

// DeviceGetSharedMemConfig reports the shared-memory bank configuration.
func DeviceGetSharedMemConfig() (SharedMemConfig, Error) {
	return SharedMemConfig(simState().sharedMemConfig.Load()), Success
}

// DeviceSetSharedMemConfig selects the shared-memory bank configuration on
// the current device.
func DeviceSetSharedMemConfig(config SharedMemConfig) Error {
	switch config {
	case SharedMemBankSizeDefault, SharedMemBankSizeFourByte, SharedMemBankSizeEightByte:
	default:
		return errorInvalidValue
	}
	simState().sharedMemConfig.Store(int64(config))
	return Success
}

// LaunchKernel runs the kernel synchronously on the calling goroutine after
// validating the launch geometry against the current device's limits.
func LaunchKernel(kernel Kernel, grid, block Dim3, sharedMem int, _ Stream, args ...unsafe.Pointer) Error {
	if kernel == nil {
		return errorInvalidValue
	}
	if grid.X == 0 || grid.Y == 0 || grid.Z == 0 || block.X == 0 || block.Y == 0 || block.Z == 0 {
		return errorInvalidConfiguration
	}
	s := simState()
	prop := s.props[s.currentDevice.Load()]
	threads := uint64(block.X) * uint64(block.Y) * uint64(block.Z)
	if threads > uint64(prop.MaxThreadsPerBlock) || sharedMem > prop.SharedMemPerBlock {
		return errorInvalidConfiguration
	}
	kernel(grid, block, sharedMem, args)
	return Success
}

// ErrorString renders a status code as a human-readable diagnostic.
func ErrorString(e Error) string {
	switch e {
	case Success:
		return "no error"
	case errorInvalidValue:
		return "invalid argument"
	case errorMemoryAllocation:
		return "out of memory"
	case errorInvalidConfiguration:
		return "invalid configuration argument"
	case errorNoDevice:
		return "no simulated device is visible"
	case errorInvalidDevice:
		return "invalid device ordinal"
	case ErrorNotReady:
		return "device not ready"
	}
	return fmt.Sprintf("unknown simulator error (%d)", int32(e))
}

// SimStats reports the simulated runtime's live allocation count and byte
// total. Only the simulated backend exposes it; tests use it to verify that
// teardown releases exactly what was allocated.
func SimStats() (allocs int, bytes uintptr) {
	s := simState()
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.allocs), s.liveBytes
}
