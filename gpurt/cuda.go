//go:build cuda

package gpurt

/*
#cgo LDFLAGS: -lcudart
#include <stdlib.h>
#include <cuda_runtime.h>
*/
import "C"
import "unsafe"

const (
	Success       = Error(C.cudaSuccess)
	ErrorNotReady = Error(C.cudaErrorNotReady)
)

// Stream is a CUDA stream handle. The zero Stream is the legacy default
// stream shared by the whole process.
type Stream struct {
	h C.cudaStream_t
}

// DefaultStream is the runtime-owned default execution stream.
var DefaultStream = Stream{}

// Kernel is a pointer to a __global__ device function symbol.
type Kernel unsafe.Pointer

func cudaKind(kind MemcpyKind) C.enum_cudaMemcpyKind {
	switch kind {
	case MemcpyHostToDevice:
		return C.cudaMemcpyHostToDevice
	case MemcpyDeviceToHost:
		return C.cudaMemcpyDeviceToHost
	default:
		return C.cudaMemcpyDeviceToDevice
	}
}

func cudaSharedMemConfig(config SharedMemConfig) C.enum_cudaSharedMemConfig {
	switch config {
	case SharedMemBankSizeFourByte:
		return C.cudaSharedMemBankSizeFourByte
	case SharedMemBankSizeEightByte:
		return C.cudaSharedMemBankSizeEightByte
	default:
		return C.cudaSharedMemBankSizeDefault
	}
}

// GetDeviceCount reports the number of visible devices.
func GetDeviceCount() (int, Error) {
	var count C.int
	status := C.cudaGetDeviceCount(&count)
	return int(count), Error(status)
}

// GetDevice reports the device the calling thread is currently bound to.
func GetDevice() (int, Error) {
	var device C.int
	status := C.cudaGetDevice(&device)
	return int(device), Error(status)
}

// SetDevice binds the calling thread to the given device.
func SetDevice(device int) Error {
	return Error(C.cudaSetDevice(C.int(device)))
}

// GetDeviceProperties returns the capability record for one device.
func GetDeviceProperties(device int) (DeviceProp, Error) {
	var prop C.struct_cudaDeviceProp
	status := C.cudaGetDeviceProperties(&prop, C.int(device))
	if Error(status) != Success {
		return DeviceProp{}, Error(status)
	}
	return DeviceProp{
		Name:                        C.GoString(&prop.name[0]),
		MultiProcessorCount:         int(prop.multiProcessorCount),
		MaxThreadsPerBlock:          int(prop.maxThreadsPerBlock),
		MaxThreadsPerMultiProcessor: int(prop.maxThreadsPerMultiProcessor),
		SharedMemPerBlock:           int(prop.sharedMemPerBlock),
		TotalGlobalMem:              uint64(prop.totalGlobalMem),
		Major:                       int(prop.major),
		Minor:                       int(prop.minor),
	}, Success
}

// Malloc allocates n bytes of device memory on the current device.
func Malloc(n uintptr) (unsafe.Pointer, Error) {
	var ptr unsafe.Pointer
	status := C.cudaMalloc(&ptr, C.size_t(n))
	return ptr, Error(status)
}

// Free releases device memory returned by Malloc.
func Free(ptr unsafe.Pointer) Error {
	return Error(C.cudaFree(ptr))
}

// MemsetAsync enqueues a fill of n bytes at ptr on the stream.
func MemsetAsync(ptr unsafe.Pointer, value byte, n uintptr, stream Stream) Error {
	return Error(C.cudaMemsetAsync(ptr, C.int(value), C.size_t(n), stream.h))
}

// MemcpyAsync enqueues a copy of n bytes from src to dst on the stream.
func MemcpyAsync(dst, src unsafe.Pointer, n uintptr, kind MemcpyKind, stream Stream) Error {
	return Error(C.cudaMemcpyAsync(dst, src, C.size_t(n), cudaKind(kind), stream.h))
}

// StreamCreate returns a new execution stream owned by the caller.
func StreamCreate() (Stream, Error) {
	var h C.cudaStream_t
	status := C.cudaStreamCreate(&h)
	return Stream{h: h}, Error(status)
}

// StreamDestroy releases a stream created with StreamCreate.
func StreamDestroy(stream Stream) Error {
	return Error(C.cudaStreamDestroy(stream.h))
}

// StreamQuery polls a stream for outstanding work without blocking.
func StreamQuery(stream Stream) Error {
	return Error(C.cudaStreamQuery(stream.h))
}

// StreamSynchronize blocks the calling thread until the stream drains.
func StreamSynchronize(stream Stream) Error {
	return Error(C.cudaStreamSynchronize(stream.h))
}

// DeviceGetSharedMemConfig reports the shared-memory bank configuration of
// the current device.
func DeviceGetSharedMemConfig() (SharedMemConfig, Error) {
	var config C.enum_cudaSharedMemConfig
	status := C.cudaDeviceGetSharedMemConfig(&config)
	switch config {
	case C.cudaSharedMemBankSizeFourByte:
		return SharedMemBankSizeFourByte, Error(status)
	case C.cudaSharedMemBankSizeEightByte:
		return SharedMemBankSizeEightByte, Error(status)
	}
	return SharedMemBankSizeDefault, Error(status)
}

// DeviceSetSharedMemConfig selects the shared-memory bank configuration on
// the current device.
func DeviceSetSharedMemConfig(config SharedMemConfig) Error {
	return Error(C.cudaDeviceSetSharedMemConfig(cudaSharedMemConfig(config)))
}

// LaunchKernel enqueues a kernel on the stream. The argument list must
// match the kernel's own signature; no validation happens here.
func LaunchKernel(kernel Kernel, grid, block Dim3, sharedMem int, stream Stream, args ...unsafe.Pointer) Error {
	var argv *unsafe.Pointer
	if len(args) > 0 {
		// cudaLaunchKernel wants a C array of pointers to the argument
		// values; stage it in C memory.
		mem := C.malloc(C.size_t(len(args)) * C.size_t(unsafe.Sizeof(uintptr(0))))
		defer C.free(mem)
		staged := unsafe.Slice((*unsafe.Pointer)(mem), len(args))
		copy(staged, args)
		argv = (*unsafe.Pointer)(mem)
	}
	gd := C.dim3{x: C.uint(grid.X), y: C.uint(grid.Y), z: C.uint(grid.Z)}
	bd := C.dim3{x: C.uint(block.X), y: C.uint(block.Y), z: C.uint(block.Z)}
	return Error(C.cudaLaunchKernel(unsafe.Pointer(kernel), gd, bd, argv, C.size_t(sharedMem), stream.h))
}

// ErrorString renders a status code as the vendor's human-readable
// diagnostic.
func ErrorString(e Error) string {
	return C.GoString(C.cudaGetErrorString(C.cudaError_t(e)))
}
