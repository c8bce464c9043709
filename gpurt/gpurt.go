// Package gpurt exposes a vendor-neutral view of a GPU compute runtime.
//
// Exactly one backend is compiled into a binary, selected by build tag:
// "cuda" resolves every operation to the CUDA runtime, "hip" to the AMD HIP
// runtime, and a build without either tag gets a pure-Go simulated runtime
// backed by host memory, so packages depending on gpurt build and test on
// machines without a GPU toolchain.
//
// Each backend implements the same fixed operation set with identical Go
// signatures; no operation may be substituted individually. The enums below
// are backend-neutral and translated to the vendor's values inside the
// backend. Errors are the vendor's status codes, surfaced opaquely through
// the Error type; ErrorString renders a human-readable diagnostic.
package gpurt

import "github.com/pkg/errors"

// Error is a vendor runtime status code. The numeric values are
// backend-specific; compare only against the constants exported by the
// active backend (Success, ErrorNotReady).
type Error int32

// AsError converts a status code to a Go error carrying a stack trace, or
// nil for Success. For callers that treat runtime failures as recoverable;
// the device package treats them as fatal instead.
func AsError(e Error) error {
	if e == Success {
		return nil
	}
	return errors.Errorf("gpu runtime error (code=%d): %s", int32(e), ErrorString(e))
}

// MemcpyKind selects the direction of an asynchronous memory copy.
type MemcpyKind int

//go:generate go tool enumer -type=MemcpyKind gpurt.go

const (
	MemcpyHostToDevice MemcpyKind = iota
	MemcpyDeviceToHost
	MemcpyDeviceToDevice
)

// SharedMemConfig selects the shared-memory bank size used by kernels.
type SharedMemConfig int

const (
	SharedMemBankSizeDefault SharedMemConfig = iota
	SharedMemBankSizeFourByte
	SharedMemBankSizeEightByte
)

// Dim3 is a kernel grid or block shape. Unused trailing dimensions are 1.
type Dim3 struct {
	X, Y, Z uint32
}

// Dim returns a one-dimensional Dim3 of size n.
func Dim(n int) Dim3 {
	return Dim3{X: uint32(n), Y: 1, Z: 1}
}

// DeviceProp is the hardware capability record of one physical device.
// Records are queried once per process (see the device package cache) and
// never mutated afterwards.
type DeviceProp struct {
	Name                        string
	MultiProcessorCount         int
	MaxThreadsPerBlock          int
	MaxThreadsPerMultiProcessor int
	SharedMemPerBlock           int
	TotalGlobalMem              uint64

	// Major and Minor are the device's compute-capability version.
	Major, Minor int
}
