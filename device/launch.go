package device

import (
	"unsafe"

	"github.com/sunway513/gpudev/gpurt"
)

// LaunchKernel issues a kernel on the facade's stream and treats any
// launch-time status as fatal. It is the only sanctioned way kernel code
// starts execution through this package. The positional argument list must
// match the kernel's own signature; nothing here validates argument types.
func LaunchKernel(kernel gpurt.Kernel, grid, block gpurt.Dim3, sharedMem int, dev *Device, args ...unsafe.Pointer) {
	status := gpurt.LaunchKernel(kernel, grid, block, sharedMem, dev.Stream(), args...)
	if status != gpurt.Success {
		fatalf("kernel launch failed: %s", gpurt.ErrorString(status))
	}
}

// SetSharedMemConfig selects the shared-memory bank size on the current
// device for subsequent kernels.
func SetSharedMemConfig(config gpurt.SharedMemConfig) {
	if status := gpurt.DeviceSetSharedMemConfig(config); status != gpurt.Success {
		fatalf("failed to set the shared-memory configuration: %s", gpurt.ErrorString(status))
	}
}
