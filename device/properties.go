package device

import (
	"sync"

	"k8s.io/klog/v2"

	"github.com/sunway513/gpudev/gpurt"
)

var (
	devicePropsOnce sync.Once
	deviceProps     []gpurt.DeviceProp
)

// initDeviceProperties populates the process-wide property cache by
// querying every visible device, exactly once per process. Concurrent
// first callers block until the winning initializer finishes; nobody can
// observe a partially filled table. Enumeration or query failure is fatal:
// there is no recovery path for a runtime that cannot describe its own
// devices.
func initDeviceProperties() {
	devicePropsOnce.Do(func() {
		count, status := gpurt.GetDeviceCount()
		if status != gpurt.Success {
			fatalf("failed to get the number of GPU devices: %s", gpurt.ErrorString(status))
		}
		props := make([]gpurt.DeviceProp, count)
		for i := range props {
			prop, status := gpurt.GetDeviceProperties(i)
			if status != gpurt.Success {
				fatalf("failed to initialize GPU device #%d: %s", i, gpurt.ErrorString(status))
			}
			props[i] = prop
		}
		deviceProps = props
		klog.V(1).Infof("cached properties for %d GPU device(s)", count)
	})
}

// NumDevices returns the number of visible GPU devices, initializing the
// property cache if needed.
func NumDevices() int {
	initDeviceProperties()
	return len(deviceProps)
}

// Properties returns the cached property record for one device.
// The record is immutable after initialization.
func Properties(device int) *gpurt.DeviceProp {
	initDeviceProperties()
	if device < 0 || device >= len(deviceProps) {
		fatalf("device index %d out of range (%d devices visible)", device, len(deviceProps))
	}
	return &deviceProps[device]
}
