//go:build !cuda && !hip

package device

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/sunway513/gpudev/gpurt"
)

func TestStreamDeviceBinding(t *testing.T) {
	d := NewStreamDevice()
	defer d.Destroy()
	current, status := gpurt.GetDevice()
	require.Equal(t, gpurt.Success, status)
	require.Equal(t, current, d.Device())
	require.Same(t, &deviceProps[d.Device()], d.DeviceProperties())

	at := NewStreamDeviceAt(0)
	defer at.Destroy()
	require.Equal(t, 0, at.Device())
	require.Same(t, &deviceProps[0], at.DeviceProperties())
	require.Same(t, at.DeviceProperties(), at.DeviceProperties(), "record must be stable across calls")
}

func TestStreamDeviceOutOfRange(t *testing.T) {
	require.Panics(t, func() { NewStreamDeviceAt(NumDevices()) })
	require.Panics(t, func() { NewStreamDeviceAt(-1) })

	stream, status := gpurt.StreamCreate()
	require.Equal(t, gpurt.Success, status)
	defer gpurt.StreamDestroy(stream)
	require.Panics(t, func() { NewStreamDeviceWithStream(stream, NumDevices()) })
}

func TestStreamDeviceWithCallerStream(t *testing.T) {
	stream, status := gpurt.StreamCreate()
	require.Equal(t, gpurt.Success, status)
	defer gpurt.StreamDestroy(stream)

	d := NewStreamDeviceWithStream(stream, -1)
	defer d.Destroy()
	require.Equal(t, stream, d.Stream())

	current, _ := gpurt.GetDevice()
	require.Equal(t, current, d.Device(), "negative index must bind the current device")

	// Destroying the binding must not destroy the caller's stream.
	d.Destroy()
	require.Equal(t, gpurt.Success, gpurt.StreamQuery(stream))
}

func TestScratchpadIdempotent(t *testing.T) {
	d := NewStreamDevice()
	defer d.Destroy()

	p1 := d.Scratchpad()
	p2 := d.Scratchpad()
	require.NotNil(t, p1)
	require.Equal(t, p1, p2)
}

func TestSemaphoreZeroOnFirstUse(t *testing.T) {
	d := NewStreamDevice()
	defer d.Destroy()

	sem := d.Semaphore()
	// Simulated device memory is host-addressable, so the counter can be
	// read directly.
	require.Zero(t, *sem)
	require.Equal(t, unsafe.Add(d.Scratchpad(), ScratchSize), unsafe.Pointer(sem),
		"the semaphore lives immediately after the scratch region")
	require.Equal(t, sem, d.Semaphore())
}

func TestDestroyReleasesScratchExactlyOnce(t *testing.T) {
	base, _ := gpurt.SimStats()

	d := NewStreamDeviceAt(0)
	_ = d.Scratchpad()
	allocs, _ := gpurt.SimStats()
	require.Equal(t, base+1, allocs, "scratchpad makes exactly one allocation")

	d.Destroy()
	allocs, _ = gpurt.SimStats()
	require.Equal(t, base, allocs)

	d.Destroy()
	allocs, _ = gpurt.SimStats()
	require.Equal(t, base, allocs, "repeated destroy must not double free")
}

func TestDestroyWithoutScratchReleasesNothing(t *testing.T) {
	base, _ := gpurt.SimStats()
	d := NewStreamDeviceAt(0)
	d.Destroy()
	allocs, _ := gpurt.SimStats()
	require.Equal(t, base, allocs)
}

func TestAllocateDeallocate(t *testing.T) {
	d := NewStreamDevice()
	defer d.Destroy()

	_, baseBytes := gpurt.SimStats()
	ptr := d.Allocate(4096)
	require.NotNil(t, ptr)
	_, bytes := gpurt.SimStats()
	require.Equal(t, baseBytes+4096, bytes)

	d.Deallocate(ptr)
	_, bytes = gpurt.SimStats()
	require.Equal(t, baseBytes, bytes)

	require.Panics(t, func() { d.Deallocate(nil) })
}
