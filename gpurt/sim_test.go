//go:build !cuda && !hip

package gpurt

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestSimMallocFree(t *testing.T) {
	ptr, status := Malloc(4096)
	require.Equal(t, Success, status)
	require.NotNil(t, ptr)
	require.Zero(t, uintptr(ptr)%simAllocAlignment, "allocations must be %d-byte aligned", simAllocAlignment)

	require.Equal(t, Success, Free(ptr))
	require.Equal(t, errorInvalidValue, Free(ptr), "double free must be rejected")

	var local int
	require.Equal(t, errorInvalidValue, Free(unsafe.Pointer(&local)), "foreign pointers must be rejected")
}

func TestSimMallocZeroBytes(t *testing.T) {
	ptr, status := Malloc(0)
	require.Equal(t, Success, status)
	require.NotNil(t, ptr)
	require.Equal(t, Success, Free(ptr))
}

func TestSimMemcpyRoundTrip(t *testing.T) {
	const n = 256
	dev, status := Malloc(n)
	require.Equal(t, Success, status)
	defer Free(dev)

	src := make([]byte, n)
	for i := range src {
		src[i] = byte(i)
	}
	dst := make([]byte, n)

	require.Equal(t, Success, MemcpyAsync(dev, unsafe.Pointer(&src[0]), n, MemcpyHostToDevice, DefaultStream))
	require.Equal(t, Success, MemcpyAsync(unsafe.Pointer(&dst[0]), dev, n, MemcpyDeviceToHost, DefaultStream))
	require.Equal(t, src, dst)

	require.Equal(t, errorInvalidValue, MemcpyAsync(nil, dev, n, MemcpyDeviceToHost, DefaultStream))
	require.Equal(t, errorInvalidValue, MemcpyAsync(dev, dev, n, MemcpyKind(99), DefaultStream))
}

func TestSimMemset(t *testing.T) {
	const n = 64
	dev, status := Malloc(n)
	require.Equal(t, Success, status)
	defer Free(dev)

	require.Equal(t, Success, MemsetAsync(dev, 0xAB, n, DefaultStream))
	for _, b := range unsafe.Slice((*byte)(dev), n) {
		require.Equal(t, byte(0xAB), b)
	}
}

func TestSimDeviceSelection(t *testing.T) {
	count, status := GetDeviceCount()
	require.Equal(t, Success, status)
	require.GreaterOrEqual(t, count, 1)

	require.Equal(t, errorInvalidDevice, SetDevice(count))
	require.Equal(t, errorInvalidDevice, SetDevice(-1))
	require.Equal(t, Success, SetDevice(0))

	device, status := GetDevice()
	require.Equal(t, Success, status)
	require.Equal(t, 0, device)

	prop, status := GetDeviceProperties(0)
	require.Equal(t, Success, status)
	require.NotEmpty(t, prop.Name)
	require.Greater(t, prop.MaxThreadsPerBlock, 0)

	_, status = GetDeviceProperties(count)
	require.Equal(t, errorInvalidDevice, status)
}

func TestSimStreams(t *testing.T) {
	s1, status := StreamCreate()
	require.Equal(t, Success, status)
	s2, status := StreamCreate()
	require.Equal(t, Success, status)
	require.NotSame(t, s1, s2)

	require.Equal(t, Success, StreamQuery(s1))
	require.Equal(t, Success, StreamSynchronize(s1))
	require.Equal(t, Success, StreamDestroy(s1))
	require.Equal(t, Success, StreamDestroy(s2))
	require.Equal(t, errorInvalidValue, StreamDestroy(nil))
}

func TestSimLaunchKernel(t *testing.T) {
	var ran bool
	kernel := func(grid, block Dim3, sharedMem int, args []unsafe.Pointer) {
		ran = true
		require.Equal(t, Dim(4), grid)
		require.Equal(t, Dim(128), block)
		require.Len(t, args, 1)
		*(*int32)(args[0]) = 7
	}

	var out int32
	status := LaunchKernel(kernel, Dim(4), Dim(128), 0, DefaultStream, unsafe.Pointer(&out))
	require.Equal(t, Success, status)
	require.True(t, ran)
	require.Equal(t, int32(7), out)

	require.Equal(t, errorInvalidValue, LaunchKernel(nil, Dim(1), Dim(1), 0, DefaultStream))
	require.Equal(t, errorInvalidConfiguration, LaunchKernel(kernel, Dim(0), Dim(1), 0, DefaultStream))
	require.Equal(t, errorInvalidConfiguration, LaunchKernel(kernel, Dim(1), Dim(4096), 0, DefaultStream),
		"block larger than MaxThreadsPerBlock must be rejected")
	require.Equal(t, errorInvalidConfiguration, LaunchKernel(kernel, Dim(1), Dim(1), 1<<20, DefaultStream),
		"shared memory beyond the per-block limit must be rejected")
}

func TestSimSharedMemConfig(t *testing.T) {
	require.Equal(t, Success, DeviceSetSharedMemConfig(SharedMemBankSizeEightByte))
	config, status := DeviceGetSharedMemConfig()
	require.Equal(t, Success, status)
	require.Equal(t, SharedMemBankSizeEightByte, config)

	require.Equal(t, errorInvalidValue, DeviceSetSharedMemConfig(SharedMemConfig(42)))
	require.Equal(t, Success, DeviceSetSharedMemConfig(SharedMemBankSizeDefault))
}

func TestSimErrorStrings(t *testing.T) {
	require.Equal(t, "no error", ErrorString(Success))
	require.Equal(t, "device not ready", ErrorString(ErrorNotReady))
	require.NotEmpty(t, ErrorString(Error(12345)))
}

func TestAsError(t *testing.T) {
	require.NoError(t, AsError(Success))
	err := AsError(ErrorNotReady)
	require.Error(t, err)
	require.Contains(t, err.Error(), "device not ready")
}

func TestMemcpyKindString(t *testing.T) {
	require.Equal(t, "MemcpyHostToDevice", MemcpyHostToDevice.String())
	require.Equal(t, "MemcpyDeviceToDevice", MemcpyDeviceToDevice.String())
	kind, err := MemcpyKindString("MemcpyDeviceToHost")
	require.NoError(t, err)
	require.Equal(t, MemcpyDeviceToHost, kind)
}
