//go:build !cuda && !hip

package device

import (
	"testing"
	"unsafe"

	"github.com/sunway513/gpudev/gpurt"
)

func BenchmarkAllocateDeallocate(b *testing.B) {
	sd := NewStreamDevice()
	defer sd.Destroy()
	dev := NewDevice(sd)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		ptr := dev.Allocate(4096)
		dev.Deallocate(ptr)
	}
}

func BenchmarkMemcpyHostToDevice(b *testing.B) {
	sd := NewStreamDevice()
	defer sd.Destroy()
	dev := NewDevice(sd)

	const n = 64 * 1024
	src := make([]byte, n)
	buf := dev.Allocate(n)
	defer dev.Deallocate(buf)
	b.SetBytes(n)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		dev.MemcpyHostToDevice(buf, unsafe.Pointer(&src[0]), n)
	}
	dev.Synchronize()
}

func BenchmarkLaunchKernel(b *testing.B) {
	sd := NewStreamDevice()
	defer sd.Destroy()
	dev := NewDevice(sd)

	noop := gpurt.Kernel(func(gpurt.Dim3, gpurt.Dim3, int, []unsafe.Pointer) {})
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		LaunchKernel(noop, gpurt.Dim(dev.MultiProcessorCount()), gpurt.Dim(dev.NumThreads()), 0, dev)
	}
}
