// Package device manages GPU execution context for numeric-kernel code:
// device memory, a per-process device property cache, a reusable scratch
// block with a reset-to-zero semaphore, and kernel launches, all issued
// against an execution stream from the vendor-neutral gpurt runtime.
//
// Kernel code never talks to gpurt directly: it receives a *Device facade
// wrapping a borrowed Stream implementation, so any conforming
// implementation -- including test doubles -- can be substituted.
//
// Runtime failures in this package are unrecoverable. A broken GPU runtime
// state cannot be safely continued from, so every operation that hits a
// non-success vendor status logs the vendor diagnostic and panics; there is
// no retry logic anywhere.
package device
