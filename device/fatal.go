package device

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// fatalf logs an unrecoverable runtime failure and panics. Callers pass the
// vendor error string where one exists, so the diagnostic reaches the log
// sink before the process unwinds. The panic value carries a stack trace.
func fatalf(format string, args ...any) {
	err := errors.Errorf("device: "+format, args...)
	klog.ErrorDepth(1, err.Error())
	panic(err)
}
