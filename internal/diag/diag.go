// Package diag is the logging facade every transform issues its
// diagnostics through. It wraps glog directly rather than a project-local
// logger interface, but never calls glog's Fatal* variants: a pass must be
// able to abort just itself and let the pass manager continue with the
// next module, which a process-wide os.Exit would defeat.
package diag

import (
	"fmt"

	"github.com/golang/glog"
)

// Warningf issues a non-fatal diagnostic: a warning-and-passthrough per
// spec sec 7, or one of the counter recoverer's "not copying" / "not
// checking" notices.
func Warningf(format string, args ...interface{}) {
	glog.Warning(fmt.Sprintf(format, args...))
}

// Tracef issues a verbose progress trace, gated behind -v (glog.V(1)),
// matching spec sec 6's reserved -v slot.
func Tracef(format string, args ...interface{}) {
	if glog.V(1) {
		glog.Info(fmt.Sprintf(format, args...))
	}
}

// Assert panics if cond is false, mirroring the original's log_assert for
// internal-consistency violations (spec sec 7's "__XOR3_ inputs do not
// include the previous carry-out" and similar bugs-in-an-earlier-pass
// conditions) rather than a normal error return.
func Assert(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
