// internal/writers/brokenpipe.go
package writers

import (
	"errors"
	"io"
	"syscall"
)

// reader-gone errors seen when stdout is a pipe or a socket
var goneErrs = []error{syscall.EPIPE, syscall.ECONNRESET, io.ErrClosedPipe}

// IsBrokenPipe reports whether err means the consumer of the output went
// away early (`selfsim --format report g.fa | head`). Joined errors from a
// run match when any of their parts does.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range goneErrs {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
