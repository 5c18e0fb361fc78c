package mcpserver

import (
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
)

// disconnectFragments are the error-message shapes OS-level disconnects take
// when they reach us pre-wrapped as plain strings.
var disconnectFragments = []string{
	"broken pipe",
	"connection reset",
	"file already closed",
	"use of closed network connection",
	"use of closed file",
}

// IsClientDisconnect classifies an error as a normal client hang-up on the
// stdio transport: EOF on stdin, a broken pipe or connection reset writing
// stdout, or I/O on a descriptor the client already closed. These are
// suppressed at the outermost boundary and the process exits 0.
func IsClientDisconnect(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, os.ErrClosed) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range disconnectFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
