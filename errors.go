// Package nanofs implements a small user-space file system backed by a single
// fixed-size disk image: a bitmap-based allocator, a packed inode table, and
// directory pages addressed through direct slots plus one indirect block. See
// the volume package for the storage engine itself; this package holds the
// types and errors shared across the whole module.
package nanofs

import (
	"fmt"
	"syscall"
)

// DriverError is a wrapper around a POSIX errno code, with an optional
// human-readable message. The kernel-bridge API surface returns errors of
// this type exclusively so callers can recover the errno to hand back to the
// kernel.
type DriverError struct {
	ErrnoCode syscall.Errno
	message   string
}

// Error implements the error interface.
func (e *DriverError) Error() string {
	if e.message != "" {
		return e.message
	}
	return e.ErrnoCode.Error()
}

// Errno returns the POSIX errno code this error wraps.
func (e *DriverError) Errno() syscall.Errno {
	return e.ErrnoCode
}

// Unwrap lets callers use errors.Is/errors.As against the underlying errno.
func (e *DriverError) Unwrap() error {
	return e.ErrnoCode
}

// NewDriverError creates a DriverError with the default message for the errno.
func NewDriverError(errnoCode syscall.Errno) *DriverError {
	return &DriverError{ErrnoCode: errnoCode, message: errnoCode.Error()}
}

// NewDriverErrorWithMessage creates a DriverError with a custom message.
func NewDriverErrorWithMessage(errnoCode syscall.Errno, message string) *DriverError {
	return &DriverError{
		ErrnoCode: errnoCode,
		message:   fmt.Sprintf("%s: %s", errnoCode.Error(), message),
	}
}
