package nanofs_test

import (
	"syscall"
	"testing"

	"github.com/nanofs/nanofs"
	"github.com/stretchr/testify/assert"
)

func TestDriverErrorWithMessage(t *testing.T) {
	err := nanofs.NewDriverErrorWithMessage(syscall.ENOENT, "/missing")
	assert.Contains(t, err.Error(), "/missing")
	assert.ErrorIs(t, err, syscall.ENOENT)
}

func TestDriverErrorDefaultMessage(t *testing.T) {
	err := nanofs.NewDriverError(syscall.ENOSPC)
	assert.Equal(t, syscall.ENOSPC.Error(), err.Error())
	assert.Equal(t, syscall.ENOSPC, err.Errno())
}
