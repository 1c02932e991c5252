package merrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCodeOfWrapped(t *testing.T) {
	err := NewMorphErrorf(Truncated, "file %s", "a.bin")
	assert.Equal(t, "MRPH0004 - file a.bin", err.Error())

	wrapped := errors.Wrap(errors.WithStack(err), "loading")
	assert.Equal(t, Truncated, CodeOf(wrapped))
	assert.True(t, Is(wrapped, Truncated))
	assert.False(t, Is(wrapped, NotFound))

	assert.Equal(t, InternalError, CodeOf(errors.New("boom")))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitUsage, ExitCode(NewUsageError("bad")))
	assert.Equal(t, ExitLoad, ExitCode(NewNotFoundError("x")))
	assert.Equal(t, ExitLoad, ExitCode(NewMorphErrorf(FormatMismatch, "x")))
	assert.Equal(t, ExitExecution, ExitCode(NewNumericOverflowError("sum")))
	assert.Equal(t, ExitExecution, ExitCode(NewMorphErrorf(StyleUnavailable, "avx512")))
	assert.Equal(t, ExitIo, ExitCode(NewMorphErrorf(IoError, "stdout closed")))
	assert.Equal(t, ExitInternal, ExitCode(errors.New("boom")))
}

func TestMaybeAddStack(t *testing.T) {
	me := NewInvalidProgramError("x")
	assert.Equal(t, error(me), MaybeAddStack(me))

	plain := errors.New("plain")
	assert.NotEqual(t, plain, MaybeAddStack(plain))
}
