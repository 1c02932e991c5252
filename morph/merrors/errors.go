package merrors

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorCode int

const (
	InternalError ErrorCode = iota
	UsageError

	NotFound
	FormatMismatch
	Truncated
	CorruptHeader

	UnsupportedFormatForOperator
	StyleUnavailable
	NumericOverflow
	InvalidInput
	InvalidProgram

	IoError
)

// Category groups codes by the phase that raises them, it decides the exit status
type Category int

const (
	CategoryInternal Category = iota
	CategoryUsage
	CategoryLoad
	CategoryExecution
	CategoryIo
)

func (c ErrorCode) Category() Category {
	switch c {
	case UsageError:
		return CategoryUsage
	case NotFound, FormatMismatch, Truncated, CorruptHeader:
		return CategoryLoad
	case UnsupportedFormatForOperator, StyleUnavailable, NumericOverflow, InvalidInput, InvalidProgram:
		return CategoryExecution
	case IoError:
		return CategoryIo
	default:
		return CategoryInternal
	}
}

const (
	ExitOK        = 0
	ExitUsage     = 1
	ExitLoad      = 2
	ExitExecution = 3
	ExitIo        = 4
	ExitInternal  = 70
)

func (c Category) ExitCode() int {
	switch c {
	case CategoryUsage:
		return ExitUsage
	case CategoryLoad:
		return ExitLoad
	case CategoryExecution:
		return ExitExecution
	case CategoryIo:
		return ExitIo
	default:
		return ExitInternal
	}
}

// MorphError is any error exposed to the user of a query program
type MorphError struct {
	Code ErrorCode
	Msg  string
}

func (e MorphError) Error() string {
	return e.Msg
}

func NewMorphErrorf(code ErrorCode, msgFormat string, args ...interface{}) MorphError {
	msg := fmt.Sprintf(fmt.Sprintf("MRPH%04d - %s", code, msgFormat), args...)
	return MorphError{Code: code, Msg: msg}
}

func NewUsageError(msg string) MorphError {
	return NewMorphErrorf(UsageError, "%s", msg)
}

func NewNotFoundError(path string) MorphError {
	return NewMorphErrorf(NotFound, "column file %s does not exist", path)
}

func NewFormatMismatchError(what string, expected, actual fmt.Stringer) MorphError {
	return NewMorphErrorf(FormatMismatch, "%s has format %s, expected %s", what, actual, expected)
}

func NewTruncatedError(path string, declared, available int64) MorphError {
	return NewMorphErrorf(Truncated, "column file %s declares %d bytes after header, has %d", path, declared, available)
}

func NewUnsupportedFormatError(operator string, format fmt.Stringer) MorphError {
	return NewMorphErrorf(UnsupportedFormatForOperator, "operator %s has no decode path for format %s", operator, format)
}

func NewStyleUnavailableError(style fmt.Stringer) MorphError {
	return NewMorphErrorf(StyleUnavailable, "processing style %s is not available on this machine", style)
}

func NewNumericOverflowError(msgFormat string, args ...interface{}) MorphError {
	return NewMorphErrorf(NumericOverflow, "numeric overflow: "+msgFormat, args...)
}

func NewInvalidProgramError(msgFormat string, args ...interface{}) MorphError {
	return NewMorphErrorf(InvalidProgram, "invalid program: "+msgFormat, args...)
}

// CodeOf finds the MorphError in err's chain, InternalError if there is none
func CodeOf(err error) ErrorCode {
	var me MorphError
	if errors.As(err, &me) {
		return me.Code
	}
	return InternalError
}

func Is(err error, code ErrorCode) bool {
	var me MorphError
	return errors.As(err, &me) && me.Code == code
}

func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return CodeOf(err).Category().ExitCode()
}

func MaybeAddStack(err error) error {
	_, ok := err.(MorphError)
	if !ok {
		return errors.WithStack(err)
	}
	return err
}
