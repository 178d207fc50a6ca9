package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"kmapi/internal/service"
)

const (
	ExitCodeSuccess  = 0
	ExitCodeGeneric  = 1
	ExitCodeUsage    = 2
	ExitCodeNotFound = 3
	ExitCodeIO       = 4
)

type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ExitError) ExitCode() int {
	if e == nil {
		return ExitCodeGeneric
	}
	return e.Code
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{Code: ExitCodeUsage, Err: fmt.Errorf(format, args...)}
}

// mapCommandError attaches an exit code to err based on its cause.
func mapCommandError(err error) error {
	if err == nil {
		return nil
	}
	var withExit interface{ ExitCode() int }
	if errors.As(err, &withExit) {
		return err
	}

	var pathErr *fs.PathError
	switch {
	case errors.Is(err, service.ErrNotFound):
		return &ExitError{Code: ExitCodeNotFound, Err: err}
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrTooManyTags),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrLinkExpiry),
		errors.Is(err, service.ErrMessageRequired):
		return &ExitError{Code: ExitCodeUsage, Err: err}
	case errors.As(err, &pathErr), errors.Is(err, os.ErrNotExist):
		return &ExitError{Code: ExitCodeIO, Err: err}
	default:
		return &ExitError{Code: ExitCodeGeneric, Err: err}
	}
}
