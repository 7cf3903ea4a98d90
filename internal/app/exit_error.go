package app

import (
	"errors"
	"fmt"
	"io"
)

// ExitError carries a process exit code through the error chain.
type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit %d", e.Code)
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error {
	return e.Err
}

func ExitWithError(code int, err error) error {
	return ExitError{Code: code, Err: err}
}

// exitCode reports err on stderr and maps it to a process exit code. Plain errors exit 1.
func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var ee ExitError
	if errors.As(err, &ee) {
		if ee.Err != nil && ee.Code != 0 {
			fmt.Fprintln(stderr, ee.Err)
		}
		return ee.Code
	}
	fmt.Fprintln(stderr, err)
	return 1
}
