package utils

import "fmt"

// AppError tags an error with the operation that produced it and a message
// fit for logs. Used at the file-backed boundaries (config, alert rule packs)
// where the underlying os or yaml error alone lacks context.
type AppError struct {
	Op  string
	Msg string
	Err error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with its operation and message. Unwrap keeps
// errors.Is checks (for example os.ErrNotExist) working on the result.
func NewAppError(op, msg string, err error) error {
	return &AppError{Op: op, Msg: msg, Err: err}
}
