package format

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when a path has no extension or no
	// adapter is registered for it.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrFileCorruption matches every *CorruptionError.
	ErrFileCorruption = errors.New("file corruption")

	// ErrPasswordProtected is reserved for encrypted documents. No adapter
	// currently returns it.
	ErrPasswordProtected = errors.New("password protected document")
)

// CorruptionError reports a read or parse fault inside an adapter.
type CorruptionError struct {
	Path string // document path
	Op   string // what the adapter was doing, e.g. "read csv"
	Err  error  // underlying cause
}

// Corrupt wraps err as a *CorruptionError. A nil err yields nil, and an err
// that already is a *CorruptionError is returned unchanged.
func Corrupt(path, op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *CorruptionError
	if errors.As(err, &ce) {
		return err
	}
	return &CorruptionError{Path: path, Op: op, Err: err}
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CorruptionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFileCorruption.
func (e *CorruptionError) Is(target error) bool {
	return target == ErrFileCorruption
}
