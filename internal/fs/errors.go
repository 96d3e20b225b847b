package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// ErrorKind classifies filesystem failures surfaced by directory reads,
// stats and directory changes.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindNotFound
	KindPermission
	KindNotDir
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission denied"
	case KindNotDir:
		return "not a directory"
	default:
		return "i/o error"
	}
}

// IOError is the only error kind produced by the listing core.
type IOError struct {
	Op   string // "read", "stat" or "chdir"
	Path string
	Kind ErrorKind
	Err  error
}

func (e *IOError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError wraps err, classifying it. A nil err yields nil.
func NewIOError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return err
	}
	return &IOError{Op: op, Path: path, Kind: KindOf(err), Err: err}
}

// KindOf classifies an arbitrary error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindOther
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return ioErr.Kind
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, syscall.ENOTDIR):
		return KindNotDir
	default:
		return KindOther
	}
}
