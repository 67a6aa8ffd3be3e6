package adapter

import (
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrNoMoreElements is returned by Sequence.Next once the sequence is exhausted.
	ErrNoMoreElements = errors.New("no more elements")

	// ErrNoEnumFactory means an EnumID type has neither a registered factory
	// nor a ParseID method.
	ErrNoEnumFactory = errors.New("no enum id factory found")

	// ErrMultipleEnumFactories means more than one factory was registered
	// for the same EnumID type.
	ErrMultipleEnumFactories = errors.New("multiple enum id factories registered")
)

// Error is the single error type surfaced by the library. It always carries
// the underlying cause.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "jsonutil: " + e.Op
	}
	return "jsonutil: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns err as an *Error for op. Existing *Error values and
// ErrNoMoreElements pass through untouched.
func Wrap(op string, err error) error {
	if err == nil || errors.Is(err, ErrNoMoreElements) {
		return err
	}
	var e *Error
	if errors.As(err, &e) && e.Op == op {
		return err
	}
	return &Error{Op: op, Err: err}
}

// ConstantNotPresentError is returned by the enum lookup helpers.
type ConstantNotPresentError struct {
	Type  string
	Value string
}

func (e ConstantNotPresentError) Error() string {
	return fmt.Sprintf("no %s constant for %q", e.Type, e.Value)
}

// fail records err on the iterator unless an earlier error is already set,
// keeping the concrete error type reachable through errors.As.
func fail(iter *jsoniter.Iterator, err error) {
	if iter.Error == nil || iter.Error == io.EOF {
		iter.Error = err
	}
}
