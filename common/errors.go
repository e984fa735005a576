package common

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine errors. The kind decides who is at fault: a bad static setup, an invalid
// schema, bad data discovered while tuples flow, misuse of a closed operator, or the storage layer.
type ErrorKind int

const (
	KindConfiguration ErrorKind = iota
	KindSchema
	KindDataFlow
	KindOperatorClosed
	KindStorage
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindSchema:
		return "schema"
	case KindDataFlow:
		return "dataflow"
	case KindOperatorClosed:
		return "operator_closed"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind. Every EngineError matches the sentinel of its kind with errors.Is.
var (
	ErrConfiguration  = errors.New("configuration error")
	ErrSchema         = errors.New("schema error")
	ErrDataFlow       = errors.New("data flow error")
	ErrOperatorClosed = errors.New("operator is closed")
	ErrStorage        = errors.New("storage error")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindSchema:
		return ErrSchema
	case KindDataFlow:
		return ErrDataFlow
	case KindOperatorClosed:
		return ErrOperatorClosed
	case KindStorage:
		return ErrStorage
	default:
		return nil
	}
}

// EngineError carries the kind of failure together with the component and operation that failed.
type EngineError struct {
	Kind      ErrorKind
	Component string
	Operation string
	Err       error
}

func (e *EngineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s.%s: %v", e.Component, e.Operation, e.Kind.sentinel())
	}
	return fmt.Sprintf("%s.%s: %v: %v", e.Component, e.Operation, e.Kind.sentinel(), e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDataFlow) and friends work for every error of the given kind.
func (e *EngineError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// NewError creates an EngineError with a formatted message.
func NewError(kind ErrorKind, component, operation, format string, args ...any) error {
	return &EngineError{
		Kind:      kind,
		Component: component,
		Operation: operation,
		Err:       fmt.Errorf(format, args...),
	}
}

// WrapError classifies err as kind. If err already is an EngineError its kind is preserved and only the
// outer location is recorded, so the first classification wins.
func WrapError(kind ErrorKind, err error, component, operation string) error {
	if err == nil {
		return nil
	}

	var ee *EngineError
	if errors.As(err, &ee) {
		kind = ee.Kind
	}

	return &EngineError{
		Kind:      kind,
		Component: component,
		Operation: operation,
		Err:       err,
	}
}

// KindOf returns the kind of the outermost EngineError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind, true
	}
	return 0, false
}
