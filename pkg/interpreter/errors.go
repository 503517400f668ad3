package interpreter

import (
	"errors"
	"fmt"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	TypeMismatch ErrorKind = iota
	UnboundName
	DivisionByZero
	DomainRange
	Structural
	InputFormat
	ResourceExhausted
	RenderFailure
)

func (k ErrorKind) String() string {
	switch k {
	case TypeMismatch:
		return "type"
	case UnboundName:
		return "unbound"
	case DivisionByZero:
		return "division-by-zero"
	case DomainRange:
		return "domain"
	case Structural:
		return "structure"
	case InputFormat:
		return "format"
	case ResourceExhausted:
		return "resource"
	case RenderFailure:
		return "render"
	default:
		return fmt.Sprintf("unknown_error_%d", int(k))
	}
}

// Error is the single recoverable failure raised by evaluation.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of the evaluation error wrapped by err.
func KindOf(err error) (ErrorKind, bool) {
	var evalErr *Error
	if errors.As(err, &evalErr) {
		return evalErr.Kind, true
	}
	return 0, false
}

func newError(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func typeError(format string, args ...any) error {
	return newError(TypeMismatch, format, args...)
}

func domainError(format string, args ...any) error {
	return newError(DomainRange, format, args...)
}

func structuralError(format string, args ...any) error {
	return newError(Structural, format, args...)
}
