package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseResolve  Phase = "resolve"  // application lookup and proxy construction
	PhaseDispatch Phase = "dispatch" // local checks before a message is sent
	PhaseExecute  Phase = "execute"  // remote script execution
	PhaseRelease  Phase = "release"  // handle reference counting and release
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindUnboundReference   Kind = "unbound_reference"
	KindInvariantViolation Kind = "invariant_violation"
	KindExecutionFailed    Kind = "execution_failed"
	KindConstruction       Kind = "construction_error"
	KindNotFound           Kind = "not_found"
	KindOutOfBounds        Kind = "out_of_bounds"
	KindInvalidInput       Kind = "invalid_input"
	KindDecode             Kind = "decode"
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string // operation being performed, e.g. "get-property"
	Class  string // remote class tag, when known
	Detail string
	Handle int64 // remote handle involved, 0 when not applicable
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Handle != 0 {
		fmt.Fprintf(&b, " (handle %d", e.Handle)
		if e.Class != "" {
			b.WriteString(", class ")
			b.WriteString(e.Class)
		}
		b.WriteByte(')')
	} else if e.Class != "" {
		b.WriteString(" (class ")
		b.WriteString(e.Class)
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Handle sets the remote handle
func (b *Builder) Handle(h int64) *Builder {
	b.err.Handle = h
	return b
}

// Class sets the remote class tag
func (b *Builder) Class(c string) *Builder {
	b.err.Class = c
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Unbound creates an unbound-reference error for an operation
// attempted on a proxy with no handle.
func Unbound(op string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindUnboundReference,
		Op:     op,
		Detail: "proxy is not bound to a remote object",
	}
}

// InvariantViolation creates a reference-count lifecycle error. These
// indicate a bug in handle bookkeeping and are never retried or
// absorbed.
func InvariantViolation(handle int64, detail string) *Error {
	return &Error{
		Phase:  PhaseRelease,
		Kind:   KindInvariantViolation,
		Handle: handle,
		Detail: detail,
	}
}

// ExecutionFailed wraps a fault reported by the external runtime.
func ExecutionFailed(op string, cause error) *Error {
	return &Error{
		Phase: PhaseExecute,
		Kind:  KindExecutionFailed,
		Op:    op,
		Cause: cause,
	}
}

// Construction creates an error for proxy construction with an
// inconsistent set of identifying arguments.
func Construction(detail string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindConstruction,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(op string, index, length int) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindOutOfBounds,
		Op:     op,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Decode creates an error for an undecodable runtime response.
func Decode(op string, cause error) *Error {
	return &Error{
		Phase: PhaseExecute,
		Kind:  KindDecode,
		Op:    op,
		Cause: cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
