// Package errors provides structured error types for the osabridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type includes the operation name, the
// remote handle and class tag when known, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseExecute, errors.KindExecutionFailed).
//		Op("call-method").
//		Handle(42).
//		Class("record").
//		Detail("runtime rejected the call").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unbound("get-property")
//	err := errors.InvariantViolation(42, "decrement of untracked handle")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
