package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseExecute,
				Kind:   KindExecutionFailed,
				Op:     "call-method",
				Handle: 42,
				Class:  "record",
				Detail: "runtime rejected the call",
			},
			contains: []string{"[execute]", "execution_failed", "call-method", "handle 42", "class record", "runtime rejected the call"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDispatch,
				Kind:  KindUnboundReference,
			},
			contains: []string{"[dispatch]", "unbound_reference"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRelease,
				Kind:   KindInvariantViolation,
				Detail: "count underflow",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[release]", "invariant_violation", "count underflow", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseExecute,
		Kind:  KindExecutionFailed,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseRelease,
		Kind:   KindInvariantViolation,
		Handle: 7,
	}

	// Same phase and kind match regardless of other fields.
	if !errors.Is(err, &Error{Phase: PhaseRelease, Kind: KindInvariantViolation}) {
		t.Error("expected match on phase+kind")
	}

	if errors.Is(err, &Error{Phase: PhaseRelease, Kind: KindExecutionFailed}) {
		t.Error("unexpected match on different kind")
	}

	if errors.Is(err, &Error{Phase: PhaseExecute, Kind: KindInvariantViolation}) {
		t.Error("unexpected match on different phase")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseExecute, KindExecutionFailed).
		Op("call-self").
		Handle(9).
		Class("window").
		Detail("fault %d", 3).
		Build()

	if err.Op != "call-self" || err.Handle != 9 || err.Class != "window" {
		t.Fatalf("builder fields not set: %+v", err)
	}
	if err.Detail != "fault 3" {
		t.Fatalf("expected formatted detail, got %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if e := Unbound("get-property"); e.Kind != KindUnboundReference || e.Phase != PhaseDispatch {
		t.Errorf("Unbound misclassified: %v", e)
	}
	if e := InvariantViolation(5, "x"); e.Kind != KindInvariantViolation || e.Handle != 5 {
		t.Errorf("InvariantViolation misclassified: %v", e)
	}
	if e := ExecutionFailed("op", errors.New("boom")); e.Kind != KindExecutionFailed || e.Cause == nil {
		t.Errorf("ExecutionFailed misclassified: %v", e)
	}
	if e := Construction("neither name nor triple"); e.Kind != KindConstruction || e.Phase != PhaseResolve {
		t.Errorf("Construction misclassified: %v", e)
	}
	if e := OutOfBounds("at", 3, 3); e.Kind != KindOutOfBounds || !strings.Contains(e.Detail, "index 3") {
		t.Errorf("OutOfBounds misclassified: %v", e)
	}
}
