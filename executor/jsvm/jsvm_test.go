package jsvm

import (
	"strings"
	"testing"

	osabridge "github.com/osakit/osabridge"
)

const notesApp = `(function () {
	return {
		class: "application",
		name: function () { return "Notes"; },
		frontmost: false,
		version: "1.0",
		documents: ["inbox", "archive", "trash"],
		echo: function (s, opts) {
			if (opts && opts.upper) { return s.toUpperCase(); }
			return s;
		},
	};
})()`

func newNotesVM(t *testing.T) *VM {
	t.Helper()
	vm := New()
	if err := vm.DefineApplication("Notes", notesApp); err != nil {
		t.Fatalf("define application: %v", err)
	}
	return vm
}

func TestVM_GetApplication(t *testing.T) {
	vm := newNotesVM(t)

	ref, err := vm.GetApplication("Notes")
	if err != nil {
		t.Fatalf("get application: %v", err)
	}
	if ref.Class != "application" {
		t.Fatalf("wrong class tag: %q", ref.Class)
	}
	if vm.Len() != 1 {
		t.Fatalf("expected one live handle, got %d", vm.Len())
	}

	if _, err := vm.GetApplication("Missing"); err == nil {
		t.Fatal("expected error for undefined application")
	}
}

func TestVM_PropertyAndMethod(t *testing.T) {
	vm := newNotesVM(t)
	ref, _ := vm.GetApplication("Notes")

	res, err := vm.GetProperty(ref.Handle, "version")
	if err != nil {
		t.Fatalf("get property: %v", err)
	}
	if res.IsObject || res.Value != "1.0" {
		t.Fatalf("unexpected property result: %+v", res)
	}

	// Missing properties decode to nil, like undefined.
	res, err = vm.GetProperty(ref.Handle, "nonexistent")
	if err != nil {
		t.Fatalf("get property: %v", err)
	}
	if res.IsObject || res.Value != nil {
		t.Fatalf("expected nil for missing property, got %+v", res)
	}

	res, err = vm.CallMethod(ref.Handle, "name", nil, nil)
	if err != nil {
		t.Fatalf("call method: %v", err)
	}
	if res.Value != "Notes" {
		t.Fatalf("unexpected method result: %+v", res)
	}

	// Named arguments arrive as a trailing options object.
	res, err = vm.CallMethod(ref.Handle, "echo", []any{"hi"}, map[string]any{"upper": true})
	if err != nil {
		t.Fatalf("call method: %v", err)
	}
	if res.Value != "HI" {
		t.Fatalf("named arguments not passed: %+v", res)
	}

	if _, err := vm.CallMethod(ref.Handle, "version", nil, nil); err == nil {
		t.Fatal("expected error calling a non-function member")
	}
}

func TestVM_SetProperties(t *testing.T) {
	vm := newNotesVM(t)
	ref, _ := vm.GetApplication("Notes")

	if err := vm.SetProperties(ref.Handle, map[string]any{"frontmost": true}); err != nil {
		t.Fatalf("set properties: %v", err)
	}
	res, err := vm.GetProperty(ref.Handle, "frontmost")
	if err != nil {
		t.Fatalf("get property: %v", err)
	}
	if res.Value != true {
		t.Fatalf("property not written: %+v", res)
	}
}

func TestVM_ObjectResultsAndRelease(t *testing.T) {
	vm := newNotesVM(t)
	ref, _ := vm.GetApplication("Notes")

	res, err := vm.GetProperty(ref.Handle, "documents")
	if err != nil {
		t.Fatalf("get property: %v", err)
	}
	if !res.IsObject || res.Ref.Class != "array" {
		t.Fatalf("expected array object result, got %+v", res)
	}
	if vm.Len() != 2 {
		t.Fatalf("expected two live handles, got %d", vm.Len())
	}

	if err := vm.ReleaseObject(res.Ref.Handle); err != nil {
		t.Fatalf("release: %v", err)
	}
	if vm.Len() != 1 {
		t.Fatalf("handle not released, %d live", vm.Len())
	}

	// The host and runtime tables have diverged if this succeeds.
	if err := vm.ReleaseObject(res.Ref.Handle); err == nil {
		t.Fatal("expected error releasing an unknown handle")
	}
}

func TestVM_CollectionSemantics(t *testing.T) {
	vm := newNotesVM(t)
	ref, _ := vm.GetApplication("Notes")

	docs, err := vm.GetProperty(ref.Handle, "documents")
	if err != nil {
		t.Fatalf("get property: %v", err)
	}
	arr := docs.Ref.Handle

	length, err := vm.GetProperty(arr, "length")
	if err != nil {
		t.Fatalf("length: %v", err)
	}
	if length.Value != int64(3) {
		t.Fatalf("expected length 3, got %+v", length)
	}

	elem, err := vm.CallMethod(arr, "at", []any{1}, nil)
	if err != nil {
		t.Fatalf("at: %v", err)
	}
	if elem.Value != "archive" {
		t.Fatalf("at(1) = %+v", elem)
	}

	if _, err := vm.CallMethod(arr, "at", []any{3}, nil); err == nil {
		t.Fatal("expected out of range error")
	}

	filtered, err := vm.CallMethod(arr, "whose", []any{`it.indexOf("a") === 0`}, nil)
	if err != nil {
		t.Fatalf("whose: %v", err)
	}
	if !filtered.IsObject || filtered.Ref.Class != "array" {
		t.Fatalf("expected array result, got %+v", filtered)
	}

	flen, err := vm.GetProperty(filtered.Ref.Handle, "length")
	if err != nil {
		t.Fatalf("length: %v", err)
	}
	if flen.Value != int64(1) {
		t.Fatalf("expected one match, got %+v", flen)
	}

	// Original is untouched.
	olen, _ := vm.GetProperty(arr, "length")
	if olen.Value != int64(3) {
		t.Fatalf("whose mutated the receiver: %+v", olen)
	}
}

func TestVM_CallSelf(t *testing.T) {
	vm := New()
	if err := vm.DefineApplication("Calc", `(function () {
		return {
			adder: function (a) { return function (b) { return a + b; }; },
		};
	})()`); err != nil {
		t.Fatalf("define application: %v", err)
	}

	ref, _ := vm.GetApplication("Calc")
	fn, err := vm.CallMethod(ref.Handle, "adder", []any{int64(2)}, nil)
	if err != nil {
		t.Fatalf("adder: %v", err)
	}
	if !fn.IsObject || fn.Ref.Class != "function" {
		t.Fatalf("expected function object, got %+v", fn)
	}

	sum, err := vm.CallSelf(fn.Ref.Handle, []any{int64(3)}, nil)
	if err != nil {
		t.Fatalf("call self: %v", err)
	}
	if sum.Value != int64(5) {
		t.Fatalf("expected 5, got %+v", sum)
	}

	// Non-callable targets reject call-self.
	if _, err := vm.CallSelf(ref.Handle, nil, nil); err == nil {
		t.Fatal("expected error for non-callable target")
	}
}

func TestVM_ObjectRefArguments(t *testing.T) {
	vm := New()
	if err := vm.DefineApplication("Store", `(function () {
		return {
			box: { class: "box", label: "books" },
			describe: function (b) { return "box of " + b.label; },
		};
	})()`); err != nil {
		t.Fatalf("define application: %v", err)
	}

	ref, _ := vm.GetApplication("Store")
	box, err := vm.GetProperty(ref.Handle, "box")
	if err != nil {
		t.Fatalf("get box: %v", err)
	}
	if box.Ref.Class != "box" {
		t.Fatalf("class property not used as tag: %+v", box)
	}

	res, err := vm.CallMethod(ref.Handle, "describe", []any{box.Ref}, nil)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if res.Value != "box of books" {
		t.Fatalf("object argument not resolved: %+v", res)
	}

	bogus := osabridge.ObjectRef{Handle: 999, Class: "box"}
	if _, err := vm.CallMethod(ref.Handle, "describe", []any{bogus}, nil); err == nil {
		t.Fatal("expected error for unknown handle argument")
	}
}

func TestVM_DefineApplicationErrors(t *testing.T) {
	vm := New()

	if err := vm.DefineApplication("Bad", `syntax error here`); err == nil {
		t.Fatal("expected syntax error")
	}
	if err := vm.DefineApplication("Scalar", `42`); err == nil {
		t.Fatal("expected error for non-object script result")
	} else if !strings.Contains(err.Error(), "not an object") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVM_Close(t *testing.T) {
	vm := newNotesVM(t)
	if err := vm.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := vm.GetApplication("Notes"); err == nil {
		t.Fatal("expected error after close")
	}
}
