package osabridge

// Handle identifies a live object instance inside the external
// scripting runtime. Handles are assigned by the runtime and may be
// reused only after the host has explicitly released them.
type Handle int64

// ObjectRef is a remote object result: the runtime kept the object
// alive on the host's behalf and answered with its handle plus the
// class tag used for local proxy dispatch.
type ObjectRef struct {
	Handle Handle
	Class  string
}

// Result is the decoded outcome of a single remote operation. Exactly
// one interpretation applies: if IsObject is set, Ref names a remote
// object the caller now owns a reference to; otherwise Value holds a
// plain decoded value (string, bool, float64, nil, slice, map).
type Result struct {
	Value    any
	Ref      ObjectRef
	IsObject bool
}

// Primitive wraps a plain value as a Result.
func Primitive(v any) Result {
	return Result{Value: v}
}

// Object wraps a remote object reference as a Result.
func Object(ref ObjectRef) Result {
	return Result{Ref: ref, IsObject: true}
}

// Executor carries messages to the external scripting runtime and
// decodes its answers. Implementations compile/dispatch the script
// however they like; the bridge only depends on this surface.
//
// Every call blocks until the runtime answers. Any fault reported by
// the runtime surfaces as an execution-failed error; the bridge
// propagates it without retry.
type Executor interface {
	// GetApplication resolves the root object of a named external
	// application and returns a reference the caller owns.
	GetApplication(name string) (ObjectRef, error)

	// CallMethod invokes a named method on the target object.
	CallMethod(target Handle, name string, args []any, opts map[string]any) (Result, error)

	// GetProperty reads a named property of the target object.
	GetProperty(target Handle, name string) (Result, error)

	// SetProperties writes one or more named properties on the target.
	SetProperties(target Handle, props map[string]any) error

	// CallSelf invokes the target object itself as a callable.
	CallSelf(target Handle, args []any, opts map[string]any) (Result, error)

	// ReleaseObject tells the runtime the host holds no more
	// references to the handle. The handle value may be reused by the
	// runtime afterwards.
	ReleaseObject(h Handle) error

	// Close tears down the executor's channel to the runtime.
	Close() error
}
