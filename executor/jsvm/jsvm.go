package jsvm

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	osabridge "github.com/osakit/osabridge"
)

// VM is an in-process scripting runtime implementing the Executor
// interface on top of a goja JavaScript interpreter. It plays the role
// the external helper process plays in production: it holds live
// object instances on the host's behalf and hands out integer handles.
//
// The VM is the authoritative owner of handle values. A handle stays
// valid until the host sends a release for it; released handle values
// may be reused.
type VM struct {
	rt      *goja.Runtime
	objects map[osabridge.Handle]*goja.Object
	apps    map[string]*goja.Object
	next    osabridge.Handle
	log     *zap.Logger
	closed  bool

	// mu serializes all access to the interpreter, which is not
	// goroutine-safe, and to the object table.
	mu sync.Mutex
}

// Option configures a VM.
type Option func(*VM)

// WithLogger sets the VM's logger. Defaults to the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *VM) {
		v.log = l
	}
}

// New creates an empty VM. Applications are seeded with
// DefineApplication before the bridge resolves them.
func New(opts ...Option) *VM {
	v := &VM{
		rt:      goja.New(),
		objects: make(map[osabridge.Handle]*goja.Object),
		apps:    make(map[string]*goja.Object),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.log == nil {
		v.log = Logger()
	}
	return v
}

// DefineApplication evaluates a JavaScript expression and registers
// its result as the root object of the named application. The script
// must evaluate to an object; wrap bare object literals in parentheses
// or an immediately invoked function.
func (v *VM) DefineApplication(name, script string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return fmt.Errorf("vm closed")
	}

	val, err := v.rt.RunString(script)
	if err != nil {
		return fmt.Errorf("evaluate application %q: %w", name, err)
	}
	obj, ok := val.(*goja.Object)
	if !ok {
		return fmt.Errorf("application %q script evaluated to %s, not an object", name, val)
	}

	v.apps[name] = obj
	v.log.Debug("application defined", zap.String("name", name))
	return nil
}

// Len returns the number of live handles, for leak checks.
func (v *VM) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.objects)
}

// GetApplication implements osabridge.Executor.
func (v *VM) GetApplication(name string) (osabridge.ObjectRef, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return osabridge.ObjectRef{}, fmt.Errorf("vm closed")
	}

	obj, ok := v.apps[name]
	if !ok {
		return osabridge.ObjectRef{}, fmt.Errorf("application %q not defined", name)
	}
	return v.register(obj, "application"), nil
}

// GetProperty implements osabridge.Executor.
func (v *VM) GetProperty(target osabridge.Handle, name string) (osabridge.Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	obj, err := v.lookup(target)
	if err != nil {
		return osabridge.Result{}, err
	}
	return v.decode(obj.Get(name)), nil
}

// SetProperties implements osabridge.Executor.
func (v *VM) SetProperties(target osabridge.Handle, props map[string]any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	obj, err := v.lookup(target)
	if err != nil {
		return err
	}
	for name, value := range props {
		val, err := v.encode(value)
		if err != nil {
			return err
		}
		if err := obj.Set(name, val); err != nil {
			return fmt.Errorf("set %q: %w", name, err)
		}
	}
	return nil
}

// CallMethod implements osabridge.Executor. On collections the
// positional-access and filter operations are provided by the runtime
// itself; on plain objects the named member must be callable.
func (v *VM) CallMethod(target osabridge.Handle, name string, args []any, opts map[string]any) (osabridge.Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	obj, err := v.lookup(target)
	if err != nil {
		return osabridge.Result{}, err
	}

	if obj.ClassName() == "Array" {
		switch name {
		case "at":
			return v.arrayAt(obj, args)
		case "whose":
			return v.arrayWhose(obj, args)
		}
	}

	member := obj.Get(name)
	fn, ok := goja.AssertFunction(member)
	if !ok {
		return osabridge.Result{}, fmt.Errorf("%q is not a method", name)
	}

	callArgs, err := v.encodeArgs(args, opts)
	if err != nil {
		return osabridge.Result{}, err
	}

	res, err := fn(obj, callArgs...)
	if err != nil {
		return osabridge.Result{}, fmt.Errorf("call %q: %w", name, err)
	}
	return v.decode(res), nil
}

// CallSelf implements osabridge.Executor: the target object is invoked
// as a function.
func (v *VM) CallSelf(target osabridge.Handle, args []any, opts map[string]any) (osabridge.Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	obj, err := v.lookup(target)
	if err != nil {
		return osabridge.Result{}, err
	}

	fn, ok := goja.AssertFunction(obj)
	if !ok {
		return osabridge.Result{}, fmt.Errorf("object %d is not callable", target)
	}

	callArgs, err := v.encodeArgs(args, opts)
	if err != nil {
		return osabridge.Result{}, err
	}

	res, err := fn(goja.Undefined(), callArgs...)
	if err != nil {
		return osabridge.Result{}, fmt.Errorf("call self: %w", err)
	}
	return v.decode(res), nil
}

// ReleaseObject implements osabridge.Executor. Releasing an unknown
// handle is an error: the host's bookkeeping and the runtime's table
// have diverged.
func (v *VM) ReleaseObject(h osabridge.Handle) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.objects[h]; !ok {
		return fmt.Errorf("release of unknown handle %d", h)
	}
	delete(v.objects, h)
	v.log.Debug("object released", zap.Int64("handle", int64(h)))
	return nil
}

// Close drops all live objects and rejects further operations.
func (v *VM) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closed = true
	v.objects = make(map[osabridge.Handle]*goja.Object)
	v.apps = make(map[string]*goja.Object)
	return nil
}

// register stores the object and assigns it a fresh handle. An empty
// class selects the inferred tag.
func (v *VM) register(obj *goja.Object, class string) osabridge.ObjectRef {
	v.next++
	v.objects[v.next] = obj
	if class == "" {
		class = classOf(obj)
	}
	return osabridge.ObjectRef{Handle: v.next, Class: class}
}

func (v *VM) lookup(h osabridge.Handle) (*goja.Object, error) {
	if v.closed {
		return nil, fmt.Errorf("vm closed")
	}
	obj, ok := v.objects[h]
	if !ok {
		return nil, fmt.Errorf("unknown handle %d", h)
	}
	return obj, nil
}

// classOf infers the dispatch tag for a runtime object: collections
// are tagged "array", callables "function", and objects declaring a
// "class" string property use that. Everything else is "object",
// which the bridge wraps generically.
func classOf(obj *goja.Object) string {
	switch obj.ClassName() {
	case "Array":
		return "array"
	case "Function":
		return "function"
	}
	if cv := obj.Get("class"); cv != nil && !goja.IsUndefined(cv) && !goja.IsNull(cv) {
		if s, ok := cv.Export().(string); ok {
			return s
		}
	}
	return "object"
}

// decode converts an interpreter value into an executor result:
// primitives pass through exported, objects are retained in the table
// and answered by reference.
func (v *VM) decode(val goja.Value) osabridge.Result {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return osabridge.Primitive(nil)
	}
	if obj, ok := val.(*goja.Object); ok {
		return osabridge.Object(v.register(obj, ""))
	}
	return osabridge.Primitive(val.Export())
}

// encode converts a host argument into an interpreter value. Object
// references are resolved against the table; everything else goes
// through goja's standard conversion.
func (v *VM) encode(arg any) (goja.Value, error) {
	if ref, ok := arg.(osabridge.ObjectRef); ok {
		obj, found := v.objects[ref.Handle]
		if !found {
			return nil, fmt.Errorf("argument references unknown handle %d", ref.Handle)
		}
		return obj, nil
	}
	return v.rt.ToValue(arg), nil
}

// encodeArgs lowers positional arguments, appending the named
// arguments as a trailing options object when present.
func (v *VM) encodeArgs(args []any, opts map[string]any) ([]goja.Value, error) {
	out := make([]goja.Value, 0, len(args)+1)
	for _, a := range args {
		val, err := v.encode(a)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	if len(opts) > 0 {
		optsObj := v.rt.NewObject()
		for k, val := range opts {
			ev, err := v.encode(val)
			if err != nil {
				return nil, err
			}
			if err := optsObj.Set(k, ev); err != nil {
				return nil, err
			}
		}
		out = append(out, optsObj)
	}
	return out, nil
}

func (v *VM) arrayAt(arr *goja.Object, args []any) (osabridge.Result, error) {
	if len(args) != 1 {
		return osabridge.Result{}, fmt.Errorf("at expects one index argument")
	}
	idx, ok := asIndex(args[0])
	if !ok {
		return osabridge.Result{}, fmt.Errorf("at index must be an integer, got %T", args[0])
	}

	length := int(arr.Get("length").ToInteger())
	if idx < 0 || idx >= length {
		return osabridge.Result{}, fmt.Errorf("index %d out of range (length %d)", idx, length)
	}
	return v.decode(arr.Get(fmt.Sprintf("%d", idx))), nil
}

// arrayWhose filters a collection by a predicate expression evaluated
// against each element bound as "it". The receiver is never mutated; a
// fresh collection holding the matches is returned.
func (v *VM) arrayWhose(arr *goja.Object, args []any) (osabridge.Result, error) {
	if len(args) != 1 {
		return osabridge.Result{}, fmt.Errorf("whose expects one predicate argument")
	}
	pred, ok := args[0].(string)
	if !ok {
		return osabridge.Result{}, fmt.Errorf("whose predicate must be an expression string, got %T", args[0])
	}

	predVal, err := v.rt.RunString("(function(it){ return (" + pred + "); })")
	if err != nil {
		return osabridge.Result{}, fmt.Errorf("compile predicate: %w", err)
	}
	predFn, ok := goja.AssertFunction(predVal)
	if !ok {
		return osabridge.Result{}, fmt.Errorf("predicate did not compile to a function")
	}

	length := int(arr.Get("length").ToInteger())
	var kept []any
	for i := 0; i < length; i++ {
		elem := arr.Get(fmt.Sprintf("%d", i))
		match, err := predFn(goja.Undefined(), elem)
		if err != nil {
			return osabridge.Result{}, fmt.Errorf("evaluate predicate at %d: %w", i, err)
		}
		if match.ToBoolean() {
			kept = append(kept, elem)
		}
	}

	filtered := v.rt.NewArray(kept...)
	return osabridge.Object(v.register(filtered, "array")), nil
}

func asIndex(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
