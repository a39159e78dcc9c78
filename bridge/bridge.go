package bridge

import (
	"sync"

	"go.uber.org/zap"

	osabridge "github.com/osakit/osabridge"
	"github.com/osakit/osabridge/errors"
)

// Bridge is the single channel between local proxies and the external
// scripting runtime. It owns the reference-count registry, the class
// dispatch table, and the Executor carrying messages across the
// process boundary.
//
// All reference-count transitions and the release messages they
// trigger are serialized under one mutex, so concurrent goroutines
// cannot race a handle past zero or double-release it.
type Bridge struct {
	exec     osabridge.Executor
	registry *Registry
	dispatch *Dispatch
	log      *zap.Logger

	// mu serializes count transitions together with release dispatch.
	mu sync.Mutex
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the bridge's logger. Defaults to the package logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) {
		b.log = l
	}
}

// New creates a Bridge over the given executor. The bridge takes
// ownership of the executor; Close tears it down.
func New(exec osabridge.Executor, opts ...Option) *Bridge {
	b := &Bridge{
		exec:     exec,
		registry: NewRegistry(),
		dispatch: NewDispatch(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = Logger()
	}
	return b
}

// Registry exposes the reference-count table for diagnostics and tests.
func (b *Bridge) Registry() *Registry {
	return b.registry
}

// Dispatch exposes the class dispatch table so callers can register
// specializations on this bridge alone.
func (b *Bridge) Dispatch() *Dispatch {
	return b.dispatch
}

// Application resolves the root object of a named external application
// and wraps it in the proxy registered for its class tag. The caller
// owns the returned proxy and must Close it.
func (b *Bridge) Application(name string) (Object, error) {
	if name == "" {
		return nil, errors.Construction("application name is empty")
	}

	ref, err := b.exec.GetApplication(name)
	if err != nil {
		return nil, errors.ExecutionFailed("get-application", err)
	}

	b.log.Debug("resolved application",
		zap.String("name", name),
		zap.Int64("handle", int64(ref.Handle)),
		zap.String("class", ref.Class))

	return b.wrap(ref), nil
}

// Close shuts down the executor. Proxies still bound after Close fail
// on their next remote operation.
func (b *Bridge) Close() error {
	return b.exec.Close()
}

// retain records one more alias for the handle.
func (b *Bridge) retain(h osabridge.Handle) {
	b.mu.Lock()
	b.registry.Increment(h)
	count := b.registry.Count(h)
	b.mu.Unlock()

	b.log.Debug("retain", zap.Int64("handle", int64(h)), zap.Int("count", count))
}

// release drops one alias for the handle and sends the release message
// to the runtime on the transition to zero. Exactly one release is
// sent per handle lifetime; the registry entry is already gone when
// the message goes out.
func (b *Bridge) release(h osabridge.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	zero, err := b.registry.Decrement(h)
	if err != nil {
		b.log.Error("reference count invariant violated", zap.Int64("handle", int64(h)), zap.Error(err))
		return err
	}

	b.log.Debug("release", zap.Int64("handle", int64(h)), zap.Bool("last", zero))

	if !zero {
		return nil
	}
	if err := b.exec.ReleaseObject(h); err != nil {
		return errors.ExecutionFailed("release-object", err)
	}
	return nil
}

// wrap turns a remote object reference into the locally dispatched
// proxy specialization, registering the new reference.
func (b *Bridge) wrap(ref osabridge.ObjectRef) Object {
	ctor := b.dispatch.Resolve(ref.Class)
	return ctor(b, ref)
}

// wrapResult converts an executor result into what proxy operations
// hand back: a plain value, or a newly registered proxy when the
// runtime answered with an object.
func (b *Bridge) wrapResult(res osabridge.Result) any {
	if res.IsObject {
		return b.wrap(res.Ref)
	}
	return res.Value
}

// encodeValue lowers proxy-valued arguments to plain object references
// so the executor never sees local proxy types. Unbound proxies cannot
// be passed to the runtime.
func encodeValue(v any) (any, error) {
	obj, ok := v.(Object)
	if !ok {
		return v, nil
	}
	if !obj.Bound() {
		return nil, errors.Unbound("encode-argument")
	}
	return osabridge.ObjectRef{Handle: obj.Handle(), Class: obj.Class()}, nil
}

func encodeArgs(args []any) ([]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make([]any, len(args))
	for i, a := range args {
		v, err := encodeValue(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func encodeOpts(opts map[string]any) (map[string]any, error) {
	if len(opts) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(opts))
	for k, v := range opts {
		ev, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		out[k] = ev
	}
	return out, nil
}
