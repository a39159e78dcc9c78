package bridge

import (
	osabridge "github.com/osakit/osabridge"
	"github.com/osakit/osabridge/errors"
)

// Object is the common surface of every proxy specialization.
type Object interface {
	// Handle returns the remote handle the proxy is bound to.
	Handle() osabridge.Handle

	// Class returns the remote class tag, empty when unbound.
	Class() string

	// Bound reports whether the proxy currently holds a reference.
	Bound() bool

	// Close drops the proxy's reference. Idempotent.
	Close() error
}

// Accessor is the generic named-member capability every proxy
// exposes instead of intercepting arbitrary attribute access.
type Accessor interface {
	Get(name string) (any, error)
	Set(name string, value any) error
	Call(name string, args []any, opts map[string]any) (any, error)
}

// Proxy is the local stand-in for one remote object. It binds a
// {bridge, handle, class tag} triple and holds exactly one reference
// in the bridge's registry while bound. The zero value is an unbound
// proxy that participates in no reference counting.
//
// Proxies are not self-disposing: every bound proxy must be Closed
// (or Rebound away) for the remote object to be released.
type Proxy struct {
	br     *Bridge
	handle osabridge.Handle
	class  string
	bound  bool
}

// newProxy binds a fresh proxy to the reference and registers it.
func newProxy(b *Bridge, ref osabridge.ObjectRef) Proxy {
	b.retain(ref.Handle)
	return Proxy{
		br:     b,
		handle: ref.Handle,
		class:  ref.Class,
		bound:  true,
	}
}

// NewProxy creates a bound base proxy and registers its reference.
func NewProxy(b *Bridge, ref osabridge.ObjectRef) *Proxy {
	p := newProxy(b, ref)
	return &p
}

// Handle returns the remote handle, 0 when unbound.
func (p *Proxy) Handle() osabridge.Handle {
	if !p.bound {
		return 0
	}
	return p.handle
}

// Class returns the remote class tag, empty when unbound.
func (p *Proxy) Class() string {
	if !p.bound {
		return ""
	}
	return p.class
}

// Bound reports whether the proxy holds a live reference.
func (p *Proxy) Bound() bool {
	return p.bound
}

// Bridge returns the bridge the proxy dispatches through, nil when the
// proxy has never been bound.
func (p *Proxy) Bridge() *Bridge {
	return p.br
}

// Clone creates an independent alias of the proxy: a second live
// reference to the same handle. Cloning an unbound proxy yields
// another unbound proxy.
func (p *Proxy) Clone() *Proxy {
	if !p.bound {
		return &Proxy{br: p.br}
	}
	out := newProxy(p.br, osabridge.ObjectRef{Handle: p.handle, Class: p.class})
	return &out
}

// Rebind points the proxy at a different remote object. A bound proxy
// drops its old reference first (releasing the old handle if this was
// its last alias), then adopts and registers the new triple. Rebinding
// to the handle the proxy is already bound to only updates the class
// tag; the count is untouched and no release can fire.
func (p *Proxy) Rebind(b *Bridge, ref osabridge.ObjectRef) error {
	if b == nil {
		return errors.Construction("rebind requires a bridge")
	}

	if p.bound && p.br == b && p.handle == ref.Handle {
		p.class = ref.Class
		return nil
	}

	if p.bound {
		if err := p.br.release(p.handle); err != nil {
			return err
		}
		p.bound = false
	}

	p.br = b
	p.handle = ref.Handle
	p.class = ref.Class
	p.bound = true
	b.retain(ref.Handle)
	return nil
}

// Close drops the proxy's reference, sending the release message if it
// was the last alias. Closing an unbound proxy is a no-op.
func (p *Proxy) Close() error {
	if !p.bound {
		return nil
	}
	p.bound = false
	return p.br.release(p.handle)
}

// Get reads a named remote property. Object-valued results come back
// as newly registered proxies the caller owns.
func (p *Proxy) Get(name string) (any, error) {
	if !p.bound {
		return nil, errors.Unbound("get-property")
	}

	res, err := p.br.exec.GetProperty(p.handle, name)
	if err != nil {
		return nil, errors.ExecutionFailed("get-property", err)
	}
	return p.br.wrapResult(res), nil
}

// Set writes a named remote property. Proxy values are passed by
// handle.
func (p *Proxy) Set(name string, value any) error {
	return p.SetAll(map[string]any{name: value})
}

// SetAll writes several remote properties in one message.
func (p *Proxy) SetAll(props map[string]any) error {
	if !p.bound {
		return errors.Unbound("set-properties")
	}

	encoded, err := encodeOpts(props)
	if err != nil {
		return err
	}
	if err := p.br.exec.SetProperties(p.handle, encoded); err != nil {
		return errors.ExecutionFailed("set-properties", err)
	}
	return nil
}

// Call invokes a named remote method with positional and named
// arguments. The result contract matches Get.
func (p *Proxy) Call(name string, args []any, opts map[string]any) (any, error) {
	if !p.bound {
		return nil, errors.Unbound("call-method")
	}

	encArgs, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}
	encOpts, err := encodeOpts(opts)
	if err != nil {
		return nil, err
	}

	res, err := p.br.exec.CallMethod(p.handle, name, encArgs, encOpts)
	if err != nil {
		return nil, errors.ExecutionFailed("call-method", err)
	}
	return p.br.wrapResult(res), nil
}

// Invoke treats the remote object itself as a callable.
func (p *Proxy) Invoke(args []any, opts map[string]any) (any, error) {
	if !p.bound {
		return nil, errors.Unbound("call-self")
	}

	encArgs, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}
	encOpts, err := encodeOpts(opts)
	if err != nil {
		return nil, err
	}

	res, err := p.br.exec.CallSelf(p.handle, encArgs, encOpts)
	if err != nil {
		return nil, errors.ExecutionFailed("call-self", err)
	}
	return p.br.wrapResult(res), nil
}
