package app

import (
	osabridge "github.com/osakit/osabridge"
	"github.com/osakit/osabridge/bridge"
	"github.com/osakit/osabridge/errors"
)

// Application is the proxy for the root object of a named external
// application. It is the entry point into an application's object
// graph: everything else is reached through its properties and
// methods, via the dynamic accessor it inherits.
type Application struct {
	bridge.Dynamic
}

func init() {
	bridge.RegisterDefault("application", func(b *bridge.Bridge, ref osabridge.ObjectRef) bridge.Object {
		return &Application{Dynamic: *bridge.NewDynamic(b, ref)}
	})
}

// Connect resolves the named application through the bridge and binds
// a proxy to its root object. The caller owns the proxy and must Close
// it.
func Connect(b *bridge.Bridge, name string) (*Application, error) {
	if b == nil {
		return nil, errors.Construction("application requires a bridge")
	}
	if name == "" {
		return nil, errors.Construction("application requires a name or a complete object reference")
	}

	obj, err := b.Application(name)
	if err != nil {
		return nil, err
	}

	a, ok := obj.(*Application)
	if !ok {
		// Some other package re-registered the "application" tag.
		// Alias the resolved object into an Application and drop the
		// original reference.
		a = &Application{Dynamic: *bridge.NewDynamic(b, osabridge.ObjectRef{
			Handle: obj.Handle(),
			Class:  obj.Class(),
		})}
		obj.Close()
	}
	return a, nil
}

// FromRef binds an Application proxy to an already-resolved root
// object reference. Both the bridge and a complete reference are
// required.
func FromRef(b *bridge.Bridge, ref osabridge.ObjectRef) (*Application, error) {
	if b == nil || ref.Class == "" {
		return nil, errors.Construction("application requires a name or a complete object reference")
	}
	return &Application{Dynamic: *bridge.NewDynamic(b, ref)}, nil
}

// ID returns the application's unique identifier.
func (a *Application) ID() (string, error) {
	return a.callString("id")
}

// Name returns the application's display name.
func (a *Application) Name() (string, error) {
	// The name is exposed as a zero-argument method by the runtime,
	// not as a plain property.
	return a.callString("name")
}

// Frontmost reports whether the application is currently in the
// foreground.
func (a *Application) Frontmost() (bool, error) {
	v, err := a.Call("frontmost", nil, nil)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.New(errors.PhaseExecute, errors.KindDecode).
			Op("frontmost").
			Handle(int64(a.Handle())).
			Detail("expected bool, got %T", v).
			Build()
	}
	return b, nil
}

// Activate brings the application to the foreground. The remote
// command returns nothing meaningful; only the error matters.
func (a *Application) Activate() error {
	_, err := a.Call("activate", nil, nil)
	return err
}

func (a *Application) callString(name string) (string, error) {
	v, err := a.Call(name, nil, nil)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.New(errors.PhaseExecute, errors.KindDecode).
			Op(name).
			Handle(int64(a.Handle())).
			Detail("expected string, got %T", v).
			Build()
	}
	return s, nil
}
