package bridge

import (
	"sync"

	osabridge "github.com/osakit/osabridge"
)

// Constructor builds the proxy specialization for a remote object
// reference. The constructor is responsible for registering the new
// reference (all shipped constructors do so through newProxy).
type Constructor func(b *Bridge, ref osabridge.ObjectRef) Object

// Dispatch maps remote class tags to proxy constructors. Class tags
// carry no behavior themselves; they only select which local
// specialization wraps a result. Unregistered tags resolve to the
// generic Dynamic proxy.
type Dispatch struct {
	ctors map[string]Constructor
	mu    sync.RWMutex
}

// NewDispatch creates a dispatch table seeded with the package-level
// default registrations.
func NewDispatch() *Dispatch {
	d := &Dispatch{
		ctors: make(map[string]Constructor),
	}

	defaultMu.RLock()
	for tag, ctor := range defaultCtors {
		d.ctors[tag] = ctor
	}
	defaultMu.RUnlock()

	return d
}

// Register associates a class tag with a constructor. The last
// registration for a tag wins.
func (d *Dispatch) Register(tag string, ctor Constructor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ctors[tag] = ctor
}

// Resolve returns the constructor for a class tag, falling back to
// the Dynamic proxy constructor for unregistered tags.
func (d *Dispatch) Resolve(tag string) Constructor {
	d.mu.RLock()
	ctor, ok := d.ctors[tag]
	d.mu.RUnlock()

	if !ok {
		return dynamicConstructor
	}
	return ctor
}

var (
	defaultCtors = make(map[string]Constructor)
	defaultMu    sync.RWMutex
)

// RegisterDefault adds a class tag registration to the default map
// copied into every new Bridge. Specialization packages call this
// from init; registrations after a Bridge is created do not affect it.
func RegisterDefault(tag string, ctor Constructor) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultCtors[tag] = ctor
}

func dynamicConstructor(b *Bridge, ref osabridge.ObjectRef) Object {
	return NewDynamic(b, ref)
}

func init() {
	RegisterDefault("array", func(b *Bridge, ref osabridge.ObjectRef) Object {
		return NewSequence(b, ref)
	})
}
