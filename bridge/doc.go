// Package bridge implements the remote-object proxy layer: the Bridge
// channel to the external scripting runtime, the reference-count
// registry that tracks local aliases of remote handles, the class
// dispatch table selecting proxy specializations, and the proxies
// themselves.
//
// # Reference Counting
//
// Every proxy bound to a handle is one registry reference. The count
// for a handle equals the number of currently live aliases:
//
//	p := bridge.NewProxy(br, ref)  // count(ref.Handle) == 1
//	q := p.Clone()                 // count == 2
//	p.Close()                      // count == 1
//	q.Close()                      // count == 0, one release sent
//
// The decrement that reaches zero removes the entry and sends exactly
// one release message to the runtime. Decrementing an untracked handle
// is an invariant violation, surfaced as an error rather than
// absorbed, since it always indicates a lifecycle bug.
//
// # Dispatch
//
// Remote results that denote objects are wrapped by the constructor
// registered for their class tag. The "array" tag maps to Sequence;
// everything unregistered falls back to Dynamic. Specialization
// packages register their tags with RegisterDefault at init time, and
// per-bridge registrations can override with Dispatch().Register.
//
// # Disposal
//
// Proxies are released explicitly via Close (idempotent) or by
// Rebind, never by finalizers, so remote-handle release stays
// deterministic and testable.
package bridge
