// Package osabridge provides Go bindings for manipulating objects that
// live inside a separate, long-running scripting runtime.
//
// The runtime (typically a JavaScript-for-Automation helper on macOS,
// but anything speaking the same message protocol) holds live object
// instances on the host's behalf and identifies each by an integer
// handle. This library gives the host typed, reference-counted proxies
// over those handles so callers never touch the runtime's native
// syntax.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	osabridge/            Root package with Handle, Result and the Executor interface
//	├── bridge/           Bridge, reference-count registry, class dispatch, proxies
//	├── app/              Application proxy, the named root entry point
//	├── executor/jsvm/    In-process JavaScript executor backed by goja
//	├── executor/subproc/ Subprocess executor speaking JSON over stdio
//	├── config/           Environment and YAML configuration
//	└── errors/           Structured error types for debugging
//
// # Quick Start
//
// Connect to a named application and read a property:
//
//	exec, err := subproc.Start(subproc.Options{Command: "osahelper"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	br := bridge.New(exec)
//	defer br.Close()
//
//	finder, err := app.Connect(br, "Finder")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer finder.Close()
//
//	name, err := finder.Name()
//	fmt.Println(name, err)
//
// # Reference Counting
//
// Every proxy bound to a handle counts as one reference. Cloning a
// proxy registers an independent reference to the same handle; closing
// a proxy drops one. When the last reference to a handle is dropped
// the bridge sends exactly one release message to the runtime and
// forgets the handle. Disposal is always explicit: call Close (or use
// defer). Nothing in this library relies on finalizers.
//
// # Thread Safety
//
// Bridge is safe for concurrent use; registry mutation and release
// dispatch are serialized internally. Individual proxies are values
// bound to shared state and are safe to use from multiple goroutines
// as long as Rebind and Close are not raced against other operations
// on the same proxy.
package osabridge
