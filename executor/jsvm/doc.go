// Package jsvm provides an in-process Executor backed by a goja
// JavaScript interpreter.
//
// It stands in for the external helper process: script objects stay
// alive inside the interpreter, the host sees only integer handles,
// and the full message surface (application lookup, property access,
// method and self invocation, release) behaves like the production
// runtime. This makes it both an embeddable executor and the test
// double for the whole proxy stack.
//
//	vm := jsvm.New()
//	vm.DefineApplication("Notes", `(function () {
//	    return {
//	        name: function () { return "Notes"; },
//	        documents: ["inbox", "archive"],
//	    };
//	})()`)
//
//	br := bridge.New(vm)
//
// Collections get JXA-like semantics: a "length" property, positional
// access via the "at" method, and filtering via "whose" with a
// predicate expression evaluated against each element bound as "it".
package jsvm
