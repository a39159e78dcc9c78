// Package subproc provides an Executor that drives a long-lived helper
// process over newline-delimited JSON frames on stdin/stdout.
//
// The helper holds the live script objects; the host only ever sees
// integer handles. Each request frame carries a correlation id, a wire
// function name, and positional arguments:
//
//	{"id":"…","fn":"getProperty","args":[12,"name"]}
//
// and is answered by exactly one response frame carrying the same id
// and either a plain value, an object reference, or a fault:
//
//	{"id":"…","value":"Inbox"}
//	{"id":"…","object":{"objId":17,"className":"record"}}
//	{"id":"…","error":"no such property"}
//
// Object-valued arguments are lowered to {"objId","className"} so the
// helper resolves them against its own table. The exchange is strictly
// synchronous with no timeout; defining retry or deadline policy is
// the caller's concern.
package subproc
