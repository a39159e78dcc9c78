package subproc

import (
	osabridge "github.com/osakit/osabridge"
)

// Wire function names understood by the helper process.
const (
	fnGetApplication = "getApplication"
	fnCallMethod     = "callMethod"
	fnGetProperty    = "getProperty"
	fnSetProperties  = "setProperties"
	fnCallSelf       = "callSelf"
	fnReleaseObject  = "releaseObjectWithId"
)

// request is one frame sent to the helper: a correlation id, the
// function to run, and its positional arguments.
type request struct {
	ID   string `json:"id"`
	Fn   string `json:"fn"`
	Args []any  `json:"args,omitempty"`
}

// wireRef is the wire form of a remote object reference.
type wireRef struct {
	ObjID     int64  `json:"objId"`
	ClassName string `json:"className"`
}

// response is one frame read back from the helper. Exactly one of
// Error, Object, or Value applies: a fault message, an object kept
// alive runtime-side, or a plain decoded value.
type response struct {
	ID     string   `json:"id"`
	Error  string   `json:"error,omitempty"`
	Object *wireRef `json:"object,omitempty"`
	Value  any      `json:"value,omitempty"`
}

// lowerValue converts host-side argument values to their wire form.
// Object references become wireRefs so the helper can resolve them
// against its own table.
func lowerValue(v any) any {
	switch ref := v.(type) {
	case osabridge.ObjectRef:
		return wireRef{ObjID: int64(ref.Handle), ClassName: ref.Class}
	case *osabridge.ObjectRef:
		return wireRef{ObjID: int64(ref.Handle), ClassName: ref.Class}
	default:
		return v
	}
}

func lowerArgs(args []any) []any {
	if len(args) == 0 {
		return nil
	}
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = lowerValue(a)
	}
	return out
}

func lowerOpts(opts map[string]any) map[string]any {
	if len(opts) == 0 {
		return nil
	}
	out := make(map[string]any, len(opts))
	for k, v := range opts {
		out[k] = lowerValue(v)
	}
	return out
}

// liftResult converts a helper response into an executor result.
func liftResult(resp *response) osabridge.Result {
	if resp.Object != nil {
		return osabridge.Object(osabridge.ObjectRef{
			Handle: osabridge.Handle(resp.Object.ObjID),
			Class:  resp.Object.ClassName,
		})
	}
	return osabridge.Primitive(resp.Value)
}
