package bridge

import (
	osabridge "github.com/osakit/osabridge"
	"github.com/osakit/osabridge/errors"
)

// Sequence is the proxy specialization for remote collections. It adds
// length and positional access over the base proxy plus a remote
// filter operation. It is registered for the "array" class tag.
type Sequence struct {
	Proxy
}

// NewSequence creates a bound sequence proxy and registers its reference.
func NewSequence(b *Bridge, ref osabridge.ObjectRef) *Sequence {
	return &Sequence{Proxy: newProxy(b, ref)}
}

// Len reads the remote collection's length property.
func (s *Sequence) Len() (int, error) {
	v, err := s.Get("length")
	if err != nil {
		return 0, err
	}

	n, ok := asInt(v)
	if !ok {
		return 0, errors.New(errors.PhaseExecute, errors.KindDecode).
			Op("length").
			Handle(int64(s.Handle())).
			Detail("length is not an integer: %T", v).
			Build()
	}
	return n, nil
}

// At returns the element at the given position via the remote
// positional-access operation. The index is pre-checked against Len so
// out-of-range access fails with a local out-of-bounds error instead
// of an opaque remote fault.
func (s *Sequence) At(index int) (any, error) {
	length, err := s.Len()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= length {
		return nil, errors.OutOfBounds("at", index, length)
	}
	return s.Call("at", []any{index}, nil)
}

// Filter invokes the remote filtering operation with a predicate
// expression and returns a new bound sequence over the matching
// subset. The receiver is never mutated.
func (s *Sequence) Filter(predicate string) (*Sequence, error) {
	res, err := s.Call("whose", []any{predicate}, nil)
	if err != nil {
		return nil, err
	}

	seq, ok := res.(*Sequence)
	if !ok {
		if obj, isObj := res.(Object); isObj {
			obj.Close()
		}
		return nil, errors.New(errors.PhaseExecute, errors.KindDecode).
			Op("whose").
			Handle(int64(s.Handle())).
			Detail("filter result is not a collection: %T", res).
			Build()
	}
	return seq, nil
}

// Each iterates the remote collection in order, issuing one positional
// read per element. The length is computed once at the start, so the
// iteration is finite and restartable but not safe against concurrent
// remote mutation of the collection. Iteration stops early when fn
// returns false. Object-valued elements are owned by fn.
func (s *Sequence) Each(fn func(index int, value any) bool) error {
	length, err := s.Len()
	if err != nil {
		return err
	}
	for i := 0; i < length; i++ {
		v, err := s.Call("at", []any{i}, nil)
		if err != nil {
			return err
		}
		if !fn(i, v) {
			return nil
		}
	}
	return nil
}

// asInt widens the numeric shapes executors decode into.
func asInt(v any) (int, bool) {
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
		return 0, false
	default:
		return 0, false
	}
}
