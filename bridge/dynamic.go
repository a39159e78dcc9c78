package bridge

import (
	osabridge "github.com/osakit/osabridge"
)

// Dynamic is the generic proxy for remote objects whose class tag has
// no registered specialization. Its whole surface is the named
// property capability inherited from Proxy: Get reads any remote
// property by name, Set writes one.
type Dynamic struct {
	Proxy
}

// NewDynamic creates a bound dynamic proxy and registers its reference.
func NewDynamic(b *Bridge, ref osabridge.ObjectRef) *Dynamic {
	return &Dynamic{Proxy: newProxy(b, ref)}
}
