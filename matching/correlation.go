package matching

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// correlationIDs mints short, allocation-light ids used only for log
// correlation at the Dispatcher boundary -- they never reach the core and
// have nothing to do with domain.OrderID. The shape (prefix + atomic
// counter, built through a pooled strings.Builder) is carried over from
// this pack's trade-id generator; here it is repurposed because the spec
// has no trade-id concept of its own -- a trade is reported as two
// ExecutionReport legs, not an entity with an id.
type correlationIDs struct {
	prefix      string
	counter     uint64
	builderPool sync.Pool
}

func newCorrelationIDs(prefix string) *correlationIDs {
	g := &correlationIDs{prefix: prefix}
	g.builderPool.New = func() any {
		b := &strings.Builder{}
		b.Grow(24)
		return b
	}
	return g
}

// next returns the next id, e.g. "submit-1", "submit-2", ...
func (g *correlationIDs) next() string {
	count := atomic.AddUint64(&g.counter, 1)

	b := g.builderPool.Get().(*strings.Builder)
	defer func() {
		b.Reset()
		g.builderPool.Put(b)
	}()

	b.WriteString(g.prefix)
	b.WriteString(strconv.FormatUint(count, 10))
	return b.String()
}
