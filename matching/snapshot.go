package matching

import (
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"

	"limitbook/book"
)

// DepthLevel is one priced rung of resting depth: the live (non-tombstoned)
// size and order count at a single price.
type DepthLevel struct {
	Price  int64
	Size   int64
	Orders int
}

// Snapshot returns a price-ordered, point-in-time read of resting depth on
// both sides: bids from best (highest) to worst, asks from best (lowest) to
// worst. It is a reporting utility, not part of the matching core -- it
// walks every price level and must only ever be called from a consumer
// goroutine, never from inside Limit or Cancel.
func (e *Engine) Snapshot() (bids, asks []DepthLevel) {
	// Resting buys sit at or below bestBid and resting sells at or above
	// bestAsk, and bestBid < bestAsk, so the two ranges never overlap.
	return e.sideSnapshot(descending, 1, e.bestBid), e.sideSnapshot(ascending, e.bestAsk, e.cfg.MaxPrice)
}

func ascending(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func descending(a, b int64) int { return -ascending(a, b) }

func (e *Engine) sideSnapshot(cmp func(a, b int64) int, lo, hi int64) []DepthLevel {
	tree := rbt.NewWith[int64, DepthLevel](cmp)

	for price := lo; price <= hi; price++ {
		level := &e.levels[price]
		if level.Empty() {
			continue
		}

		var size int64
		var orders int
		level.ForEach(e.table, func(rec *book.Record) {
			if rec.RemainingSize > 0 {
				size += rec.RemainingSize
				orders++
			}
		})
		if orders == 0 {
			continue
		}
		tree.Put(price, DepthLevel{Price: price, Size: size, Orders: orders})
	}

	out := make([]DepthLevel, 0, tree.Size())
	it := tree.Iterator()
	for it.Next() {
		out = append(out, it.Value())
	}
	return out
}
