package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"limitbook/domain"
)

func TestSnapshotOrdersBidsDescendingAsksAscending(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Limit(order(domain.Buy, 90, 1, "AAAAA"))
	e.Limit(order(domain.Buy, 95, 1, "BBBBB"))
	e.Limit(order(domain.Buy, 80, 1, "CCCCC"))
	e.Limit(order(domain.Sell, 110, 1, "DDDDD"))
	e.Limit(order(domain.Sell, 105, 1, "EEEEE"))
	e.Limit(order(domain.Sell, 120, 1, "FFFFF"))

	bids, asks := e.Snapshot()

	require.Len(t, bids, 3)
	assert.Equal(t, []int64{95, 90, 80}, []int64{bids[0].Price, bids[1].Price, bids[2].Price})

	require.Len(t, asks, 3)
	assert.Equal(t, []int64{105, 110, 120}, []int64{asks[0].Price, asks[1].Price, asks[2].Price})
}

func TestSnapshotAggregatesMultipleOrdersAtSameLevel(t *testing.T) {
	e, _ := newTestEngine(t)
	e.Limit(order(domain.Buy, 100, 3, "AAAAA"))
	e.Limit(order(domain.Buy, 100, 4, "BBBBB"))

	bids, _ := e.Snapshot()

	require.Len(t, bids, 1)
	assert.Equal(t, DepthLevel{Price: 100, Size: 7, Orders: 2}, bids[0])
}

func TestSnapshotExcludesTombstonedOrders(t *testing.T) {
	e, _ := newTestEngine(t)
	id := e.Limit(order(domain.Buy, 100, 5, "AAAAA"))
	e.Limit(order(domain.Buy, 100, 5, "BBBBB"))

	e.Cancel(id)

	bids, _ := e.Snapshot()
	require.Len(t, bids, 1)
	assert.Equal(t, DepthLevel{Price: 100, Size: 5, Orders: 1}, bids[0])
}

func TestSnapshotExcludesLevelEmptiedEntirelyByCancel(t *testing.T) {
	e, _ := newTestEngine(t)
	id := e.Limit(order(domain.Sell, 100, 5, "AAAAA"))
	e.Cancel(id)

	_, asks := e.Snapshot()
	assert.Empty(t, asks)
}

func TestSnapshotOnEmptyBookIsEmptyBothSides(t *testing.T) {
	e, _ := newTestEngine(t)
	bids, asks := e.Snapshot()
	assert.Empty(t, bids)
	assert.Empty(t, asks)
}
