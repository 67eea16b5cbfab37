package book

import "limitbook/domain"

// Record is an engine-owned order record, addressed by its OrderID, which
// is also its index into Table's backing array. RemainingSize of 0 means
// cancelled or fully filled -- these two states are indistinguishable by
// design, and that is deliberate: the matcher treats both as "skip this
// head". Price and Side are never stored here; they are implicit in which
// PriceLevel the record is linked from.
type Record struct {
	RemainingSize int64
	Trader        string
	next          domain.OrderID // next record in this level's FIFO queue, 0 = tail
}

// Table is a dense, index-addressable arena of order records. Slot 0 is
// never used, so OrderID 0 remains an invalid sentinel. Records are
// stable-address for the life of the Table: a PriceLevel holds a direct
// index into this array and that index is never reassigned to a different
// order.
type Table struct {
	records []Record
}

// NewTable preallocates a table with capacity for maxTrades orders plus the
// unused sentinel slot.
func NewTable(maxTrades int) *Table {
	return &Table{records: make([]Record, maxTrades+1)}
}

// Cap returns the maximum number of orders the table can hold.
func (t *Table) Cap() int {
	return len(t.records) - 1
}

// Set stores a fresh record at id, overwriting whatever was there. Callers
// only ever do this for an id they just allocated.
func (t *Table) Set(id domain.OrderID, remainingSize int64, trader string) {
	t.records[id] = Record{RemainingSize: remainingSize, Trader: trader}
}

// Get returns the record at id. id must be in [1, Cap()].
func (t *Table) Get(id domain.OrderID) *Record {
	return &t.records[id]
}

// Cancel zeroes the remaining size at id. Safe to call on an id that was
// never allocated, already filled, or already cancelled -- all three look
// identical and all three are no-ops in effect.
func (t *Table) Cancel(id domain.OrderID) {
	t.records[id].RemainingSize = 0
}

// Reset clears every slot back to its zero value, without reallocating the
// backing array, so the same Table can serve another init/destroy cycle.
func (t *Table) Reset() {
	for i := range t.records {
		t.records[i] = Record{}
	}
}
