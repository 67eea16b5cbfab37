// Package matching implements the in-memory matching core of a continuous,
// price-time-priority limit order book for a single instrument: an Order
// Table (book.Table), a Price Level (book.PriceLevel) per integer price
// tick, and the Engine that walks opposing liquidity against an incoming
// order.
//
// Engine is single-threaded and cooperative: Limit and Cancel are not
// reentrant and not safe for concurrent use, by design (see Dispatcher for
// a concurrency-safe front door). All engine operations run to completion
// with no suspension points, and the execution sink is invoked
// synchronously, in the exact trade order produced.
package matching

import (
	"limitbook/book"
	"limitbook/domain"
)

// Engine is the matching core for one symbol. It owns the full array of
// price levels, the order table arena, and the best-bid/best-ask cursors.
// The zero value is not usable; construct with NewEngine.
type Engine struct {
	cfg     Config
	table   *book.Table
	levels  []book.PriceLevel // indexed by price; levels[0] is never used
	bestBid int64             // highest resting buy price, 0 = no bids
	bestAsk int64             // lowest resting sell price; cfg.MaxPrice before any ask rests, cfg.MaxPrice+1 once matching exhausts the asks
	nextID  domain.OrderID
	sink    domain.ExecutionSink
}

// NewEngine constructs an Engine bound to sink for its entire lifetime.
// Reports are delivered to sink synchronously, in trade order, from within
// Limit. A nil sink discards reports.
func NewEngine(cfg Config, sink domain.ExecutionSink) *Engine {
	cfg = cfg.withDefaults()
	if sink == nil {
		sink = domain.ExecutionSinkFunc(func(domain.ExecutionReport) {})
	}
	e := &Engine{
		cfg:    cfg,
		table:  book.NewTable(cfg.MaxTrades),
		levels: make([]book.PriceLevel, cfg.MaxPrice+1),
		sink:   sink,
	}
	e.Reset()
	return e
}

// Reset reinitializes the engine to a fresh, empty state -- the `init`
// operation. It discards every resting order and allocated id but reuses
// the already-allocated arrays, so repeated Reset calls allocate nothing.
func (e *Engine) Reset() {
	e.table.Reset()
	for i := range e.levels {
		e.levels[i] = book.PriceLevel{}
	}
	e.bestBid = 0
	e.bestAsk = e.cfg.MaxPrice
	e.nextID = 0
}

// Destroy tears down the engine -- the `destroy` operation. The three
// backing structures are owned by this Engine value, so there is nothing
// to reclaim beyond letting the value become garbage; Destroy exists to
// make the lifecycle explicit at call sites.
func (e *Engine) Destroy() {}

// BestBid returns the highest price at which a resting buy exists, or 0 if
// none rests. Cancel does not move this cursor, so after cancellations it
// can name a price whose orders have all been cancelled.
func (e *Engine) BestBid() int64 { return e.bestBid }

// BestAsk returns the lowest price at which a resting sell exists, or a
// value >= cfg.MaxPrice if none rests. Cancel does not move this cursor, so
// after cancellations it can name a price whose orders have all been
// cancelled.
func (e *Engine) BestAsk() int64 { return e.bestAsk }

// Limit accepts a well-formed order, walks it against the opposing side
// until it is fully filled or the crossing region is exhausted, rests any
// residual quantity at its own price level, and returns the freshly
// allocated id. It panics with ContractViolation if order violates a
// documented precondition.
func (e *Engine) Limit(order domain.Order) domain.OrderID {
	e.validate(order)
	e.nextID++
	id := e.nextID

	switch order.Side {
	case domain.Buy:
		e.walk(&order, &e.bestAsk, +1, e.cfg.MaxPrice+1, crossesAsk, true)
	case domain.Sell:
		e.walk(&order, &e.bestBid, -1, 0, crossesBid, false)
	}

	if order.Size > 0 {
		e.rest(id, order)
	}
	return id
}

func crossesAsk(incoming, resting int64) bool { return incoming >= resting }
func crossesBid(incoming, resting int64) bool { return incoming <= resting }

// walk consumes resting liquidity on the opposing side into order, starting
// at *cursor and advancing by step each time a level empties, until either
// order is fully filled or *cursor reaches pastEnd (the opposing side is
// exhausted). crosses reports whether order.Price is still marketable
// against the current *cursor. buyerIsAggressor selects which leg of each
// trade report names the incoming order.
//
// This is the single parameterized buy/sell walk spec.md's design notes ask
// for in place of engine.c's two near-duplicated branches: buyerIsAggressor,
// step, and crosses carry the only asymmetry between the two sides.
func (e *Engine) walk(order *domain.Order, cursor *int64, step, pastEnd int64, crosses func(incoming, resting int64) bool, buyerIsAggressor bool) {
	for order.Size > 0 && crosses(order.Price, *cursor) {
		level := &e.levels[*cursor]

		for {
			head := level.PeekHead()
			if head == 0 {
				break // level exhausted; fall through to advance the cursor
			}

			rec := e.table.Get(head)
			if rec.RemainingSize == 0 {
				// Tombstone: cancelled or already filled. Skip silently,
				// no execution report, and drop it from the queue.
				level.PopHead(e.table)
				continue
			}

			restingPrice := *cursor

			if rec.RemainingSize < order.Size {
				e.report(order, rec, buyerIsAggressor, restingPrice, rec.RemainingSize)
				order.Size -= rec.RemainingSize
				rec.RemainingSize = 0
				level.PopHead(e.table)
				continue
			}

			// rec.RemainingSize >= order.Size: the incoming order is fully
			// filled by (possibly only part of) this resting order.
			tradeSize := order.Size
			e.report(order, rec, buyerIsAggressor, restingPrice, tradeSize)
			if rec.RemainingSize == tradeSize {
				rec.RemainingSize = 0
				level.PopHead(e.table)
			} else {
				rec.RemainingSize -= tradeSize
			}
			order.Size = 0
			if !level.Empty() {
				return
			}
			break // this fill emptied the level; advance the cursor before returning
		}

		*cursor += step
		for *cursor != pastEnd && e.levels[*cursor].Empty() {
			*cursor += step
		}
	}
}

// report emits the two execution legs for a single fill at price/size: the
// buyer's report first, then the seller's, per spec.md's emission order.
func (e *Engine) report(order *domain.Order, rec *book.Record, buyerIsAggressor bool, price, size int64) {
	buyer, seller := rec.Trader, order.Trader
	if buyerIsAggressor {
		buyer, seller = order.Trader, rec.Trader
	}
	e.sink.Execution(domain.ExecutionReport{Symbol: order.Symbol, Trader: buyer, Price: price, Size: size, Side: domain.Buy})
	e.sink.Execution(domain.ExecutionReport{Symbol: order.Symbol, Trader: seller, Price: price, Size: size, Side: domain.Sell})
}

// rest enqueues the residual quantity of a just-accepted order at its own
// price level and tightens the relevant best-price cursor if the new order
// is more aggressive than the existing best on its side. Both sides tighten
// on resting, per spec.md's resolution of the source's one-sided cursor
// update.
func (e *Engine) rest(id domain.OrderID, order domain.Order) {
	e.table.Set(id, order.Size, order.Trader)
	e.levels[order.Price].Enqueue(e.table, id)

	switch order.Side {
	case domain.Buy:
		if order.Price > e.bestBid {
			e.bestBid = order.Price
		}
	case domain.Sell:
		if order.Price < e.bestAsk {
			e.bestAsk = order.Price
		}
	}
}

// Cancel marks orderID's resting record as zero-sized. It is idempotent and
// a silent no-op for an id that is out of the table's range, was never
// allocated, or already has zero remaining size -- cancel never unlinks the
// record from its price level; the matcher drops it lazily when it reaches
// the head.
func (e *Engine) Cancel(orderID domain.OrderID) {
	if orderID == 0 || int(orderID) > e.table.Cap() {
		return
	}
	e.table.Cancel(orderID)
}

func (e *Engine) validate(order domain.Order) {
	if order.Price < 1 || order.Price > e.cfg.MaxPrice {
		panic(ContractViolation{Reason: "price out of range", Value: order.Price})
	}
	if order.Size < 1 {
		panic(ContractViolation{Reason: "size must be positive", Value: order.Size})
	}
	if order.Side != domain.Buy && order.Side != domain.Sell {
		panic(ContractViolation{Reason: "invalid side", Value: order.Side})
	}
	if len(order.Trader) == 0 || len(order.Trader) > e.cfg.StringLen {
		panic(ContractViolation{Reason: "trader identifier width out of bounds", Value: order.Trader})
	}
	if len(order.Symbol) == 0 || len(order.Symbol) > e.cfg.SymbolLen {
		panic(ContractViolation{Reason: "symbol identifier width out of bounds", Value: order.Symbol})
	}
	if int(e.nextID)+1 > e.cfg.MaxTrades {
		panic(ContractViolation{Reason: "order id space exhausted", Value: e.cfg.MaxTrades})
	}
}
