package matching

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"limitbook/domain"
)

// waitFor polls cond at a short interval until it is true or the deadline
// passes, returning whether cond became true. The dispatch goroutine
// processes asynchronously, so assertions against engine state must poll
// rather than check once.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

func TestDispatcherSubmitReachesEngine(t *testing.T) {
	cfg := Config{MaxPrice: 1000, MaxTrades: 100, StringLen: 5, SymbolLen: 3}
	e := NewEngine(cfg, nil)
	d := NewDispatcher(e, 16)
	d.Start()
	defer d.Stop()

	d.Submit(order(domain.Buy, 100, 5, "AAAAA"))

	require.True(t, waitFor(t, time.Second, func() bool { return e.BestBid() == 100 }))
}

func TestDispatcherCancelOrderReachesEngine(t *testing.T) {
	cfg := Config{MaxPrice: 1000, MaxTrades: 100, StringLen: 5, SymbolLen: 3}
	e := NewEngine(cfg, nil)
	d := NewDispatcher(e, 16)
	d.Start()
	defer d.Stop()

	d.Submit(order(domain.Sell, 200, 5, "AAAAA"))
	require.True(t, waitFor(t, time.Second, func() bool { return e.BestAsk() == 200 }))

	d.CancelOrder(1)
	require.True(t, waitFor(t, time.Second, func() bool {
		bids, asks := e.Snapshot()
		return len(bids) == 0 && len(asks) == 0
	}))
}

func TestDispatcherSurvivesConcurrentSubmitFromManyGoroutines(t *testing.T) {
	cfg := Config{MaxPrice: 1000, MaxTrades: 10_000, StringLen: 5, SymbolLen: 3}
	var tradeLegs int64
	var mu sync.Mutex
	e := NewEngine(cfg, domain.ExecutionSinkFunc(func(domain.ExecutionReport) {
		mu.Lock()
		tradeLegs++
		mu.Unlock()
	}))
	d := NewDispatcher(e, 1024)
	d.Start()
	defer d.Stop()

	const goroutines = 16
	const perGoroutine = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				side := domain.Buy
				if (g+i)%2 == 1 {
					side = domain.Sell
				}
				d.Submit(order(side, int64(500), 1, "AAAAA"))
			}
		}(g)
	}
	wg.Wait()

	require.True(t, waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return tradeLegs > 0
	}))
}

func TestDispatcherRecoversFromContractViolationAndKeepsRunning(t *testing.T) {
	cfg := Config{MaxPrice: 1000, MaxTrades: 100, StringLen: 5, SymbolLen: 3}
	e := NewEngine(cfg, nil)
	d := NewDispatcher(e, 16)
	d.Start()
	defer d.Stop()

	// Out-of-range price: Engine.Limit panics with ContractViolation inside
	// the dispatch goroutine. process recovers it; the goroutine must keep
	// serving subsequent, well-formed submissions.
	d.Submit(order(domain.Buy, 0, 5, "AAAAA"))
	d.Submit(order(domain.Buy, 100, 5, "BBBBB"))

	require.True(t, waitFor(t, time.Second, func() bool { return e.BestBid() == 100 }))
}

func TestDispatcherStopDrainsAndReturns(t *testing.T) {
	cfg := Config{MaxPrice: 1000, MaxTrades: 100, StringLen: 5, SymbolLen: 3}
	e := NewEngine(cfg, nil)
	d := NewDispatcher(e, 16)
	d.Start()

	d.Submit(order(domain.Buy, 100, 5, "AAAAA"))

	assert.NoError(t, d.Stop())
}
