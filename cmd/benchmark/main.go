package main

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"limitbook/domain"
	"limitbook/matching"
)

func main() {
	fmt.Println("=== limitbook throughput benchmark ===")

	cfg := matching.Config{MaxPrice: 2000, MaxTrades: 20_000_000, StringLen: 5, SymbolLen: 6}

	var tradeCount atomic.Int64
	engine := matching.NewEngine(cfg, domain.ExecutionSinkFunc(func(domain.ExecutionReport) {
		tradeCount.Add(1)
	}))

	dispatcher := matching.NewDispatcher(engine, 1<<16)
	dispatcher.Start()
	defer dispatcher.Stop()

	testDuration := 5 * time.Second
	numCPU := runtime.NumCPU()
	numWorkers := numCPU - 2 // one core for the dispatcher goroutine, one for the runtime/GC
	if numWorkers < 1 {
		numWorkers = 1
	}

	var orderCount atomic.Int64

	fmt.Printf("CPU cores:   %d\n", numCPU)
	fmt.Printf("producers:   %d (NumCPU - 2)\n", numWorkers)
	fmt.Printf("duration:    %v\n\n", testDuration)

	startTime := time.Now()
	stopChan := make(chan struct{})

	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			trader := fmt.Sprintf("W%04d", workerID)
			orderID := 0
			for {
				select {
				case <-stopChan:
					return
				default:
					side := domain.Buy
					if orderID%2 == 1 {
						side = domain.Sell
					}
					dispatcher.Submit(domain.Order{
						Side:   side,
						Price:  1000 + int64(orderID%200), // overlapping band so orders actually cross
						Size:   1,
						Trader: trader,
						Symbol: "SYM",
					})
					orderCount.Add(1)
					orderID++
				}
			}
		}(w)
	}

	ticker := time.NewTicker(time.Second)
	go func() {
		for range ticker.C {
			elapsed := time.Since(startTime)
			orders, trades := orderCount.Load(), tradeCount.Load()
			fmt.Printf("[%.0fs] orders: %d (%.0f/s) | trades: %d (%.0f/s)\n",
				elapsed.Seconds(), orders, float64(orders)/elapsed.Seconds(), trades, float64(trades)/elapsed.Seconds())
		}
	}()

	time.Sleep(testDuration)
	close(stopChan)
	ticker.Stop()
	time.Sleep(500 * time.Millisecond) // drain the dispatcher's ring buffer

	elapsed := time.Since(startTime)
	totalOrders := orderCount.Load()
	totalTrades := tradeCount.Load()
	qps := float64(totalOrders) / elapsed.Seconds()

	fmt.Println("\n=== results ===")
	fmt.Printf("duration:          %v\n", elapsed)
	fmt.Printf("orders submitted:  %d\n", totalOrders)
	fmt.Printf("execution legs:    %d\n", totalTrades)
	fmt.Printf("order throughput:  %.0f orders/sec\n", qps)
	fmt.Printf("execution rate:    %.0f legs/sec\n", float64(totalTrades)/elapsed.Seconds())

	fmt.Println("\n=== depth snapshot ===")
	fmt.Printf("best bid: %d, best ask: %d\n", engine.BestBid(), engine.BestAsk())
	bids, asks := engine.Snapshot()
	fmt.Printf("bid levels resting: %d\n", len(bids))
	fmt.Printf("ask levels resting: %d\n", len(asks))
}
