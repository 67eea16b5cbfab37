package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync/atomic"
	"time"

	"limitbook/domain"
	"limitbook/matching"
)

func main() {
	cpuFile, err := os.Create("cpu.prof")
	if err != nil {
		panic(err)
	}
	defer cpuFile.Close()

	pprof.StartCPUProfile(cpuFile)
	defer pprof.StopCPUProfile()

	fmt.Println("=== profiling ===")
	fmt.Println("writing cpu.prof")

	cfg := matching.Config{MaxPrice: 2000, MaxTrades: 40_000_000, StringLen: 5, SymbolLen: 6}

	var tradeCount atomic.Int64
	engine := matching.NewEngine(cfg, domain.ExecutionSinkFunc(func(domain.ExecutionReport) {
		tradeCount.Add(1)
	}))

	dispatcher := matching.NewDispatcher(engine, 1<<16)
	dispatcher.Start()
	defer dispatcher.Stop()

	duration := 10 * time.Second
	numCPU := runtime.NumCPU()
	numWorkers := numCPU - 2
	if numWorkers < 1 {
		numWorkers = 1
	}

	var orderCount atomic.Int64

	fmt.Printf("CPU cores: %d\n", numCPU)
	fmt.Printf("producers: %d\n", numWorkers)
	fmt.Printf("duration:  %v\n\n", duration)

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
						Price:  1000 + int64(orderID%200),
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

	time.Sleep(duration)
	close(stopChan)
	time.Sleep(500 * time.Millisecond)

	elapsed := time.Since(startTime)
	totalOrders := orderCount.Load()
	totalTrades := tradeCount.Load()

	fmt.Println("\n=== results ===")
	fmt.Printf("orders submitted: %d\n", totalOrders)
	fmt.Printf("execution legs:   %d\n", totalTrades)
	fmt.Printf("order QPS:        %.0f orders/sec\n", float64(totalOrders)/elapsed.Seconds())
	fmt.Printf("execution rate:   %.0f legs/sec\n", float64(totalTrades)/elapsed.Seconds())

	fmt.Println("\nanalyze with:")
	fmt.Println("  go tool pprof -http=:8080 cpu.prof")
}
