// Command matchbook is a minimal runnable demo wiring a Config, an Engine,
// and a Dispatcher together, logging every execution report as it arrives.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"limitbook/domain"
	"limitbook/matching"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg := matching.Config{MaxPrice: 1000, MaxTrades: 1 << 16, StringLen: 5, SymbolLen: 6}

	engine := matching.NewEngine(cfg, domain.ExecutionSinkFunc(func(r domain.ExecutionReport) {
		log.Info().
			Str("symbol", r.Symbol).
			Str("trader", r.Trader).
			Int64("price", r.Price).
			Int64("size", r.Size).
			Str("side", r.Side.String()).
			Msg("execution")
	}))

	dispatcher := matching.NewDispatcher(engine, 1024)
	dispatcher.Start()
	defer dispatcher.Stop()

	dispatcher.Submit(domain.Order{Side: domain.Sell, Price: 500, Size: 10, Trader: "AAAAA", Symbol: "SYM"})
	dispatcher.Submit(domain.Order{Side: domain.Buy, Price: 500, Size: 4, Trader: "BBBBB", Symbol: "SYM"})

	time.Sleep(50 * time.Millisecond)

	bids, asks := engine.Snapshot()
	log.Info().Interface("bids", bids).Interface("asks", asks).Msg("depth snapshot")
}
