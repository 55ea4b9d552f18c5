package main

import (
	"flag"
	"log"

	"main/internal/calendar"
	"main/internal/codec"
	"main/internal/mdg"
	"main/internal/recorder"
)

func main() {
	dir := flag.String("dir", "testdata/history", "History directory to write into")
	symbol := flag.String("symbol", "rb2310", "Instrument symbol")
	date := flag.Uint("date", 20230504, "Trading date (YYYYMMDD)")
	ticks := flag.Int("ticks", 7200, "Number of ticks to generate")
	start := flag.Uint("start", 900, "First tick minute (HHMM, exchange time)")
	stepMs := flag.Int64("step-ms", 500, "Milliseconds between ticks")
	basePrice := flag.Float64("base-price", 100, "Starting price of the walk")
	spread := flag.Float64("spread", 1, "Price step and touch distance")
	seed := flag.Int64("seed", 1, "Random walk seed")
	timezone := flag.String("timezone", "Asia/Shanghai", "Exchange timezone")
	flag.Parse()

	if *ticks <= 0 {
		log.Fatalf("ticks must be > 0")
	}
	if *stepMs <= 0 {
		log.Fatalf("step-ms must be > 0")
	}

	cal, err := calendar.New(*timezone)
	if err != nil {
		log.Fatalf("calendar init failed: %v", err)
	}

	generator, err := mdg.NewGenerator(mdg.Config{
		Symbol:    *symbol,
		Date:      uint32(*date),
		BasePrice: *basePrice,
		Spread:    *spread,
		Seed:      *seed,
	})
	if err != nil {
		log.Fatalf("generator init failed: %v", err)
	}

	path := recorder.TickFile(*dir, *symbol, uint32(*date))
	writer, err := recorder.NewWriter(path)
	if err != nil {
		log.Fatalf("history writer init failed: %v", err)
	}

	ts := cal.Compose(uint32(*date), uint32(*start))
	buf := make([]byte, 0, codec.TickPayloadSize)
	for i := 0; i < *ticks; i++ {
		tick := generator.Next(ts)
		buf = codec.EncodeTick(buf[:0], tick)
		if err := writer.Append(recorder.KindTick, ts, buf); err != nil {
			log.Fatalf("append tick %d failed: %v", i, err)
		}
		ts += *stepMs
	}
	if err := writer.Close(); err != nil {
		log.Fatalf("close history file failed: %v", err)
	}

	log.Printf("wrote %d ticks for %s@%d to %s", *ticks, *symbol, *date, path)
}
