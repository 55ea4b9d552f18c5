package ingest

import (
	"io"
	"os"

	"github.com/yanun0323/logs"

	"main/internal/codec"
	"main/internal/recorder"
	"main/internal/schema"
)

// FileLoader reads history segment files written by the recorder.
// A missing file is not an error, it just yields false.
type FileLoader struct {
	dir     string
	symbols []string
}

// NewFileLoader returns a loader rooted at dir. symbols bounds the
// universe scanned by LoadAllFactors.
func NewFileLoader(dir string, symbols []string) *FileLoader {
	return &FileLoader{dir: dir, symbols: symbols}
}

func (f *FileLoader) readAll(path string, kind recorder.RecordKind, fn func(h recorder.Header, payload []byte) bool) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	r := recorder.NewReader(file, recorder.ReaderOptions{})
	for {
		h, payload, err := r.Next()
		if err == io.EOF {
			return true
		}
		if err != nil {
			logs.Errorf("read history %s: %+v", path, err)
			return false
		}
		if h.Kind != kind {
			logs.Warnf("skip record kind %d in %s", h.Kind, path)
			continue
		}
		if !fn(h, payload) {
			logs.Errorf("decode history record seq %d in %s", h.Seq, path)
			return false
		}
	}
}

func (f *FileLoader) loadBars(path string, symbol string, cb BarsCallback) bool {
	var bars []schema.Bar
	ok := f.readAll(path, recorder.KindBar, func(_ recorder.Header, payload []byte) bool {
		bar, ok := codec.DecodeBar(payload)
		if !ok {
			return false
		}
		bar.Symbol = symbol
		bars = append(bars, bar)
		return true
	})
	if !ok {
		return false
	}
	cb(bars)
	return true
}

func (f *FileLoader) LoadRawHistoryBars(symbol string, interval schema.Interval, cb BarsCallback) bool {
	return f.loadBars(recorder.BarFile(f.dir, symbol, interval), symbol, cb)
}

// LoadFinalHistoryBars applies the symbol's adjustment factors to the
// raw bar prices. Without a factor file the raw bars pass through.
func (f *FileLoader) LoadFinalHistoryBars(symbol string, interval schema.Interval, cb BarsCallback) bool {
	factor := map[uint32]float64{}
	f.LoadFactor(symbol, func(_ string, dates []uint32, factors []float64) {
		for i, date := range dates {
			factor[date] = factors[i]
		}
	})
	return f.loadBars(recorder.BarFile(f.dir, symbol, interval), symbol, func(bars []schema.Bar) {
		if len(factor) > 0 {
			for i := range bars {
				if fac, ok := factor[bars[i].Date]; ok {
					bars[i].Open *= fac
					bars[i].High *= fac
					bars[i].Low *= fac
					bars[i].Close *= fac
				}
			}
		}
		cb(bars)
	})
}

func (f *FileLoader) LoadRawHistoryTicks(symbol string, date uint32, cb TicksCallback) bool {
	var ticks []schema.Tick
	ok := f.readAll(recorder.TickFile(f.dir, symbol, date), recorder.KindTick, func(_ recorder.Header, payload []byte) bool {
		tick, ok := codec.DecodeTick(payload)
		if !ok {
			return false
		}
		tick.Symbol = symbol
		ticks = append(ticks, tick)
		return true
	})
	if !ok {
		return false
	}
	cb(ticks)
	return true
}

func (f *FileLoader) LoadRawOrderDetails(symbol string, date uint32, cb OrderDetailsCallback) bool {
	var rows []schema.OrderDetail
	ok := f.readAll(recorder.OrderDetailFile(f.dir, symbol, date), recorder.KindOrderDetail, func(_ recorder.Header, payload []byte) bool {
		od, ok := codec.DecodeOrderDetail(payload)
		if !ok {
			return false
		}
		od.Symbol = symbol
		rows = append(rows, od)
		return true
	})
	if !ok {
		return false
	}
	cb(rows)
	return true
}

func (f *FileLoader) LoadRawTransactions(symbol string, date uint32, cb TransactionsCallback) bool {
	var rows []schema.Transaction
	ok := f.readAll(recorder.TransactionFile(f.dir, symbol, date), recorder.KindTransaction, func(_ recorder.Header, payload []byte) bool {
		tr, ok := codec.DecodeTransaction(payload)
		if !ok {
			return false
		}
		tr.Symbol = symbol
		rows = append(rows, tr)
		return true
	})
	if !ok {
		return false
	}
	cb(rows)
	return true
}

func (f *FileLoader) LoadAllFactors(cb FactorsCallback) bool {
	loaded := false
	for _, symbol := range f.symbols {
		if f.LoadFactor(symbol, cb) {
			loaded = true
		}
	}
	return loaded
}

func (f *FileLoader) LoadFactor(symbol string, cb FactorsCallback) bool {
	var (
		dates   []uint32
		factors []float64
	)
	ok := f.readAll(recorder.FactorFile(f.dir, symbol), recorder.KindFactor, func(_ recorder.Header, payload []byte) bool {
		date, factor, ok := codec.DecodeFactor(payload)
		if !ok {
			return false
		}
		dates = append(dates, date)
		factors = append(factors, factor)
		return true
	})
	if !ok {
		return false
	}
	cb(symbol, dates, factors)
	return true
}
