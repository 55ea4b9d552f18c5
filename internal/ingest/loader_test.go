package ingest

import (
	"testing"

	"main/internal/codec"
	"main/internal/recorder"
	"main/internal/schema"
)

func TestMemoryLoaderMissingData(t *testing.T) {
	m := NewMemoryLoader()
	if m.LoadRawHistoryTicks("rb2401", 20230504, func([]schema.Tick) {
		t.Fatal("callback fired for missing data")
	}) {
		t.Fatal("expected false for missing ticks")
	}
	if m.LoadRawHistoryBars("rb2401", schema.IntervalMinute1, func([]schema.Bar) {
		t.Fatal("callback fired for missing data")
	}) {
		t.Fatal("expected false for missing bars")
	}
}

func TestFileLoaderTickRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := recorder.TickFile(dir, "rb2401", 20230504)
	w, err := recorder.NewWriter(path)
	if err != nil {
		t.Fatalf("new writer: %+v", err)
	}
	want := []schema.Tick{
		{TradingDate: 20230504, TsExchange: 1683161100000, Last: 3600, LastVolume: 2, Volume: 2},
		{TradingDate: 20230504, TsExchange: 1683161100500, Last: 3601, LastVolume: 1, Volume: 3},
	}
	for _, tick := range want {
		if err := w.Append(recorder.KindTick, tick.TsExchange, codec.EncodeTick(nil, tick)); err != nil {
			t.Fatalf("append: %+v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %+v", err)
	}

	loader := NewFileLoader(dir, []string{"rb2401"})
	var got []schema.Tick
	if !loader.LoadRawHistoryTicks("rb2401", 20230504, func(ticks []schema.Tick) {
		got = append(got, ticks...)
	}) {
		t.Fatal("expected tick file to load")
	}
	if len(got) != len(want) {
		t.Fatalf("got %d ticks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].TsExchange != want[i].TsExchange || got[i].Last != want[i].Last {
			t.Fatalf("tick %d mismatch: %+v", i, got[i])
		}
		if got[i].Symbol != "rb2401" {
			t.Fatalf("tick %d missing symbol: %+v", i, got[i])
		}
	}

	if loader.LoadRawHistoryTicks("rb2401", 20230505, func([]schema.Tick) {
		t.Fatal("callback fired for missing date")
	}) {
		t.Fatal("expected false for missing date")
	}
}

func TestFileLoaderFinalBarsApplyFactors(t *testing.T) {
	dir := t.TempDir()

	bw, err := recorder.NewWriter(recorder.BarFile(dir, "sh600000", schema.IntervalDay1))
	if err != nil {
		t.Fatalf("new bar writer: %+v", err)
	}
	bars := []schema.Bar{
		{Interval: schema.IntervalDay1, Date: 20230504, Ts: 1683180900000, Open: 10, High: 11, Low: 9, Close: 10.5},
		{Interval: schema.IntervalDay1, Date: 20230505, Ts: 1683267300000, Open: 10.5, High: 12, Low: 10, Close: 11},
	}
	for _, bar := range bars {
		if err := bw.Append(recorder.KindBar, bar.Ts, codec.EncodeBar(nil, bar)); err != nil {
			t.Fatalf("append bar: %+v", err)
		}
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close bars: %+v", err)
	}

	fw, err := recorder.NewWriter(recorder.FactorFile(dir, "sh600000"))
	if err != nil {
		t.Fatalf("new factor writer: %+v", err)
	}
	if err := fw.Append(recorder.KindFactor, 0, codec.EncodeFactor(nil, 20230504, 0.5)); err != nil {
		t.Fatalf("append factor: %+v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("close factors: %+v", err)
	}

	loader := NewFileLoader(dir, []string{"sh600000"})
	var got []schema.Bar
	if !loader.LoadFinalHistoryBars("sh600000", schema.IntervalDay1, func(b []schema.Bar) {
		got = append(got, b...)
	}) {
		t.Fatal("expected final bars to load")
	}
	if len(got) != 2 {
		t.Fatalf("got %d bars, want 2", len(got))
	}
	if got[0].Close != 10.5*0.5 {
		t.Fatalf("factored close = %v, want %v", got[0].Close, 10.5*0.5)
	}
	if got[1].Close != 11 {
		t.Fatalf("unadjusted close = %v, want 11", got[1].Close)
	}
}
