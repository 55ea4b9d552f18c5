package calendar

import (
	"testing"
	"time"
)

func mustNew(t *testing.T) *Calendar {
	t.Helper()
	c, err := New("")
	if err != nil {
		t.Fatalf("calendar init: %v", err)
	}
	return c
}

func TestConvertExchangeTimeRoundTrip(t *testing.T) {
	c := mustNew(t)
	ms, err := c.ConvertExchangeTime("2023-05-09 09:30:00")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got := c.Date(ms); got != 20230509 {
		t.Fatalf("date = %d, want 20230509", got)
	}
	if got := c.MinuteTime(ms); got != 930 {
		t.Fatalf("minute = %d, want 930", got)
	}
	if got := c.Seconds(ms); got != 93000 {
		t.Fatalf("seconds = %d, want 93000", got)
	}
	if got := c.Compose(20230509, 930); got != ms {
		t.Fatalf("compose = %d, want %d", got, ms)
	}
}

func TestConvertExchangeTimeRejectsGarbage(t *testing.T) {
	c := mustNew(t)
	if _, err := c.ConvertExchangeTime("09:30"); err == nil {
		t.Fatalf("partial time must fail")
	}
}

func TestMinuteBoundaries(t *testing.T) {
	c := mustNew(t)
	ms, _ := c.ConvertExchangeTime("2023-05-09 09:30:41")
	start := c.MinuteStart(ms)
	if got := c.Seconds(start); got != 93000 {
		t.Fatalf("minute start = %d, want 93000", got)
	}
	if next := c.NextMinute(ms); next != start+60_000 {
		t.Fatalf("next minute = %d, want %d", next, start+60_000)
	}
}

func TestTradingDatesSkipWeekends(t *testing.T) {
	c := mustNew(t)
	begin, _ := c.ConvertExchangeTime("2023-05-05 09:00:00") // Friday
	end, _ := c.ConvertExchangeTime("2023-05-09 15:00:00")   // Tuesday
	dates := c.TradingDates(begin, end)
	want := []uint32{20230505, 20230508, 20230509}
	if len(dates) != len(want) {
		t.Fatalf("dates = %v, want %v", dates, want)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("dates = %v, want %v", dates, want)
		}
	}
	if c.Weekday(20230506) != time.Saturday {
		t.Fatalf("20230506 should be Saturday")
	}
}
