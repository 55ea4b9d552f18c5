// Package calendar converts exchange-local wall time to absolute
// timestamps and provides the date/minute arithmetic the replay loop
// steps by.
package calendar

import (
	"time"

	"github.com/yanun0323/errors"
)

const (
	exchangeTimeLayout = "2006-01-02 15:04:05"
	defaultTimezone    = "Asia/Shanghai"
)

var ErrBadExchangeTime = errors.New("unparsable exchange time")

// Calendar resolves exchange-local times against one fixed location.
type Calendar struct {
	loc *time.Location
}

// New loads the exchange timezone. An empty name selects the default
// exchange location.
func New(timezone string) (*Calendar, error) {
	if timezone == "" {
		timezone = defaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, errors.Wrap(err, "load exchange timezone")
	}
	return &Calendar{loc: loc}, nil
}

// ConvertExchangeTime parses "YYYY-MM-DD HH:MM:SS" in exchange-local
// time and returns unix milliseconds.
func (c *Calendar) ConvertExchangeTime(s string) (int64, error) {
	t, err := time.ParseInLocation(exchangeTimeLayout, s, c.loc)
	if err != nil {
		return 0, errors.Wrap(ErrBadExchangeTime, s)
	}
	return t.UnixMilli(), nil
}

// Date returns the YYYYMMDD code of a timestamp.
func (c *Calendar) Date(ms int64) uint32 {
	t := time.UnixMilli(ms).In(c.loc)
	return uint32(t.Year())*10000 + uint32(t.Month())*100 + uint32(t.Day())
}

// MinuteTime returns the HHMM code of a timestamp.
func (c *Calendar) MinuteTime(ms int64) uint32 {
	t := time.UnixMilli(ms).In(c.loc)
	return uint32(t.Hour())*100 + uint32(t.Minute())
}

// Seconds returns the HHMMSS code of a timestamp.
func (c *Calendar) Seconds(ms int64) uint32 {
	t := time.UnixMilli(ms).In(c.loc)
	return uint32(t.Hour())*10000 + uint32(t.Minute())*100 + uint32(t.Second())
}

// Compose builds the unix-millisecond instant of date (YYYYMMDD) at
// minute tm (HHMM) in exchange-local time.
func (c *Calendar) Compose(date, tm uint32) int64 {
	t := time.Date(int(date/10000), time.Month(date/100%100), int(date%100),
		int(tm/100), int(tm%100), 0, 0, c.loc)
	return t.UnixMilli()
}

// MinuteStart truncates a timestamp to its minute boundary.
func (c *Calendar) MinuteStart(ms int64) int64 {
	return time.UnixMilli(ms).In(c.loc).Truncate(time.Minute).UnixMilli()
}

// NextMinute returns the minute boundary strictly after ms.
func (c *Calendar) NextMinute(ms int64) int64 {
	return c.MinuteStart(ms) + int64(time.Minute/time.Millisecond)
}

// IsTradingDate reports whether the date falls on a weekday.
func (c *Calendar) IsTradingDate(date uint32) bool {
	wd := c.timeOf(date).Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NextDate returns the calendar date after the given YYYYMMDD code.
func (c *Calendar) NextDate(date uint32) uint32 {
	return c.Date(c.timeOf(date).AddDate(0, 0, 1).UnixMilli())
}

// Shift moves a YYYYMMDD code by the given years, months and days.
func (c *Calendar) Shift(date uint32, years, months, days int) uint32 {
	return c.Date(c.timeOf(date).AddDate(years, months, days).UnixMilli())
}

// NextTradingDate returns the first weekday strictly after date.
func (c *Calendar) NextTradingDate(date uint32) uint32 {
	for {
		date = c.NextDate(date)
		if c.IsTradingDate(date) {
			return date
		}
	}
}

// Weekday returns the weekday of a YYYYMMDD code.
func (c *Calendar) Weekday(date uint32) time.Weekday {
	return c.timeOf(date).Weekday()
}

// TradingDates lists the weekday dates covering [beginMs, endMs].
func (c *Calendar) TradingDates(beginMs, endMs int64) []uint32 {
	if endMs < beginMs {
		return nil
	}
	var dates []uint32
	end := c.Date(endMs)
	for date := c.Date(beginMs); date <= end; date = c.NextDate(date) {
		if c.IsTradingDate(date) {
			dates = append(dates, date)
		}
	}
	return dates
}

func (c *Calendar) timeOf(date uint32) time.Time {
	return time.Date(int(date/10000), time.Month(date/100%100), int(date%100), 0, 0, 0, 0, c.loc)
}
