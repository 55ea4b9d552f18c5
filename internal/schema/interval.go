package schema

import "github.com/yanun0323/errors"

// Interval is the base aggregation period of a bar stream.
type Interval uint16

const (
	IntervalUnknown Interval = iota
	IntervalMinute1
	IntervalDay1
)

var ErrUnknownInterval = errors.New("unknown kline interval")

func (i Interval) String() string {
	switch i {
	case IntervalMinute1:
		return "m1"
	case IntervalDay1:
		return "d1"
	default:
		return "unknown"
	}
}

// Minutes returns the interval length in minutes, 0 for daily.
func (i Interval) Minutes() uint32 {
	if i == IntervalMinute1 {
		return 1
	}
	return 0
}

// ParseInterval maps a period string ("m1", "d1") to an Interval.
func ParseInterval(s string) (Interval, error) {
	switch s {
	case "m1", "m":
		return IntervalMinute1, nil
	case "d1", "d":
		return IntervalDay1, nil
	default:
		return IntervalUnknown, errors.Wrap(ErrUnknownInterval, s)
	}
}
