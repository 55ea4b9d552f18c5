package schema

// DepthLevels is the number of visible book levels carried by a tick.
const DepthLevels = 5

// Side describes order or trade direction.
type Side uint16

const (
	SideUnknown Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// Offset describes the position effect of a trade for fee purposes.
type Offset uint16

const (
	OffsetOpen Offset = iota
	OffsetClose
	OffsetCloseToday
)

// Level is one visible price level of a tick.
type Level struct {
	Price  float64
	Volume float64
}

// Tick is a full market snapshot for one symbol at one instant.
type Tick struct {
	Symbol       string
	TradingDate  uint32 // YYYYMMDD
	TsExchange   int64  // exchange timestamp, unix milliseconds
	TsLocal      int64  // local receive timestamp, unix milliseconds
	Last         float64
	LastVolume   float64
	Volume       float64 // cumulative session volume
	Turnover     float64 // cumulative session turnover
	OpenInterest float64
	Bids         [DepthLevels]Level
	Asks         [DepthLevels]Level
}

// Bar is one aggregated candle.
type Bar struct {
	Symbol       string
	Interval     Interval
	Date         uint32 // YYYYMMDD, trading date of the bar
	Time         uint32 // HHMM, close minute of the bar
	Ts           int64  // bar close, unix milliseconds
	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       float64
	Turnover     float64
	OpenInterest float64
}

// OrderDetail is one entry of the raw order flow feed.
type OrderDetail struct {
	Symbol string
	Ts     int64
	Price  float64
	Volume float64
	Side   Side
}

// Transaction is one executed trade from the raw trade feed.
type Transaction struct {
	Symbol string
	Ts     int64
	Price  float64
	Volume float64
	Side   Side // aggressor side
}
