package match

type orderState uint8

const (
	stateNew orderState = iota // created, entrust ack pending
	stateActive
	stateCancelRequested
	stateCanceled
)

// Order is one simulated working order. Queue is the estimated unseen
// volume resting ahead of it at its price level.
type Order struct {
	LocalID   uint64
	Symbol    string
	Buy       bool
	Qty       float64
	Left      float64
	Traded    float64
	Limit     float64
	FirePrice float64 // last price captured at submit
	Queue     float64
	Positive  bool // aggressive enough to take the opposite touch
	Time      int64
	state     orderState
}
