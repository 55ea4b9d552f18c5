package state

// PositionReducer folds simulated fills into net positions per symbol.
type PositionReducer struct {
	positions map[string]float64
}

// NewPositionReducer creates an empty reducer.
func NewPositionReducer() *PositionReducer {
	return &PositionReducer{positions: make(map[string]float64)}
}

// ApplyFill updates the symbol's net position and returns it. Buys
// add, sells subtract.
func (r *PositionReducer) ApplyFill(symbol string, buy bool, qty float64) float64 {
	next := r.positions[symbol]
	if buy {
		next += qty
	} else {
		next -= qty
	}
	r.positions[symbol] = next
	return next
}

// Position returns the current net position for a symbol.
func (r *PositionReducer) Position(symbol string) float64 {
	return r.positions[symbol]
}

// Count returns the number of symbols with recorded fills.
func (r *PositionReducer) Count() int {
	return len(r.positions)
}

// Reset drops all tracked positions.
func (r *PositionReducer) Reset() {
	for k := range r.positions {
		delete(r.positions, k)
	}
}
