package schema

// FeeRate holds per-symbol commission rates. ByVolume selects a flat
// per-contract fee; otherwise rates apply to traded value.
type FeeRate struct {
	Open       float64 `json:"open"`
	Close      float64 `json:"close"`
	CloseToday float64 `json:"close_today"`
	ByVolume   bool    `json:"by_volume"`
}

// FeeSchedule maps symbol to its commission rates.
type FeeSchedule map[string]FeeRate

// Rate returns the rate for the given position effect.
func (f FeeRate) Rate(offset Offset) float64 {
	switch offset {
	case OffsetClose:
		return f.Close
	case OffsetCloseToday:
		return f.CloseToday
	default:
		return f.Open
	}
}
