package schema

import "github.com/yanun0323/errors"

// Section is one continuous trading period of a session, in HHMM codes.
type Section struct {
	Begin uint32 `json:"begin"`
	End   uint32 `json:"end"`
}

// Instrument describes static metadata for one tradable symbol.
type Instrument struct {
	Symbol     string    `json:"symbol"`
	Exchange   string    `json:"exchange"`
	PriceTick  float64   `json:"price_tick"`
	Multiplier float64   `json:"multiplier"`
	Sections   []Section `json:"sections"`
}

// DefaultSections is the session layout assumed when an instrument
// entry does not define its own.
var DefaultSections = []Section{
	{Begin: 900, End: 1130},
	{Begin: 1330, End: 1500},
}

var ErrNoInstruments = errors.New("registry has no instruments")

// Registry is an in-memory instrument lookup, keyed by symbol.
type Registry struct {
	instruments map[string]Instrument
	symbols     []string
}

// NewRegistry builds a registry, applying defaults to sparse entries.
func NewRegistry(list []Instrument) (*Registry, error) {
	if len(list) == 0 {
		return nil, ErrNoInstruments
	}
	r := &Registry{instruments: make(map[string]Instrument, len(list))}
	for _, inst := range list {
		if inst.Symbol == "" {
			return nil, errors.New("instrument entry without symbol")
		}
		if inst.Multiplier <= 0 {
			inst.Multiplier = 1
		}
		if inst.PriceTick <= 0 {
			inst.PriceTick = 1
		}
		if len(inst.Sections) == 0 {
			inst.Sections = DefaultSections
		}
		if _, ok := r.instruments[inst.Symbol]; !ok {
			r.symbols = append(r.symbols, inst.Symbol)
		}
		r.instruments[inst.Symbol] = inst
	}
	return r, nil
}

// Instrument returns the metadata for a symbol.
func (r *Registry) Instrument(symbol string) (Instrument, bool) {
	inst, ok := r.instruments[symbol]
	return inst, ok
}

// Symbols returns all registered symbols in file order.
func (r *Registry) Symbols() []string { return r.symbols }

// Count returns the number of registered instruments.
func (r *Registry) Count() int { return len(r.symbols) }
