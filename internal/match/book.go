package match

import (
	"main/internal/num"
	"main/internal/schema"
)

// Book is a pruned per-symbol price ladder at whole-price granularity.
// It keeps only levels at or outside the current touch; everything
// strictly between best bid and best ask is discarded on each update.
type Book struct {
	levels map[int64]float64
	lastPx int64
	bidPx  int64
	askPx  int64
}

func newBook() *Book {
	return &Book{levels: map[int64]float64{}}
}

// Update folds one tick's visible depth into the ladder.
func (b *Book) Update(tick *schema.Tick) {
	b.lastPx = num.RoundInt(tick.Last)
	b.askPx = num.RoundInt(tick.Asks[0].Price)
	b.bidPx = num.RoundInt(tick.Bids[0].Price)

	for i := 0; i < schema.DepthLevels; i++ {
		askPx := num.RoundInt(tick.Asks[i].Price)
		bidPx := num.RoundInt(tick.Bids[i].Price)
		if askPx == 0 && bidPx == 0 {
			break
		}
		if askPx != 0 {
			b.levels[askPx] = tick.Asks[i].Volume
		}
		if bidPx != 0 {
			b.levels[bidPx] = tick.Bids[i].Volume
		}
	}

	for px := range b.levels {
		if px > b.bidPx && px < b.askPx {
			delete(b.levels, px)
		}
	}
}

// Volume returns the resting volume recorded at a whole price, 0 if
// the level was pruned or never seen.
func (b *Book) Volume(px int64) float64 {
	return b.levels[px]
}

// Has reports whether a whole price level is present.
func (b *Book) Has(px int64) bool {
	_, ok := b.levels[px]
	return ok
}

// BestBid returns the rounded best bid price.
func (b *Book) BestBid() int64 { return b.bidPx }

// BestAsk returns the rounded best ask price.
func (b *Book) BestAsk() int64 { return b.askPx }

// LastPx returns the rounded last trade price.
func (b *Book) LastPx() int64 { return b.lastPx }

// Size returns the number of retained levels.
func (b *Book) Size() int { return len(b.levels) }

func (b *Book) clear() {
	b.levels = map[int64]float64{}
	b.lastPx, b.bidPx, b.askPx = 0, 0, 0
}
