package mdg

import "testing"

func TestGeneratorDeterministic(t *testing.T) {
	cfg := Config{Symbol: "rb2401", Date: 20230504, BasePrice: 3600, Spread: 1, Seed: 42}
	a, err := NewGenerator(cfg)
	if err != nil {
		t.Fatalf("new generator: %+v", err)
	}
	b, _ := NewGenerator(cfg)

	for i := 0; i < 100; i++ {
		ts := int64(1683161100000 + i*500)
		ta, tb := a.Next(ts), b.Next(ts)
		if ta != tb {
			t.Fatalf("tick %d diverged: %+v vs %+v", i, ta, tb)
		}
		if ta.Bids[0].Price >= ta.Last || ta.Asks[0].Price <= ta.Last {
			t.Fatalf("tick %d touch not around last: %+v", i, ta)
		}
		if ta.LastVolume <= 0 || ta.Volume < ta.LastVolume {
			t.Fatalf("tick %d volumes inconsistent: %+v", i, ta)
		}
	}
}

func TestGeneratorCumulativeVolumeMonotonic(t *testing.T) {
	g, err := NewGenerator(Config{Symbol: "rb2401", Date: 20230504, BasePrice: 3600, Seed: 7})
	if err != nil {
		t.Fatalf("new generator: %+v", err)
	}
	prev := 0.0
	for i := 0; i < 50; i++ {
		tick := g.Next(int64(1683161100000 + i*500))
		if tick.Volume <= prev {
			t.Fatalf("tick %d cumulative volume not increasing: %v <= %v", i, tick.Volume, prev)
		}
		prev = tick.Volume
	}
}
