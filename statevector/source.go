package statevector

import "math/rand/v2"

// Source supplies uniform random values in [0, 1). *rand.Rand satisfies it.
// The engine draws exactly one value per measurement, in circuit order, so a
// seeded source reproduces a run exactly.
type Source interface {
	Float64() float64
}

// NewSource returns a PCG-backed source for the given seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// fixedSource replays a fixed list of draws, cycling when exhausted.
type fixedSource struct {
	draws []float64
	next  int
}

// Fixed returns a Source that yields the given values in order and then
// starts over. It makes measurement branches explicit in tests and replays.
func Fixed(draws ...float64) Source {
	return &fixedSource{draws: draws}
}

func (f *fixedSource) Float64() float64 {
	if len(f.draws) == 0 {
		return 0
	}
	v := f.draws[f.next%len(f.draws)]
	f.next++
	return v
}
