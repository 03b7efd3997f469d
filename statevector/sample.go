package statevector

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"slices"
	"strings"
	"sync"

	"qtermsim/circuit"
)

// Count is one bar of a Histogram.
type Count struct {
	Bitstring string
	Count     int
}

// Histogram counts measurement bitstrings over many shots.
type Histogram map[string]int

// Sorted returns the bars ordered by bitstring.
func (h Histogram) Sorted() []Count {
	out := make([]Count, 0, len(h))
	for b, n := range h {
		out = append(out, Count{Bitstring: b, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		return strings.Compare(a.Bitstring, b.Bitstring)
	})
	return out
}

// Total returns the number of shots recorded.
func (h Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// ShotSource returns the source used for one shot of a sampled run. Shot k
// of seed s always sees the same draws, whatever the worker count.
func ShotSource(seed uint64, shot int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(shot)+1))
}

// Sample runs c shots times on c.Qubits() qubits and counts the outcome
// bitstrings. Shots are independent runs, each with its own state vector and
// its own source, and are spread over at most workers goroutines (GOMAXPROCS
// when workers ≤ 0). The first error cancels the remaining shots.
func Sample(ctx context.Context, e *Engine, c *circuit.Circuit, shots int, seed uint64, workers int) (Histogram, error) {
	if shots < 1 {
		return nil, fmt.Errorf("%d shots: %w", shots, ErrInvalidShots)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = max(1, min(workers, shots))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]string, shots)
	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for shot := range jobs {
				res, err := e.Run(c, ShotSource(seed, shot))
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					continue
				}
				results[shot] = res.Bitstring()
			}
		}()
	}

feed:
	for shot := range shots {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- shot:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hist := make(Histogram)
	for _, b := range results {
		hist[b]++
	}
	return hist, nil
}
