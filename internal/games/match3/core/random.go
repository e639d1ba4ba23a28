package core

import "math/rand"

// Random is the source of randomness used by the pool and the board.
type Random interface {
	// Intn returns a number in [0, n). n is always > 0.
	Intn(n int) int
}

// NewRandom returns a seeded Random.
func NewRandom(seed int64) Random {
	return rand.New(rand.NewSource(seed))
}

// SequenceRandom replays a fixed list of values, cycling when exhausted.
// Each value is reduced modulo n. An empty sequence always yields 0.
type SequenceRandom struct {
	values []int
	next   int
}

// NewSequenceRandom creates a SequenceRandom over values.
func NewSequenceRandom(values ...int) *SequenceRandom {
	return &SequenceRandom{values: values}
}

// Intn returns the next queued value modulo n.
func (r *SequenceRandom) Intn(n int) int {
	if len(r.values) == 0 || n <= 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	if v < 0 {
		v = -v
	}
	return v % n
}
