// Package rng derives the simulation's random numbers from a session
// seed. Every tick gets its own generator so a session loaded at any tick
// continues exactly as the live run would have.
package rng

import "math/rand"

// splitmix64 finalizer. Decorrelates consecutive (seed, tick) pairs
// before they feed math/rand, whose low-entropy seeds are visibly
// correlated otherwise.
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// ForTick returns the deterministic generator for one tick of a session.
func ForTick(seed int64, tick int64) *rand.Rand {
	return rand.New(rand.NewSource(int64(mix(uint64(seed) ^ mix(uint64(tick))))))
}

// Pick returns a uniformly chosen element of items. Panics on an empty
// slice, same as indexing would.
func Pick[T any](r *rand.Rand, items []T) T {
	return items[r.Intn(len(items))]
}

// Sample returns n distinct elements of items in random order. If n
// exceeds len(items) the whole slice is returned shuffled.
func Sample[T any](r *rand.Rand, items []T, n int) []T {
	idx := r.Perm(len(items))
	if n > len(items) {
		n = len(items)
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = items[idx[i]]
	}
	return out
}
