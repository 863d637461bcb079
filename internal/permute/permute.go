// Package permute generates every permutation of a small slice, for
// exhaustively exercising insert-order-independence properties over
// short key sequences (spec.md §8's permutation-coverage testable
// property).
package permute

// Ints generates every permutation of vals in place via Heap's
// algorithm, calling emit once per permutation. emit must not retain
// the slice it is given; it is reused and mutated between calls.
func Ints(vals []int, emit func([]int)) {
	n := len(vals)
	c := make([]int, n)
	emit(vals)
	i := 0
	for i < n {
		if c[i] < i {
			if i%2 == 0 {
				vals[0], vals[i] = vals[i], vals[0]
			} else {
				vals[c[i]], vals[i] = vals[i], vals[c[i]]
			}
			emit(vals)
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}
}

// Count returns n! without generating any permutation, for sizing
// pre-allocated slices or progress reporting.
func Count(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		result *= i
	}
	return result
}
