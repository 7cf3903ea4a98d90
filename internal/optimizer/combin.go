package optimizer

import "iter"

// combinations returns every k-element subset of pool, preserving pool order inside each subset.
func combinations[T any](pool []T, k int) [][]T {
	if k < 0 || k > len(pool) {
		return nil
	}
	var out [][]T
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		set := make([]T, k)
		for i, j := range idx {
			set[i] = pool[j]
		}
		out = append(out, set)

		i := k - 1
		for i >= 0 && idx[i] == len(pool)-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// product yields every index vector of the Cartesian product of sizes, last position fastest.
// The yielded slice is reused between iterations.
func product(sizes []int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		for _, n := range sizes {
			if n == 0 {
				return
			}
		}
		idx := make([]int, len(sizes))
		for {
			if !yield(idx) {
				return
			}
			i := len(sizes) - 1
			for i >= 0 {
				idx[i]++
				if idx[i] < sizes[i] {
					break
				}
				idx[i] = 0
				i--
			}
			if i < 0 {
				return
			}
		}
	}
}
