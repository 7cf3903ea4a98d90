package optimizer

import (
	"cmp"
	"iter"
	"maps"
	"slices"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
)

// EnumerateOwned yields every 5-echo set drawn from an inventory (grouped by cost) that fits the pattern.
// Echoes come out grouped by cost, highest first, and the candidate's pattern is reordered to match.
func EnumerateOwned(owned map[int][]domain.Echo, p CostPattern) iter.Seq[Candidate] {
	slices.SortFunc(p[:], func(a, b int) int { return cmp.Compare(b, a) })
	return func(yield func(Candidate) bool) {
		counts := p.Count()
		costs := slices.SortedFunc(maps.Keys(counts), func(a, b int) int { return cmp.Compare(b, a) })

		choices := make([][][]domain.Echo, len(costs))
		sizes := make([]int, len(costs))
		for i, cost := range costs {
			choices[i] = combinations(owned[cost], counts[cost])
			if len(choices[i]) == 0 {
				return
			}
			sizes[i] = len(choices[i])
		}

		for idx := range product(sizes) {
			c := Candidate{Pattern: p}
			n := 0
			for i, j := range idx {
				for _, echo := range choices[i][j] {
					if n < len(c.Echoes) {
						c.Echoes[n] = cloneEcho(echo)
					}
					n++
				}
			}
			if n != len(c.Echoes) {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

func cloneEcho(e domain.Echo) domain.Echo {
	out := e
	if e.Main != nil {
		m := *e.Main
		out.Main = &m
	}
	out.Subs = slices.Clone(e.Subs)
	return out
}
