// Package optimizer generates candidate echo sets and ranks them with a scoring function.
package optimizer

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/registry"
)

type Priority int

const (
	PriorityNormal Priority = iota
	PriorityPreferred
	PriorityRequired
)

func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return PriorityNormal, nil
	case "preferred":
		return PriorityPreferred, nil
	case "required":
		return PriorityRequired, nil
	}
	return PriorityNormal, fmt.Errorf("unsupported priority %q (supported: required, preferred, normal)", s)
}

type SubStatChoice struct {
	Key      string
	Priority Priority
}

// SearchSpace describes which echo sets to generate.
type SearchSpace struct {
	Patterns []CostPattern
	// SubsPerEcho is how many sub stats each echo rolls.
	SubsPerEcho int
	// SubTier is the 0-based roll tier every sub stat takes its value from.
	SubTier  int
	SubStats []SubStatChoice
	// MainStats whitelists main stat keys per cost tier.
	MainStats map[int][]string
	// Exhaustive picks sub stats from the whole pool instead of honoring priorities.
	Exhaustive bool
}

type Candidate struct {
	Pattern CostPattern
	Echoes  [5]domain.Echo
}

type subPools struct {
	required  []domain.Stat
	preferred []domain.Stat
	normal    []domain.Stat
}

func (p subPools) all() []domain.Stat {
	return slices.Concat(p.required, p.preferred, p.normal)
}

func buildSubPools(reg *registry.Registry, space SearchSpace) subPools {
	var p subPools
	for _, c := range space.SubStats {
		v, ok := reg.SubStatValue(c.Key, space.SubTier)
		if !ok {
			continue
		}
		s := domain.Stat{Key: c.Key, Value: v}
		switch c.Priority {
		case PriorityRequired:
			p.required = append(p.required, s)
		case PriorityPreferred:
			p.preferred = append(p.preferred, s)
		default:
			p.normal = append(p.normal, s)
		}
	}
	return p
}

// SubStatSets returns the sub stat sets a single echo slot may roll.
func SubStatSets(reg *registry.Registry, space SearchSpace) [][]domain.Stat {
	pools := buildSubPools(reg, space)
	all := pools.all()
	if len(all) == 0 {
		return nil
	}
	if space.Exhaustive {
		return combinations(all, space.SubsPerEcho)
	}

	need := space.SubsPerEcho - len(pools.required)
	if need < 0 {
		return nil
	}
	if need == 0 {
		return [][]domain.Stat{slices.Clone(pools.required)}
	}
	fill := slices.Concat(pools.preferred, pools.normal)
	var out [][]domain.Stat
	for _, combo := range combinations(fill, need) {
		out = append(out, slices.Concat(pools.required, combo))
	}
	return out
}

// mainStatOptions returns the allowed main stats of each slot, or false if a slot has none.
func mainStatOptions(reg *registry.Registry, space SearchSpace, p CostPattern) ([5][]domain.Stat, bool) {
	var out [5][]domain.Stat
	for i, cost := range p {
		for _, key := range space.MainStats[cost] {
			if v, ok := reg.MainStatValue(cost, key); ok {
				out[i] = append(out[i], domain.Stat{Key: key, Value: v})
			}
		}
		if len(out[i]) == 0 {
			return out, false
		}
	}
	return out, true
}

// Enumerate lazily yields every candidate of the search space. Each pattern contributes
// (product of per-slot main stat options) x (sub stat sets)^5 candidates.
func Enumerate(reg *registry.Registry, space SearchSpace) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		subSets := SubStatSets(reg, space)
		if len(subSets) == 0 {
			return
		}
		subSizes := []int{len(subSets), len(subSets), len(subSets), len(subSets), len(subSets)}

		for _, p := range space.Patterns {
			mains, ok := mainStatOptions(reg, space, p)
			if !ok {
				continue
			}
			mainSizes := make([]int, len(mains))
			for i, m := range mains {
				mainSizes[i] = len(m)
			}
			for mainIdx := range product(mainSizes) {
				for subIdx := range product(subSizes) {
					var c Candidate
					c.Pattern = p
					for slot := range c.Echoes {
						ms := mains[slot][mainIdx[slot]]
						c.Echoes[slot] = domain.Echo{
							Name: fmt.Sprintf("OptimizedEcho%d", slot+1),
							Cost: p[slot],
							Main: &ms,
							Subs: slices.Clone(subSets[subIdx[slot]]),
						}
					}
					if !yield(c) {
						return
					}
				}
			}
		}
	}
}

// Count returns the number of candidates Enumerate yields, without generating them.
func Count(reg *registry.Registry, space SearchSpace) int {
	subs := len(SubStatSets(reg, space))
	if subs == 0 {
		return 0
	}
	perPattern := subs * subs * subs * subs * subs
	total := 0
	for _, p := range space.Patterns {
		mains, ok := mainStatOptions(reg, space, p)
		if !ok {
			continue
		}
		n := perPattern
		for _, m := range mains {
			n *= len(m)
		}
		total += n
	}
	return total
}
