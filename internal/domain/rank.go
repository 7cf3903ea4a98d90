package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RankValues holds one value per weapon rank (index 0 = rank 1).
// YAML accepts either a scalar (same value for every rank) or a list; short lists repeat their last element.
type RankValues [5]float64

// Flat returns RankValues with v at every rank.
func Flat(v float64) RankValues {
	return RankValues{v, v, v, v, v}
}

// At returns the value for a 1-based rank, clamped to the valid range.
func (r RankValues) At(rank int) float64 {
	if rank < 1 {
		rank = 1
	}
	if rank > len(r) {
		rank = len(r)
	}
	return r[rank-1]
}

func (r *RankValues) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := value.Decode(&v); err != nil {
			return fmt.Errorf("rank value: %w", err)
		}
		*r = Flat(v)
		return nil
	case yaml.SequenceNode:
		var vs []float64
		if err := value.Decode(&vs); err != nil {
			return fmt.Errorf("rank values: %w", err)
		}
		if len(vs) == 0 {
			*r = RankValues{}
			return nil
		}
		var out RankValues
		for i := range out {
			if i < len(vs) {
				out[i] = vs[i]
			} else {
				out[i] = vs[len(vs)-1]
			}
		}
		*r = out
		return nil
	default:
		return fmt.Errorf("rank values: expected scalar or list at line %d", value.Line)
	}
}
