package domain

import (
	"fmt"
	"strings"
)

// Target is the metric candidate builds are ranked by.
type Target int

const (
	TargetTotalDamage Target = iota
	TargetDps
)

func (t Target) String() string {
	if t == TargetDps {
		return "dps"
	}
	return "total_damage"
}

// ParseTarget defaults to total damage when empty.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "total_damage", "damage":
		return TargetTotalDamage, nil
	case "dps":
		return TargetDps, nil
	}
	return TargetTotalDamage, fmt.Errorf("unsupported target %q (supported: total_damage, dps)", s)
}

func IsBetterByTarget(target Target, damage, bestDamage, dps, bestDps float64) bool {
	if target == TargetDps {
		return dps > bestDps
	}
	return damage > bestDamage
}
