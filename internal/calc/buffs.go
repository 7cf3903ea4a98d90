package calc

import (
	"maps"
	"slices"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
)

// ResolveBuffs folds the active persistent buffs onto a copy of raw. raw is not modified.
// ignore names a buff key to leave out, for what-if comparisons.
func ResolveBuffs(raw domain.Attributes, active domain.ActiveBuffs, actor string, table domain.BuffTable, constellation, rank int, ignore string) domain.Attributes {
	out := raw.Clone()
	for _, key := range slices.Sorted(maps.Keys(active)) {
		if key == ignore {
			continue
		}
		buff, ok := table[key]
		if !ok || buff.MinConstellation > constellation || buff.Transient {
			continue
		}
		status := active[key]
		if !Applies(buff, status, actor) {
			continue
		}
		ApplyEffects(out, buff.Effects, status.Stacks, rank)
	}
	return out
}

// Applies evaluates a buff's target scope for the acting character.
func Applies(buff domain.Buff, status domain.BuffStatus, actor string) bool {
	switch buff.TargetScope() {
	case domain.TargetSelf:
		return buff.Owner == actor
	case domain.TargetTeam:
		return true
	case domain.TargetSingle:
		return status.Target != "" && status.Target == actor
	}
	return false
}

// ApplyEffects adds a buff's stat effects to v in place. stacks <= 0 counts as one stack.
// Energy effects do not touch stats.
func ApplyEffects(v domain.Attributes, effects domain.EffectList, stacks, rank int) {
	if stacks <= 0 {
		stacks = 1
	}
	for _, eff := range effects {
		switch e := eff.(type) {
		case domain.SimpleAdd:
			v.Add(e.Stat, e.Value.At(rank))
		case domain.DamageMultiplierUp:
			v.Add(e.Stat, e.Value.At(rank))
		case domain.Stacking:
			v.Add(e.Stat, e.PerStack.At(rank)*float64(stacks))
		case domain.StatConversion:
			applyConversion(v, e, rank)
		case domain.FixedEnergyGain, domain.ScalingEnergyGain:
		}
	}
}

func applyConversion(v domain.Attributes, e domain.StatConversion, rank int) {
	src := v[e.Source]
	if src <= e.Threshold || e.PerUnit == 0 {
		return
	}
	gain := (src - e.Threshold) / e.PerUnit * e.GainPerUnit.At(rank)
	if e.MaxGain != nil {
		gain = min(gain, e.MaxGain.At(rank))
	}
	v.Add(e.Dest, gain)
}
