package registry

import (
	"slices"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
)

// SubStatTiers is the number of roll tiers every sub stat has.
const SubStatTiers = 8

func defaultMainStats() map[int][]domain.Stat {
	return map[int][]domain.Stat{
		4: {
			{Key: domain.StatHPPercent, Value: 33},
			{Key: domain.StatATKPercent, Value: 33},
			{Key: domain.StatDEFPercent, Value: 41.5},
			{Key: domain.StatCritRate, Value: 22},
			{Key: domain.StatCritDamage, Value: 44},
			{Key: domain.StatHealBonus, Value: 26.4},
		},
		3: {
			{Key: "aero_dmg_up", Value: 30},
			{Key: "fusion_dmg_up", Value: 30},
			{Key: "electro_dmg_up", Value: 30},
			{Key: "glacio_dmg_up", Value: 30},
			{Key: "havoc_dmg_up", Value: 30},
			{Key: "spectro_dmg_up", Value: 30},
			{Key: domain.StatResonanceEfficiency, Value: 32},
			{Key: domain.StatATKPercent, Value: 30},
			{Key: domain.StatHPPercent, Value: 30},
			{Key: domain.StatDEFPercent, Value: 38},
		},
		1: {
			{Key: domain.StatHPPercent, Value: 22.8},
			{Key: domain.StatATKPercent, Value: 18},
			{Key: domain.StatDEFPercent, Value: 18},
		},
	}
}

func defaultSubStats() (map[string][]float64, []string) {
	percent := []float64{6.4, 7.1, 7.9, 8.6, 9.4, 10.1, 10.9, 11.6}
	order := []string{
		domain.StatHPPercent,
		domain.StatATKPercent,
		domain.StatDEFPercent,
		domain.StatCritRate,
		domain.StatCritDamage,
		domain.StatHPFlat,
		domain.StatATKFlat,
		domain.StatDEFFlat,
		domain.StatResonanceEfficiency,
		"normal_attack_dmg_up",
		"heavy_attack_dmg_up",
		"resonance_skill_dmg_up",
		"resonance_liberation_dmg_up",
	}
	tiers := map[string][]float64{
		domain.StatHPPercent:           percent,
		domain.StatATKPercent:          percent,
		domain.StatDEFPercent:          {8.1, 9.0, 10.0, 10.9, 11.8, 12.8, 13.6, 14.7},
		domain.StatCritRate:            {6.3, 6.9, 7.5, 8.1, 8.7, 9.3, 9.9, 10.5},
		domain.StatCritDamage:          {12.6, 13.8, 15.0, 16.2, 17.4, 18.6, 19.8, 21.0},
		domain.StatHPFlat:              {320, 360, 390, 430, 470, 510, 540, 580},
		domain.StatATKFlat:             {30, 30, 40, 40, 50, 50, 60, 60},
		domain.StatDEFFlat:             {40, 40, 50, 50, 60, 60, 70, 70},
		domain.StatResonanceEfficiency: {6.8, 7.6, 8.4, 9.2, 10.0, 10.8, 11.6, 12.4},
		"normal_attack_dmg_up":         percent,
		"heavy_attack_dmg_up":          percent,
		"resonance_skill_dmg_up":       percent,
		"resonance_liberation_dmg_up":  percent,
	}
	return tiers, order
}

// MainStats lists the main stat options of a cost tier, in table order.
func (r *Registry) MainStats(cost int) []domain.Stat {
	return slices.Clone(r.mainStats[cost])
}

func (r *Registry) MainStatValue(cost int, key string) (float64, bool) {
	for _, s := range r.mainStats[cost] {
		if s.Key == key {
			return s.Value, true
		}
	}
	return 0, false
}

// FixedMainStat is the bonus main stat every echo of a cost tier carries.
func (r *Registry) FixedMainStat(cost int) (domain.Stat, bool) {
	s, ok := r.fixedMain[cost]
	return s, ok
}

// SubStatKeys lists the sub stats in table order.
func (r *Registry) SubStatKeys() []string {
	return slices.Clone(r.subOrder)
}

// SubStatValue returns the value of a sub stat at a 0-based roll tier.
func (r *Registry) SubStatValue(key string, tier int) (float64, bool) {
	values, ok := r.subTiers[key]
	if !ok || tier < 0 || tier >= len(values) {
		return 0, false
	}
	return values[tier], true
}

// IsCostTier reports whether echoes of this cost exist.
func (r *Registry) IsCostTier(cost int) bool {
	_, ok := r.mainStats[cost]
	return ok
}
