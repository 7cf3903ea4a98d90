// Package calc holds the pure stat and damage math: build aggregation, buff folding and the damage formulas.
package calc

import (
	"maps"
	"slices"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/registry"
)

// Display is the character-sheet view of a build.
type Display struct {
	HP          float64
	ATK         float64
	DEF         float64
	CritRate    float64
	CritDamage  float64
	Efficiency  float64
	AllDamageUp float64
	ElementalUp map[string]float64
}

// Baseline is a build's stats before any buff.
type Baseline struct {
	Display Display
	Raw     domain.Attributes
	Bases   domain.Bases
}

// Aggregate merges a build's static stat sources into its baseline.
func Aggregate(reg *registry.Registry, b *domain.Build) Baseline {
	raw := domain.NewAttributes()

	if b.Character != nil {
		for _, s := range b.Character.InnateStats {
			raw.Add(s.Key, s.Value)
		}
	}

	for _, echo := range b.Echoes {
		if echo.Cost == 0 {
			continue
		}
		if echo.Main != nil {
			raw.Add(echo.Main.Key, echo.Main.Value)
		}
		if fixed, ok := reg.FixedMainStat(echo.Cost); ok {
			raw.Add(fixed.Key, fixed.Value)
		}
		for _, s := range echo.Subs {
			raw.Add(s.Key, s.Value)
		}
	}

	applyHarmonies(raw, b.Harmony1, b.Harmony2)

	var bases domain.Bases
	if b.Character != nil {
		bases = domain.Bases{HP: b.Character.BaseHP, ATK: b.Character.BaseATK, DEF: b.Character.BaseDEF}
	}
	if b.Weapon != nil {
		raw.Add(b.Weapon.SubStat.Key, b.Weapon.SubStat.Value)
		bases.ATK += b.Weapon.BaseATK
	}

	return Baseline{
		Display: display(reg, raw, bases),
		Raw:     raw,
		Bases:   bases,
	}
}

func display(reg *registry.Registry, raw domain.Attributes, bases domain.Bases) Display {
	hp, atk, def := raw.Final(bases)
	d := Display{
		HP:          hp,
		ATK:         atk,
		DEF:         def,
		CritRate:    raw[domain.StatCritRate],
		CritDamage:  raw[domain.StatCritDamage],
		Efficiency:  raw[domain.StatResonanceEfficiency],
		AllDamageUp: raw[domain.StatAllDamageUp],
		ElementalUp: map[string]float64{},
	}
	for _, e := range reg.Elements() {
		key, _ := reg.ElementalUpKey(reg.ElementTag(e))
		d.ElementalUp[e] = raw[key]
	}
	return d
}

// applyHarmonies adds set-bonus stats. Two copies of one set unlock the 2/3/5 tiers;
// two different sets only reach their 2/3 tiers.
func applyHarmonies(raw domain.Attributes, h1, h2 *domain.Harmony) {
	switch {
	case h1 == nil && h2 == nil:
		return
	case h1 != nil && h2 != nil && h1.Name == h2.Name:
		applyTiers(raw, h1, 2, 3, 5)
	default:
		applyTiers(raw, h1, 2, 3)
		applyTiers(raw, h2, 2, 3)
	}
}

func applyTiers(raw domain.Attributes, h *domain.Harmony, pieces ...int) {
	if h == nil {
		return
	}
	for _, n := range pieces {
		tier, ok := h.Tier(n)
		if !ok || !tier.Enabled {
			continue
		}
		for _, key := range slices.Sorted(maps.Keys(tier.Buffs)) {
			for _, eff := range tier.Buffs[key].Effects {
				switch e := eff.(type) {
				case domain.SimpleAdd:
					raw.Add(e.Stat, e.Value.At(1))
				case domain.DamageMultiplierUp:
					raw.Add(e.Stat, e.Value.At(1))
				}
			}
		}
	}
}
