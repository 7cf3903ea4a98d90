package gamedata

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/registry"
)

// Check logs every stat key the registry does not know. Unknown keys are not fatal: they add to
// stats nothing reads.
func (d *Data) Check(reg *registry.Registry, logger *zap.Logger) int {
	unknown := 0
	warn := func(sheet, where, key string) {
		if key == "" || reg.KnownStat(key) {
			return
		}
		unknown++
		logger.Warn("unknown stat key", zap.String("sheet", sheet), zap.String("where", where), zap.String("key", key))
	}

	for _, name := range slices.Sorted(maps.Keys(d.Characters)) {
		c := d.Characters[name]
		for _, s := range c.InnateStats {
			warn(name, "innate_stats", s.Key)
		}
		checkBuffs(c.Buffs, name, warn)
		for _, con := range c.Constellations {
			checkBuffs(con.Buffs, name, warn)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(d.Weapons)) {
		w := d.Weapons[name]
		warn(name, "sub_stat", w.SubStat.Key)
		checkBuffs(w.Buffs, name, warn)
	}
	for _, name := range slices.Sorted(maps.Keys(d.Harmonies)) {
		h := d.Harmonies[name]
		for _, tier := range []domain.HarmonyTier{h.Set2, h.Set3, h.Set5} {
			checkBuffs(tier.Buffs, name, warn)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(d.EchoSkills)) {
		checkBuffs(d.EchoSkills[name].Buffs, name, warn)
	}
	for _, name := range slices.Sorted(maps.Keys(d.StageEffects)) {
		checkBuffs(d.StageEffects[name].Buffs, name, warn)
	}
	return unknown
}

func checkBuffs(buffs domain.BuffTable, sheet string, warn func(sheet, where, key string)) {
	for _, key := range slices.Sorted(maps.Keys(buffs)) {
		for _, eff := range buffs[key].Effects {
			switch e := eff.(type) {
			case domain.SimpleAdd:
				warn(sheet, key, e.Stat)
			case domain.DamageMultiplierUp:
				warn(sheet, key, e.Stat)
			case domain.Stacking:
				warn(sheet, key, e.Stat)
			case domain.StatConversion:
				warn(sheet, key, e.Source)
				warn(sheet, key, e.Dest)
			}
		}
	}
}
