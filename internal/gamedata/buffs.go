package gamedata

import (
	"fmt"
	"maps"
	"slices"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
)

// GatherBuffs collects the conditional buffs of a team and an optional stage into one table.
// Keys are "<character>/<buff>", "<character>/c<N>/<buff>", "<character>/weapon/<buff>",
// "<character>/echo/<buff>" and "stage_<buff>". Owners are filled in.
// Constellation buffs the owner has not unlocked are left out; the rest are gated on the owner
// here, so their MinConstellation is cleared.
func GatherBuffs(team []*domain.Build, stage *domain.StageEffect) domain.BuffTable {
	out := domain.BuffTable{}
	for _, b := range team {
		owner := b.Name()
		if owner == "" {
			continue
		}
		c := b.Character
		addOwned(out, owner+"/", owner, b.Constellation, c.Buffs)
		for _, lvl := range slices.Sorted(maps.Keys(c.Constellations)) {
			if lvl > b.Constellation {
				continue
			}
			addOwned(out, fmt.Sprintf("%s/c%d/", owner, lvl), owner, b.Constellation, c.Constellations[lvl].Buffs)
		}
		if b.Weapon != nil {
			addOwned(out, owner+"/weapon/", owner, b.Constellation, b.Weapon.Buffs)
		}
		if b.EchoSkill != nil {
			addOwned(out, owner+"/echo/", owner, b.Constellation, b.EchoSkill.Buffs)
		}
	}
	if stage != nil {
		for key, buff := range stage.Buffs {
			buff.Owner = domain.StageOwner
			out["stage_"+key] = buff
		}
	}
	return out
}

func addOwned(out domain.BuffTable, prefix, owner string, constellation int, buffs domain.BuffTable) {
	for key, buff := range buffs {
		if buff.MinConstellation > constellation {
			continue
		}
		buff.Owner = owner
		buff.MinConstellation = 0
		out[prefix+key] = buff
	}
}
