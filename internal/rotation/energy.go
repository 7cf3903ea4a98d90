package rotation

import (
	"github.com/AoTofu/wuwa-calc-web/internal/calc"
	"github.com/AoTofu/wuwa-calc-web/internal/domain"
)

const maxConcerto = 100.0

// accountEnergy applies the action's concerto and resonance gains and returns the gains credited to the actor.
func (e *Engine) accountEnergy(s *phaseState, a domain.Action, ctx triggerContext, skill domain.Skill, hasSkill bool, active domain.ActiveBuffs) (concerto, resonance float64) {
	outro := skill.HasActivation(domain.ActivationOutro)
	liberation := skill.HasActivation(domain.ActivationLiberation)

	if hasSkill && !outro {
		concerto = skill.ConcertoEnergy
	}
	if a.ConcertoGain != nil {
		concerto = *a.ConcertoGain
	}

	if hasSkill {
		resonance = skill.ResonanceFlat + skill.ResonanceScaling*e.efficiency(ctx.actor, active)/100
	}
	teammates := map[string]float64{}
	for _, key := range e.energyBuffs(a, ctx) {
		buff := e.buffs[key]
		rank := e.ownerRank(buff.Owner)
		for _, receiver := range e.energyTargets(buff, key, a, ctx.actor) {
			var gain float64
			for _, eff := range buff.Effects {
				switch v := eff.(type) {
				case domain.FixedEnergyGain:
					gain += v.Value.At(rank)
				case domain.ScalingEnergyGain:
					gain += v.Value.At(rank) * e.efficiency(receiver, active) / 100
				}
			}
			if gain == 0 {
				continue
			}
			if receiver == ctx.actor {
				resonance += gain
			} else {
				teammates[receiver] += gain
			}
		}
	}
	if a.ResonanceGain != nil {
		resonance = *a.ResonanceGain
	}

	cur := s.energy[ctx.actor]
	if outro {
		cur.Concerto = 0
	}
	cur.Concerto = clamp(cur.Concerto+concerto, 0, maxConcerto)
	cur.Resonance += resonance
	s.energy[ctx.actor] = cur

	for name, gain := range teammates {
		if _, ok := e.index[name]; !ok {
			continue
		}
		en := s.energy[name]
		en.Resonance += gain
		s.energy[name] = en
	}

	if liberation {
		cur = s.energy[ctx.actor]
		cur.Resonance = 0
		s.energy[ctx.actor] = cur
	}

	for _, m := range e.team {
		name := m.build.Name()
		en, ok := s.energy[name]
		if !ok {
			continue
		}
		en.Resonance = clamp(en.Resonance, 0, m.build.Character.ResonanceMax())
		en.Concerto = clamp(en.Concerto, 0, maxConcerto)
		s.energy[name] = en
	}
	return concerto, resonance
}

// energyBuffs lists the buffs this action triggers that carry an energy effect.
func (e *Engine) energyBuffs(a domain.Action, ctx triggerContext) []string {
	var out []string
	for _, keys := range [][]string{e.persistentKeys, e.transientKeys} {
		for _, key := range keys {
			buff := e.buffs[key]
			if key == e.ignore || a.IsDisabled(key) || !hasEnergyEffect(buff) {
				continue
			}
			if e.triggered(buff, ctx) {
				out = append(out, key)
			}
		}
	}
	return out
}

func hasEnergyEffect(b domain.Buff) bool {
	for _, eff := range b.Effects {
		switch eff.(type) {
		case domain.FixedEnergyGain, domain.ScalingEnergyGain:
			return true
		}
	}
	return false
}

func (e *Engine) energyTargets(buff domain.Buff, key string, a domain.Action, actor string) []string {
	switch buff.TargetScope() {
	case domain.TargetSelf:
		if buff.Owner == domain.StageOwner {
			return []string{actor}
		}
		return []string{buff.Owner}
	case domain.TargetTeam:
		return e.Members()
	case domain.TargetSingle:
		return []string{e.singleTarget(key, a, actor)}
	}
	return nil
}

// efficiency is a member's resonance efficiency under the given persistent snapshot.
func (e *Engine) efficiency(name string, active domain.ActiveBuffs) float64 {
	i, ok := e.index[name]
	if !ok {
		return domain.DefaultResonanceEfficiency
	}
	m := e.team[i]
	stats := calc.ResolveBuffs(m.baseline.Raw, active, name, e.buffs, m.build.Constellation, m.build.Rank(), e.ignore)
	return stats[domain.StatResonanceEfficiency]
}

func (e *Engine) ownerRank(owner string) int {
	if i, ok := e.index[owner]; ok {
		return e.team[i].build.Rank()
	}
	return 1
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
