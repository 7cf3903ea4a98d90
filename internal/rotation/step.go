package rotation

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/AoTofu/wuwa-calc-web/internal/calc"
	"github.com/AoTofu/wuwa-calc-web/internal/domain"
)

type phaseState struct {
	energy domain.EnergyState
	// carry is the persistent buff snapshot handed to the next action.
	carry domain.ActiveBuffs
	total float64
	log   []Entry
	det   bool
	rng   calc.RNG
}

type triggerContext struct {
	actor   string
	skill   string
	tags    []string
	healing bool
}

func (e *Engine) step(s *phaseState, i int, a domain.Action) {
	actor := a.Character
	if actor == "" {
		if _, ok := e.reg.Abnormal(a.Skill); !ok || len(e.team) == 0 {
			e.logger.Debug("skip action without character", zap.Int("action", i), zap.String("skill", a.Skill))
			return
		}
		actor = e.team[0].build.Name()
	}
	idx, ok := e.index[actor]
	if !ok {
		e.logger.Debug("skip action for character outside the team", zap.Int("action", i), zap.String("character", actor))
		return
	}
	m := e.team[idx]
	build := m.build

	skill, hasSkill := e.skillFor(build, a)
	ctx := triggerContext{actor: actor, skill: a.Skill, tags: skill.ActivationTags, healing: skill.Healing}

	persistent := s.carry.Clone()
	for _, key := range e.persistentKeys {
		buff := e.buffs[key]
		if !e.triggered(buff, ctx) {
			continue
		}
		if a.IsDisabled(key) {
			delete(persistent, key)
			continue
		}
		status, keep := e.status(buff, key, a, actor)
		if !keep {
			delete(persistent, key)
			continue
		}
		persistent[key] = status
	}
	s.carry = persistent

	rank := build.Rank()
	stats := calc.ResolveBuffs(m.baseline.Raw, persistent, actor, e.buffs, build.Constellation, rank, e.ignore)

	fired := domain.ActiveBuffs{}
	for _, key := range e.transientKeys {
		buff := e.buffs[key]
		if key == e.ignore || a.IsDisabled(key) || buff.MinConstellation > build.Constellation {
			continue
		}
		if !e.triggered(buff, ctx) {
			continue
		}
		status, keep := e.status(buff, key, a, actor)
		if !keep {
			continue
		}
		calc.ApplyEffects(stats, buff.Effects, status.Stacks, rank)
		fired[key] = status
	}

	var dmg calc.Damage
	switch {
	case e.isAbnormal(a.Skill):
		dmg = e.eval.AbnormalDamage(a.Skill, a.Stacks, stats, s.det)
	case hasSkill:
		element := ""
		if build.Character != nil {
			element = build.Character.Attribute
		}
		dmg = e.eval.SkillDamage(calc.FinalFrom(stats, m.baseline.Bases), stats, skill, element, s.rng)
	case s.det:
		dmg = calc.Damage{Diagnostic: calc.DiagMissingSkill}
	}
	if dmg.Diagnostic != calc.DiagNone {
		e.logger.Debug("damage diagnostic", zap.Int("action", i), zap.String("skill", a.Skill), zap.String("diagnostic", string(dmg.Diagnostic)))
	}

	concertoGain, resonanceGain := e.accountEnergy(s, a, ctx, skill, hasSkill, persistent)

	s.total += dmg.Value
	if !s.det {
		return
	}
	visible := persistent.Clone()
	for k, v := range fired {
		visible[k] = v
	}
	en := s.energy[actor]
	s.log = append(s.log, Entry{
		Character:     actor,
		Skill:         a.Skill,
		Damage:        dmg.Value,
		TotalDamage:   s.total,
		Diagnostic:    dmg.Diagnostic,
		Breakdown:     dmg.Breakdown,
		ConcertoGain:  concertoGain,
		ResonanceGain: resonanceGain,
		Concerto:      en.Concerto,
		Resonance:     en.Resonance,
		Buffs:         visible,
	})
}

func (e *Engine) skillFor(build *domain.Build, a domain.Action) (domain.Skill, bool) {
	if a.SkillData != nil {
		return *a.SkillData, true
	}
	if a.Skill == "" {
		return domain.Skill{}, false
	}
	return build.FindSkill(a.Skill)
}

func (e *Engine) isAbnormal(name string) bool {
	_, ok := e.reg.Abnormal(name)
	return ok
}

// status builds the snapshot entry for a triggered buff. keep is false when a forced stack count of zero removes it.
func (e *Engine) status(buff domain.Buff, key string, a domain.Action, actor string) (domain.BuffStatus, bool) {
	var status domain.BuffStatus
	if st, ok := buff.Stacking(); ok {
		n := st.MaxStacks
		if forced, ok := a.StackOverrides[key]; ok {
			n = forced
		}
		if n <= 0 {
			return status, false
		}
		status.Stacks = n
	}
	if buff.TargetScope() == domain.TargetSingle {
		status.Target = e.singleTarget(key, a, actor)
	}
	return status, true
}

func (e *Engine) singleTarget(key string, a domain.Action, actor string) string {
	if t := a.TargetAssignments[key]; t != "" {
		return t
	}
	return e.defaultTarget(actor)
}

// defaultTarget is the teammate after actor, wrapping around. A solo team targets itself.
func (e *Engine) defaultTarget(actor string) string {
	if len(e.team) == 0 {
		return ""
	}
	if len(e.team) == 1 {
		if actor != "" {
			return actor
		}
		return e.team[0].build.Name()
	}
	i, ok := e.index[actor]
	if !ok {
		return e.team[0].build.Name()
	}
	return e.team[(i+1)%len(e.team)].build.Name()
}

func (e *Engine) triggered(buff domain.Buff, ctx triggerContext) bool {
	for _, t := range buff.Triggers {
		if e.sourceMatches(t, buff.Owner, ctx) && eventMatches(t, ctx) &&
			(t.EffectiveTiming() == domain.TimingOnCast || t.Event == domain.EventAlways) {
			return true
		}
	}
	return false
}

func (e *Engine) sourceMatches(t domain.Trigger, owner string, ctx triggerContext) bool {
	switch t.Source {
	case domain.SourceSelf:
		return owner == ctx.actor
	case domain.SourceTeam:
		if owner == domain.StageOwner {
			return true
		}
		_, ok := e.index[owner]
		return ok
	}
	return false
}

func eventMatches(t domain.Trigger, ctx triggerContext) bool {
	switch {
	case t.Event == domain.EventAlways:
		return true
	case slices.Contains(ctx.tags, t.Event):
		return true
	case t.Event == domain.EventHeal:
		return ctx.healing
	}
	if name, ok := strings.CutPrefix(t.Event, domain.EventSkillPrefix); ok {
		return strings.TrimSpace(name) == ctx.skill
	}
	return false
}
