// Package rotation walks a rotation timeline: it resolves buffs per action, evaluates damage
// and tracks concerto/resonance energy for every team member.
package rotation

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/AoTofu/wuwa-calc-web/internal/calc"
	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/registry"
)

type member struct {
	build    *domain.Build
	baseline calc.Baseline
}

// Engine runs rotations for one team against one enemy. Its inputs are never modified,
// so one Engine can serve concurrent runs as long as each run has its own RNG.
type Engine struct {
	reg    *registry.Registry
	eval   *calc.Evaluator
	team   []member
	index  map[string]int
	buffs  domain.BuffTable
	ignore string
	logger *zap.Logger

	persistentKeys []string
	transientKeys  []string
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithIgnoredBuff leaves one buff key out of every step.
func WithIgnoredBuff(key string) Option {
	return func(e *Engine) { e.ignore = key }
}

func New(reg *registry.Registry, team []*domain.Build, buffs domain.BuffTable, enemy domain.Enemy, opts ...Option) *Engine {
	e := &Engine{
		reg:    reg,
		eval:   calc.NewEvaluator(reg, enemy),
		index:  make(map[string]int, len(team)),
		buffs:  buffs,
		logger: zap.NewNop(),
	}
	for _, b := range team {
		name := b.Name()
		if name == "" {
			continue
		}
		if _, dup := e.index[name]; dup {
			continue
		}
		e.index[name] = len(e.team)
		e.team = append(e.team, member{build: b, baseline: calc.Aggregate(reg, b)})
	}
	for _, key := range slices.Sorted(maps.Keys(buffs)) {
		if buffs[key].Transient {
			e.transientKeys = append(e.transientKeys, key)
		} else {
			e.persistentKeys = append(e.persistentKeys, key)
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Members lists the team in order.
func (e *Engine) Members() []string {
	out := make([]string, len(e.team))
	for i, m := range e.team {
		out[i] = m.build.Name()
	}
	return out
}

// Baseline returns a member's unbuffed stats.
func (e *Engine) Baseline(name string) (calc.Baseline, bool) {
	i, ok := e.index[name]
	if !ok {
		return calc.Baseline{}, false
	}
	return e.team[i].baseline, true
}

// Entry is the log record of one resolved action.
type Entry struct {
	Character     string
	Skill         string
	Damage        float64
	TotalDamage   float64
	Diagnostic    calc.Diagnostic
	Breakdown     []calc.Term
	ConcertoGain  float64
	ResonanceGain float64
	Concerto      float64
	Resonance     float64
	// Buffs is every buff active during the action, persistent and transient.
	Buffs domain.ActiveBuffs
}

type PhaseResult struct {
	Log         []Entry
	TotalDamage float64
	ElapsedTime float64
	Energy      domain.EnergyState
}

// Result holds both phases side by side.
type Result struct {
	Initial PhaseResult
	Loop    PhaseResult
}

// Run plays the initial phase from empty energy, then the loop phase from where the initial phase ended.
// A nil rng runs in deterministic expected-value mode.
func (e *Engine) Run(initial, loop domain.Phase, rng calc.RNG) Result {
	first := e.RunPhase(initial, domain.EnergyState{}, rng)
	second := e.RunPhase(loop, first.Energy, rng)
	return Result{Initial: first, Loop: second}
}

// RunPhase resolves one timeline. energy is not modified. An empty phase returns energy unchanged.
func (e *Engine) RunPhase(phase domain.Phase, energy domain.EnergyState, rng calc.RNG) PhaseResult {
	if len(phase.Actions) == 0 {
		return PhaseResult{Energy: energy}
	}

	s := &phaseState{
		energy: energy.Clone(),
		carry:  domain.ActiveBuffs{},
		det:    rng == nil,
		rng:    rng,
	}
	for i, a := range phase.Actions {
		e.step(s, i, a)
	}

	return PhaseResult{
		Log:         s.log,
		TotalDamage: s.total,
		ElapsedTime: phase.ElapsedTime(),
		Energy:      s.energy,
	}
}
