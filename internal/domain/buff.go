package domain

// StageOwner owns buffs that come from the stage rather than a team member.
const StageOwner = "Stage"

// Target scopes.
const (
	TargetSelf   = "self"
	TargetTeam   = "team"
	TargetSingle = "single"
)

// Trigger sources, events and timings.
const (
	SourceSelf = "self"
	SourceTeam = "team"

	EventAlways = "always"
	EventHeal   = "heal"

	// EventSkillPrefix marks an event that names one skill, e.g. "skill:Heavenly Strike".
	EventSkillPrefix = "skill:"

	TimingOnCast = "on_cast"
	TimingOnHit  = "on_hit"
)

type Trigger struct {
	Event  string `yaml:"event"`
	Source string `yaml:"source"`
	Timing string `yaml:"timing"`
}

// EffectiveTiming defaults an empty timing to on-cast.
func (t Trigger) EffectiveTiming() string {
	if t.Timing == "" {
		return TimingOnCast
	}
	return t.Timing
}

type Buff struct {
	Description      string     `yaml:"description"`
	Triggers         []Trigger  `yaml:"triggers"`
	Target           string     `yaml:"target"`
	Effects          EffectList `yaml:"effects"`
	MinConstellation int        `yaml:"constellation"`
	Owner            string     `yaml:"owner"`
	Transient        bool       `yaml:"transient"`
}

// TargetScope defaults an empty target to self.
func (b Buff) TargetScope() string {
	if b.Target == "" {
		return TargetSelf
	}
	return b.Target
}

// Stacking reports whether the buff is a stacking buff, judged by its first effect.
func (b Buff) Stacking() (Stacking, bool) {
	if len(b.Effects) == 0 {
		return Stacking{}, false
	}
	s, ok := b.Effects[0].(Stacking)
	return s, ok
}

// BuffTable maps a buff key to its definition.
type BuffTable map[string]Buff

// BuffStatus is the state of one active buff. Stacks is 0 for non-stacking buffs;
// Target names the chosen teammate for single-target buffs.
type BuffStatus struct {
	Stacks int
	Target string
}

// ActiveBuffs maps buff keys to their current status.
type ActiveBuffs map[string]BuffStatus

func (a ActiveBuffs) Clone() ActiveBuffs {
	out := make(ActiveBuffs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
