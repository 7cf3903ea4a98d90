package domain

// Action is one step of a rotation timeline.
type Action struct {
	Character string `yaml:"character"`
	Skill     string `yaml:"skill"`
	// SkillData overrides the looked-up skill sheet.
	SkillData *Skill `yaml:"skill_data"`
	// Stacks is the abnormal-status stack count; 0 means 1.
	Stacks int `yaml:"stacks"`

	Disabled          []string          `yaml:"disabled_buffs"`
	StackOverrides    map[string]int    `yaml:"buff_stacks"`
	TargetAssignments map[string]string `yaml:"buff_targets"`
	ConcertoGain      *float64          `yaml:"concerto_gain"`
	ResonanceGain     *float64          `yaml:"resonance_gain"`
}

func (a Action) IsDisabled(key string) bool {
	for _, d := range a.Disabled {
		if d == key {
			return true
		}
	}
	return false
}

// Phase is an ordered action list plus optional time markers (one per action, true = counts as a second).
type Phase struct {
	Actions   []Action `yaml:"actions"`
	TimeMarks []bool   `yaml:"time_marks"`
}

// ElapsedTime is the number of true markers when markers are supplied, else 1.5 per action.
func (p Phase) ElapsedTime() float64 {
	if len(p.TimeMarks) > 0 {
		return p.MarkedTime()
	}
	return p.EstimatedTime()
}

// MarkedTime counts the true markers only.
func (p Phase) MarkedTime() float64 {
	marked := 0
	for _, m := range p.TimeMarks {
		if m {
			marked++
		}
	}
	return float64(marked)
}

func (p Phase) EstimatedTime() float64 {
	return float64(len(p.Actions)) * 1.5
}

type Enemy struct {
	Level int `yaml:"level"`
	// Resistances per element in percent. Missing elements use the registry default.
	Resistances map[string]float64 `yaml:"resistances"`
}

type Energy struct {
	Concerto  float64
	Resonance float64
}

// EnergyState holds per-character energy pools.
type EnergyState map[string]Energy

func (s EnergyState) Clone() EnergyState {
	out := make(EnergyState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
