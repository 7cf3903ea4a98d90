package domain

// Activation tags with engine-level meaning.
const (
	ActivationNormalAttack = "normal_attack"
	ActivationHeavyAttack  = "heavy_attack"
	ActivationSkill        = "resonance_skill"
	ActivationLiberation   = "resonance_liberation"
	ActivationIntro        = "intro_skill"
	ActivationOutro        = "outro_skill"
	ActivationEcho         = "echo_skill"
)

// Reference stats a skill multiplier can scale from.
const (
	RefATK = "atk"
	RefHP  = "hp"
	RefDEF = "def"
)

type Stat struct {
	Key   string  `yaml:"key"`
	Value float64 `yaml:"value"`
}

type Skill struct {
	Name             string   `yaml:"name"`
	Multiplier       float64  `yaml:"multiplier"`
	Reference        string   `yaml:"attribute"`
	ActivationTags   []string `yaml:"activation_tags"`
	DamageTags       []string `yaml:"damage_tags"`
	ConcertoEnergy   float64  `yaml:"concerto_energy"`
	ResonanceFlat    float64  `yaml:"resonance_gain_flat"`
	ResonanceScaling float64  `yaml:"resonance_gain_scaling"`
	Healing          bool     `yaml:"healing"`
}

func (s Skill) HasActivation(tag string) bool {
	for _, t := range s.ActivationTags {
		if t == tag {
			return true
		}
	}
	return false
}

type Constellation struct {
	Buffs  BuffTable `yaml:"buffs"`
	Skills []Skill   `yaml:"skills"`
}

type Character struct {
	Name              string                `yaml:"name"`
	Attribute         string                `yaml:"attribute"`
	WeaponType        string                `yaml:"weapon_type"`
	BaseHP            float64               `yaml:"base_hp"`
	BaseATK           float64               `yaml:"base_atk"`
	BaseDEF           float64               `yaml:"base_def"`
	ResonanceRequired float64               `yaml:"resonance_energy_required"`
	InnateStats       []Stat                `yaml:"innate_stats"`
	Skills            []Skill               `yaml:"skills"`
	Buffs             BuffTable             `yaml:"buffs"`
	Constellations    map[int]Constellation `yaml:"constellations"`
}

// ResonanceMax is the resonance energy cap; unset sheets cap at 1.
func (c *Character) ResonanceMax() float64 {
	if c == nil || c.ResonanceRequired <= 0 {
		return 1
	}
	return c.ResonanceRequired
}

type Weapon struct {
	Name       string    `yaml:"name"`
	WeaponType string    `yaml:"weapon_type"`
	BaseATK    float64   `yaml:"base_atk"`
	SubStat    Stat      `yaml:"sub_stat"`
	Buffs      BuffTable `yaml:"buffs"`
}

type HarmonyTier struct {
	Enabled bool      `yaml:"enabled"`
	Buffs   BuffTable `yaml:"buffs"`
	Skills  []Skill   `yaml:"skills"`
}

type Harmony struct {
	Name string      `yaml:"name"`
	Set2 HarmonyTier `yaml:"set2"`
	Set3 HarmonyTier `yaml:"set3"`
	Set5 HarmonyTier `yaml:"set5"`
}

// Tier returns the 2/3/5-piece tier.
func (h *Harmony) Tier(pieces int) (HarmonyTier, bool) {
	if h == nil {
		return HarmonyTier{}, false
	}
	switch pieces {
	case 2:
		return h.Set2, true
	case 3:
		return h.Set3, true
	case 5:
		return h.Set5, true
	}
	return HarmonyTier{}, false
}

type EchoSkill struct {
	Name   string    `yaml:"name"`
	Skills []Skill   `yaml:"skills"`
	Buffs  BuffTable `yaml:"buffs"`
}

type StageEffect struct {
	Name   string    `yaml:"name"`
	Skills []Skill   `yaml:"skills"`
	Buffs  BuffTable `yaml:"buffs"`
}

// Echo is one gear piece. Cost 0 marks an empty slot.
type Echo struct {
	Name string `yaml:"name"`
	Cost int    `yaml:"cost"`
	Main *Stat  `yaml:"main_stat"`
	Subs []Stat `yaml:"sub_stats"`
}

type Build struct {
	Character     *Character
	Weapon        *Weapon
	WeaponRank    int
	Constellation int
	Harmony1      *Harmony
	Harmony2      *Harmony
	EchoSkill     *EchoSkill
	Echoes        [5]Echo
}

func (b *Build) Name() string {
	if b == nil || b.Character == nil {
		return ""
	}
	return b.Character.Name
}

// Rank returns the weapon rank clamped to 1..5.
func (b *Build) Rank() int {
	switch {
	case b.WeaponRank < 1:
		return 1
	case b.WeaponRank > 5:
		return 5
	}
	return b.WeaponRank
}

// FindSkill looks a skill up on the character, its unlocked constellations, the echo skill and the equipped harmonies.
func (b *Build) FindSkill(name string) (Skill, bool) {
	if b.Character != nil {
		for _, s := range b.Character.Skills {
			if s.Name == name {
				return s, true
			}
		}
		for lvl := 1; lvl <= b.Constellation; lvl++ {
			for _, s := range b.Character.Constellations[lvl].Skills {
				if s.Name == name {
					return s, true
				}
			}
		}
	}
	if b.EchoSkill != nil {
		for _, s := range b.EchoSkill.Skills {
			if s.Name == name {
				return s, true
			}
		}
	}
	for _, h := range []*Harmony{b.Harmony1, b.Harmony2} {
		if h == nil {
			continue
		}
		for _, tier := range []HarmonyTier{h.Set2, h.Set3, h.Set5} {
			for _, s := range tier.Skills {
				if s.Name == name {
					return s, true
				}
			}
		}
	}
	return Skill{}, false
}
