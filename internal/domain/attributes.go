package domain

// Stat keys the engine reads directly. Everything else in the vocabulary lives in the registry.
const (
	StatHPPercent            = "hp_percent"
	StatATKPercent           = "atk_percent"
	StatDEFPercent           = "def_percent"
	StatHPFlat               = "hp_flat"
	StatATKFlat              = "atk_flat"
	StatDEFFlat              = "def_flat"
	StatCritRate             = "crit_rate"
	StatCritDamage           = "crit_damage"
	StatResonanceEfficiency  = "resonance_efficiency"
	StatAllDamageUp          = "all_damage_up"
	StatGenericBoost         = "generic_dmg_boost"
	StatSkillMultiplierBonus = "skill_multiplier_bonus"
	StatDefShred             = "def_shred"
	StatResShred             = "res_shred"
	StatDamageTakenUp        = "dmg_taken_up"
	StatHealBonus            = "heal_bonus"
)

const (
	DefaultCritRate            = 5.0
	DefaultCritDamage          = 150.0
	DefaultResonanceEfficiency = 100.0
)

// Attributes is a stat key -> value vector. Missing keys read as zero.
type Attributes map[string]float64

// NewAttributes returns a vector seeded with the baseline crit and efficiency values.
func NewAttributes() Attributes {
	return Attributes{
		StatCritRate:            DefaultCritRate,
		StatCritDamage:          DefaultCritDamage,
		StatResonanceEfficiency: DefaultResonanceEfficiency,
	}
}

func (a Attributes) Add(key string, v float64) {
	if key == "" {
		return
	}
	a[key] += v
}

func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Bases is the base HP/ATK/DEF triple the percentage stats scale from.
type Bases struct {
	HP  float64
	ATK float64
	DEF float64
}

// Final folds percent/flat pairs onto the bases.
func (a Attributes) Final(b Bases) (hp, atk, def float64) {
	hp = b.HP*(1+a[StatHPPercent]/100) + a[StatHPFlat]
	atk = b.ATK*(1+a[StatATKPercent]/100) + a[StatATKFlat]
	def = b.DEF*(1+a[StatDEFPercent]/100) + a[StatDEFFlat]
	return hp, atk, def
}
