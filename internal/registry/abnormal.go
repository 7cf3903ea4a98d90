package registry

// AbnormalEffect is a stack-scaled damage-over-time or detonation effect.
type AbnormalEffect struct {
	Name        string
	Element     string
	Coefficient float64
	// Multipliers is indexed by stack count - 1.
	Multipliers []float64
	// Past LinearFrom stacks the multiplier grows by LinearStep per stack. Zero step disables it.
	LinearFrom int
	LinearStep float64
}

func (e AbnormalEffect) DamageTag() string { return e.Name + damageTagSuffix }
func (e AbnormalEffect) BoostKey() string  { return e.Element + "_effect_dmg_boost" }

// StackMultiplier returns the table multiplier for a stack count. Counts below 1 read as 1.
func (e AbnormalEffect) StackMultiplier(stacks int) float64 {
	if len(e.Multipliers) == 0 {
		return 1
	}
	if stacks < 1 {
		stacks = 1
	}
	last := e.Multipliers[len(e.Multipliers)-1]
	if e.LinearStep > 0 && stacks > e.LinearFrom {
		return last + float64(stacks-e.LinearFrom)*e.LinearStep
	}
	return e.Multipliers[min(stacks, len(e.Multipliers))-1]
}

func defaultAbnormalEffects() map[string]AbnormalEffect {
	effects := []AbnormalEffect{
		{
			Name:        "spectro_frazzle",
			Element:     "spectro",
			Coefficient: 1.0,
			Multipliers: []float64{1, 1.811, 2.624, 3.436, 4.249, 5.06, 5.873, 6.685, 7.496, 8.309},
			LinearFrom:  10,
			LinearStep:  1.812,
		},
		{
			Name:        "aero_erosion",
			Element:     "aero",
			Coefficient: 1.5,
			Multipliers: []float64{1, 2.5, 5, 7.5, 10, 12.5, 15, 17.5, 20},
		},
		{Name: "fusion_burst", Element: "fusion", Coefficient: 19, Multipliers: []float64{1}},
		{Name: "havoc_bane", Element: "havoc", Coefficient: 10, Multipliers: []float64{1}},
	}
	out := make(map[string]AbnormalEffect, len(effects))
	for _, e := range effects {
		out[e.Name] = e
	}
	return out
}

// Abnormal looks an abnormal effect up by name.
func (r *Registry) Abnormal(name string) (AbnormalEffect, bool) {
	e, ok := r.abnormal[name]
	return e, ok
}

func (r *Registry) abnormalByTag(tag string) (AbnormalEffect, bool) {
	for _, e := range r.abnormal {
		if e.DamageTag() == tag {
			return e, true
		}
	}
	return AbnormalEffect{}, false
}
