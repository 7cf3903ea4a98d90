package calc

import (
	"math"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/registry"
)

// Diagnostic explains a zero damage result in deterministic mode.
type Diagnostic string

const (
	DiagNone            Diagnostic = ""
	DiagNonFinite       Diagnostic = "non_finite_result"
	DiagMissingSkill    Diagnostic = "missing_skill_data"
	DiagUnknownAbnormal Diagnostic = "unknown_abnormal_effect"
)

// RNG is the random source for stochastic crits. A nil RNG selects deterministic expected-value mode.
type RNG interface {
	Float64() float64
}

// Term is one multiplicative factor of a damage breakdown.
type Term struct {
	Name   string
	Value  float64
	Detail string
}

type Damage struct {
	Value      float64
	Diagnostic Diagnostic
	// Breakdown is only filled in deterministic mode.
	Breakdown []Term
}

// FinalStats are the buffed HP/ATK/DEF a skill multiplier scales from.
type FinalStats struct {
	HP  float64
	ATK float64
	DEF float64
}

func FinalFrom(stats domain.Attributes, bases domain.Bases) FinalStats {
	hp, atk, def := stats.Final(bases)
	return FinalStats{HP: hp, ATK: atk, DEF: def}
}

// Bonuses are the enemy-side multipliers shared by every damage formula.
type Bonuses struct {
	Defense    float64
	Resistance float64
	Taken      float64
}

// Evaluator computes damage against one enemy.
type Evaluator struct {
	reg     *registry.Registry
	enemy   domain.Enemy
	printer *message.Printer
}

func NewEvaluator(reg *registry.Registry, enemy domain.Enemy) *Evaluator {
	return &Evaluator{
		reg:     reg,
		enemy:   enemy,
		printer: message.NewPrinter(language.English),
	}
}

// SkillDamage evaluates one skill hit. element is the caster's attribute, used when
// the skill declares no elemental damage tag.
func (e *Evaluator) SkillDamage(final FinalStats, stats domain.Attributes, skill domain.Skill, element string, rng RNG) Damage {
	det := rng == nil
	var terms []Term
	note := func(name string, v float64, format string, args ...any) {
		if det {
			terms = append(terms, Term{Name: name, Value: v, Detail: e.printer.Sprintf(format, args...)})
		}
	}

	var ref float64
	refName := "ATK"
	switch skill.Reference {
	case domain.RefHP:
		ref, refName = final.HP, "HP"
	case domain.RefDEF:
		ref, refName = final.DEF, "DEF"
	default:
		ref = final.ATK
	}
	note("reference", ref, "%s: %.2f", refName, ref)

	bonus := stats[domain.StatSkillMultiplierBonus]
	mult := (skill.Multiplier + bonus) / 100
	note("multiplier", mult, "(%.2f%% + %.2f%%) = %.2f%%", skill.Multiplier, bonus, mult*100)

	base := ref * mult
	note("base", base, "%.2f", base)

	tags := slices.Clone(skill.DamageTags)
	if !e.reg.HasElementalTag(tags) && element != "" {
		tags = append(tags, e.reg.ElementTag(element))
	}

	allUp := stats[domain.StatAllDamageUp]
	var elemUp, catUp float64
	for _, t := range tags {
		if key, ok := e.reg.ElementalUpKey(t); ok {
			elemUp += stats[key]
		}
	}
	for _, t := range skill.DamageTags {
		if key, ok := e.reg.CategoryUpKey(t); ok {
			catUp += stats[key]
		}
	}
	dmgUp := 1 + (allUp+elemUp+catUp)/100
	note("damage_up", dmgUp, "1 + (%.1f%% + %.1f%% + %.1f%%) = %.3f", allUp, elemUp, catUp, dmgUp)

	boostTotal := stats[domain.StatGenericBoost]
	for _, t := range tags {
		if key, ok := e.reg.BoostKey(t); ok {
			boostTotal += stats[key]
		}
	}
	boost := 1 + boostTotal/100
	note("boost", boost, "1 + %.1f%% = %.3f", boostTotal, boost)

	critRate := min(stats[domain.StatCritRate], 100)
	critDmg := stats[domain.StatCritDamage]
	var crit float64
	if det {
		crit = 1 + critRate/100*critDmg/100
		note("crit", crit, "1 + (%.1f%% * %.1f%%) = %.3f", critRate, critDmg, crit)
	} else {
		crit = 1
		if rng.Float64() < critRate/100 {
			crit = 1 + critDmg/100
		}
	}

	b := e.Bonuses(stats, e.resistanceElement(tags))
	note("defense", b.Defense, "%.3f", b.Defense)
	note("resistance", b.Resistance, "%.3f", b.Resistance)
	note("taken", b.Taken, "%.3f", b.Taken)

	value := base * dmgUp * boost * crit * b.Defense * b.Resistance * b.Taken
	return e.finish(value, terms, det)
}

// AbnormalDamage evaluates one tick or detonation of an abnormal effect.
func (e *Evaluator) AbnormalDamage(name string, stacks int, stats domain.Attributes, deterministic bool) Damage {
	eff, ok := e.reg.Abnormal(name)
	if !ok {
		if deterministic {
			return Damage{Diagnostic: DiagUnknownAbnormal}
		}
		return Damage{}
	}
	if stacks < 1 {
		stacks = 1
	}
	stackMult := eff.StackMultiplier(stacks)
	base := e.reg.AbnormalBaseDamage() * eff.Coefficient * stackMult
	boostTotal := stats[eff.BoostKey()]
	boost := 1 + boostTotal/100
	b := e.Bonuses(stats, eff.Element)

	var terms []Term
	if deterministic {
		terms = []Term{
			{Name: "base", Value: base, Detail: e.printer.Sprintf("%.0f * %.2f * %.3f (%d stacks) = %.2f", e.reg.AbnormalBaseDamage(), eff.Coefficient, stackMult, stacks, base)},
			{Name: "boost", Value: boost, Detail: e.printer.Sprintf("1 + %.1f%% = %.3f", boostTotal, boost)},
			{Name: "defense", Value: b.Defense, Detail: e.printer.Sprintf("%.3f", b.Defense)},
			{Name: "resistance", Value: b.Resistance, Detail: e.printer.Sprintf("%.3f", b.Resistance)},
			{Name: "taken", Value: b.Taken, Detail: e.printer.Sprintf("%.3f", b.Taken)},
		}
	}
	return e.finish(base*boost*b.Defense*b.Resistance*b.Taken, terms, deterministic)
}

// Bonuses computes the defense, resistance and damage-taken multipliers for an element.
// An empty element uses the default resistance with only generic shred.
func (e *Evaluator) Bonuses(stats domain.Attributes, element string) Bonuses {
	casterLevel := float64(e.reg.CasterLevel())
	enemyLevel := float64(e.enemy.Level)
	if enemyLevel <= 0 {
		enemyLevel = casterLevel
	}
	attacker := 800 + 8*casterLevel
	defense := attacker / (attacker + (8*enemyLevel+792)*(1-stats[domain.StatDefShred]/100))

	res := e.reg.DefaultResistance()
	shred := stats[domain.StatResShred]
	var ignore float64
	if element != "" {
		if v, ok := e.enemy.Resistances[element]; ok {
			res = v
		}
		shred += stats[e.reg.ResShredKey(element)]
		ignore = stats[e.reg.ResIgnoreKey(element)]
	}
	eff := res*(1-ignore/100) - shred
	resistance := 1 - eff/100
	if eff < 0 {
		resistance = 1 - eff/200
	}

	return Bonuses{
		Defense:    defense,
		Resistance: resistance,
		Taken:      1 + stats[domain.StatDamageTakenUp]/100,
	}
}

func (e *Evaluator) resistanceElement(tags []string) string {
	for _, t := range tags {
		if el, ok := e.reg.ElementOfTag(t); ok {
			return el
		}
	}
	return ""
}

func (e *Evaluator) finish(value float64, terms []Term, deterministic bool) Damage {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		if deterministic {
			return Damage{Diagnostic: DiagNonFinite, Breakdown: terms}
		}
		return Damage{}
	}
	return Damage{Value: max(value, 0), Breakdown: terms}
}
