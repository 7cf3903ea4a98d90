// Package registry holds the fixed game vocabulary: stat keys, damage tags and their bonus keys,
// echo stat tables and abnormal-status effects. A Registry is built once and never modified.
package registry

import (
	"slices"
	"strings"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
)

const (
	damageTagSuffix = "_damage"

	defaultCasterLevel        = 90
	defaultEnemyResistance    = 10.0
	abnormalBaseDamageLevel90 = 1103.0
)

type Registry struct {
	elements   []string
	categories []string
	abnormal   map[string]AbnormalEffect

	mainStats map[int][]domain.Stat
	fixedMain map[int]domain.Stat
	subTiers  map[string][]float64
	subOrder  []string

	known map[string]struct{}
}

// New builds the default registry.
func New() *Registry {
	r := &Registry{}
	r.elements = []string{"aero", "fusion", "electro", "glacio", "havoc", "spectro"}
	r.categories = []string{
		domain.ActivationNormalAttack,
		domain.ActivationHeavyAttack,
		domain.ActivationSkill,
		domain.ActivationLiberation,
		domain.ActivationIntro,
		domain.ActivationOutro,
		domain.ActivationEcho,
		"synergy_attack",
	}
	r.abnormal = defaultAbnormalEffects()
	r.mainStats = defaultMainStats()
	r.fixedMain = map[int]domain.Stat{
		4: {Key: domain.StatATKFlat, Value: 150},
		3: {Key: domain.StatATKFlat, Value: 100},
		1: {Key: domain.StatHPFlat, Value: 1520},
	}
	r.subTiers, r.subOrder = defaultSubStats()
	r.known = r.buildVocabulary()
	return r
}

func (r *Registry) Elements() []string {
	return slices.Clone(r.elements)
}

func (r *Registry) IsElement(e string) bool {
	return slices.Contains(r.elements, e)
}

// ElementTag is the damage tag of an element, e.g. "aero" -> "aero_damage".
func (r *Registry) ElementTag(element string) string {
	return element + damageTagSuffix
}

// ElementOfTag returns the element a damage tag deals, if it is an elemental tag.
func (r *Registry) ElementOfTag(tag string) (string, bool) {
	e, ok := strings.CutSuffix(tag, damageTagSuffix)
	if !ok || !r.IsElement(e) {
		return "", false
	}
	return e, true
}

// HasElementalTag reports whether any tag is elemental or an abnormal-effect tag.
func (r *Registry) HasElementalTag(tags []string) bool {
	for _, t := range tags {
		if _, ok := r.ElementOfTag(t); ok {
			return true
		}
		if _, ok := r.abnormalByTag(t); ok {
			return true
		}
	}
	return false
}

func (r *Registry) IsCategory(tag string) bool {
	return slices.Contains(r.categories, tag)
}

// ElementalUpKey maps an elemental or abnormal-effect damage tag to its damage-up stat.
func (r *Registry) ElementalUpKey(tag string) (string, bool) {
	if e, ok := r.ElementOfTag(tag); ok {
		return e + "_dmg_up", true
	}
	if a, ok := r.abnormalByTag(tag); ok {
		return a.Element + "_effect_dmg_up", true
	}
	return "", false
}

// CategoryUpKey maps a category damage tag to its damage-up stat.
func (r *Registry) CategoryUpKey(tag string) (string, bool) {
	if !r.IsCategory(tag) {
		return "", false
	}
	return tag + "_dmg_up", true
}

// BoostKey maps any damage tag to its damage-boost stat.
func (r *Registry) BoostKey(tag string) (string, bool) {
	if r.IsCategory(tag) {
		return tag + "_dmg_boost", true
	}
	if e, ok := r.ElementOfTag(tag); ok {
		return e + "_dmg_boost", true
	}
	if a, ok := r.abnormalByTag(tag); ok {
		return a.BoostKey(), true
	}
	return "", false
}

func (r *Registry) ResShredKey(element string) string  { return element + "_res_shred" }
func (r *Registry) ResIgnoreKey(element string) string { return element + "_res_ignore" }

func (r *Registry) CasterLevel() int            { return defaultCasterLevel }
func (r *Registry) DefaultResistance() float64  { return defaultEnemyResistance }
func (r *Registry) AbnormalBaseDamage() float64 { return abnormalBaseDamageLevel90 }

// KnownStat reports whether key is part of the stat vocabulary.
func (r *Registry) KnownStat(key string) bool {
	_, ok := r.known[key]
	return ok
}

func (r *Registry) buildVocabulary() map[string]struct{} {
	known := map[string]struct{}{}
	add := func(keys ...string) {
		for _, k := range keys {
			known[k] = struct{}{}
		}
	}
	add(
		domain.StatHPPercent, domain.StatATKPercent, domain.StatDEFPercent,
		domain.StatHPFlat, domain.StatATKFlat, domain.StatDEFFlat,
		domain.StatCritRate, domain.StatCritDamage, domain.StatResonanceEfficiency,
		domain.StatAllDamageUp, domain.StatGenericBoost, domain.StatSkillMultiplierBonus,
		domain.StatDefShred, domain.StatResShred, domain.StatDamageTakenUp, domain.StatHealBonus,
	)
	for _, e := range r.elements {
		add(e+"_dmg_up", e+"_dmg_boost", r.ResShredKey(e), r.ResIgnoreKey(e))
	}
	for _, c := range r.categories {
		add(c+"_dmg_up", c+"_dmg_boost")
	}
	for _, a := range r.abnormal {
		add(a.Element+"_effect_dmg_up", a.BoostKey())
	}
	for _, stats := range r.mainStats {
		for _, s := range stats {
			add(s.Key)
		}
	}
	add(r.subOrder...)
	return known
}
