package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type EffectKind string

const (
	KindSimpleAdd          EffectKind = "simple_add"
	KindStacking           EffectKind = "stacking"
	KindStatConversion     EffectKind = "stat_conversion"
	KindDamageMultiplierUp EffectKind = "damage_multiplier_up"
	KindFixedEnergyGain    EffectKind = "fixed_energy_gain"
	KindScalingEnergyGain  EffectKind = "scaling_energy_gain"
)

// Effect is one of the concrete effect types below. The set is closed.
type Effect interface {
	Kind() EffectKind
	sealed()
}

type SimpleAdd struct {
	Stat  string
	Value RankValues
}

type Stacking struct {
	Stat      string
	PerStack  RankValues
	MaxStacks int
}

// StatConversion converts the part of Source above Threshold into Dest:
// (source-threshold)/PerUnit*GainPerUnit, capped at MaxGain when set.
type StatConversion struct {
	Source      string
	Dest        string
	Threshold   float64
	PerUnit     float64
	GainPerUnit RankValues
	MaxGain     *RankValues
}

type DamageMultiplierUp struct {
	Stat  string
	Value RankValues
}

// FixedEnergyGain grants resonance energy to the buff's targets.
type FixedEnergyGain struct {
	Value RankValues
}

// ScalingEnergyGain grants resonance energy scaled by the receiver's efficiency.
type ScalingEnergyGain struct {
	Value RankValues
}

func (SimpleAdd) Kind() EffectKind          { return KindSimpleAdd }
func (Stacking) Kind() EffectKind           { return KindStacking }
func (StatConversion) Kind() EffectKind     { return KindStatConversion }
func (DamageMultiplierUp) Kind() EffectKind { return KindDamageMultiplierUp }
func (FixedEnergyGain) Kind() EffectKind    { return KindFixedEnergyGain }
func (ScalingEnergyGain) Kind() EffectKind  { return KindScalingEnergyGain }

func (SimpleAdd) sealed()          {}
func (Stacking) sealed()           {}
func (StatConversion) sealed()     {}
func (DamageMultiplierUp) sealed() {}
func (FixedEnergyGain) sealed()    {}
func (ScalingEnergyGain) sealed()  {}

// EffectList decodes a YAML list of effects tagged by their `type` field.
type EffectList []Effect

type rawEffect struct {
	Type        string      `yaml:"type"`
	Stat        string      `yaml:"stat"`
	Value       RankValues  `yaml:"value"`
	PerStack    RankValues  `yaml:"per_stack"`
	MaxStacks   *int        `yaml:"max_stacks"`
	Source      string      `yaml:"source"`
	Dest        string      `yaml:"dest"`
	Threshold   float64     `yaml:"threshold"`
	PerUnit     *float64    `yaml:"per_unit"`
	GainPerUnit RankValues  `yaml:"gain_per_unit"`
	MaxGain     *RankValues `yaml:"max_gain"`
}

func (l *EffectList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("effects: expected a list at line %d", value.Line)
	}
	out := make(EffectList, 0, len(value.Content))
	for i, n := range value.Content {
		var raw rawEffect
		if err := n.Decode(&raw); err != nil {
			return fmt.Errorf("effects[%d]: %w", i, err)
		}
		e, err := raw.effect()
		if err != nil {
			return fmt.Errorf("effects[%d] (line %d): %w", i, n.Line, err)
		}
		out = append(out, e)
	}
	*l = out
	return nil
}

func (r rawEffect) effect() (Effect, error) {
	switch EffectKind(r.Type) {
	case KindSimpleAdd:
		if r.Stat == "" {
			return nil, fmt.Errorf("%s: missing stat", r.Type)
		}
		return SimpleAdd{Stat: r.Stat, Value: r.Value}, nil
	case KindStacking:
		if r.Stat == "" {
			return nil, fmt.Errorf("%s: missing stat", r.Type)
		}
		maxStacks := 1
		if r.MaxStacks != nil {
			maxStacks = *r.MaxStacks
		}
		return Stacking{Stat: r.Stat, PerStack: r.PerStack, MaxStacks: maxStacks}, nil
	case KindStatConversion:
		if r.Source == "" || r.Dest == "" {
			return nil, fmt.Errorf("%s: source and dest are required", r.Type)
		}
		perUnit := 1.0
		if r.PerUnit != nil {
			perUnit = *r.PerUnit
		}
		return StatConversion{
			Source:      r.Source,
			Dest:        r.Dest,
			Threshold:   r.Threshold,
			PerUnit:     perUnit,
			GainPerUnit: r.GainPerUnit,
			MaxGain:     r.MaxGain,
		}, nil
	case KindDamageMultiplierUp:
		stat := r.Stat
		if stat == "" {
			stat = StatSkillMultiplierBonus
		}
		return DamageMultiplierUp{Stat: stat, Value: r.Value}, nil
	case KindFixedEnergyGain:
		return FixedEnergyGain{Value: r.Value}, nil
	case KindScalingEnergyGain:
		return ScalingEnergyGain{Value: r.Value}, nil
	default:
		return nil, fmt.Errorf("unsupported effect type %q", r.Type)
	}
}
