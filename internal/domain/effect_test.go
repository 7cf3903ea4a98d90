package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEffectListDecodesEveryKind(t *testing.T) {
	in := `
- {type: simple_add, stat: atk_percent, value: [12, 15, 18, 21, 24]}
- {type: stacking, stat: crit_rate, per_stack: 4, max_stacks: 3}
- {type: stat_conversion, source: energy_regen, dest: atk_percent, threshold: 100, per_unit: 1, gain_per_unit: 0.5, max_gain: 40}
- {type: damage_multiplier_up, value: 25}
- {type: fixed_energy_gain, value: 10}
- {type: scaling_energy_gain, value: 5}
`
	var l EffectList
	require.NoError(t, yaml.Unmarshal([]byte(in), &l))
	require.Len(t, l, 6)

	add, ok := l[0].(SimpleAdd)
	require.True(t, ok)
	assert.Equal(t, 18.0, add.Value.At(3))

	st, ok := l[1].(Stacking)
	require.True(t, ok)
	assert.Equal(t, 3, st.MaxStacks)

	conv, ok := l[2].(StatConversion)
	require.True(t, ok)
	require.NotNil(t, conv.MaxGain)
	assert.Equal(t, 40.0, conv.MaxGain.At(1))

	dmu, ok := l[3].(DamageMultiplierUp)
	require.True(t, ok)
	assert.Equal(t, StatSkillMultiplierBonus, dmu.Stat)

	assert.Equal(t, KindFixedEnergyGain, l[4].Kind())
	assert.Equal(t, KindScalingEnergyGain, l[5].Kind())
}

func TestEffectListDefaults(t *testing.T) {
	in := `
- {type: stacking, stat: atk_percent, per_stack: 5}
- {type: stat_conversion, source: hp_percent, dest: atk_flat}
`
	var l EffectList
	require.NoError(t, yaml.Unmarshal([]byte(in), &l))
	assert.Equal(t, 1, l[0].(Stacking).MaxStacks)
	conv := l[1].(StatConversion)
	assert.Equal(t, 1.0, conv.PerUnit)
	assert.Nil(t, conv.MaxGain)
}

func TestEffectListRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown type":      "- {type: teleport}",
		"missing stat":      "- {type: simple_add, value: 1}",
		"conversion source": "- {type: stat_conversion, dest: atk_flat}",
		"not a list":        "{type: simple_add}",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			var l EffectList
			assert.Error(t, yaml.Unmarshal([]byte(in), &l))
		})
	}
}
