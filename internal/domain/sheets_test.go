package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributesFinal(t *testing.T) {
	a := NewAttributes()
	a.Add(StatATKPercent, 50)
	a.Add(StatATKFlat, 100)
	a.Add("", 999)

	hp, atk, def := a.Final(Bases{HP: 1000, ATK: 1000, DEF: 500})
	assert.Equal(t, 1000.0, hp)
	assert.Equal(t, 1600.0, atk)
	assert.Equal(t, 500.0, def)
	assert.NotContains(t, a, "")
	assert.Equal(t, DefaultCritRate, a[StatCritRate])
}

func TestAttributesCloneIsIndependent(t *testing.T) {
	a := Attributes{StatCritRate: 5}
	b := a.Clone()
	b.Add(StatCritRate, 10)
	assert.Equal(t, 5.0, a[StatCritRate])
	assert.Equal(t, 15.0, b[StatCritRate])
}

func TestFindSkillHonorsConstellation(t *testing.T) {
	c := &Character{
		Name:   "Rover",
		Skills: []Skill{{Name: "Basic"}},
		Constellations: map[int]Constellation{
			2: {Skills: []Skill{{Name: "Extra"}}},
		},
	}
	b := &Build{Character: c, Constellation: 1}
	_, ok := b.FindSkill("Basic")
	assert.True(t, ok)
	_, ok = b.FindSkill("Extra")
	assert.False(t, ok)

	b.Constellation = 2
	_, ok = b.FindSkill("Extra")
	assert.True(t, ok)
}

func TestFindSkillSearchesEchoAndHarmony(t *testing.T) {
	b := &Build{
		Character: &Character{Name: "Rover"},
		EchoSkill: &EchoSkill{Name: "Crownless", Skills: []Skill{{Name: "Crownless Strike"}}},
		Harmony1:  &Harmony{Name: "Set", Set5: HarmonyTier{Skills: []Skill{{Name: "Set Proc"}}}},
	}
	for _, name := range []string{"Crownless Strike", "Set Proc"} {
		_, ok := b.FindSkill(name)
		assert.True(t, ok, name)
	}
}

func TestResonanceMaxDefaultsToOne(t *testing.T) {
	var c *Character
	assert.Equal(t, 1.0, c.ResonanceMax())
	assert.Equal(t, 1.0, (&Character{}).ResonanceMax())
	assert.Equal(t, 125.0, (&Character{ResonanceRequired: 125}).ResonanceMax())
}

func TestBuildRankClamps(t *testing.T) {
	assert.Equal(t, 1, (&Build{WeaponRank: 0}).Rank())
	assert.Equal(t, 5, (&Build{WeaponRank: 7}).Rank())
	assert.Equal(t, 3, (&Build{WeaponRank: 3}).Rank())
}
