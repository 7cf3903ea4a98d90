package optimizer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/registry"
)

func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	r := 1
	for i := 1; i <= k; i++ {
		r = r * (n - k + i) / i
	}
	return r
}

func TestParseCostPattern(t *testing.T) {
	p, err := ParseCostPattern(" 4-3-3-1-1 ")
	require.NoError(t, err)
	assert.Equal(t, CostPattern{4, 3, 3, 1, 1}, p)
	assert.Equal(t, "4-3-3-1-1", p.String())
	assert.Equal(t, map[int]int{4: 1, 3: 2, 1: 2}, p.Count())

	for _, bad := range []string{"4-3-3-1", "4-3-x-1-1", "4-3-3-1-0", ""} {
		_, err := ParseCostPattern(bad)
		assert.ErrorIs(t, err, ErrBadCostPattern, bad)
	}
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{"": PriorityNormal, "Required": PriorityRequired, "preferred": PriorityPreferred} {
		got, err := ParsePriority(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParsePriority("mandatory")
	assert.Error(t, err)
}

func TestCombinations(t *testing.T) {
	got := combinations([]int{1, 2, 3, 4}, 2)
	assert.Equal(t, [][]int{{1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}}, got)
	assert.Len(t, combinations([]int{1, 2}, 0), 1)
	assert.Nil(t, combinations([]int{1, 2}, 3))
}

func TestProduct(t *testing.T) {
	var got [][]int
	for idx := range product([]int{2, 3}) {
		got = append(got, append([]int(nil), idx...))
	}
	assert.Len(t, got, 6)
	assert.Equal(t, []int{0, 0}, got[0])
	assert.Equal(t, []int{1, 2}, got[5])

	n := 0
	for range product([]int{2, 0}) {
		n++
	}
	assert.Zero(t, n)
}

func allSubs(reg *registry.Registry) []SubStatChoice {
	var out []SubStatChoice
	for _, k := range reg.SubStatKeys() {
		out = append(out, SubStatChoice{Key: k})
	}
	return out
}

func TestSubStatSetsExhaustive(t *testing.T) {
	reg := registry.New()
	space := SearchSpace{SubsPerEcho: 5, SubStats: allSubs(reg), Exhaustive: true}
	sets := SubStatSets(reg, space)
	assert.Len(t, sets, binomial(len(reg.SubStatKeys()), 5))
	for _, s := range sets {
		assert.Len(t, s, 5)
	}
}

func TestSubStatSetsPriority(t *testing.T) {
	reg := registry.New()
	space := SearchSpace{
		SubsPerEcho: 4,
		SubTier:     7,
		SubStats: []SubStatChoice{
			{Key: domain.StatCritRate, Priority: PriorityRequired},
			{Key: domain.StatCritDamage, Priority: PriorityRequired},
			{Key: domain.StatATKPercent, Priority: PriorityPreferred},
			{Key: domain.StatATKFlat},
			{Key: "resonance_skill_dmg_up"},
		},
	}
	sets := SubStatSets(reg, space)
	require.Len(t, sets, binomial(3, 2))
	for _, s := range sets {
		require.Len(t, s, 4)
		assert.Equal(t, domain.Stat{Key: domain.StatCritRate, Value: 10.5}, s[0])
		assert.Equal(t, domain.StatCritDamage, s[1].Key)
	}

	space.SubsPerEcho = 2
	assert.Len(t, SubStatSets(reg, space), 1)

	space.SubsPerEcho = 1
	assert.Empty(t, SubStatSets(reg, space), "more required stats than slots")
}

func smallSpace() SearchSpace {
	return SearchSpace{
		Patterns:    []CostPattern{{4, 3, 3, 1, 1}, {4, 4, 1, 1, 1}},
		SubsPerEcho: 2,
		SubStats: []SubStatChoice{
			{Key: domain.StatCritRate, Priority: PriorityRequired},
			{Key: domain.StatCritDamage},
			{Key: domain.StatATKPercent},
		},
		MainStats: map[int][]string{
			4: {domain.StatCritRate, domain.StatCritDamage},
			3: {"aero_dmg_up"},
			1: {domain.StatATKPercent},
		},
	}
}

func TestEnumerateMatchesCount(t *testing.T) {
	reg := registry.New()
	space := smallSpace()

	n := 0
	for c := range Enumerate(reg, space) {
		n++
		for i, e := range c.Echoes {
			assert.Equal(t, c.Pattern[i], e.Cost)
			require.NotNil(t, e.Main)
			assert.Len(t, e.Subs, 2)
		}
	}
	// 2 sub sets per slot; 4-3-3-1-1 has 2 main options, 4-4-1-1-1 has 4.
	assert.Equal(t, 32*2+32*4, n)
	assert.Equal(t, n, Count(reg, space))
}

func TestEnumerateNamesSlotsDistinctly(t *testing.T) {
	reg := registry.New()
	for c := range Enumerate(reg, smallSpace()) {
		seen := map[string]bool{}
		for _, e := range c.Echoes {
			assert.False(t, seen[e.Name], e.Name)
			seen[e.Name] = true
		}
		break
	}
}

func TestEnumerateSkipsPatternWithoutMainStats(t *testing.T) {
	reg := registry.New()
	space := smallSpace()
	delete(space.MainStats, 3)
	assert.Equal(t, 32*4, Count(reg, space))
}

func TestEnumerateOwned(t *testing.T) {
	echo := func(name string, cost int) domain.Echo {
		return domain.Echo{Name: name, Cost: cost, Main: &domain.Stat{Key: domain.StatATKPercent, Value: 1}}
	}
	owned := map[int][]domain.Echo{
		4: {echo("a", 4), echo("b", 4)},
		3: {echo("c", 3), echo("d", 3), echo("e", 3)},
		1: {echo("f", 1), echo("g", 1)},
	}

	var got []Candidate
	for c := range EnumerateOwned(owned, CostPattern{4, 3, 3, 1, 1}) {
		got = append(got, c)
	}
	require.Len(t, got, 2*3*1)
	first := got[0]
	assert.Equal(t, []int{4, 3, 3, 1, 1}, []int{first.Echoes[0].Cost, first.Echoes[1].Cost, first.Echoes[2].Cost, first.Echoes[3].Cost, first.Echoes[4].Cost})

	first.Echoes[0].Main.Value = 99
	assert.Equal(t, 1.0, owned[4][0].Main.Value, "owned echoes must not be shared")

	n := 0
	for c := range EnumerateOwned(owned, CostPattern{1, 3, 4, 3, 1}) {
		for i, e := range c.Echoes {
			assert.Equal(t, c.Pattern[i], e.Cost, "slot %d", i)
		}
		assert.Equal(t, CostPattern{4, 3, 3, 1, 1}, c.Pattern)
		n++
	}
	assert.Equal(t, 2*3*1, n)

	n = 0
	for range EnumerateOwned(owned, CostPattern{4, 4, 4, 1, 1}) {
		n++
	}
	assert.Zero(t, n)
}

func TestSearchKeepsBestByTarget(t *testing.T) {
	reg := registry.New()
	space := smallSpace()
	score := func(c Candidate) (float64, float64, error) {
		v := 0.0
		for _, e := range c.Echoes {
			v += e.Main.Value
			for _, s := range e.Subs {
				v += s.Value
			}
		}
		return v, 1000 - v, nil
	}

	var calls int
	best, err := Search(context.Background(), Enumerate(reg, space), score, SearchOptions{
		Workers:  4,
		Keep:     3,
		Target:   domain.TargetTotalDamage,
		Progress: func(done int) { calls = done },
	})
	require.NoError(t, err)
	require.Len(t, best, 3)
	assert.Equal(t, Count(reg, space), calls)
	assert.GreaterOrEqual(t, best[0].Damage, best[1].Damage)
	assert.GreaterOrEqual(t, best[1].Damage, best[2].Damage)

	byDps, err := Search(context.Background(), Enumerate(reg, space), score, SearchOptions{Keep: 1, Target: domain.TargetDps})
	require.NoError(t, err)
	require.Len(t, byDps, 1)
	for c := range Enumerate(reg, space) {
		_, dps, _ := score(c)
		assert.LessOrEqual(t, dps, byDps[0].Dps)
	}
}

func TestSearchPropagatesScoreError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Search(context.Background(), Enumerate(registry.New(), smallSpace()), func(Candidate) (float64, float64, error) {
		return 0, 0, boom
	}, SearchOptions{Workers: 2, Keep: 1})
	assert.ErrorIs(t, err, boom)
}

func TestApplyCandidateCopiesEchoes(t *testing.T) {
	base := &domain.Build{Character: &domain.Character{Name: "Jiyan"}, WeaponRank: 2}
	var c Candidate
	for i := range c.Echoes {
		c.Echoes[i] = domain.Echo{Cost: 1, Main: &domain.Stat{Key: domain.StatATKPercent, Value: 18}, Subs: []domain.Stat{{Key: domain.StatCritRate, Value: 6.3}}}
	}

	b, err := ApplyCandidate(base, c)
	require.NoError(t, err)
	assert.Same(t, base.Character, b.Character)
	assert.Equal(t, 2, b.WeaponRank)
	assert.Zero(t, base.Echoes[0].Cost)

	b.Echoes[0].Subs[0].Value = 99
	b.Echoes[0].Main.Value = 99
	assert.Equal(t, 6.3, c.Echoes[0].Subs[0].Value)
	assert.Equal(t, 18.0, c.Echoes[0].Main.Value)
}

func TestApplyCandidateLeavesBaseEchoes(t *testing.T) {
	base := &domain.Build{Character: &domain.Character{Name: "Jiyan"}}
	for i := range base.Echoes {
		base.Echoes[i] = domain.Echo{Cost: 4, Main: &domain.Stat{Key: domain.StatHPPercent, Value: 22.8}}
	}
	var c Candidate
	for i := range c.Echoes {
		c.Echoes[i] = domain.Echo{Cost: 4, Main: &domain.Stat{Key: domain.StatCritRate, Value: 22}}
	}

	b, err := ApplyCandidate(base, c)
	require.NoError(t, err)
	for i := range base.Echoes {
		assert.NotSame(t, base.Echoes[i].Main, b.Echoes[i].Main)
		assert.Equal(t, domain.Stat{Key: domain.StatHPPercent, Value: 22.8}, *base.Echoes[i].Main)
		assert.Equal(t, domain.Stat{Key: domain.StatCritRate, Value: 22}, *b.Echoes[i].Main)
	}
}

func TestApplyCandidateConcurrentCallsStayIsolated(t *testing.T) {
	base := &domain.Build{Character: &domain.Character{Name: "Jiyan"}}
	base.Echoes[0] = domain.Echo{Cost: 4, Main: &domain.Stat{Key: domain.StatHPPercent, Value: 22.8}}

	var g errgroup.Group
	for n := range 8 {
		g.Go(func() error {
			var c Candidate
			c.Echoes[0] = domain.Echo{Cost: 4, Main: &domain.Stat{Key: domain.StatCritRate, Value: float64(n)}}
			b, err := ApplyCandidate(base, c)
			if err != nil {
				return err
			}
			if b.Echoes[0].Main.Value != float64(n) {
				return fmt.Errorf("candidate %d scored with main %v", n, b.Echoes[0].Main.Value)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 22.8, base.Echoes[0].Main.Value)
}
