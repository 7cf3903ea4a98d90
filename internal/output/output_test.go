package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AoTofu/wuwa-calc-web/internal/calc"
	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/optimizer"
	"github.com/AoTofu/wuwa-calc-web/internal/rotation"
	"github.com/AoTofu/wuwa-calc-web/internal/sim"
)

func testReport() RotationReport {
	return RotationReport{
		Team: []string{"Aalto", "Baizhi"},
		Result: rotation.Result{
			Initial: rotation.PhaseResult{
				Log: []rotation.Entry{
					{Character: "Aalto", Skill: "Basic", Damage: 1000, TotalDamage: 1000},
					{Character: "Baizhi", Skill: "Strike", Damage: 3000, TotalDamage: 4000},
				},
				TotalDamage: 4000,
				ElapsedTime: 2,
			},
			Loop: rotation.PhaseResult{
				Log: []rotation.Entry{
					{
						Character: "Aalto",
						Skill:     "Basic",
						Damage:    2000,
						Breakdown: []calc.Term{{Name: "base", Detail: "50% x 1000"}},
						Buffs:     domain.ActiveBuffs{"Aalto/focus": {Stacks: 2, Target: "Baizhi"}},
					},
				},
				TotalDamage: 2000,
				ElapsedTime: 4,
			},
		},
		Loops: 3,
	}
}

func TestReportTotals(t *testing.T) {
	r := testReport()
	assert.Equal(t, 10000.0, r.Total())
	assert.Equal(t, 14.0, r.Time())
	assert.InDelta(t, 10000.0/14, r.Dps(), 1e-9)

	r.Loops = -1
	assert.Equal(t, 4000.0, r.Total())

	assert.Equal(t, 0.0, RotationReport{}.Dps())
}

func TestEntriesWeightLoopDamage(t *testing.T) {
	r := testReport()
	entries := r.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, 6000.0, entries[2].Damage)
	assert.Equal(t, 2000.0, r.Result.Loop.Log[0].Damage)
}

func TestDistribution(t *testing.T) {
	entries := testReport().Entries()

	chars := ByCharacter(entries)
	require.Len(t, chars, 2)
	assert.Equal(t, "Aalto", chars[0].Name)
	assert.Equal(t, 7000.0, chars[0].Damage)
	assert.InDelta(t, 0.7, chars[0].Percent, 1e-9)

	skills := BySkill(entries)
	require.Len(t, skills, 2)
	assert.Equal(t, "Aalto: Basic", skills[0].Name)

	for _, s := range ByCharacter([]rotation.Entry{{Character: "Aalto"}}) {
		assert.Equal(t, 0.0, s.Percent)
	}
}

func TestCompare(t *testing.T) {
	got := Compare(1000, map[string]float64{"a": 900, "b": 1000, "c": 600})
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].Buff)
	assert.Equal(t, -400.0, got[0].Delta)
	assert.InDelta(t, -0.4, got[0].Percent, 1e-9)
	assert.Equal(t, "b", got[2].Buff)

	assert.Equal(t, 0.0, Compare(0, map[string]float64{"a": 1})[0].Percent)
}

func TestClearTimes(t *testing.T) {
	got := ClearTimes([]float64{1e6, 5e5}, 1e4)
	assert.Equal(t, []ClearTime{{HP: 1e6, Seconds: 100}, {HP: 5e5, Seconds: 50}}, got)
	assert.Equal(t, 0.0, ClearTimes([]float64{1e6}, 0)[0].Seconds)
}

func TestColName(t *testing.T) {
	cases := map[int]string{0: "", 1: "A", 26: "Z", 27: "AA", 52: "AZ", 703: "AAA"}
	for n, want := range cases {
		assert.Equal(t, want, colName(n), "col %d", n)
	}
	assert.Equal(t, "C7", cell(3, 7))
}

func TestFormatting(t *testing.T) {
	e := domain.Echo{
		Cost: 4,
		Main: &domain.Stat{Key: domain.StatCritRate, Value: 22},
		Subs: []domain.Stat{{Key: domain.StatATKPercent, Value: 8.6}, {Key: domain.StatCritDamage, Value: 21}},
	}
	assert.Equal(t, "C4 crit_rate 22 | atk_percent 8.6, crit_damage 21", FormatEcho(e))
	assert.Equal(t, "", FormatEcho(domain.Echo{}))

	assert.Equal(t, "a: x; b: y", FormatBreakdown([]calc.Term{{Name: "a", Detail: "x"}, {Name: "b", Detail: "y"}}))
	assert.Equal(t, "a, b x3 -> Aalto", formatBuffs(domain.ActiveBuffs{"b": {Stacks: 3, Target: "Aalto"}, "a": {Stacks: 1}}))

	assert.Equal(t, "Aalto_Baizhi", fileToken("Aalto/Baizhi"))
	assert.Equal(t, "unnamed", fileToken("  "))
}

func TestSortScoredByTarget(t *testing.T) {
	results := []optimizer.Scored{{Damage: 1, Dps: 3}, {Damage: 3, Dps: 1}, {Damage: 2, Dps: 2}}
	SortScoredByTarget(results, domain.TargetTotalDamage)
	assert.Equal(t, 3.0, results[0].Damage)
	SortScoredByTarget(results, domain.TargetDps)
	assert.Equal(t, 3.0, results[0].Dps)
}

func TestPrintRotation(t *testing.T) {
	r := testReport()
	r.Stats = &sim.Statistics{Count: 10, Mean: 10000, Time: 14}
	r.Comparisons = Compare(r.Total(), map[string]float64{"Aalto/focus": 8000})
	r.ClearTimes = ClearTimes([]float64{1e6}, r.Dps())

	var buf bytes.Buffer
	PrintRotation(&buf, r)
	out := buf.String()
	assert.Contains(t, out, "10,000 damage")
	assert.Contains(t, out, "- Aalto: 7,000 (70.0%)")
	assert.Contains(t, out, "Monte Carlo (10 trials)")
	assert.Contains(t, out, "- Aalto/focus: 8,000")
	assert.Contains(t, out, "Clear time for 1,000,000 HP")

	buf.Reset()
	PrintRotation(&buf, RotationReport{})
	assert.Equal(t, "No actions were resolved\n", buf.String())
}

func TestPrintRanking(t *testing.T) {
	results := []optimizer.Scored{
		{Candidate: optimizer.Candidate{Pattern: optimizer.CostPattern{4, 3, 3, 1, 1}, Echoes: [5]domain.Echo{{Cost: 4}}}, Damage: 2e5, Dps: 1e4},
		{Damage: 1e5, Dps: 5e3},
	}
	var buf bytes.Buffer
	PrintRanking(&buf, results, domain.TargetDps, 1)
	out := buf.String()
	assert.Contains(t, out, "1. [4-3-3-1-1] damage=200,000, dps=10,000")
	assert.Contains(t, out, "C4")
	assert.NotContains(t, out, "2.")

	buf.Reset()
	PrintRanking(&buf, nil, domain.TargetDps, 5)
	assert.Equal(t, "No results\n", buf.String())
}

func TestExportRotationXLSX(t *testing.T) {
	root := t.TempDir()
	r := testReport()
	r.Stats = &sim.Statistics{Count: 10, Mean: 10000}
	r.Comparisons = Compare(r.Total(), map[string]float64{"Aalto/focus": 8000})

	path, err := ExportRotationXLSX(root, r)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "output", rotationTool), filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_rotation_calc_Aalto_Baizhi.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Rotation", "Summary", "Statistics", "What-if"}, f.GetSheetList())
	v, err := f.GetCellValue("Rotation", "C4")
	require.NoError(t, err)
	assert.Equal(t, "Aalto", v)
	v, err = f.GetCellValue("Rotation", "A4")
	require.NoError(t, err)
	assert.Equal(t, "loop", v)
}

func TestExportOptimizerXLSX(t *testing.T) {
	root := t.TempDir()
	results := []optimizer.Scored{
		{Candidate: optimizer.Candidate{Pattern: optimizer.CostPattern{4, 4, 1, 1, 1}}, Damage: 100, Dps: 20},
		{Candidate: optimizer.Candidate{Pattern: optimizer.CostPattern{4, 3, 3, 1, 1}}, Damage: 200, Dps: 10},
	}
	path, err := ExportOptimizerXLSX(root, "Aalto", domain.TargetDps, results)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Ranking", "B2")
	require.NoError(t, err)
	assert.Equal(t, "4-4-1-1-1", v)
}
