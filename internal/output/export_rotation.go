package output

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/AoTofu/wuwa-calc-web/internal/calc"
	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/rotation"
)

const rotationTool = "rotation_calc"

// ExportRotationXLSX writes the rotation log, phase summary and, when present, the
// statistics, what-if and clear-time tables. It returns the saved path.
func ExportRotationXLSX(appRoot string, r RotationReport) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeLogSheet(f, r); err != nil {
		return "", fmt.Errorf("rotation sheet: %w", err)
	}
	if err := writeSummarySheet(f, r); err != nil {
		return "", fmt.Errorf("summary sheet: %w", err)
	}
	if r.Stats != nil {
		if err := writeStatisticsSheet(f, r); err != nil {
			return "", fmt.Errorf("statistics sheet: %w", err)
		}
	}
	if len(r.Comparisons) > 0 {
		if err := writeComparisonSheet(f, r.Comparisons); err != nil {
			return "", fmt.Errorf("what-if sheet: %w", err)
		}
	}
	return save(f, appRoot, rotationTool, strings.Join(r.Team, "_"))
}

func writeLogSheet(f *excelize.File, r RotationReport) error {
	w, err := newSheet(f, "Rotation")
	if err != nil {
		return err
	}
	if err := w.header("Phase", "#", "Character", "Skill", "Damage", "Cumulative",
		"Concerto +", "Resonance +", "Concerto", "Resonance", "Diagnostic", "Buffs", "Breakdown"); err != nil {
		return err
	}
	first := w.row
	phases := []struct {
		name string
		log  []rotation.Entry
	}{
		{"initial", r.Result.Initial.Log},
		{"loop", r.Result.Loop.Log},
	}
	for _, p := range phases {
		for i, e := range p.log {
			if err := w.writeRow(p.name, i+1, e.Character, e.Skill, e.Damage, e.TotalDamage,
				e.ConcertoGain, e.ResonanceGain, e.Concerto, e.Resonance,
				string(e.Diagnostic), formatBuffs(e.Buffs), FormatBreakdown(e.Breakdown)); err != nil {
				return err
			}
		}
	}
	for _, col := range []int{5, 6} {
		if err := w.format(col, first, numFmtThousand); err != nil {
			return err
		}
	}
	for col := 7; col <= 10; col++ {
		if err := w.format(col, first, numFmtDecimal); err != nil {
			return err
		}
	}
	return w.widths(9, 5, 14, 26, 12, 14, 11, 12, 10, 10, 14, 60, 120)
}

func writeSummarySheet(f *excelize.File, r RotationReport) error {
	w, err := newSheet(f, "Summary")
	if err != nil {
		return err
	}
	if err := w.title("Team: "+strings.Join(r.Team, ", "), 4); err != nil {
		return err
	}
	w.skip()

	if err := w.header("Phase", "Damage", "Time (s)", "DPS"); err != nil {
		return err
	}
	first := w.row
	rows := []struct {
		name         string
		damage, time float64
	}{
		{"Initial", r.Result.Initial.TotalDamage, r.Result.Initial.ElapsedTime},
		{"Loop", r.Result.Loop.TotalDamage, r.Result.Loop.ElapsedTime},
		{fmt.Sprintf("Total (loop x%d)", r.loops()), r.Total(), r.Time()},
	}
	for _, row := range rows {
		var dps any
		if row.time > 0 {
			dps = row.damage / row.time
		}
		if err := w.writeRow(row.name, row.damage, row.time, dps); err != nil {
			return err
		}
	}
	if err := w.format(2, first, numFmtThousand); err != nil {
		return err
	}
	if err := w.format(4, first, numFmtThousand); err != nil {
		return err
	}

	entries := r.Entries()
	for _, table := range []struct {
		title  string
		shares []Share
	}{
		{"Damage by character", ByCharacter(entries)},
		{"Damage by skill", BySkill(entries)},
	} {
		w.skip()
		if err := w.title(table.title, 3); err != nil {
			return err
		}
		if err := w.header("Name", "Damage", "Share"); err != nil {
			return err
		}
		from := w.row
		for _, s := range table.shares {
			if err := w.writeRow(s.Name, s.Damage, s.Percent); err != nil {
				return err
			}
		}
		if err := w.format(2, from, numFmtThousand); err != nil {
			return err
		}
		if err := w.format(3, from, numFmtPercent); err != nil {
			return err
		}
	}

	if len(r.ClearTimes) > 0 {
		w.skip()
		if err := w.title("Clear time", 2); err != nil {
			return err
		}
		if err := w.header("Enemy HP", "Seconds"); err != nil {
			return err
		}
		from := w.row
		for _, ct := range r.ClearTimes {
			if err := w.writeRow(ct.HP, ct.Seconds); err != nil {
				return err
			}
		}
		if err := w.format(1, from, numFmtThousand); err != nil {
			return err
		}
		if err := w.format(2, from, numFmtDecimal); err != nil {
			return err
		}
	}
	return w.widths(36, 16, 12, 14)
}

func writeStatisticsSheet(f *excelize.File, r RotationReport) error {
	w, err := newSheet(f, "Statistics")
	if err != nil {
		return err
	}
	s := r.Stats
	if err := w.header("Metric", "Value"); err != nil {
		return err
	}
	first := w.row
	rows := []struct {
		name  string
		value float64
	}{
		{"Trials", float64(s.Count)},
		{"Mean", s.Mean},
		{"Median", s.Median},
		{"Std. deviation", s.StdDev},
		{"Min", s.Min},
		{"Max", s.Max},
		{"Time (s)", s.Time},
		{"DPS mean", s.DpsMean},
		{"DPS min", s.DpsMin},
		{"DPS max", s.DpsMax},
	}
	for _, row := range rows {
		if err := w.writeRow(row.name, row.value); err != nil {
			return err
		}
	}
	if err := w.format(2, first, numFmtThousand); err != nil {
		return err
	}
	return w.widths(18, 16)
}

func writeComparisonSheet(f *excelize.File, comparisons []Comparison) error {
	w, err := newSheet(f, "What-if")
	if err != nil {
		return err
	}
	if err := w.header("Without buff", "Total", "Delta", "Delta %"); err != nil {
		return err
	}
	first := w.row
	for _, c := range comparisons {
		if err := w.writeRow(c.Buff, c.Total, c.Delta, c.Percent); err != nil {
			return err
		}
	}
	for _, col := range []int{2, 3} {
		if err := w.format(col, first, numFmtThousand); err != nil {
			return err
		}
	}
	if err := w.format(4, first, numFmtPercent); err != nil {
		return err
	}
	return w.widths(36, 16, 16, 10)
}

// FormatBreakdown joins breakdown terms as "name: detail; ...".
func FormatBreakdown(terms []calc.Term) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, t.Name+": "+t.Detail)
	}
	return strings.Join(parts, "; ")
}

func formatBuffs(active domain.ActiveBuffs) string {
	parts := make([]string, 0, len(active))
	for _, key := range slices.Sorted(maps.Keys(active)) {
		st := active[key]
		s := key
		if st.Stacks > 1 {
			s = fmt.Sprintf("%s x%d", key, st.Stacks)
		}
		if st.Target != "" {
			s += " -> " + st.Target
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}
