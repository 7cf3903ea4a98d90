package output

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/optimizer"
)

const optimizerTool = "echo_optimizer"

// ExportOptimizerXLSX writes the ranked candidates of one optimizer run. Percent columns are
// relative to the best candidate by target.
func ExportOptimizerXLSX(appRoot, character string, target domain.Target, results []optimizer.Scored) (string, error) {
	if len(results) > 1 {
		SortScoredByTarget(results, target)
	}

	f := excelize.NewFile()
	defer f.Close()

	w, err := newSheet(f, "Ranking")
	if err != nil {
		return "", err
	}
	titles := []string{"Rank", "Costs", "Damage", "Damage %", "DPS", "DPS %"}
	for i := range 5 {
		titles = append(titles, fmt.Sprintf("Echo %d", i+1))
	}
	if err := w.header(titles...); err != nil {
		return "", err
	}

	var bestDamage, bestDps float64
	if len(results) > 0 {
		bestDamage, bestDps = results[0].Damage, results[0].Dps
	}
	first := w.row
	for i, r := range results {
		row := []any{i + 1, r.Candidate.Pattern.String(), r.Damage, ratio(r.Damage, bestDamage), r.Dps, ratio(r.Dps, bestDps)}
		for _, e := range r.Candidate.Echoes {
			row = append(row, FormatEcho(e))
		}
		if err := w.writeRow(row...); err != nil {
			return "", err
		}
	}
	for col, numFmt := range map[int]int{3: numFmtThousand, 4: numFmtPercent, 5: numFmtThousand, 6: numFmtPercent} {
		if err := w.format(col, first, numFmt); err != nil {
			return "", err
		}
	}
	if err := w.widths(6, 11, 14, 10, 12, 10, 48, 48, 48, 48, 48); err != nil {
		return "", err
	}
	return save(f, appRoot, optimizerTool, character+"_"+target.String())
}

func ratio(v, best float64) any {
	if best <= 0 {
		return nil
	}
	return v / best
}

// FormatEcho renders an echo as "C4 crit_rate 22 | sub_a 8.1, sub_b 6.3".
func FormatEcho(e domain.Echo) string {
	if e.Cost == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "C%d", e.Cost)
	if e.Main != nil {
		fmt.Fprintf(&b, " %s %g", e.Main.Key, e.Main.Value)
	}
	if len(e.Subs) > 0 {
		subs := make([]string, len(e.Subs))
		for i, s := range e.Subs {
			subs[i] = fmt.Sprintf("%s %g", s.Key, s.Value)
		}
		b.WriteString(" | ")
		b.WriteString(strings.Join(subs, ", "))
	}
	return b.String()
}
