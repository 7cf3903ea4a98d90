package output

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/optimizer"
)

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// PrintRotation writes the human summary of a rotation run.
func PrintRotation(w io.Writer, r RotationReport) {
	p := printer()
	if len(r.Result.Initial.Log) == 0 && len(r.Result.Loop.Log) == 0 {
		fmt.Fprintln(w, "No actions were resolved")
		return
	}

	p.Fprintf(w, "Initial: %.0f damage in %.1fs\n", r.Result.Initial.TotalDamage, r.Result.Initial.ElapsedTime)
	p.Fprintf(w, "Loop:    %.0f damage in %.1fs\n", r.Result.Loop.TotalDamage, r.Result.Loop.ElapsedTime)
	p.Fprintf(w, "Total (loop x%d): %.0f damage, %.0f DPS\n", r.loops(), r.Total(), r.Dps())

	fmt.Fprintln(w, "Damage by character:")
	for _, s := range ByCharacter(r.Entries()) {
		p.Fprintf(w, "- %s: %.0f (%.1f%%)\n", s.Name, s.Damage, s.Percent*100)
	}

	if r.Stats != nil {
		s := r.Stats
		p.Fprintf(w, "Monte Carlo (%d trials): mean=%.0f, median=%.0f, sd=%.0f, min=%.0f, max=%.0f\n",
			s.Count, s.Mean, s.Median, s.StdDev, s.Min, s.Max)
		p.Fprintf(w, "DPS over %.1fs: mean=%.0f, min=%.0f, max=%.0f\n", s.Time, s.DpsMean, s.DpsMin, s.DpsMax)
	}

	if len(r.Comparisons) > 0 {
		fmt.Fprintln(w, "Without buff:")
		for _, c := range r.Comparisons {
			p.Fprintf(w, "- %s: %.0f (%+.0f, %+.2f%%)\n", c.Buff, c.Total, c.Delta, c.Percent*100)
		}
	}

	for _, ct := range r.ClearTimes {
		p.Fprintf(w, "Clear time for %.0f HP: %.1fs\n", ct.HP, ct.Seconds)
	}
}

// PrintRanking writes the best limit candidates, best first.
func PrintRanking(w io.Writer, results []optimizer.Scored, target domain.Target, limit int) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}
	p := printer()
	fmt.Fprintln(w, "Results (sorted by", target.String()+"):")
	for i, r := range results {
		if limit > 0 && i >= limit {
			break
		}
		p.Fprintf(w, "%d. [%s] damage=%.0f, dps=%.0f\n", i+1, r.Candidate.Pattern.String(), r.Damage, r.Dps)
		for _, e := range r.Candidate.Echoes {
			if s := FormatEcho(e); s != "" {
				fmt.Fprintln(w, "   ", s)
			}
		}
	}
}
