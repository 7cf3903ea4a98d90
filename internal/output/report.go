// Package output renders rotation and optimizer results to the console and to XLSX workbooks.
package output

import (
	"cmp"
	"maps"
	"slices"

	"github.com/AoTofu/wuwa-calc-web/internal/rotation"
	"github.com/AoTofu/wuwa-calc-web/internal/sim"
)

// Share is one slice of a damage distribution.
type Share struct {
	Name    string
	Damage  float64
	Percent float64
}

// Comparison is the rotation re-run with one buff left out.
type Comparison struct {
	Buff  string
	Total float64
	// Delta is Total minus the baseline total; negative when the buff helped.
	Delta   float64
	Percent float64
}

type ClearTime struct {
	HP      float64
	Seconds float64
}

// RotationReport is everything the rotation tool prints and exports.
type RotationReport struct {
	Team   []string
	Result rotation.Result
	// Loops is how many times the loop phase counts toward the totals.
	Loops       int
	Stats       *sim.Statistics
	Comparisons []Comparison
	ClearTimes  []ClearTime
}

// Total is the initial phase plus Loops repetitions of the loop phase.
func (r RotationReport) Total() float64 {
	return r.Result.Initial.TotalDamage + float64(r.loops())*r.Result.Loop.TotalDamage
}

func (r RotationReport) Time() float64 {
	return r.Result.Initial.ElapsedTime + float64(r.loops())*r.Result.Loop.ElapsedTime
}

func (r RotationReport) Dps() float64 {
	t := r.Time()
	if t <= 0 {
		return 0
	}
	return r.Total() / t
}

func (r RotationReport) loops() int {
	return max(r.Loops, 0)
}

// ByCharacter splits the logged damage per acting character, largest first.
func ByCharacter(log []rotation.Entry) []Share {
	return distribute(log, func(e rotation.Entry) string { return e.Character })
}

// BySkill splits the logged damage per "<character>: <skill>", largest first.
func BySkill(log []rotation.Entry) []Share {
	return distribute(log, func(e rotation.Entry) string { return e.Character + ": " + e.Skill })
}

func distribute(log []rotation.Entry, key func(rotation.Entry) string) []Share {
	sums := map[string]float64{}
	total := 0.0
	for _, e := range log {
		sums[key(e)] += e.Damage
		total += e.Damage
	}
	out := make([]Share, 0, len(sums))
	for _, name := range slices.Sorted(maps.Keys(sums)) {
		s := Share{Name: name, Damage: sums[name]}
		if total > 0 {
			s.Percent = s.Damage / total
		}
		out = append(out, s)
	}
	slices.SortStableFunc(out, func(a, b Share) int { return cmp.Compare(b.Damage, a.Damage) })
	return out
}

// Compare turns per-buff totals into comparisons against base, biggest loss first.
func Compare(base float64, without map[string]float64) []Comparison {
	out := make([]Comparison, 0, len(without))
	for _, key := range slices.Sorted(maps.Keys(without)) {
		c := Comparison{Buff: key, Total: without[key], Delta: without[key] - base}
		if base != 0 {
			c.Percent = c.Delta / base
		}
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b Comparison) int { return cmp.Compare(a.Delta, b.Delta) })
	return out
}

// ClearTimes estimates how long each HP pool lasts at dps. Zero dps gives zero seconds.
func ClearTimes(hps []float64, dps float64) []ClearTime {
	out := make([]ClearTime, 0, len(hps))
	for _, hp := range hps {
		ct := ClearTime{HP: hp}
		if dps > 0 {
			ct.Seconds = hp / dps
		}
		out = append(out, ct)
	}
	return out
}

// Entries is the initial log followed by the loop log, loop damage weighted by Loops.
func (r RotationReport) Entries() []rotation.Entry {
	out := make([]rotation.Entry, 0, len(r.Result.Initial.Log)+len(r.Result.Loop.Log))
	out = append(out, r.Result.Initial.Log...)
	w := float64(r.loops())
	for _, e := range r.Result.Loop.Log {
		e.Damage *= w
		out = append(out, e)
	}
	return out
}
