// Package sim repeats stochastic rotation runs and summarizes the damage distribution.
package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/aclements/go-moremath/stats"
	"golang.org/x/sync/errgroup"

	"github.com/AoTofu/wuwa-calc-web/internal/calc"
	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/rotation"
)

// Runner plays both phases of a rotation. *rotation.Engine implements it.
type Runner interface {
	Run(initial, loop domain.Phase, rng calc.RNG) rotation.Result
}

type Options struct {
	Trials int
	// Loops scales the loop phase damage and time.
	Loops   int
	Workers int
	// Seed picks the random streams; trial i uses stream (Seed, i).
	Seed uint64
}

type Statistics struct {
	Count  int
	Mean   float64
	Min    float64
	Max    float64
	Median float64
	// StdDev is the population standard deviation.
	StdDev float64

	// Time is the divisor used for the DPS figures.
	Time    float64
	DpsMean float64
	DpsMin  float64
	DpsMax  float64
}

// Sample runs opts.Trials independent stochastic rotations in parallel.
func Sample(ctx context.Context, r Runner, initial, loop domain.Phase, opts Options) (Statistics, error) {
	if opts.Trials <= 0 {
		return Statistics{}, fmt.Errorf("trials must be positive, got %d", opts.Trials)
	}
	loops := max(opts.Loops, 0)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	totals := make([]float64, opts.Trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for trial := range opts.Trials {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(opts.Seed, uint64(trial)))
			res := r.Run(initial, loop, rng)
			totals[trial] = res.Initial.TotalDamage + res.Loop.TotalDamage*float64(loops)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Statistics{}, err
	}

	return Summarize(totals, TotalTime(initial, loop, loops)), nil
}

// TotalTime is the DPS divisor: marked time first, then the per-action estimate, then 1.
func TotalTime(initial, loop domain.Phase, loops int) float64 {
	t := initial.MarkedTime() + loop.MarkedTime()*float64(loops)
	if t == 0 {
		t = float64(len(initial.Actions)+len(loop.Actions)*loops) * 1.5
	}
	if t == 0 {
		t = 1
	}
	return t
}

// Summarize computes the descriptive statistics of per-trial totals.
func Summarize(totals []float64, time float64) Statistics {
	if len(totals) == 0 {
		return Statistics{}
	}
	if time <= 0 {
		time = 1
	}
	s := stats.Sample{Xs: totals}
	lo, hi := s.Bounds()
	mean := s.Mean()

	var std float64
	if n := float64(len(totals)); n > 1 {
		std = math.Sqrt(s.Variance() * (n - 1) / n)
	}

	return Statistics{
		Count:   len(totals),
		Mean:    mean,
		Min:     lo,
		Max:     hi,
		Median:  s.Quantile(0.5),
		StdDev:  std,
		Time:    time,
		DpsMean: mean / time,
		DpsMin:  lo / time,
		DpsMax:  hi / time,
	}
}
