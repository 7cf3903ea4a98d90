package optimizer

import (
	"context"
	"fmt"
	"iter"
	"runtime"
	"sync"

	"github.com/tiendc/go-deepcopy"
	"golang.org/x/sync/errgroup"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
)

type Scored struct {
	Candidate Candidate
	Damage    float64
	Dps       float64
}

// ScoreFunc rates one candidate.
type ScoreFunc func(Candidate) (damage, dps float64, err error)

type SearchOptions struct {
	Workers int
	// Keep is how many of the best candidates to return.
	Keep   int
	Target domain.Target
	// Progress is called after every scored candidate with the number scored so far.
	Progress func(done int)
}

// Search scores candidates on a bounded worker pool and returns the best ones, best first.
// It stops pulling candidates once ctx is cancelled or a score fails.
func Search(ctx context.Context, candidates iter.Seq[Candidate], score ScoreFunc, opts SearchOptions) ([]Scored, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	keep := max(opts.Keep, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	top := make([]Scored, 0, keep+1)
	done := 0
	for c := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			damage, dps, err := score(c)
			if err != nil {
				return fmt.Errorf("score %s: %w", c.Pattern, err)
			}
			mu.Lock()
			defer mu.Unlock()
			top = insertTop(top, Scored{Candidate: c, Damage: damage, Dps: dps}, keep, opts.Target)
			done++
			if opts.Progress != nil {
				opts.Progress(done)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return top, err
	}
	return top, nil
}

func insertTop(top []Scored, s Scored, keep int, target domain.Target) []Scored {
	pos := len(top)
	for i, t := range top {
		if domain.IsBetterByTarget(target, s.Damage, t.Damage, s.Dps, t.Dps) {
			pos = i
			break
		}
	}
	if pos >= keep {
		return top
	}
	top = append(top, Scored{})
	copy(top[pos+1:], top[pos:])
	top[pos] = s
	if len(top) > keep {
		top = top[:keep]
	}
	return top
}

// ApplyCandidate returns a copy of base wearing the candidate's echoes. Sheets stay shared; echoes are deep copied.
func ApplyCandidate(base *domain.Build, c Candidate) (*domain.Build, error) {
	b := *base
	b.Echoes = [5]domain.Echo{}
	if err := deepcopy.Copy(&b.Echoes, c.Echoes); err != nil {
		return nil, fmt.Errorf("copy echoes: %w", err)
	}
	return &b, nil
}
