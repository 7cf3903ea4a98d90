package app

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/AoTofu/wuwa-calc-web/internal/config"
	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/logging"
	"github.com/AoTofu/wuwa-calc-web/internal/optimizer"
	"github.com/AoTofu/wuwa-calc-web/internal/output"
	"github.com/AoTofu/wuwa-calc-web/internal/registry"
)

const progressInterval = 5 * time.Second

// RunOptimizer executes the echo optimizer and returns the desired process exit code.
func RunOptimizer(args []string) int {
	return runTool(config.ToolOptimizer, args, runOptimizer)
}

func runOptimizer(ctx context.Context, appRoot string, flags config.Flags) error {
	totalStart := time.Now()

	path := flags.Path(appRoot)
	oc, err := config.LoadOptimizer(path)
	if err != nil {
		return ExitWithError(2, err)
	}
	flags.ApplyOptimizer(&oc)
	if err := oc.Validate(); err != nil {
		return ExitWithError(2, fmt.Errorf("optimizer config (%s): %w", path, err))
	}
	target, err := domain.ParseTarget(oc.Target)
	if err != nil {
		return ExitWithError(2, err)
	}

	logger, err := logging.New(oc.Log.Level, oc.Log.Format)
	if err != nil {
		return ExitWithError(2, err)
	}
	defer logger.Sync()

	scPath := oc.Scenario
	if !filepath.IsAbs(scPath) {
		scPath = filepath.Join(appRoot, scPath)
	}
	sc, err := config.LoadScenario(scPath)
	if err != nil {
		return ExitWithError(2, err)
	}
	env, err := loadEnvironment(appRoot, sc, logger)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(env.team, func(b *domain.Build) bool { return b.Name() == oc.Character })
	if idx < 0 {
		return ExitWithError(2, fmt.Errorf("%w: %q is not in the scenario team", config.ErrUnknownCharacter, oc.Character))
	}
	if err := validateTimelines(env.engine(env.team, env.buffs, sc, logger), sc); err != nil {
		return err
	}

	candidates, total, err := candidateSource(env.reg, oc)
	if err != nil {
		return ExitWithError(2, err)
	}
	if total == 0 {
		return ExitWithError(1, errors.New("the search space is empty: check cost_patterns, main_stats and sub_stats"))
	}
	logger.Info("optimizing echoes",
		zap.String("character", oc.Character),
		zap.Int("index", idx),
		zap.Int("candidates", total),
		zap.String("target", target.String()),
		zap.Int("workers", oc.Workers),
	)

	base := env.team[idx]
	score := func(c optimizer.Candidate) (float64, float64, error) {
		b, err := optimizer.ApplyCandidate(base, c)
		if err != nil {
			return 0, 0, err
		}
		team := slices.Clone(env.team)
		team[idx] = b
		res := env.engine(team, env.buffs, sc, zap.NewNop()).Run(sc.Initial, sc.Loop, nil)
		rep := output.RotationReport{Result: res, Loops: sc.MonteCarlo.Loops}
		return rep.Total(), rep.Dps(), nil
	}

	searchStart := time.Now()
	lastReport := searchStart
	progress := func(done int) {
		if done != total && time.Since(lastReport) < progressInterval {
			return
		}
		lastReport = time.Now()
		elapsed := time.Since(searchStart)
		remaining := time.Duration(float64(elapsed) * float64(total-done) / float64(done))
		logger.Info("progress",
			zap.Int("done", done),
			zap.Int("total", total),
			zap.Float64("percent", float64(done)/float64(total)*100),
			zap.Duration("eta", remaining.Round(time.Second)),
		)
	}
	results, err := optimizer.Search(ctx, candidates, score, optimizer.SearchOptions{
		Workers:  oc.Workers,
		Keep:     oc.Keep,
		Target:   target,
		Progress: progress,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	searchElapsed := time.Since(searchStart)

	output.PrintRanking(os.Stdout, results, target, 5)

	xlsxPath, err := output.ExportOptimizerXLSX(appRoot, oc.Character, target, results)
	if err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	fmt.Println("Exported results to", xlsxPath)

	// Timing summary
	totalElapsed := time.Since(totalStart)
	logger.Info("finished",
		zap.Duration("total", totalElapsed.Round(time.Second)),
		zap.Duration("app", max(totalElapsed-searchElapsed, 0).Round(time.Second)),
		zap.Duration("search", searchElapsed.Round(time.Second)),
	)
	return nil
}

// candidateSource picks generated or owned echoes and counts the candidates up front for ETA reporting.
func candidateSource(reg *registry.Registry, oc config.Optimizer) (iter.Seq[optimizer.Candidate], int, error) {
	owned, err := oc.Owned(reg)
	if err != nil {
		return nil, 0, err
	}
	if owned == nil {
		space, err := oc.SearchSpace(reg)
		if err != nil {
			return nil, 0, err
		}
		return optimizer.Enumerate(reg, space), optimizer.Count(reg, space), nil
	}

	var patterns []optimizer.CostPattern
	for _, s := range oc.CostPatterns {
		p, err := optimizer.ParseCostPattern(s)
		if err != nil {
			return nil, 0, err
		}
		patterns = append(patterns, p)
	}
	seq := func(yield func(optimizer.Candidate) bool) {
		for _, p := range patterns {
			for c := range optimizer.EnumerateOwned(owned, p) {
				if !yield(c) {
					return
				}
			}
		}
	}
	total := 0
	for range seq {
		total++
	}
	return seq, total, nil
}
