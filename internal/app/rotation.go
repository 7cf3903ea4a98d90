package app

import (
	"context"
	"fmt"
	"maps"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/AoTofu/wuwa-calc-web/internal/calc"
	"github.com/AoTofu/wuwa-calc-web/internal/config"
	"github.com/AoTofu/wuwa-calc-web/internal/logging"
	"github.com/AoTofu/wuwa-calc-web/internal/output"
	"github.com/AoTofu/wuwa-calc-web/internal/rotation"
	"github.com/AoTofu/wuwa-calc-web/internal/sim"
)

// RunRotation executes the rotation calculator and returns the desired process exit code.
func RunRotation(args []string) int {
	return runTool(config.ToolRotation, args, runRotation)
}

func runTool(tool string, args []string, fn func(ctx context.Context, appRoot string, flags config.Flags) error) int {
	flags, err := config.ParseFlags(tool, args)
	if err != nil {
		return exitCode(os.Stderr, ExitWithError(2, err))
	}
	appRoot, err := FindRoot()
	if err != nil {
		return exitCode(os.Stderr, err)
	}
	return exitCode(os.Stderr, fn(context.Background(), appRoot, flags))
}

func runRotation(ctx context.Context, appRoot string, flags config.Flags) error {
	totalStart := time.Now()

	path := flags.Path(appRoot)
	sc, err := config.LoadScenario(path)
	if err != nil {
		return ExitWithError(2, err)
	}
	flags.ApplyScenario(&sc)
	if err := sc.Validate(); err != nil {
		return ExitWithError(2, fmt.Errorf("scenario (%s): %w", path, err))
	}

	logger, err := logging.New(sc.Log.Level, sc.Log.Format)
	if err != nil {
		return ExitWithError(2, err)
	}
	defer logger.Sync()
	logger.Info("scenario loaded", zap.String("path", path), zap.Int("team", len(sc.Team)))

	env, err := loadEnvironment(appRoot, sc, logger)
	if err != nil {
		return err
	}
	eng := env.engine(env.team, env.buffs, sc, logger)
	if err := validateTimelines(eng, sc); err != nil {
		return err
	}

	report := output.RotationReport{
		Team:   eng.Members(),
		Result: eng.Run(sc.Initial, sc.Loop, nil),
		Loops:  sc.MonteCarlo.Loops,
	}
	logDiagnostics(logger, "initial", report.Result.Initial.Log)
	logDiagnostics(logger, "loop", report.Result.Loop.Log)

	var simElapsed time.Duration
	if sc.MonteCarlo.Enabled {
		simStart := time.Now()
		logger.Info("monte carlo started",
			zap.Int("trials", sc.MonteCarlo.Trials),
			zap.Int("workers", sc.MonteCarlo.Workers),
			zap.Uint64("seed", *sc.MonteCarlo.Seed),
		)
		stats, err := sim.Sample(ctx, eng, sc.Initial, sc.Loop, sim.Options{
			Trials:  sc.MonteCarlo.Trials,
			Loops:   sc.MonteCarlo.Loops,
			Workers: sc.MonteCarlo.Workers,
			Seed:    *sc.MonteCarlo.Seed,
		})
		if err != nil {
			return fmt.Errorf("monte carlo: %w", err)
		}
		simElapsed = time.Since(simStart)
		report.Stats = &stats
	}

	if len(sc.CompareWithout) > 0 {
		without := make(map[string]float64, len(sc.CompareWithout))
		for _, key := range sc.CompareWithout {
			if _, ok := env.buffs[key]; !ok {
				logger.Warn("compare_without: unknown buff, skipped", zap.String("key", key))
				continue
			}
			buffs := maps.Clone(env.buffs)
			delete(buffs, key)
			res := env.engine(env.team, buffs, sc, zap.NewNop()).Run(sc.Initial, sc.Loop, nil)
			without[key] = output.RotationReport{Result: res, Loops: sc.MonteCarlo.Loops}.Total()
		}
		report.Comparisons = output.Compare(report.Total(), without)
	}
	report.ClearTimes = output.ClearTimes(sc.EnemyHP, report.Dps())

	output.PrintRotation(os.Stdout, report)

	xlsxPath, err := output.ExportRotationXLSX(appRoot, report)
	if err != nil {
		return fmt.Errorf("export xlsx: %w", err)
	}
	fmt.Println("Exported results to", xlsxPath)

	// Timing summary
	totalElapsed := time.Since(totalStart)
	logger.Info("finished",
		zap.Duration("total", totalElapsed.Round(time.Millisecond)),
		zap.Duration("app", max(totalElapsed-simElapsed, 0).Round(time.Millisecond)),
		zap.Duration("monte_carlo", simElapsed.Round(time.Millisecond)),
	)
	return nil
}

func logDiagnostics(logger *zap.Logger, phase string, log []rotation.Entry) {
	for i, e := range log {
		if e.Diagnostic == calc.DiagNone {
			continue
		}
		logger.Warn("action produced no damage",
			zap.String("phase", phase),
			zap.Int("index", i),
			zap.String("character", e.Character),
			zap.String("skill", e.Skill),
			zap.String("diagnostic", string(e.Diagnostic)),
		)
	}
}
