package app

import (
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/AoTofu/wuwa-calc-web/internal/config"
	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/gamedata"
	"github.com/AoTofu/wuwa-calc-web/internal/registry"
	"github.com/AoTofu/wuwa-calc-web/internal/rotation"
)

// environment is a scenario resolved against the game data.
type environment struct {
	reg   *registry.Registry
	data  *gamedata.Data
	team  []*domain.Build
	stage *domain.StageEffect
	buffs domain.BuffTable
}

func loadEnvironment(appRoot string, sc config.Scenario, logger *zap.Logger) (*environment, error) {
	dataDir := sc.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(appRoot, dataDir)
	}
	data, err := gamedata.Load(dataDir)
	if err != nil {
		return nil, fmt.Errorf("load game data: %w", err)
	}
	reg := registry.New()
	if n := data.Check(reg, logger); n > 0 {
		logger.Warn("game data references unknown stat keys", zap.Int("count", n))
	}
	logger.Debug("game data loaded",
		zap.String("dir", dataDir),
		zap.Int("characters", len(data.Characters)),
		zap.Int("weapons", len(data.Weapons)),
		zap.Int("harmonies", len(data.Harmonies)),
		zap.Int("echo_skills", len(data.EchoSkills)),
		zap.Int("stage_effects", len(data.StageEffects)),
	)

	team, err := config.ResolveTeam(reg, data, sc.Team)
	if err != nil {
		return nil, ExitWithError(2, fmt.Errorf("resolve team: %w", err))
	}
	env := &environment{reg: reg, data: data, team: team}
	if sc.Stage != "" {
		if env.stage, err = data.StageEffect(sc.Stage); err != nil {
			return nil, ExitWithError(2, err)
		}
	}
	env.buffs = gamedata.GatherBuffs(team, env.stage)
	if sc.IgnoreBuff != "" {
		if _, ok := env.buffs[sc.IgnoreBuff]; !ok {
			logger.Warn("ignore_buff does not match any buff", zap.String("key", sc.IgnoreBuff))
		}
	}
	return env, nil
}

func (env *environment) engine(team []*domain.Build, buffs domain.BuffTable, sc config.Scenario, logger *zap.Logger) *rotation.Engine {
	return rotation.New(env.reg, team, buffs, sc.Enemy,
		rotation.WithLogger(logger),
		rotation.WithIgnoredBuff(sc.IgnoreBuff),
	)
}

// validateTimelines rejects actions naming characters or skills the engine cannot resolve.
func validateTimelines(eng *rotation.Engine, sc config.Scenario) error {
	err := multierr.Combine(
		eng.Validate("initial", sc.Initial),
		eng.Validate("loop", sc.Loop),
	)
	if err != nil {
		return ExitWithError(2, fmt.Errorf("invalid rotation: %w", err))
	}
	return nil
}
