// Package config loads the rotation scenario and optimizer input files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"runtime"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
)

const (
	DefaultTrials     = 1000
	DefaultLoops      = 1
	DefaultEnemyLevel = 90
	DefaultDataDir    = "data"
)

// Scenario is one team, its rotation and the enemy it is played against.
type Scenario struct {
	DataDir string   `yaml:"data_dir"`
	Team    []Member `yaml:"team"`
	// Stage names a stage effect sheet whose buffs apply to the whole team.
	Stage   string       `yaml:"stage"`
	Enemy   domain.Enemy `yaml:"enemy"`
	Initial domain.Phase `yaml:"initial"`
	Loop    domain.Phase `yaml:"loop"`

	IgnoreBuff string `yaml:"ignore_buff"`
	// CompareWithout lists buff keys to re-run the rotation without, one at a time.
	CompareWithout []string `yaml:"compare_without"`
	// EnemyHP values get a clear-time estimate each.
	EnemyHP []float64 `yaml:"enemy_hp"`

	MonteCarlo MonteCarlo `yaml:"monte_carlo"`
	Log        Log        `yaml:"log"`
}

// Member is one team slot as written in the scenario file.
type Member struct {
	Character     string        `yaml:"character"`
	Weapon        string        `yaml:"weapon"`
	WeaponRank    int           `yaml:"weapon_rank"`
	Constellation int           `yaml:"constellation"`
	Harmonies     []string      `yaml:"harmonies"`
	EchoSkill     string        `yaml:"echo_skill"`
	Echoes        []domain.Echo `yaml:"echoes"`
}

type MonteCarlo struct {
	Enabled bool    `yaml:"enabled"`
	Trials  int     `yaml:"trials"`
	Loops   int     `yaml:"loops"`
	Workers int     `yaml:"workers"`
	Seed    *uint64 `yaml:"seed"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var scenarioKeys = []string{
	"data_dir", "team", "stage", "enemy", "initial", "loop",
	"ignore_buff", "compare_without", "enemy_hp", "monte_carlo", "log",
}

func (s *Scenario) UnmarshalYAML(value *yaml.Node) error {
	if err := checkKeys("scenario", value, scenarioKeys); err != nil {
		return err
	}
	type raw Scenario
	var tmp raw
	if err := strictDecode(value, &tmp); err != nil {
		return err
	}
	*s = Scenario(tmp)
	return nil
}

// LoadScenario reads and validates a scenario file. Unknown keys are rejected.
func LoadScenario(path string) (Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario (%s): %w", path, err)
	}
	s, err := ParseScenario(b)
	if err != nil {
		return Scenario{}, fmt.Errorf("parse scenario (%s): %w", path, err)
	}
	return s, nil
}

func ParseScenario(b []byte) (Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Scenario{}, errors.New("empty scenario")
		}
		return Scenario{}, err
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

func (s *Scenario) applyDefaults() {
	if s.DataDir == "" {
		s.DataDir = DefaultDataDir
	}
	if s.Enemy.Level == 0 {
		s.Enemy.Level = DefaultEnemyLevel
	}
	if s.MonteCarlo.Trials == 0 {
		s.MonteCarlo.Trials = DefaultTrials
	}
	if s.MonteCarlo.Loops == 0 {
		s.MonteCarlo.Loops = DefaultLoops
	}
	if s.MonteCarlo.Workers <= 0 {
		s.MonteCarlo.Workers = runtime.GOMAXPROCS(0)
	}
	if s.MonteCarlo.Seed == nil {
		seed := rand.Uint64()
		s.MonteCarlo.Seed = &seed
	}
	for i := range s.Team {
		if s.Team[i].WeaponRank == 0 {
			s.Team[i].WeaponRank = 1
		}
	}
}

// Validate reports every problem at once.
func (s Scenario) Validate() error {
	var errs error
	if len(s.Team) == 0 {
		errs = multierr.Append(errs, errors.New("team: at least one member is required"))
	}
	seen := map[string]bool{}
	for i, m := range s.Team {
		if m.Character == "" {
			errs = multierr.Append(errs, fmt.Errorf("team[%d]: character is required", i))
		}
		if seen[m.Character] {
			errs = multierr.Append(errs, fmt.Errorf("team[%d]: duplicate character %q", i, m.Character))
		}
		seen[m.Character] = true
		if m.WeaponRank < 1 || m.WeaponRank > 5 {
			errs = multierr.Append(errs, fmt.Errorf("team[%d]: weapon_rank must be in [1..5], got %d", i, m.WeaponRank))
		}
		if m.Constellation < 0 || m.Constellation > 6 {
			errs = multierr.Append(errs, fmt.Errorf("team[%d]: constellation must be in [0..6], got %d", i, m.Constellation))
		}
		if len(m.Harmonies) > 2 {
			errs = multierr.Append(errs, fmt.Errorf("team[%d]: at most 2 harmonies, got %d", i, len(m.Harmonies)))
		}
		if len(m.Echoes) > 5 {
			errs = multierr.Append(errs, fmt.Errorf("team[%d]: at most 5 echoes, got %d", i, len(m.Echoes)))
		}
	}
	if s.Enemy.Level < 0 {
		errs = multierr.Append(errs, fmt.Errorf("enemy.level must not be negative, got %d", s.Enemy.Level))
	}
	if s.MonteCarlo.Trials < 0 {
		errs = multierr.Append(errs, fmt.Errorf("monte_carlo.trials must be positive, got %d", s.MonteCarlo.Trials))
	}
	if s.MonteCarlo.Loops < 0 {
		errs = multierr.Append(errs, fmt.Errorf("monte_carlo.loops must not be negative, got %d", s.MonteCarlo.Loops))
	}
	for i, hp := range s.EnemyHP {
		if hp <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("enemy_hp[%d] must be positive, got %v", i, hp))
		}
	}
	return errs
}
