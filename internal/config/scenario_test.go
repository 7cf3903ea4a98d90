package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/AoTofu/wuwa-calc-web/internal/config"
)

func TestParseScenario_RejectsUnknownKeys(t *testing.T) {
	in := "" +
		"team:\n" +
		"  - character: Aalto\n" +
		"rotation: []\n"

	_, err := config.ParseScenario([]byte(in))
	if err == nil {
		t.Fatalf("expected error for unsupported scenario keys")
	}
	if !strings.Contains(err.Error(), `unsupported key "rotation"`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseScenario_RejectsUnknownNestedKeys(t *testing.T) {
	in := "" +
		"team:\n" +
		"  - character: Aalto\n" +
		"    weapon_level: 90\n"

	if _, err := config.ParseScenario([]byte(in)); err == nil {
		t.Fatalf("expected error for unsupported member keys")
	}

	in = "" +
		"team:\n" +
		"  - character: Aalto\n" +
		"monte_carlo:\n" +
		"  runs: 10\n"
	if _, err := config.ParseScenario([]byte(in)); err == nil {
		t.Fatalf("expected error for unsupported monte_carlo keys")
	}
}

func TestParseScenario_Defaults(t *testing.T) {
	in := "" +
		"team:\n" +
		"  - character: Aalto\n" +
		"    echoes:\n" +
		"      - {cost: 4, main_stat: {key: crit_rate}}\n" +
		"loop:\n" +
		"  actions:\n" +
		"    - {character: Aalto, skill: Basic}\n"

	s, err := config.ParseScenario([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.DataDir != config.DefaultDataDir {
		t.Fatalf("expected data dir %q, got %q", config.DefaultDataDir, s.DataDir)
	}
	if s.Enemy.Level != config.DefaultEnemyLevel {
		t.Fatalf("expected enemy level %d, got %d", config.DefaultEnemyLevel, s.Enemy.Level)
	}
	if s.MonteCarlo.Trials != config.DefaultTrials || s.MonteCarlo.Loops != config.DefaultLoops {
		t.Fatalf("unexpected monte carlo defaults: %+v", s.MonteCarlo)
	}
	if s.MonteCarlo.Enabled {
		t.Fatalf("monte carlo must stay off unless enabled")
	}
	if s.MonteCarlo.Workers <= 0 {
		t.Fatalf("expected positive worker default, got %d", s.MonteCarlo.Workers)
	}
	if s.MonteCarlo.Seed == nil {
		t.Fatalf("expected a seed to be drawn")
	}
	if s.Team[0].WeaponRank != 1 {
		t.Fatalf("expected weapon rank 1, got %d", s.Team[0].WeaponRank)
	}
	if len(s.Loop.Actions) != 1 || s.Loop.Actions[0].Skill != "Basic" {
		t.Fatalf("unexpected loop: %+v", s.Loop)
	}
}

func TestParseScenario_KeepsExplicitSeed(t *testing.T) {
	in := "" +
		"team:\n" +
		"  - character: Aalto\n" +
		"monte_carlo:\n" +
		"  enabled: true\n" +
		"  seed: 7\n"

	s, err := config.ParseScenario([]byte(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.MonteCarlo.Seed == nil || *s.MonteCarlo.Seed != 7 {
		t.Fatalf("expected seed 7, got %v", s.MonteCarlo.Seed)
	}
}

func TestParseScenario_Empty(t *testing.T) {
	if _, err := config.ParseScenario(nil); err == nil || err.Error() != "empty scenario" {
		t.Fatalf("expected empty scenario error, got %v", err)
	}
}

func TestScenarioValidate_ReportsEveryProblem(t *testing.T) {
	s := config.Scenario{
		Team: []config.Member{
			{Character: "Aalto", WeaponRank: 7},
			{Character: "Aalto", WeaponRank: 1, Constellation: 9, Harmonies: []string{"a", "b", "c"}},
		},
		EnemyHP: []float64{1e6, -1},
	}
	err := s.Validate()
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	if got := len(multierr.Errors(err)); got != 5 {
		t.Fatalf("expected 5 errors, got %d: %v", got, err)
	}
}

func TestScenarioValidate_EmptyTeam(t *testing.T) {
	if err := (config.Scenario{}).Validate(); err == nil {
		t.Fatalf("expected error for empty team")
	}
}

func TestLoadScenario_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte("team:\n  - character: Aalto\nenemy_hp: [1000000]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := config.LoadScenario(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.EnemyHP) != 1 {
		t.Fatalf("expected 1 enemy hp, got %d", len(s.EnemyHP))
	}

	if _, err := config.LoadScenario(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
