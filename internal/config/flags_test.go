package config_test

import (
	"path/filepath"
	"testing"

	"github.com/AoTofu/wuwa-calc-web/internal/config"
)

func TestFlagsPath(t *testing.T) {
	root := filepath.Join("srv", "calc")

	f, err := config.ParseFlags(config.ToolRotation, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := f.Path(root), filepath.Join(root, "input", "rotation_calc", "scenario.yaml"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	f, err = config.ParseFlags(config.ToolOptimizer, []string{"-useExamples"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(root, "input", "echo_optimizer", "examples", "optimizer_config.example.yaml")
	if got := f.Path(root); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	f, err = config.ParseFlags(config.ToolRotation, []string{"-config", "mine.yaml"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := f.Path(root), filepath.Join(root, "mine.yaml"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	abs, _ := filepath.Abs("scenario.yaml")
	f, err = config.ParseFlags(config.ToolRotation, []string{"-config", abs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.Path(root); got != abs {
		t.Fatalf("expected absolute path kept, got %q", got)
	}
}

func TestFlagsApplyScenario(t *testing.T) {
	f, err := config.ParseFlags(config.ToolRotation, []string{"-trials", "0", "-seed", "42", "-log-level", "debug"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := config.Scenario{MonteCarlo: config.MonteCarlo{Enabled: true, Trials: 500, Loops: 3, Workers: 2}}
	f.ApplyScenario(&s)

	if s.MonteCarlo.Enabled || s.MonteCarlo.Trials != 0 {
		t.Fatalf("expected -trials 0 to disable monte carlo, got %+v", s.MonteCarlo)
	}
	if s.MonteCarlo.Seed == nil || *s.MonteCarlo.Seed != 42 {
		t.Fatalf("expected seed 42, got %v", s.MonteCarlo.Seed)
	}
	if s.MonteCarlo.Loops != 3 || s.MonteCarlo.Workers != 2 {
		t.Fatalf("flags that were not given must not override: %+v", s.MonteCarlo)
	}
	if s.Log.Level != "debug" {
		t.Fatalf("expected log level debug, got %q", s.Log.Level)
	}
}

func TestFlagsApplyOptimizer(t *testing.T) {
	f, err := config.ParseFlags(config.ToolOptimizer, []string{"-keep", "3", "-target", "dps", "-workers", "4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := config.Optimizer{Keep: 20, Target: "total_damage", Workers: 1}
	f.ApplyOptimizer(&o)
	if o.Keep != 3 || o.Target != "dps" || o.Workers != 4 {
		t.Fatalf("unexpected optimizer after flags: %+v", o)
	}
}

func TestParseFlags_RejectsOtherToolFlags(t *testing.T) {
	if _, err := config.ParseFlags(config.ToolOptimizer, []string{"-trials", "10"}); err == nil {
		t.Fatalf("expected -trials to be rejected by the optimizer")
	}
	if _, err := config.ParseFlags(config.ToolRotation, []string{"-workers", "many"}); err == nil {
		t.Fatalf("expected error for a non-numeric -workers")
	}
}
