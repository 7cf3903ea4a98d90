package domain

import "testing"

func TestParseTarget(t *testing.T) {
	for in, want := range map[string]Target{"": TargetTotalDamage, "damage": TargetTotalDamage, " DPS ": TargetDps} {
		got, err := ParseTarget(in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
	if _, err := ParseTarget("team_dps"); err == nil {
		t.Fatalf("expected error for unsupported target")
	}
}

func TestIsBetterByTarget(t *testing.T) {
	if !IsBetterByTarget(TargetTotalDamage, 2, 1, 0, 5) {
		t.Fatalf("expected higher damage to win for total_damage")
	}
	if IsBetterByTarget(TargetDps, 2, 1, 0, 5) {
		t.Fatalf("expected lower dps to lose for dps")
	}
}

func TestPhaseTime(t *testing.T) {
	p := Phase{Actions: make([]Action, 4)}
	if got := p.ElapsedTime(); got != 6 {
		t.Fatalf("expected 1.5s per action, got %v", got)
	}
	p.TimeMarks = []bool{true, false, true, true}
	if got := p.ElapsedTime(); got != 3 {
		t.Fatalf("expected 3 marked seconds, got %v", got)
	}
}
