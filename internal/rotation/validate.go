package rotation

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
)

var (
	ErrUnknownCharacter = errors.New("character is not in the team")
	ErrUnknownSkill     = errors.New("skill not found")
)

// Validate reports every action the engine would skip or score as zero: actions for characters
// outside the team and actions whose skill cannot be resolved.
func (e *Engine) Validate(name string, phase domain.Phase) error {
	var errs error
	for i, a := range phase.Actions {
		actor := a.Character
		if actor == "" {
			if e.isAbnormal(a.Skill) {
				continue
			}
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: %w: action has no character", name, i, ErrUnknownCharacter))
			continue
		}
		idx, ok := e.index[actor]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: %w: %q", name, i, ErrUnknownCharacter, actor))
			continue
		}
		if e.isAbnormal(a.Skill) {
			continue
		}
		if _, ok := e.skillFor(e.team[idx].build, a); !ok {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: %w: %q for %s", name, i, ErrUnknownSkill, a.Skill, actor))
		}
	}
	if len(phase.TimeMarks) > 0 && len(phase.TimeMarks) != len(phase.Actions) {
		errs = multierr.Append(errs, fmt.Errorf("%s: %d time marks for %d actions", name, len(phase.TimeMarks), len(phase.Actions)))
	}
	return errs
}
