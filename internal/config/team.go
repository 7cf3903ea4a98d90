package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/gamedata"
	"github.com/AoTofu/wuwa-calc-web/internal/registry"
)

var (
	ErrUnknownCharacter = errors.New("unknown character")
	ErrUnknownStat      = errors.New("unknown stat")
)

// ResolveTeam turns scenario members into builds backed by the loaded sheets.
// Echo main stats written without a value take the catalog value for their cost.
func ResolveTeam(reg *registry.Registry, data *gamedata.Data, members []Member) ([]*domain.Build, error) {
	team := make([]*domain.Build, 0, len(members))
	var errs error
	for i, m := range members {
		b, err := resolveMember(reg, data, m)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("team[%d] (%s): %w", i, m.Character, err))
			continue
		}
		team = append(team, b)
	}
	if errs != nil {
		return nil, errs
	}
	return team, nil
}

func resolveMember(reg *registry.Registry, data *gamedata.Data, m Member) (*domain.Build, error) {
	c, err := data.Character(m.Character)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownCharacter, err)
	}
	b := &domain.Build{
		Character:     c,
		WeaponRank:    m.WeaponRank,
		Constellation: m.Constellation,
	}

	var errs error
	if m.Weapon != "" {
		w, err := data.Weapon(m.Weapon)
		errs = multierr.Append(errs, err)
		b.Weapon = w
	}
	if m.EchoSkill != "" {
		s, err := data.EchoSkill(m.EchoSkill)
		errs = multierr.Append(errs, err)
		b.EchoSkill = s
	}
	harmonies := []**domain.Harmony{&b.Harmony1, &b.Harmony2}
	for i, name := range m.Harmonies {
		if i >= len(harmonies) {
			break
		}
		if name == "" {
			continue
		}
		h, err := data.Harmony(name)
		errs = multierr.Append(errs, err)
		*harmonies[i] = h
	}
	for i, e := range m.Echoes {
		echo, err := resolveEcho(reg, e)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("echoes[%d]: %w", i, err))
			continue
		}
		b.Echoes[i] = echo
	}
	if errs != nil {
		return nil, errs
	}
	return b, nil
}

func resolveEcho(reg *registry.Registry, e domain.Echo) (domain.Echo, error) {
	if e.Cost == 0 {
		return e, nil
	}
	if !reg.IsCostTier(e.Cost) {
		return domain.Echo{}, fmt.Errorf("cost %d is not an echo cost", e.Cost)
	}
	out := domain.Echo{Name: e.Name, Cost: e.Cost, Subs: append([]domain.Stat(nil), e.Subs...)}
	if e.Main != nil {
		ms := *e.Main
		if ms.Value == 0 {
			v, ok := reg.MainStatValue(e.Cost, ms.Key)
			if !ok {
				return domain.Echo{}, fmt.Errorf("%w: main stat %q for cost %d", ErrUnknownStat, ms.Key, e.Cost)
			}
			ms.Value = v
		}
		out.Main = &ms
	}
	for _, s := range out.Subs {
		if !reg.KnownStat(s.Key) {
			return domain.Echo{}, fmt.Errorf("%w: sub stat %q", ErrUnknownStat, s.Key)
		}
	}
	return out, nil
}
