package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/AoTofu/wuwa-calc-web/internal/domain"
	"github.com/AoTofu/wuwa-calc-web/internal/optimizer"
	"github.com/AoTofu/wuwa-calc-web/internal/registry"
)

const (
	DefaultKeep        = 20
	DefaultSubsPerEcho = 5
	DefaultCostPattern = "4-3-3-1-1"
)

// Optimizer configures an echo search for one member of a scenario team.
type Optimizer struct {
	// Scenario is the rotation file the candidates are scored against.
	Scenario  string `yaml:"scenario"`
	Character string `yaml:"character"`
	Target    string `yaml:"target"`

	CostPatterns []string  `yaml:"cost_patterns"`
	SubsPerEcho  int       `yaml:"subs_per_echo"`
	SubTier      int       `yaml:"sub_tier"`
	SubStats     []SubStat `yaml:"sub_stats"`
	// MainStats whitelists main stat keys per cost. A cost left out allows every main stat.
	MainStats  map[int][]string `yaml:"main_stats"`
	Exhaustive bool             `yaml:"exhaustive"`
	// OwnedEchoes switches the search to the given inventory instead of generated echoes.
	OwnedEchoes []domain.Echo `yaml:"owned_echoes"`

	Keep    int `yaml:"keep"`
	Workers int `yaml:"workers"`
	Log     Log `yaml:"log"`
}

type SubStat struct {
	Key      string `yaml:"key"`
	Priority string `yaml:"priority"`
}

var optimizerKeys = []string{
	"scenario", "character", "target", "cost_patterns", "subs_per_echo", "sub_tier",
	"sub_stats", "main_stats", "exhaustive", "owned_echoes", "keep", "workers", "log",
}

func (o *Optimizer) UnmarshalYAML(value *yaml.Node) error {
	if err := checkKeys("optimizer", value, optimizerKeys); err != nil {
		return err
	}
	type raw Optimizer
	var tmp raw
	if err := strictDecode(value, &tmp); err != nil {
		return err
	}
	*o = Optimizer(tmp)
	return nil
}

func LoadOptimizer(path string) (Optimizer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Optimizer{}, fmt.Errorf("read optimizer config (%s): %w", path, err)
	}
	var o Optimizer
	if err := yaml.Unmarshal(b, &o); err != nil {
		return Optimizer{}, fmt.Errorf("parse optimizer config (%s): %w", path, err)
	}
	o.applyDefaults()
	return o, nil
}

func (o *Optimizer) applyDefaults() {
	if len(o.CostPatterns) == 0 {
		o.CostPatterns = []string{DefaultCostPattern}
	}
	if o.SubsPerEcho == 0 {
		o.SubsPerEcho = DefaultSubsPerEcho
	}
	if o.Keep == 0 {
		o.Keep = DefaultKeep
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if strings.TrimSpace(o.Target) == "" {
		o.Target = domain.TargetTotalDamage.String()
	}
}

// Validate checks everything that does not need the registry.
func (o Optimizer) Validate() error {
	var errs error
	if strings.TrimSpace(o.Scenario) == "" {
		errs = multierr.Append(errs, errors.New("scenario is required"))
	}
	if strings.TrimSpace(o.Character) == "" {
		errs = multierr.Append(errs, errors.New("character is required"))
	}
	if _, err := domain.ParseTarget(o.Target); err != nil {
		errs = multierr.Append(errs, err)
	}
	for _, p := range o.CostPatterns {
		if _, err := optimizer.ParseCostPattern(p); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if o.SubsPerEcho < 1 || o.SubsPerEcho > 5 {
		errs = multierr.Append(errs, fmt.Errorf("subs_per_echo must be in [1..5], got %d", o.SubsPerEcho))
	}
	if o.SubTier < 0 || o.SubTier >= registry.SubStatTiers {
		errs = multierr.Append(errs, fmt.Errorf("sub_tier must be in [0..%d], got %d", registry.SubStatTiers-1, o.SubTier))
	}
	for i, s := range o.SubStats {
		if _, err := optimizer.ParsePriority(s.Priority); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("sub_stats[%d]: %w", i, err))
		}
	}
	if o.Keep < 0 {
		errs = multierr.Append(errs, fmt.Errorf("keep must be positive, got %d", o.Keep))
	}
	return errs
}

// SearchSpace converts the config into generator input. Sub stats the registry does not know are rejected.
func (o Optimizer) SearchSpace(reg *registry.Registry) (optimizer.SearchSpace, error) {
	space := optimizer.SearchSpace{
		SubsPerEcho: o.SubsPerEcho,
		SubTier:     o.SubTier,
		MainStats:   map[int][]string{},
		Exhaustive:  o.Exhaustive,
	}
	var errs error
	for _, s := range o.CostPatterns {
		p, err := optimizer.ParseCostPattern(s)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		space.Patterns = append(space.Patterns, p)
	}

	subs := o.SubStats
	if len(subs) == 0 {
		for _, k := range reg.SubStatKeys() {
			subs = append(subs, SubStat{Key: k})
		}
	}
	for _, s := range subs {
		pr, err := optimizer.ParsePriority(s.Priority)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if _, ok := reg.SubStatValue(s.Key, o.SubTier); !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: sub stat %q", ErrUnknownStat, s.Key))
			continue
		}
		space.SubStats = append(space.SubStats, optimizer.SubStatChoice{Key: s.Key, Priority: pr})
	}

	for cost, keys := range o.MainStats {
		for _, k := range keys {
			if _, ok := reg.MainStatValue(cost, k); !ok {
				errs = multierr.Append(errs, fmt.Errorf("%w: main stat %q for cost %d", ErrUnknownStat, k, cost))
				continue
			}
			space.MainStats[cost] = append(space.MainStats[cost], k)
		}
	}
	for _, p := range space.Patterns {
		for _, cost := range p {
			if _, ok := space.MainStats[cost]; ok {
				continue
			}
			for _, ms := range reg.MainStats(cost) {
				space.MainStats[cost] = append(space.MainStats[cost], ms.Key)
			}
		}
	}
	if errs != nil {
		return optimizer.SearchSpace{}, errs
	}
	return space, nil
}

// Owned groups the owned inventory by cost, resolving main stat values like scenario echoes.
func (o Optimizer) Owned(reg *registry.Registry) (map[int][]domain.Echo, error) {
	if len(o.OwnedEchoes) == 0 {
		return nil, nil
	}
	out := map[int][]domain.Echo{}
	var errs error
	for i, e := range o.OwnedEchoes {
		echo, err := resolveEcho(reg, e)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("owned_echoes[%d]: %w", i, err))
			continue
		}
		if echo.Cost == 0 {
			continue
		}
		out[echo.Cost] = append(out[echo.Cost], echo)
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}
