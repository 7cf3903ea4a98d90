package config

import (
	"flag"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	ToolRotation  = "rotation_calc"
	ToolOptimizer = "echo_optimizer"
)

var defaultFiles = map[string]string{
	ToolRotation:  "scenario.yaml",
	ToolOptimizer: "optimizer_config.yaml",
}

type stringOpt struct {
	v   string
	set bool
}

func (o *stringOpt) String() string { return o.v }
func (o *stringOpt) Set(v string) error {
	o.v = strings.TrimSpace(v)
	o.set = true
	return nil
}

type intOpt struct {
	v   int
	set bool
}

func (o *intOpt) String() string { return strconv.Itoa(o.v) }
func (o *intOpt) Set(v string) error {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	o.v = n
	o.set = true
	return nil
}

type uintOpt struct {
	v   uint64
	set bool
}

func (o *uintOpt) String() string { return strconv.FormatUint(o.v, 10) }
func (o *uintOpt) Set(v string) error {
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return err
	}
	o.v = n
	o.set = true
	return nil
}

// Flags are command line values that overlay the config file. Only flags that were
// given on the command line override anything.
type Flags struct {
	tool        string
	configPath  stringOpt
	useExamples bool

	trials   intOpt
	loops    intOpt
	workers  intOpt
	seed     uintOpt
	keep     intOpt
	target   stringOpt
	logLevel stringOpt
}

func ParseFlags(tool string, args []string) (Flags, error) {
	f := Flags{tool: tool}
	fs := flag.NewFlagSet(tool, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&f.configPath, "config", "path to config yaml (default: input/"+tool+"/"+defaultFiles[tool]+")")
	fs.BoolVar(&f.useExamples, "useExamples", false, "use example config from input/"+tool+"/examples/")
	fs.Var(&f.workers, "workers", "worker goroutines (default: GOMAXPROCS)")
	fs.Var(&f.logLevel, "log-level", "debug, info, warn or error")
	switch tool {
	case ToolRotation:
		fs.Var(&f.trials, "trials", "monte carlo trials")
		fs.Var(&f.loops, "loops", "loop phase repetitions per trial")
		fs.Var(&f.seed, "seed", "monte carlo seed")
	case ToolOptimizer:
		fs.Var(&f.keep, "keep", "number of best candidates to keep")
		fs.Var(&f.target, "target", "ranking target: total_damage or dps")
	}

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	return f, nil
}

// Path resolves the config file against appRoot.
func (f Flags) Path(appRoot string) string {
	path := f.configPath.v
	if path == "" {
		path = filepath.Join("input", f.tool, defaultFiles[f.tool])
	}
	if f.useExamples {
		name := strings.TrimSuffix(defaultFiles[f.tool], ".yaml") + ".example.yaml"
		path = filepath.Join("input", f.tool, "examples", name)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(appRoot, path)
	}
	return path
}

func (f Flags) ApplyScenario(s *Scenario) {
	if f.trials.set {
		s.MonteCarlo.Trials = f.trials.v
		s.MonteCarlo.Enabled = f.trials.v > 0
	}
	if f.loops.set {
		s.MonteCarlo.Loops = f.loops.v
	}
	if f.workers.set && f.workers.v > 0 {
		s.MonteCarlo.Workers = f.workers.v
	}
	if f.seed.set {
		seed := f.seed.v
		s.MonteCarlo.Seed = &seed
	}
	if f.logLevel.set {
		s.Log.Level = f.logLevel.v
	}
}

func (f Flags) ApplyOptimizer(o *Optimizer) {
	if f.keep.set {
		o.Keep = f.keep.v
	}
	if f.target.set {
		o.Target = f.target.v
	}
	if f.workers.set && f.workers.v > 0 {
		o.Workers = f.workers.v
	}
	if f.logLevel.set {
		o.Log.Level = f.logLevel.v
	}
}
