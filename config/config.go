// Package config loads tournament settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"chessagent/engine"
	"chessagent/minimax"
	"chessagent/searcher"

	"gopkg.in/yaml.v3"
)

const (
	KindMinimax = "minimax"
	KindMCTS    = "mcts"
	KindRandom  = "random"
)

const (
	DefaultSeed     = 42
	DefaultDuration = time.Second // MCTS thinking time per move
)

// Agent describes one tournament entrant. Fields that do not apply to Kind
// are ignored.
type Agent struct {
	ID          int           `yaml:"-"`
	Name        string        `yaml:"name"`
	Kind        string        `yaml:"kind"`
	Variant     string        `yaml:"variant"`
	Depth       int           `yaml:"depth"`
	BeamWidth   int           `yaml:"beamWidth"`
	Episodes    int           `yaml:"episodes"`
	Duration    time.Duration `yaml:"duration"`
	Cutoff      int           `yaml:"cutoff"`
	Exploration float64       `yaml:"exploration"`
	Temperature float64       `yaml:"temperature"` // MCTS only, 0 plays the robust child
}

type Tournament struct {
	MaxMoves int     `yaml:"maxMoves"`
	Games    int     `yaml:"games"` // Per pairing
	Seed     uint64  `yaml:"seed"`
	Parallel int     `yaml:"parallel"`
	Output   string  `yaml:"output"` // Directory for CSV records, empty to skip
	Agents   []Agent `yaml:"agents"`
}

// Default is the three minimax against three MCTS line-up.
func Default() Tournament {
	t := Tournament{
		MaxMoves: engine.MaxMoves,
		Games:    1,
		Seed:     DefaultSeed,
		Parallel: 1,
		Agents: []Agent{
			{Name: "Standard Minimax", Kind: KindMinimax, Variant: minimax.Standard.String(), Depth: minimax.DefaultDepth},
			{Name: "Beam Search", Kind: KindMinimax, Variant: minimax.Beam.String(), Depth: minimax.DefaultDepth, BeamWidth: minimax.DefaultBeamWidth},
			{Name: "Iterative Deepening", Kind: KindMinimax, Variant: minimax.IterativeDeepening.String(), Depth: minimax.DefaultDepth, Duration: DefaultDuration},
			{Name: "Standard MCTS", Kind: KindMCTS, Variant: searcher.UCT.String(), Duration: DefaultDuration, Cutoff: searcher.MaxCutoff, Exploration: searcher.Exploration},
			{Name: "Progressive MCTS", Kind: KindMCTS, Variant: searcher.ProgressiveHistory.String(), Duration: DefaultDuration, Cutoff: searcher.MaxCutoff, Exploration: searcher.Exploration},
			{Name: "RAVE MCTS", Kind: KindMCTS, Variant: searcher.RAVE.String(), Duration: DefaultDuration, Cutoff: searcher.MaxCutoff, Exploration: searcher.Exploration},
		},
	}
	t.number()
	return t
}

// Load reads path over the defaults. An agents list in the file replaces
// the default line-up.
func Load(path string) (Tournament, error) {
	t := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	t.number()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return t, nil
}

func (t *Tournament) number() {
	for i := range t.Agents {
		t.Agents[i].ID = i + 1
	}
}

func (t Tournament) Validate() error {
	var errs []error
	if t.MaxMoves <= 0 {
		errs = append(errs, fmt.Errorf("maxMoves must be positive, got %d", t.MaxMoves))
	}
	if t.Games <= 0 {
		errs = append(errs, fmt.Errorf("games must be positive, got %d", t.Games))
	}
	if t.Parallel <= 0 {
		errs = append(errs, fmt.Errorf("parallel must be positive, got %d", t.Parallel))
	}
	if len(t.Agents) < 2 {
		errs = append(errs, fmt.Errorf("need at least two agents, got %d", len(t.Agents)))
	}
	for _, a := range t.Agents {
		if err := a.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("agent %q: %w", a.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (a Agent) Validate() error {
	switch a.Kind {
	case KindMinimax:
		if _, err := minimax.ParseVariant(a.Variant); err != nil {
			return err
		}
		if a.Depth < 0 || a.BeamWidth < 0 {
			return errors.New("depth and beamWidth must not be negative")
		}
	case KindMCTS:
		if _, err := searcher.ParseVariant(a.Variant); err != nil {
			return err
		}
		if a.Episodes <= 0 && a.Duration <= 0 {
			return errors.New("mcts needs episodes or duration")
		}
		if a.Temperature < 0 {
			return fmt.Errorf("temperature must not be negative, got %g", a.Temperature)
		}
	case KindRandom:
	default:
		return fmt.Errorf("unknown kind %q", a.Kind)
	}
	return nil
}
