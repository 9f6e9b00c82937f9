// Package config loads the CLI configuration from YAML files and
// STATEMACHINE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jchevertonwynne/statemachine/telemetry"
)

// StrategyKind names a frontier discipline.
type StrategyKind string

const (
	StrategyBFS       StrategyKind = "bfs"
	StrategyDFS       StrategyKind = "dfs"
	StrategyAStar     StrategyKind = "astar"
	StrategyStaggered StrategyKind = "staggered"
)

// AllStrategies lists every strategy in display order.
var AllStrategies = []StrategyKind{StrategyBFS, StrategyDFS, StrategyAStar, StrategyStaggered}

// ErrUnknownStrategy is returned by ParseStrategy for unrecognised names.
var ErrUnknownStrategy = errors.New("unknown strategy")

// ParseStrategy resolves a strategy name, case-insensitively.
func ParseStrategy(name string) (StrategyKind, error) {
	kind := StrategyKind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllStrategies {
		if kind == known {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Config is the top-level CLI configuration.
type Config struct {
	Puzzle    PuzzleConfig     `yaml:"puzzle"`
	Search    SearchConfig     `yaml:"search"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// PuzzleConfig describes the starting configuration to generate.
type PuzzleConfig struct {
	// Kind is tileboard or hanoi.
	Kind     string `yaml:"kind" validate:"oneof=tileboard hanoi"`
	Columns  int    `yaml:"columns" validate:"required_if=Kind tileboard,gte=0,lte=16"`
	Rows     int    `yaml:"rows" validate:"required_if=Kind tileboard,gte=0,lte=16"`
	Rings    int    `yaml:"rings" validate:"required_if=Kind hanoi,gte=0,lte=12"`
	Shuffles int    `yaml:"shuffles" validate:"gte=0"`
	// Seed fixes the shuffle; zero picks a random seed.
	Seed uint64 `yaml:"seed"`
}

// SearchConfig selects how the puzzle is searched.
type SearchConfig struct {
	Strategies []string `yaml:"strategies" validate:"min=1,dive,oneof=bfs dfs astar staggered"`
	Heuristic  string   `yaml:"heuristic" validate:"oneof=manhattan euclidean"`
	FindAll    bool     `yaml:"find_all"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Puzzle: PuzzleConfig{
			Kind:     "tileboard",
			Columns:  3,
			Rows:     3,
			Rings:    3,
			Shuffles: 100,
		},
		Search: SearchConfig{
			Strategies: []string{string(StrategyBFS), string(StrategyAStar)},
			Heuristic:  "manhattan",
		},
		Telemetry: telemetry.DefaultConfig(),
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing path is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := loadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadEnv(cfg *Config) error {
	if v := os.Getenv("STATEMACHINE_PUZZLE"); v != "" {
		cfg.Puzzle.Kind = v
	}
	for name, target := range map[string]*int{
		"STATEMACHINE_COLUMNS":  &cfg.Puzzle.Columns,
		"STATEMACHINE_ROWS":     &cfg.Puzzle.Rows,
		"STATEMACHINE_RINGS":    &cfg.Puzzle.Rings,
		"STATEMACHINE_SHUFFLES": &cfg.Puzzle.Shuffles,
	} {
		if v := os.Getenv(name); v != "" {
			i, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*target = i
		}
	}
	if v := os.Getenv("STATEMACHINE_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("STATEMACHINE_SEED: %w", err)
		}
		cfg.Puzzle.Seed = seed
	}
	if v := os.Getenv("STATEMACHINE_STRATEGIES"); v != "" {
		cfg.Search.Strategies = cfg.Search.Strategies[:0]
		for _, name := range strings.Split(v, ",") {
			cfg.Search.Strategies = append(cfg.Search.Strategies, strings.ToLower(strings.TrimSpace(name)))
		}
	}
	if v := os.Getenv("STATEMACHINE_HEURISTIC"); v != "" {
		cfg.Search.Heuristic = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Telemetry.Logging.Level = v
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and cross-field rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Puzzle.Kind == "tileboard" && c.Puzzle.Columns*c.Puzzle.Rows < 2 {
		return fmt.Errorf("tile board needs at least two cells, got %dx%d", c.Puzzle.Columns, c.Puzzle.Rows)
	}
	return nil
}

// StrategyKinds parses the configured strategy names.
func (c SearchConfig) StrategyKinds() ([]StrategyKind, error) {
	kinds := make([]StrategyKind, 0, len(c.Strategies))
	for _, name := range c.Strategies {
		kind, err := ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
