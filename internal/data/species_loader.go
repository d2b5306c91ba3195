package data

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/monbattle/internal/stats"
)

// SpeciesDef is the YAML form of a species.
type SpeciesDef struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Element     string           `yaml:"element"`
	Evolution   string           `yaml:"evolution"`
	Spawnable   bool             `yaml:"spawnable"`
	Stats       *FixedStatsDef   `yaml:"stats"`
	Formulas    *FormulaStatsDef `yaml:"formulas"`
}

// FixedStatsDef holds a level-independent stat tuple.
type FixedStatsDef struct {
	Attack  int `yaml:"attack"`
	Defense int `yaml:"defense"`
	Speed   int `yaml:"speed"`
	MaxHP   int `yaml:"max_hp"`
}

// FormulaStatsDef holds one whitespace-separated postfix expression per stat.
type FormulaStatsDef struct {
	Attack  string `yaml:"attack"`
	Defense string `yaml:"defense"`
	Speed   string `yaml:"speed"`
	MaxHP   string `yaml:"max_hp"`
}

type speciesFile struct {
	Species []SpeciesDef `yaml:"species"`
}

func (d SpeciesDef) build() (*Species, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidSpecies)
	}
	if d.Element == "" {
		return nil, fmt.Errorf("%w: missing element", ErrInvalidSpecies)
	}

	name := d.Name
	if name == "" {
		name = d.ID
	}

	var src stats.Source
	switch {
	case d.Stats != nil && d.Formulas != nil:
		return nil, fmt.Errorf("%w: both stats and formulas given", ErrInvalidSpecies)
	case d.Stats != nil:
		src = stats.Fixed{
			Attack:  d.Stats.Attack,
			Defense: d.Stats.Defense,
			Speed:   d.Stats.Speed,
			MaxHP:   d.Stats.MaxHP,
		}
	case d.Formulas != nil:
		f := stats.Formulas{
			Attack:  stats.ParseFormula(d.Formulas.Attack),
			Defense: stats.ParseFormula(d.Formulas.Defense),
			Speed:   stats.ParseFormula(d.Formulas.Speed),
			MaxHP:   stats.ParseFormula(d.Formulas.MaxHP),
		}
		if _, err := f.At(1); err != nil {
			return nil, err
		}
		src = f
	default:
		return nil, fmt.Errorf("%w: neither stats nor formulas given", ErrInvalidSpecies)
	}

	return &Species{
		id:          d.ID,
		name:        name,
		description: d.Description,
		element:     d.Element,
		spawnable:   d.Spawnable,
		stats:       src,
	}, nil
}

// ParseSpecies builds a registry from YAML bytes.
func ParseSpecies(b []byte) (*Registry, error) {
	var f speciesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parsing species yaml: %w", err)
	}
	return NewRegistry(f.Species)
}

// LoadSpecies reads a species registry file.
func LoadSpecies(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading species %s: %w", path, err)
	}
	r, err := ParseSpecies(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Info("loaded species", "path", path, "count", r.Len(), "spawnable", len(r.Spawnable()))
	return r, nil
}

var defaultSpecies = sync.OnceValues(func() (*Registry, error) {
	return ParseSpecies(embeddedSpecies)
})

// DefaultSpecies returns the built-in registry. Parsed once and shared.
func DefaultSpecies() (*Registry, error) {
	return defaultSpecies()
}
