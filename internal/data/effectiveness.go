package data

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
)

// ErrUnknownElement is returned when an element name is absent from the
// effectiveness table header.
var ErrUnknownElement = errors.New("unknown element")

// Effectiveness is an immutable n×n multiplier matrix.
// Row i holds the effectiveness of element i attacking every element in
// header order: values[attacker*n + defender].
type Effectiveness struct {
	elements []string
	index    map[string]int // lower-cased name → position
	values   []float64
}

// NewEffectiveness builds a table from a header of n element names and n*n
// row-major values. Names are matched case-insensitively.
func NewEffectiveness(elements []string, values []float64) (*Effectiveness, error) {
	n := len(elements)
	if n == 0 {
		return nil, errors.New("effectiveness table has no elements")
	}
	if len(values) != n*n {
		return nil, fmt.Errorf("effectiveness table: %d values for %d elements, want %d", len(values), n, n*n)
	}

	index := make(map[string]int, n)
	for i, name := range elements {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, fmt.Errorf("effectiveness table: empty element name at column %d", i)
		}
		if _, dup := index[key]; dup {
			return nil, fmt.Errorf("effectiveness table: duplicate element %q", name)
		}
		index[key] = i
	}

	return &Effectiveness{
		elements: append([]string(nil), elements...),
		index:    index,
		values:   append([]float64(nil), values...),
	}, nil
}

// ParseEffectiveness reads the text format: a comma-separated header line of
// element names followed by n*n values separated by commas or newlines.
func ParseEffectiveness(r io.Reader) (*Effectiveness, error) {
	sc := bufio.NewScanner(r)

	var header []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		for _, name := range strings.Split(line, ",") {
			header = append(header, strings.TrimSpace(name))
		}
		break
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading effectiveness header: %w", err)
	}
	if len(header) == 0 {
		return nil, errors.New("effectiveness table: missing header")
	}

	values := make([]float64, 0, len(header)*len(header))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		for _, field := range strings.Split(line, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("effectiveness table: value %d: %w", len(values), err)
			}
			values = append(values, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading effectiveness values: %w", err)
	}

	return NewEffectiveness(header, values)
}

// LoadEffectiveness parses the effectiveness table file at path.
func LoadEffectiveness(path string) (*Effectiveness, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening effectiveness table %s: %w", path, err)
	}
	defer f.Close()

	t, err := ParseEffectiveness(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	slog.Info("loaded effectiveness table", "path", path, "elements", t.Len())
	return t, nil
}

var defaultEffectiveness = sync.OnceValues(func() (*Effectiveness, error) {
	return ParseEffectiveness(bytes.NewReader(embeddedEffectiveness))
})

// DefaultEffectiveness returns the built-in 18-element table.
// The table is parsed once and shared.
func DefaultEffectiveness() (*Effectiveness, error) {
	return defaultEffectiveness()
}

// Lookup returns the multiplier for attacker hitting defender.
func (e *Effectiveness) Lookup(attacker, defender string) (float64, error) {
	a, ok := e.index[strings.ToLower(attacker)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownElement, attacker)
	}
	d, ok := e.index[strings.ToLower(defender)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownElement, defender)
	}
	return e.values[a*len(e.elements)+d], nil
}

// Has reports whether the element is part of the table.
func (e *Effectiveness) Has(element string) bool {
	_, ok := e.index[strings.ToLower(element)]
	return ok
}

// Elements returns the header names in table order.
func (e *Effectiveness) Elements() []string {
	return append([]string(nil), e.elements...)
}

// Len returns the number of elements.
func (e *Effectiveness) Len() int { return len(e.elements) }
