package stats

import "fmt"

// Block is a resolved set of combat stats at one level.
type Block struct {
	Attack  int
	Defense int
	Speed   int
	MaxHP   int
}

// Source resolves a stat block for a level.
type Source interface {
	At(level int) (Block, error)
}

// Fixed is a level-independent stat block.
type Fixed Block

// At returns the same block for every level.
func (f Fixed) At(int) (Block, error) {
	return Block(f), nil
}

// Formulas resolves every stat from its own postfix formula.
type Formulas struct {
	Attack  Formula
	Defense Formula
	Speed   Formula
	MaxHP   Formula
}

// At evaluates all four formulas for the level.
func (f Formulas) At(level int) (Block, error) {
	var b Block
	var err error

	if b.Attack, err = f.Attack.Evaluate(level); err != nil {
		return Block{}, fmt.Errorf("attack formula %q: %w", f.Attack, err)
	}
	if b.Defense, err = f.Defense.Evaluate(level); err != nil {
		return Block{}, fmt.Errorf("defense formula %q: %w", f.Defense, err)
	}
	if b.Speed, err = f.Speed.Evaluate(level); err != nil {
		return Block{}, fmt.Errorf("speed formula %q: %w", f.Speed, err)
	}
	if b.MaxHP, err = f.MaxHP.Evaluate(level); err != nil {
		return Block{}, fmt.Errorf("max hp formula %q: %w", f.MaxHP, err)
	}
	return b, nil
}
