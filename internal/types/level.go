package types

// Level is the nesting depth of generalization/implication. Entering a
// generalization site or an implication increments the level; on exit,
// meta-vars of the deeper level that remain free are candidates for
// quantification.
type Level int

// TopLevel is the level at which the program's top-level declaration
// groups are checked.
const TopLevel Level = 0

// Inner returns the next level down, used when entering a skolemization
// or a child typechecker.
func (l Level) Inner() Level { return l + 1 }
