package lang

// NestingLevels tracks the stack of scopes a scanner has entered. Each
// frame pairs the store handle of the entry that opened the scope (or
// tag.NoEntry when the construct produced none) with scanner-defined data
// D that travels with the frame until it pops.
type NestingLevels[D any] struct {
	levels []Level[D]
}

// Level is one open scope.
type Level[D any] struct {
	Entry int
	Data  D
}

// NewNestingLevels returns an empty stack.
func NewNestingLevels[D any]() *NestingLevels[D] {
	return &NestingLevels[D]{}
}

// Push opens a scope owned by the entry handle. The frame's data starts
// at the zero value of D.
func (n *NestingLevels[D]) Push(entry int) {
	n.levels = append(n.levels, Level[D]{Entry: entry})
}

// Pop closes the innermost scope and returns a copy of its frame. ok is
// false when the stack is already empty; popping below depth zero is a
// no-op.
func (n *NestingLevels[D]) Pop() (lvl Level[D], ok bool) {
	if len(n.levels) == 0 {
		return lvl, false
	}
	lvl = n.levels[len(n.levels)-1]
	n.levels = n.levels[:len(n.levels)-1]
	return lvl, true
}

// Top returns the innermost frame, nil when the stack is empty. The
// pointer is valid until the next Push or Pop.
func (n *NestingLevels[D]) Top() *Level[D] {
	return n.At(len(n.levels) - 1)
}

// At returns the frame at position i counted from the bottom of the
// stack, nil when i is out of range. The pointer is valid until the next
// Push or Pop.
func (n *NestingLevels[D]) At(i int) *Level[D] {
	if i < 0 || i >= len(n.levels) {
		return nil
	}
	return &n.levels[i]
}

// Depth reports the number of open scopes.
func (n *NestingLevels[D]) Depth() int {
	return len(n.levels)
}
