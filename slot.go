package sticky

// NoPosition marks a slot whose row no longer exists in the data set.
const NoPosition = -1

// Rect is an on-screen rectangle in cells, relative to the list viewport.
// Y may be negative for rows partially scrolled past the top edge.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Bottom returns the first line below the rectangle.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Slot is a rendered row instance bound to one row of data.
// Slots are created and pooled by the host list; the coordinator only moves
// them between the host, its header cache and its pinned stack.
type Slot struct {
	id          int
	layoutPos   int
	adapterPos  int
	attached    bool
	invalid     bool
	placeholder bool

	lines []string
	style Style
	rect  Rect
}

// ID returns the host-assigned identity of the slot.
func (s *Slot) ID() int { return s.id }

// LayoutPosition returns the position assigned by the latest layout pass.
func (s *Slot) LayoutPosition() int { return s.layoutPos }

// AdapterPosition returns the data position as of the last bind.
func (s *Slot) AdapterPosition() int { return s.adapterPos }

// Attached reports whether the slot is part of the host's view tree.
func (s *Slot) Attached() bool { return s.attached }

// Invalid reports whether the bound data is stale.
func (s *Slot) Invalid() bool { return s.invalid }

// Placeholder reports whether the slot is a synthetic stand-in left at a
// pinned header's natural position.
func (s *Slot) Placeholder() bool { return s.placeholder }

// Rect returns the slot's current on-screen rectangle.
func (s *Slot) Rect() Rect { return s.rect }

// Lines returns the bound content.
func (s *Slot) Lines() []string { return s.lines }

// Height returns the measured height in lines. A bound slot is never
// shorter than one line.
func (s *Slot) Height() int {
	if s.placeholder {
		return s.rect.Height
	}
	return max(1, len(s.lines))
}

// SetContent binds content to the slot. Adapters call this from Bind.
func (s *Slot) SetContent(style Style, lines ...string) {
	s.lines = append(s.lines[:0], lines...)
	s.style = style
}

// offsetPosition shifts both positions, clamping nothing; callers check for
// negative results.
func (s *Slot) offsetPosition(delta int) {
	s.layoutPos += delta
	s.adapterPos += delta
}

// Predicate reports whether the row at a stable position is a header that
// may be pinned. Implementations must be pure functions of position.
type Predicate interface {
	IsSticky(position int) bool
}

// PredicateFunc adapts a function to the Predicate interface.
type PredicateFunc func(position int) bool

// IsSticky calls f(position).
func (f PredicateFunc) IsSticky(position int) bool {
	return f(position)
}

// noSticky is used until a predicate is configured.
var noSticky = PredicateFunc(func(int) bool { return false })
