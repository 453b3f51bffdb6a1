package sticky

// PinnedList is the ordered set of header slots currently drawn at the top
// edge. Front is the earliest pinned header, which sits at the very top; each
// later header stacks beneath it.
type PinnedList struct {
	slots []*Slot
}

// Len returns the number of pinned slots.
func (p *PinnedList) Len() int {
	return len(p.slots)
}

// At returns the i'th pinned slot, front first.
func (p *PinnedList) At(i int) *Slot {
	return p.slots[i]
}

// Slots returns the pinned slots, front first. The slice is shared.
func (p *PinnedList) Slots() []*Slot {
	return p.slots
}

// Positions returns the pinned layout positions, front first.
func (p *PinnedList) Positions() []int {
	out := make([]int, len(p.slots))
	for i, s := range p.slots {
		out[i] = s.layoutPos
	}
	return out
}

// Contains reports whether a slot at the layout position is pinned.
func (p *PinnedList) Contains(position int) bool {
	for _, s := range p.slots {
		if s.layoutPos == position {
			return true
		}
	}
	return false
}

// Last returns the most recently pinned slot, or nil.
func (p *PinnedList) Last() *Slot {
	if len(p.slots) == 0 {
		return nil
	}
	return p.slots[len(p.slots)-1]
}

// Extent returns the total height of the stack.
func (p *PinnedList) Extent() int {
	return stackExtent(p.slots)
}

// Reset replaces the contents with slots, front first.
func (p *PinnedList) Reset(slots []*Slot) {
	clear(p.slots)
	p.slots = append(p.slots[:0], slots...)
}

// Remove drops s by identity and reports whether it was pinned.
func (p *PinnedList) Remove(s *Slot) bool {
	for i, pinned := range p.slots {
		if pinned == s {
			p.slots = append(p.slots[:i], p.slots[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the list.
func (p *PinnedList) Clear() {
	clear(p.slots)
	p.slots = p.slots[:0]
}

// Arrange computes the top of every pinned slot.
//
// Headers stack from the top edge in pin order, giving a baseline equal to
// the stack height. When the stack is full and the next header's natural top
// is above the baseline, the whole stack is pushed up so its bottom meets
// that header; the returned baseline is clamped accordingly.
func (p *PinnedList) Arrange(nextTop int, hasNext, full bool) (tops []int, baseline int) {
	extent := p.Extent()
	shift := 0
	if full && hasNext && nextTop < extent {
		shift = min(extent-nextTop, extent)
	}
	tops = make([]int, len(p.slots))
	y := -shift
	for i, s := range p.slots {
		tops[i] = y
		y += s.Height()
	}
	return tops, extent - shift
}

// pinSpot returns the line a header's natural top has to move above to join
// a stack made of stack (front first) holding at most maxPinned headers.
// While there is room the spot is the stack bottom; once full the incoming
// header pins only after it has pushed the front header entirely off screen.
func pinSpot(stack []*Slot, maxPinned int) int {
	extent := stackExtent(stack)
	if len(stack) < maxPinned || len(stack) == 0 {
		return extent
	}
	return extent - stack[0].Height()
}

func stackExtent(slots []*Slot) int {
	h := 0
	for _, s := range slots {
		h += s.Height()
	}
	return h
}
