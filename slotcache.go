package sticky

// SlotCache holds detached header slots that have scrolled past their pin
// point but are not currently drawn. It is a stack (top = most recently
// cached) paired with a position index; both always hold the same set of
// layout positions, so no two cached slots ever share a position.
type SlotCache struct {
	stack []*Slot
	index map[int]*Slot
}

// NewSlotCache creates an empty cache.
func NewSlotCache() *SlotCache {
	return &SlotCache{index: make(map[int]*Slot, 16)}
}

// Len returns the number of cached slots.
func (c *SlotCache) Len() int {
	return len(c.stack)
}

// Contains reports whether a slot at the layout position is cached.
func (c *SlotCache) Contains(position int) bool {
	_, ok := c.index[position]
	return ok
}

// Get returns the cached slot at the layout position, or nil.
func (c *SlotCache) Get(position int) *Slot {
	return c.index[position]
}

// Push caches s on top of the stack and returns it. It returns nil without
// modifying the cache if s is nil or its position is already cached.
func (c *SlotCache) Push(s *Slot) *Slot {
	if s == nil {
		return nil
	}
	if c.Contains(s.layoutPos) {
		return nil
	}
	c.index[s.layoutPos] = s
	c.stack = append(c.stack, s)
	return s
}

// Peek returns the top of the stack without removing it, or nil when empty.
func (c *SlotCache) Peek() *Slot {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// PopN pops up to n slots, most recently pushed first.
func (c *SlotCache) PopN(n int) []*Slot {
	n = min(n, len(c.stack))
	if n <= 0 {
		return nil
	}
	out := make([]*Slot, 0, n)
	for range n {
		top := c.stack[len(c.stack)-1]
		c.stack[len(c.stack)-1] = nil
		c.stack = c.stack[:len(c.stack)-1]
		c.unindex(top)
		out = append(out, top)
	}
	return out
}

// RemovePosition removes and returns the slot cached at position, or nil.
func (c *SlotCache) RemovePosition(position int) *Slot {
	s := c.index[position]
	if s == nil {
		return nil
	}
	c.Remove(s)
	return s
}

// Remove removes s by identity. It reports whether s was cached.
func (c *SlotCache) Remove(s *Slot) bool {
	for i, cached := range c.stack {
		if cached == s {
			c.stack = append(c.stack[:i], c.stack[i+1:]...)
			c.unindex(s)
			return true
		}
	}
	return false
}

// RemoveFunc removes every slot for which fn returns true, bottom to top,
// and returns them in that order.
func (c *SlotCache) RemoveFunc(fn func(*Slot) bool) []*Slot {
	var removed []*Slot
	kept := c.stack[:0]
	for _, s := range c.stack {
		if fn(s) {
			c.unindex(s)
			removed = append(removed, s)
			continue
		}
		kept = append(kept, s)
	}
	clear(c.stack[len(kept):])
	c.stack = kept
	return removed
}

// TrimAbove removes every slot whose layout position is greater than
// position. After a large scroll the host may skip intermediate layout
// passes, so headers that are back in the viewport have to be released in
// one go.
func (c *SlotCache) TrimAbove(position int) []*Slot {
	return c.RemoveFunc(func(s *Slot) bool {
		return s.layoutPos > position
	})
}

// Each calls fn for every cached slot, bottom to top.
func (c *SlotCache) Each(fn func(*Slot)) {
	for _, s := range c.stack {
		fn(s)
	}
}

// Positions returns the cached layout positions, bottom to top.
func (c *SlotCache) Positions() []int {
	out := make([]int, len(c.stack))
	for i, s := range c.stack {
		out[i] = s.layoutPos
	}
	return out
}

// Reindex rebuilds the position index after slots were shifted in place.
// Slots that now collide with a lower entry are removed and returned.
func (c *SlotCache) Reindex() []*Slot {
	clear(c.index)
	return c.RemoveFunc(func(s *Slot) bool {
		if _, dup := c.index[s.layoutPos]; dup {
			return true
		}
		c.index[s.layoutPos] = s
		return false
	})
}

// Clear empties the cache.
func (c *SlotCache) Clear() {
	clear(c.stack)
	c.stack = c.stack[:0]
	clear(c.index)
}

func (c *SlotCache) unindex(s *Slot) {
	if c.index[s.layoutPos] == s {
		delete(c.index, s.layoutPos)
	}
}

// top returns up to n slots from the top of the stack, bottom first, without
// removing them. The slice is shared.
func (c *SlotCache) top(n int) []*Slot {
	return c.stack[max(0, len(c.stack)-n):]
}

// below returns up to n slots under the top entry, bottom first.
func (c *SlotCache) below(n int) []*Slot {
	if len(c.stack) == 0 {
		return nil
	}
	rest := c.stack[:len(c.stack)-1]
	return rest[max(0, len(rest)-n):]
}
