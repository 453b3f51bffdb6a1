package sticky

import (
	"slices"

	"go.uber.org/zap"
)

// reconcileState is carried between the pre and post halves of a step.
type reconcileState struct {
	pinBaseline    int  // stack height before the step detached it
	stackMinExtent int  // stack bottom as drawn, after any push-up
	resetArmed     bool // recollect on the next post pass
}

// Coordinator pins header rows to the top of a Host.
//
// Every header row is in exactly one state: ordinary (owned and drawn by the
// host), cached (detached and held in the SlotCache), pinned (drawn by the
// coordinator at the top edge) or discarded (handed back to the host after a
// mutation). The host calls PreStep before and PostStep after each scroll
// pass, PreLayout/PostLayout around full layouts, and the On* methods when
// its data changes.
type Coordinator struct {
	host      Host
	predicate Predicate
	maxPinned int
	log       *zap.Logger

	cache  *SlotCache
	pinned PinnedList
	state  reconcileState
}

// NewCoordinator creates a coordinator for host.
func NewCoordinator(host Host, predicate Predicate, opts ...Option) *Coordinator {
	o := applyOptions(opts)
	c := &Coordinator{
		host:      host,
		maxPinned: o.maxPinned,
		log:       o.logger,
		cache:     NewSlotCache(),
	}
	c.SetPredicate(predicate)
	return c
}

// SetPredicate replaces the sticky predicate and forces a recollection.
func (c *Coordinator) SetPredicate(p Predicate) {
	if p == nil {
		p = noSticky
	}
	c.predicate = p
	c.dropAll()
	c.state.resetArmed = true
}

// MaxPinned returns the configured stack size.
func (c *Coordinator) MaxPinned() int { return c.maxPinned }

// Pinned returns the pinned layout positions, top of screen first.
func (c *Coordinator) Pinned() []int { return c.pinned.Positions() }

// PinnedSlots returns the pinned slots, top of screen first.
func (c *Coordinator) PinnedSlots() []*Slot { return slices.Clone(c.pinned.Slots()) }

// Cached returns the layout positions held in the cache, bottom first.
func (c *Coordinator) Cached() []int { return c.cache.Positions() }

// Baseline returns the line below which ordinary rows are not obscured by
// the pinned stack.
func (c *Coordinator) Baseline() int { return c.state.stackMinExtent }

// IsPinned reports whether the slot is drawn by the coordinator.
func (c *Coordinator) IsPinned(s *Slot) bool {
	return slices.Contains(c.pinned.Slots(), s)
}

// RequestRecollect makes the next post pass rebuild header state from
// scratch. Hosts call it before jumps that skip intermediate rows.
func (c *Coordinator) RequestRecollect() {
	c.state.resetArmed = true
}

// PreStep runs before the host scrolls by d lines (positive moves content
// up). Pinned headers are detached so the host pass never sees them, then
// the header crossing the pin line in the direction of travel is cached or
// released.
func (c *Coordinator) PreStep(d int) {
	c.state.pinBaseline = c.pinned.Extent()
	c.detachPinned()

	if ext := c.host.Extent(); ext > 0 && abs(d) > ext/2 {
		c.log.Debug("large scroll, deferring to recollection", zap.Int("delta", d), zap.Int("extent", ext))
		c.state.resetArmed = true
		return
	}

	switch {
	case d > 0:
		c.collect(d)
	case d < 0:
		c.release(d)
	}
}

// PostStep runs after the host has scrolled by d and laid out its rows.
func (c *Coordinator) PostStep(d int) {
	if c.pinned.Len() > 0 {
		c.detachPinned()
	}
	if c.state.resetArmed {
		c.recollect()
	}
	c.settle()
	defer c.repairPlaceholders()

	if c.cache.Len() == 0 {
		c.state.stackMinExtent = 0
		return
	}
	c.pin(d)
}

// PreLayout runs before a full host layout pass.
func (c *Coordinator) PreLayout() {
	c.detachPinned()
}

// PostLayout runs after a full host layout pass.
func (c *Coordinator) PostLayout() {
	c.PostStep(0)
}

// OnRowsRemoved must be called before the host shifts its own children.
// Cached or pinned headers inside the removed range are discarded, detached
// headers after it are shifted up by count.
func (c *Coordinator) OnRowsRemoved(start, count int) {
	if count <= 0 {
		return
	}
	end := start + count
	dead := func(s *Slot) bool {
		return s.layoutPos == NoPosition || (s.layoutPos >= start && s.layoutPos < end)
	}

	for _, s := range slices.Clone(c.pinned.Slots()) {
		if dead(s) {
			c.pinned.Remove(s)
			c.host.RemoveView(s)
			c.discard(s, "row removed")
		}
	}

	removed := c.cache.RemoveFunc(func(s *Slot) bool {
		switch {
		case dead(s):
			return true
		case s.layoutPos >= end && !s.attached:
			s.offsetPosition(-count)
			return s.layoutPos < 0
		}
		return false
	})
	removed = append(removed, c.cache.Reindex()...)
	for _, s := range removed {
		c.discard(s, "row removed")
	}
}

// OnRowsChanged handles a full data set change: nothing cached can be
// trusted, so everything is dropped and recollected.
func (c *Coordinator) OnRowsChanged() {
	c.dropAll()
	c.state.resetArmed = true
}

// OnAdapterChanged handles the host swapping its data source, which also
// supplies the new predicate.
func (c *Coordinator) OnAdapterChanged(p Predicate) {
	c.SetPredicate(p)
}

// OnRowsAdded has no incremental handling; it recollects.
func (c *Coordinator) OnRowsAdded(start, count int) {
	c.log.Debug("rows added, recollecting", zap.Int("start", start), zap.Int("count", count))
	c.OnRowsChanged()
}

// OnRowsMoved has no incremental handling; it recollects.
func (c *Coordinator) OnRowsMoved(from, to, count int) {
	c.log.Debug("rows moved, recollecting", zap.Int("from", from), zap.Int("to", to), zap.Int("count", count))
	c.OnRowsChanged()
}

// collect caches visible headers whose top, moved by d, is above the pin
// spot. A step can carry several short sections past the spot, so it keeps
// going and stops at the first header that stays below it.
func (c *Coordinator) collect(d int) {
	for i := 0; i < c.host.ChildCount(); i++ {
		s := c.host.ChildAt(i)
		if s.placeholder || c.cache.Contains(s.layoutPos) || !c.isSticky(s) {
			continue
		}
		if s.rect.Y-d >= pinSpot(c.cache.top(c.maxPinned), c.maxPinned) {
			return
		}
		c.host.RemoveView(s)
		c.host.AddView(newPlaceholder(s), i)
		c.cache.Push(s)
	}
}

// release returns cached headers to the host while their natural row, moved
// by d, would sit at or below the spot they were pinned at.
func (c *Coordinator) release(d int) {
	for c.cache.Len() > 0 {
		s := c.cache.Peek()
		i, natural := c.childFor(s.layoutPos, s)
		if natural == nil {
			return
		}
		if natural.rect.Y-d < pinSpot(c.cache.below(c.maxPinned), c.maxPinned) {
			return
		}
		c.cache.Remove(s)
		c.restore(i, natural, s)
	}
}

// settle reconciles the cache with the rows the host just laid out. Every
// header before the first visible row stays cached. Visible headers are
// cached in order while their top is above the pin spot and returned to the
// host after that, reusing the cached slot for the position when there is
// one.
func (c *Coordinator) settle() {
	trimmed := c.cache.TrimAbove(c.host.FirstVisiblePosition() - 1)
	spare := make(map[int]*Slot, len(trimmed))
	for _, s := range trimmed {
		spare[s.layoutPos] = s
	}

	collecting := true
	for i := 0; i < c.host.ChildCount(); i++ {
		ch := c.host.ChildAt(i)
		if !c.isSticky(ch) {
			continue
		}
		s := spare[ch.layoutPos]
		delete(spare, ch.layoutPos)
		if collecting && ch.rect.Y < pinSpot(c.cache.top(c.maxPinned), c.maxPinned) {
			c.cacheRow(i, ch, s)
			continue
		}
		collecting = false
		c.releaseRow(i, ch, s)
	}

	for _, s := range trimmed {
		if spare[s.layoutPos] == s {
			c.discard(s, "released off screen")
		}
	}
}

// cacheRow caches the header shown by the child at i, leaving a placeholder
// in its row. s is the slot previously cached for the position, or nil.
func (c *Coordinator) cacheRow(i int, ch, s *Slot) {
	switch {
	case ch.placeholder:
		if s == nil {
			s = c.host.SlotFor(ch.layoutPos)
		}
	case s == nil:
		s = ch
		ph := newPlaceholder(ch)
		c.host.RemoveView(ch)
		c.host.AddView(ph, i)
	default:
		ph := newPlaceholder(ch)
		c.host.RemoveView(ch)
		c.host.Recycle(ch)
		c.host.AddView(ph, i)
	}
	if c.cache.Push(s) == nil {
		c.discard(s, "duplicate position")
	}
}

// releaseRow returns a header to the host at the child at i.
func (c *Coordinator) releaseRow(i int, ch, s *Slot) {
	switch {
	case ch.placeholder:
		if s == nil {
			s = c.host.SlotFor(ch.layoutPos)
		}
		c.restore(i, ch, s)
	case s != nil:
		c.restore(i, ch, s)
	}
}

// pin moves the top of the cache into the pinned stack and lays it out.
func (c *Coordinator) pin(d int) {
	popped := c.cache.PopN(c.maxPinned)
	slices.Reverse(popped)
	c.pinned.Reset(popped)
	full := c.pinned.Len() == c.maxPinned

	for _, s := range popped {
		c.replaceDuplicates(s)
	}

	last := c.pinned.Last().layoutPos
	nextTop, hasNext := 0, false
	for i := 0; i < c.host.ChildCount(); i++ {
		s := c.host.ChildAt(i)
		if !s.placeholder && s.layoutPos > last && c.isSticky(s) {
			nextTop, hasNext = s.rect.Y, true
			break
		}
	}

	tops, baseline := c.pinned.Arrange(nextTop, hasNext, full)
	c.state.stackMinExtent = baseline
	width := c.host.Width()
	for i, s := range c.pinned.Slots() {
		c.host.Layout(s, Rect{Y: tops[i], Width: width, Height: s.Height()})
		c.host.AddView(s, -1)

		if _, natural := c.childFor(s.layoutPos, s); natural != nil && natural.rect.Y >= baseline {
			c.log.Debug("pinned header laid out below the stack",
				zap.Int("position", s.layoutPos),
				zap.Int("natural_top", natural.rect.Y),
				zap.Int("baseline", baseline),
				zap.Int("previous_baseline", c.state.pinBaseline),
				zap.Int("delta", d))
			c.state.resetArmed = true
		}
	}
}

// replaceDuplicates swaps any host row bound to s's position for a
// placeholder. The host does not know the position is pinned, so it may
// have bound a second slot for it; the coordinator's slot wins.
func (c *Coordinator) replaceDuplicates(s *Slot) {
	havePlaceholder := false
	for i := 0; i < c.host.ChildCount(); i++ {
		ch := c.host.ChildAt(i)
		if ch == s || ch.layoutPos != s.layoutPos {
			continue
		}
		if ch.placeholder && !havePlaceholder {
			havePlaceholder = true
			continue
		}
		var ph *Slot
		if !havePlaceholder {
			ph = newPlaceholder(ch)
		}
		c.host.RemoveView(ch)
		if !ch.placeholder {
			c.host.Recycle(ch)
		}
		if ph != nil {
			c.host.AddView(ph, i)
			havePlaceholder = true
			continue
		}
		i--
	}
}

// repairPlaceholders turns placeholders that no longer stand in for a
// cached or pinned header back into real rows.
func (c *Coordinator) repairPlaceholders() {
	for i := 0; i < c.host.ChildCount(); i++ {
		ph := c.host.ChildAt(i)
		if !ph.placeholder || c.cache.Contains(ph.layoutPos) || c.pinned.Contains(ph.layoutPos) {
			continue
		}
		s := c.host.SlotFor(ph.layoutPos)
		c.restore(i, ph, s)
	}
}

// recollect rebuilds the cache from every header before the first visible
// row.
func (c *Coordinator) recollect() {
	c.state.resetArmed = false
	c.dropAll()
	first := c.host.FirstVisiblePosition()
	for pos := range first {
		if !c.predicate.IsSticky(pos) {
			continue
		}
		s := c.host.SlotFor(pos)
		if c.cache.Push(s) == nil {
			c.host.Recycle(s)
		}
	}
	c.log.Debug("recollected sections", zap.Int("first_visible", first), zap.Int("cached", c.cache.Len()))
}

// detachPinned moves the pinned stack back onto the cache, front first, so
// the most recently pinned header ends up on top. Invalidated slots are
// dropped on the way.
func (c *Coordinator) detachPinned() {
	for _, s := range c.pinned.Slots() {
		c.host.RemoveView(s)
		if c.cache.Push(s) == nil {
			c.discard(s, "duplicate position")
		}
	}
	c.pinned.Clear()
	for _, s := range c.cache.RemoveFunc((*Slot).Invalid) {
		c.discard(s, "invalidated")
	}
}

// dropAll discards every coordinator-owned slot.
func (c *Coordinator) dropAll() {
	for _, s := range c.pinned.Slots() {
		c.host.RemoveView(s)
		c.host.Recycle(s)
	}
	c.pinned.Clear()
	c.cache.Each(c.host.Recycle)
	c.cache.Clear()
}

// restore puts s back into the host's rows in place of natural, which is
// either a placeholder or a host-bound duplicate.
func (c *Coordinator) restore(i int, natural, s *Slot) {
	r := natural.rect
	c.host.RemoveView(natural)
	if !natural.placeholder {
		c.host.Recycle(natural)
	}
	c.host.Layout(s, r)
	c.host.AddView(s, i)
}

func (c *Coordinator) discard(s *Slot, reason string) {
	c.log.Debug("discarding header", zap.Int("position", s.layoutPos), zap.Int("slot", s.id), zap.String("reason", reason))
	if s.attached {
		c.host.RemoveView(s)
	}
	c.host.Recycle(s)
}

// childFor returns the first attached row bound to position other than
// except, with its index.
func (c *Coordinator) childFor(position int, except *Slot) (int, *Slot) {
	for i := 0; i < c.host.ChildCount(); i++ {
		s := c.host.ChildAt(i)
		if s != except && s.layoutPos == position {
			return i, s
		}
	}
	return -1, nil
}

func (c *Coordinator) isSticky(s *Slot) bool {
	return s.layoutPos != NoPosition && c.predicate.IsSticky(s.layoutPos)
}

// newPlaceholder creates a blank stand-in occupying s's natural row.
func newPlaceholder(s *Slot) *Slot {
	return &Slot{
		id:          -1,
		layoutPos:   s.layoutPos,
		adapterPos:  s.adapterPos,
		placeholder: true,
		rect:        Rect{X: s.rect.X, Y: s.rect.Y, Width: s.rect.Width, Height: s.Height()},
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
