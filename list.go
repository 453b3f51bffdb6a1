package sticky

import "slices"

// Adapter supplies the rows of a List. An adapter that also implements
// Predicate decides which rows are sticky headers.
type Adapter interface {
	Len() int
	Bind(s *Slot, position int)
}

// List is a virtualized vertical list of variable-height rows. Only rows
// intersecting the viewport are bound; slots that scroll out are recycled.
// Header rows are kept at the top edge by an embedded Coordinator.
type List struct {
	adapter Adapter
	sticky  *Coordinator

	width, height int

	// Viewport state
	anchor    int // first visible position
	anchorTop int // top of the anchor row, <= 0

	children []*Slot // attached slots in display order, pinned headers last
	pool     []*Slot // detached slots ready to be rebound
	nextID   int
}

// NewList creates a list over adapter. Options configure the sticky
// coordinator.
func NewList(adapter Adapter, opts ...Option) *List {
	l := &List{adapter: adapter}
	l.sticky = NewCoordinator(l, predicateOf(adapter), opts...)
	return l
}

func predicateOf(a Adapter) Predicate {
	if p, ok := a.(Predicate); ok {
		return p
	}
	return nil
}

// Sticky returns the list's header coordinator.
func (l *List) Sticky() *Coordinator {
	return l.sticky
}

// Adapter returns the current data source.
func (l *List) Adapter() Adapter {
	return l.adapter
}

// Len returns the number of rows in the adapter.
func (l *List) Len() int {
	if l.adapter == nil {
		return 0
	}
	return l.adapter.Len()
}

// SetSize sets the viewport size and lays the list out again.
func (l *List) SetSize(width, height int) {
	l.width, l.height = max(0, width), max(0, height)
	l.Relayout()
}

// Relayout runs a full layout pass from the current anchor.
func (l *List) Relayout() {
	l.sticky.PreLayout()
	l.normalize()
	l.fill()
	l.sticky.PostLayout()
}

// ScrollBy scrolls by d lines (positive moves content up) and returns the
// distance actually scrolled.
func (l *List) ScrollBy(d int) int {
	if l.Len() == 0 || l.height == 0 {
		return 0
	}
	d = l.clampScroll(d)
	if d == 0 {
		return 0
	}
	l.sticky.PreStep(d)
	l.anchorTop -= d
	l.normalize()
	l.fill()
	l.sticky.PostStep(d)
	return d
}

// ScrollTo jumps so that position is the first visible row.
func (l *List) ScrollTo(position int) {
	l.anchor = max(0, min(position, l.Len()-1))
	l.anchorTop = 0
	l.sticky.RequestRecollect()
	l.Relayout()
}

// FirstVisible returns the first visible position and its top offset.
func (l *List) FirstVisible() (position, top int) {
	return l.anchor, l.anchorTop
}

// VisibleRange returns the range of laid out positions, end exclusive.
func (l *List) VisibleRange() (start, end int) {
	start, end = l.anchor, l.anchor
	for _, s := range l.children {
		if !l.sticky.IsPinned(s) && s.layoutPos >= end {
			end = s.layoutPos + 1
		}
	}
	return start, end
}

// SetAdapter swaps the data source and resets scrolling.
func (l *List) SetAdapter(a Adapter) {
	l.adapter = a
	l.sticky.OnAdapterChanged(predicateOf(a))
	l.invalidateChildren()
	l.pool = l.pool[:0]
	l.anchor, l.anchorTop = 0, 0
	l.Relayout()
}

// NotifyDataSetChanged rebinds every row.
func (l *List) NotifyDataSetChanged() {
	l.sticky.OnRowsChanged()
	l.invalidateChildren()
	l.Relayout()
}

// NotifyRowsRemoved tells the list count rows starting at start are gone.
func (l *List) NotifyRowsRemoved(start, count int) {
	if count <= 0 {
		return
	}
	l.sticky.OnRowsRemoved(start, count)
	end := start + count
	for _, s := range l.children {
		switch {
		case s.layoutPos >= end:
			s.offsetPosition(-count)
		case s.layoutPos >= start:
			s.layoutPos, s.adapterPos = NoPosition, NoPosition
			s.invalid = true
		}
	}
	switch {
	case end <= l.anchor:
		l.anchor -= count
	case start <= l.anchor:
		l.anchor, l.anchorTop = start, 0
	}
	l.Relayout()
}

// NotifyRowsAdded tells the list count rows were inserted at start.
func (l *List) NotifyRowsAdded(start, count int) {
	if count <= 0 {
		return
	}
	l.sticky.OnRowsAdded(start, count)
	for _, s := range l.children {
		if s.layoutPos >= start {
			s.offsetPosition(count)
		}
	}
	if start < l.anchor {
		l.anchor += count
	}
	l.Relayout()
}

// NotifyRowsMoved tells the list count rows moved from one position to
// another. Every visible row is rebound.
func (l *List) NotifyRowsMoved(from, to, count int) {
	l.sticky.OnRowsMoved(from, to, count)
	l.invalidateChildren()
	l.Relayout()
}

// Render draws the viewport at x, y. Pinned headers are drawn last so they
// cover the rows scrolling beneath them.
func (l *List) Render(buf *Buffer, x, y int) {
	buf.FillRect(x, y, l.width, l.height, EmptyCell())
	for _, s := range l.children {
		if s.placeholder {
			continue
		}
		for i, line := range s.lines {
			row := s.rect.Y + i
			if row < 0 || row >= l.height {
				continue
			}
			buf.FillRect(x, y+row, l.width, 1, NewCell(' ', s.style))
			buf.WriteStringClipped(x, y+row, line, s.style, l.width)
		}
	}
}

// The methods below implement Host.

// ChildCount returns the number of attached slots.
func (l *List) ChildCount() int { return len(l.children) }

// ChildAt returns the i'th attached slot in display order.
func (l *List) ChildAt(i int) *Slot { return l.children[i] }

// Layout places s at r.
func (l *List) Layout(s *Slot, r Rect) { s.rect = r }

// FirstVisiblePosition returns the anchor position.
func (l *List) FirstVisiblePosition() int { return l.anchor }

// Extent returns the viewport height.
func (l *List) Extent() int { return l.height }

// Width returns the viewport width.
func (l *List) Width() int { return l.width }

// AddView attaches s at index i, appending when i is out of range.
func (l *List) AddView(s *Slot, i int) {
	s.attached = true
	if i < 0 || i > len(l.children) {
		l.children = append(l.children, s)
		return
	}
	l.children = slices.Insert(l.children, i, s)
}

// RemoveView detaches s without recycling it.
func (l *List) RemoveView(s *Slot) {
	s.attached = false
	if i := slices.Index(l.children, s); i >= 0 {
		l.children = slices.Delete(l.children, i, i+1)
	}
}

// Recycle detaches s and returns it to the pool. Placeholders are dropped.
func (l *List) Recycle(s *Slot) {
	if s.attached {
		l.RemoveView(s)
	}
	if s.placeholder || slices.Contains(l.pool, s) {
		return
	}
	s.layoutPos, s.adapterPos = NoPosition, NoPosition
	s.invalid = false
	s.lines = s.lines[:0]
	s.rect = Rect{}
	l.pool = append(l.pool, s)
}

// SlotFor returns a detached slot bound to position, reusing the pool.
func (l *List) SlotFor(position int) *Slot {
	var s *Slot
	if n := len(l.pool); n > 0 {
		s = l.pool[n-1]
		l.pool = l.pool[:n-1]
	} else {
		s = &Slot{id: l.nextID}
		l.nextID++
	}
	l.bind(s, position)
	return s
}

func (l *List) bind(s *Slot, position int) {
	s.layoutPos, s.adapterPos = position, position
	s.invalid = false
	s.lines = s.lines[:0]
	s.style = DefaultStyle()
	l.adapter.Bind(s, position)
}

// fill lays out rows from the anchor down until the viewport is full,
// reusing attached slots by position and recycling the rest.
func (l *List) fill() {
	old := l.children
	l.children = make([]*Slot, 0, len(old))

	byPos := make(map[int]*Slot, len(old))
	for _, s := range old {
		if s.layoutPos == NoPosition || (s.invalid && s.placeholder) {
			continue
		}
		if _, dup := byPos[s.layoutPos]; !dup {
			byPos[s.layoutPos] = s
		}
	}

	n := l.Len()
	y := l.anchorTop
	for pos := l.anchor; pos < n && y < l.height; pos++ {
		s := byPos[pos]
		if s != nil {
			delete(byPos, pos)
		} else {
			s = l.SlotFor(pos)
		}
		if s.invalid && !s.placeholder {
			l.bind(s, pos)
		}
		s.attached = true
		s.rect = Rect{Y: y, Width: l.width, Height: s.Height()}
		l.children = append(l.children, s)
		y += s.Height()
	}

	for _, s := range old {
		if s.attached && !slices.Contains(l.children, s) {
			s.attached = false
			l.Recycle(s)
		}
	}
}

// normalize moves the anchor so its row intersects the top edge and the
// content never ends above the bottom edge.
func (l *List) normalize() {
	n := l.Len()
	if n == 0 {
		l.anchor, l.anchorTop = 0, 0
		return
	}
	l.anchor = max(0, min(l.anchor, n-1))
	for l.anchor < n-1 {
		h := l.rowHeight(l.anchor)
		if l.anchorTop+h > 0 {
			break
		}
		l.anchorTop += h
		l.anchor++
	}
	if gap := l.height - l.bottomFrom(l.anchor, l.anchorTop, l.height); gap > 0 {
		l.anchorTop += gap
	}
	for l.anchorTop > 0 && l.anchor > 0 {
		l.anchor--
		l.anchorTop -= l.rowHeight(l.anchor)
	}
	if l.anchor == 0 && l.anchorTop > 0 {
		l.anchorTop = 0
	}
}

// clampScroll limits d to the content available in that direction.
func (l *List) clampScroll(d int) int {
	if d > 0 {
		bottom := l.bottomFrom(l.anchor, l.anchorTop, l.height+d)
		return min(d, max(0, bottom-l.height))
	}
	above := -l.anchorTop
	for pos := l.anchor - 1; pos >= 0 && above < -d; pos-- {
		above += l.rowHeight(pos)
	}
	return max(d, -above)
}

// bottomFrom returns the bottom of the content laid out from pos at y,
// walking no further than limit.
func (l *List) bottomFrom(pos, y, limit int) int {
	for n := l.Len(); pos < n && y < limit; pos++ {
		y += l.rowHeight(pos)
	}
	return y
}

// rowHeight measures a row, binding a scratch slot when it is not laid out.
func (l *List) rowHeight(position int) int {
	for _, s := range l.children {
		if s.layoutPos == position && !s.invalid {
			return s.Height()
		}
	}
	s := l.SlotFor(position)
	h := s.Height()
	l.Recycle(s)
	return h
}

func (l *List) invalidateChildren() {
	for _, s := range l.children {
		s.invalid = true
	}
}
