package sticky

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRow struct {
	label  string
	header bool
	height int
}

// testRows is a slice-backed adapter. Headers are labelled "# n" and
// ordinary rows "row n", using their position at creation time.
type testRows struct {
	items []testRow
	binds int
}

func sectioned(n, every, offset int) *testRows {
	return newRows(n, func(i int) bool { return i%every == offset }, 1)
}

func newRows(n int, header func(int) bool, headerHeight int) *testRows {
	r := &testRows{}
	for i := range n {
		r.items = append(r.items, makeRow(i, header(i), headerHeight))
	}
	return r
}

func makeRow(i int, header bool, headerHeight int) testRow {
	if header {
		return testRow{label: fmt.Sprintf("# %d", i), header: true, height: headerHeight}
	}
	return testRow{label: fmt.Sprintf("row %d", i), height: 1}
}

func (r *testRows) Len() int { return len(r.items) }

func (r *testRows) Bind(s *Slot, position int) {
	r.binds++
	it := r.items[position]
	lines := make([]string, it.height)
	lines[0] = it.label
	for i := 1; i < it.height; i++ {
		lines[i] = "--"
	}
	style := DefaultStyle()
	if it.header {
		style = style.Bold()
	}
	s.SetContent(style, lines...)
}

func (r *testRows) IsSticky(position int) bool {
	return position >= 0 && position < len(r.items) && r.items[position].header
}

func (r *testRows) remove(start, count int) {
	r.items = slices.Delete(r.items, start, start+count)
}

func newTestList(t *testing.T, rows *testRows, height int, opts ...Option) *List {
	t.Helper()
	l := NewList(rows, opts...)
	l.SetSize(20, height)
	checkConsistent(t, l)
	return l
}

func render(l *List) *Buffer {
	buf := NewBuffer(l.Width(), l.Extent())
	l.Render(buf, 0, 0)
	return buf
}

// rendered returns the attached, drawable slots bound to position.
func rendered(l *List, position int) []*Slot {
	var out []*Slot
	for _, s := range l.children {
		if !s.placeholder && s.layoutPos == position {
			out = append(out, s)
		}
	}
	return out
}

// checkConsistent asserts every slot has exactly one owner and no row is
// drawn twice.
func checkConsistent(t *testing.T, l *List) {
	t.Helper()
	owner := map[*Slot]string{}
	own := func(s *Slot, who string) {
		if prev, ok := owner[s]; ok {
			t.Fatalf("slot %d at %d owned by both %s and %s", s.id, s.layoutPos, prev, who)
		}
		owner[s] = who
	}

	seen := map[int]int{}
	for _, s := range l.children {
		own(s, "children")
		require.True(t, s.attached, "child %d not flagged attached", s.layoutPos)
		if !s.placeholder {
			seen[s.layoutPos]++
		}
	}
	for pos, n := range seen {
		require.Equal(t, 1, n, "position %d drawn %d times", pos, n)
	}
	for _, s := range l.pool {
		own(s, "pool")
		require.False(t, s.attached)
	}
	l.sticky.cache.Each(func(s *Slot) {
		own(s, "cache")
		require.False(t, s.attached, "cached slot %d still attached", s.layoutPos)
	})
	for _, s := range l.sticky.pinned.Slots() {
		require.Equal(t, "children", owner[s], "pinned slot %d not attached", s.layoutPos)
	}
	checkIndex(t, l.sticky.cache)
}

func TestListLayout(t *testing.T) {
	t.Run("FillsViewport", func(t *testing.T) {
		l := newTestList(t, sectioned(50, 5, 3), 5)
		start, end := l.VisibleRange()
		assert.Equal(t, 0, start)
		assert.Equal(t, 5, end)
		assert.Equal(t, "row 0\nrow 1\nrow 2\n# 3\nrow 4", render(l).StringTrimmed())
	})

	t.Run("ShortContent", func(t *testing.T) {
		l := newTestList(t, sectioned(3, 5, 3), 5)
		assert.Equal(t, 0, l.ScrollBy(1))
		assert.Equal(t, "row 0\nrow 1\nrow 2", render(l).StringTrimmed())
	})

	t.Run("ClampsAtEnds", func(t *testing.T) {
		l := newTestList(t, sectioned(12, 5, 3), 5)
		assert.Equal(t, 0, l.ScrollBy(-3))
		assert.Equal(t, 7, l.ScrollBy(100))
		pos, top := l.FirstVisible()
		assert.Equal(t, 7, pos)
		assert.Equal(t, 0, top)
		assert.Equal(t, -7, l.ScrollBy(-100))
		checkConsistent(t, l)
	})

	t.Run("RecyclesSlots", func(t *testing.T) {
		l := newTestList(t, sectioned(200, 5, 3), 5)
		for range 150 {
			l.ScrollBy(1)
		}
		checkConsistent(t, l)
		held := len(l.Sticky().Cached()) + len(l.Sticky().Pinned())
		assert.LessOrEqual(t, l.nextID, 10+held, "slots should be reused, not allocated per row")
	})

	t.Run("VariableHeights", func(t *testing.T) {
		rows := newRows(20, func(i int) bool { return i%5 == 0 }, 2)
		l := newTestList(t, rows, 6)
		assert.Equal(t, "# 0\n--\nrow 1\nrow 2\nrow 3\nrow 4", render(l).StringTrimmed())
		l.ScrollTo(5)
		assert.Equal(t, "# 5\n--\nrow 6\nrow 7\nrow 8\nrow 9", render(l).StringTrimmed())
	})

	t.Run("EmptyAdapter", func(t *testing.T) {
		l := newTestList(t, &testRows{}, 5)
		assert.Equal(t, 0, l.ScrollBy(3))
		assert.Empty(t, l.Sticky().Pinned())
		assert.Equal(t, "", render(l).StringTrimmed())
	})
}

func TestListRenderPinnedOnTop(t *testing.T) {
	l := newTestList(t, sectioned(50, 5, 0), 5)
	for range 11 {
		l.ScrollBy(1)
	}
	buf := render(l)
	assert.Equal(t, "# 10\nrow 12\nrow 13\nrow 14\n# 15", buf.StringTrimmed())
	assert.True(t, buf.Get(0, 0).Style.Attr.Has(AttrBold))
	assert.False(t, buf.Get(0, 1).Style.Attr.Has(AttrBold))
}
