package sticky

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotAt(pos int) *Slot {
	return &Slot{layoutPos: pos, adapterPos: pos}
}

func cacheOf(positions ...int) *SlotCache {
	c := NewSlotCache()
	for _, p := range positions {
		c.Push(slotAt(p))
	}
	return c
}

func positionsOf(slots []*Slot) []int {
	out := make([]int, len(slots))
	for i, s := range slots {
		out[i] = s.layoutPos
	}
	return out
}

func requirePositions(t *testing.T, want, got []int, msg string) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("%s (-want +got):\n%s", msg, diff)
	}
}

// checkIndex asserts the stack and the position index hold the same set.
func checkIndex(t *testing.T, c *SlotCache) {
	t.Helper()
	require.Len(t, c.index, len(c.stack))
	for _, s := range c.stack {
		require.Same(t, s, c.index[s.layoutPos], "index out of sync at %d", s.layoutPos)
	}
}

func TestSlotCache(t *testing.T) {
	t.Run("PushRejectsNil", func(t *testing.T) {
		c := NewSlotCache()
		assert.Nil(t, c.Push(nil))
		assert.Equal(t, 0, c.Len())
	})

	t.Run("PushRejectsDuplicatePosition", func(t *testing.T) {
		c := cacheOf(3, 8)
		first := c.Get(3)

		assert.Nil(t, c.Push(slotAt(3)))
		assert.Equal(t, []int{3, 8}, c.Positions())
		assert.Same(t, first, c.Get(3))
		checkIndex(t, c)
	})

	t.Run("PushReturnsSlot", func(t *testing.T) {
		c := NewSlotCache()
		s := slotAt(4)
		assert.Same(t, s, c.Push(s))
		assert.Same(t, s, c.Peek())
		assert.True(t, c.Contains(4))
	})

	t.Run("PeekEmpty", func(t *testing.T) {
		assert.Nil(t, NewSlotCache().Peek())
	})

	t.Run("PeekDoesNotRemove", func(t *testing.T) {
		c := cacheOf(1, 2)
		assert.Equal(t, 2, c.Peek().LayoutPosition())
		assert.Equal(t, 2, c.Len())
	})

	t.Run("PopNOrder", func(t *testing.T) {
		c := cacheOf(0, 5, 10, 15)
		got := c.PopN(3)
		if diff := cmp.Diff([]int{15, 10, 5}, positionsOf(got)); diff != "" {
			t.Errorf("PopN mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, []int{0}, c.Positions())
		assert.False(t, c.Contains(10))
		checkIndex(t, c)
	})

	t.Run("PopNStopsWhenEmpty", func(t *testing.T) {
		c := cacheOf(1, 2)
		assert.Len(t, c.PopN(5), 2)
		assert.Equal(t, 0, c.Len())
		assert.Empty(t, c.PopN(1))
		assert.Empty(t, cacheOf(1).PopN(0))
	})

	t.Run("RemovePosition", func(t *testing.T) {
		c := cacheOf(1, 2, 3)
		s := c.RemovePosition(2)
		require.NotNil(t, s)
		assert.Equal(t, 2, s.LayoutPosition())
		assert.Nil(t, c.RemovePosition(2))
		assert.Equal(t, []int{1, 3}, c.Positions())
		checkIndex(t, c)
	})

	t.Run("RemoveByIdentity", func(t *testing.T) {
		c := cacheOf(1, 2)
		stranger := slotAt(2)
		assert.False(t, c.Remove(stranger))
		assert.True(t, c.Contains(2), "removing a different slot must not drop the index entry")

		assert.True(t, c.Remove(c.Get(2)))
		assert.Equal(t, []int{1}, c.Positions())
		checkIndex(t, c)
	})

	t.Run("TrimAbove", func(t *testing.T) {
		c := cacheOf(0, 5, 10, 15, 20)
		removed := c.TrimAbove(10)
		assert.Equal(t, []int{15, 20}, positionsOf(removed))
		assert.Equal(t, []int{0, 5, 10}, c.Positions())
		checkIndex(t, c)
	})

	t.Run("RemoveFunc", func(t *testing.T) {
		c := cacheOf(1, 2, 3, 4)
		c.Get(2).invalid = true
		c.Get(4).invalid = true
		removed := c.RemoveFunc((*Slot).Invalid)
		assert.Equal(t, []int{2, 4}, positionsOf(removed))
		assert.Equal(t, []int{1, 3}, c.Positions())
		checkIndex(t, c)
	})

	t.Run("ReindexDropsCollisions", func(t *testing.T) {
		c := cacheOf(1, 5, 6)
		c.Get(5).layoutPos = 2
		c.Get(6).layoutPos = 2
		dropped := c.Reindex()
		assert.Len(t, dropped, 1)
		assert.Equal(t, []int{1, 2}, c.Positions())
		checkIndex(t, c)
	})

	t.Run("Clear", func(t *testing.T) {
		c := cacheOf(1, 2, 3)
		c.Clear()
		assert.Equal(t, 0, c.Len())
		assert.False(t, c.Contains(1))
		assert.NotNil(t, c.Push(slotAt(1)))
	})
}

func TestSlotCacheRandomOps(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for round := range 200 {
		c := NewSlotCache()
		var model []int

		for range 40 {
			switch op := rng.IntN(10); {
			case op < 6:
				pos := rng.IntN(25)
				before := slices.Clone(c.Positions())
				got := c.Push(slotAt(pos))
				if slices.Contains(model, pos) {
					require.Nil(t, got, "round %d: duplicate %d accepted", round, pos)
					requirePositions(t, before, c.Positions(), "cache changed by rejected push")
					continue
				}
				require.NotNil(t, got)
				model = append(model, pos)
			case op < 8:
				n := rng.IntN(4)
				popped := c.PopN(n)
				k := min(n, len(model))
				want := slices.Clone(model[len(model)-k:])
				slices.Reverse(want)
				requirePositions(t, want, positionsOf(popped), "PopN")
				model = model[:len(model)-k]
			default:
				p := rng.IntN(25)
				removed := c.TrimAbove(p)
				var wantRemoved, kept []int
				for _, m := range model {
					if m > p {
						wantRemoved = append(wantRemoved, m)
					} else {
						kept = append(kept, m)
					}
				}
				requirePositions(t, wantRemoved, positionsOf(removed), "TrimAbove")
				model = kept
			}

			requirePositions(t, model, c.Positions(), "cache contents")
			checkIndex(t, c)
		}
	}
}
