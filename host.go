package sticky

// Host is the virtualized list engine the coordinator runs on top of. It
// owns scrolling, measuring and recycling of rows; the coordinator only
// borrows header slots from it and hands them back.
type Host interface {
	// ChildCount and ChildAt enumerate the attached slots in display order.
	ChildCount() int
	ChildAt(i int) *Slot

	// AddView attaches s at index i, or appends it when i is negative.
	AddView(s *Slot, i int)
	// RemoveView detaches s from the view tree without recycling it.
	RemoveView(s *Slot)
	// Layout places s at r.
	Layout(s *Slot, r Rect)
	// Recycle returns a detached slot the coordinator no longer needs.
	Recycle(s *Slot)

	// SlotFor materializes a bound, detached slot for position.
	SlotFor(position int) *Slot
	// FirstVisiblePosition returns the position of the first row whose
	// bottom is below the top edge.
	FirstVisiblePosition() int

	// Extent and Width return the viewport size in cells.
	Extent() int
	Width() int
}
