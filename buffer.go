package sticky

import "strings"

// Buffer is a 2D grid of cells representing a drawable surface.
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

// NewBuffer creates a new buffer with the given dimensions.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{
		cells:  make([]Cell, width*height),
		width:  width,
		height: height,
	}
	b.Clear()
	return b
}

// Width returns the buffer width.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the buffer height.
func (b *Buffer) Height() int {
	return b.height
}

// InBounds returns true if the given coordinates are within the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the cell at the given coordinates.
// Returns an empty cell if out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if !b.InBounds(x, y) {
		return EmptyCell()
	}
	return b.cells[y*b.width+x]
}

// Set sets the cell at the given coordinates.
// Does nothing if out of bounds.
func (b *Buffer) Set(x, y int, c Cell) {
	if !b.InBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = c
}

// Fill fills the entire buffer with the given cell.
func (b *Buffer) Fill(c Cell) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// Clear clears the buffer to empty cells with default style.
func (b *Buffer) Clear() {
	b.Fill(EmptyCell())
}

// FillRect fills a rectangular region with the given cell.
func (b *Buffer) FillRect(x, y, width, height int, c Cell) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			b.Set(x+dx, y+dy, c)
		}
	}
}

// WriteStringClipped writes a string, stopping at maxWidth.
// Returns the number of cells written.
func (b *Buffer) WriteStringClipped(x, y int, s string, style Style, maxWidth int) int {
	written := 0
	for _, r := range s {
		if written >= maxWidth || !b.InBounds(x, y) {
			break
		}
		b.Set(x, y, NewCell(r, style))
		x++
		written++
	}
	return written
}

// GetLine returns the content of a single line as a string (trimmed).
func (b *Buffer) GetLine(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var line []rune
	for x := 0; x < b.width; x++ {
		r := b.Get(x, y).Rune
		if r == 0 {
			r = ' '
		}
		line = append(line, r)
	}
	return strings.TrimRight(string(line), " ")
}

// String returns the buffer contents as a string (for testing/debugging).
// Each row is separated by a newline. Trailing spaces are preserved.
func (b *Buffer) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			r := b.Get(x, y).Rune
			if r == 0 {
				r = ' '
			}
			sb.WriteRune(r)
		}
		if y < b.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// StringTrimmed returns the buffer contents with trailing spaces removed per
// line and trailing empty lines dropped.
func (b *Buffer) StringTrimmed() string {
	lines := make([]string, b.height)
	for y := range lines {
		lines[y] = b.GetLine(y)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// Resize resizes the buffer to new dimensions.
// Existing content is preserved where it fits.
func (b *Buffer) Resize(width, height int) {
	if width == b.width && height == b.height {
		return
	}
	nb := NewBuffer(width, height)
	for y := 0; y < min(height, b.height); y++ {
		for x := 0; x < min(width, b.width); x++ {
			nb.cells[y*width+x] = b.cells[y*b.width+x]
		}
	}
	*b = *nb
}
