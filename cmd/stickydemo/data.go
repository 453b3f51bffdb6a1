package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kungfusheep/sticky"
)

type entry struct {
	text   string
	header bool
}

// sections is a numbered list with a header every few rows.
type sections struct {
	entries    []entry
	generation int
}

func newSections(rows, every int) *sections {
	every = max(1, every)
	s := &sections{}
	for i := range rows {
		if i%every == 0 {
			s.entries = append(s.entries, entry{text: fmt.Sprintf("Section %d", i/every+1), header: true})
			continue
		}
		s.entries = append(s.entries, entry{text: fmt.Sprintf("item %d", i)})
	}
	return s
}

func (s *sections) Len() int { return len(s.entries) }

func (s *sections) IsSticky(position int) bool {
	return position >= 0 && position < len(s.entries) && s.entries[position].header
}

func (s *sections) Bind(slot *sticky.Slot, position int) {
	e := s.entries[position]
	text := e.text
	if s.generation > 0 {
		text = fmt.Sprintf("%s (v%d)", text, s.generation+1)
	}
	if e.header {
		slot.SetContent(sticky.DefaultStyle().Foreground(sticky.Cyan).Bold(), text)
		return
	}
	slot.SetContent(sticky.DefaultStyle(), "  "+text)
}

func (s *sections) removeFront(n int) int {
	n = min(n, len(s.entries))
	s.entries = slices.Delete(s.entries, 0, n)
	return n
}

var surnames = []string{
	"Abbott", "Acosta", "Baker", "Banks", "Barker", "Castro", "Chen", "Cole",
	"Dalton", "Diaz", "Ellis", "Evans", "Fischer", "Ford", "Garcia", "Grant",
	"Hale", "Hughes", "Ingram", "Jensen", "Jones", "Kaur", "Keller", "Lopez",
	"Lund", "Moreno", "Murphy", "Nash", "Novak", "Owens", "Park", "Patel",
	"Quinn", "Reyes", "Rossi", "Sato", "Shah", "Silva", "Tanaka", "Turner",
	"Usman", "Vance", "Vogel", "Walsh", "Wong", "Xu", "Young", "Zhang",
}

// contacts groups names under two-line letter headers.
type contacts struct {
	entries []entry
}

func newContacts() *contacts {
	c := &contacts{}
	var letter byte
	for i, name := range surnames {
		if name[0] != letter {
			letter = name[0]
			c.entries = append(c.entries, entry{text: string(letter), header: true})
		}
		c.entries = append(c.entries, entry{text: fmt.Sprintf("%s, #%d", name, i+1)})
	}
	return c
}

func (c *contacts) Len() int { return len(c.entries) }

func (c *contacts) IsSticky(position int) bool {
	return position >= 0 && position < len(c.entries) && c.entries[position].header
}

func (c *contacts) Bind(slot *sticky.Slot, position int) {
	e := c.entries[position]
	if e.header {
		slot.SetContent(sticky.DefaultStyle().Foreground(sticky.Yellow).Bold(), e.text, strings.Repeat("─", 12))
		return
	}
	slot.SetContent(sticky.DefaultStyle(), "  "+e.text)
}
