// Command stickydemo scrolls a sectioned list in the terminal with its
// section headers pinned to the top.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/kungfusheep/sticky"
)

type config struct {
	rows      int
	every     int
	maxPinned int
	height    int
	dump      int
	logPath   string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "stickydemo:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var cfg config
	fs := flag.NewFlagSet("stickydemo", flag.ContinueOnError)
	fs.IntVar(&cfg.rows, "rows", 500, "number of rows")
	fs.IntVar(&cfg.every, "every", 7, "a section header every n rows")
	fs.IntVar(&cfg.maxPinned, "max-pinned", 1, "headers kept pinned at once")
	fs.IntVar(&cfg.height, "height", 0, "viewport height, 0 fills the terminal")
	fs.IntVar(&cfg.dump, "dump", -1, "print one frame scrolled by n lines and exit")
	fs.StringVar(&cfg.logPath, "log", "", "write debug logs to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(cfg.logPath)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	data := newSections(cfg.rows, cfg.every)
	list := sticky.NewList(data, sticky.WithMaxPinned(cfg.maxPinned), sticky.WithLogger(logger))

	if cfg.dump >= 0 {
		return dump(list, cfg)
	}

	m := &model{list: list, data: data, alt: newContacts(), height: cfg.height, log: logger}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func dump(list *sticky.List, cfg config) error {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	if cfg.height > 0 {
		height = cfg.height
	}
	list.SetSize(width, height)
	list.ScrollBy(cfg.dump)

	buf := sticky.NewBuffer(width, height)
	list.Render(buf, 0, 0)
	if _, err := fmt.Fprintln(os.Stdout, buf.StringTrimmed()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

type model struct {
	list   *sticky.List
	data   *sections
	alt    sticky.Adapter
	height int
	width  int
	buf    *sticky.Buffer
	log    *zap.Logger
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		h := msg.Height - 1
		if m.height > 0 {
			h = min(h, m.height)
		}
		m.list.SetSize(m.width, h)
		if m.buf == nil {
			m.buf = sticky.NewBuffer(m.width, m.list.Extent())
		} else {
			m.buf.Resize(m.width, m.list.Extent())
		}
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *model) handleKey(key string) tea.Cmd {
	page := m.list.Extent()
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "down", "j":
		m.list.ScrollBy(1)
	case "up", "k":
		m.list.ScrollBy(-1)
	case "pgdown", "ctrl+d":
		m.list.ScrollBy(max(1, page/2))
	case "pgup", "ctrl+u":
		m.list.ScrollBy(-max(1, page/2))
	case "r":
		if d, ok := m.list.Adapter().(*sections); ok {
			m.list.NotifyRowsRemoved(0, d.removeFront(2))
		}
	case "c":
		m.data.generation++
		m.list.NotifyDataSetChanged()
	case "a":
		next := m.alt
		m.alt = m.list.Adapter()
		m.list.SetAdapter(next)
		m.log.Debug("adapter swapped", zap.Int("rows", m.list.Len()))
	case "g":
		pos, _ := m.list.FirstVisible()
		m.list.ScrollTo(pos + 10)
	}
	return nil
}

func (m *model) View() string {
	if m.buf == nil || m.list.Extent() == 0 {
		return ""
	}
	m.list.Render(m.buf, 0, 0)

	pos, _ := m.list.FirstVisible()
	status := fmt.Sprintf(" row %d/%d  pinned %v  cached %d  j/k pgup/pgdn r c a g q",
		pos, m.list.Len(), m.list.Sticky().Pinned(), len(m.list.Sticky().Cached()))
	return renderBuffer(m.buf) + "\n" + statusStyle.Width(m.width).Render(status)
}

var statusStyle = lipgloss.NewStyle().Reverse(true)

// renderBuffer converts a buffer to styled terminal text, one lipgloss
// render per run of identically styled cells.
func renderBuffer(buf *sticky.Buffer) string {
	var sb strings.Builder
	for y := range buf.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var run strings.Builder
		runStyle := buf.Get(0, y).Style
		for x := range buf.Width() {
			c := buf.Get(x, y)
			if c.Style != runStyle {
				sb.WriteString(lipStyle(runStyle).Render(run.String()))
				run.Reset()
				runStyle = c.Style
			}
			run.WriteRune(c.Rune)
		}
		sb.WriteString(lipStyle(runStyle).Render(run.String()))
	}
	return sb.String()
}

func lipStyle(s sticky.Style) lipgloss.Style {
	st := lipgloss.NewStyle().
		Bold(s.Attr.Has(sticky.AttrBold)).
		Faint(s.Attr.Has(sticky.AttrDim)).
		Underline(s.Attr.Has(sticky.AttrUnderline)).
		Reverse(s.Attr.Has(sticky.AttrInverse))
	if c, ok := lipColor(s.FG); ok {
		st = st.Foreground(c)
	}
	if c, ok := lipColor(s.BG); ok {
		st = st.Background(c)
	}
	return st
}

func lipColor(c sticky.Color) (lipgloss.Color, bool) {
	if c.Mode == sticky.ColorDefault {
		return "", false
	}
	return lipgloss.Color(strconv.Itoa(int(c.Index))), true
}
