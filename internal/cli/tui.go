package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/engine"
	"github.com/matzehuels/flowglyph/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	overlapStyle      = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// BeatListModel - Step through positioned beats
// =============================================================================

// BeatListModel is the bubbletea model for browsing a positioned sequence.
type BeatListModel struct {
	Title  string
	Beats  []engine.Placement
	Fixes  []string
	Cursor int
	Height int
	Offset int
}

// NewBeatListModel creates a browser over the placements of res, start
// position first.
func NewBeatListModel(res *engine.Result) BeatListModel {
	beats := make([]engine.Placement, 0, len(res.Beats)+1)
	if res.StartPosition != nil {
		beats = append(beats, *res.StartPosition)
	}
	beats = append(beats, res.Beats...)

	title := res.Sequence.Word
	if title == "" {
		title = "Sequence"
	}
	return BeatListModel{Title: title, Beats: beats, Fixes: res.Fixes, Height: 12}
}

func (m BeatListModel) Init() tea.Cmd {
	return nil
}

func (m BeatListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "home", "g":
			m.move(-len(m.Beats))
		case "end", "G":
			m.move(len(m.Beats))
		}
	case tea.WindowSizeMsg:
		// Leave room for the detail pane.
		m.Height = msg.Height - 16
		if m.Height < 3 {
			m.Height = 3
		}
		m.move(0)
	}
	return m, nil
}

func (m *BeatListModel) move(delta int) {
	if len(m.Beats) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Beats)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m BeatListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Beats) == 0 {
		b.WriteString(listDimStyle.Render("  no beats"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Beats))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		pl := m.Beats[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		overlap := ""
		if pl.Decision.Overlap {
			overlap = "overlap"
		}
		rows = append(rows, []string{cursor, beatLabel(pl), orDash(pl.Letter), string(pl.Decision.Method), overlap})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Beat", "Letter", "Method", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case col == 4:
				return overlapStyle
			case idx < len(m.Beats) && m.Beats[idx].IsBlank:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Beats))))
	b.WriteString("\n\n")
	b.WriteString(m.detail(m.Beats[m.Cursor]))

	return b.String()
}

// detail renders the decision and prop placements of one beat.
func (m BeatListModel) detail(pl engine.Placement) string {
	var b strings.Builder
	line := func(key, value string) {
		b.WriteString(lipgloss.NewStyle().Foreground(colorGray).Width(12).Render(key))
		b.WriteString(" ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	if pl.IsBlank {
		line("beat", beatLabel(pl))
		line("end", formatOrientations(pl.EndOrientations))
		return b.String()
	}

	d := pl.Decision
	method := string(d.Method)
	if d.Source != "" {
		method += " (" + string(d.Source) + ")"
	}
	if d.Repaired {
		method += " repaired"
	}
	line("decision", method)
	for _, c := range pictograph.Colors {
		s := formatProp(pl, c)
		if dir, ok := d.Directions[c]; ok {
			s += " " + listDimStyle.Render(string(dir))
		}
		line(string(c), s)
	}
	line("start", formatOrientations(pl.StartOrientations))
	line("end", formatOrientations(pl.EndOrientations))
	return b.String()
}

// =============================================================================
// StoredListModel - Interactive stored sequence selection
// =============================================================================

// StoredListModel is the bubbletea model for picking a stored sequence.
type StoredListModel struct {
	Sequences []store.Summary
	Cursor    int
	Selected  *store.Summary
}

// NewStoredListModel creates a picker over list, newest first.
func NewStoredListModel(list []store.Summary) StoredListModel {
	sorted := append([]store.Summary(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt) })
	return StoredListModel{Sequences: sorted}
}

func (m StoredListModel) Init() tea.Cmd {
	return nil
}

func (m StoredListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Sequences)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Sequences) > 0 {
				m.Selected = &m.Sequences[m.Cursor]
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m StoredListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Sequence"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	if len(m.Sequences) == 0 {
		b.WriteString(listDimStyle.Render("  no stored sequences"))
		b.WriteString("\n")
	}

	for i, s := range m.Sequences {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-16s %3d beats  %s", cursor, orDash(s.Word), s.Beats,
			listDimStyle.Render(formatRelativeTime(s.UpdatedAt)))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
