package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pdext/pkg/frame"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// sampleSize is the number of leading values shown per column.
const sampleSize = 3

// =============================================================================
// ColumnPickerModel - Interactive ring selection
// =============================================================================

// ColumnInfo describes one frame column in the picker.
type ColumnInfo struct {
	Name    string
	Numeric bool
	Sample  string
}

// describeColumns lists the columns of f with a short value preview.
func describeColumns(f *frame.Frame) []ColumnInfo {
	numeric := map[string]bool{}
	for _, c := range f.NumericColumns() {
		numeric[c] = true
	}
	out := make([]ColumnInfo, 0, len(f.Columns()))
	for _, name := range f.Columns() {
		vals, _ := f.Strings(name)
		if len(vals) > sampleSize {
			vals = append(vals[:sampleSize:sampleSize], "…")
		}
		out = append(out, ColumnInfo{Name: name, Numeric: numeric[name], Sample: strings.Join(vals, ", ")})
	}
	return out
}

// ColumnPickerModel is the bubbletea model for choosing ring columns.
// Columns are returned in the order they were picked, innermost first.
// Only numeric columns can be picked.
type ColumnPickerModel struct {
	Title     string
	Columns   []ColumnInfo
	Cursor    int
	Height    int
	Offset    int
	Picked    []string
	Confirmed bool
}

// NewColumnPickerModel creates a picker over columns with preselected
// names already picked.
func NewColumnPickerModel(title string, columns []ColumnInfo, preselected []string) ColumnPickerModel {
	m := ColumnPickerModel{Title: title, Columns: columns, Height: 15}
	for _, p := range preselected {
		for _, c := range columns {
			if c.Name == p && c.Numeric {
				m.Picked = append(m.Picked, p)
			}
		}
	}
	return m
}

func (m ColumnPickerModel) Init() tea.Cmd {
	return nil
}

// pickIndex returns the ring position of name, or -1.
func (m ColumnPickerModel) pickIndex(name string) int {
	for i, p := range m.Picked {
		if p == name {
			return i
		}
	}
	return -1
}

func (m ColumnPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Columns)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Columns) == 0 {
				return m, nil
			}
			col := m.Columns[m.Cursor]
			if !col.Numeric {
				return m, nil
			}
			if i := m.pickIndex(col.Name); i >= 0 {
				m.Picked = append(m.Picked[:i:i], m.Picked[i+1:]...)
			} else {
				m.Picked = append(m.Picked, col.Name)
			}
		case "enter":
			if len(m.Picked) == 0 {
				return m, nil
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ColumnPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space pick  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Columns))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		c := m.Columns[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		ring := ""
		if p := m.pickIndex(c.Name); p >= 0 {
			ring = fmt.Sprintf("%d", p+1)
		}
		kind := "text"
		if c.Numeric {
			kind = "number"
		}
		rows = append(rows, []string{cursor, ring, c.Name, kind, c.Sample})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Ring", "Column", "Type", "Values").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Columns) {
				return lipgloss.NewStyle()
			}
			c := m.Columns[idx]
			base := lipgloss.NewStyle()
			if col == 4 {
				base = base.Foreground(colorDim)
			}
			switch {
			case !c.Numeric:
				return base.Foreground(colorDim)
			case m.pickIndex(c.Name) >= 0:
				base = base.Foreground(colorGreen)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d picked", m.Cursor+1, len(m.Columns), len(m.Picked))))

	return b.String()
}

// pickColumns runs the picker on the terminal. It returns nil when the
// user quits without confirming.
func pickColumns(title string, f *frame.Frame, preselected []string) ([]string, error) {
	model := NewColumnPickerModel(title, describeColumns(f), preselected)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, err
	}
	m := final.(ColumnPickerModel)
	if !m.Confirmed {
		return nil, nil
	}
	return m.Picked, nil
}
