package ui

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RecordRow holds per-transaction data needed for interactivity.
type RecordRow struct {
	FullHash    string // untruncated hash (for copy)
	ExplorerURL string // tonviewer link
}

// recordListModel is the bubbletea model for the interactive record table.
type recordListModel struct {
	title  string
	table  *Table
	rows   []RecordRow // parallel to table.Rows
	cursor int
	flash  string // brief feedback shown in hint bar

	open func(string) error
	copy func(string) error
}

func newRecordListModel(title string, table *Table, rows []RecordRow) recordListModel {
	return recordListModel{
		title: title,
		table: table,
		rows:  rows,
		open:  openBrowser,
		copy:  copyToClipboard,
	}
}

func (m recordListModel) Init() tea.Cmd { return nil }

func (m recordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.flash = ""
	switch key.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.table.Rows)-1 {
			m.cursor++
		}

	case "home", "g":
		m.cursor = 0

	case "end", "G":
		if n := len(m.table.Rows); n > 0 {
			m.cursor = n - 1
		}

	case "o":
		if m.cursor >= len(m.rows) || m.rows[m.cursor].ExplorerURL == "" {
			m.flash = "No explorer URL available"
			break
		}
		if err := m.open(m.rows[m.cursor].ExplorerURL); err != nil {
			m.flash = "Open failed: " + trimErr(err.Error())
		} else {
			m.flash = "Opening in browser…"
		}

	case "c":
		if m.cursor >= len(m.rows) || m.rows[m.cursor].FullHash == "" {
			m.flash = "No hash available"
			break
		}
		hash := m.rows[m.cursor].FullHash
		if err := m.copy(hash); err != nil {
			m.flash = "Copy failed: " + trimErr(err.Error())
		} else {
			m.flash = "Copied: " + TruncateAddr(hash)
		}
	}
	return m, nil
}

func (m recordListModel) View() string {
	m.table.SelIdx = m.cursor

	var sb strings.Builder
	sb.WriteString(m.title)
	sb.WriteString("\n\n")
	sb.WriteString(m.table.Render())
	sb.WriteString("\n")
	if m.flash != "" {
		sb.WriteString(StyleSuccess.Render("  ✓ " + m.flash))
	} else {
		sb.WriteString(controls(
			[2]string{"↑↓", "navigate"},
			[2]string{"o", "open in tonviewer"},
			[2]string{"c", "copy hash"},
			[2]string{"q", "quit"},
		))
	}
	sb.WriteString("\n")
	return sb.String()
}

// RunRecordList starts the interactive transaction list. Blocks until the
// user presses q/ESC. Uses the alt screen so the terminal is restored on exit.
func RunRecordList(title string, table *Table, rows []RecordRow) error {
	p := tea.NewProgram(newRecordListModel(title, table, rows),
		tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
