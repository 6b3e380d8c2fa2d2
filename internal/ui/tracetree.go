package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/Mohsinsiddi/tonscope/internal/ton"
	tea "github.com/charmbracelet/bubbletea"
)

// TraceLine is one rendered row of the trace browser.
type TraceLine struct {
	Depth   int
	OK      bool
	Hash    string
	Account string
	Amount  float64
	Type    string
}

// TraceLines flattens root into display rows in depth-first pre-order. The
// returned index is the row of the first failure, or -1.
func TraceLines(root *ton.TraceNode) ([]TraceLine, int) {
	flat := ton.Flatten(root)
	lines := make([]TraceLine, 0, len(flat))
	firstFail := -1
	for i, f := range flat {
		l := TraceLine{Depth: f.Depth, Amount: ton.TransactionAmount(f.Node)}
		if tx := f.Node.Transaction; tx != nil {
			l.OK = tx.Succeeded()
			l.Hash = tx.Hash
			l.Type = tx.TransactionType
			if tx.Account != nil {
				l.Account = tx.Account.String()
			}
		}
		if !l.OK && firstFail < 0 {
			firstFail = i
		}
		lines = append(lines, l)
	}
	return lines, firstFail
}

// Render formats the line without cursor highlighting.
func (l TraceLine) Render() string {
	glyph := StyleSuccess.Render("✓")
	if !l.OK {
		glyph = StyleError.Render("✗")
	}
	account := l.Account
	if account == "" {
		account = "?"
	}
	hash := TruncateAddr(l.Hash)
	if hash == "" {
		hash = "(no transaction)"
	}
	s := strings.Repeat("  ", l.Depth) + glyph + " " +
		StyleAddress.Render(padR(TruncateAddr(account), 16)) + " " +
		StyleMeta.Render(padR(hash, 16))
	if l.Amount != 0 {
		s += " " + StyleValue.Render(fmt.Sprintf("%g TON", l.Amount))
	}
	if l.Type != "" {
		s += " " + StyleMeta.Render(l.Type)
	}
	return s
}

type traceTreeModel struct {
	title     string
	lines     []TraceLine
	firstFail int
	txURL     func(hash string) string
	cursor    int
	offset    int
	height    int
	flash     string

	open func(string) error
	copy func(string) error
}

func newTraceTreeModel(title string, root *ton.TraceNode, txURL func(string) string) traceTreeModel {
	lines, firstFail := TraceLines(root)
	return traceTreeModel{
		title:     title,
		lines:     lines,
		firstFail: firstFail,
		txURL:     txURL,
		height:    20,
		open:      openBrowser,
		copy:      copyToClipboard,
	}
}

func (m traceTreeModel) Init() tea.Cmd { return nil }

func (m traceTreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title, blank line, status bar and margin
		m.height = max(msg.Height-5, 3)
	case tea.KeyMsg:
		m.flash = ""
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.lines)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(len(m.lines)-1, 0)
		case "f":
			if m.firstFail < 0 {
				m.flash = "All transactions succeeded"
			} else {
				m.cursor = m.firstFail
			}
		case "o":
			hash := m.currentHash()
			if hash == "" || m.txURL == nil {
				m.flash = "No transaction to open"
				break
			}
			if err := m.open(m.txURL(hash)); err != nil {
				m.flash = "Open failed: " + trimErr(err.Error())
			} else {
				m.flash = "Opening in browser…"
			}
		case "c":
			hash := m.currentHash()
			if hash == "" {
				m.flash = "No hash available"
				break
			}
			if err := m.copy(hash); err != nil {
				m.flash = "Copy failed: " + trimErr(err.Error())
			} else {
				m.flash = "Copied: " + TruncateAddr(hash)
			}
		}
	}
	m.scroll()
	return m, nil
}

func (m traceTreeModel) currentHash() string {
	if m.cursor >= len(m.lines) {
		return ""
	}
	return m.lines[m.cursor].Hash
}

// scroll keeps the cursor inside the visible window.
func (m *traceTreeModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m traceTreeModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.title)
	sb.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.lines))
	for i := m.offset; i < end; i++ {
		line := m.lines[i].Render()
		if i == m.cursor {
			sb.WriteString(StyleSelected.Render("›") + " " + line)
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	if m.flash != "" {
		sb.WriteString(StyleSuccess.Render("  ✓ " + m.flash))
	} else {
		sb.WriteString(StyleMeta.Render(fmt.Sprintf("%d/%d  ", m.cursor+1, len(m.lines))))
		sb.WriteString(controls(
			[2]string{"↑↓", "navigate"},
			[2]string{"f", "first failure"},
			[2]string{"o", "open"},
			[2]string{"c", "copy hash"},
			[2]string{"q", "quit"},
		))
	}
	sb.WriteString("\n")
	return sb.String()
}

// RunTraceTree starts the interactive trace browser. txURL builds the
// explorer link for a transaction hash.
func RunTraceTree(title string, root *ton.TraceNode, txURL func(string) string) error {
	p := tea.NewProgram(newTraceTreeModel(title, root, txURL),
		tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
