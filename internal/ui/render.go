package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"

	"github.com/kajmany/bytebeat/internal/library"
)

var (
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

// Draw renders the current state to screen. It is a single best-effort
// text layout, not a widget framework: column/row math is simple enough
// that pulling in a full TUI layout engine for it would cost more than it
// saves.
func (a *App) Draw(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()

	switch a.View {
	case ViewMain:
		a.drawMain(screen, width, height)
	case ViewBigLog:
		a.drawLog(screen, width, height)
	case ViewLibrary:
		a.drawLibrary(screen, width, height)
	}

	if a.ShowHelp {
		a.drawHelp(screen, width, height)
	}

	screen.Show()
}

func putLine(screen tcell.Screen, row int, style lipgloss.Style, text string) {
	rendered := style.Render(text)
	for col, r := range stripANSI(rendered) {
		screen.SetContent(col, row, r, nil, tcell.StyleDefault)
	}
}

// stripANSI removes the escape sequences lipgloss emits when the output
// profile detects color support, so that no escape byte reaches SetContent
// as a cell of its own. A sequence runs from ESC to its first letter.
func stripANSI(s string) []rune {
	out := make([]rune, 0, len(s))
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			out = append(out, r)
		}
	}
	return out
}

func (a *App) drawMain(screen tcell.Screen, width, height int) {
	putLine(screen, 0, lipgloss.NewStyle(), "> "+a.Editor.String())

	if a.Errors != "" {
		row := 2
		for _, line := range strings.Split(a.Errors, "\n") {
			if row >= height-2 {
				break
			}
			putLine(screen, row, errorStyle, line)
			row++
		}
	}

	window := ScopeWindow(a.Scope, width)
	var row strings.Builder
	for _, sample := range window {
		row.WriteString(scopeGlyph(int(sample) * 8 / 256))
	}
	putLine(screen, height-2, dimStyle, row.String())

	a.drawStatus(screen, width, height)
}

func scopeGlyph(level int) string {
	glyphs := []rune(" ▁▂▃▄▅▆▇█")
	if level < 0 {
		level = 0
	}
	if level >= len(glyphs) {
		level = len(glyphs) - 1
	}
	return string(glyphs[level])
}

func (a *App) drawLog(screen tcell.Screen, width, height int) {
	start := 0
	if len(a.LogLines) > height {
		start = len(a.LogLines) - height
	}
	for i, line := range a.LogLines[start:] {
		putLine(screen, i, lipgloss.NewStyle(), line)
	}
}

// libraryKeyChar is the inverse of libraryKeyIndex: the key a user presses
// to jump straight to row i of the current page.
func libraryKeyChar(i int) rune {
	switch {
	case i < 10:
		return rune('0' + i)
	case i < 36:
		return rune('a' + i - 10)
	case i < 62:
		return rune('A' + i - 36)
	default:
		return '?'
	}
}

func (a *App) drawLibrary(screen tcell.Screen, width, height int) {
	rows := library.Page(a.Library.Page*a.Library.PageSize, a.Library.PageSize)
	for i, song := range rows {
		style := lipgloss.NewStyle()
		if i == a.Library.Selected {
			style = selectedStyle
		}
		putLine(screen, i, style, fmt.Sprintf("%c  %s — %s (%s)", libraryKeyChar(i), song.Name, song.Description, song.Author))
	}
}

func (a *App) drawStatus(screen tcell.Screen, width, height int) {
	status := fmt.Sprintf("[%s] vol %s", a.Status, a.Volume)
	putLine(screen, height-1, dimStyle, status)
}

func (a *App) drawHelp(screen tcell.Screen, width, height int) {
	lines := []string{
		"F1 help  F2 log  F3 quit  F4 play/pause  F5 library  Esc back",
		"Up/Down volume   Enter compile   Left/Right edit cursor",
	}
	row := height/2 - len(lines)/2
	for _, line := range lines {
		putLine(screen, row, lipgloss.NewStyle().Bold(true), line)
		row++
	}
}
