package content

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

type lineKind int

const (
	lineText lineKind = iota
	lineHeading
	lineItem
	lineSubtle
	lineBlank
)

type line struct {
	kind lineKind
	text string
}

// document is a scrollable block of styled text with an optional letter
// reveal. About, Skills and plain text panels are documents.
type document struct {
	id     int
	lines  []line
	reveal reveal
	vp     viewport.Model
	width  int
}

func newDocument(lines []line, animate bool) *document {
	id := nextID()
	d := &document{id: id, lines: lines, vp: viewport.New(0, 0)}
	d.reveal = newReveal(id, animate, d.letters())
	return d
}

func (d *document) letters() int {
	n := 0
	for _, l := range d.lines {
		n += Letters(l.text)
		if l.kind == lineItem {
			n++ // bullet
		}
	}
	return n
}

func (d *document) Init() tea.Cmd {
	return d.reveal.tick()
}

func (d *document) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if ok, cmd := d.reveal.update(msg); ok {
		return d, cmd
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", " ":
			d.reveal.skip()
			return d, nil
		}
	}
	var cmd tea.Cmd
	d.vp, cmd = d.vp.Update(msg)
	return d, cmd
}

// render wraps every line to width and styles it. Masking happens after
// wrapping so hidden letters never change where lines break.
func (d *document) render(width int) []string {
	if width <= 0 {
		return nil
	}
	var rows []line
	for _, l := range d.lines {
		if l.kind == lineBlank {
			rows = append(rows, l)
			continue
		}
		text := l.text
		if l.kind == lineItem {
			text = "• " + text
		}
		for i, row := range strings.Split(ansi.Wordwrap(text, width, ""), "\n") {
			if i > 0 && l.kind == lineItem {
				row = "  " + strings.TrimLeft(row, " ")
			}
			rows = append(rows, line{kind: l.kind, text: row})
		}
	}

	plain := make([]string, len(rows))
	for i, r := range rows {
		plain[i] = r.text
	}
	masked := strings.Split(d.reveal.mask(strings.Join(plain, "\n")), "\n")
	for i := range masked {
		masked[i] = styleLine(rows[i].kind, masked[i])
	}
	return masked
}

func styleLine(kind lineKind, s string) string {
	switch kind {
	case lineHeading:
		return headingStyle.Render(s)
	case lineItem:
		return accentStyle.Render(s)
	case lineSubtle:
		return subtleStyle.Render(s)
	default:
		return s
	}
}

func (d *document) Height(width int) int {
	return len(d.render(width))
}

func (d *document) View(width, height int) string {
	d.vp.Width = width
	d.vp.Height = height
	d.vp.SetContent(strings.Join(d.render(width), "\n"))
	return fit(d.vp.View(), width, height)
}

func textLines(s string) []line {
	var lines []line
	for _, row := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		if strings.TrimSpace(row) == "" {
			lines = append(lines, line{kind: lineBlank})
			continue
		}
		lines = append(lines, line{kind: lineText, text: row})
	}
	return lines
}

// NewText is a panel showing plain text.
func NewText(s string, animate bool) Panel {
	return newDocument(textLines(s), animate)
}
