package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const wrongSpaceMark = '·'

// cell is one rendered rune of the passage.
type cell struct {
	s       string
	width   int
	isSpace bool
}

// styleCells renders the passage against the typed input. Input typed beyond
// the end of the passage is appended as incorrect cells.
func styleCells(target, input []rune) []cell {
	cursor := len(input)
	if cursor >= len(target) {
		cursor = -1
	}
	current := wordAt(findWords(target), cursor)

	widths := displayWidths(target)
	out := make([]cell, 0, len(target))
	for i, want := range target {
		shown := want
		style := pendingStyle
		switch {
		case i < len(input) && want == ' ' && input[i] != ' ':
			shown = wrongSpaceMark
			style = incorrectStyle
		case i < len(input) && input[i] == want:
			style = correctStyle
		case i < len(input):
			style = incorrectStyle
		case want != ' ' && current != nil && current.contains(i):
			style = currentWordStyle
		}
		if i == cursor {
			style = style.Underline(true)
		}
		out = append(out, newCell(style.Render(string(shown)), widths[i], want == ' '))
	}
	if len(input) > len(target) {
		extra := input[len(target):]
		for i, w := range displayWidths(extra) {
			out = append(out, newCell(incorrectStyle.Render(string(extra[i])), w, extra[i] == ' '))
		}
	}
	return out
}

func newCell(s string, width int, isSpace bool) cell {
	return cell{s: s, width: width, isSpace: isSpace}
}

// displayWidths assigns each rune its share of the word's rendered width.
// Runes that join the previous grapheme cluster, such as a virama or a
// vowel sign, get width 0.
func displayWidths(rs []rune) []int {
	widths := make([]int, len(rs))
	start := 0
	for start < len(rs) {
		if rs[start] == ' ' {
			widths[start] = 1
			start++
			continue
		}
		end := start
		for end < len(rs) && rs[end] != ' ' {
			end++
		}
		prev := 0
		for j := start; j < end; j++ {
			w := runewidth.StringWidth(string(rs[start : j+1]))
			if w > prev {
				widths[j] = w - prev
				prev = w
			}
		}
		start = end
	}
	return widths
}

type wordRange struct {
	start int
	end   int
}

func (w wordRange) contains(i int) bool {
	return i >= w.start && i < w.end
}

func findWords(target []rune) []wordRange {
	var words []wordRange
	start := -1
	for i, r := range target {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(target)})
	}
	return words
}

// wordAt returns the word under the cursor, or the next word when the cursor
// sits on a space.
func wordAt(words []wordRange, cursor int) *wordRange {
	if cursor < 0 || len(words) == 0 {
		return nil
	}
	for i := range words {
		if cursor < words[i].end {
			return &words[i]
		}
	}
	return nil
}

func joinCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.s)
	}
	return b.String()
}

// wrapCells breaks cells into lines no wider than width, preferring the last
// space on the line. The space at a break is dropped.
func wrapCells(cells []cell, width int) string {
	if width <= 0 {
		return joinCells(cells)
	}
	var out strings.Builder
	line := make([]cell, 0, width)
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(cells); {
		c := cells[i]
		if lineWidth+c.width > width && len(line) > 0 {
			switch {
			case c.isSpace:
				out.WriteString(joinCells(line))
				line = line[:0]
				i++
			case lastSpace >= 0:
				out.WriteString(joinCells(line[:lastSpace]))
				line = append([]cell{}, line[lastSpace+1:]...)
			default:
				out.WriteString(joinCells(line))
				line = line[:0]
			}
			out.WriteByte('\n')
			lineWidth, lastSpace = measure(line)
			continue
		}
		line = append(line, c)
		lineWidth += c.width
		if c.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	out.WriteString(joinCells(line))
	return out.String()
}

func measure(line []cell) (width, lastSpace int) {
	lastSpace = -1
	for i, c := range line {
		width += c.width
		if c.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}
