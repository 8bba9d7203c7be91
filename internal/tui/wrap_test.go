package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestStyleCellsCursor(t *testing.T) {
	cells := styleCells([]rune("ab"), []rune("a"))
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if cells[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if cells[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected underlined current word style at cursor")
	}
}

func TestStyleCellsNoCursorWhenComplete(t *testing.T) {
	cells := styleCells([]rune("a"), []rune("a"))
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	if cells[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestStyleCellsKeepsTargetOnMistype(t *testing.T) {
	cells := styleCells([]rune("ab"), []rune("ax"))
	if cells[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style showing the expected rune")
	}
}

func TestStyleCellsWordHighlighting(t *testing.T) {
	cells := styleCells([]rune("one two"), []rune("o"))
	if cells[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped rune in current word")
	}
	if cells[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestStyleCellsCursorOnSpaceHighlightsNextWord(t *testing.T) {
	cells := styleCells([]rune("one two"), []rune("one"))
	if cells[3].s != pendingStyle.Underline(true).Render(" ") {
		t.Fatalf("expected underlined space at cursor")
	}
	if cells[4].s != currentWordStyle.Render("t") {
		t.Fatalf("expected next word to be current")
	}
}

func TestStyleCellsWrongSpaceMark(t *testing.T) {
	cells := styleCells([]rune("a b"), []rune("ax"))
	if cells[1].s != incorrectStyle.Render(string(wrongSpaceMark)) {
		t.Fatalf("expected mark for wrong space")
	}
	if !cells[1].isSpace {
		t.Fatalf("expected wrong space to stay a break point")
	}
}

func TestStyleCellsOverflow(t *testing.T) {
	cells := styleCells([]rune("ab"), []rune("abcd"))
	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(cells))
	}
	if cells[3].s != incorrectStyle.Render("d") {
		t.Fatalf("expected overflow rune to be incorrect")
	}
}

func TestStyleCellsDevanagariWidth(t *testing.T) {
	cells := styleCells([]rune("क्"), nil)
	if cells[0].width != 1 {
		t.Fatalf("expected consonant width 1, got %d", cells[0].width)
	}
	if cells[1].width != 0 {
		t.Fatalf("expected virama width 0, got %d", cells[1].width)
	}
}

func TestStyleCellsConjunctWidth(t *testing.T) {
	word := "क्षमा"
	cells := styleCells([]rune(word), nil)
	sum := 0
	for _, c := range cells {
		sum += c.width
	}
	if want := runewidth.StringWidth(word); sum != want {
		t.Fatalf("expected cell widths to sum to %d, got %d", want, sum)
	}
	if cells[1].width != 0 {
		t.Fatalf("expected virama width 0, got %d", cells[1].width)
	}
}

func TestStyleCellsOverflowWidth(t *testing.T) {
	cells := styleCells([]rune("a"), []rune("aक्"))
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(cells))
	}
	if cells[1].width != 1 || cells[2].width != 0 {
		t.Fatalf("expected overflow widths 1 and 0, got %d and %d", cells[1].width, cells[2].width)
	}
}

func TestWrapCellsDevanagariPassage(t *testing.T) {
	word := "क्षमा"
	text := strings.Repeat(word+" ", 3) + word
	width := 2*runewidth.StringWidth(word) + 1
	got := wrapCells(styleCells([]rune(text), nil), width)
	if n := strings.Count(got, "\n"); n != 1 {
		t.Fatalf("expected 1 line break at width %d, got %d", width, n)
	}
}

func TestWrapCellsExactFit(t *testing.T) {
	got := wrapCells(plainCells("ab cd ef"), 5)
	want := "ab cd\nef"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func plainCells(s string) []cell {
	out := make([]cell, 0, len(s))
	for _, r := range s {
		out = append(out, newCell(string(r), 1, r == ' '))
	}
	return out
}

func TestWrapCellsBreaksAtSpaces(t *testing.T) {
	got := wrapCells(plainCells("one two three four"), 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapCellsBreaksLongWords(t *testing.T) {
	got := wrapCells(plainCells("abcdefgh"), 3)
	want := "abc\ndef\ngh"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapCellsLinesFitWidth(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog and keeps running"
	for width := 4; width < 30; width++ {
		for _, line := range strings.Split(wrapCells(plainCells(text), width), "\n") {
			if len([]rune(line)) > width {
				t.Fatalf("width %d: line %q too long", width, line)
			}
		}
	}
}

func TestWrapCellsZeroWidth(t *testing.T) {
	if got := wrapCells(plainCells("a b"), 0); got != "a b" {
		t.Fatalf("expected unwrapped text, got %q", got)
	}
}
