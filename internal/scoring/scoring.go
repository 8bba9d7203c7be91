// Package scoring compares the final input against the passage and assigns
// marks.
package scoring

import (
	"strings"
	"time"

	"github.com/verte-zerg/typedesk/internal/metrics"
	"github.com/verte-zerg/typedesk/internal/model"
)

const (
	// TotalMarks is the mark ceiling of every session.
	TotalMarks = 40
	// Deduction is subtracted per wrong or missing word.
	Deduction = 0.5
)

// Comparison is the word-level outcome of a session.
type Comparison struct {
	Words   []model.WordDiff
	Wrong   int
	Missing int
	Extra   int
}

// Errors returns the non-correct word diffs in position order.
func (c Comparison) Errors() []model.WordDiff {
	out := make([]model.WordDiff, 0, c.Wrong+c.Missing+c.Extra)
	for _, w := range c.Words {
		if w.Status != model.WordCorrect {
			out = append(out, w)
		}
	}
	return out
}

// CompareWords aligns passage and typed tokens by index. Tokens are split on
// whitespace runs and compared literally, so case and punctuation matter.
func CompareWords(passage, typed string) Comparison {
	passageWords := strings.Fields(passage)
	inputWords := strings.Fields(typed)

	n := len(passageWords)
	if len(inputWords) > n {
		n = len(inputWords)
	}
	cmp := Comparison{Words: make([]model.WordDiff, 0, n)}
	for i, expected := range passageWords {
		diff := model.WordDiff{Index: i, Expected: expected}
		switch {
		case i >= len(inputWords):
			diff.Status = model.WordMissing
			cmp.Missing++
		case inputWords[i] != expected:
			diff.Typed = inputWords[i]
			diff.Status = model.WordWrong
			cmp.Wrong++
		default:
			diff.Typed = inputWords[i]
			diff.Status = model.WordCorrect
		}
		cmp.Words = append(cmp.Words, diff)
	}
	for i := len(passageWords); i < len(inputWords); i++ {
		cmp.Words = append(cmp.Words, model.WordDiff{Index: i, Typed: inputWords[i], Status: model.WordExtra})
		cmp.Extra++
	}
	return cmp
}

// Marks deducts half a mark per wrong or missing word from 40, floored at 0.
// Extra words are not penalized.
func Marks(wrong, missing int) float64 {
	marks := TotalMarks - Deduction*float64(wrong+missing)
	if marks < 0 {
		return 0
	}
	return marks
}

// Input is everything needed to finalize a session.
type Input struct {
	TextID         string
	Subject        model.Subject
	Passage        string
	Typed          string
	ElapsedSeconds int
	Trigger        model.Trigger
	FinishedAt     time.Time
}

// Score builds the result record. The duration is floored at one second so the
// WPM denominator is never zero.
func Score(in Input) model.Result {
	duration := in.ElapsedSeconds
	if duration < 1 {
		duration = 1
	}
	passageRunes := []rune(in.Passage)
	typedRunes := []rune(in.Typed)
	errs := metrics.CharErrors(passageRunes, typedRunes)
	cmp := CompareWords(in.Passage, in.Typed)

	finishedAt := in.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}
	return model.Result{
		TextID:       in.TextID,
		SubjectID:    in.Subject.ID,
		SubjectLabel: in.Subject.Label,
		TextContent:  in.Passage,
		TypedContent: in.Typed,
		Duration:     duration,
		WPM:          metrics.GrossWPM(len(typedRunes), duration),
		Accuracy:     metrics.Accuracy(len(typedRunes), errs),
		ErrorCount:   errs,
		WrongWords:   cmp.Wrong,
		MissingWords: cmp.Missing,
		ExtraWords:   cmp.Extra,
		Marks:        Marks(cmp.Wrong, cmp.Missing),
		TotalMarks:   TotalMarks,
		ErrorDetails: cmp.Errors(),
		Trigger:      in.Trigger,
		FinishedAt:   finishedAt,
	}
}
