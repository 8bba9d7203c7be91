// Package metrics computes live typing metrics.
package metrics

import (
	"math"

	"github.com/verte-zerg/typedesk/internal/model"
)

// CharsPerWord is the gross-WPM word size, spaces included.
const CharsPerWord = 5

// CharErrors counts positions where typed differs from passage. Characters
// typed past the end of the passage are errors.
func CharErrors(passage, typed []rune) int {
	errs := 0
	for i, r := range typed {
		if i >= len(passage) || passage[i] != r {
			errs++
		}
	}
	return errs
}

// Accuracy returns the rounded percentage of correct characters, or 100 when
// nothing has been typed.
func Accuracy(typedLen, errors int) int {
	if typedLen <= 0 {
		return 100
	}
	return roundHalfUp(float64(typedLen-errors) / float64(typedLen) * 100)
}

// GrossWPM returns (typedLen / 5) per elapsed minute, or 0 when no time has
// elapsed.
func GrossWPM(typedLen, elapsedSeconds int) int {
	if elapsedSeconds <= 0 {
		return 0
	}
	minutes := float64(elapsedSeconds) / 60.0
	return roundHalfUp(float64(typedLen) / CharsPerWord / minutes)
}

// Recompute derives the live metrics for the text typed so far.
func Recompute(passage, typed string, elapsedSeconds int) model.Live {
	return RecomputeRunes([]rune(passage), []rune(typed), elapsedSeconds)
}

// RecomputeRunes is Recompute for callers that already hold rune slices.
func RecomputeRunes(passage, typed []rune, elapsedSeconds int) model.Live {
	errs := CharErrors(passage, typed)
	return model.Live{
		ErrorCount: errs,
		Accuracy:   Accuracy(len(typed), errs),
		WPM:        GrossWPM(len(typed), elapsedSeconds),
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
