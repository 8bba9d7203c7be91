// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/typedesk/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summarize aggregates results the same way the store does.
func Summarize(results []model.Result) model.Summary {
	var sum model.Summary
	if len(results) == 0 {
		return sum
	}
	var wpm, acc, errs, marks float64
	for _, r := range results {
		wpm += float64(r.WPM)
		acc += float64(r.Accuracy)
		errs += float64(r.ErrorCount)
		marks += r.Marks
		if r.WPM > sum.BestWPM {
			sum.BestWPM = r.WPM
		}
		sum.TotalSeconds += int64(r.Duration)
	}
	n := float64(len(results))
	sum.TotalSessions = len(results)
	sum.AvgWPM = wpm / n
	sum.AvgAccuracy = acc / n
	sum.AvgErrors = errs / n
	sum.AvgMarks = marks / n
	sum.TotalHours = float64(sum.TotalSeconds) / 3600
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample shrinks values to at most width points by averaging buckets.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// RenderSummary prints the aggregate stats.
func RenderSummary(w io.Writer, sum model.Summary) error {
	if sum.TotalSessions == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", sum.TotalSessions),
		fmt.Sprintf("Avg WPM: %.1f", sum.AvgWPM),
		fmt.Sprintf("Best WPM: %d", sum.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", sum.AvgAccuracy),
		fmt.Sprintf("Avg Errors: %.1f", sum.AvgErrors),
		fmt.Sprintf("Avg Marks: %.1f/40", sum.AvgMarks),
		fmt.Sprintf("Practice Time: %.1fh", sum.TotalHours),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints smoothed WPM, accuracy and marks sparklines for results
// in chronological order. A width of 0 leaves the series unsampled.
func RenderCurves(w io.Writer, results []model.Result, window, width int) error {
	if len(results) == 0 {
		return nil
	}
	wpms := make([]float64, len(results))
	accs := make([]float64, len(results))
	marks := make([]float64, len(results))
	for i, r := range results {
		wpms[i] = float64(r.WPM)
		accs[i] = float64(r.Accuracy)
		marks[i] = r.Marks
	}
	series := []struct {
		name   string
		values []float64
	}{
		{"WPM", wpms},
		{"Accuracy", accs},
		{"Marks", marks},
	}

	const labelWidth = 9
	lineWidth := 0
	if width > 0 {
		lineWidth = width - labelWidth - 24
		if lineWidth < 10 {
			lineWidth = 10
		}
	}
	if _, err := fmt.Fprintln(w, "Learning Curves"); err != nil {
		return err
	}
	for _, s := range series {
		values := Resample(MovingAverage(s.values, window), lineWidth)
		lo, hi := minMax(values)
		if _, err := fmt.Fprintf(w, "%-*s%s  min=%.1f max=%.1f\n", labelWidth, s.name, Sparkline(values), lo, hi); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
