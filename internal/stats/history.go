package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/typedesk/internal/model"
)

const dateLayout = "2006-01-02 15:04"

// RenderHistory prints one row per stored result.
func RenderHistory(w io.Writer, records []model.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	headers := []string{"Date", "Subject", "WPM", "Accuracy", "Errors", "Marks", "Time", "Ended"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		label := r.SubjectLabel
		if label == "" {
			label = r.SubjectID
		}
		rows = append(rows, []string{
			r.CompletedAt.Local().Format(dateLayout),
			label,
			strconv.Itoa(r.WPM),
			fmt.Sprintf("%d%%", r.Accuracy),
			strconv.Itoa(r.ErrorCount),
			fmt.Sprintf("%.1f/%d", r.Marks, r.TotalMarks),
			FormatDuration(r.Duration),
			string(r.Trigger),
		})
	}
	return writeTable(w, "History", headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true})
}

// RenderWordDiff prints the word-by-word review of one result.
func RenderWordDiff(w io.Writer, r model.Result) error {
	if len(r.ErrorDetails) == 0 {
		_, err := fmt.Fprintln(w, "No word errors.")
		return err
	}
	headers := []string{"#", "Expected", "Typed", "Status"}
	rows := make([][]string, 0, len(r.ErrorDetails))
	for _, d := range r.ErrorDetails {
		expected, typed := d.Expected, d.Typed
		if expected == "" {
			expected = "-"
		}
		if typed == "" {
			typed = "-"
		}
		rows = append(rows, []string{strconv.Itoa(d.Index + 1), expected, typed, string(d.Status)})
	}
	title := fmt.Sprintf("Word Review (%d wrong, %d missing, %d extra)", r.WrongWords, r.MissingWords, r.ExtraWords)
	return writeTable(w, title, headers, rows, map[int]bool{0: true})
}

// RenderMissedWords prints the most frequently mistyped or skipped words.
func RenderMissedWords(w io.Writer, misses []model.WordMiss) error {
	if len(misses) == 0 {
		return nil
	}
	headers := []string{"Word", "Wrong", "Missing", "Total"}
	rows := make([][]string, 0, len(misses))
	for _, m := range misses {
		rows = append(rows, []string{m.Word, strconv.Itoa(m.Wrong), strconv.Itoa(m.Missing), strconv.Itoa(m.Total())})
	}
	return writeTable(w, "Most Missed Words", headers, rows, map[int]bool{1: true, 2: true, 3: true})
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
