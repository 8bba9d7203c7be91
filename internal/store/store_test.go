package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typedesk/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "typedesk.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}

func testResult(textID, subjectID string, wpm int, marks float64, at time.Time) model.Result {
	return model.Result{
		TextID:       textID,
		SubjectID:    subjectID,
		SubjectLabel: subjectID,
		TextContent:  "The quick brown fox.",
		TypedContent: "The quikc brown",
		Duration:     60,
		WPM:          wpm,
		Accuracy:     90,
		ErrorCount:   2,
		WrongWords:   1,
		MissingWords: 1,
		Marks:        marks,
		TotalMarks:   40,
		ErrorDetails: []model.WordDiff{
			{Index: 1, Expected: "quick", Typed: "quikc", Status: model.WordWrong},
			{Index: 3, Expected: "fox.", Status: model.WordMissing},
		},
		Trigger:    model.TriggerSubmitted,
		FinishedAt: at,
	}
}

func TestInsertAndGetResult(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	id, err := st.InsertResult(ctx, testResult("t1", "english_30", 30, 39, at))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	rec, err := st.GetResult(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.ID != id || rec.SubjectID != "english_30" || rec.Marks != 39 || rec.Trigger != model.TriggerSubmitted {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !rec.CompletedAt.Equal(at) {
		t.Fatalf("expected completed at %v, got %v", at, rec.CompletedAt)
	}
	if len(rec.ErrorDetails) != 2 || rec.ErrorDetails[0].Typed != "quikc" || rec.ErrorDetails[1].Status != model.WordMissing {
		t.Fatalf("unexpected word diffs: %+v", rec.ErrorDetails)
	}
}

func TestGetResultNotFound(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.GetResult(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertDuplicateTextID(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	r := testResult("dup", "english_30", 30, 40, time.Now())
	if _, err := st.InsertResult(ctx, r); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := st.InsertResult(ctx, r); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	n, err := st.CountResults(ctx, model.HistoryFilter{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 stored result, got %d", n)
	}
}

func TestListResultsNewestFirstAndPaged(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := []string{"a", "b", "c", "d", "e"}
	for i, id := range ids {
		subject := "english_30"
		if i%2 == 1 {
			subject = "hindi_30"
		}
		if _, err := st.InsertResult(ctx, testResult(id, subject, 20+i, 40, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	page1, err := st.ListResults(ctx, model.HistoryFilter{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page1) != 2 || page1[0].TextID != "e" || page1[1].TextID != "d" {
		t.Fatalf("unexpected first page: %+v", page1)
	}
	page3, err := st.ListResults(ctx, model.HistoryFilter{Page: 3, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page3) != 1 || page3[0].TextID != "a" {
		t.Fatalf("unexpected last page: %+v", page3)
	}
	empty, err := st.ListResults(ctx, model.HistoryFilter{Page: 9, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil page, got %#v", empty)
	}

	hindi, err := st.ListResults(ctx, model.HistoryFilter{SubjectID: "hindi_30", Limit: -1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(hindi) != 2 || hindi[0].TextID != "d" || hindi[1].TextID != "b" {
		t.Fatalf("unexpected subject filter result: %+v", hindi)
	}

	since := base.Add(150 * time.Minute)
	recent, err := st.ListResults(ctx, model.HistoryFilter{Since: &since, Limit: -1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 results since %v, got %d", since, len(recent))
	}
	n, err := st.CountResults(ctx, model.HistoryFilter{Since: &since})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected count 2, got %d", n)
	}
}

func TestSummary(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	empty, err := st.Summary(ctx, "")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if empty.TotalSessions != 0 || empty.AvgWPM != 0 || empty.BestWPM != 0 {
		t.Fatalf("expected zero summary, got %+v", empty)
	}

	now := time.Now()
	for i, r := range []model.Result{
		testResult("s1", "english_30", 20, 40, now),
		testResult("s2", "english_30", 40, 38, now.Add(time.Second)),
		testResult("s3", "marathi_30", 90, 10, now.Add(2*time.Second)),
	} {
		r.Duration = 1800
		if _, err := st.InsertResult(ctx, r); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	sum, err := st.Summary(ctx, "english_30")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalSessions != 2 || sum.AvgWPM != 30 || sum.BestWPM != 40 || sum.AvgMarks != 39 {
		t.Fatalf("unexpected subject summary: %+v", sum)
	}
	if sum.TotalSeconds != 3600 || sum.TotalHours != 1 {
		t.Fatalf("expected one hour practiced, got %+v", sum)
	}

	all, err := st.Summary(ctx, "")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if all.TotalSessions != 3 || all.BestWPM != 90 {
		t.Fatalf("unexpected overall summary: %+v", all)
	}
}

func TestMissedWords(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Now()
	for i, id := range []string{"m1", "m2", "m3"} {
		r := testResult(id, "english_30", 30, 39, now.Add(time.Duration(i)*time.Second))
		if id == "m3" {
			r.ErrorDetails = []model.WordDiff{
				{Index: 0, Expected: "The", Typed: "the", Status: model.WordWrong},
				{Index: 5, Typed: "extra", Status: model.WordExtra},
			}
		}
		if _, err := st.InsertResult(ctx, r); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	misses, err := st.MissedWords(ctx, 10, "", 10)
	if err != nil {
		t.Fatalf("missed words: %v", err)
	}
	if len(misses) != 3 {
		t.Fatalf("expected 3 missed words, got %+v", misses)
	}
	// fox. and quick tie on two misses and sort alphabetically.
	if misses[0].Word != "fox." || misses[0].Missing != 2 || misses[1].Word != "quick" || misses[1].Wrong != 2 {
		t.Fatalf("unexpected ordering: %+v", misses)
	}
	if misses[2].Word != "The" || misses[2].Total() != 1 {
		t.Fatalf("unexpected last entry: %+v", misses[2])
	}

	recent, err := st.MissedWords(ctx, 1, "", 10)
	if err != nil {
		t.Fatalf("missed words: %v", err)
	}
	if len(recent) != 1 || recent[0].Word != "The" {
		t.Fatalf("expected only the latest result, got %+v", recent)
	}
	if none, _ := st.MissedWords(ctx, 0, "", 10); none != nil {
		t.Fatalf("expected nil for empty window, got %+v", none)
	}
}
