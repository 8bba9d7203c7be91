package stats

import (
	"context"
	"io"
	"time"

	"github.com/verte-zerg/typedesk/internal/model"
	"github.com/verte-zerg/typedesk/internal/store"
)

// ReportConfig selects the results included in a report.
type ReportConfig struct {
	SubjectID string
	Since     *time.Time
	// Last keeps only the most recent results; 0 keeps all.
	Last int
	// CurveWindow is the moving average window of the learning curves.
	CurveWindow int
	// MissedTop limits the missed words table.
	MissedTop int
}

// Report contains precomputed data for stats rendering.
type Report struct {
	// Records are newest first.
	Records []model.Record
	Summary model.Summary
	Missed  []model.WordMiss
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg ReportConfig) (Report, error) {
	limit := -1
	if cfg.Last > 0 {
		limit = cfg.Last
	}
	records, err := st.ListResults(ctx, model.HistoryFilter{
		SubjectID: cfg.SubjectID,
		Since:     cfg.Since,
		Page:      1,
		Limit:     limit,
	})
	if err != nil {
		return Report{}, err
	}
	missed, err := st.MissedWords(ctx, len(records), cfg.SubjectID, cfg.MissedTop)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Records: records,
		Summary: Summarize(results(records)),
		Missed:  missed,
	}, nil
}

// Chronological returns the results oldest first.
func (r Report) Chronological() []model.Result {
	out := make([]model.Result, len(r.Records))
	for i, rec := range r.Records {
		out[len(r.Records)-1-i] = rec.Result
	}
	return out
}

// Render prints the summary, curves, history table and missed words.
func (r Report) Render(w io.Writer, window, width int) error {
	if err := RenderSummary(w, r.Summary); err != nil {
		return err
	}
	if len(r.Records) == 0 {
		return nil
	}
	if err := RenderCurves(w, r.Chronological(), window, width); err != nil {
		return err
	}
	if err := RenderHistory(w, r.Records); err != nil {
		return err
	}
	return RenderMissedWords(w, r.Missed)
}

func results(records []model.Record) []model.Result {
	out := make([]model.Result, len(records))
	for i, rec := range records {
		out[i] = rec.Result
	}
	return out
}
