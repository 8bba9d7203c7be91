package submit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verte-zerg/typedesk/internal/model"
	"github.com/verte-zerg/typedesk/internal/store"
)

func sampleResult() model.Result {
	return model.Result{
		TextID:       "6b1f0d1e-0000-4000-8000-000000000001",
		SubjectID:    "english_30",
		SubjectLabel: "English 30 WPM",
		TextContent:  "The quick brown fox.",
		TypedContent: "The quikc brown fox.",
		Duration:     12,
		WPM:          33,
		Accuracy:     90,
		ErrorCount:   2,
		WrongWords:   1,
		Marks:        39.5,
		TotalMarks:   40,
		ErrorDetails: []model.WordDiff{{Index: 1, Expected: "quick", Typed: "quikc", Status: model.WordWrong}},
		Trigger:      model.TriggerCompleted,
		FinishedAt:   time.Now(),
	}
}

func TestClientSubmitPostsResult(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/practice/submit", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret", time.Second)
	require.NoError(t, c.Submit(context.Background(), sampleResult()))

	assert.Equal(t, "english_30", got["subjectId"])
	assert.Equal(t, 39.5, got["marks"])
	assert.Equal(t, float64(40), got["totalMarks"])
	assert.NotContains(t, got, "Trigger")
	assert.NotContains(t, got, "FinishedAt")
	details, ok := got["errorDetails"].([]any)
	require.True(t, ok)
	assert.Len(t, details, 1)
}

func TestClientSubmitSendsEmptyErrorDetails(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	r := sampleResult()
	r.ErrorDetails = nil
	require.NoError(t, NewClient(srv.URL, "", time.Second).Submit(context.Background(), r))
	assert.Equal(t, "[]", string(raw["errorDetails"]))
}

func TestClientUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"UNAUTHORIZED","message":"missing bearer token","status":401}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "", time.Second).Submit(context.Background(), sampleResult())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Contains(t, err.Error(), "missing bearer token")
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "", time.Second).Submit(context.Background(), sampleResult())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestClientTruncatedErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "", time.Second).Submit(context.Background(), sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read error response")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, ErrUnauthorized)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestClientReadEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/practice/stats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalSessions":3,"avgWpm":31.5,"bestWpm":44,"avgAccuracy":92,"totalHours":0.5}`))
	})
	mux.HandleFunc("/api/practice/history", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"data":[{"id":7,"textId":"abc","wpm":40,"completedAt":"2024-03-01T10:00:00Z"}],"page":2,"limit":5,"total":6}`))
	})
	mux.HandleFunc("/api/practice/history/abc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":7,"textId":"abc","marks":38.5,"errorDetails":[{"index":0,"expected":"The","status":"missing"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL, "t", time.Second)
	ctx := context.Background()

	sum, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalSessions)
	assert.Equal(t, 44, sum.BestWPM)

	page, err := c.History(ctx, 2, 5)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(7), page.Data[0].ID)
	assert.Equal(t, "abc", page.Data[0].TextID)
	assert.Equal(t, 6, page.Total)
	assert.Equal(t, 2024, page.Data[0].CompletedAt.Year())

	rec, err := c.Detail(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 38.5, rec.Marks)
	require.Len(t, rec.ErrorDetails, 1)
	assert.Equal(t, model.WordMissing, rec.ErrorDetails[0].Status)
}

func TestStoreSubmitterIgnoresDuplicates(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "typedesk.db"))
	require.NoError(t, err)
	defer st.Close()

	s := StoreSubmitter{Store: st}
	r := sampleResult()
	require.NoError(t, s.Submit(context.Background(), r))
	require.NoError(t, s.Submit(context.Background(), r))

	rec, err := st.GetResult(context.Background(), r.TextID)
	require.NoError(t, err)
	assert.Equal(t, r.Marks, rec.Marks)
}

func TestMultiJoinsErrors(t *testing.T) {
	var calls []string
	first := errors.New("first down")
	m := Multi{
		SubmitterFunc(func(ctx context.Context, r model.Result) error {
			calls = append(calls, "a")
			return first
		}),
		nil,
		SubmitterFunc(func(ctx context.Context, r model.Result) error {
			calls = append(calls, "b")
			return nil
		}),
	}
	err := m.Submit(context.Background(), sampleResult())
	assert.ErrorIs(t, err, first)
	assert.Equal(t, []string{"a", "b"}, calls)

	assert.NoError(t, Multi{}.Submit(context.Background(), sampleResult()))
}

func TestDeliverLogsAndReturnsResultOnFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)
	failing := SubmitterFunc(func(ctx context.Context, r model.Result) error {
		return errors.New("network down")
	})

	r := sampleResult()
	got, err := Deliver(context.Background(), log, failing, r)
	require.Error(t, err)
	assert.Equal(t, r.TextID, got.TextID)
	assert.Equal(t, r.Marks, got.Marks)

	entries := logs.FilterMessage("result submission failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "english_30", entries[0].ContextMap()["subject"])

	got, err = Deliver(context.Background(), nil, nil, r)
	assert.NoError(t, err)
	assert.Equal(t, r.TextID, got.TextID)
}
