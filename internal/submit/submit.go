// Package submit delivers finalized results to the practice API and the local
// store.
package submit

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/verte-zerg/typedesk/internal/model"
	"github.com/verte-zerg/typedesk/internal/store"
)

// Submitter accepts a finalized result.
type Submitter interface {
	Submit(ctx context.Context, r model.Result) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, r model.Result) error

// Submit calls f.
func (f SubmitterFunc) Submit(ctx context.Context, r model.Result) error {
	return f(ctx, r)
}

// StoreSubmitter persists results into the local SQLite store.
type StoreSubmitter struct {
	Store *store.Store
}

// Submit stores the result. A result that is already stored is not an error.
func (s StoreSubmitter) Submit(ctx context.Context, r model.Result) error {
	if _, err := s.Store.InsertResult(ctx, r); err != nil && !errors.Is(err, store.ErrDuplicate) {
		return fmt.Errorf("failed to save result locally: %w", err)
	}
	return nil
}

// Multi submits to every submitter in order and joins their errors.
type Multi []Submitter

// Submit fans r out to every submitter.
func (m Multi) Submit(ctx context.Context, r model.Result) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Submit(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Deliver submits r once. Failures are logged and returned for display, but
// the result is always handed back so the caller can show it.
func Deliver(ctx context.Context, log *zap.Logger, s Submitter, r model.Result) (model.Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if s == nil {
		return r, nil
	}
	fields := []zap.Field{
		zap.String("text_id", r.TextID),
		zap.String("subject", r.SubjectID),
		zap.String("trigger", string(r.Trigger)),
	}
	if err := s.Submit(ctx, r); err != nil {
		log.Warn("result submission failed", append(fields, zap.Error(err))...)
		return r, err
	}
	log.Info("result submitted", append(fields, zap.Int("wpm", r.WPM), zap.Float64("marks", r.Marks))...)
	return r, nil
}
