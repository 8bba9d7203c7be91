package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/typedesk/internal/clock"
	"github.com/verte-zerg/typedesk/internal/model"
	"github.com/verte-zerg/typedesk/internal/session"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{snap: session.Snapshot{
		Passage:   "abcdefghij",
		Input:     "abc",
		Remaining: 410,
		State:     clock.Active,
		Live:      model.Live{ErrorCount: 2, Accuracy: 78, WPM: 18},
	}}
	out := m.renderFooter()
	if !containsAll(out, []string{"Time 6:50", "WPM 18", "Accuracy 78%", "Errors 2", "Progress 30%", "ctrl+s submit"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	if strings.Contains(out, "ctrl+r") {
		t.Fatalf("expected no regenerate hint once typing started: %s", out)
	}
}

func TestRenderFooterIdleOffersRegenerate(t *testing.T) {
	m := &Model{snap: session.Snapshot{Passage: "ab", Remaining: 420, State: clock.Idle, Live: model.Live{Accuracy: 100}}}
	out := m.renderFooter()
	if !containsAll(out, []string{"Time 7:00", "Accuracy 100%", "Progress 0%", "ctrl+r new passage"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
