package metrics

import "testing"

func TestCharErrors(t *testing.T) {
	tests := []struct {
		name    string
		passage string
		typed   string
		want    int
	}{
		{name: "empty", passage: "abc", typed: "", want: 0},
		{name: "exact prefix", passage: "The quick", typed: "The q", want: 0},
		{name: "transposed letters", passage: "The quick brown fox", typed: "The quikc brown fox", want: 2},
		{name: "overflow counts", passage: "ab", typed: "abcd", want: 2},
		{name: "devanagari by code point", passage: "घर आज।", typed: "घर आन।", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CharErrors([]rune(tt.passage), []rune(tt.typed))
			if got != tt.want {
				t.Fatalf("CharErrors(%q, %q) = %d, want %d", tt.passage, tt.typed, got, tt.want)
			}
		})
	}
}

func TestAccuracy(t *testing.T) {
	if got := Accuracy(0, 0); got != 100 {
		t.Fatalf("expected 100 for empty input, got %d", got)
	}
	if got := Accuracy(19, 2); got != 89 {
		t.Fatalf("expected 89, got %d", got)
	}
	// 7/8 = 87.5 rounds half up.
	if got := Accuracy(8, 1); got != 88 {
		t.Fatalf("expected 88, got %d", got)
	}
	if got := Accuracy(5, 5); got != 0 {
		t.Fatalf("expected 0 when every character is wrong, got %d", got)
	}
}

func TestGrossWPM(t *testing.T) {
	if got := GrossWPM(100, 0); got != 0 {
		t.Fatalf("expected 0 with no elapsed time, got %d", got)
	}
	if got := GrossWPM(250, 60); got != 50 {
		t.Fatalf("expected 50, got %d", got)
	}
	if got := GrossWPM(19, 30); got != 8 {
		t.Fatalf("expected 8 (7.6 rounded), got %d", got)
	}
}

func TestRecompute(t *testing.T) {
	live := Recompute("The quick brown fox", "The quikc", 6)
	if live.ErrorCount != 2 {
		t.Fatalf("expected 2 errors, got %d", live.ErrorCount)
	}
	if live.Accuracy != 78 {
		t.Fatalf("expected 78%% accuracy, got %d", live.Accuracy)
	}
	if live.WPM != 18 {
		t.Fatalf("expected 18 wpm, got %d", live.WPM)
	}
	empty := Recompute("abc", "", 0)
	if empty.Accuracy != 100 || empty.WPM != 0 || empty.ErrorCount != 0 {
		t.Fatalf("unexpected metrics for empty input: %+v", empty)
	}
}
