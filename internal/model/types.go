// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Language selects the word list and script of a passage.
type Language string

// Supported languages.
const (
	English Language = "english"
	Marathi Language = "marathi"
	Hindi   Language = "hindi"
)

// ErrUnknownSubject is returned when a subject id is not in the catalog.
var ErrUnknownSubject = errors.New("unknown subject")

// Languages lists the supported languages in display order.
func Languages() []Language {
	return []Language{English, Marathi, Hindi}
}

// ParseLanguage normalizes a language name or short code.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "english", "en":
		return English, nil
	case "marathi", "mr":
		return Marathi, nil
	case "hindi", "hi":
		return Hindi, nil
	default:
		return "", fmt.Errorf("unknown language %q (expected english, marathi or hindi)", s)
	}
}

// Devanagari reports whether the language is written in Devanagari script.
func (l Language) Devanagari() bool {
	return l == Marathi || l == Hindi
}

// Terminator returns the sentence terminator for the language's script.
func (l Language) Terminator() string {
	if l.Devanagari() {
		return "।"
	}
	return "."
}

// Label returns a capitalized display name.
func (l Language) Label() string {
	s := string(l)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Passage is the immutable reference text of one session.
type Passage struct {
	ID        string
	Language  Language
	WordCount int
	Text      string
}

// Trigger records why a session was finalized.
type Trigger string

// Finalization triggers.
const (
	TriggerCompleted Trigger = "completed"
	TriggerSubmitted Trigger = "submitted"
	TriggerExpired   Trigger = "expired"
)

// WordStatus classifies one word position of the final comparison.
type WordStatus string

// Word statuses.
const (
	WordCorrect WordStatus = "correct"
	WordWrong   WordStatus = "wrong"
	WordMissing WordStatus = "missing"
	WordExtra   WordStatus = "extra"
)

// WordDiff is the comparison outcome for one word position.
type WordDiff struct {
	Index    int        `json:"index"`
	Expected string     `json:"expected,omitempty"`
	Typed    string     `json:"typed,omitempty"`
	Status   WordStatus `json:"status"`
}

// Live holds the interim metrics recomputed after every input change.
type Live struct {
	ErrorCount int
	Accuracy   int
	WPM        int
}

// Result is the finalized record of a practice session.
type Result struct {
	TextID       string     `json:"textId"`
	SubjectID    string     `json:"subjectId"`
	SubjectLabel string     `json:"subjectLabel"`
	TextContent  string     `json:"textContent"`
	TypedContent string     `json:"typedContent"`
	Duration     int        `json:"duration"`
	WPM          int        `json:"wpm"`
	Accuracy     int        `json:"accuracy"`
	ErrorCount   int        `json:"errorCount"`
	WrongWords   int        `json:"wrongWords"`
	MissingWords int        `json:"missingWords"`
	ExtraWords   int        `json:"extraWords"`
	Marks        float64    `json:"marks"`
	TotalMarks   int        `json:"totalMarks"`
	ErrorDetails []WordDiff `json:"errorDetails"`

	Trigger    Trigger   `json:"-"`
	FinishedAt time.Time `json:"-"`
}

// HistoryFilter narrows stored results.
type HistoryFilter struct {
	SubjectID string
	Since     *time.Time
	Page      int
	Limit     int
}

// Summary aggregates stored results.
type Summary struct {
	TotalSessions int     `json:"totalSessions"`
	AvgWPM        float64 `json:"avgWpm"`
	BestWPM       int     `json:"bestWpm"`
	AvgAccuracy   float64 `json:"avgAccuracy"`
	AvgErrors     float64 `json:"avgErrors"`
	AvgMarks      float64 `json:"avgMarks"`
	TotalSeconds  int64   `json:"totalSeconds"`
	TotalHours    float64 `json:"totalHours"`
}

// Record is a stored result.
type Record struct {
	ID          int64     `json:"id"`
	CompletedAt time.Time `json:"completedAt"`
	Result
}

// WordMiss aggregates how often an expected word was mistyped or skipped.
type WordMiss struct {
	Word    string `json:"word"`
	Wrong   int    `json:"wrong"`
	Missing int    `json:"missing"`
}

// Total returns all misses of the word.
func (w WordMiss) Total() int {
	return w.Wrong + w.Missing
}
