package model

import "fmt"

// WordsPerTargetWPM converts a target speed into a passage length.
const WordsPerTargetWPM = 7

// Subject is a practice course: a language at a target speed.
type Subject struct {
	ID        string
	Label     string
	Language  Language
	TargetWPM int
}

// WordCount returns the passage length for the subject.
func (s Subject) WordCount() int {
	return s.TargetWPM * WordsPerTargetWPM
}

var catalog = []Subject{
	NewSubject(English, 30),
	NewSubject(English, 40),
	NewSubject(English, 50),
	NewSubject(Marathi, 30),
	NewSubject(Marathi, 40),
	NewSubject(Hindi, 30),
	NewSubject(Hindi, 40),
}

// TargetSpeeds lists the recognized target speeds.
func TargetSpeeds() []int {
	return []int{30, 40, 50}
}

// ValidTargetWPM reports whether wpm is a recognized target speed.
func ValidTargetWPM(wpm int) bool {
	for _, v := range TargetSpeeds() {
		if v == wpm {
			return true
		}
	}
	return false
}

// NewSubject builds a subject for a language and target speed.
func NewSubject(lang Language, wpm int) Subject {
	return Subject{
		ID:        fmt.Sprintf("%s_%d", lang, wpm),
		Label:     fmt.Sprintf("%s %d WPM", lang.Label(), wpm),
		Language:  lang,
		TargetWPM: wpm,
	}
}

// Subjects returns a copy of the built-in subject catalog.
func Subjects() []Subject {
	out := make([]Subject, len(catalog))
	copy(out, catalog)
	return out
}

// SubjectByID looks up a catalog subject.
func SubjectByID(id string) (Subject, error) {
	for _, s := range catalog {
		if s.ID == id {
			return s, nil
		}
	}
	return Subject{}, fmt.Errorf("%w: %q", ErrUnknownSubject, id)
}
