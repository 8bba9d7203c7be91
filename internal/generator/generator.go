// Package generator builds practice passages.
package generator

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/verte-zerg/typedesk/internal/model"
)

const (
	minSentenceWords  = 5
	sentenceWordRange = 10
)

// Source is the randomness the generator draws from. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Generator produces randomized practice passages.
type Generator struct {
	rnd Source
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithSource returns a Generator drawing from src.
func NewWithSource(src Source) *Generator {
	return &Generator{rnd: src}
}

// Generate draws wordCount words uniformly with replacement and splits them
// into sentences of 5 to 14 words. The result always ends with the
// language's terminator.
func (g *Generator) Generate(words []string, wordCount int, lang model.Language) string {
	if wordCount < 1 {
		wordCount = 1
	}
	if len(words) == 0 {
		return lang.Terminator()
	}
	period := lang.Terminator()
	capitalize := !lang.Devanagari()

	result := make([]string, 0, wordCount)
	sentenceLength := 0
	target := g.sentenceTarget()
	for i := 0; i < wordCount; i++ {
		word := words[g.rnd.Intn(len(words))]
		if capitalize && sentenceLength == 0 {
			word = capitalizeFirst(word)
		}
		sentenceLength++
		if sentenceLength >= target && i < wordCount-1 {
			word += period
			sentenceLength = 0
			target = g.sentenceTarget()
		}
		result = append(result, word)
	}

	last := len(result) - 1
	if !strings.HasSuffix(result[last], period) {
		result[last] += period
	}
	return strings.Join(result, " ")
}

// Passage generates a passage for a subject from the given word list.
func (g *Generator) Passage(subject model.Subject, words []string) model.Passage {
	count := subject.WordCount()
	if count < 1 {
		count = 1
	}
	return model.Passage{
		ID:        uuid.NewString(),
		Language:  subject.Language,
		WordCount: count,
		Text:      g.Generate(words, count, subject.Language),
	}
}

func (g *Generator) sentenceTarget() int {
	return g.rnd.Intn(sentenceWordRange) + minSentenceWords
}

func capitalizeFirst(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
