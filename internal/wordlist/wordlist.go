// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/typedesk/internal/model"
)

// Builtin returns a copy of the built-in word list for a language.
func Builtin(lang model.Language) []string {
	var src []string
	switch lang {
	case model.Marathi:
		src = marathiWords
	case model.Hindi:
		src = hindiWords
	default:
		src = englishWords
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// ForLanguage returns the words for lang, preferring <dir>/<lang>.txt when it
// exists. The returned path is empty when the built-in list is used.
func ForLanguage(lang model.Language, dir string) ([]string, string, error) {
	if dir == "" {
		return Builtin(lang), "", nil
	}
	path := filepath.Join(dir, string(lang)+".txt")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Builtin(lang), "", nil
		}
		return nil, "", fmt.Errorf("failed to stat word list: %w", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load %s word list: %w", lang, err)
	}
	words = Filter(words, FilterForLang(lang))
	if len(words) == 0 {
		return nil, "", fmt.Errorf("word list %s has no %s words", path, lang)
	}
	return words, path, nil
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
