// Package words produces candidate labels for a scan.
package words

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/spf13/afero"

	"ozzus/domain-scout/internal/domain"
	"ozzus/domain-scout/internal/lib/logger/slogdiscard"
)

const DefaultDictionary = "/usr/share/dict/words"

// Source lists candidate labels of a given length.
type Source interface {
	ListWords(length int) ([]string, error)
}

// DictionarySource reads a newline-delimited word list.
type DictionarySource struct {
	fs   afero.Fs
	path string
}

func NewDictionarySource(fs afero.Fs, path string) *DictionarySource {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if path == "" {
		path = DefaultDictionary
	}
	return &DictionarySource{fs: fs, path: path}
}

// ListWords returns lowercased alphabetic words of exactly length letters, in
// file order and without repeats.
func (s *DictionarySource) ListWords(length int) ([]string, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", s.path, err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	var out []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if len(word) != length || !isASCIIAlpha(word) {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary %s: %w", s.path, err)
	}

	return out, nil
}

func isASCIIAlpha(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// StaticSource serves a fixed list, typically from the command line.
type StaticSource struct {
	labels []string
	suffix string
	log    *slog.Logger
}

func NewStaticSource(labels []string, suffix string, log *slog.Logger) *StaticSource {
	if log == nil {
		log = slogdiscard.NewDiscardLogger()
	}
	return &StaticSource{labels: labels, suffix: suffix, log: log}
}

// ListWords ignores length: an explicit list is checked as given.
// Invalid labels are skipped with a warning.
func (s *StaticSource) ListWords(_ int) ([]string, error) {
	out := make([]string, 0, len(s.labels))
	for _, raw := range s.labels {
		label := domain.NormalizeLabel(raw, s.suffix)
		if label == "" {
			continue
		}
		if !domain.ValidLabel(label) {
			s.log.Warn("skipping invalid label", slog.String("label", raw))
			continue
		}
		out = append(out, label)
	}
	return domain.Dedupe(out), nil
}

// Expand returns each word followed by its prefixed variants.
func Expand(words, prefixes []string) []string {
	if len(prefixes) == 0 {
		return words
	}

	out := make([]string, 0, len(words)*(len(prefixes)+1))
	for _, w := range words {
		out = append(out, w)
		for _, p := range prefixes {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				out = append(out, p+w)
			}
		}
	}
	return out
}
