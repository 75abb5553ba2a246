// Package words provides the dictionary and the word validator for the game engine.
//
// Responsibilities:
//   - Load the dictionary from an environment-provided file or fall back to the embedded default.
//   - Answer exact-membership queries on uppercase words.
//   - Validate submitted words against the dictionary and the available letter pool.
//
// Initialization behavior (InitFrom / Init):
//  1. If a path is given (Init uses DICTIONARY_FILE), load one word per line from that file.
//  2. Otherwise use the embedded assets/dictionary.txt.
//
// Constraints:
//   - Words must be alphabetic (A–Z); other lines are skipped.
//   - Lists are normalized to uppercase.
//   - Initialization runs once (sync.Once); the dictionary is read-only afterwards.
package words

import (
	"bufio"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/phamduncc/find-word/assets"
)

// Dictionary is an immutable set of uppercase words.
type Dictionary struct {
	set  map[string]struct{}
	list []string
}

// NewDictionary builds a dictionary from raw entries. Entries are trimmed and
// uppercased; non-alphabetic entries and duplicates are dropped.
func NewDictionary(entries []string) *Dictionary {
	list := lo.Uniq(lo.FilterMap(entries, func(w string, _ int) (string, bool) {
		w = strings.ToUpper(strings.TrimSpace(w))
		return w, w != "" && isAlpha(w)
	}))
	return &Dictionary{set: toSet(list), list: list}
}

// Contains reports whether w (any case) is in the dictionary.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[strings.ToUpper(w)]
	return ok
}

// Len returns the number of words.
func (d *Dictionary) Len() int { return len(d.list) }

// Words returns the words in load order. The slice must not be modified.
func (d *Dictionary) Words() []string { return d.list }

var (
	initOnce   sync.Once
	defaultDic *Dictionary
	initialErr error
)

// Init loads the process-wide dictionary exactly once from DICTIONARY_FILE,
// or from the embedded list when it is unset.
func Init() error {
	return InitFrom(os.Getenv("DICTIONARY_FILE"))
}

// InitFrom loads the process-wide dictionary exactly once from path, or from
// the embedded list when path is empty. Later calls return the first result.
func InitFrom(path string) error {
	initOnce.Do(func() {
		defaultDic, initialErr = Load(path)
	})
	return initialErr
}

// Load reads a dictionary from path, or the embedded list when path is empty.
// An empty result is an error.
func Load(path string) (*Dictionary, error) {
	var entries []string
	var err error
	if path != "" {
		entries, err = readWordFile(path)
	} else {
		entries, err = assets.DictionaryList()
	}
	if err != nil {
		return nil, err
	}
	d := NewDictionary(entries)
	if d.Len() == 0 {
		return nil, errors.New("words: dictionary is empty")
	}
	return d, nil
}

// Default returns the process-wide dictionary, loading it on first use.
// If loading failed the returned dictionary is empty.
func Default() *Dictionary {
	if err := Init(); err != nil || defaultDic == nil {
		return NewDictionary(nil)
	}
	return defaultDic
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
