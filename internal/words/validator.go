package words

import (
	"sort"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Reason explains why a submitted word was rejected.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonTooShort            Reason = "too_short"
	ReasonAlreadyFound        Reason = "already_found"
	ReasonInsufficientLetters Reason = "insufficient_letters"
	ReasonNotInDictionary     Reason = "not_in_dictionary"
)

// Result is the outcome of Validate. Failures are data, not errors.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason Reason `json:"reason,omitempty"`
}

// Validator checks words against a dictionary and a letter pool.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	dict *Dictionary
}

// NewValidator returns a validator backed by dict.
func NewValidator(dict *Dictionary) *Validator {
	return &Validator{dict: dict}
}

// Dictionary returns the backing dictionary.
func (v *Validator) Dictionary() *Dictionary { return v.dict }

// Validate runs the checks in order and reports the first failure:
// minimum length, already found this session, tile availability, dictionary membership.
func (v *Validator) Validate(word string, pool []rune, minLength int, alreadyFound []string) Result {
	word = normalize(word)
	if len([]rune(word)) < minLength {
		return Result{Reason: ReasonTooShort}
	}
	if lo.ContainsBy(alreadyFound, func(f string) bool { return normalize(f) == word }) {
		return Result{Reason: ReasonAlreadyFound}
	}
	if !CanFormWord(word, pool) {
		return Result{Reason: ReasonInsufficientLetters}
	}
	if !v.IsValidWord(word) {
		return Result{Reason: ReasonNotInDictionary}
	}
	return Result{Valid: true}
}

// IsValidWord reports dictionary membership only.
func (v *Validator) IsValidWord(word string) bool {
	return v.dict.Contains(normalize(word))
}

// Candidates lists dictionary words of at least minLength that can be formed
// from pool and are not in exclude. Longest words come first, ties alphabetical.
func (v *Validator) Candidates(pool []rune, minLength int, exclude []string) []string {
	skip := lo.SliceToMap(exclude, func(w string) (string, struct{}) { return normalize(w), struct{}{} })
	out := lo.Filter(v.dict.Words(), func(w string, _ int) bool {
		if len(w) < minLength || len(w) > len(pool) {
			return false
		}
		if _, ok := skip[w]; ok {
			return false
		}
		return CanFormWord(w, pool)
	})
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// CountSolutions returns how many dictionary words of at least minLength the
// pool can form, stopping early once limit is reached (limit <= 0 means no limit).
func (v *Validator) CountSolutions(pool []rune, minLength, limit int) int {
	n := 0
	for _, w := range v.dict.Words() {
		if len(w) < minLength || len(w) > len(pool) {
			continue
		}
		if CanFormWord(w, pool) {
			n++
			if limit > 0 && n >= limit {
				break
			}
		}
	}
	return n
}

// CanFormWord reports whether the letter multiset of word is a sub-multiset
// of the letters in pool. Comparison is case-insensitive.
func CanFormWord(word string, pool []rune) bool {
	have := Frequencies(pool)
	for r, need := range Frequencies([]rune(normalize(word))) {
		if have[r] < need {
			return false
		}
	}
	return true
}

// Frequencies counts each uppercase letter in letters.
func Frequencies(letters []rune) map[rune]int {
	freq := make(map[rune]int, len(letters))
	for _, r := range letters {
		freq[unicode.ToUpper(r)]++
	}
	return freq
}

func normalize(w string) string {
	return strings.ToUpper(strings.TrimSpace(w))
}
