// Package classify resolves free-text enum tokens to canonical values through ordered rule tables.
//
// A Table is evaluated top to bottom; the first rule with a synonym contained in the
// (case-folded) input wins. Rule order is therefore part of a table's contract: a token such
// as "closed - rejected by QA" resolves to whichever of closed/rejected is listed first.
package classify

import (
	"strings"
	"unicode"
)

// Rule maps a set of synonyms to one canonical value
type Rule[T any] struct {
	Synonyms []string
	Value    T
}

// Table is an ordered list of rules plus the value returned when nothing matches
type Table[T any] struct {
	Name    string
	Rules   []Rule[T]
	Default T
}

// NewTable builds a table, folding synonyms once so Match does not repeat the work
func NewTable[T any](name string, def T, rules ...Rule[T]) *Table[T] {
	folded := make([]Rule[T], len(rules))
	for i, r := range rules {
		syns := make([]string, 0, len(r.Synonyms))
		for _, s := range r.Synonyms {
			if s = Fold(s); s != "" {
				syns = append(syns, s)
			}
		}
		folded[i] = Rule[T]{Synonyms: syns, Value: r.Value}
	}
	return &Table[T]{Name: name, Rules: folded, Default: def}
}

// Match returns the canonical value for token, or the table default
func (t *Table[T]) Match(token string) T {
	v, _ := t.MatchOK(token)
	return v
}

// MatchOK is Match plus whether a rule (rather than the default) produced the value
func (t *Table[T]) MatchOK(token string) (T, bool) {
	folded := Fold(token)
	if folded == "" {
		return t.Default, false
	}
	for _, r := range t.Rules {
		for _, syn := range r.Synonyms {
			if strings.Contains(folded, syn) {
				return r.Value, true
			}
		}
	}
	return t.Default, false
}

// Fold lowercases and trims a token. Turkish dotted/dotless I are folded to plain "i"
// and common diacritics dropped so "KAPALI", "Kapalı" and "kapali" compare equal.
func Fold(s string) string {
	s = strings.TrimSpace(strings.ToLowerSpecial(unicode.TurkishCase, s))
	return asciiFolder.Replace(s)
}

var asciiFolder = strings.NewReplacer(
	"ı", "i",
	"i̇", "i",
	"ş", "s",
	"ğ", "g",
	"ü", "u",
	"ö", "o",
	"ç", "c",
	"â", "a",
	"î", "i",
	"û", "u",
)
