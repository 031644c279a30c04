// Package search matches user queries against translated entity documents.
//
// Queries and fields are compared as search tags: text decomposed with NFKD,
// stripped of combining marks, case folded, and reduced to letters and digits,
// so "Gärd Ñame" and "gardname" compare equal.
package search

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/lawnchairsociety/gowdata/internal/i18n"
)

// NoData is the name of entities that exist in the dump without display data.
const NoData = "`?`"

const defaultSuggestThreshold = 0.70

// Normalize reduces text to its search tag.
func Normalize(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}
	folded := cases.Fold().String(stripped)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Dig follows a dotted path such as "kingdom.name" through a document and
// renders the value found as text. Arrays are joined with spaces; missing
// paths render as "".
func Dig(doc map[string]any, path string) string {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur, ok = m[part]
		if !ok {
			return ""
		}
	}
	return render(cur)
}

func render(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, render(item))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(val)
	}
}

func docName(doc map[string]any) string {
	name, _ := doc["name"].(string)
	return name
}

// Matches reports whether the query's search tag is contained in any lookup
// field. Entities without a usable name never match.
func Matches(doc map[string]any, lookupKeys []string, query string) bool {
	name := docName(doc)
	if name == NoData || i18n.IsUntranslated(name) {
		return false
	}
	tag := Normalize(query)
	for _, key := range lookupKeys {
		if strings.Contains(Normalize(Dig(doc, key)), tag) {
			return true
		}
	}
	return false
}

// MatchesPrecisely reports whether the name's search tag equals the query's.
func MatchesPrecisely(doc map[string]any, query string) bool {
	return Normalize(docName(doc)) == Normalize(query)
}

// Suggestion is a ranked "did you mean" candidate.
type Suggestion struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Suggest ranks candidate names by Jaro-Winkler similarity to the query and
// returns at most n of those scoring at or above the threshold. Candidates
// with the same search tag are reported once.
func Suggest(query string, candidates []string, n int) []Suggestion {
	tag := Normalize(query)
	if tag == "" || n <= 0 {
		return nil
	}

	seen := make(map[string]bool, len(candidates))
	var out []Suggestion
	for _, name := range candidates {
		candidateTag := Normalize(name)
		if candidateTag == "" || seen[candidateTag] || i18n.IsUntranslated(name) {
			continue
		}
		seen[candidateTag] = true
		score := matchr.JaroWinkler(tag, candidateTag, false)
		if score >= defaultSuggestThreshold {
			out = append(out, Suggestion{Name: name, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
