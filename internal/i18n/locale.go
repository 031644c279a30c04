package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is one supported game locale: the game's own code, the BCP 47 tag
// used for negotiation, and the catalog file holding its strings.
type Locale struct {
	Code string
	Tag  language.Tag
	File string
}

// Registry is the ordered set of supported locales.
type Registry struct {
	locales []Locale
	byCode  map[string]int
	matcher language.Matcher
}

// NewRegistry builds a registry. The first locale is the negotiation default.
func NewRegistry(locales []Locale) (*Registry, error) {
	if len(locales) == 0 {
		return nil, fmt.Errorf("at least one locale is required")
	}
	r := &Registry{byCode: make(map[string]int, len(locales))}
	tags := make([]language.Tag, 0, len(locales))
	for _, l := range locales {
		if l.Code == "" {
			return nil, fmt.Errorf("locale code is required")
		}
		if _, dup := r.byCode[l.Code]; dup {
			return nil, fmt.Errorf("duplicate locale %q", l.Code)
		}
		r.byCode[l.Code] = len(r.locales)
		r.locales = append(r.locales, l)
		tags = append(tags, l.Tag)
	}
	r.matcher = language.NewMatcher(tags)
	return r, nil
}

// ParseLocale builds a Locale from its code and tag string.
func ParseLocale(code, tag, file string) (Locale, error) {
	parsed, err := language.Parse(tag)
	if err != nil {
		return Locale{}, fmt.Errorf("parse locale tag %q: %w", tag, err)
	}
	return Locale{Code: code, Tag: parsed, File: file}, nil
}

// Codes returns the locale codes in registration order.
func (r *Registry) Codes() []string {
	out := make([]string, len(r.locales))
	for i, l := range r.locales {
		out[i] = l.Code
	}
	return out
}

func (r *Registry) Locales() []Locale {
	out := make([]Locale, len(r.locales))
	copy(out, r.locales)
	return out
}

func (r *Registry) Lookup(code string) (Locale, bool) {
	i, ok := r.byCode[code]
	if !ok {
		return Locale{}, false
	}
	return r.locales[i], true
}

func (r *Registry) Default() Locale {
	return r.locales[0]
}

// Match picks the supported locale for a request value. An exact locale code
// wins; otherwise the value is read as a BCP 47 tag or Accept-Language list.
func (r *Registry) Match(value string) Locale {
	value = strings.TrimSpace(value)
	if value == "" {
		return r.Default()
	}
	if l, ok := r.Lookup(value); ok {
		return l
	}
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return r.Default()
	}
	_, index, confidence := r.matcher.Match(tags...)
	if confidence == language.No {
		return r.Default()
	}
	return r.locales[index]
}
