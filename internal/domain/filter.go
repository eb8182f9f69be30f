package domain

import "strings"

const (
	FilterCountry  = "country"
	FilterLanguage = "language"
	FilterCategory = "category"
	FilterStatus   = "status"
	FilterSource   = "source"
)

// FilterSet holds the requested filters keyed by field name. Keys other than
// the Filter* constants are kept but never evaluated.
type FilterSet map[string]string

func (f FilterSet) Get(key string) string {
	if f == nil {
		return ""
	}
	return strings.TrimSpace(f[key])
}

// LanguageCode reduces the language filter to a lower-case two letter code.
func (f FilterSet) LanguageCode() string {
	lang := strings.ToLower(f.Get(FilterLanguage))
	if r := []rune(lang); len(r) > 2 {
		lang = string(r[:2])
	}
	return lang
}

func (f FilterSet) Clone() FilterSet {
	if f == nil {
		return FilterSet{}
	}
	out := make(FilterSet, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Matches reports whether r satisfies every known filter by exact value.
func (f FilterSet) Matches(r Result) bool {
	for key, want := range f {
		var got string
		switch key {
		case FilterCountry:
			got = r.Country
		case FilterLanguage:
			got = r.Language
		case FilterCategory:
			got = r.Category
		case FilterStatus:
			got = r.Status
		case FilterSource:
			got = r.Source
		default:
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

// Refine keeps the results matching f, preserving order.
func Refine(results []Result, f FilterSet) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
