package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Value is a selectable item of a list.
// Code is only guaranteed to be unique inside a single fetched page.
type Value struct {
	Code  string `json:"code" yaml:"code" mapstructure:"code"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// Page is the result of a single page fetch.
type Page struct {
	Values []Value `json:"values"`

	// NextPage is the index of the page to fetch next.
	// It is nil once the source has no further pages.
	NextPage *int `json:"nextPage,omitempty"`
}

// HasNext reports whether the source announced another page.
func (p Page) HasNext() bool {
	return p.NextPage != nil
}

// PageIndex returns a pointer to a copy of i, for building Page.NextPage.
func PageIndex(i int) *int {
	return &i
}

// DefaultPageSize is the page size of the demo catalogs.
const DefaultPageSize = 3

// Matches reports whether the value matches a search term.
// Matching is a case-insensitive substring test on label or code; an empty
// term matches everything.
func (v Value) Matches(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(v.Label), term) ||
		strings.Contains(strings.ToLower(v.Code), term)
}

// Filter returns the values matching term, preserving order.
func Filter(values []Value, term string) []Value {
	if term == "" {
		return values
	}
	out := make([]Value, 0, len(values))
	for _, v := range values {
		if v.Matches(term) {
			out = append(out, v)
		}
	}
	return out
}

// Paginate slices values into the requested page.
// NextPage is set only while more pages remain after this one.
func Paginate(values []Value, page, size int) (Page, error) {
	if page < 0 {
		return Page{}, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	lastPage := (len(values)+size-1)/size - 1
	if page > lastPage {
		return Page{Values: []Value{}}, nil
	}

	start := page * size
	end := min(start+size, len(values))
	out := Page{Values: slices.Clone(values[start:end])}

	if lastPage > page {
		out.NextPage = PageIndex(page + 1)
	}
	return out, nil
}
