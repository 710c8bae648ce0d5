// Package search keeps a search box in step with the query parameter of the
// current URL.
package search

import (
	"net/url"
	"strings"
)

const (
	// QueryParam is the URL query parameter carrying the search term.
	QueryParam = "query"

	// RootPath is the navigation target of every search.
	RootPath = "/"
)

// Navigator performs a navigation. It does not report completion.
type Navigator interface {
	Navigate(target string)
}

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc func(target string)

func (f NavigatorFunc) Navigate(target string) { f(target) }

// Params reads URL query parameters. url.Values satisfies it.
type Params interface {
	Get(key string) string
}

type State uint8

const (
	StateIdle State = iota
	StateNavigating
)

func (s State) String() string {
	return []string{"idle", "navigating"}[s]
}

// Form holds the current contents of the search input.
type Form struct {
	term  string
	state State
	nav   Navigator
}

func NewForm(nav Navigator) *Form {
	return &Form{nav: nav}
}

// Term returns the current contents of the search input.
func (f *Form) Term() string {
	return f.term
}

func (f *Form) State() State {
	return f.state
}

// Sync initializes the term from the query parameter. It runs on first render
// and again after every URL change. An absent or empty parameter leaves the
// term unchanged.
func (f *Form) Sync(params Params) {
	f.state = StateIdle
	if params == nil {
		return
	}
	if q := params.Get(QueryParam); q != "" {
		f.term = q
	}
}

// Change stores the raw input value. Clearing the input to exactly "" navigates
// to the root path; whitespace-only values do not.
func (f *Form) Change(value string) {
	f.term = value
	if value == "" {
		f.navigate(RootPath)
	}
}

// Submit navigates to the root path filtered by the trimmed term, or unfiltered
// when the trimmed term is empty.
func (f *Form) Submit() {
	f.navigate(TargetURL(f.term))
}

func (f *Form) navigate(target string) {
	f.state = StateNavigating
	if f.nav != nil {
		f.nav.Navigate(target)
	}
}

// TargetURL returns the navigation target for a search term.
func TargetURL(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return RootPath
	}
	return RootPath + "?" + QueryParam + "=" + EncodeComponent(term)
}

// componentUnescaper restores the marks encodeURIComponent leaves as is and
// turns the form encoding of space into %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s for use as a query value the way
// encodeURIComponent does.
func EncodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
