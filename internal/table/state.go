package table

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// CheckState is the state of a selection checkbox.
type CheckState uint8

const (
	Unchecked CheckState = iota
	Checked
	Indeterminate
)

func (s CheckState) String() string {
	return []string{"unchecked", "checked", "indeterminate"}[s]
}

// NextValue returns the value a click requests: an indeterminate checkbox
// becomes checked.
func (s CheckState) NextValue() bool {
	return s != Checked
}

// SortDirection is the sort applied to a column.
type SortDirection uint8

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

func (d SortDirection) String() string {
	return []string{"", "asc", "desc"}[d]
}

// Next cycles none -> asc -> desc -> none.
func (d SortDirection) Next() SortDirection {
	switch d {
	case SortNone:
		return SortAsc
	case SortAsc:
		return SortDesc
	default:
		return SortNone
	}
}

// ParseSortDirection parses "asc" or "desc", case-insensitively.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SortNone, nil
	case "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	default:
		return SortNone, fmt.Errorf("unknown sort direction: %s", s)
	}
}

// PageSelection is a snapshot of the selection of the rows on the current page.
type PageSelection struct {
	Total    int
	Selected int
}

func (p PageSelection) All() bool {
	return p.Total > 0 && p.Selected == p.Total
}

func (p PageSelection) Some() bool {
	return p.Selected > 0 && p.Selected < p.Total
}

func (p PageSelection) CheckState() CheckState {
	switch {
	case p.All():
		return Checked
	case p.Some():
		return Indeterminate
	default:
		return Unchecked
	}
}

type Sort struct {
	Key       string
	Direction SortDirection
}

const (
	DefaultLimit = 10
	MaxLimit     = 100

	ParamSort     = "sort"
	ParamOrder    = "order"
	ParamSelected = "selected"
	ParamPage     = "page"
	ParamLimit    = "limit"
)

// State is the caller-owned state of a table: sorting, selection and
// pagination. It round-trips through URL query values.
type State struct {
	Sort     Sort
	Selected map[string]struct{}
	Page     int
	Limit    int
}

// NewState returns an empty state on the first page.
func NewState() State {
	return State{
		Selected: map[string]struct{}{},
		Page:     1,
		Limit:    DefaultLimit,
	}
}

// ParseState reads the table state from query values. Malformed values fall
// back to their defaults.
func ParseState(q url.Values) State {
	s := NewState()

	if key := strings.TrimSpace(q.Get(ParamSort)); key != "" {
		dir, err := ParseSortDirection(q.Get(ParamOrder))
		if err != nil || dir == SortNone {
			dir = SortAsc
		}
		s.Sort = Sort{Key: key, Direction: dir}
	}

	for _, id := range q[ParamSelected] {
		if id = strings.TrimSpace(id); id != "" {
			s.Selected[id] = struct{}{}
		}
	}

	if page, err := strconv.Atoi(q.Get(ParamPage)); err == nil && page > 0 {
		s.Page = page
	}
	if limit, err := strconv.Atoi(q.Get(ParamLimit)); err == nil && limit > 0 && limit <= MaxLimit {
		s.Limit = limit
	}

	return s
}

// Values encodes the state as query values. Defaults are omitted.
func (s State) Values() url.Values {
	q := url.Values{}

	if s.Sort.Key != "" && s.Sort.Direction != SortNone {
		q.Set(ParamSort, s.Sort.Key)
		q.Set(ParamOrder, s.Sort.Direction.String())
	}

	ids := make([]string, 0, len(s.Selected))
	for id := range s.Selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		q.Add(ParamSelected, id)
	}

	if s.Page > 1 {
		q.Set(ParamPage, strconv.Itoa(s.Page))
	}
	if s.Limit > 0 && s.Limit != DefaultLimit {
		q.Set(ParamLimit, strconv.Itoa(s.Limit))
	}

	return q
}

// Offset returns the row offset of the current page.
func (s State) Offset() int {
	if s.Page < 1 {
		return 0
	}
	return (s.Page - 1) * s.Limit
}

func (s State) Clone() State {
	c := s
	c.Selected = make(map[string]struct{}, len(s.Selected))
	for id := range s.Selected {
		c.Selected[id] = struct{}{}
	}
	return c
}

func (s State) IsSelected(id string) bool {
	_, ok := s.Selected[id]
	return ok
}

// SortDirectionFor returns the sort applied to the column with the given key.
func (s State) SortDirectionFor(key string) SortDirection {
	if s.Sort.Key != key {
		return SortNone
	}
	return s.Sort.Direction
}

func (s *State) ToggleRowSelected(id string, value bool) {
	if s.Selected == nil {
		s.Selected = map[string]struct{}{}
	}
	if value {
		s.Selected[id] = struct{}{}
		return
	}
	delete(s.Selected, id)
}

// ToggleAllPageRowsSelected selects or deselects every row of the page.
// Selections on other pages are kept.
func (s *State) ToggleAllPageRowsSelected(pageIDs []string, value bool) {
	for _, id := range pageIDs {
		s.ToggleRowSelected(id, value)
	}
}

// ToggleSorting advances the sort of the column identified by key. Sorting a
// different column starts it ascending. The page is reset.
func (s *State) ToggleSorting(key string) {
	next := s.SortDirectionFor(key).Next()
	if next == SortNone {
		s.Sort = Sort{}
	} else {
		s.Sort = Sort{Key: key, Direction: next}
	}
	s.Page = 1
}
