package search_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/catalog-admin/internal/search"
)

type recorder struct {
	targets []string
}

func (r *recorder) Navigate(target string) {
	r.targets = append(r.targets, target)
}

func TestFormSync(t *testing.T) {
	t.Run("Should read initial term from query", func(t *testing.T) {
		f := search.NewForm(&recorder{})
		f.Sync(url.Values{"query": {"shoes"}})

		assert.Equal(t, "shoes", f.Term())
	})

	t.Run("Should default to empty term without query", func(t *testing.T) {
		f := search.NewForm(&recorder{})
		f.Sync(url.Values{})

		assert.Equal(t, "", f.Term())
	})

	t.Run("Should keep term when query is removed", func(t *testing.T) {
		f := search.NewForm(&recorder{})
		f.Sync(url.Values{"query": {"shoes"}})
		f.Sync(url.Values{})

		assert.Equal(t, "shoes", f.Term())
	})

	t.Run("Should follow query changes", func(t *testing.T) {
		f := search.NewForm(&recorder{})
		f.Sync(url.Values{"query": {"shoes"}})
		f.Sync(url.Values{"query": {"hats"}})

		assert.Equal(t, "hats", f.Term())
	})

	t.Run("Should return to idle after navigation", func(t *testing.T) {
		f := search.NewForm(&recorder{})
		f.Change("")
		assert.Equal(t, search.StateNavigating, f.State())

		f.Sync(url.Values{})
		assert.Equal(t, search.StateIdle, f.State())
	})
}

func TestFormSubmit(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target string
	}{
		{name: "trimmed term", input: "  shoes  ", target: "/?query=shoes"},
		{name: "empty term", input: "", target: "/"},
		{name: "whitespace term", input: "   ", target: "/"},
		{name: "reserved characters", input: "a&b", target: "/?query=a%26b"},
		{name: "inner space", input: "red shoes", target: "/?query=red%20shoes"},
		{name: "non ascii", input: "café", target: "/?query=caf%C3%A9"},
		{name: "unreserved marks", input: "kid's (new)!*", target: "/?query=kid's%20(new)!*"},
		{name: "plus and percent", input: "1+1=2 100%", target: "/?query=1%2B1%3D2%20100%25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			f := search.NewForm(rec)
			f.Change(tt.input)
			rec.targets = nil

			f.Submit()

			assert.Equal(t, []string{tt.target}, rec.targets)
			assert.Equal(t, search.StateNavigating, f.State())
		})
	}
}

func TestFormChange(t *testing.T) {
	t.Run("Should navigate to root when cleared", func(t *testing.T) {
		rec := &recorder{}
		f := search.NewForm(rec)
		f.Sync(url.Values{"query": {"shoes"}})

		f.Change("")

		assert.Equal(t, "", f.Term())
		assert.Equal(t, []string{"/"}, rec.targets)
	})

	t.Run("Should not navigate while typing", func(t *testing.T) {
		rec := &recorder{}
		f := search.NewForm(rec)

		f.Change("sh")
		f.Change("sho")

		assert.Equal(t, "sho", f.Term())
		assert.Empty(t, rec.targets)
		assert.Equal(t, search.StateIdle, f.State())
	})

	t.Run("Should not navigate on whitespace only", func(t *testing.T) {
		rec := &recorder{}
		f := search.NewForm(rec)

		f.Change(" ")

		assert.Equal(t, " ", f.Term())
		assert.Empty(t, rec.targets)
	})
}

func TestNavigatorFunc(t *testing.T) {
	var got string
	f := search.NewForm(search.NavigatorFunc(func(target string) { got = target }))
	f.Change("boots")
	f.Submit()

	assert.Equal(t, "/?query=boots", got)
}
