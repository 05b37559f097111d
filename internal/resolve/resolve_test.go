package resolve

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher returns canned results or an error.
type fakeSearcher struct {
	items []SearchItem
	err   error
	query string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int64) ([]SearchItem, error) {
	f.query = query
	return f.items, f.err
}

func TestResolve_DirectProductLink(t *testing.T) {
	searcher := &fakeSearcher{items: []SearchItem{
		{Link: "https://www.amazon.com/stores/SomeBrand", Title: "Brand store"},
		{Link: "https://www.amazon.com/dp/B0TESTASIN", Title: "Pour-Over Coffee Maker"},
	}}
	r := New(searcher, "giftinator-20")

	result := r.Resolve(context.Background(), "pour over coffee maker")
	assert.False(t, result.Fallback)
	assert.Equal(t, "Pour-Over Coffee Maker", result.Title)

	u, err := url.Parse(result.URL)
	require.NoError(t, err)
	assert.Equal(t, "/dp/B0TESTASIN", u.Path)
	q := u.Query()
	assert.Equal(t, "giftinator-20", q.Get("tag"))
	assert.Equal(t, "ll1", q.Get("linkCode"))
	assert.Equal(t, "1", q.Get("th"))
	assert.Equal(t, "1", q.Get("psc"))
}

func TestResolve_QueryScopedToAmazon(t *testing.T) {
	searcher := &fakeSearcher{}
	r := New(searcher, "giftinator-20")

	r.Resolve(context.Background(), "weighted blanket")
	assert.Equal(t, "weighted blanket site:amazon.com", searcher.query)
}

func TestResolve_SkipsNonProductResults(t *testing.T) {
	searcher := &fakeSearcher{items: []SearchItem{
		{Link: "https://www.amazon.com/s?k=coffee", Title: "Search listing"},
		{Link: "https://www.amazon.com/b/ref=something", Title: "Category page"},
		{Link: "https://example.com/dp/NOTAMAZON", Title: "Elsewhere"},
	}}
	r := New(searcher, "giftinator-20")

	result := r.Resolve(context.Background(), "coffee")
	assert.True(t, result.Fallback)
}

func TestResolve_ProviderErrorFallsBack(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("quota exceeded")}
	r := New(searcher, "giftinator-20")

	result := r.Resolve(context.Background(), "weighted blanket")
	assert.True(t, result.Fallback)
	assert.Equal(t, "weighted blanket", result.Title)
}

func TestResolve_NilSearcherFallsBack(t *testing.T) {
	r := New(nil, "giftinator-20")

	result := r.Resolve(context.Background(), "ceramic mug")
	assert.True(t, result.Fallback)

	u, err := url.Parse(result.URL)
	require.NoError(t, err)
	assert.Equal(t, "www.amazon.com", u.Host)
	assert.Equal(t, "/s", u.Path)
	assert.Equal(t, "ceramic mug", u.Query().Get("k"))
	assert.Equal(t, "giftinator-20", u.Query().Get("tag"))
}

func TestFallback_EncodesLabel(t *testing.T) {
	r := New(nil, "giftinator-20")

	result := r.Resolve(context.Background(), `mug & "special" glaze`)
	u, err := url.Parse(result.URL)
	require.NoError(t, err)
	assert.Equal(t, `mug & "special" glaze`, u.Query().Get("k"))
}

func TestIsProductURL(t *testing.T) {
	tests := []struct {
		link string
		want bool
	}{
		{"https://www.amazon.com/dp/B0ABC", true},
		{"https://www.amazon.com/gp/product/B0ABC", true},
		{"https://www.amazon.com/Some-Name/product/B0ABC", true},
		{"https://www.amazon.com/s?k=query", false},
		{"https://example.com/dp/B0ABC", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isProductURL(tt.link), tt.link)
	}
}

func TestAddAffiliateTag_ReplacesExistingTag(t *testing.T) {
	got := addAffiliateTag("https://www.amazon.com/dp/B0ABC?tag=someone-else-20", "giftinator-20")
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "giftinator-20", u.Query().Get("tag"))
}
