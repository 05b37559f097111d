// Package resolve turns an opaque product search label from a reveal into a
// concrete, clickable Amazon link. Resolution degrades, never fails: with no
// search credentials, on provider errors, on timeout, or with zero matching
// results it returns a constructed search-listing URL flagged as fallback.
package resolve

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// defaultTimeout bounds one resolution query. Resolution is cosmetic; a slow
// provider must not hold up the reveal.
const defaultTimeout = 5 * time.Second

// productPathMarkers identify Amazon product-page URLs, as opposed to search
// listings, storefronts, or category pages.
var productPathMarkers = []string{"/dp/", "/gp/", "/product/"}

// SearchItem is one candidate result from the search provider.
type SearchItem struct {
	Link  string
	Title string
}

// Searcher is the external web-search collaborator.
type Searcher interface {
	Search(ctx context.Context, query string, num int64) ([]SearchItem, error)
}

// Result is the outcome of resolving one label. Fallback marks a constructed
// search-listing URL rather than a resolved product page.
type Result struct {
	URL      string
	Title    string
	Fallback bool
}

// Resolver resolves search labels to product links. It holds no mutable
// state and is safe for unbounded concurrent use.
type Resolver struct {
	searcher Searcher // nil when search credentials are absent
	tag      string
	timeout  time.Duration
}

// New creates a Resolver backed by the given searcher. A nil searcher is
// valid and yields fallback links for every label.
func New(searcher Searcher, affiliateTag string) *Resolver {
	return &Resolver{searcher: searcher, tag: affiliateTag, timeout: defaultTimeout}
}

// Resolve converts a search label into a link. It never returns an error.
func (r *Resolver) Resolve(ctx context.Context, label string) Result {
	if r.searcher == nil {
		return r.fallback(label)
	}

	searchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	items, err := r.searcher.Search(searchCtx, label+" site:amazon.com", 5)
	if err != nil {
		return r.fallback(label)
	}

	for _, item := range items {
		if isProductURL(item.Link) {
			return Result{URL: addAffiliateTag(item.Link, r.tag), Title: item.Title}
		}
	}

	return r.fallback(label)
}

// fallback builds the deterministic search-listing URL for a label.
func (r *Resolver) fallback(label string) Result {
	u := url.URL{Scheme: "https", Host: "www.amazon.com", Path: "/s"}
	q := url.Values{}
	q.Set("k", label)
	q.Set("tag", r.tag)
	u.RawQuery = q.Encode()
	return Result{URL: u.String(), Title: label, Fallback: true}
}

// isProductURL reports whether a URL has the shape of an Amazon product page.
func isProductURL(link string) bool {
	if !strings.Contains(link, "amazon.com") {
		return false
	}
	for _, marker := range productPathMarkers {
		if strings.Contains(link, marker) {
			return true
		}
	}
	return false
}

// addAffiliateTag appends the referral tag plus the parameters that keep the
// link sticky in the Amazon app (linkCode marks it as an affiliate link,
// th/psc preserve the selected variation and cart).
func addAffiliateTag(link, tag string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	q := u.Query()
	q.Set("tag", tag)
	q.Set("linkCode", "ll1")
	q.Set("th", "1")
	q.Set("psc", "1")
	u.RawQuery = q.Encode()
	return u.String()
}
