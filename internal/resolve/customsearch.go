package resolve

import (
	"context"
	"fmt"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// GoogleSearcher implements Searcher on top of the Google Custom Search API.
type GoogleSearcher struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogleSearcher creates a Custom Search-backed Searcher. Returns
// (nil, nil) when either credential is absent, which the Resolver treats as
// "always fall back".
func NewGoogleSearcher(ctx context.Context, apiKey, cx string) (*GoogleSearcher, error) {
	if apiKey == "" || cx == "" {
		return nil, nil
	}

	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &GoogleSearcher{svc: svc, cx: cx}, nil
}

// Search runs one query and returns the first page of results in order.
func (s *GoogleSearcher) Search(ctx context.Context, query string, num int64) ([]SearchItem, error) {
	resp, err := s.svc.Cse.List().Cx(s.cx).Q(query).Num(num).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	items := make([]SearchItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, SearchItem{Link: item.Link, Title: item.Title})
	}
	return items, nil
}
