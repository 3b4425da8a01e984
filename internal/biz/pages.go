package biz

import (
	"context"
	"iter"

	"github.com/go-kratos/kratos/v2/log"
)

// PageSize is the size of every re-paginated listing page.
const PageSize = 20

type pageFunc func(ctx context.Context, page int) (*MoviePage, error)

// pager walks upstream pages 1..limit of one source. Each call to pages starts
// a fresh walk; fetching is lazy and stops as soon as the consumer breaks.
type pager struct {
	source string
	fetch  pageFunc
	limit  int
	// required makes a page-1 failure visible to the consumer. Every other
	// failure is logged and yields nothing.
	required bool
}

func (p pager) pages(ctx context.Context, l *log.Helper) iter.Seq2[[]*Movie, error] {
	return func(yield func([]*Movie, error) bool) {
		for n := 1; n <= p.limit; n++ {
			page, err := p.fetch(ctx, n)
			if err != nil {
				if n == 1 && p.required {
					yield(nil, err)
					return
				}
				l.Warnf("error fetching %s page %d: %v", p.source, n, err)
				continue
			}
			if page == nil || len(page.Results) == 0 {
				continue
			}
			if !yield(page.Results, nil) {
				return
			}
		}
	}
}

// movieSet accumulates results keeping the first occurrence of every id.
type movieSet struct {
	seen  map[int64]struct{}
	items []*SearchResult
}

func newMovieSet() *movieSet {
	return &movieSet{seen: make(map[int64]struct{})}
}

func (s *movieSet) has(id int64) bool {
	_, ok := s.seen[id]
	return ok
}

func (s *movieSet) add(r *SearchResult) bool {
	if s.has(r.ID) {
		return false
	}
	s.seen[r.ID] = struct{}{}
	s.items = append(s.items, r)
	return true
}

func (s *movieSet) Len() int {
	return len(s.items)
}

// dedupe keeps the first occurrence of every id.
func dedupe(items []*SearchResult) []*SearchResult {
	s := newMovieSet()
	for _, r := range items {
		s.add(r)
	}
	return s.items
}

// Paginate slices items into PageSize pages; page numbers start at 1.
func Paginate(items []*SearchResult, page int) *MovieList {
	if page < 1 {
		page = 1
	}
	start := min((page-1)*PageSize, len(items))
	end := min(start+PageSize, len(items))
	results := make([]*SearchResult, end-start)
	copy(results, items[start:end])
	return &MovieList{
		Results:      results,
		TotalPages:   (len(items) + PageSize - 1) / PageSize,
		TotalResults: len(items),
		Page:         page,
	}
}
