package coda

import (
	"context"
	"fmt"
	"iter"
	"slices"
)

// Page is one page of a listing. It behaves like an ordered, read-only list
// of resources and knows how to fetch the page after it. Pages are values:
// FetchNextPage returns a new Page and never changes the receiver, so a Page
// can be shared between goroutines.
type Page struct {
	items        []Resource
	nextPageLink string
	rc           ResourceContext
}

// NewPage binds decoded resources, the continuation link ("" on the last
// page) and the ambient context used to fetch the next page.
func NewPage(items []Resource, nextPageLink string, rc ResourceContext) *Page {
	return &Page{
		items:        slices.Clone(items),
		nextPageLink: nextPageLink,
		rc:           rc,
	}
}

// Len returns the number of resources on this page.
func (p *Page) Len() int {
	return len(p.items)
}

// At returns the resource at index i. It panics when i is out of range, like
// a slice index.
func (p *Page) At(i int) Resource {
	return p.items[i]
}

// Items returns a copy of the resources on this page.
func (p *Page) Items() []Resource {
	return slices.Clone(p.items)
}

// All iterates over the resources on this page with their index.
func (p *Page) All() iter.Seq2[int, Resource] {
	return slices.All(p.items)
}

// Resources iterates over the resources on this page.
func (p *Page) Resources() iter.Seq[Resource] {
	return slices.Values(p.items)
}

// HasNextPage reports whether the service issued a continuation link.
func (p *Page) HasNextPage() bool {
	return p.nextPageLink != ""
}

// NextPageLink returns the raw continuation link, or "".
func (p *Page) NextPageLink() string {
	return p.nextPageLink
}

// Doc returns the document the page's resources belong to, if any.
func (p *Page) Doc() *Doc {
	return p.rc.Doc
}

// FetchNextPage requests the page following this one. Each call performs a
// fresh request; nothing is cached between pages.
func (p *Page) FetchNextPage(ctx context.Context) (*Page, error) {
	if !p.HasNextPage() {
		return nil, ErrNoNextPage
	}

	if p.rc.Client == nil {
		return nil, missingOption("client")
	}

	next, err := p.rc.Client.Pages().Fetch(ctx, p.nextPageLink, p.rc.Doc)
	if err != nil {
		return nil, fmt.Errorf("fetching next page: %w", err)
	}

	return next, nil
}

// ItemsOf returns the resources on the page that are of variant T, in order.
func ItemsOf[T Resource](p *Page) []T {
	out := make([]T, 0, len(p.items))

	for _, item := range p.items {
		if typed, ok := item.(T); ok {
			out = append(out, typed)
		}
	}

	return out
}

// PageIterator walks resources across pages, fetching each page only when the
// previous one is exhausted.
type PageIterator struct {
	ctx     context.Context //nolint:containedctx // iterator mirrors a single listing call
	current *Page
	index   int
	err     error
}

// NewPageIterator starts iterating at the given page.
func NewPageIterator(ctx context.Context, first *Page) *PageIterator {
	return &PageIterator{
		ctx:     ctx,
		current: first,
	}
}

// HasNext reports whether another resource is available. It may fetch the
// next page; a fetch error ends the iteration and is returned by Err.
func (it *PageIterator) HasNext() bool {
	for it.err == nil && it.current != nil {
		if it.index < it.current.Len() {
			return true
		}

		if !it.current.HasNextPage() {
			return false
		}

		next, err := it.current.FetchNextPage(it.ctx)
		if err != nil {
			it.err = err

			return false
		}

		it.current = next
		it.index = 0
	}

	return false
}

// Next returns the next resource.
func (it *PageIterator) Next() (Resource, error) {
	if !it.HasNext() {
		if it.err != nil {
			return nil, it.err
		}

		return nil, ErrNoMoreItems
	}

	item := it.current.At(it.index)
	it.index++

	return item, nil
}

// Err returns the error that stopped the iteration, if any.
func (it *PageIterator) Err() error {
	return it.err
}

// All drains the iterator into a slice.
func (it *PageIterator) All() ([]Resource, error) {
	var all []Resource

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return nil, err
		}

		all = append(all, item)
	}

	if it.err != nil {
		return nil, it.err
	}

	return all, nil
}
