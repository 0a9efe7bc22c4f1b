package client

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/coda-client/internal/http"
	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// List filters accepted by each endpoint, as snake_case option names.
var (
	docFilters    = []string{"is_owner", "query", "source_doc_id", "workspace_id", "folder_id"}
	tableFilters  = []string{"sort_by", "table_types"}
	columnFilters = []string{"visible_only"}
	rowFilters    = []string{"query", "sort_by", "use_column_names", "value_format", "visible_only", "sync_token"}
)

// collectionClient provides List and Get for one resource kind under a
// collection path. T is the variant Get narrows the decoded resource to.
type collectionClient[T coda.Resource] struct {
	root    *Client
	doc     *coda.Doc
	scope   scopedPath
	kind    string
	filters []string
}

func newCollectionClient[T coda.Resource](
	root *Client, doc *coda.Doc, scope scopedPath, kind string, filters ...string,
) *collectionClient[T] {
	return &collectionClient[T]{
		root:    root,
		doc:     doc,
		scope:   scope,
		kind:    kind,
		filters: filters,
	}
}

func (c *collectionClient[T]) resourceContext() coda.ResourceContext {
	return coda.ResourceContext{Client: c.root, Doc: c.doc}
}

func (c *collectionClient[T]) itemPath(id string) (string, error) {
	if c.scope.err != nil {
		return "", c.scope.err
	}

	if id == "" {
		return "", missing(c.kind + " id")
	}

	return c.scope.path + "/" + url.PathEscape(id), nil
}

// List fetches the first page of the collection.
func (c *collectionClient[T]) List(ctx context.Context, opts *coda.ListOptions) (*coda.Page, error) {
	if c.scope.err != nil {
		return nil, fmt.Errorf("listing %ss: %w", c.kind, c.scope.err)
	}

	query, err := opts.ToValues(c.filters...)
	if err != nil {
		return nil, fmt.Errorf("listing %ss: %w", c.kind, err)
	}

	resp, err := c.root.httpClient.Get(ctx, c.scope.path, query)
	if err != nil {
		return nil, fmt.Errorf("listing %ss: %w", c.kind, err)
	}

	return decodePage(resp, c.resourceContext())
}

// Get fetches a single resource by id.
func (c *collectionClient[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	path, err := c.itemPath(id)
	if err != nil {
		return zero, fmt.Errorf("getting %s: %w", c.kind, err)
	}

	resp, err := c.root.httpClient.Get(ctx, path, nil)
	if err != nil {
		return zero, fmt.Errorf("getting %s: %w", c.kind, err)
	}

	return decodeOne[T](resp, c.resourceContext())
}

func decodePage(resp *http.Response, rc coda.ResourceContext) (*coda.Page, error) {
	value, err := resp.JSON()
	if err != nil {
		return nil, fmt.Errorf("parsing list response: %w", err)
	}

	page, err := coda.DecodeList(value, rc)
	if err != nil {
		return nil, fmt.Errorf("parsing list response: %w", err)
	}

	return page, nil
}

func decodeOne[T coda.Resource](resp *http.Response, rc coda.ResourceContext) (T, error) {
	var zero T

	value, err := resp.JSON()
	if err != nil {
		return zero, fmt.Errorf("parsing resource response: %w", err)
	}

	res, err := coda.DecodeValue(value, rc)
	if err != nil {
		return zero, fmt.Errorf("parsing resource response: %w", err)
	}

	return coda.As[T](res)
}

// decodePayload returns the body of a mutation unchanged. An empty body
// yields a Payload holding nil.
func decodePayload(resp *http.Response) (coda.Payload, error) {
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return coda.NewPayload(nil), nil
	}

	value, err := resp.JSON()
	if err != nil {
		return coda.Payload{}, fmt.Errorf("parsing mutation response: %w", err)
	}

	return coda.NewPayload(value), nil
}
