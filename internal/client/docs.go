package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// DocsClient implements coda.DocsClient.
type DocsClient struct {
	*collectionClient[*coda.Doc]
}

// NewDocsClient creates a new docs client.
func NewDocsClient(root *Client) *DocsClient {
	return &DocsClient{
		collectionClient: newCollectionClient[*coda.Doc](root, nil, scopedPath{path: "/docs"}, "doc", docFilters...),
	}
}

// Create implements coda.DocsClient.Create.
func (c *DocsClient) Create(ctx context.Context, request *coda.DocCreateRequest) (*coda.Doc, error) {
	if request == nil {
		return nil, fmt.Errorf("creating doc: %w", missing("request"))
	}

	resp, err := c.root.httpClient.Post(ctx, c.scope.path, request)
	if err != nil {
		return nil, fmt.Errorf("creating doc: %w", err)
	}

	return decodeOne[*coda.Doc](resp, c.resourceContext())
}

// Delete implements coda.DocsClient.Delete.
func (c *DocsClient) Delete(ctx context.Context, id string) (coda.Payload, error) {
	path, err := c.itemPath(id)
	if err != nil {
		return coda.Payload{}, fmt.Errorf("deleting doc: %w", err)
	}

	resp, err := c.root.httpClient.Delete(ctx, path)
	if err != nil {
		return coda.Payload{}, fmt.Errorf("deleting doc: %w", err)
	}

	return decodePayload(resp)
}

var _ coda.DocsClient = (*DocsClient)(nil)
