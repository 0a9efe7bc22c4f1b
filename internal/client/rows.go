package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// RowsClient implements coda.RowsClient for one table.
type RowsClient struct {
	*collectionClient[*coda.Row]
}

// NewRowsClient creates a rows client scoped to table inside doc.
func NewRowsClient(root *Client, doc *coda.Doc, table *coda.Table) *RowsClient {
	return &RowsClient{
		collectionClient: newCollectionClient[*coda.Row](root, doc, tablePath(doc, table, "rows"), "row", rowFilters...),
	}
}

// Insert implements coda.RowsClient.Insert. Rows whose key columns match an
// existing row update it instead of adding a new one.
func (c *RowsClient) Insert(ctx context.Context, rows []coda.RowCells, keyColumns ...coda.ColumnRef) (coda.Payload, error) {
	if c.scope.err != nil {
		return coda.Payload{}, fmt.Errorf("inserting rows: %w", c.scope.err)
	}

	body, err := coda.BuildInsertPayload(rows, keyColumns...)
	if err != nil {
		return coda.Payload{}, fmt.Errorf("inserting rows: %w", err)
	}

	resp, err := c.root.httpClient.Post(ctx, c.scope.path, body)
	if err != nil {
		return coda.Payload{}, fmt.Errorf("inserting rows: %w", err)
	}

	return decodePayload(resp)
}

// Update implements coda.RowsClient.Update.
func (c *RowsClient) Update(ctx context.Context, id string, cells coda.RowCells) (coda.Payload, error) {
	path, err := c.itemPath(id)
	if err != nil {
		return coda.Payload{}, fmt.Errorf("updating row: %w", err)
	}

	body, err := coda.BuildUpdatePayload(cells)
	if err != nil {
		return coda.Payload{}, fmt.Errorf("updating row: %w", err)
	}

	resp, err := c.root.httpClient.Put(ctx, path, body)
	if err != nil {
		return coda.Payload{}, fmt.Errorf("updating row: %w", err)
	}

	return decodePayload(resp)
}

// Delete implements coda.RowsClient.Delete.
func (c *RowsClient) Delete(ctx context.Context, id string) (coda.Payload, error) {
	path, err := c.itemPath(id)
	if err != nil {
		return coda.Payload{}, fmt.Errorf("deleting row: %w", err)
	}

	resp, err := c.root.httpClient.Delete(ctx, path)
	if err != nil {
		return coda.Payload{}, fmt.Errorf("deleting row: %w", err)
	}

	return decodePayload(resp)
}

var _ coda.RowsClient = (*RowsClient)(nil)
