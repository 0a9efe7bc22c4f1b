package coda_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// fakeClient implements coda.Client for tests. Only the page-following and
// doc/row endpoints do anything; the rest return nil.
type fakeClient struct {
	mu      sync.Mutex
	pages   map[string]map[string]interface{}
	fetched []string
	docs    *fakeDocs
	rows    *fakeRows
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		pages: make(map[string]map[string]interface{}),
		docs:  &fakeDocs{created: make(map[string]bool), deleted: make(map[string]bool)},
		rows:  &fakeRows{deleted: make(map[string]bool)},
	}
}

func (f *fakeClient) Docs() coda.DocsClient { return f.docs }
func (f *fakeClient) Sections(*coda.Doc) coda.SectionsClient { return nil }
func (f *fakeClient) Folders(*coda.Doc) coda.FoldersClient { return nil }
func (f *fakeClient) Tables(*coda.Doc) coda.TablesClient { return nil }
func (f *fakeClient) Columns(*coda.Doc, *coda.Table) coda.ColumnsClient { return nil }
func (f *fakeClient) Rows(*coda.Doc, *coda.Table) coda.RowsClient { return f.rows }
func (f *fakeClient) Formulas(*coda.Doc) coda.FormulasClient { return nil }
func (f *fakeClient) Controls(*coda.Doc) coda.ControlsClient { return nil }
func (f *fakeClient) Account() coda.AccountClient { return nil }
func (f *fakeClient) Links() coda.LinksClient { return nil }
func (f *fakeClient) Pages() coda.PagesClient { return fakePages{f} }

type fakePages struct {
	client *fakeClient
}

func (p fakePages) Fetch(ctx context.Context, link string, doc *coda.Doc) (*coda.Page, error) {
	p.client.mu.Lock()
	body, ok := p.client.pages[link]
	p.client.fetched = append(p.client.fetched, link)
	p.client.mu.Unlock()

	if !ok {
		return nil, &coda.RequestFailedError{Status: 404, Body: `{"message":"Not Found"}`}
	}

	return coda.DecodeList(body, coda.ResourceContext{Client: p.client, Doc: doc})
}

type fakeDocs struct {
	mu      sync.Mutex
	created map[string]bool
	deleted map[string]bool
}

func (d *fakeDocs) List(context.Context, *coda.ListOptions) (*coda.Page, error) {
	return nil, nil
}

func (d *fakeDocs) Get(_ context.Context, id string) (*coda.Doc, error) {
	if id == "missing" {
		return nil, &coda.RequestFailedError{Status: 404}
	}

	return coda.RefDoc(nil, id), nil
}

func (d *fakeDocs) Create(_ context.Context, request *coda.DocCreateRequest) (*coda.Doc, error) {
	if request.Title == "fail" {
		return nil, &coda.RequestFailedError{Status: 400, Body: "bad title"}
	}

	id := "doc-" + request.Title

	d.mu.Lock()
	d.created[id] = true
	d.mu.Unlock()

	return coda.RefDoc(nil, id), nil
}

func (d *fakeDocs) Delete(_ context.Context, id string) (coda.Payload, error) {
	d.mu.Lock()
	d.deleted[id] = true
	d.mu.Unlock()

	return coda.NewPayload(map[string]interface{}{"id": id}), nil
}

type fakeRows struct {
	mu      sync.Mutex
	deleted map[string]bool
}

func (r *fakeRows) List(context.Context, *coda.ListOptions) (*coda.Page, error) {
	return nil, nil
}

func (r *fakeRows) Get(_ context.Context, id string) (*coda.Row, error) {
	return nil, fmt.Errorf("row %s: %w", id, &coda.RequestFailedError{Status: 404})
}

func (r *fakeRows) Insert(_ context.Context, rows []coda.RowCells, _ ...coda.ColumnRef) (coda.Payload, error) {
	ids := make([]interface{}, 0, len(rows))
	for index := range rows {
		ids = append(ids, fmt.Sprintf("i-%d", index))
	}

	return coda.NewPayload(map[string]interface{}{"requestId": "req-1", "addedRowIds": ids}), nil
}

func (r *fakeRows) Update(_ context.Context, id string, _ coda.RowCells) (coda.Payload, error) {
	return coda.NewPayload(map[string]interface{}{"requestId": "req-2", "id": id}), nil
}

func (r *fakeRows) Delete(_ context.Context, id string) (coda.Payload, error) {
	r.mu.Lock()
	r.deleted[id] = true
	r.mu.Unlock()

	return coda.NewPayload(map[string]interface{}{"requestId": "req-3", "id": id}), nil
}

func docJSON(id, name string) map[string]interface{} {
	return map[string]interface{}{
		"id":          id,
		"type":        "doc",
		"href":        "https://coda.io/apis/v1/docs/" + id,
		"browserLink": "https://coda.io/d/_d" + id,
		"name":        name,
		"owner":       "owner@example.com",
		"ownerName":   "Owner",
		"createdAt":   "2024-03-01T10:00:00.000Z",
		"updatedAt":   "2024-03-02T11:30:00.000Z",
	}
}

func tableJSON(id, name string) map[string]interface{} {
	return map[string]interface{}{
		"id":        id,
		"type":      "table",
		"href":      "https://coda.io/apis/v1/docs/d1/tables/" + id,
		"name":      name,
		"tableType": "table",
		"rowCount":  float64(3),
	}
}

func listJSON(next interface{}, items ...map[string]interface{}) map[string]interface{} {
	list := make([]interface{}, 0, len(items))
	for _, item := range items {
		list = append(list, item)
	}

	body := map[string]interface{}{"items": list}
	if next != nil {
		body["nextPageLink"] = next
	}

	return body
}
