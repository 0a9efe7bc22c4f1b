package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/coda-client/pkg/coda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRowsFixture(t *testing.T) (*testServer, *Client, coda.RowsClient) {
	t.Helper()

	server := newTestServer(t)
	client := NewTestClient(t, server)
	doc := coda.RefDoc(client, "d1")

	return server, client, client.Rows(doc, coda.RefTable(client, doc, "grid-1"))
}

func TestRowsClient_ListAndGet(t *testing.T) {
	t.Parallel()

	server, _, rows := newRowsFixture(t)
	server.handle(http.MethodGet, "/docs/d1/tables/grid-1/rows", http.StatusOK, list("",
		object("row", "i-1", "index", float64(0), "values", map[string]interface{}{"Title": "Ship", "Done": false}),
	))
	server.handle(http.MethodGet, "/docs/d1/tables/grid-1/rows/i-1", http.StatusOK,
		object("row", "i-1", "name", "Ship", "values", map[string]interface{}{"c-1": "Ship", "c-2": float64(3)}),
	)

	ctx := context.Background()

	page, err := rows.List(ctx, coda.NewListOptions().
		WithBoolFilter("use_column_names", true).
		WithFilter("value_format", "simpleWithArrays").
		WithFilter("query", `"Title":"Ship"`))
	require.NoError(t, err)
	assert.Equal(t, `query=%22Title%22%3A%22Ship%22&useColumnNames=true&valueFormat=simpleWithArrays`, server.last(t).Query)

	listed := coda.ItemsOf[*coda.Row](page)
	require.Len(t, listed, 1)
	assert.Equal(t, "Ship", listed[0].Values()["Title"])

	row, err := rows.Get(ctx, "i-1")
	require.NoError(t, err)
	assert.Equal(t, "Ship", row.Name())

	value, ok := row.Value(coda.ColumnID("c-2"))
	require.True(t, ok)
	assert.InDelta(t, 3.0, value, 0)

	var decoded struct {
		Title string `coda:"c-1"`
		Count int    `coda:"c-2"`
	}

	require.NoError(t, row.DecodeValues(&decoded))
	assert.Equal(t, "Ship", decoded.Title)
	assert.Equal(t, 3, decoded.Count)
}

func TestRowsClient_InsertPayloadIsIdenticalForColumnRefs(t *testing.T) {
	t.Parallel()

	server, client, rows := newRowsFixture(t)
	server.handle(http.MethodGet, "/docs/d1/tables/grid-1/columns/c-1", http.StatusOK, object("column", "c-1", "name", "Title"))
	server.handle(http.MethodPost, "/docs/d1/tables/grid-1/rows", http.StatusAccepted, map[string]interface{}{
		"requestId":   "req-1",
		"addedRowIds": []string{"i-7"},
	})

	ctx := context.Background()
	doc := coda.RefDoc(client, "d1")

	column, err := client.Columns(doc, coda.RefTable(client, doc, "grid-1")).Get(ctx, "c-1")
	require.NoError(t, err)

	payload, err := rows.Insert(ctx, []coda.RowCells{{{Column: column, Value: "Ship"}}}, column)
	require.NoError(t, err)

	withColumn := server.last(t).Body

	_, err = rows.Insert(ctx, []coda.RowCells{{{Column: coda.ColumnID("c-1"), Value: "Ship"}}}, coda.ColumnID("c-1"))
	require.NoError(t, err)

	assert.Equal(t, string(withColumn), string(server.last(t).Body))
	assert.JSONEq(t, `{"rows":[{"cells":[{"column":"c-1","value":"Ship"}]}],"keyColumns":["c-1"]}`, string(withColumn))

	result, err := payload.Result()
	require.NoError(t, err)
	assert.Equal(t, "req-1", result.RequestID)
	assert.Equal(t, []string{"i-7"}, result.AddedRowIDs)
}

func TestRowsClient_Update(t *testing.T) {
	t.Parallel()

	server, _, rows := newRowsFixture(t)
	server.handle(http.MethodPut, "/docs/d1/tables/grid-1/rows/i-1", http.StatusAccepted, map[string]interface{}{
		"requestId": "req-2",
		"id":        "i-1",
	})

	payload, err := rows.Update(context.Background(), "i-1", coda.RowCells{{Column: coda.ColumnID("c-2"), Value: true}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"row":{"cells":[{"column":"c-2","value":true}]}}`, string(server.last(t).Body))

	result, err := payload.Result()
	require.NoError(t, err)
	assert.Equal(t, "i-1", result.ID)

	_, err = rows.Update(context.Background(), "i-1", coda.RowCells{{Column: coda.ColumnID(""), Value: 1}})
	require.ErrorIs(t, err, coda.ErrInvalidColumnRef)
}

func TestRowsClient_Delete(t *testing.T) {
	t.Parallel()

	server, _, rows := newRowsFixture(t)
	server.handle(http.MethodDelete, "/docs/d1/tables/grid-1/rows/i-1", http.StatusAccepted, nil)

	payload, err := rows.Delete(context.Background(), "i-1")
	require.NoError(t, err)
	assert.Nil(t, payload.Value())
	assert.Equal(t, http.MethodDelete, server.last(t).Method)

	_, err = rows.Delete(context.Background(), "i-404")
	require.Error(t, err)
	assert.True(t, coda.IsNotFound(err))
}
