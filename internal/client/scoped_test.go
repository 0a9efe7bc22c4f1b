package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/coda-client/pkg/coda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocScopedClients_Get(t *testing.T) {
	t.Parallel()

	RunGetTests(t, []TestGetOperation{{
		Name:         "section",
		ID:           "canvas-1",
		ExpectedPath: "/docs/d1/sections/canvas-1",
		StatusCode:   http.StatusOK,
		Response:     object("section", "canvas-1", "name", "Launch", "parent", object("section", "canvas-0")),
	}}, func(c *Client) func(context.Context, string) (*coda.Section, error) {
		return c.Sections(coda.RefDoc(c, "d1")).Get
	}, func(t *testing.T, section *coda.Section) {
		t.Helper()

		assert.Equal(t, "Launch", section.Name())
		assert.Equal(t, "d1", section.Doc().ID())

		parent, err := section.Parent()
		require.NoError(t, err)
		assert.Equal(t, "canvas-0", parent.ID())
	})

	RunGetTests(t, []TestGetOperation{{
		Name:         "folder",
		ID:           "fl-1",
		ExpectedPath: "/docs/d1/folders/fl-1",
		StatusCode:   http.StatusOK,
		Response:     object("folder", "fl-1", "children", []interface{}{object("section", "canvas-1"), object("table", "grid-1")}),
	}}, func(c *Client) func(context.Context, string) (*coda.Folder, error) {
		return c.Folders(coda.RefDoc(c, "d1")).Get
	}, func(t *testing.T, folder *coda.Folder) {
		t.Helper()

		children, err := folder.Children()
		require.NoError(t, err)
		require.Len(t, children, 2)
		assert.Equal(t, coda.TypeTable, children[1].Type())
	})

	RunGetTests(t, []TestGetOperation{{
		Name:         "formula",
		ID:           "f-1",
		ExpectedPath: "/docs/d1/formulas/f-1",
		StatusCode:   http.StatusOK,
		Response:     object("formula", "f-1", "value", float64(42)),
	}}, func(c *Client) func(context.Context, string) (*coda.Formula, error) {
		return c.Formulas(coda.RefDoc(c, "d1")).Get
	}, func(t *testing.T, formula *coda.Formula) {
		t.Helper()

		assert.InDelta(t, 42.0, formula.Value(), 0)
	})

	RunGetTests(t, []TestGetOperation{{
		Name:         "control",
		ID:           "ctrl-1",
		ExpectedPath: "/docs/d1/controls/ctrl-1",
		StatusCode:   http.StatusOK,
		Response:     object("control", "ctrl-1", "controlType", "slider", "value", float64(7)),
	}}, func(c *Client) func(context.Context, string) (*coda.Control, error) {
		return c.Controls(coda.RefDoc(c, "d1")).Get
	}, func(t *testing.T, control *coda.Control) {
		t.Helper()

		assert.Equal(t, "slider", control.ControlType())
	})
}

func TestTablesClient_ListAndNavigate(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	server.handle(http.MethodGet, "/docs/d1", http.StatusOK, object("doc", "d1", "name", "Roadmap"))
	server.handle(http.MethodGet, "/docs/d1/tables", http.StatusOK, list("",
		object("table", "grid-1", "name", "Tasks", "tableType", "table"),
		object("table", "view-1", "name", "Open tasks", "tableType", "view"),
	))
	server.handle(http.MethodGet, "/docs/d1/tables/grid-1/columns", http.StatusOK, list("",
		object("column", "c-1", "name", "Title", "display", true),
		object("column", "c-2", "name", "Done", "calculated", true, "formula", "=false"),
	))

	client := NewTestClient(t, server)
	ctx := context.Background()

	doc, err := client.Docs().Get(ctx, "d1")
	require.NoError(t, err)

	tablesClient, err := doc.Tables()
	require.NoError(t, err)

	tables, err := tablesClient.List(ctx, coda.NewListOptions().WithFilter("table_types", "table,view"))
	require.NoError(t, err)
	assert.Equal(t, "tableTypes=table%2Cview", server.last(t).Query)
	assert.Same(t, doc, tables.Doc())

	typed := coda.ItemsOf[*coda.Table](tables)
	require.Len(t, typed, 2)
	assert.Equal(t, "view", typed[1].TableType())
	assert.Same(t, doc, typed[0].Doc(), "children share the doc context")

	columnsClient, err := typed[0].Columns()
	require.NoError(t, err)

	columns, err := columnsClient.List(ctx, coda.NewListOptions().WithBoolFilter("visible_only", true))
	require.NoError(t, err)
	assert.Equal(t, "visibleOnly=true", server.last(t).Query)

	cols := coda.ItemsOf[*coda.Column](columns)
	require.Len(t, cols, 2)
	assert.True(t, cols[0].Display())
	assert.True(t, cols[1].Calculated())
	assert.Equal(t, "=false", cols[1].Formula())

	_, err = columnsClient.List(ctx, coda.NewListOptions().WithFilter("query", "x"))
	require.ErrorIs(t, err, coda.ErrUnsupportedFilter)
}

func TestScopedClients_PaginationKeepsDoc(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	server.handle(http.MethodGet, "/docs/d1/controls", http.StatusOK, list(
		testBasePath+"/docs/d1/controls?pageToken=next",
		object("control", "ctrl-1"),
	))

	client := NewTestClient(t, server)
	doc := coda.RefDoc(client, "d1")
	ctx := context.Background()

	first, err := client.Controls(doc).List(ctx, nil)
	require.NoError(t, err)

	server.handle(http.MethodGet, "/docs/d1/controls", http.StatusOK, list("", object("control", "ctrl-2")))

	iterator := coda.NewPageIterator(ctx, first)

	all, err := iterator.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ctrl-2", all[1].ID())

	control, err := coda.As[*coda.Control](all[1])
	require.NoError(t, err)
	assert.Same(t, doc, control.Doc())
	assert.Equal(t, "pageToken=next", server.last(t).Query)
}
