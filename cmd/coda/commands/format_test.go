package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

func TestFormatValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value interface{}
		want  string
	}{
		{nil, ""},
		{"text", "text"},
		{true, "true"},
		{float64(3), "3"},
		{2.5, "2.5"},
		{[]interface{}{"a", float64(1)}, `["a",1]`},
		{map[string]interface{}{"k": "v"}, `{"k":"v"}`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatValue(tt.value))
	}
}

func TestPageToken(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "p2", pageToken("https://coda.io/apis/v1/docs?pageToken=p2&limit=1"))
	assert.Empty(t, pageToken("https://coda.io/apis/v1/docs"))
	assert.Empty(t, pageToken("%zz"))
}

func decodeAll[T coda.Resource](t *testing.T, doc *coda.Doc, objects ...map[string]interface{}) []T {
	t.Helper()

	out := make([]T, 0, len(objects))

	for _, obj := range objects {
		res, err := coda.DecodeResource(obj, coda.ResourceContext{Doc: doc})
		require.NoError(t, err)

		typed, err := coda.As[T](res)
		require.NoError(t, err)

		out = append(out, typed)
	}

	return out
}

func TestWriteMarkdown(t *testing.T) {
	t.Parallel()

	doc := coda.RefDoc(nil, "d1")

	columns := decodeAll[*coda.Column](t, doc,
		map[string]interface{}{"type": "column", "id": "c-1", "name": "Task"},
		map[string]interface{}{"type": "column", "id": "c-2", "name": "Points"},
	)

	rows := decodeAll[*coda.Row](t, doc,
		map[string]interface{}{"type": "row", "id": "i-2", "index": float64(1),
			"values": map[string]interface{}{"c-1": "Review", "c-2": float64(2)}},
		map[string]interface{}{"type": "row", "id": "i-1", "index": float64(0),
			"values": map[string]interface{}{"c-1": "Write", "c-2": float64(5)}},
		map[string]interface{}{"type": "row", "id": "i-3", "index": float64(2),
			"values": map[string]interface{}{"c-1": "Ship"}},
	)

	var out bytes.Buffer

	require.NoError(t, writeMarkdown(&out, columns, rows))

	assert.Equal(t, "Task | Points\n"+
		"--- | ---\n"+
		"Write | 5\n"+
		"Review | 2\n"+
		"Ship | \n", out.String())
}

func TestParseCells(t *testing.T) {
	t.Parallel()

	cells, err := parseCells([]string{"Title=Ship it", "Points=3", "Done=true", "Tags=[\"a\",\"b\"]", "Code=007", "Note="})
	require.NoError(t, err)

	values := make(map[string]interface{}, len(cells))
	for _, cell := range cells {
		values[cell.Column.ColumnID()] = cell.Value
	}

	assert.Equal(t, map[string]interface{}{
		"Title":  "Ship it",
		"Points": float64(3),
		"Done":   true,
		"Tags":   []interface{}{"a", "b"},
		"Code":   "007",
		"Note":   "",
	}, values)

	_, err = parseCells([]string{"no-separator"})
	require.ErrorIs(t, err, ErrInvalidCell)

	_, err = parseCells([]string{"=value"})
	require.ErrorIs(t, err, ErrInvalidCell)
}

func TestSetConfigValue(t *testing.T) {
	t.Parallel()

	config := &Config{}

	require.NoError(t, setConfigValue(config, "api", "coda.example.com/apis/v1/"))
	assert.Equal(t, "https://coda.example.com/apis/v1", config.API)

	require.NoError(t, setConfigValue(config, "token", "  secret \n"))
	assert.Equal(t, "secret", config.Token)

	require.NoError(t, setConfigValue(config, "output", "yaml"))
	assert.Equal(t, "yaml", config.Output)
	require.ErrorIs(t, setConfigValue(config, "output", "xml"), ErrUnsupportedOutputFormat)

	require.NoError(t, setConfigValue(config, "retries", "3"))
	assert.Equal(t, 3, config.Retries)
	require.ErrorIs(t, setConfigValue(config, "retries", "3x"), ErrInvalidValue)
	require.ErrorIs(t, setConfigValue(config, "retries", "-1"), ErrInvalidValue)

	require.NoError(t, setConfigValue(config, "retries", ""))
	assert.Equal(t, 0, config.Retries)

	require.NoError(t, setConfigValue(config, "api", ""))
	assert.Empty(t, config.API)

	require.ErrorIs(t, setConfigValue(config, "space", "x"), ErrUnknownConfigKey)
}
