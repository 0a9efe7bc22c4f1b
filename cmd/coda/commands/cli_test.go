package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests share viper's global state and must not run in parallel.

type apiStub struct {
	mu     sync.Mutex
	routes map[string]interface{}
	bodies map[string][]string
}

// newAPIStub serves routes keyed by "METHOD /path" below /apis/v1 and points
// the CLI configuration at it.
func newAPIStub(t *testing.T, routes map[string]interface{}) *apiStub {
	t.Helper()

	stub := &apiStub{routes: routes, bodies: make(map[string][]string)}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/apis/v1")
		body, _ := io.ReadAll(r.Body)

		stub.mu.Lock()
		stub.bodies[key] = append(stub.bodies[key], string(body))
		response, ok := stub.routes[key]
		stub.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"statusCode":404,"message":"Not Found"}`))

			return
		}

		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)

	viper.Reset()
	viper.Set(apiKey, server.URL+"/apis/v1")
	viper.Set(tokenKey, "test-token")
	t.Cleanup(viper.Reset)

	return stub
}

func (s *apiStub) body(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bodies[key]
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestTablesMarkdown(t *testing.T) {
	newAPIStub(t, map[string]interface{}{
		"GET /docs/d1/tables/grid-1/columns": map[string]interface{}{"items": []interface{}{
			map[string]interface{}{"type": "column", "id": "c-1", "name": "Task"},
			map[string]interface{}{"type": "column", "id": "c-2", "name": "Done"},
		}},
		"GET /docs/d1/tables/grid-1/rows": map[string]interface{}{"items": []interface{}{
			map[string]interface{}{"type": "row", "id": "i-2", "index": 1, "values": map[string]interface{}{"c-1": "Ship", "c-2": false}},
			map[string]interface{}{"type": "row", "id": "i-1", "index": 0, "values": map[string]interface{}{"c-1": "Build", "c-2": true}},
		}},
	})

	stdout, _, err := run(t, NewTablesCommand(), "markdown", "d1", "grid-1")
	require.NoError(t, err)

	assert.Equal(t, "Task | Done\n--- | ---\nBuild | true\nShip | false\n", stdout)
}

func TestDocsList_JSONAndPagingHint(t *testing.T) {
	newAPIStub(t, map[string]interface{}{
		"GET /docs": map[string]interface{}{
			"items":        []interface{}{map[string]interface{}{"type": "doc", "id": "d1", "name": "Roadmap"}},
			"nextPageLink": "https://coda.io/apis/v1/docs?pageToken=p2",
		},
	})
	viper.Set(outputKey, "json")

	stdout, stderr, err := run(t, NewDocsCommand(), "list", "--owned")
	require.NoError(t, err)

	var docs []map[string]interface{}

	require.NoError(t, json.Unmarshal([]byte(stdout), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Roadmap", docs[0]["name"])
	assert.Contains(t, stderr, "--page-token p2")
}

func TestRowsInsert(t *testing.T) {
	stub := newAPIStub(t, map[string]interface{}{
		"POST /docs/d1/tables/grid-1/rows": map[string]interface{}{"requestId": "req-1", "addedRowIds": []string{"i-7"}},
	})

	stdout, _, err := run(t, NewRowsCommand(), "insert", "d1", "grid-1", "--cell", "Title=Ship", "--cell", "Points=3", "--key-column", "c-1")
	require.NoError(t, err)

	sent := stub.body("POST /docs/d1/tables/grid-1/rows")
	require.Len(t, sent, 1)
	assert.JSONEq(t, `{"rows":[{"cells":[{"column":"Points","value":3},{"column":"Title","value":"Ship"}]}],"keyColumns":["c-1"]}`, sent[0])

	assert.Contains(t, stdout, "Submitted 1 row(s)")
	assert.Contains(t, stdout, "Request ID: req-1")
	assert.Contains(t, stdout, "Added rows: i-7")
}

func TestRowsInsert_DataFromStdin(t *testing.T) {
	stub := newAPIStub(t, map[string]interface{}{
		"POST /docs/d1/tables/grid-1/rows": map[string]interface{}{"requestId": "req-2"},
	})

	cmd := NewRowsCommand()
	cmd.SetIn(strings.NewReader("- Title: Build\n  Points: 5\n- Title: Ship\n"))

	_, _, err := run(t, cmd, "insert", "d1", "grid-1", "--data", "-")
	require.NoError(t, err)

	sent := stub.body("POST /docs/d1/tables/grid-1/rows")
	require.Len(t, sent, 1)
	assert.JSONEq(t, `{"rows":[
		{"cells":[{"column":"Points","value":5},{"column":"Title","value":"Build"}]},
		{"cells":[{"column":"Title","value":"Ship"}]}
	]}`, sent[0])
}

func TestRowsUpdate_RequiresCells(t *testing.T) {
	stub := newAPIStub(t, map[string]interface{}{})

	_, _, err := run(t, NewRowsCommand(), "update", "d1", "grid-1", "i-1")
	require.ErrorIs(t, err, ErrNoCells)
	assert.Empty(t, stub.body("PUT /docs/d1/tables/grid-1/rows/i-1"))
}

func TestDocsDelete_ReportsEachResult(t *testing.T) {
	newAPIStub(t, map[string]interface{}{
		"DELETE /docs/d1": map[string]interface{}{"requestId": "req-1"},
	})

	stdout, stderr, err := run(t, NewDocsCommand(), "delete", "d1", "d2")
	require.Error(t, err)

	assert.Contains(t, stdout, "Deleted doc d1")
	assert.Contains(t, stderr, "Failed d2")
}

func TestWhoAmI_RequiresToken(t *testing.T) {
	newAPIStub(t, map[string]interface{}{})
	viper.Set(tokenKey, "")

	_, _, err := run(t, NewWhoAmICommand())
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestWhoAmI(t *testing.T) {
	newAPIStub(t, map[string]interface{}{
		"GET /whoami": map[string]interface{}{"type": "user", "name": "Ada", "loginId": "ada@example.com"},
	})
	viper.Set(outputKey, "yaml")

	stdout, _, err := run(t, NewWhoAmICommand())
	require.NoError(t, err)

	assert.Contains(t, stdout, "name: Ada")
	assert.Contains(t, stdout, "loginId: ada@example.com")
}

func TestVerboseLogsAPICalls(t *testing.T) {
	newAPIStub(t, map[string]interface{}{
		"GET /whoami": map[string]interface{}{"type": "user", "name": "Ada"},
	})
	viper.Set(verboseKey, true)

	_, stderr, err := run(t, NewWhoAmICommand())
	require.NoError(t, err)

	assert.Contains(t, stderr, "API Request")
	assert.Contains(t, stderr, "API Response")
	assert.Contains(t, stderr, "/whoami")
	assert.NotContains(t, stderr, "HTTP Request", "transport detail needs --debug")

	viper.Set(debugKey, true)

	_, stderr, err = run(t, NewWhoAmICommand())
	require.NoError(t, err)

	assert.Contains(t, stderr, "API Request")
	assert.Contains(t, stderr, "HTTP Request")
}
