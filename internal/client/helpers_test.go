package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fivetwenty-io/coda-client/pkg/coda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBasePath = "/apis/v1"

// recordedRequest is what the test server saw for one call.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// testServer answers requests from a route table keyed by "METHOD path"
// (path relative to the API base, escaped form) and records every request.
type testServer struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]testRoute
	requests []recordedRequest
}

type testRoute struct {
	status int
	body   interface{}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	server := &testServer{routes: make(map[string]testRoute)}
	server.Server = httptest.NewServer(http.HandlerFunc(server.serve))
	t.Cleanup(server.Close)

	return server
}

func (s *testServer) serve(writer http.ResponseWriter, request *http.Request) {
	body, _ := io.ReadAll(request.Body)
	path := request.URL.EscapedPath()

	if len(path) >= len(testBasePath) && path[:len(testBasePath)] == testBasePath {
		path = path[len(testBasePath):]
	}

	s.mu.Lock()
	s.requests = append(s.requests, recordedRequest{
		Method: request.Method,
		Path:   path,
		Query:  request.URL.RawQuery,
		Header: request.Header.Clone(),
		Body:   body,
	})
	route, ok := s.routes[request.Method+" "+path]
	s.mu.Unlock()

	writer.Header().Set("Content-Type", "application/json")

	if !ok {
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"statusCode":404,"statusMessage":"Not Found","message":"Not Found"}`))

		return
	}

	writer.WriteHeader(route.status)

	switch typed := route.body.(type) {
	case nil:
	case string:
		_, _ = writer.Write([]byte(typed))
	default:
		_ = json.NewEncoder(writer).Encode(typed)
	}
}

func (s *testServer) handle(method, path string, status int, body interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.routes[method+" "+path] = testRoute{status: status, body: body}
}

func (s *testServer) recorded() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]recordedRequest(nil), s.requests...)
}

func (s *testServer) last(t *testing.T) recordedRequest {
	t.Helper()

	requests := s.recorded()
	require.NotEmpty(t, requests)

	return requests[len(requests)-1]
}

func (s *testServer) baseURL() string {
	return s.URL + testBasePath
}

// NewTestClient creates a client pointed at server with a fixed token.
func NewTestClient(t *testing.T, server *testServer) *Client {
	t.Helper()

	client, err := New(context.Background(), &coda.Config{
		BaseURL:  server.baseURL(),
		APIToken: "test-token",
	})
	require.NoError(t, err)

	return client
}

// TestGetOperation represents a generic get operation test case.
type TestGetOperation struct {
	Name         string
	ID           string
	ExpectedPath string
	StatusCode   int
	Response     interface{}
	WantErr      error
}

// RunGetTests runs a series of get operation tests against one endpoint.
func RunGetTests[T coda.Resource](
	t *testing.T,
	tests []TestGetOperation,
	getFunc func(*Client) func(context.Context, string) (T, error),
	check func(*testing.T, T),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(t)
			if testCase.Response != nil {
				server.handle(http.MethodGet, testCase.ExpectedPath, testCase.StatusCode, testCase.Response)
			}

			client := NewTestClient(t, server)
			result, err := getFunc(client)(context.Background(), testCase.ID)

			if testCase.WantErr != nil {
				require.ErrorIs(t, err, testCase.WantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.ExpectedPath, server.last(t).Path)

			if check != nil {
				check(t, result)
			}
		})
	}
}

func object(kind, id string, fields ...interface{}) map[string]interface{} {
	obj := map[string]interface{}{
		"id":   id,
		"type": kind,
		"href": "https://coda.io/apis/v1/" + kind + "s/" + id,
	}

	for i := 0; i+1 < len(fields); i += 2 {
		obj[fields[i].(string)] = fields[i+1]
	}

	return obj
}

func list(next string, items ...map[string]interface{}) map[string]interface{} {
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}

	body := map[string]interface{}{"items": out}
	if next != "" {
		body["nextPageLink"] = next
	}

	return body
}

func idsOf(page *coda.Page) []string {
	ids := make([]string, 0, page.Len())
	for res := range page.Resources() {
		ids = append(ids, res.ID())
	}

	return ids
}
