package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/coda-client/pkg/coda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountClient_WhoAmI(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	server.handle(http.MethodGet, "/whoami", http.StatusOK, map[string]interface{}{
		"type":        "user",
		"name":        "Ada Lovelace",
		"loginId":     "ada@example.com",
		"scoped":      false,
		"tokenName":   "ci",
		"href":        "https://coda.io/apis/v1/whoami",
		"pictureLink": "https://cdn.coda.io/avatars/ada.png",
		"workspace":   map[string]interface{}{"id": "ws-1", "type": "workspace"},
	})

	user, err := NewTestClient(t, server).Account().WhoAmI(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", user.Name())
	assert.Equal(t, "ada@example.com", user.LoginID())
	assert.Equal(t, "ci", user.TokenName())
	assert.Equal(t, "ws-1", user.WorkspaceID())
	assert.False(t, user.Scoped())
	assert.Empty(t, user.ID())
}

func TestAccountClient_Unauthorized(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	server.handle(http.MethodGet, "/whoami", http.StatusUnauthorized, `{"statusCode":401,"message":"Unauthorized"}`)

	_, err := NewTestClient(t, server).Account().WhoAmI(context.Background())
	require.Error(t, err)
	assert.True(t, coda.IsUnauthorized(err))
}

func TestLinksClient_Resolve(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	server.handle(http.MethodGet, "/resolveBrowserLink", http.StatusOK, map[string]interface{}{
		"type":        "apiLink",
		"href":        "https://coda.io/apis/v1/resolveBrowserLink?url=x",
		"browserLink": "https://coda.io/d/_dd1/Launch_su1",
		"resource": map[string]interface{}{
			"type": "section",
			"id":   "canvas-1",
			"name": "Launch",
			"href": "https://coda.io/apis/v1/docs/d1/sections/canvas-1",
		},
	})

	link, err := NewTestClient(t, server).Links().Resolve(context.Background(), "https://coda.io/d/_dd1/Launch_su1")
	require.NoError(t, err)

	assert.Equal(t, "url=https%3A%2F%2Fcoda.io%2Fd%2F_dd1%2FLaunch_su1", server.last(t).Query)
	assert.Equal(t, "https://coda.io/d/_dd1/Launch_su1", link.BrowserLink())

	target := link.Resource()
	require.NotNil(t, target)
	assert.Equal(t, coda.TypeSection, target.Kind())
	assert.Equal(t, "canvas-1", target.ID())
	assert.Equal(t, "Launch", target.Name())
}
