package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// AccountClient implements coda.AccountClient.
type AccountClient struct {
	root *Client
}

// NewAccountClient creates a new account client.
func NewAccountClient(root *Client) *AccountClient {
	return &AccountClient{root: root}
}

// WhoAmI returns the user the API token belongs to.
func (c *AccountClient) WhoAmI(ctx context.Context) (*coda.User, error) {
	resp, err := c.root.httpClient.Get(ctx, "/whoami", nil)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}

	return decodeOne[*coda.User](resp, coda.ResourceContext{Client: c.root})
}

// LinksClient implements coda.LinksClient.
type LinksClient struct {
	root *Client
}

// NewLinksClient creates a new links client.
func NewLinksClient(root *Client) *LinksClient {
	return &LinksClient{root: root}
}

// Resolve maps a browser URL to the API resource it shows.
func (c *LinksClient) Resolve(ctx context.Context, browserURL string) (*coda.APILink, error) {
	if browserURL == "" {
		return nil, fmt.Errorf("resolving browser link: %w", missing("url"))
	}

	resp, err := c.root.httpClient.Get(ctx, "/resolveBrowserLink", url.Values{"url": []string{browserURL}})
	if err != nil {
		return nil, fmt.Errorf("resolving browser link: %w", err)
	}

	return decodeOne[*coda.APILink](resp, coda.ResourceContext{Client: c.root})
}

// PagesClient implements coda.PagesClient.
type PagesClient struct {
	root *Client
}

// NewPagesClient creates a new pages client.
func NewPagesClient(root *Client) *PagesClient {
	return &PagesClient{root: root}
}

// Fetch follows a continuation link and binds the page to doc.
func (c *PagesClient) Fetch(ctx context.Context, link string, doc *coda.Doc) (*coda.Page, error) {
	resp, err := c.root.httpClient.GetLink(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	return decodePage(resp, coda.ResourceContext{Client: c.root, Doc: doc})
}

var (
	_ coda.AccountClient = (*AccountClient)(nil)
	_ coda.LinksClient   = (*LinksClient)(nil)
	_ coda.PagesClient   = (*PagesClient)(nil)
)
