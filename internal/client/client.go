// Package client implements the coda.Client endpoint family on top of the
// internal HTTP transport. Every endpoint decodes responses through the
// resource decoder and binds the results to the root client and, for
// doc-scoped kinds, to the owning doc.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/coda-client/internal/auth"
	"github.com/fivetwenty-io/coda-client/internal/constants"
	"github.com/fivetwenty-io/coda-client/internal/http"
	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// Client implements the coda.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager

	docs    *DocsClient
	account *AccountClient
	links   *LinksClient
	pages   *PagesClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *coda.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a client from an already normalized config. The base URL
// must be absolute and the API token non-empty.
func New(_ context.Context, config *coda.Config) (*Client, error) {
	if config == nil {
		return nil, coda.ErrConfigRequired
	}

	if strings.TrimSpace(config.APIToken) == "" {
		return nil, coda.ErrAPITokenRequired
	}

	tokenManager := auth.NewStaticTokenManager(config.APIToken)

	httpClient := http.NewClient(config.BaseURL, tokenManager, createHTTPClientOptions(config)...)

	err := httpClient.Err()
	if err != nil {
		return nil, err
	}

	client := NewWithHTTPClient(httpClient)
	client.tokenManager = tokenManager

	return client, nil
}

// NewWithHTTPClient wraps an existing transport.
func NewWithHTTPClient(httpClient *http.Client) *Client {
	client := &Client{httpClient: httpClient}
	client.initializeResourceClients()

	return client
}

func (c *Client) initializeResourceClients() {
	c.docs = NewDocsClient(c)
	c.account = NewAccountClient(c)
	c.links = NewLinksClient(c)
	c.pages = NewPagesClient(c)
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// Docs implements coda.Client.Docs.
func (c *Client) Docs() coda.DocsClient {
	return c.docs
}

// Sections implements coda.Client.Sections.
func (c *Client) Sections(doc *coda.Doc) coda.SectionsClient {
	return newCollectionClient[*coda.Section](c, doc, docPath(doc, "sections"), "section")
}

// Folders implements coda.Client.Folders.
func (c *Client) Folders(doc *coda.Doc) coda.FoldersClient {
	return newCollectionClient[*coda.Folder](c, doc, docPath(doc, "folders"), "folder")
}

// Tables implements coda.Client.Tables.
func (c *Client) Tables(doc *coda.Doc) coda.TablesClient {
	return newCollectionClient[*coda.Table](c, doc, docPath(doc, "tables"), "table", tableFilters...)
}

// Columns implements coda.Client.Columns.
func (c *Client) Columns(doc *coda.Doc, table *coda.Table) coda.ColumnsClient {
	return newCollectionClient[*coda.Column](c, doc, tablePath(doc, table, "columns"), "column", columnFilters...)
}

// Rows implements coda.Client.Rows.
func (c *Client) Rows(doc *coda.Doc, table *coda.Table) coda.RowsClient {
	return NewRowsClient(c, doc, table)
}

// Formulas implements coda.Client.Formulas.
func (c *Client) Formulas(doc *coda.Doc) coda.FormulasClient {
	return newCollectionClient[*coda.Formula](c, doc, docPath(doc, "formulas"), "formula")
}

// Controls implements coda.Client.Controls.
func (c *Client) Controls(doc *coda.Doc) coda.ControlsClient {
	return newCollectionClient[*coda.Control](c, doc, docPath(doc, "controls"), "control")
}

// Account implements coda.Client.Account.
func (c *Client) Account() coda.AccountClient {
	return c.account
}

// Links implements coda.Client.Links.
func (c *Client) Links() coda.LinksClient {
	return c.links
}

// Pages implements coda.Client.Pages.
func (c *Client) Pages() coda.PagesClient {
	return c.pages
}

// scopedPath is a request path plus the error to report when the scope it
// was built from is incomplete.
type scopedPath struct {
	path string
	err  error
}

func missing(name string) error {
	return fmt.Errorf("%w: %s", coda.ErrMissingRequiredOption, name)
}

func docPath(doc *coda.Doc, collection string) scopedPath {
	if doc == nil || doc.ID() == "" {
		return scopedPath{err: missing("doc")}
	}

	return scopedPath{path: "/docs/" + url.PathEscape(doc.ID()) + "/" + collection}
}

func tablePath(doc *coda.Doc, table *coda.Table, collection string) scopedPath {
	scoped := docPath(doc, "tables")
	if scoped.err != nil {
		return scoped
	}

	if table == nil || table.ID() == "" {
		return scopedPath{err: missing("table")}
	}

	return scopedPath{path: scoped.path + "/" + url.PathEscape(table.ID()) + "/" + collection}
}

var (
	_ coda.Client         = (*Client)(nil)
	_ coda.SectionsClient = (*collectionClient[*coda.Section])(nil)
	_ coda.FoldersClient  = (*collectionClient[*coda.Folder])(nil)
	_ coda.TablesClient   = (*collectionClient[*coda.Table])(nil)
	_ coda.ColumnsClient  = (*collectionClient[*coda.Column])(nil)
	_ coda.FormulasClient = (*collectionClient[*coda.Formula])(nil)
	_ coda.ControlsClient = (*collectionClient[*coda.Control])(nil)
)
