package coda

import (
	"context"
	"time"
)

// DocsClient lists, fetches, creates and deletes docs.
type DocsClient interface {
	List(ctx context.Context, opts *ListOptions) (*Page, error)
	Get(ctx context.Context, id string) (*Doc, error)
	Create(ctx context.Context, request *DocCreateRequest) (*Doc, error)
	Delete(ctx context.Context, id string) (Payload, error)
}

// SectionsClient lists and fetches the sections (pages) of a doc.
type SectionsClient interface {
	List(ctx context.Context, opts *ListOptions) (*Page, error)
	Get(ctx context.Context, id string) (*Section, error)
}

// FoldersClient lists and fetches the folders of a doc.
type FoldersClient interface {
	List(ctx context.Context, opts *ListOptions) (*Page, error)
	Get(ctx context.Context, id string) (*Folder, error)
}

// TablesClient lists and fetches the tables and views of a doc.
type TablesClient interface {
	List(ctx context.Context, opts *ListOptions) (*Page, error)
	Get(ctx context.Context, id string) (*Table, error)
}

// ColumnsClient lists and fetches the columns of a table.
type ColumnsClient interface {
	List(ctx context.Context, opts *ListOptions) (*Page, error)
	Get(ctx context.Context, id string) (*Column, error)
}

// RowsClient reads and mutates the rows of a table. Mutations return the
// service acknowledgement as a raw Payload rather than a navigable resource.
type RowsClient interface {
	List(ctx context.Context, opts *ListOptions) (*Page, error)
	Get(ctx context.Context, id string) (*Row, error)
	Insert(ctx context.Context, rows []RowCells, keyColumns ...ColumnRef) (Payload, error)
	Update(ctx context.Context, id string, cells RowCells) (Payload, error)
	Delete(ctx context.Context, id string) (Payload, error)
}

// FormulasClient lists and fetches the named formulas of a doc.
type FormulasClient interface {
	List(ctx context.Context, opts *ListOptions) (*Page, error)
	Get(ctx context.Context, id string) (*Formula, error)
}

// ControlsClient lists and fetches the controls of a doc.
type ControlsClient interface {
	List(ctx context.Context, opts *ListOptions) (*Page, error)
	Get(ctx context.Context, id string) (*Control, error)
}

// AccountClient exposes the /whoami endpoint.
type AccountClient interface {
	WhoAmI(ctx context.Context) (*User, error)
}

// LinksClient resolves browser URLs into API links.
type LinksClient interface {
	Resolve(ctx context.Context, browserURL string) (*APILink, error)
}

// PagesClient follows continuation links issued by list endpoints. The doc is
// the ambient document the resulting resources are attached to; it may be nil
// for top-level listings such as /docs.
type PagesClient interface {
	Fetch(ctx context.Context, link string, doc *Doc) (*Page, error)
}

// Client is the root of the endpoint family. Doc- and table-scoped endpoints
// are constructed on demand; resources hold a Client to navigate their
// relationships.
type Client interface {
	Docs() DocsClient
	Sections(doc *Doc) SectionsClient
	Folders(doc *Doc) FoldersClient
	Tables(doc *Doc) TablesClient
	Columns(doc *Doc, table *Table) ColumnsClient
	Rows(doc *Doc, table *Table) RowsClient
	Formulas(doc *Doc) FormulasClient
	Controls(doc *Doc) ControlsClient
	Account() AccountClient
	Links() LinksClient
	Pages() PagesClient
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a coda.Client.
//
// APIToken is attached to every request as "Authorization: Bearer <token>".
// It is never refreshed or mutated for the lifetime of the client.
//
// Per-request timeouts should generally be controlled via the context passed
// to client methods. Transport retries are off unless RetryMax is set; the
// endpoint layer itself never retries.
type Config struct {
	// BaseURL is the API root, e.g. "https://coda.io/apis/v1". Empty means the default.
	BaseURL string
	// APIToken is the bearer token issued from the Coda account settings.
	APIToken string

	// HTTPTimeout is the overall timeout of the underlying http.Client.
	HTTPTimeout time.Duration
	// RetryMax is the number of transport retries for connection errors and 5xx.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries.
	RetryWaitMax time.Duration
	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Interceptors run around every request, after authentication is applied.
	Interceptors *InterceptorChain
}

// DocCreateRequest represents a request to create a doc.
type DocCreateRequest struct {
	// Title of the new doc.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	// SourceDoc optionally names a doc to copy.
	SourceDoc string `json:"sourceDoc,omitempty" yaml:"source_doc,omitempty"`
	// FolderID optionally places the doc into a folder.
	FolderID string `json:"folderId,omitempty" yaml:"folder_id,omitempty"`
	// Timezone optionally sets the doc timezone.
	Timezone string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}
