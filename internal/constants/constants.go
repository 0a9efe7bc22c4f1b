package constants

import "time"

// Service endpoints.
const (
	// DefaultBaseURL is the root of the Coda REST API.
	DefaultBaseURL = "https://coda.io/apis/v1"

	// DefaultUserAgent is sent when the config does not override it.
	DefaultUserAgent = "coda-client-go/1.0"
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry settings for the transport. Retries are disabled unless RetryMax is set.
const (
	// DefaultRetryWaitMin is the minimum wait between transport retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Concurrency and batching limits.
const (
	// DefaultConcurrencyLimit limits concurrent batch operations.
	DefaultConcurrencyLimit = 5

	// DefaultBatchTimeout bounds a single batch operation.
	DefaultBatchTimeout = 30 * time.Second
)

// HTTP status range considered successful.
const (
	// HTTPStatusSuccessMin is the first 2xx status.
	HTTPStatusSuccessMin = 200

	// HTTPStatusSuccessMax is the last 2xx status.
	HTTPStatusSuccessMax = 299
)

// Pagination.
const (
	// DefaultPageSize is the default number of items per page in the CLI.
	DefaultPageSize = 25

	// MaxPageSize is the largest limit the service accepts.
	MaxPageSize = 500
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// JSONIndentSize is the number of spaces for JSON and YAML indentation.
	JSONIndentSize = 2
)

// CLI argument counts.
const (
	// MinimumArgumentCount is used by commands taking a key and a value.
	MinimumArgumentCount = 2

	// DocTableArgumentCount is used by commands addressing a table inside a doc.
	DocTableArgumentCount = 2

	// DocTableRowArgumentCount is used by commands addressing a single row.
	DocTableRowArgumentCount = 3
)
