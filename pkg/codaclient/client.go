package codaclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/coda-client/internal/client"
	"github.com/fivetwenty-io/coda-client/internal/constants"
	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// New creates a Coda API client. The config is copied; the caller's value is
// not modified.
func New(ctx context.Context, config *coda.Config) (coda.Client, error) {
	if config == nil {
		return nil, coda.ErrConfigRequired
	}

	normalized := *config
	normalized.APIToken = strings.TrimSpace(normalized.APIToken)

	if normalized.APIToken == "" {
		return nil, coda.ErrAPITokenRequired
	}

	normalized.BaseURL = NormalizeBaseURL(normalized.BaseURL)

	cli, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

// NewWithToken creates a client for the public API with the given token.
func NewWithToken(ctx context.Context, token string) (coda.Client, error) {
	return New(ctx, &coda.Config{APIToken: token})
}

// NormalizeBaseURL defaults an empty URL to the public API root, adds an
// https scheme when none is given and drops trailing slashes.
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return constants.DefaultBaseURL
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return strings.TrimRight(baseURL, "/")
}
