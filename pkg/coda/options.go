package coda

import (
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strconv"
)

// Query parameter names shared by every list endpoint.
const (
	limitParam     = "limit"
	pageTokenParam = "page_token"
)

// ListOptions represents the options accepted by every List call.
// Filter keys are snake_case and are translated with WireKey.
type ListOptions struct {
	Limit     int
	PageToken string
	Filters   map[string]string
}

// NewListOptions creates empty list options.
func NewListOptions() *ListOptions {
	return &ListOptions{
		Filters: make(map[string]string),
	}
}

// WithLimit sets the maximum number of items per page.
func (o *ListOptions) WithLimit(limit int) *ListOptions {
	o.Limit = limit

	return o
}

// WithPageToken sets an explicit page token.
func (o *ListOptions) WithPageToken(token string) *ListOptions {
	o.PageToken = token

	return o
}

// WithFilter sets a kind-specific filter, replacing any previous value.
func (o *ListOptions) WithFilter(key, value string) *ListOptions {
	if o.Filters == nil {
		o.Filters = make(map[string]string)
	}

	o.Filters[key] = value

	return o
}

// WithBoolFilter sets a boolean filter such as is_owner or visible_only.
func (o *ListOptions) WithBoolFilter(key string, value bool) *ListOptions {
	return o.WithFilter(key, strconv.FormatBool(value))
}

// ToValues converts the options into query parameters. Only filters named in
// allowed are accepted; anything else fails with ErrUnsupportedFilter.
// A nil receiver yields empty values.
func (o *ListOptions) ToValues(allowed ...string) (url.Values, error) {
	values := url.Values{}

	if o == nil {
		return values, nil
	}

	if o.Limit > 0 {
		values.Set(limitParam, strconv.Itoa(o.Limit))
	}

	if o.PageToken != "" {
		values.Set(WireKey(pageTokenParam), o.PageToken)
	}

	keys := make([]string, 0, len(o.Filters))
	for key := range o.Filters {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		if !slices.Contains(allowed, key) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFilter, key)
		}

		values.Set(WireKey(key), o.Filters[key])
	}

	return values, nil
}
