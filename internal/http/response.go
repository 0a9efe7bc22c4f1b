package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/fivetwenty-io/coda-client/internal/constants"
	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// Response is the envelope around one HTTP exchange. Status, headers and the
// raw body are captured when the response arrives; the body text and the
// decoded JSON are computed on first use and cached for the life of the
// envelope.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	textOnce sync.Once
	text     string

	jsonOnce  sync.Once
	jsonValue interface{}
	jsonErr   error
}

// NewResponse builds an envelope from an already-read exchange.
func NewResponse(statusCode int, header http.Header, body []byte) *Response {
	if header == nil {
		header = make(http.Header)
	}

	return &Response{
		StatusCode: statusCode,
		Header:     header,
		Body:       body,
	}
}

// IsSuccess reports whether the status is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= constants.HTTPStatusSuccessMin && r.StatusCode <= constants.HTTPStatusSuccessMax
}

// Text returns the body as a string.
func (r *Response) Text() string {
	r.textOnce.Do(func() {
		r.text = string(r.Body)
	})

	return r.text
}

// JSON decodes the body once and returns the cached value on later calls.
// A body that is not valid JSON fails with coda.ErrMalformedResponse.
func (r *Response) JSON() (interface{}, error) {
	r.jsonOnce.Do(func() {
		var value interface{}

		err := json.Unmarshal(r.Body, &value)
		if err != nil {
			r.jsonErr = fmt.Errorf("%w: %w", coda.ErrMalformedResponse, err)

			return
		}

		r.jsonValue = value
	})

	return r.jsonValue, r.jsonErr
}
