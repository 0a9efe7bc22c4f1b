// Package logging bridges coda.Logger to go-hclog.
package logging

import (
	"io"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// HCLogAdapter implements coda.Logger on top of an hclog.Logger.
type HCLogAdapter struct {
	logger hclog.Logger
}

// NewHCLogAdapter wraps logger. A nil logger discards everything.
func NewHCLogAdapter(logger hclog.Logger) *HCLogAdapter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &HCLogAdapter{logger: logger}
}

// New creates a named hclog logger writing to output at the given level
// ("trace", "debug", "info", "warn", "error") and wraps it.
func New(name string, output io.Writer, level string) *HCLogAdapter {
	return NewHCLogAdapter(hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Output: output,
		Level:  hclog.LevelFromString(level),
	}))
}

// Debug implements coda.Logger.
func (a *HCLogAdapter) Debug(msg string, fields map[string]interface{}) {
	a.logger.Debug(msg, args(fields)...)
}

// Info implements coda.Logger.
func (a *HCLogAdapter) Info(msg string, fields map[string]interface{}) {
	a.logger.Info(msg, args(fields)...)
}

// Warn implements coda.Logger.
func (a *HCLogAdapter) Warn(msg string, fields map[string]interface{}) {
	a.logger.Warn(msg, args(fields)...)
}

// Error implements coda.Logger.
func (a *HCLogAdapter) Error(msg string, fields map[string]interface{}) {
	a.logger.Error(msg, args(fields)...)
}

// args flattens fields into hclog key/value pairs in key order so log lines
// are stable.
func args(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	out := make([]interface{}, 0, len(keys)*2)
	for _, key := range keys {
		out = append(out, key, fields[key])
	}

	return out
}

var _ coda.Logger = (*HCLogAdapter)(nil)
