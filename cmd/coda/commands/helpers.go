package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/coda-client/internal/constants"
	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"
	Masked       = "***"
)

// Common static errors used throughout the commands package.
var (
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")
	ErrInvalidValue            = errors.New("invalid value")
	ErrInvalidCell             = errors.New("invalid cell, expected COLUMN=VALUE")
	ErrNoCells                 = errors.New("no cells given, use --cell or --data")
)

func outputFormat() string {
	format := viper.GetString(outputKey)
	if format == "" {
		return constants.FormatTable
	}

	return format
}

func isOutputFormat(format string) bool {
	switch format {
	case constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
		return true
	default:
		return false
	}
}

// field is one table column: a header and the snake_case field it shows.
type field struct {
	header string
	name   string
}

func fields(names ...string) []field {
	out := make([]field, 0, len(names))
	for _, name := range names {
		out = append(out, field{header: strings.ToUpper(strings.ReplaceAll(name, "_", " ")), name: name})
	}

	return out
}

// encode writes value as JSON or YAML and reports whether the current
// output format was one of those.
func encode(cmd *cobra.Command, value interface{}) (bool, error) {
	switch outputFormat() {
	case constants.FormatJSON:
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		return true, encoder.Encode(value)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent(constants.JSONIndentSize)

		err := encoder.Encode(value)
		if err != nil {
			return true, fmt.Errorf("failed to encode YAML: %w", err)
		}

		return true, encoder.Close()
	case constants.FormatTable:
		return false, nil
	default:
		return true, fmt.Errorf("%w: %s", ErrUnsupportedOutputFormat, outputFormat())
	}
}

func renderResources(cmd *cobra.Command, resources []coda.Resource, columns []field) error {
	values := make([]map[string]interface{}, 0, len(resources))
	for _, res := range resources {
		values = append(values, res.JSON())
	}

	done, err := encode(cmd, values)
	if done || err != nil {
		return err
	}

	if len(resources) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No results found")

		return nil
	}

	headers := make([]interface{}, 0, len(columns))
	for _, column := range columns {
		headers = append(headers, column.header)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header(headers...)

	for _, res := range resources {
		row := make([]interface{}, 0, len(columns))
		for _, column := range columns {
			row = append(row, fieldString(res, column.name))
		}

		_ = table.Append(row...)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func renderResource(cmd *cobra.Command, res coda.Resource) error {
	obj := res.JSON()

	done, err := encode(cmd, obj)
	if done || err != nil {
		return err
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	rows := make([][2]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, [2]string{key, formatValue(obj[key])})
	}

	return renderTable(cmd, rows)
}

// renderRecord writes value for json/yaml output and rows as a
// property/value table otherwise.
func renderRecord(cmd *cobra.Command, value interface{}, rows [][2]string) error {
	done, err := encode(cmd, value)
	if done || err != nil {
		return err
	}

	return renderTable(cmd, rows)
}

func renderTable(cmd *cobra.Command, rows [][2]string) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("Property", "Value")

	for _, row := range rows {
		_ = table.Append(row[0], row[1])
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func renderPayload(cmd *cobra.Command, payload coda.Payload, message string) error {
	done, err := encode(cmd, payload.Value())
	if done || err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), message)

	result, err := payload.Result()
	if err == nil && result.RequestID != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Request ID: %s\n", result.RequestID)
	}

	if err == nil && len(result.AddedRowIDs) > 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added rows: %s\n", strings.Join(result.AddedRowIDs, ", "))
	}

	return nil
}

func fieldString(res coda.Resource, name string) string {
	value, ok := res.Field(name)
	if !ok {
		return ""
	}

	return formatValue(value)
}

// formatValue renders a decoded JSON value for a table cell.
func formatValue(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}

		return string(data)
	}
}

// pageToken extracts the pageToken query parameter of a continuation link.
func pageToken(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}

	return parsed.Query().Get("pageToken")
}
