package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/coda-client/internal/constants"
	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// NewTablesCommand creates the tables command group.
func NewTablesCommand() *cobra.Command {
	cmd := newCollectionCommand(resourceGroup{
		use:     "tables",
		aliases: []string{"table"},
		short:   "List and inspect the tables and views of a doc",
		noun:    "table",
		scope:   docScope,
		columns: fields("id", "name", "table_type"),
		filters: func(flags *listFlags, cmd *cobra.Command) {
			flags.filter(cmd, "sort-by", "sort_by", "sort order, e.g. name")
			flags.filter(cmd, "types", "table_types", "comma-separated table types (table, view)")
		},
	}, func(client coda.Client, doc *coda.Doc, _ *coda.Table) collection[*coda.Table] {
		return client.Tables(doc)
	})

	cmd.AddCommand(newTablesMarkdownCommand())

	return cmd
}

func newTablesMarkdownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   tableScope.use("markdown"),
		Short: "Print a table as Markdown",
		Long:  "Fetch every column and row of a table and print it as a Markdown table, rows in table order",
		Args:  cobra.ExactArgs(constants.DocTableArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			doc, table := tableScope.refs(client, args)

			columns, err := fetchAll[*coda.Column](cmd, client.Columns(doc, table))
			if err != nil {
				return fmt.Errorf("failed to list columns: %w", err)
			}

			rows, err := fetchAll[*coda.Row](cmd, client.Rows(doc, table))
			if err != nil {
				return fmt.Errorf("failed to list rows: %w", err)
			}

			return writeMarkdown(cmd.OutOrStdout(), columns, rows)
		},
	}
}

// fetchAll walks every page of source and keeps the items of type T.
func fetchAll[T coda.Resource](cmd *cobra.Command, source lister) ([]T, error) {
	page, err := source.List(cmd.Context(), coda.NewListOptions().WithLimit(constants.MaxPageSize))
	if err != nil {
		return nil, err
	}

	resources, err := coda.NewPageIterator(cmd.Context(), page).All()
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(resources))

	for _, res := range resources {
		typed, err := coda.As[T](res)
		if err != nil {
			return nil, err
		}

		out = append(out, typed)
	}

	return out, nil
}

func writeMarkdown(out io.Writer, columns []*coda.Column, rows []*coda.Row) error {
	names := make([]string, 0, len(columns))
	separators := make([]string, 0, len(columns))

	for _, column := range columns {
		names = append(names, column.Name())
		separators = append(separators, "---")
	}

	lines := []string{strings.Join(names, " | "), strings.Join(separators, " | ")}

	sorted := append([]*coda.Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index() < sorted[j].Index() })

	for _, row := range sorted {
		cells := make([]string, 0, len(columns))

		for _, column := range columns {
			value, _ := row.Value(column)
			cells = append(cells, formatValue(value))
		}

		lines = append(lines, strings.Join(cells, " | "))
	}

	_, err := io.WriteString(out, strings.Join(lines, "\n")+"\n")

	return err
}
