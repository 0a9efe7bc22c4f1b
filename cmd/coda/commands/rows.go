package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/coda-client/internal/constants"
	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

const cellsHelp = `Cells are given as COLUMN=VALUE, where COLUMN is a column id or name.
VALUE is parsed as JSON when possible (numbers, booleans, arrays), otherwise
sent as a string.`

// NewRowsCommand creates the rows command group.
func NewRowsCommand() *cobra.Command {
	cmd := newCollectionCommand(resourceGroup{
		use:     "rows",
		aliases: []string{"row"},
		short:   "Read and modify the rows of a table",
		noun:    "row",
		scope:   tableScope,
		columns: fields("id", "index", "name", "updated_at"),
		filters: func(flags *listFlags, cmd *cobra.Command) {
			flags.filter(cmd, "query", "query", `filter as "COLUMN":VALUE, e.g. '"Status":"Done"'`)
			flags.filter(cmd, "sort-by", "sort_by", "sort order (createdAt, natural, updatedAt)")
			flags.boolFilter(cmd, "use-column-names", "use_column_names", "key values by column name instead of id")
			flags.filter(cmd, "value-format", "value_format", "simple, simpleWithArrays or rich")
			flags.boolFilter(cmd, "visible-only", "visible_only", "only rows visible in the table")
			flags.filter(cmd, "sync-token", "sync_token", "only rows changed since this sync token")
		},
	}, func(client coda.Client, doc *coda.Doc, table *coda.Table) collection[*coda.Row] {
		return client.Rows(doc, table)
	})

	cmd.AddCommand(newRowsInsertCommand())
	cmd.AddCommand(newRowsUpdateCommand())
	cmd.AddCommand(newRowsDeleteCommand())

	return cmd
}

func newRowsInsertCommand() *cobra.Command {
	var (
		cells      []string
		dataFile   string
		keyColumns []string
	)

	cmd := &cobra.Command{
		Use:   tableScope.use("insert"),
		Short: "Insert or upsert rows",
		Long: "Insert one row from --cell flags, or many rows from a JSON or YAML list of objects in --data.\n" +
			"With --key-column, rows matching existing rows on those columns update them instead.\n\n" + cellsHelp,
		Args: cobra.ExactArgs(constants.DocTableArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := rowsFromFlags(cmd, cells, dataFile)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			refs := make([]coda.ColumnRef, 0, len(keyColumns))
			for _, key := range keyColumns {
				refs = append(refs, coda.ColumnID(key))
			}

			doc, table := tableScope.refs(client, args)

			payload, err := client.Rows(doc, table).Insert(cmd.Context(), rows, refs...)
			if err != nil {
				return fmt.Errorf("failed to insert rows: %w", err)
			}

			return renderPayload(cmd, payload, fmt.Sprintf("Submitted %d row(s)", len(rows)))
		},
	}

	cmd.Flags().StringArrayVar(&cells, "cell", nil, "cell as COLUMN=VALUE (repeatable)")
	cmd.Flags().StringVar(&dataFile, "data", "", "file with a list of row objects, - for stdin")
	cmd.Flags().StringSliceVar(&keyColumns, "key-column", nil, "upsert key column (repeatable)")

	return cmd
}

func newRowsUpdateCommand() *cobra.Command {
	var cells []string

	cmd := &cobra.Command{
		Use:   tableScope.use("update", "ROW_ID"),
		Short: "Update a row",
		Long:  "Update the given cells of a row.\n\n" + cellsHelp,
		Args:  cobra.ExactArgs(constants.DocTableRowArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			rowCells, err := parseCells(cells)
			if err != nil {
				return err
			}

			if len(rowCells) == 0 {
				return ErrNoCells
			}

			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			doc, table := tableScope.refs(client, args)

			payload, err := client.Rows(doc, table).Update(cmd.Context(), args[2], rowCells)
			if err != nil {
				return fmt.Errorf("failed to update row: %w", err)
			}

			return renderPayload(cmd, payload, "Submitted update of row "+args[2])
		},
	}

	cmd.Flags().StringArrayVar(&cells, "cell", nil, "cell as COLUMN=VALUE (repeatable)")

	return cmd
}

func newRowsDeleteCommand() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   tableScope.use("delete", "ROW_ID..."),
		Short: "Delete rows",
		Long:  "Delete one or more rows. Deletions run in parallel, bounded by --concurrency.",
		Args:  cobra.MinimumNArgs(constants.DocTableRowArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			builder := coda.NewBatchBuilder()
			for _, rowID := range args[2:] {
				builder.AddDeleteRow(rowID, args[0], args[1], rowID)
			}

			return runBatch(cmd, client, concurrency, builder.Build(), "Deleted row")
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultConcurrencyLimit, "maximum parallel requests")

	return cmd
}

func rowsFromFlags(cmd *cobra.Command, cells []string, dataFile string) ([]coda.RowCells, error) {
	var rows []coda.RowCells

	if dataFile != "" {
		loaded, err := loadRows(cmd, dataFile)
		if err != nil {
			return nil, err
		}

		rows = append(rows, loaded...)
	}

	if len(cells) > 0 {
		rowCells, err := parseCells(cells)
		if err != nil {
			return nil, err
		}

		rows = append(rows, rowCells)
	}

	if len(rows) == 0 {
		return nil, ErrNoCells
	}

	return rows, nil
}

// loadRows reads a YAML (or JSON) list of objects mapping columns to values.
func loadRows(cmd *cobra.Command, path string) ([]coda.RowCells, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		// path is supplied by the user running the CLI
		data, err = os.ReadFile(path) // #nosec G304
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var objects []map[string]interface{}

	err = yaml.Unmarshal(data, &objects)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rows: %w", err)
	}

	rows := make([]coda.RowCells, 0, len(objects))
	for _, obj := range objects {
		rows = append(rows, coda.CellsFromMap(obj))
	}

	return rows, nil
}

func parseCells(pairs []string) (coda.RowCells, error) {
	values := make(map[string]interface{}, len(pairs))

	for _, pair := range pairs {
		column, raw, ok := strings.Cut(pair, "=")
		if !ok || column == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCell, pair)
		}

		values[column] = parseCellValue(raw)
	}

	return coda.CellsFromMap(values), nil
}

func parseCellValue(raw string) interface{} {
	var value interface{}

	if json.Unmarshal([]byte(raw), &value) == nil {
		return value
	}

	return raw
}
