package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/coda-client/internal/constants"
	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// NewDocsCommand creates the docs command group.
func NewDocsCommand() *cobra.Command {
	cmd := newCollectionCommand(resourceGroup{
		use:     "docs",
		aliases: []string{"doc"},
		short:   "Manage docs",
		noun:    "doc",
		scope:   topLevel,
		columns: fields("id", "name", "owner_name", "updated_at"),
		filters: func(flags *listFlags, cmd *cobra.Command) {
			flags.boolFilter(cmd, "owned", "is_owner", "only docs owned by the token user")
			flags.filter(cmd, "query", "query", "search term matched against doc names")
			flags.filter(cmd, "source-doc", "source_doc_id", "only copies of this doc")
			flags.filter(cmd, "workspace", "workspace_id", "only docs in this workspace")
			flags.filter(cmd, "folder", "folder_id", "only docs in this folder")
		},
	}, func(client coda.Client, _ *coda.Doc, _ *coda.Table) collection[*coda.Doc] {
		return client.Docs()
	})

	cmd.AddCommand(newDocsCreateCommand())
	cmd.AddCommand(newDocsDeleteCommand())

	return cmd
}

func newDocsCreateCommand() *cobra.Command {
	request := &coda.DocCreateRequest{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a doc",
		Long:  "Create an empty doc, or a copy of --source-doc",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			doc, err := client.Docs().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create doc: %w", err)
			}

			return renderResource(cmd, doc)
		},
	}

	cmd.Flags().StringVar(&request.Title, "title", "", "doc title")
	cmd.Flags().StringVar(&request.SourceDoc, "source-doc", "", "doc to copy")
	cmd.Flags().StringVar(&request.FolderID, "folder", "", "folder to place the doc in")
	cmd.Flags().StringVar(&request.Timezone, "timezone", "", "doc timezone, e.g. America/Los_Angeles")

	return cmd
}

func newDocsDeleteCommand() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "delete DOC_ID...",
		Short: "Delete docs",
		Long:  "Delete one or more docs. Deletions run in parallel, bounded by --concurrency.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			builder := coda.NewBatchBuilder()
			for _, id := range args {
				builder.AddDeleteDoc(id, id)
			}

			return runBatch(cmd, client, concurrency, builder.Build(), "Deleted doc")
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultConcurrencyLimit, "maximum parallel requests")

	return cmd
}

// runBatch executes operations and reports one line per operation.
func runBatch(cmd *cobra.Command, client coda.Client, concurrency int, operations []coda.BatchOperation, verb string) error {
	results, err := coda.NewBatchExecutor(client, concurrency).Execute(cmd.Context(), operations)

	for _, result := range results {
		if result.Success {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, result.ID)
		} else {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Failed %s: %v\n", result.ID, result.Error)
		}
	}

	return err
}

// NewSectionsCommand creates the sections command group.
func NewSectionsCommand() *cobra.Command {
	return newCollectionCommand(resourceGroup{
		use:     "sections",
		aliases: []string{"section", "pages"},
		short:   "List and inspect the sections of a doc",
		noun:    "section",
		scope:   docScope,
		columns: fields("id", "name", "browser_link"),
	}, func(client coda.Client, doc *coda.Doc, _ *coda.Table) collection[*coda.Section] {
		return client.Sections(doc)
	})
}

// NewFoldersCommand creates the folders command group.
func NewFoldersCommand() *cobra.Command {
	return newCollectionCommand(resourceGroup{
		use:     "folders",
		aliases: []string{"folder"},
		short:   "List and inspect the folders of a doc",
		noun:    "folder",
		scope:   docScope,
		columns: fields("id", "name"),
	}, func(client coda.Client, doc *coda.Doc, _ *coda.Table) collection[*coda.Folder] {
		return client.Folders(doc)
	})
}

// NewColumnsCommand creates the columns command group.
func NewColumnsCommand() *cobra.Command {
	return newCollectionCommand(resourceGroup{
		use:     "columns",
		aliases: []string{"column", "cols"},
		short:   "List and inspect the columns of a table",
		noun:    "column",
		scope:   tableScope,
		columns: fields("id", "name", "display", "calculated"),
		filters: func(flags *listFlags, cmd *cobra.Command) {
			flags.boolFilter(cmd, "visible-only", "visible_only", "only columns visible in the table")
		},
	}, func(client coda.Client, doc *coda.Doc, table *coda.Table) collection[*coda.Column] {
		return client.Columns(doc, table)
	})
}

// NewFormulasCommand creates the formulas command group.
func NewFormulasCommand() *cobra.Command {
	return newCollectionCommand(resourceGroup{
		use:     "formulas",
		aliases: []string{"formula"},
		short:   "List and inspect the named formulas of a doc",
		noun:    "formula",
		scope:   docScope,
		columns: fields("id", "name", "value"),
	}, func(client coda.Client, doc *coda.Doc, _ *coda.Table) collection[*coda.Formula] {
		return client.Formulas(doc)
	})
}

// NewControlsCommand creates the controls command group.
func NewControlsCommand() *cobra.Command {
	return newCollectionCommand(resourceGroup{
		use:     "controls",
		aliases: []string{"control"},
		short:   "List and inspect the controls of a doc",
		noun:    "control",
		scope:   docScope,
		columns: fields("id", "name", "control_type", "value"),
	}, func(client coda.Client, doc *coda.Doc, _ *coda.Table) collection[*coda.Control] {
		return client.Controls(doc)
	})
}
