package commands

import (
	"context"
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/coda-client/internal/constants"
	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// collection is the List/Get pair every endpoint client provides.
type collection[T coda.Resource] interface {
	List(ctx context.Context, opts *coda.ListOptions) (*coda.Page, error)
	Get(ctx context.Context, id string) (T, error)
}

// scope names the positional arguments that locate a collection.
type scope []string

var (
	topLevel   = scope{}
	docScope   = scope{"DOC_ID"}
	tableScope = scope{"DOC_ID", "TABLE_ID"}
)

func (s scope) use(verb string, extra ...string) string {
	use := verb
	for _, arg := range append(append([]string(nil), s...), extra...) {
		use += " " + arg
	}

	return use
}

// refs builds doc and table references from the leading arguments.
func (s scope) refs(client coda.Client, args []string) (*coda.Doc, *coda.Table) {
	var (
		doc   *coda.Doc
		table *coda.Table
	)

	if len(s) > 0 {
		doc = coda.RefDoc(client, args[0])
	}

	if len(s) > 1 {
		table = coda.RefTable(client, doc, args[1])
	}

	return doc, table
}

// resourceGroup describes a resource command group.
type resourceGroup struct {
	use     string
	aliases []string
	short   string
	noun    string
	scope   scope
	columns []field
	filters func(*listFlags, *cobra.Command)
}

// newCollectionCommand builds a command group with list and get subcommands.
func newCollectionCommand[T coda.Resource](
	group resourceGroup, open func(client coda.Client, doc *coda.Doc, table *coda.Table) collection[T],
) *cobra.Command {
	cmd := &cobra.Command{
		Use:     group.use,
		Aliases: group.aliases,
		Short:   group.short,
	}

	cmd.AddCommand(newListCommand(group, open))
	cmd.AddCommand(newGetCommand(group, open))

	return cmd
}

func newListCommand[T coda.Resource](
	group resourceGroup, open func(coda.Client, *coda.Doc, *coda.Table) collection[T],
) *cobra.Command {
	var flags *listFlags

	cmd := &cobra.Command{
		Use:   group.scope.use("list"),
		Short: fmt.Sprintf("List %ss", group.noun),
		Args:  cobra.ExactArgs(len(group.scope)),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			doc, table := group.scope.refs(client, args)

			resources, err := listResources(cmd, open(client, doc, table), flags)
			if err != nil {
				return fmt.Errorf("failed to list %ss: %w", group.noun, err)
			}

			return renderResources(cmd, resources, group.columns)
		},
	}

	flags = addListFlags(cmd)
	if group.filters != nil {
		group.filters(flags, cmd)
	}

	return cmd
}

func newGetCommand[T coda.Resource](
	group resourceGroup, open func(coda.Client, *coda.Doc, *coda.Table) collection[T],
) *cobra.Command {
	idArg := "ID"
	if group.noun != "" {
		idArg = strcase.ToScreamingSnake(group.noun) + "_ID"
	}

	return &cobra.Command{
		Use:   group.scope.use("get", idArg),
		Short: fmt.Sprintf("Get %s details", group.noun),
		Args:  cobra.ExactArgs(len(group.scope) + 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			doc, table := group.scope.refs(client, args)

			res, err := open(client, doc, table).Get(cmd.Context(), args[len(group.scope)])
			if err != nil {
				return fmt.Errorf("failed to get %s: %w", group.noun, err)
			}

			return renderResource(cmd, res)
		},
	}
}

// listFlags are the pagination and filter flags of a list command.
type listFlags struct {
	limit       int
	pageToken   string
	all         bool
	filters     map[string]*string
	boolFilters map[string]*bool
	flagNames   map[string]string
}

func addListFlags(cmd *cobra.Command) *listFlags {
	flags := &listFlags{
		filters:     make(map[string]*string),
		boolFilters: make(map[string]*bool),
		flagNames:   make(map[string]string),
	}

	cmd.Flags().IntVar(&flags.limit, "limit", constants.DefaultPageSize, "maximum items per page")
	cmd.Flags().StringVar(&flags.pageToken, "page-token", "", "continue from a previous page")
	cmd.Flags().BoolVar(&flags.all, "all", false, "fetch every page")

	return flags
}

// filter registers a string flag forwarded as the list filter key.
func (f *listFlags) filter(cmd *cobra.Command, flagName, key, usage string) {
	f.filters[key] = cmd.Flags().String(flagName, "", usage)
	f.flagNames[key] = flagName
}

// boolFilter registers a boolean flag forwarded as the list filter key.
func (f *listFlags) boolFilter(cmd *cobra.Command, flagName, key, usage string) {
	f.boolFilters[key] = cmd.Flags().Bool(flagName, false, usage)
	f.flagNames[key] = flagName
}

// options builds list options from the flags the user actually set.
func (f *listFlags) options(cmd *cobra.Command) *coda.ListOptions {
	opts := coda.NewListOptions().WithLimit(min(f.limit, constants.MaxPageSize)).WithPageToken(f.pageToken)

	for key, value := range f.filters {
		if cmd.Flags().Changed(f.flagNames[key]) {
			opts.WithFilter(key, *value)
		}
	}

	for key, value := range f.boolFilters {
		if cmd.Flags().Changed(f.flagNames[key]) {
			opts.WithBoolFilter(key, *value)
		}
	}

	return opts
}

type lister interface {
	List(ctx context.Context, opts *coda.ListOptions) (*coda.Page, error)
}

// listResources fetches the first page, or every page with --all.
func listResources(cmd *cobra.Command, source lister, flags *listFlags) ([]coda.Resource, error) {
	page, err := source.List(cmd.Context(), flags.options(cmd))
	if err != nil {
		return nil, err
	}

	if flags.all {
		return coda.NewPageIterator(cmd.Context(), page).All()
	}

	if page.HasNextPage() {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "More results available, use --all or --page-token %s\n", pageToken(page.NextPageLink()))
	}

	return page.Items(), nil
}
