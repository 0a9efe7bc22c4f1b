package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/coda-client/pkg/coda"
)

// NewWhoAmICommand creates the whoami command.
func NewWhoAmICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user the API token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			user, err := client.Account().WhoAmI(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get current user: %w", err)
			}

			return renderRecord(cmd, user.JSON(), userRows(user))
		},
	}
}

func userRows(user *coda.User) [][2]string {
	return [][2]string{
		{"Name", user.Name()},
		{"Login", user.LoginID()},
		{"Token", valueOr(user.TokenName(), NotAvailable)},
		{"Scoped", fmt.Sprint(user.Scoped())},
		{"Workspace", valueOr(user.WorkspaceID(), NotAvailable)},
	}
}

// NewResolveLinkCommand creates the resolve-link command.
func NewResolveLinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-link URL",
		Short: "Resolve a browser URL to the API resource it points at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			link, err := client.Links().Resolve(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to resolve link: %w", err)
			}

			rows := [][2]string{{"Browser link", link.BrowserLink()}}

			if target := link.Resource(); target != nil {
				rows = append(rows,
					[2]string{"Type", string(target.Kind())},
					[2]string{"ID", target.ID()},
					[2]string{"Name", valueOr(target.Name(), NotAvailable)},
					[2]string{"Href", target.Href()},
				)
			}

			return renderRecord(cmd, link.JSON(), rows)
		},
	}
}
