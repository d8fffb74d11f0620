package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarfinder/engine/pkg/client"
)

// newPapersCommand builds the `scholarctl papers` resource group.
func newPapersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "papers",
		Short: "Manage manuscript records",
	}
	cmd.AddCommand(
		newPapersCreateCommand(opts),
		newPapersGetCommand(opts),
		newPapersListCommand(opts),
		newPapersDeleteCommand(opts),
	)
	return cmd
}

func newPapersCreateCommand(opts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit a manuscript from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var p client.Paper
			if err := readJSONFile(cmd, file, &p); err != nil {
				return err
			}

			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			created, err := c.Papers().Create(ctx, p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "paper JSON file (- for stdin)")
	return cmd
}

func newPapersGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <paper-id>",
		Short: "Fetch one manuscript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			p, err := c.Papers().Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
}

func newPapersListCommand(opts *RootOptions) *cobra.Command {
	var (
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List manuscripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			papers, pg, err := c.Papers().List(ctx, page, pageSize)
			if err != nil {
				return err
			}
			if opts.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), papers)
			}
			out := cmd.OutOrStdout()
			for _, p := range papers {
				fmt.Fprintf(out, "%s  %-50s authors=%d\n", p.ID, p.Title, len(p.AuthorNames))
			}
			if pg != nil {
				fmt.Fprintf(out, "\npage %d of %d total\n", pg.Page, pg.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "results per page")
	return cmd
}

func newPapersDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <paper-id>",
		Short: "Delete one manuscript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			if err := c.Papers().Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
