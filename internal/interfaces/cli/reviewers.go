package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarfinder/engine/pkg/client"
)

// newReviewersCommand builds the `scholarctl reviewers` resource group.
func newReviewersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviewers",
		Short: "Manage reviewer records",
	}
	cmd.AddCommand(
		newReviewersCreateCommand(opts),
		newReviewersGetCommand(opts),
		newReviewersSearchCommand(opts),
		newReviewersDeleteCommand(opts),
	)
	return cmd
}

func newReviewersCreateCommand(opts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register reviewers from a JSON file",
		Long:  "The file may hold a single reviewer object or an array; arrays are\nregistered through the batch endpoint with per-item error reporting.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if err := readJSONFile(cmd, file, &raw); err != nil {
				return err
			}
			var batch []client.Reviewer
			if err := json.Unmarshal(raw, &batch); err != nil {
				var single client.Reviewer
				if err := json.Unmarshal(raw, &single); err != nil {
					return fmt.Errorf("input is neither a reviewer nor a reviewer array: %w", err)
				}
				batch = []client.Reviewer{single}
			}

			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			result, err := c.Reviewers().BatchCreate(ctx, batch)
			if err != nil {
				return err
			}
			if opts.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d reviewer(s), %d error(s)\n", len(result.Created), len(result.Errors))
			for _, e := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", e.Code, e.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "reviewer JSON file (- for stdin)")
	return cmd
}

func newReviewersGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <reviewer-id>",
		Short: "Fetch one reviewer record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			rec, err := c.Reviewers().Get(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
}

func newReviewersSearchCommand(opts *RootOptions) *cobra.Command {
	var (
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search reviewers by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			reviewers, pg, err := c.Reviewers().Search(ctx, query, page, pageSize)
			if err != nil {
				return err
			}
			if opts.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), reviewers)
			}
			out := cmd.OutOrStdout()
			for _, r := range reviewers {
				fmt.Fprintf(out, "%s  %-30s pubs=%d retractions=%d\n", r.ID, r.Name, r.PublicationCount, r.Retractions)
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

func newReviewersDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <reviewer-id>",
		Short: "Delete one reviewer record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			if err := c.Reviewers().Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
