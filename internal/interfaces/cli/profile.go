package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newProfileCommand builds `scholarctl profile <reviewer-id>`.
func newProfileCommand(opts *RootOptions) *cobra.Command {
	var (
		noNetwork      bool
		noPublications bool
	)

	cmd := &cobra.Command{
		Use:   "profile <reviewer-id>",
		Short: "Fetch the detailed analysis profile for one reviewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			detail, err := c.Reviewers().Profile(ctx, args[0], !noNetwork, !noPublications)
			if err != nil {
				return err
			}

			if opts.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), detail)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reviewer:     %s (%s)\n", detail.Author.Name, detail.Author.ID)
			if detail.Author.Email != "" {
				fmt.Fprintf(out, "Email:        %s\n", detail.Author.Email)
			}
			fmt.Fprintf(out, "Publications: %d\n", detail.Author.PublicationCount)
			fmt.Fprintf(out, "Retractions:  %d\n", detail.Author.Retractions)

			sections := map[string]bool{
				"researchProfile":     detail.ResearchProfile != nil,
				"networkAnalysis":     detail.NetworkAnalysis != nil,
				"publicationHistory":  detail.PublicationHistory != nil,
				"profileCompleteness": detail.ProfileCompleteness != nil,
			}
			fmt.Fprintln(out, "\nSections:")
			for _, name := range []string{"researchProfile", "networkAnalysis", "publicationHistory", "profileCompleteness"} {
				state := "absent"
				if sections[name] {
					state = "present"
				}
				fmt.Fprintf(out, "  %-20s %s\n", name, state)
			}
			fmt.Fprintln(out, "\nUse -o json for the full document.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noNetwork, "no-network", false, "skip co-authorship network analysis")
	cmd.Flags().BoolVar(&noPublications, "no-publications", false, "skip publication history synthesis")
	return cmd
}
