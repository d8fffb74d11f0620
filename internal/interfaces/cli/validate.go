package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/scholarfinder/engine/pkg/client"
)

// newValidateCommand builds `scholarctl validate`: run the exclusion rule
// engine over a candidate pool described in a JSON file.
func newValidateCommand(opts *RootOptions) *cobra.Command {
	var (
		file                string
		minimumPublications int
		maxRetractions      int
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a reviewer candidate pool against a manuscript",
		Long:  "Reads a validation request (candidates, manuscript authors, optional rules)\nfrom a JSON file and prints the validation report. Threshold flags override\nthe rules block in the file.",
		Example: `  scholarctl validate -f request.json
  scholarctl validate -f request.json --min-publications 5 --max-retractions 0
  cat request.json | scholarctl validate -f -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req client.ValidateRequest
			if err := readJSONFile(cmd, file, &req); err != nil {
				return err
			}

			if cmd.Flags().Changed("min-publications") || cmd.Flags().Changed("max-retractions") {
				if req.Rules == nil {
					req.Rules = &client.ValidationRules{
						ExcludeManuscriptAuthors:      true,
						ExcludeCoAuthors:              true,
						ExcludeInstitutionalConflicts: true,
					}
				}
				if cmd.Flags().Changed("min-publications") {
					req.Rules.MinimumPublications = minimumPublications
				}
				if cmd.Flags().Changed("max-retractions") {
					req.Rules.MaxRetractions = maxRetractions
				}
			}

			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			resp, err := c.Reviewers().Validate(ctx, req)
			if err != nil {
				return err
			}

			if opts.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			printValidationReport(cmd, resp)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "validation request JSON file (- for stdin)")
	cmd.Flags().IntVar(&minimumPublications, "min-publications", 0, "exclude candidates below this publication count")
	cmd.Flags().IntVar(&maxRetractions, "max-retractions", 0, "exclude candidates with more retractions than this")
	return cmd
}

func printValidationReport(cmd *cobra.Command, resp *client.ValidateResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Candidates:  %d\n", resp.Result.TotalCandidates)
	fmt.Fprintf(out, "Validated:   %d\n", resp.Result.ValidatedReviewers)
	fmt.Fprintf(out, "Excluded:    %d\n", resp.Result.ExcludedReviewers)

	if len(resp.Result.Steps) > 0 {
		fmt.Fprintln(out, "\nPer-rule diagnostics:")
		names := make([]string, 0, len(resp.Result.Steps))
		for name := range resp.Result.Steps {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			step := resp.Result.Steps[name]
			fmt.Fprintf(out, "  %-26s excluded=%d passed=%d\n", name, step.Excluded, step.Passed)
		}
	}

	if len(resp.Survivors) > 0 {
		fmt.Fprintln(out, "\nValidated reviewers:")
		for _, r := range resp.Survivors {
			fmt.Fprintf(out, "  %s  %s\n", r.ID, r.Name)
		}
	}
}
