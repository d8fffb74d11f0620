package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newHealthCommand builds `scholarctl health`: probe the engine's readiness
// endpoint. Exits non-zero when the engine is not ready.
func newHealthCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the engine is ready to serve requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			if err := c.Healthy(ctx); err != nil {
				return fmt.Errorf("engine at %s is not ready: %w", opts.serverAddr(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "engine at %s is ready\n", opts.serverAddr())
			return nil
		},
	}
}
