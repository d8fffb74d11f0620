// Package cli implements the scholarctl command tree: a thin client over the
// engine's REST API for operators and batch scripts.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scholarfinder/engine/pkg/client"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global flags shared by every subcommand.
type RootOptions struct {
	ServerAddr   string
	APIKey       string
	Timeout      time.Duration
	OutputFormat string
}

const defaultServerAddr = "http://localhost:8080"

// serverAddr resolves the API address from the flag, then the environment,
// then the default.
func (o *RootOptions) serverAddr() string {
	if o.ServerAddr != "" {
		return o.ServerAddr
	}
	if addr := os.Getenv("SCHOLAR_SERVER"); addr != "" {
		return addr
	}
	return defaultServerAddr
}

// newClient builds the SDK client from the resolved options.
func (o *RootOptions) newClient() (*client.Client, error) {
	opts := []client.Option{}
	if o.APIKey != "" {
		opts = append(opts, client.WithAPIKey(o.APIKey))
	}
	return client.NewClient(o.serverAddr(), opts...)
}

// NewRootCommand builds the scholarctl root command with all subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "scholarctl",
		Short:   "ScholarFinder CLI — reviewer validation and profile analysis",
		Long:    "scholarctl drives a ScholarFinder engine deployment: validate reviewer\ncandidate pools against a manuscript, inspect reviewer profiles, and manage\nthe papers and reviewers the engine knows about.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ServerAddr, "server", "s", "", "API server address (default: $SCHOLAR_SERVER or http://localhost:8080)")
	pf.StringVar(&opts.APIKey, "api-key", "", "bearer token sent with every request")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per-request timeout")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")

	cmd.AddCommand(
		newValidateCommand(opts),
		newProfileCommand(opts),
		newReviewersCommand(opts),
		newPapersCommand(opts),
		newHealthCommand(opts),
	)
	return cmd
}

// Execute runs the CLI and returns the first command error.
func Execute() error {
	return NewRootCommand().Execute()
}

// printJSON writes v as indented JSON to out.
func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readJSONFile decodes a JSON document from path, or from stdin when path
// is "-".
func readJSONFile(cmd *cobra.Command, path string, v interface{}) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
