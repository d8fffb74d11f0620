package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfinder/engine/pkg/client"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"validate", "profile", "reviewers", "papers", "health"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestServerAddrResolution(t *testing.T) {
	opts := &RootOptions{}
	assert.Equal(t, defaultServerAddr, opts.serverAddr())

	t.Setenv("SCHOLAR_SERVER", "http://engine.internal:9090")
	assert.Equal(t, "http://engine.internal:9090", opts.serverAddr())

	opts.ServerAddr = "http://flag.wins:8081"
	assert.Equal(t, "http://flag.wins:8081", opts.serverAddr())
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateCommandAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/reviewers/validate", r.URL.Path)

		var req client.ValidateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Rules)
		assert.Equal(t, 5, req.Rules.MinimumPublications)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": client.ValidateResponse{
				Result: client.ValidationResult{
					TotalCandidates:    1,
					ValidatedReviewers: 0,
					ExcludedReviewers:  1,
					Steps: map[string]client.StepOutcome{
						"minimum_publications": {Excluded: 1, Passed: 0},
					},
				},
				Survivors: []client.Reviewer{},
			},
		})
	}))
	defer srv.Close()

	reqFile := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(reqFile, []byte(`{"candidates":[{"id":"r1","name":"Ada","publication_count":2}]}`), 0o600))

	out, err := runCommand(t, "--server", srv.URL, "validate", "-f", reqFile, "--min-publications", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Candidates:  1")
	assert.Contains(t, out, "minimum_publications")
}

func TestProfileCommandJSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/reviewers/r1/profile", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"author": map[string]interface{}{"id": "r1", "name": "Ada"},
			},
		})
	}))
	defer srv.Close()

	out, err := runCommand(t, "--server", srv.URL, "-o", "json", "profile", "r1")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Ada"`)
}

func TestHealthCommandReportsNotReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := runCommand(t, "--server", srv.URL, "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready")
}
