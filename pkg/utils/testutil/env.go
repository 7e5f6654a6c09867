package testutil

import (
	"os"
	"testing"

	"github.com/m-mizutani/freshness/pkg/domain/types"
)

// EnvGitHubToken holds the token used by tests that call the live GitHub API
const EnvGitHubToken = "TEST_GITHUB_TOKEN"

// GitHubTokenOrSkip returns the token in TEST_GITHUB_TOKEN, or skips t when
// it is unset so that the default test run stays offline.
func GitHubTokenOrSkip(t *testing.T) types.GitHubToken {
	t.Helper()

	token, ok := os.LookupEnv(EnvGitHubToken)
	if !ok || token == "" {
		t.Skipf("%s is not set, skip live GitHub test", EnvGitHubToken)
	}
	return types.GitHubToken(token)
}
