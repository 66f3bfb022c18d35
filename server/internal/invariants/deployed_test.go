//go:build invariants

package invariants

import (
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mycelian/mycelian-identities/devmode"
)

// TestInvariantsDeployed runs the checks against a running service, by
// default a local one started with IDENTITY_SERVICE_DEV_MODE=true.
func TestInvariantsDeployed(t *testing.T) {
	baseURL := os.Getenv("IDENTITIES_INVARIANTS_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	token := os.Getenv("IDENTITIES_INVARIANTS_TOKEN")
	if token == "" {
		token = devmode.Token
	}

	resp, err := http.Get(baseURL + "/api/health")
	if err != nil {
		t.Fatalf("service not reachable at %s: %v", baseURL, err)
	}
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	c := NewChecker(baseURL, token)
	f := c.Seed(t, fmt.Sprintf("invariants-%d", time.Now().UnixNano()))

	t.Run("SinglePrimary", func(t *testing.T) { c.CheckSinglePrimary(t, f) })
	t.Run("AttachmentRules", func(t *testing.T) { c.CheckAttachmentRules(t, f) })
	t.Run("DeleteCascades", func(t *testing.T) { c.CheckDeleteCascades(t, f) })
}
