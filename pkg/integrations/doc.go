// Package integrations provides the shared HTTP client base for upstream
// APIs.
//
// # Client
//
// [Client] wraps net/http with default headers, JSON request and response
// bodies, retry of idempotent GET requests through [httputil.Retry], and a
// value cache on top of [cache.Cache]:
//
//	c := integrations.NewClient(store, "", time.Hour, map[string]string{"xc-token": token})
//	var out struct{ List []Table `json:"list"` }
//	status, err := c.Do(ctx, integrations.Request{Method: "GET", URL: u}, &out)
//
// Non-2xx responses surface as [*StatusError], which unwraps to
// [ErrNotFound], [ErrRateLimited] or [ErrNetwork] where applicable.
//
// Upstream-specific clients live in subpackages:
//
//   - [nocodb]: NocoDB meta (v2) and data (v3) APIs
//
// [nocodb]: github.com/matzehuels/mcptools/pkg/integrations/nocodb
// [httputil.Retry]: github.com/matzehuels/mcptools/pkg/httputil.Retry
// [cache.Cache]: github.com/matzehuels/mcptools/pkg/cache.Cache
package integrations
