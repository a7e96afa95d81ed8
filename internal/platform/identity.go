package platform

import (
	"context"
	"fmt"
	"strings"
)

// GetIdentity reports what the client is connected to. Version lookup
// failures degrade to an identity without a version rather than an error.
func (c *Client) GetIdentity(ctx context.Context) *IdentityResult {
	identity := &Identity{
		APIURL: c.apiURL,
		Mode:   "server",
	}
	if strings.Contains(c.apiURL, "api.prefect.cloud") {
		identity.Mode = "cloud"
	}

	var version string
	if err := c.get(ctx, "/admin/version", &version); err == nil {
		identity.Version = version
	} else if identity.Mode == "server" {
		return &IdentityResult{
			Identity: identity,
			Error:    fmt.Sprintf("failed to read server version: %v", err),
		}
	}

	return &IdentityResult{Success: true, Identity: identity}
}
