// Package identity provides the token credential shared by the completion and search clients.
package identity

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// Token scopes for the upstream services
const (
	CognitiveServicesScope = "https://cognitiveservices.azure.com/.default"
	SearchScope            = "https://search.azure.com/.default"
)

// NewCredential returns the process-wide credential. It resolves managed identity
// in App Service and falls back to the Azure CLI login during local development.
// Tokens are cached and refreshed by the SDK.
func NewCredential() (azcore.TokenCredential, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure credential: %w", err)
	}
	return cred, nil
}

// Token fetches a bearer token for a single scope
func Token(ctx context.Context, cred azcore.TokenCredential, scope string) (string, error) {
	tok, err := cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{scope}})
	if err != nil {
		return "", fmt.Errorf("failed to get token for %s: %w", scope, err)
	}
	return tok.Token, nil
}
