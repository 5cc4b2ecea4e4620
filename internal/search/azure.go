package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/liliang-cn/closedrag/internal/domain"
	"github.com/liliang-cn/closedrag/internal/identity"
)

const (
	azureModuleName    = "closedrag/search"
	azureModuleVersion = "v1.0.0"
	azureAPIVersion    = "2023-11-01"
	azureKeyHeader     = "api-key"
)

// AzureOptions configures an AzureClient. Key takes precedence over Credential.
type AzureOptions struct {
	Endpoint      string
	Index         string
	Key           string
	Credential    azcore.TokenCredential
	ClientOptions *policy.ClientOptions
}

// AzureClient queries an Azure AI Search index over its REST API
type AzureClient struct {
	endpoint string
	index    string
	pipeline runtime.Pipeline
}

type azureSearchRequest struct {
	Search string `json:"search"`
	Top    int    `json:"top"`
	Select string `json:"select"`
}

type azureSearchResponse struct {
	Value []azureSearchHit `json:"value"`
}

type azureSearchHit struct {
	Score   float64 `json:"@search.score"`
	Content string  `json:"content"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
}

// NewAzureClient creates a search client authenticated with the key or, if absent, the credential
func NewAzureClient(opts AzureOptions) (*AzureClient, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("search endpoint is required")
	}

	var auth policy.Policy
	switch {
	case opts.Key != "":
		auth = runtime.NewKeyCredentialPolicy(azcore.NewKeyCredential(opts.Key), azureKeyHeader, nil)
	case opts.Credential != nil:
		auth = runtime.NewBearerTokenPolicy(opts.Credential, []string{identity.SearchScope}, nil)
	default:
		return nil, errors.New("search key or credential is required")
	}

	clientOpts := policy.ClientOptions{}
	if opts.ClientOptions != nil {
		clientOpts = *opts.ClientOptions
	}
	// One attempt per question; a failed search degrades to an answer without context.
	clientOpts.Retry.MaxRetries = -1

	pl := runtime.NewPipeline(azureModuleName, azureModuleVersion, runtime.PipelineOptions{
		PerRetry: []policy.Policy{auth},
	}, &clientOpts)

	return &AzureClient{
		endpoint: strings.TrimSuffix(opts.Endpoint, "/"),
		index:    opts.Index,
		pipeline: pl,
	}, nil
}

// Search runs a full-text query and returns at most topK documents
func (c *AzureClient) Search(ctx context.Context, query string, topK int) ([]domain.RetrievedDocument, error) {
	endpoint := runtime.JoinPaths(c.endpoint, "indexes", url.PathEscape(c.index), "docs", "search")
	req, err := runtime.NewRequest(ctx, http.MethodPost, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	q := req.Raw().URL.Query()
	q.Set("api-version", azureAPIVersion)
	req.Raw().URL.RawQuery = q.Encode()
	req.Raw().Header.Set("Accept", "application/json")

	body := azureSearchRequest{
		Search: query,
		Top:    topK,
		Select: strings.Join(selectedFields, ","),
	}
	if err := runtime.MarshalAsJSON(req, body); err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	resp, err := c.pipeline.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		return nil, runtime.NewResponseError(resp)
	}

	var out azureSearchResponse
	if err := runtime.UnmarshalAsJSON(resp, &out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	docs := make([]domain.RetrievedDocument, 0, len(out.Value))
	for _, hit := range out.Value {
		docs = append(docs, domain.RetrievedDocument{
			Content: hit.Content,
			Title:   hit.Title,
			URL:     hit.URL,
			Score:   hit.Score,
		})
	}
	return docs, nil
}
