// Package search retrieves ranked documents from the configured search index.
package search

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/liliang-cn/closedrag/internal/config"
)

// DefaultTopK is the number of documents fetched per question
const DefaultTopK = 3

// selectedFields are the only document fields read from the index
var selectedFields = []string{"content", "title", "url"}

// New builds the client for the configured backend.
// cred is only used by the azure backend when no search key is configured.
func New(cfg config.SearchConfig, cred azcore.TokenCredential) (Client, error) {
	var (
		client Client
		err    error
	)
	switch cfg.Backend {
	case config.BackendAzure:
		client, err = NewAzureClient(AzureOptions{
			Endpoint:   cfg.Endpoint,
			Index:      cfg.Index,
			Key:        cfg.Key,
			Credential: cred,
		})
	case config.BackendElasticsearch:
		client, err = NewElasticsearchClient(ElasticsearchOptions{
			Addresses: cfg.Elasticsearch.Addresses,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
			Index:     cfg.Index,
		})
	default:
		return nil, fmt.Errorf("unknown search backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}
