package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/liliang-cn/closedrag/internal/domain"
)

// ElasticsearchOptions configures an ElasticsearchClient
type ElasticsearchOptions struct {
	Addresses []string
	Username  string
	Password  string
	Index     string
}

// ElasticsearchClient queries a self-hosted index holding the same content/title/url documents
type ElasticsearchClient struct {
	es    *elasticsearch.Client
	index string
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64 `json:"_score"`
			Source struct {
				Content string `json:"content"`
				Title   string `json:"title"`
				URL     string `json:"url"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// NewElasticsearchClient creates a new Elasticsearch-backed search client
func NewElasticsearchClient(opts ElasticsearchOptions) (*ElasticsearchClient, error) {
	if opts.Index == "" {
		return nil, errors.New("search index is required")
	}

	esCfg := elasticsearch.Config{
		Addresses:    opts.Addresses,
		DisableRetry: true,
	}
	if opts.Username != "" {
		esCfg.Username = opts.Username
		esCfg.Password = opts.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &ElasticsearchClient{es: es, index: opts.Index}, nil
}

// Search runs a multi_match query over title and content
func (c *ElasticsearchClient) Search(ctx context.Context, query string, topK int) ([]domain.RetrievedDocument, error) {
	body := map[string]interface{}{
		"size":    topK,
		"_source": selectedFields,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^2", "content"},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search error: %s", res.Status())
	}

	var out esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	docs := make([]domain.RetrievedDocument, 0, len(out.Hits.Hits))
	for _, hit := range out.Hits.Hits {
		docs = append(docs, domain.RetrievedDocument{
			Content: hit.Source.Content,
			Title:   hit.Source.Title,
			URL:     hit.Source.URL,
			Score:   hit.Score,
		})
	}
	return docs, nil
}
