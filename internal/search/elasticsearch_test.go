package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/closedrag/internal/config"
	"github.com/liliang-cn/closedrag/internal/domain"
)

func newElasticsearchTestClient(t *testing.T, handler http.HandlerFunc) *ElasticsearchClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewElasticsearchClient(ElasticsearchOptions{
		Addresses: []string{srv.URL},
		Index:     "redlist-index",
	})
	require.NoError(t, err)
	return client
}

func TestElasticsearchClient_Search(t *testing.T) {
	var gotBody map[string]interface{}
	client := newElasticsearchTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/redlist-index/_search", r.URL.Path)

		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &gotBody))

		io.WriteString(w, `{
			"took": 3,
			"hits": {
				"total": {"value": 2, "relation": "eq"},
				"hits": [
					{"_index": "redlist-index", "_id": "1", "_score": 7.5, "_source": {"content": "c1", "title": "Red List A", "url": "http://x/a"}},
					{"_index": "redlist-index", "_id": "2", "_score": 2.1, "_source": {"content": "c2", "title": "Red List B", "url": "http://x/b"}}
				]
			}
		}`)
	})

	docs, err := client.Search(context.Background(), "endangered species list", 3)
	require.NoError(t, err)

	assert.EqualValues(t, 3, gotBody["size"])
	assert.ElementsMatch(t, []interface{}{"content", "title", "url"}, gotBody["_source"])
	query := gotBody["query"].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "endangered species list", query["query"])

	assert.Equal(t, []domain.RetrievedDocument{
		{Content: "c1", Title: "Red List A", URL: "http://x/a", Score: 7.5},
		{Content: "c2", Title: "Red List B", URL: "http://x/b", Score: 2.1},
	}, docs)
}

func TestElasticsearchClient_Search_IndexNotFound(t *testing.T) {
	client := newElasticsearchTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error": {"type": "index_not_found_exception"}, "status": 404}`)
	})

	docs, err := client.Search(context.Background(), "q", 3)
	require.Error(t, err)
	assert.Nil(t, docs)
}

func TestNew_SelectsBackend(t *testing.T) {
	es, err := New(config.SearchConfig{
		Backend: config.BackendElasticsearch,
		Index:   "idx",
		Elasticsearch: config.ElasticsearchConfig{
			Addresses: []string{"http://localhost:9200"},
		},
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &ElasticsearchClient{}, es)

	az, err := New(config.SearchConfig{
		Backend:  config.BackendAzure,
		Endpoint: "https://example.search.windows.net",
		Index:    "idx",
		Key:      "k",
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &AzureClient{}, az)

	_, err = New(config.SearchConfig{Backend: "solr"}, nil)
	assert.Error(t, err)
}
