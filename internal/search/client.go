package search

import (
	"context"

	"github.com/liliang-cn/closedrag/internal/domain"
)

// Client is implemented by every search backend.
// Results are ordered by descending relevance as reported by the backend.
type Client interface {
	Search(ctx context.Context, query string, topK int) ([]domain.RetrievedDocument, error)
}
