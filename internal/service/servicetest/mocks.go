// Package servicetest provides testify mocks for the chat service collaborators.
package servicetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/liliang-cn/closedrag/internal/domain"
)

// MockRetriever is a mock implementation of service.Retriever
type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Search(ctx context.Context, query string, topK int) ([]domain.RetrievedDocument, error) {
	args := m.Called(ctx, query, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RetrievedDocument), args.Error(1)
}

// MockGenerator is a mock implementation of service.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, message, contextBlock string) (string, error) {
	args := m.Called(ctx, message, contextBlock)
	return args.String(0), args.Error(1)
}
