package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/liliang-cn/closedrag/internal/domain"
	"github.com/liliang-cn/closedrag/internal/llm"
	"github.com/liliang-cn/closedrag/internal/metrics"
)

// Retriever fetches the documents used as context for a question
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]domain.RetrievedDocument, error)
}

// Generator produces an answer from a question and a formatted context block
type Generator interface {
	Generate(ctx context.Context, message, contextBlock string) (string, error)
}

// ChatService answers questions by retrieving documents and generating from them
type ChatService struct {
	retriever Retriever
	generator Generator
	topK      int
	logger    *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(retriever Retriever, generator Generator, topK int, logger *zap.Logger) *ChatService {
	return &ChatService{
		retriever: retriever,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

// Chat answers a single message. Upstream failures do not fail the request:
// a failed search answers without context, a failed completion answers with an apology.
func (s *ChatService) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if req == nil || req.Message == "" {
		return nil, domain.ErrEmptyMessage
	}

	docs := s.retrieve(ctx, req.Message)
	answer := s.generate(ctx, req.Message, llm.FormatContext(docs))

	return &domain.ChatResponse{
		Response: answer,
		Sources:  domain.SourcesOf(docs),
	}, nil
}

func (s *ChatService) retrieve(ctx context.Context, message string) []domain.RetrievedDocument {
	start := time.Now()
	docs, err := s.retriever.Search(ctx, message, s.topK)
	metrics.UpstreamDuration.WithLabelValues(metrics.StageRetrieval).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RetrievalFailures.Inc()
		s.logger.Error("Search failed, answering without context", zap.Error(err))
		return nil
	}

	metrics.RetrievedDocuments.Observe(float64(len(docs)))
	s.logger.Info("Documents retrieved",
		zap.Int("count", len(docs)),
		zap.String("query", truncate(message, 50)),
	)
	return docs
}

func (s *ChatService) generate(ctx context.Context, message, contextBlock string) string {
	start := time.Now()
	answer, err := s.generator.Generate(ctx, message, contextBlock)
	metrics.UpstreamDuration.WithLabelValues(metrics.StageGeneration).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationFailures.Inc()
		s.logger.Error("Completion failed", zap.Error(err))
		return fmt.Sprintf("Sorry, an error occurred: %v", err)
	}
	return answer
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
