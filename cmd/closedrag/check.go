package main

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"

	"github.com/liliang-cn/closedrag/internal/config"
	"github.com/liliang-cn/closedrag/internal/identity"
)

const (
	checkQuery     = "test"
	checkMaxTokens = 10
)

// runCheck verifies each upstream in turn: token acquisition, one search and one
// short completion. It stops at the first failure.
func runCheck(ctx context.Context, cfg *config.Config, up *upstreams, logger *zap.Logger) error {
	if up.credential != nil {
		scopes := []string{identity.CognitiveServicesScope}
		if cfg.Search.Backend == config.BackendAzure && cfg.Search.Key == "" {
			scopes = append(scopes, identity.SearchScope)
		}
		for _, scope := range scopes {
			if _, err := identity.Token(ctx, up.credential, scope); err != nil {
				return err
			}
			logger.Info("Token acquired", zap.String("scope", scope))
		}
	}

	docs, err := up.retriever.Search(ctx, checkQuery, cfg.Search.TopK)
	if err != nil {
		return fmt.Errorf("search check: %w", err)
	}
	logger.Info("Search index reachable",
		zap.String("backend", cfg.Search.Backend),
		zap.String("index", cfg.Search.Index),
		zap.Int("documents", len(docs)),
	)
	for i, doc := range docs {
		logger.Info("Search result",
			zap.Int("rank", i+1),
			zap.String("title", doc.Title),
			zap.Float64("score", doc.Score),
		)
	}

	answer, err := up.generator.Complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage("Hello"),
	}, checkMaxTokens)
	if err != nil {
		return fmt.Errorf("completion check: %w", err)
	}
	logger.Info("Completion deployment reachable",
		zap.String("deployment", cfg.LLM.Deployment),
		zap.String("answer", answer),
	)

	return nil
}
