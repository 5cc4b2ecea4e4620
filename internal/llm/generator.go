// Package llm builds the prompt and calls the Azure OpenAI chat completion endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"

	"github.com/liliang-cn/closedrag/internal/domain"
)

// Sampling settings used for every answer
const (
	Temperature = 0.7
	MaxTokens   = 800
)

// AzureOpenAIOptions configures an AzureOpenAIGenerator. APIKey takes precedence over Credential.
type AzureOpenAIOptions struct {
	Endpoint       string
	Deployment     string
	APIVersion     string
	APIKey         string
	Credential     azcore.TokenCredential
	RequestOptions []option.RequestOption
}

// AzureOpenAIGenerator generates answers with an Azure OpenAI deployment
type AzureOpenAIGenerator struct {
	client     openai.Client
	deployment string
}

// NewAzureOpenAIGenerator creates a generator. Bearer tokens are fetched from the
// credential per request; caching and refresh are left to the credential.
func NewAzureOpenAIGenerator(opts AzureOpenAIOptions) (*AzureOpenAIGenerator, error) {
	if opts.Endpoint == "" {
		return nil, errors.New("completion endpoint is required")
	}
	if opts.Deployment == "" {
		return nil, errors.New("completion deployment is required")
	}

	reqOpts := []option.RequestOption{
		azure.WithEndpoint(strings.TrimSuffix(opts.Endpoint, "/"), opts.APIVersion),
		option.WithMaxRetries(0),
	}
	switch {
	case opts.APIKey != "":
		reqOpts = append(reqOpts, azure.WithAPIKey(opts.APIKey))
	case opts.Credential != nil:
		reqOpts = append(reqOpts, azure.WithTokenCredential(opts.Credential))
	default:
		return nil, errors.New("completion api key or credential is required")
	}
	reqOpts = append(reqOpts, opts.RequestOptions...)

	return &AzureOpenAIGenerator{
		client:     openai.NewClient(reqOpts...),
		deployment: opts.Deployment,
	}, nil
}

// Generate answers message from contextBlock and returns the first candidate's text
func (g *AzureOpenAIGenerator) Generate(ctx context.Context, message, contextBlock string) (string, error) {
	return g.Complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(SystemPrompt),
		openai.UserMessage(UserPrompt(message, contextBlock)),
	}, MaxTokens)
}

// Complete sends messages to the deployment and returns the first choice's content
func (g *AzureOpenAIGenerator) Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, maxTokens int64) (string, error) {
	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(g.deployment),
		Messages:    messages,
		Temperature: openai.Float(Temperature),
		MaxTokens:   openai.Int(maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", domain.ErrNoChoices
	}
	return completion.Choices[0].Message.Content, nil
}
