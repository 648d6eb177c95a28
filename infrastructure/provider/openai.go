package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds configuration for the OpenAI-backed provider.
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
	ImageModel     string
	Timeout        time.Duration
	MaxRetries     int
	InitialDelay   time.Duration
}

// OpenAIProvider implements Encoder (text only), TextGenerator and
// ImageGenerator against the OpenAI API. EncodeImage returns
// ErrUnsupportedOperation: the embeddings API has no image tower, so callers
// work with precomputed image vectors from the offline build.
type OpenAIProvider struct {
	client         *openai.Client
	embeddingModel string
	chatModel      string
	imageModel     string
	maxRetries     int
	initialDelay   time.Duration
}

// NewOpenAIProvider creates a provider from configuration.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrNotConfigured)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = "text-embedding-3-small"
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
	}
	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = "dall-e-3"
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	initialDelay := cfg.InitialDelay
	if initialDelay == 0 {
		initialDelay = time.Second
	}

	return &OpenAIProvider{
		client:         openai.NewClientWithConfig(clientCfg),
		embeddingModel: embeddingModel,
		chatModel:      chatModel,
		imageModel:     imageModel,
		maxRetries:     maxRetries,
		initialDelay:   initialDelay,
	}, nil
}

// EncodeText embeds a single text into the shared embedding space.
func (p *OpenAIProvider) EncodeText(ctx context.Context, text string) ([]float64, error) {
	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.embeddingModel),
		Input: []string{text},
	}

	var resp openai.EmbeddingResponse
	err := p.withRetry(ctx, func() error {
		var err error
		resp, err = p.client.CreateEmbeddings(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Data) != 1 {
			return fmt.Errorf("got %d embedding vectors for 1 text", len(resp.Data))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("encode text: %w", err)
	}

	embedding := make([]float64, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		embedding[i] = float64(v)
	}
	return embedding, nil
}

// EncodeImage is not supported: the OpenAI embeddings API serves no image
// tower for the shared space.
func (p *OpenAIProvider) EncodeImage(_ context.Context, _ []byte) ([]float64, error) {
	return nil, fmt.Errorf("%w: image encoding requires a precomputed vector", ErrUnsupportedOperation)
}

// GenerateText produces a chat completion for the given prompts.
func (p *OpenAIProvider) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}

	var resp openai.ChatCompletionResponse
	err := p.withRetry(ctx, func() error {
		var err error
		resp, err = p.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no choices in response")
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generate text: %w", err)
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage produces image bytes for the given prompt.
func (p *OpenAIProvider) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	req := openai.ImageRequest{
		Model:          p.imageModel,
		Prompt:         prompt,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	}

	var resp openai.ImageResponse
	err := p.withRetry(ctx, func() error {
		var err error
		resp, err = p.client.CreateImage(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return fmt.Errorf("no images in response")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode generated image: %w", err)
	}
	return data, nil
}

// withRetry executes fn with exponential backoff. Context cancellation stops
// the loop between attempts.
func (p *OpenAIProvider) withRetry(ctx context.Context, fn func() error) error {
	delay := p.initialDelay
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("after %d attempts: %w", p.maxRetries+1, lastErr)
}

// Ensure OpenAIProvider implements the capability interfaces.
var (
	_ Encoder        = (*OpenAIProvider)(nil)
	_ TextGenerator  = (*OpenAIProvider)(nil)
	_ ImageGenerator = (*OpenAIProvider)(nil)
)
