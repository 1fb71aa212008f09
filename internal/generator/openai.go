package generator

import (
	"context"
	"fmt"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIGenerator генерирует изображения через OpenAI-совместимый Images API.
type OpenAIGenerator struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIGenerator создает клиент. Пустой baseURL означает официальный API.
func NewOpenAIGenerator(apiKey, model, baseURL string, logger *zap.Logger) *OpenAIGenerator {
	openaiConfig := openaigo.DefaultConfig(apiKey)
	if baseURL != "" {
		openaiConfig.BaseURL = baseURL
	}
	if model == "" {
		model = openaigo.CreateImageModelDallE3
	}
	return &OpenAIGenerator{
		client: openaigo.NewClientWithConfig(openaiConfig),
		model:  model,
		logger: logger.Named("OpenAIGenerator"),
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("Requesting image from OpenAI", zap.String("model", g.model))

	resp, err := g.client.CreateImage(ctx, openaigo.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		N:              1,
		Size:           openaigo.CreateImageSize1024x1024,
		ResponseFormat: openaigo.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("%w: no images returned", ErrGenerationFailed)
	}

	data := resp.Data[0]
	switch {
	case data.B64JSON != "":
		return "data:image/png;base64," + data.B64JSON, nil
	case data.URL != "":
		return data.URL, nil
	default:
		return "", fmt.Errorf("%w: empty image data", ErrGenerationFailed)
	}
}
