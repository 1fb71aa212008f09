package generator

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiModel = "imagen-4.0-generate-001"

// GeminiGenerator генерирует изображения через Google GenAI (Imagen).
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiGenerator создает клиент GenAI с ключом API.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
		logger: logger.Named("GeminiGenerator"),
	}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("Requesting image from GenAI", zap.String("model", g.model))

	resp, err := g.client.Models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    "1:1",
		OutputMIMEType: "image/png",
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return imageRefFromGenAI(resp)
}

// imageRefFromGenAI берет первое изображение ответа.
func imageRefFromGenAI(resp *genai.GenerateImagesResponse) (string, error) {
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return "", fmt.Errorf("%w: no images returned", ErrGenerationFailed)
	}
	generated := resp.GeneratedImages[0]
	if generated == nil || generated.Image == nil {
		reason := ""
		if generated != nil {
			reason = generated.RAIFilteredReason
		}
		return "", fmt.Errorf("%w: image missing from response (filtered: %q)", ErrGenerationFailed, reason)
	}

	img := generated.Image
	if len(img.ImageBytes) == 0 {
		return "", fmt.Errorf("%w: empty image data", ErrGenerationFailed)
	}
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return DataURI(mimeType, img.ImageBytes), nil
}
