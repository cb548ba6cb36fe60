package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generator is the generative-AI provider as seen by the handlers.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateFromImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// GeminiClient shares one genai client across requests.
type GeminiClient struct {
	client      *genai.Client
	textModel   string
	visionModel string
}

func NewGeminiClient(ctx context.Context, apiKey, textModel, visionModel string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, textModel: textModel, visionModel: visionModel}, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.textModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return responseText(resp)
}

func (g *GeminiClient) GenerateFromImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	model := g.client.GenerativeModel(g.visionModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt), genai.Blob{MIMEType: mimeType, Data: image})
	if err != nil {
		return "", fmt.Errorf("gemini vision: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("gemini returned no text")
	}
	return b.String(), nil
}
