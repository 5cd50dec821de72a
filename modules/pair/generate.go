package pair

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/genai"

	"banana-image-pipeline/modules/common/fault"
)

// generatedAspectRatio - fixed aspect ratio for counterfeit images
const generatedAspectRatio = "4:3"

// Generator - wraps the generative image model: description in, image
// bytes out
type Generator interface {
	Generate(ctx context.Context, description string) ([]byte, error)
}

// GeminiGenerator - Generator over the Gemini image model
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(client *genai.Client, model string) *GeminiGenerator {
	return &GeminiGenerator{client: client, model: model}
}

func (g *GeminiGenerator) Generate(ctx context.Context, description string) ([]byte, error) {
	log.Printf("🎨 Generating AI image (model: %s, prompt length: %d)...", g.model, len(description))

	prompt := fmt.Sprintf("Generate an image that matches the following description: %s", description)

	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromText(prompt),
		},
	}

	result, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig: &genai.ImageConfig{
				AspectRatio: generatedAspectRatio,
			},
		},
	)
	if err != nil {
		return nil, fault.Wrap(fault.Generation, fmt.Errorf("Gemini API call failed: %w", err))
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				log.Printf("✅ Received image from Gemini: %d bytes", len(part.InlineData.Data))
				return part.InlineData.Data, nil
			}
			if part.Text != "" {
				log.Printf("   Model text: %s", part.Text)
			}
		}
	}

	return nil, fault.New(fault.Generation, "no image data in response")
}

// NewGenaiClient - shared Gemini client for the describer and generator
func NewGenaiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Genai client: %w", err)
	}
	return client, nil
}
