package pair

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"banana-image-pipeline/modules/common/fault"
)

// descriptionPrompt - asks for a generalized, documentary-style scene
// description that can be regenerated into a convincing but
// non-identical image.
const descriptionPrompt = `Describe this image in a few sentences.

Capture the general lighting style and emotional atmosphere.
Generalize the setting (e.g., use 'a coastal scene' instead of describing this specific beach).
Use some creativity to describe a scene that's similar to the original image but not the same. Keep it realistic. For example, change the main subject or main object of the image.
Mention the editing style of the image as well as other photographic elements that are present in the image, such as lighting, composition, camera angle, lens type, etc.

However, make the prompt cohesive and consistent. Do not contradict yourself. This prompt will be used to generate a new image with the goal of tricking the user into thinking it's a real image.`

// Describer - wraps the vision model: image bytes in, scene
// description out
type Describer interface {
	Describe(ctx context.Context, imageData []byte) (string, error)
}

// GeminiDescriber - Describer over the Gemini vision model
type GeminiDescriber struct {
	client *genai.Client
	model  string
}

func NewGeminiDescriber(client *genai.Client, model string) *GeminiDescriber {
	return &GeminiDescriber{client: client, model: model}
}

func (d *GeminiDescriber) Describe(ctx context.Context, imageData []byte) (string, error) {
	log.Printf("👁️  Generating description with Gemini Vision (model: %s)...", d.model)

	content := &genai.Content{
		Parts: []*genai.Part{
			genai.NewPartFromText(descriptionPrompt),
			genai.NewPartFromBytes(imageData, "image/jpeg"),
		},
	}

	result, err := d.client.Models.GenerateContent(ctx, d.model, []*genai.Content{content}, nil)
	if err != nil {
		return "", fault.Wrap(fault.Synthesis, fmt.Errorf("Gemini API call failed: %w", err))
	}

	description := strings.TrimSpace(textFromResponse(result))
	if description == "" {
		return "", fault.New(fault.Synthesis, "no description text in response")
	}

	log.Printf("✅ Generated description (%d chars)", len(description))
	return description, nil
}

// textFromResponse - concatenate the text parts across candidates
func textFromResponse(result *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}
	return sb.String()
}
