package chat

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// apiKeyEnvVars lists the environment variables checked for the Gemini
// credential, in priority order.
var apiKeyEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "API_KEY"}

// ResolveAPIKey returns the first non-empty credential from the known
// environment variable names, or "" when none is set.
func ResolveAPIKey() string {
	for _, name := range apiKeyEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// geminiGenerator backs the assistant with the Gemini API. Temperature is
// kept low so answers stay close to the grounding data.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Generator for the given model name.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: gemini client: %w", err)
	}
	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, history []Turn, prompt string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)*2+1)
	for _, t := range history {
		contents = append(contents, genai.NewContentFromText(t.Prompt, genai.RoleUser))
		contents = append(contents, genai.NewContentFromText(t.Reply, genai.RoleModel))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature: genai.Ptr[float32](0.3),
	})
	if err != nil {
		return "", fmt.Errorf("chat: gemini generate: %w", err)
	}
	return strings.TrimSpace(result.Text()), nil
}
