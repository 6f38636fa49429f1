// Package narrative produces an optional one-paragraph season summary for a
// region/year selection. It is entirely additive: when no API key is
// configured the dashboard renders without it, and its output never feeds
// back into the aggregates.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/ozfires/firedash/internal/aggregate"
)

// Generator writes fire-season summaries using the OpenAI API.
type Generator struct {
	client openai.Client
	model  string
}

// NewGenerator creates a generator from the OPENAI_API_KEY environment
// variable. Callers treat an error as "narratives disabled", not fatal.
func NewGenerator() (*Generator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &Generator{
		client: client,
		model:  openai.ChatModelGPT4oMini,
	}, nil
}

// Generate writes a short summary of the selection's aggregates.
func (g *Generator) Generate(ctx context.Context, regionLabel string, year int, res aggregate.Result) (string, error) {
	prompt := buildPrompt(regionLabel, year, res)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You summarise Australian bushfire satellite statistics for a public dashboard. One factual paragraph, no more than three sentences, no speculation beyond the numbers given."),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("narrative generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion returned")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty completion returned")
	}
	return text, nil
}

func buildPrompt(regionLabel string, year int, res aggregate.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Region: %s. Year: %d.\n", regionLabel, year)
	if res.Empty() {
		b.WriteString("No fire detections were recorded for this selection.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Total of monthly mean estimated fire area: %.2f km². ", res.TotalArea)
	fmt.Fprintf(&b, "Total of monthly mean fire pixel counts: %d.\n", int(res.TotalPixels))
	b.WriteString("Monthly mean estimated fire area (km²):\n")
	for _, mv := range res.AreaByMonth {
		fmt.Fprintf(&b, "- %s: %.2f\n", mv.Month, mv.Value)
	}
	return b.String()
}
