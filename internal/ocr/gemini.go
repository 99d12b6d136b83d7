package ocr

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// transcriptionPrompt asks for a faithful transcription; the extraction
// step downstream depends on line structure being preserved.
const transcriptionPrompt = "Transcribe all text visible in the attached receipt or invoice image.\n" +
	"Return ONLY the raw transcribed text.\n" +
	"Preserve the original line breaks and column spacing as closely as possible.\n" +
	"Do not summarize, translate, annotate, or wrap the output in code fences."

// GeminiEngine implements Engine on top of the Gemini vision API.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

// NewGeminiEngine creates the production recognition engine. Credentials
// come from the environment (GEMINI_API_KEY / GOOGLE_API_KEY), matching
// the genai client defaults.
func NewGeminiEngine(ctx context.Context, model string) (*GeminiEngine, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiEngine{client: client, model: model}, nil
}

func (e *GeminiEngine) Recognize(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: transcriptionPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     image,
					},
				},
			},
		},
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return stripCodeFences(text), nil
}

// Close releases nothing today; the genai client holds no long-lived
// connections that need an explicit shutdown. Kept so the manager's
// terminate path stays uniform across engines.
func (e *GeminiEngine) Close() error {
	return nil
}

// stripCodeFences removes Markdown fences the model occasionally adds
// despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
