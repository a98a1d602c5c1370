package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Request is one AI consultation: a fingerprint plus the sample error
// type and context that anchor the prompt.
type Request struct {
	Fingerprint   string `json:"fingerprint"`
	ErrorType     string `json:"error_type"`
	Description   string `json:"description,omitempty"`
	SampleContext string `json:"sample_context,omitempty"`
}

// Gateway is the AI collaborator boundary. A failed consultation returns
// an error for that fingerprint; absence of guidance is never silent.
type Gateway interface {
	Advise(ctx context.Context, req Request) (*Guidance, error)
	Close() error
}

const defaultModel = "gemini-2.0-flash"

// GeminiGateway implements Gateway against the Gemini API.
type GeminiGateway struct {
	client *genai.Client
	model  string
}

// NewGeminiGateway creates a Gemini-backed gateway.
func NewGeminiGateway(ctx context.Context, apiKey, model string) (*GeminiGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGateway{client: client, model: model}, nil
}

// guidancePayload is the JSON shape requested from the model.
type guidancePayload struct {
	Recommendation    string   `json:"recommendation"`
	CodeFix           string   `json:"code_fix"`
	ImpactDescription string   `json:"impact_description"`
	StandardRefs      []string `json:"standard_refs"`
}

func buildPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString("You are a web accessibility remediation expert.\n\n")
	sb.WriteString("An automated audit detected the following recurring issue:\n")
	sb.WriteString("Issue: " + req.ErrorType + "\n")
	if req.Description != "" {
		sb.WriteString("Detail: " + req.Description + "\n")
	}
	if req.SampleContext != "" {
		sb.WriteString("Sample HTML:\n" + req.SampleContext + "\n")
	}
	sb.WriteString(`
Respond with a JSON object holding exactly these fields:
{
  "recommendation": "how to fix the issue, 2-3 sentences",
  "code_fix": "a corrected HTML/ARIA snippet, or empty string",
  "impact_description": "how the issue affects users of assistive technologies",
  "standard_refs": ["applicable criteria, bare numbers for the primary standard, wcag: prefix for WCAG success criteria"]
}`)
	return sb.String()
}

// Advise consults the model once for a fingerprint and parses its JSON
// response into guidance.
func (g *GeminiGateway) Advise(ctx context.Context, req Request) (*Guidance, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(req)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate guidance for %s: %w", req.Fingerprint, err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("empty guidance for %s: %w", req.Fingerprint, err)
	}

	var payload guidancePayload
	if err := json.Unmarshal([]byte(cleanJSONBlock(text)), &payload); err != nil {
		return nil, fmt.Errorf("malformed guidance for %s: %w", req.Fingerprint, err)
	}
	if payload.Recommendation == "" {
		return nil, fmt.Errorf("guidance for %s carries no recommendation", req.Fingerprint)
	}

	return &Guidance{
		Fingerprint:       req.Fingerprint,
		Recommendation:    payload.Recommendation,
		CodeFix:           payload.CodeFix,
		ImpactDescription: payload.ImpactDescription,
		StandardRefs:      payload.StandardRefs,
	}, nil
}

// Close releases resources held by the gateway.
func (g *GeminiGateway) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
