package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"civic-agent/api/internal/util"
)

// Gemini triages via the generative language API. Responses are forced to
// application/json and validated against the three-field report shape.
// Failures are not retried; that decision belongs to the caller.
type Gemini struct {
	APIKey string
	Model  string
}

func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

const systemPrompt = `You are an AI civic agent that classifies and prioritizes city maintenance issues.

Decide:
1. Priority level (1-10, 10 = most urgent)
2. Handling department
3. Brief justification

Return STRICT JSON with exactly these fields:
{
  "priority_level": integer,
  "department": string,
  "justification": string
}
Any text outside the JSON is an error.`

func (e *Gemini) Triage(ctx context.Context, in Input) (Report, error) {
	if e.APIKey == "" {
		return Report{}, fmt.Errorf("%w: GEMINI_API_KEY is empty", ErrUnavailable)
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(e.APIKey))
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(e.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(buildPrompt(in)))
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	txt := firstText(resp)
	if strings.TrimSpace(txt) == "" {
		return Report{}, fmt.Errorf("%w: empty response", ErrMalformed)
	}
	return parseReport(txt)
}

func buildPrompt(in Input) string {
	return fmt.Sprintf(`Given:
- Image classification: %s (confidence %v)
- Citizen description: %q
- Location context: %s

Return the JSON report only.`, in.IssueType, in.Confidence, in.Description, in.Location)
}

// parseReport validates the model output against the report contract.
func parseReport(raw string) (Report, error) {
	raw = util.StripCodeFences(raw)
	var out struct {
		Priority      *float64 `json:"priority_level"`
		Department    *string  `json:"department"`
		Justification *string  `json:"justification"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Report{}, fmt.Errorf("%w: bad JSON: %v", ErrMalformed, err)
	}
	if out.Priority == nil || out.Department == nil || out.Justification == nil {
		return Report{}, fmt.Errorf("%w: missing required fields", ErrMalformed)
	}
	return Report{
		Priority:      int(*out.Priority),
		Department:    *out.Department,
		Justification: *out.Justification,
	}, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
