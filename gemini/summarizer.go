// Package gemini provides a woocrawl.Summarizer backed by Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/woocrawl"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for summaries.
const DefaultModel = "gemini-2.5-flash"

// DefaultMaxInputTokens bounds the document content sent per request.
const DefaultMaxInputTokens = 100_000

// Ensure Summarizer implements woocrawl.Summarizer at compile time.
var _ woocrawl.Summarizer = (*Summarizer)(nil)

// Summarizer implements woocrawl.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client
	model  string

	// Counter trims content to MaxInputTokens before it is sent. Optional.
	Counter        woocrawl.TokenCounter
	MaxInputTokens int
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(client *genai.Client, model string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{client: client, model: model, MaxInputTokens: DefaultMaxInputTokens}
}

// Summarize returns a short Dutch summary of the document.
func (s *Summarizer) Summarize(ctx context.Context, title, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", woocrawl.Errorf(woocrawl.EINVALID, "content required")
	}

	content, err := s.Fit(ctx, content)
	if err != nil {
		return "", err
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildUserPrompt(title, content)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", woocrawl.Errorf(woocrawl.EINTERNAL, "gemini returned nil result")
	}

	return woocrawl.SingleLine(result.Text()), nil
}

// Fit shortens content until it is within MaxInputTokens. The cut is
// proportional to the overshoot and repeated at most a few times.
func (s *Summarizer) Fit(ctx context.Context, content string) (string, error) {
	if s.Counter == nil || s.MaxInputTokens <= 0 {
		return content, nil
	}
	for range 3 {
		n, err := s.Counter.CountTokens(ctx, content)
		if err != nil {
			return "", err
		}
		if n <= s.MaxInputTokens {
			return content, nil
		}
		runes := []rune(content)
		keep := len(runes) * s.MaxInputTokens / n
		content = string(runes[:keep])
	}
	return content, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "Je vat Nederlandse overheidsdocumenten samen. Schrijf een feitelijke samenvatting van hoogstens drie zinnen in het Nederlands. Gebruik alleen informatie uit het document.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the prompt containing the document.
func BuildUserPrompt(title, content string) string {
	var sb strings.Builder
	sb.WriteString("<document>\n")
	if title != "" {
		sb.WriteString("<title>" + title + "</title>\n")
	}
	sb.WriteString("<content>" + content + "</content>\n")
	sb.WriteString("</document>")
	return sb.String()
}
