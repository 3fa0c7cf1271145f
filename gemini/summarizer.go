// Package gemini summarizes page content with Google Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/ssmcp"
	"google.golang.org/genai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultSystemPrompt instructs the model to keep only what is relevant to
// the search query.
const DefaultSystemPrompt = "You summarize web pages for a search assistant. " +
	"Keep only information relevant to the search query, preserve concrete facts, " +
	"numbers and code, and answer in Markdown. If nothing on the page is relevant, " +
	"reply with an empty message."

// Ensure Summarizer implements ssmcp.Summarizer at compile time.
var _ ssmcp.Summarizer = (*Summarizer)(nil)

// Summarizer implements ssmcp.Summarizer using Google Gemini.
type Summarizer struct {
	client       *genai.Client
	model        string
	systemPrompt string
}

// NewSummarizer creates a new Summarizer. Empty model and prompt fall back
// to the defaults.
func NewSummarizer(client *genai.Client, model, systemPrompt string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Summarizer{client: client, model: model, systemPrompt: systemPrompt}
}

// Summarize condenses content with respect to query.
func (s *Summarizer) Summarize(ctx context.Context, query, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ssmcp.Errorf(ssmcp.EINVALID, "empty content")
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildSummaryPrompt(query, content)}},
		}},
		BuildConfig(s.systemPrompt),
	)
	if err != nil {
		return "", ssmcp.Errorf(ssmcp.ESUMMARIZE, "gemini: %v", err)
	}
	if result == nil {
		return "", ssmcp.Errorf(ssmcp.ESUMMARIZE, "gemini returned nil result")
	}

	return strings.TrimSpace(result.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for summary requests.
func BuildConfig(systemPrompt string) *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
		Temperature: &temp,
	}
}

// BuildSummaryPrompt builds the user prompt carrying the query and the page.
func BuildSummaryPrompt(query, content string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Search query: %s\n\n", query)
	sb.WriteString("Content to summarize:\n\n")
	sb.WriteString(content)
	return sb.String()
}
