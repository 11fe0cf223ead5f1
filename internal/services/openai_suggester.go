package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

var ErrOpenAINotConfigured = errors.New("OpenAI client not initialized")

// OpenAISuggester asks a chat completion model for suggestions and summaries.
type OpenAISuggester struct {
	client *openai.Client
	model  string
}

// NewOpenAISuggester creates a suggester for apiKey. An empty baseURL uses the
// public OpenAI endpoint.
func NewOpenAISuggester(apiKey, model, baseURL string) *OpenAISuggester {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAISuggester{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Suggest analyzes a bug report and returns a structured suggestion.
func (s *OpenAISuggester) Suggest(ctx context.Context, req SuggestionRequest) (*Suggestion, error) {
	if s.client == nil {
		return nil, ErrOpenAINotConfigured
	}

	prompt := fmt.Sprintf(`You are an expert developer assistant who helps analyze bugs and provides suggestions.
Analyze the following bug/issue and provide:
1. A potential solution suggestion
2. A brief explanation of why the issue might be occurring
3. Optional: Up to 3 relevant resources (documentation, articles) that could help

Bug Title: %s
Bug Description: %s
Steps to Reproduce: %s

Respond with JSON in this format:
{
  "suggestion": "Clear, specific solution steps to try",
  "explanation": "Brief technical explanation of the likely underlying cause",
  "resources": ["Link 1 with title", "Link 2 with title", "Link 3 with title"]
}`, req.Title, req.Description, req.StepsToReproduce)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	if strings.TrimSpace(suggestion.Suggestion) == "" {
		suggestion.Suggestion = "No suggestion available"
	}
	if strings.TrimSpace(suggestion.Explanation) == "" {
		suggestion.Explanation = "No explanation available"
	}
	if suggestion.Resources == nil {
		suggestion.Resources = []string{}
	}
	return &suggestion, nil
}

// Summarize condenses a bug report into a short technical description.
func (s *OpenAISuggester) Summarize(ctx context.Context, description string) (string, error) {
	if s.client == nil {
		return "", ErrOpenAINotConfigured
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a technical writing assistant who specializes in summarizing complex bug reports into concise descriptions. Keep summaries clear, technical, and under 100 words.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: "Summarize this technical issue into a brief description: " + description,
				},
			},
			MaxTokens: 150,
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
