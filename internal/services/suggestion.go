package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/yukikurage/bug-journal-api/internal/constants"
)

var ErrSuggestionUnavailable = errors.New("suggestion provider returned no result")

// Suggestion is the response of a suggestion provider.
type Suggestion struct {
	Suggestion  string   `json:"suggestion"`
	Explanation string   `json:"explanation,omitempty"`
	Resources   []string `json:"resources,omitempty"`
}

// SuggestionRequest describes the issue a suggestion is requested for.
type SuggestionRequest struct {
	Title            string
	Description      string
	StepsToReproduce string
}

// Suggester produces a solution suggestion for an issue description.
type Suggester interface {
	Suggest(ctx context.Context, req SuggestionRequest) (*Suggestion, error)
}

// Summarizer condenses an issue description.
type Summarizer interface {
	Summarize(ctx context.Context, description string) (string, error)
}

// Provider is a suggestion backend offering both capabilities.
type Provider interface {
	Suggester
	Summarizer
}

const (
	unableSuggestion  = "Unable to generate suggestion at this time."
	unableExplanation = "There was an error processing your request."
	unableSummary     = "Unable to generate summary at this time."
	emptySuggestion   = "Unable to generate suggestion: no description was provided."
	emptyExplanation  = "Describe the problem so that a suggestion can be matched to it."
)

// FallbackSuggestion is returned whenever a backend fails or times out.
func FallbackSuggestion() *Suggestion {
	return &Suggestion{
		Suggestion:  unableSuggestion,
		Explanation: unableExplanation,
	}
}

// SuggestionService bounds provider calls and degrades to fixed responses
// instead of failing the request.
type SuggestionService struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
}

// NewSuggestionService creates a new SuggestionService.
func NewSuggestionService(provider Provider, timeout time.Duration, logger *slog.Logger) *SuggestionService {
	if provider == nil {
		provider = NewKeywordSuggester()
	}
	return &SuggestionService{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// Suggest never returns an error; failures produce FallbackSuggestion.
func (s *SuggestionService) Suggest(ctx context.Context, req SuggestionRequest) *Suggestion {
	if strings.TrimSpace(req.Description) == "" {
		return &Suggestion{Suggestion: emptySuggestion, Explanation: emptyExplanation}
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	suggestion, err := s.provider.Suggest(ctx, req)
	if err == nil && suggestion == nil {
		err = ErrSuggestionUnavailable
	}
	if err != nil {
		s.logger.Warn("suggestion provider failed", "error", err)
		return FallbackSuggestion()
	}
	return suggestion
}

// Summarize never returns an error; failures produce a fixed message.
func (s *SuggestionService) Summarize(ctx context.Context, description string) string {
	if strings.TrimSpace(description) == "" {
		return unableSummary
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	summary, err := s.provider.Summarize(ctx, description)
	if err != nil || strings.TrimSpace(summary) == "" {
		if err != nil {
			s.logger.Warn("summary provider failed", "error", err)
		}
		return unableSummary
	}
	return summary
}

// ProviderOptions selects and configures a suggestion backend.
type ProviderOptions struct {
	Backend string
	APIKey  string
	Model   string
	BaseURL string
}

// NewProvider returns the backend named by opts.Backend. The openai backend
// without an API key falls back to the keyword backend.
func NewProvider(opts ProviderOptions, logger *slog.Logger) Provider {
	if opts.Backend == "openai" {
		if opts.APIKey != "" {
			return NewOpenAISuggester(opts.APIKey, opts.Model, opts.BaseURL)
		}
		logger.Warn("OPENAI_API_KEY is not set, using static suggestions")
	}
	return NewKeywordSuggester()
}

func (s *SuggestionService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// KeywordSuggester picks a canned suggestion by keyword matches. It needs no
// network access and is deterministic.
type KeywordSuggester struct {
	rules    []keywordRule
	fallback string
}

type keywordRule struct {
	keywords   []string
	suggestion string
}

var defaultKeywordRules = []keywordRule{
	{
		keywords:   []string{"undefined", "null", "nil", "reference", "not defined"},
		suggestion: "Check variable initialization and scope. Make sure all variables are properly defined before use and that you're not trying to access properties of null or undefined objects.",
	},
	{
		keywords:   []string{"syntax", "unexpected", "token"},
		suggestion: "Look for syntax errors such as missing brackets, semicolons, or quotation marks. Check for typos in variable or function names.",
	},
	{
		keywords:   []string{"async", "promise", "then", "await"},
		suggestion: "Ensure your promises are being properly handled with .then() or await. Check that async functions are properly awaited and that you're not mixing promise chaining with async/await syntax.",
	},
	{
		keywords:   []string{"render", "component", "react", "props", "state"},
		suggestion: "Verify your component lifecycle and state management. Check that you're not updating state during render and that your dependencies array in useEffect is correct.",
	},
	{
		keywords:   []string{"api", "fetch", "request", "response", "server"},
		suggestion: "Check your API endpoint URL and request format. Ensure you're handling responses correctly and that you have proper error handling for network failures.",
	},
}

const defaultKeywordSuggestion = "Try debugging step by step and isolating the problematic code. Add logging to track the flow and values of variables throughout your code execution."

// NewKeywordSuggester creates a KeywordSuggester with the built-in table.
func NewKeywordSuggester() *KeywordSuggester {
	return &KeywordSuggester{
		rules:    defaultKeywordRules,
		fallback: defaultKeywordSuggestion,
	}
}

// Suggest returns the canned suggestion with the most keyword matches.
func (k *KeywordSuggester) Suggest(_ context.Context, req SuggestionRequest) (*Suggestion, error) {
	if strings.TrimSpace(req.Description) == "" {
		return &Suggestion{Suggestion: emptySuggestion, Explanation: emptyExplanation}, nil
	}

	words := strings.Fields(strings.ToLower(req.Description + " " + req.StepsToReproduce))
	text := strings.Join(words, " ")

	best, bestMatches := k.fallback, 0
	for _, rule := range k.rules {
		matches := 0
		for _, keyword := range rule.keywords {
			if matchesKeyword(words, text, keyword) {
				matches++
			}
		}
		if matches > bestMatches {
			best, bestMatches = rule.suggestion, matches
		}
	}

	explanation := "No known pattern matched the description; general debugging advice applies."
	if bestMatches > 0 {
		explanation = "Matched common patterns in the description."
	}
	return &Suggestion{Suggestion: best, Explanation: explanation}, nil
}

// Summarize truncates the description.
func (k *KeywordSuggester) Summarize(_ context.Context, description string) (string, error) {
	return truncate(strings.TrimSpace(description), constants.SummaryMaxLength), nil
}

// matchesKeyword reports whether a single-word keyword occurs inside any word,
// or a multi-word keyword occurs in the normalized text.
func matchesKeyword(words []string, text, keyword string) bool {
	if strings.Contains(keyword, " ") {
		return strings.Contains(text, keyword)
	}
	for _, w := range words {
		if strings.Contains(w, keyword) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
