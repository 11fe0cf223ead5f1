package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-journal-api/internal/services"
)

// SuggestionHandler exposes the suggestion provider. Provider failures never
// surface as errors; the service substitutes fixed fallback text.
type SuggestionHandler struct {
	suggestions *services.SuggestionService
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(suggestions *services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{
		suggestions: suggestions,
	}
}

type suggestionRequest struct {
	Title            string `json:"title" binding:"max=255"`
	Description      string `json:"description"`
	StepsToReproduce string `json:"steps_to_reproduce"`
}

type descriptionRequest struct {
	Description string `json:"description"`
}

// Suggest returns a solution suggestion for an issue description.
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	var req suggestionRequest
	if !bindJSON(c, &req) {
		return
	}

	suggestion := h.suggestions.Suggest(c.Request.Context(), services.SuggestionRequest{
		Title:            req.Title,
		Description:      req.Description,
		StepsToReproduce: req.StepsToReproduce,
	})

	c.JSON(http.StatusOK, suggestion)
}

// Summarize returns a short summary of a description.
func (h *SuggestionHandler) Summarize(c *gin.Context) {
	var req descriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": h.suggestions.Summarize(c.Request.Context(), req.Description),
	})
}

// Analyze returns a keyword analysis of a description.
func (h *SuggestionHandler) Analyze(c *gin.Context) {
	var req descriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, services.AnalyzeDescription(req.Description))
}
