package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/bug-journal-api/internal/logging"
	"github.com/yukikurage/bug-journal-api/internal/services"
)

func newSuggestionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	RegisterValidation()

	service := services.NewSuggestionService(services.NewKeywordSuggester(), time.Second, logging.Discard())
	handler := NewSuggestionHandler(service)

	r := gin.New()
	r.POST("/api/ai/suggestion", handler.Suggest)
	r.POST("/api/ai/summary", handler.Summarize)
	r.POST("/api/ai/analysis", handler.Analyze)
	return r
}

func TestSuggestionHandler_Suggest(t *testing.T) {
	r := newSuggestionRouter()

	w := postJSON(t, r, "/api/ai/suggestion", map[string]string{
		"title":       "Crash",
		"description": "Cannot read property of undefined",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var suggestion services.Suggestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &suggestion))
	assert.Contains(t, suggestion.Suggestion, "variable initialization")
}

func TestSuggestionHandler_EmptyDescription(t *testing.T) {
	r := newSuggestionRouter()

	w := postJSON(t, r, "/api/ai/suggestion", map[string]string{})
	require.Equal(t, http.StatusOK, w.Code)

	var suggestion services.Suggestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &suggestion))
	assert.True(t, strings.HasPrefix(suggestion.Suggestion, "Unable to generate suggestion"))
}

func TestSuggestionHandler_SummaryAndAnalysis(t *testing.T) {
	r := newSuggestionRouter()

	w := postJSON(t, r, "/api/ai/summary", map[string]string{"description": "Docker build fails"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"summary":"Docker build fails"}`, w.Body.String())

	w = postJSON(t, r, "/api/ai/analysis", map[string]string{"description": "Docker build fails"})
	require.Equal(t, http.StatusOK, w.Code)

	var analysis services.DescriptionAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.Equal(t, []string{"Docker"}, analysis.TechnicalDetails)
}
