package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-journal-api/internal/dto"
	apierrors "github.com/yukikurage/bug-journal-api/internal/errors"
	"github.com/yukikurage/bug-journal-api/internal/middleware"
	"github.com/yukikurage/bug-journal-api/internal/services"
)

// TagHandler serves the global tag list and issue tag associations.
type TagHandler struct {
	tagService *services.TagService
	logger     *slog.Logger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService *services.TagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		logger:     logger,
	}
}

type tagRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// ListTags returns every tag.
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.ListTags()
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTagDTOs(tags))
}

// CreateTag finds or creates a tag by name.
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req tagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.tagService.CreateTag(req.Name, req.Color)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTagDTO(*tag))
}

// ListIssueTags returns the tags attached to an issue.
func (h *TagHandler) ListIssueTags(c *gin.Context) {
	userID, issueID, ok := issueParams(c)
	if !ok {
		return
	}

	tags, err := h.tagService.ListIssueTags(userID, issueID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTagDTOs(tags))
}

// AddIssueTag attaches a tag to an issue, creating the tag if needed.
func (h *TagHandler) AddIssueTag(c *gin.Context) {
	userID, issueID, ok := issueParams(c)
	if !ok {
		return
	}

	var req tagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.tagService.AddTagToIssue(userID, issueID, req.Name, req.Color)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTagDTO(*tag))
}

// RemoveIssueTag detaches a tag from an issue.
func (h *TagHandler) RemoveIssueTag(c *gin.Context) {
	userID, issueID, ok := issueParams(c)
	if !ok {
		return
	}

	tagID, err := strconv.ParseUint(c.Param("tagId"), 10, 64)
	if err != nil {
		apierrors.FieldInvalid(c, "tagId", "must be a positive integer")
		return
	}

	if err := h.tagService.RemoveTagFromIssue(userID, issueID, tagID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tag removed successfully",
	})
}

func issueParams(c *gin.Context) (uint64, uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, false
	}

	issueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.FieldInvalid(c, "id", "must be a positive integer")
		return 0, 0, false
	}
	return userID, issueID, true
}
