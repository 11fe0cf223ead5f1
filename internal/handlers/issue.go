package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-journal-api/internal/dto"
	apierrors "github.com/yukikurage/bug-journal-api/internal/errors"
	"github.com/yukikurage/bug-journal-api/internal/middleware"
	"github.com/yukikurage/bug-journal-api/internal/models"
	"github.com/yukikurage/bug-journal-api/internal/services"
	"github.com/yukikurage/bug-journal-api/internal/utils"
)

// IssueHandler serves issue and issue link endpoints.
type IssueHandler struct {
	issueService *services.IssueService
	logger       *slog.Logger
}

// NewIssueHandler creates a new IssueHandler.
func NewIssueHandler(issueService *services.IssueService, logger *slog.Logger) *IssueHandler {
	return &IssueHandler{
		issueService: issueService,
		logger:       logger,
	}
}

type linkRequest struct {
	Title string `json:"title" binding:"required,max=255"`
	URL   string `json:"url" binding:"required,url,max=2048"`
}

type createIssueRequest struct {
	Title            string             `json:"title" binding:"required,max=255"`
	Description      string             `json:"description"`
	StepsToReproduce string             `json:"steps_to_reproduce"`
	Solution         string             `json:"solution"`
	Status           models.IssueStatus `json:"status" binding:"omitempty,oneof=unresolved in_progress resolved"`
	Date             string             `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Tags             []string           `json:"tags" binding:"omitempty,dive,max=100"`
	Links            []linkRequest      `json:"links" binding:"omitempty,dive"`
	FileIDs          []uint64           `json:"file_ids"`
}

// updateIssueRequest distinguishes absent keys (nil) from present values.
// A present empty array clears the corresponding set.
type updateIssueRequest struct {
	Title            *string             `json:"title" binding:"omitempty,max=255"`
	Description      *string             `json:"description"`
	StepsToReproduce *string             `json:"steps_to_reproduce"`
	Solution         *string             `json:"solution"`
	Status           *models.IssueStatus `json:"status" binding:"omitempty,oneof=unresolved in_progress resolved"`
	Date             *string             `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Tags             *[]string           `json:"tags" binding:"omitempty,dive,max=100"`
	Links            *[]linkRequest      `json:"links" binding:"omitempty,dive"`
	FileIDs          *[]uint64           `json:"file_ids"`
}

// ListIssues returns every issue of the current user, most recent first.
func (h *IssueHandler) ListIssues(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	issues, err := h.issueService.ListIssues(userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueDTOs(issues))
}

// ListIssuesByDate returns the issues whose date equals the :date parameter.
func (h *IssueHandler) ListIssuesByDate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	date := c.Param("date")
	if !utils.IsCalendarDate(date) {
		apierrors.FieldInvalid(c, "date", "must be a calendar day in YYYY-MM-DD format")
		return
	}

	issues, err := h.issueService.ListIssuesByDate(userID, date)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueDTOs(issues))
}

// GetIssue returns the issue loaded by RequireIssueOwner.
func (h *IssueHandler) GetIssue(c *gin.Context) {
	issue, ok := middleware.GetIssue(c)
	if !ok {
		apierrors.InternalError(c, "Issue not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueDTO(*issue))
}

// CreateIssue creates an issue together with its tags, links and file references.
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req createIssueRequest
	if !bindJSON(c, &req) {
		return
	}

	issue, err := h.issueService.CreateIssue(services.CreateIssueInput{
		UserID:           userID,
		Title:            req.Title,
		Description:      req.Description,
		StepsToReproduce: req.StepsToReproduce,
		Solution:         req.Solution,
		Status:           req.Status,
		Date:             req.Date,
		Tags:             req.Tags,
		Links:            toLinkInputs(req.Links),
		FileIDs:          req.FileIDs,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	h.logger.Info("issue created", "issue_id", issue.ID, "user_id", userID)
	c.JSON(http.StatusCreated, dto.ToIssueDTO(*issue))
}

// UpdateIssue applies a partial update.
func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	userID, issueID, ok := h.actorAndIssue(c)
	if !ok {
		return
	}

	var req updateIssueRequest
	if !bindJSON(c, &req) {
		return
	}

	input := services.UpdateIssueInput{
		Title:            req.Title,
		Description:      req.Description,
		StepsToReproduce: req.StepsToReproduce,
		Solution:         req.Solution,
		Status:           req.Status,
		Date:             req.Date,
		Tags:             req.Tags,
		FileIDs:          req.FileIDs,
	}
	if req.Links != nil {
		links := toLinkInputs(*req.Links)
		input.Links = &links
	}

	issue, err := h.issueService.UpdateIssue(userID, issueID, input)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToIssueDTO(*issue))
}

// DeleteIssue removes an issue with its links, tag associations and files.
func (h *IssueHandler) DeleteIssue(c *gin.Context) {
	userID, issueID, ok := h.actorAndIssue(c)
	if !ok {
		return
	}

	if err := h.issueService.DeleteIssue(userID, issueID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	h.logger.Info("issue deleted", "issue_id", issueID, "user_id", userID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Issue deleted successfully",
	})
}

// ListLinks returns the links of an issue.
func (h *IssueHandler) ListLinks(c *gin.Context) {
	userID, issueID, ok := h.actorAndIssue(c)
	if !ok {
		return
	}

	links, err := h.issueService.ListLinks(userID, issueID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLinkDTOs(links))
}

// AddLink attaches a link to an issue.
func (h *IssueHandler) AddLink(c *gin.Context) {
	userID, issueID, ok := h.actorAndIssue(c)
	if !ok {
		return
	}

	var req linkRequest
	if !bindJSON(c, &req) {
		return
	}

	link, err := h.issueService.AddLink(userID, issueID, services.LinkInput{
		Title: req.Title,
		URL:   req.URL,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToLinkDTO(*link))
}

// DeleteLink removes a link by its own id.
func (h *IssueHandler) DeleteLink(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	linkID, err := strconv.ParseUint(c.Param("linkId"), 10, 64)
	if err != nil {
		apierrors.FieldInvalid(c, "linkId", "must be a positive integer")
		return
	}

	if err := h.issueService.DeleteLink(userID, linkID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Link deleted successfully",
	})
}

// actorAndIssue returns the current user and the issue id resolved by
// RequireIssueOwner.
func (h *IssueHandler) actorAndIssue(c *gin.Context) (uint64, uint64, bool) {
	if issue, ok := middleware.GetIssue(c); ok {
		if userID, exists := middleware.GetUserID(c); exists {
			return userID, issue.ID, true
		}
	}
	return issueParams(c)
}

func toLinkInputs(reqs []linkRequest) []services.LinkInput {
	if reqs == nil {
		return nil
	}
	links := make([]services.LinkInput, len(reqs))
	for i, r := range reqs {
		links[i] = services.LinkInput{Title: r.Title, URL: r.URL}
	}
	return links
}
