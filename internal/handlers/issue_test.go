package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/bug-journal-api/internal/constants"
	"github.com/yukikurage/bug-journal-api/internal/dto"
	apierrors "github.com/yukikurage/bug-journal-api/internal/errors"
	"github.com/yukikurage/bug-journal-api/internal/logging"
	"github.com/yukikurage/bug-journal-api/internal/middleware"
	"github.com/yukikurage/bug-journal-api/internal/models"
	"github.com/yukikurage/bug-journal-api/internal/repository"
	"github.com/yukikurage/bug-journal-api/internal/services"
	"github.com/yukikurage/bug-journal-api/internal/testutil"
	"gorm.io/gorm"
)

// IssueHandlerTestSuite defines the test suite for IssueHandler
type IssueHandlerTestSuite struct {
	suite.Suite
	db           *gorm.DB
	issueService *services.IssueService
	handler      *IssueHandler
	tagHandler   *TagHandler
	router       *gin.Engine
	alice        *models.User
	bob          *models.User
}

// SetupTest runs before each test
func (suite *IssueHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	RegisterValidation()

	suite.db = testutil.NewDB(suite.T())
	suite.issueService = services.NewIssueService(repository.NewIssueRepository(suite.db))
	tagService := services.NewTagService(repository.NewTagRepository(suite.db), suite.issueService)

	logger := logging.Discard()
	suite.handler = NewIssueHandler(suite.issueService, logger)
	suite.tagHandler = NewTagHandler(tagService, logger)

	suite.alice = testutil.CreateUser(suite.T(), suite.db, "alice")
	suite.bob = testutil.CreateUser(suite.T(), suite.db, "bob")

	// The X-User-ID header stands in for the session in these tests.
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		if id, err := strconv.ParseUint(c.GetHeader("X-User-ID"), 10, 64); err == nil {
			c.Set(constants.ContextKeyUserID, id)
		}
		c.Next()
	})
	owner := middleware.RequireIssueOwner(suite.issueService, logger)
	suite.router.GET("/api/issues/date/:date", suite.handler.ListIssuesByDate)
	suite.router.DELETE("/api/issues/links/:linkId", suite.handler.DeleteLink)
	suite.router.GET("/api/issues/:id", owner, suite.handler.GetIssue)
	suite.router.PUT("/api/issues/:id", owner, suite.handler.UpdateIssue)
	suite.router.DELETE("/api/issues/:id", owner, suite.handler.DeleteIssue)
	suite.router.POST("/api/issues/:id/links", owner, suite.handler.AddLink)
	suite.router.POST("/api/issues/:id/tags", owner, suite.tagHandler.AddIssueTag)
	suite.router.DELETE("/api/issues/:id/tags/:tagId", owner, suite.tagHandler.RemoveIssueTag)
}

func TestIssueHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(IssueHandlerTestSuite))
}

// Helper function to create authenticated context
func (suite *IssueHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *IssueHandlerTestSuite) do(method, url string, payload any, userID uint64) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", strconv.FormatUint(userID, 10))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *IssueHandlerTestSuite) createIssue(userID uint64, title, date string, tags ...string) *models.Issue {
	issue, err := suite.issueService.CreateIssue(services.CreateIssueInput{
		UserID: userID,
		Title:  title,
		Date:   date,
		Tags:   tags,
	})
	suite.Require().NoError(err)
	return issue
}

func (suite *IssueHandlerTestSuite) decodeIssue(w *httptest.ResponseRecorder) dto.IssueDTO {
	var issue dto.IssueDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &issue))
	return issue
}

func (suite *IssueHandlerTestSuite) TestCreateIssue() {
	body, _ := json.Marshal(map[string]any{
		"title":              "Null pointer",
		"description":        "Crash when opening settings",
		"steps_to_reproduce": "1. open settings",
		"date":               "2025-04-08",
		"tags":               []string{"react", "react", "ui"},
		"links":              []map[string]string{{"title": "Docs", "url": "https://react.dev"}},
	})
	c, w := suite.createAuthContext(http.MethodPost, "/api/issues", body, suite.alice.ID)

	suite.handler.CreateIssue(c)

	suite.Equal(http.StatusCreated, w.Code)
	issue := suite.decodeIssue(w)
	suite.Equal("Null pointer", issue.Title)
	suite.Equal(models.IssueStatusUnresolved, issue.Status)
	suite.Equal("2025-04-08", issue.Date)
	suite.Len(issue.Tags, 2)
	suite.Require().Len(issue.Links, 1)
	suite.Equal("https://react.dev", issue.Links[0].URL)
	suite.NotNil(issue.Files)
}

func (suite *IssueHandlerTestSuite) TestCreateIssue_ValidationDetails() {
	body, _ := json.Marshal(map[string]any{
		"status": "done",
		"date":   "08-04-2025",
		"links":  []map[string]string{{"title": "Docs", "url": "not a url"}},
	})
	c, w := suite.createAuthContext(http.MethodPost, "/api/issues", body, suite.alice.ID)

	suite.handler.CreateIssue(c)

	suite.Equal(http.StatusBadRequest, w.Code)

	var response struct {
		Code    string                 `json:"code"`
		Details []apierrors.FieldError `json:"details"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(apierrors.ErrCodeValidationFailed, response.Code)

	fields := make([]string, 0, len(response.Details))
	for _, d := range response.Details {
		fields = append(fields, d.Field)
	}
	suite.ElementsMatch([]string{"title", "status", "date", "links[0].url"}, fields)
}

func (suite *IssueHandlerTestSuite) TestCreateIssue_MalformedBody() {
	c, w := suite.createAuthContext(http.MethodPost, "/api/issues", []byte("{"), suite.alice.ID)

	suite.handler.CreateIssue(c)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IssueHandlerTestSuite) TestListIssues() {
	suite.createIssue(suite.alice.ID, "Alice 1", "2025-04-08")
	suite.createIssue(suite.alice.ID, "Alice 2", "2025-04-09")
	suite.createIssue(suite.bob.ID, "Bob 1", "2025-04-08")

	c, w := suite.createAuthContext(http.MethodGet, "/api/issues", nil, suite.alice.ID)
	suite.handler.ListIssues(c)

	suite.Equal(http.StatusOK, w.Code)
	var issues []dto.IssueDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &issues))
	suite.Require().Len(issues, 2)
	suite.Equal("Alice 2", issues[0].Title)
}

func (suite *IssueHandlerTestSuite) TestListIssuesByDate() {
	suite.createIssue(suite.alice.ID, "On the day", "2025-04-08", "react")
	suite.createIssue(suite.alice.ID, "Next day", "2025-04-09")

	w := suite.do(http.MethodGet, "/api/issues/date/2025-04-08", nil, suite.alice.ID)
	suite.Equal(http.StatusOK, w.Code)

	var issues []dto.IssueDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &issues))
	suite.Require().Len(issues, 1)
	suite.Equal("On the day", issues[0].Title)
	suite.Require().Len(issues[0].Tags, 1)
	suite.Equal("react", issues[0].Tags[0].Name)

	w = suite.do(http.MethodGet, "/api/issues/date/2025-01-01", nil, suite.alice.ID)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq("[]", w.Body.String())
}

func (suite *IssueHandlerTestSuite) TestListIssuesByDate_BadFormat() {
	for _, date := range []string{"2025-4-8", "today", "2025-04-08x", "2025-02-30"} {
		w := suite.do(http.MethodGet, "/api/issues/date/"+date, nil, suite.alice.ID)
		suite.Equal(http.StatusBadRequest, w.Code, date)
	}
}

func (suite *IssueHandlerTestSuite) TestGetIssue_Ownership() {
	issue := suite.createIssue(suite.alice.ID, "Private", "2025-04-08")
	url := fmt.Sprintf("/api/issues/%d", issue.ID)

	w := suite.do(http.MethodGet, url, nil, suite.alice.ID)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("Private", suite.decodeIssue(w).Title)

	w = suite.do(http.MethodGet, url, nil, suite.bob.ID)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodGet, "/api/issues/99999", nil, suite.alice.ID)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/issues/abc", nil, suite.alice.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IssueHandlerTestSuite) TestUpdateIssue() {
	issue := suite.createIssue(suite.alice.ID, "Before", "2025-04-08", "a", "b")
	url := fmt.Sprintf("/api/issues/%d", issue.ID)

	w := suite.do(http.MethodPut, url, map[string]any{
		"title":  "After",
		"status": "resolved",
		"tags":   []string{"b", "c"},
	}, suite.alice.ID)
	suite.Require().Equal(http.StatusOK, w.Code)

	updated := suite.decodeIssue(w)
	suite.Equal("After", updated.Title)
	suite.Equal(models.IssueStatusResolved, updated.Status)
	suite.Equal("2025-04-08", updated.Date)
	names := []string{updated.Tags[0].Name, updated.Tags[1].Name}
	suite.ElementsMatch([]string{"b", "c"}, names)

	// An explicit empty array clears; null leaves alone.
	w = suite.do(http.MethodPut, url, map[string]any{"tags": nil}, suite.alice.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(suite.decodeIssue(w).Tags, 2)

	w = suite.do(http.MethodPut, url, map[string]any{"tags": []string{}}, suite.alice.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Empty(suite.decodeIssue(w).Tags)
}

func (suite *IssueHandlerTestSuite) TestUpdateIssue_ForeignIsForbidden() {
	issue := suite.createIssue(suite.alice.ID, "Alice's", "2025-04-08")

	w := suite.do(http.MethodPut, fmt.Sprintf("/api/issues/%d", issue.ID), map[string]any{"title": "Bob's now"}, suite.bob.ID)
	suite.Equal(http.StatusForbidden, w.Code)

	stored, err := suite.issueService.GetIssue(suite.alice.ID, issue.ID)
	suite.Require().NoError(err)
	suite.Equal("Alice's", stored.Title)
}

func (suite *IssueHandlerTestSuite) TestDeleteIssue() {
	issue := suite.createIssue(suite.alice.ID, "Doomed", "2025-04-08")
	url := fmt.Sprintf("/api/issues/%d", issue.ID)

	w := suite.do(http.MethodDelete, url, nil, suite.bob.ID)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodDelete, url, nil, suite.alice.ID)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, url, nil, suite.alice.ID)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IssueHandlerTestSuite) TestLinks() {
	issue := suite.createIssue(suite.alice.ID, "Linked", "2025-04-08")

	w := suite.do(http.MethodPost, fmt.Sprintf("/api/issues/%d/links", issue.ID), map[string]string{
		"title": "Spec",
		"url":   "https://example.com/docs",
	}, suite.alice.ID)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var link dto.LinkDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &link))
	suite.Equal(issue.ID, link.IssueID)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/issues/links/%d", link.ID), nil, suite.bob.ID)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/issues/links/%d", link.ID), nil, suite.alice.ID)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodDelete, fmt.Sprintf("/api/issues/links/%d", link.ID), nil, suite.alice.ID)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IssueHandlerTestSuite) TestIssueTags() {
	issue := suite.createIssue(suite.alice.ID, "Tagged", "2025-04-08")
	url := fmt.Sprintf("/api/issues/%d/tags", issue.ID)

	w := suite.do(http.MethodPost, url, map[string]string{"name": "css", "color": "#123456"}, suite.alice.ID)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var tag dto.TagDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tag))
	suite.Equal("css", tag.Name)
	suite.Equal("#123456", tag.Color)

	w = suite.do(http.MethodPost, url, map[string]string{"name": "css"}, suite.alice.ID)
	suite.Equal(http.StatusCreated, w.Code)

	var pairs int64
	suite.Require().NoError(suite.db.Model(&models.IssueTag{}).Where("issue_id = ?", issue.ID).Count(&pairs).Error)
	suite.Equal(int64(1), pairs)

	w = suite.do(http.MethodDelete, fmt.Sprintf("%s/%d", url, tag.ID), nil, suite.alice.ID)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, url, map[string]string{"name": "css"}, suite.bob.ID)
	suite.Equal(http.StatusForbidden, w.Code)
}
