package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/bug-journal-api/internal/dto"
	"github.com/yukikurage/bug-journal-api/internal/logging"
	"github.com/yukikurage/bug-journal-api/internal/testutil"
)

type client struct {
	t       *testing.T
	engine  *gin.Engine
	cookies []*http.Cookie
}

func newClient(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testutil.Config()
	store, err := NewSessionStore(cfg)
	require.NoError(t, err)

	engine := New(Deps{
		DB:           testutil.NewDB(t),
		Config:       cfg,
		Logger:       logging.Discard(),
		SessionStore: store,
	})
	return &client{t: t, engine: engine}
}

func (c *client) do(method, path string, payload any) *httptest.ResponseRecorder {
	c.t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(c.t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return w
}

func TestRouter_Health(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	c := newClient(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/user"},
		{http.MethodGet, "/api/issues"},
		{http.MethodGet, "/api/issues/date/2025-04-08"},
		{http.MethodPost, "/api/issues"},
		{http.MethodGet, "/api/tags"},
		{http.MethodPost, "/api/upload"},
		{http.MethodPost, "/api/ai/suggestion"},
	} {
		w := c.do(route.method, route.path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}

func TestRouter_IssueLifecycle(t *testing.T) {
	c := newClient(t)

	w := c.do(http.MethodPost, "/api/register", map[string]string{
		"username": "user-u",
		"email":    "u@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = c.do(http.MethodGet, "/api/user", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodPost, "/api/issues", map[string]any{
		"title": "Null pointer",
		"date":  "2025-04-08",
		"tags":  []string{"react"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.IssueDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = c.do(http.MethodGet, "/api/issues/date/2025-04-08", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var onDay []dto.IssueDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &onDay))
	require.Len(t, onDay, 1)
	require.Len(t, onDay[0].Tags, 1)
	assert.Equal(t, "react", onDay[0].Tags[0].Name)

	w = c.do(http.MethodGet, "/api/issues/date/2025-4-8", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodDelete, fmt.Sprintf("/api/issues/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/api/issues/date/2025-04-08", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = c.do(http.MethodGet, "/api/tags", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []dto.TagDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 1, "tags outlive the issues that used them")

	w = c.do(http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = c.do(http.MethodGet, "/api/issues", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_CrossUserAccess(t *testing.T) {
	alice := newClient(t)
	w := alice.do(http.MethodPost, "/api/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = alice.do(http.MethodPost, "/api/issues", map[string]any{"title": "Alice only", "date": "2025-04-08"})
	require.Equal(t, http.StatusCreated, w.Code)
	var issue dto.IssueDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issue))

	// A second session against the same engine.
	bob := &client{t: t, engine: alice.engine}
	w = bob.do(http.MethodPost, "/api/register", map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	path := fmt.Sprintf("/api/issues/%d", issue.ID)
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodPut, path, map[string]string{"title": "mine"}).Code)
	assert.Equal(t, http.StatusForbidden, bob.do(http.MethodDelete, path, nil).Code)

	w = alice.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stored dto.IssueDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, "Alice only", stored.Title)
}
