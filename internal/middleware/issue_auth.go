package middleware

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-journal-api/internal/constants"
	apierrors "github.com/yukikurage/bug-journal-api/internal/errors"
	"github.com/yukikurage/bug-journal-api/internal/models"
	"github.com/yukikurage/bug-journal-api/internal/services"
)

// IssueLoader loads an issue on behalf of an actor.
type IssueLoader interface {
	GetIssue(actorID, issueID uint64) (*models.Issue, error)
}

// RequireIssueOwner checks that the :id issue exists and belongs to the
// current user, and stores it in the context.
func RequireIssueOwner(issues IssueLoader, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		issueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.FieldInvalid(c, "id", "must be a positive integer")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		issue, err := issues.GetIssue(userID, issueID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrIssueNotFound):
				apierrors.NotFound(c, "Issue not found")
			case errors.Is(err, services.ErrIssueForbidden):
				apierrors.Forbidden(c, "You do not have access to this issue")
			default:
				logger.Error("failed to load issue", "issue_id", issueID, "error", err)
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyIssue, issue)
		c.Next()
	}
}

// GetIssue retrieves the issue stored by RequireIssueOwner
func GetIssue(c *gin.Context) (*models.Issue, bool) {
	value, exists := c.Get(constants.ContextKeyIssue)
	if !exists {
		return nil, false
	}
	issue, ok := value.(*models.Issue)
	return issue, ok
}
