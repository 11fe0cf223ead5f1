package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-journal-api/internal/constants"
	apierrors "github.com/yukikurage/bug-journal-api/internal/errors"
	"github.com/yukikurage/bug-journal-api/internal/services"
)

// respondServiceError maps service errors to API responses. Anything not
// recognised is logged and reported as a generic 500.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrIssueNotFound),
		errors.Is(err, services.ErrLinkNotFound),
		errors.Is(err, services.ErrFileNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrIssueForbidden),
		errors.Is(err, services.ErrFileForbidden):
		apierrors.Forbidden(c, err.Error())

	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty):
		apierrors.FieldInvalid(c, "title", "is required")
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.FieldInvalid(c, "status", err.Error())
	case errors.Is(err, services.ErrInvalidDate):
		apierrors.FieldInvalid(c, "date", err.Error())
	case errors.Is(err, services.ErrInvalidFileReference):
		apierrors.FieldInvalid(c, "file_ids", err.Error())
	case errors.Is(err, services.ErrLinkTitleRequired):
		apierrors.FieldInvalid(c, "title", "is required")
	case errors.Is(err, services.ErrLinkURLRequired):
		apierrors.FieldInvalid(c, "url", "is required")
	case errors.Is(err, services.ErrTagNameRequired):
		apierrors.FieldInvalid(c, "name", "is required")
	case errors.Is(err, services.ErrTagNameTooLong):
		apierrors.FieldInvalid(c, "name", err.Error())
	case errors.Is(err, services.ErrInvalidTags):
		apierrors.FieldInvalid(c, "tags", err.Error())
	case errors.Is(err, services.ErrFileRequired):
		apierrors.FieldInvalid(c, constants.UploadFormField, err.Error())
	case errors.Is(err, services.ErrFileTooLarge):
		apierrors.PayloadTooLarge(c, err.Error())

	case errors.Is(err, services.ErrUsernameTooShort):
		apierrors.FieldInvalid(c, "username", fmt.Sprintf("must be at least %d characters", constants.MinUsernameLength))
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.FieldInvalid(c, "password", fmt.Sprintf("must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)

	default:
		logger.Error("request failed", "route", c.FullPath(), "error", err)
		apierrors.InternalError(c, "")
	}
}
