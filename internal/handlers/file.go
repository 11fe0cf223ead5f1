package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/bug-journal-api/internal/constants"
	"github.com/yukikurage/bug-journal-api/internal/dto"
	apierrors "github.com/yukikurage/bug-journal-api/internal/errors"
	"github.com/yukikurage/bug-journal-api/internal/middleware"
	"github.com/yukikurage/bug-journal-api/internal/services"
)

// multipartOverhead is allowed on top of the file size for boundaries and headers.
const multipartOverhead = 1 << 20

// FileHandler serves uploads and downloads of issue attachments.
type FileHandler struct {
	fileService *services.FileService
	maxBytes    int64
	logger      *slog.Logger
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(fileService *services.FileService, maxBytes int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxBytes:    maxBytes,
		logger:      logger,
	}
}

// Upload stores a multipart file. The file stays unattached until an issue
// references it through file_ids.
func (h *FileHandler) Upload(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	header, err := c.FormFile(constants.UploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.PayloadTooLarge(c, services.ErrFileTooLarge.Error())
			return
		}
		apierrors.FieldInvalid(c, constants.UploadFormField, "is required")
		return
	}

	if header.Size > h.maxBytes {
		apierrors.PayloadTooLarge(c, services.ErrFileTooLarge.Error())
		return
	}

	src, err := header.Open()
	if err != nil {
		respondServiceError(c, h.logger, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer src.Close()

	file, err := h.fileService.Upload(services.UploadInput{
		UserID:   userID,
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Content:  src,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	h.logger.Info("file uploaded", "file_id", file.ID, "user_id", userID, "size", file.Size)
	c.JSON(http.StatusCreated, dto.ToFileDTO(*file))
}

// Download streams a stored file to its owner.
func (h *FileHandler) Download(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	file, err := h.fileService.Download(userID, c.Param("key"))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": file.OriginalName}))
	c.Data(http.StatusOK, file.MimeType, file.Content)
}
