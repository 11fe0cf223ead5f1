package services

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/yukikurage/bug-journal-api/internal/constants"
	"github.com/yukikurage/bug-journal-api/internal/models"
	"github.com/yukikurage/bug-journal-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrFileRequired  = errors.New("file is required")
	ErrFileTooLarge  = errors.New("file exceeds the upload size limit")
	ErrFileNotFound  = errors.New("file not found")
	ErrFileForbidden = errors.New("file belongs to another user")
)

// FileService stores uploads that are later attached to issues.
type FileService struct {
	fileRepo repository.FileRepository
	maxBytes int64
}

// NewFileService creates a new FileService accepting files up to maxBytes.
func NewFileService(fileRepo repository.FileRepository, maxBytes int64) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		maxBytes: maxBytes,
	}
}

// UploadInput describes a received multipart file.
type UploadInput struct {
	UserID   uint64
	Name     string
	MimeType string
	Content  io.Reader
}

// Upload stores a file without associating it with any issue.
func (s *FileService) Upload(input UploadInput) (*models.IssueFile, error) {
	if input.Content == nil {
		return nil, ErrFileRequired
	}

	content, err := io.ReadAll(io.LimitReader(input.Content, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(content)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	if len(content) == 0 {
		return nil, ErrFileRequired
	}

	name := filepath.Base(strings.TrimSpace(input.Name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload"
	}

	key := uuid.NewString()
	file := &models.IssueFile{
		UserID:       input.UserID,
		Key:          key,
		URL:          constants.FileURLPrefix + key,
		OriginalName: name,
		Size:         int64(len(content)),
		MimeType:     detectMimeType(content, input.MimeType),
		Content:      content,
	}

	if err := s.fileRepo.Create(file); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}
	return file, nil
}

// Download returns a stored file owned by actorID.
func (s *FileService) Download(actorID uint64, key string) (*models.IssueFile, error) {
	if _, err := uuid.Parse(key); err != nil {
		return nil, ErrFileNotFound
	}

	file, err := s.fileRepo.FindByKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}

	if file.UserID != actorID {
		return nil, ErrFileForbidden
	}
	return file, nil
}

// detectMimeType sniffs the content and only trusts the client supplied type
// when sniffing finds nothing more specific than a generic binary stream.
func detectMimeType(content []byte, declared string) string {
	detected := mimetype.Detect(content)
	if detected.Is("application/octet-stream") && declared != "" {
		return declared
	}
	return detected.String()
}
