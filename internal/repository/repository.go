package repository

import (
	"errors"

	"github.com/yukikurage/bug-journal-api/internal/models"
)

var (
	// ErrInvalidFileReference is returned when a file id does not belong to the
	// issue owner or is already attached to another issue.
	ErrInvalidFileReference = errors.New("repository: invalid file reference")
)

// IssueDetails carries the child rows written together with an issue.
// On update a nil slice leaves that set unchanged and a non-nil slice
// (including an empty one) replaces it.
type IssueDetails struct {
	Tags    []models.Tag
	Links   []models.IssueLink
	FileIDs []uint64
}

// IssueRepository defines the interface for issue data access
type IssueRepository interface {
	// FindByID finds an issue with its tags, links and files
	FindByID(id uint64) (*models.Issue, error)

	// ListByUser lists a user's issues, most recent day first
	ListByUser(userID uint64) ([]models.Issue, error)

	// ListByUserAndDate lists a user's issues whose date equals date (YYYY-MM-DD)
	ListByUserAndDate(userID uint64, date string) ([]models.Issue, error)

	// Create inserts an issue together with its tags, links and file associations
	Create(issue *models.Issue, details IssueDetails) (*models.Issue, error)

	// Update applies a partial update and replaces the child sets present in details
	Update(id uint64, fields map[string]any, details IssueDetails) (*models.Issue, error)

	// Delete removes an issue and every row that depends on it
	Delete(id uint64) (bool, error)

	// ListLinks lists the links of an issue
	ListLinks(issueID uint64) ([]models.IssueLink, error)

	// AddLink adds a link to an issue
	AddLink(link *models.IssueLink) error

	// FindLink finds a link by ID
	FindLink(id uint64) (*models.IssueLink, error)

	// DeleteLink deletes a link and reports whether it existed
	DeleteLink(id uint64) (bool, error)
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	// List returns every tag ordered by name
	List() ([]models.Tag, error)

	// ListByIssue returns the tags associated with an issue
	ListByIssue(issueID uint64) ([]models.Tag, error)

	// FindByID finds a tag by ID
	FindByID(id uint64) (*models.Tag, error)

	// FindOrCreate returns the tag named name, creating it with color if absent
	FindOrCreate(name, color string) (*models.Tag, error)

	// AddToIssue associates a tag with an issue; existing pairs are left alone
	AddToIssue(issueID, tagID uint64) error

	// RemoveFromIssue removes the association if present
	RemoveFromIssue(issueID, tagID uint64) error
}

// FileRepository defines the interface for uploaded file data access
type FileRepository interface {
	// Create stores an uploaded file
	Create(file *models.IssueFile) error

	// FindByKey finds a file, including its content, by storage key
	FindByKey(key string) (*models.IssueFile, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}
