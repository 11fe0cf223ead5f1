package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/bug-journal-api/internal/models"
	"github.com/yukikurage/bug-journal-api/internal/repository"
	"github.com/yukikurage/bug-journal-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTagNameRequired = errors.New("tag name is required")
	ErrTagNameTooLong  = errors.New("tag name must be at most 100 characters")
)

const maxTagNameLength = 100

// cleanTagName trims name and checks it against the tag column, counting characters.
func cleanTagName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrTagNameRequired
	}
	if utf8.RuneCountInString(name) > maxTagNameLength {
		return "", ErrTagNameTooLong
	}
	return name, nil
}

// TagService handles tag lookups and issue/tag associations.
type TagService struct {
	tagRepo repository.TagRepository
	issues  *IssueService
}

// NewTagService creates a new TagService. Ownership of the issue side of an
// association is checked through issues.
func NewTagService(tagRepo repository.TagRepository, issues *IssueService) *TagService {
	return &TagService{
		tagRepo: tagRepo,
		issues:  issues,
	}
}

// ListTags returns every known tag.
func (s *TagService) ListTags() ([]models.Tag, error) {
	tags, err := s.tagRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// CreateTag finds a tag by name or creates it. Creating an existing name
// returns the stored row unchanged.
func (s *TagService) CreateTag(name, color string) (*models.Tag, error) {
	name, err := cleanTagName(name)
	if err != nil {
		return nil, err
	}

	tag, err := s.tagRepo.FindOrCreate(name, utils.NormalizeColor(name, color))
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// ListIssueTags returns the tags of an issue owned by actorID.
func (s *TagService) ListIssueTags(actorID, issueID uint64) ([]models.Tag, error) {
	if _, err := s.issues.ownedIssue(actorID, issueID); err != nil {
		return nil, err
	}

	tags, err := s.tagRepo.ListByIssue(issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issue tags: %w", err)
	}
	return tags, nil
}

// AddTagToIssue finds or creates the named tag and associates it with the issue.
func (s *TagService) AddTagToIssue(actorID, issueID uint64, name, color string) (*models.Tag, error) {
	if _, err := s.issues.ownedIssue(actorID, issueID); err != nil {
		return nil, err
	}

	tag, err := s.CreateTag(name, color)
	if err != nil {
		return nil, err
	}

	if err := s.tagRepo.AddToIssue(issueID, tag.ID); err != nil {
		return nil, fmt.Errorf("failed to add tag to issue: %w", err)
	}
	return tag, nil
}

// RemoveTagFromIssue removes one association. Removing a tag that is not
// attached is a no-op; the tag row itself is kept.
func (s *TagService) RemoveTagFromIssue(actorID, issueID, tagID uint64) error {
	if _, err := s.issues.ownedIssue(actorID, issueID); err != nil {
		return err
	}

	if err := s.tagRepo.RemoveFromIssue(issueID, tagID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to remove tag from issue: %w", err)
	}
	return nil
}
