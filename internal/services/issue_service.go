package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/bug-journal-api/internal/models"
	"github.com/yukikurage/bug-journal-api/internal/repository"
	"github.com/yukikurage/bug-journal-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrIssueNotFound        = errors.New("issue not found")
	ErrIssueForbidden       = errors.New("issue belongs to another user")
	ErrTitleRequired        = errors.New("title is required")
	ErrTitleEmpty           = errors.New("title cannot be empty")
	ErrInvalidStatus        = errors.New("status must be one of unresolved, in_progress, resolved")
	ErrInvalidDate          = errors.New("date must be a calendar day in YYYY-MM-DD format")
	ErrInvalidFileReference = errors.New("one or more files do not exist, belong to another user or are attached elsewhere")
	ErrLinkNotFound         = errors.New("link not found")
	ErrLinkTitleRequired    = errors.New("link title is required")
	ErrLinkURLRequired      = errors.New("link url is required")
	ErrInvalidTags          = errors.New("tag names must be at most 100 characters")
)

// IssueService handles issue business logic
type IssueService struct {
	issueRepo repository.IssueRepository
}

// NewIssueService creates a new IssueService
func NewIssueService(issueRepo repository.IssueRepository) *IssueService {
	return &IssueService{
		issueRepo: issueRepo,
	}
}

// LinkInput represents a reference link attached to an issue
type LinkInput struct {
	Title string
	URL   string
}

// CreateIssueInput represents input for creating an issue
type CreateIssueInput struct {
	UserID           uint64
	Title            string
	Description      string
	StepsToReproduce string
	Solution         string
	Status           models.IssueStatus
	Date             string
	Tags             []string
	Links            []LinkInput
	FileIDs          []uint64
}

// UpdateIssueInput represents a partial update. Nil fields are left
// unchanged; non-nil Tags, Links and FileIDs replace the current set.
type UpdateIssueInput struct {
	Title            *string
	Description      *string
	StepsToReproduce *string
	Solution         *string
	Status           *models.IssueStatus
	Date             *string
	Tags             *[]string
	Links            *[]LinkInput
	FileIDs          *[]uint64
}

// ListIssues returns every issue of a user, most recent first
func (s *IssueService) ListIssues(userID uint64) ([]models.Issue, error) {
	issues, err := s.issueRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, nil
}

// ListIssuesByDate returns the issues of a user recorded for one calendar day
func (s *IssueService) ListIssuesByDate(userID uint64, date string) ([]models.Issue, error) {
	if !utils.IsCalendarDate(date) {
		return nil, ErrInvalidDate
	}

	issues, err := s.issueRepo.ListByUserAndDate(userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues by date: %w", err)
	}
	return issues, nil
}

// GetIssue returns an issue with its tags, links and files if actorID owns it
func (s *IssueService) GetIssue(actorID, issueID uint64) (*models.Issue, error) {
	return s.ownedIssue(actorID, issueID)
}

// CreateIssue validates input and stores the issue with its tags, links and files
func (s *IssueService) CreateIssue(input CreateIssueInput) (*models.Issue, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.IssueStatusUnresolved
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if input.Date == "" {
		input.Date = utils.Today()
	}
	if !utils.IsCalendarDate(input.Date) {
		return nil, ErrInvalidDate
	}

	tags, err := toTagModels(input.Tags)
	if err != nil {
		return nil, err
	}
	links, err := toLinkModels(input.Links)
	if err != nil {
		return nil, err
	}

	issue := &models.Issue{
		UserID:           input.UserID,
		Title:            title,
		Description:      input.Description,
		StepsToReproduce: input.StepsToReproduce,
		Solution:         input.Solution,
		Status:           input.Status,
		Date:             input.Date,
	}

	created, err := s.issueRepo.Create(issue, repository.IssueDetails{
		Tags:    tags,
		Links:   links,
		FileIDs: input.FileIDs,
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalidFileReference) {
			return nil, ErrInvalidFileReference
		}
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	return created, nil
}

// UpdateIssue applies a partial update to an issue owned by actorID
func (s *IssueService) UpdateIssue(actorID, issueID uint64, input UpdateIssueInput) (*models.Issue, error) {
	if _, err := s.ownedIssue(actorID, issueID); err != nil {
		return nil, err
	}

	fields := make(map[string]any)
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.StepsToReproduce != nil {
		fields["steps_to_reproduce"] = *input.StepsToReproduce
	}
	if input.Solution != nil {
		fields["solution"] = *input.Solution
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		fields["status"] = *input.Status
	}
	if input.Date != nil {
		if !utils.IsCalendarDate(*input.Date) {
			return nil, ErrInvalidDate
		}
		fields["date"] = *input.Date
	}

	var details repository.IssueDetails
	if input.Tags != nil {
		tags, err := toTagModels(*input.Tags)
		if err != nil {
			return nil, err
		}
		details.Tags = tags
		if details.Tags == nil {
			details.Tags = []models.Tag{}
		}
	}
	if input.Links != nil {
		links, err := toLinkModels(*input.Links)
		if err != nil {
			return nil, err
		}
		if links == nil {
			links = []models.IssueLink{}
		}
		details.Links = links
	}
	if input.FileIDs != nil {
		details.FileIDs = *input.FileIDs
	}

	updated, err := s.issueRepo.Update(issueID, fields, details)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrIssueNotFound
		case errors.Is(err, repository.ErrInvalidFileReference):
			return nil, ErrInvalidFileReference
		default:
			return nil, fmt.Errorf("failed to update issue: %w", err)
		}
	}

	return updated, nil
}

// DeleteIssue removes an issue owned by actorID together with its links, tag associations and files
func (s *IssueService) DeleteIssue(actorID, issueID uint64) error {
	if _, err := s.ownedIssue(actorID, issueID); err != nil {
		return err
	}

	deleted, err := s.issueRepo.Delete(issueID)
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	if !deleted {
		return ErrIssueNotFound
	}
	return nil
}

// ListLinks returns the links of an issue owned by actorID
func (s *IssueService) ListLinks(actorID, issueID uint64) ([]models.IssueLink, error) {
	if _, err := s.ownedIssue(actorID, issueID); err != nil {
		return nil, err
	}

	links, err := s.issueRepo.ListLinks(issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return links, nil
}

// AddLink attaches a link to an issue owned by actorID
func (s *IssueService) AddLink(actorID, issueID uint64, input LinkInput) (*models.IssueLink, error) {
	if _, err := s.ownedIssue(actorID, issueID); err != nil {
		return nil, err
	}

	links, err := toLinkModels([]LinkInput{input})
	if err != nil {
		return nil, err
	}

	link := &links[0]
	link.IssueID = issueID
	if err := s.issueRepo.AddLink(link); err != nil {
		return nil, fmt.Errorf("failed to add link: %w", err)
	}
	return link, nil
}

// DeleteLink removes a link from an issue owned by actorID
func (s *IssueService) DeleteLink(actorID, linkID uint64) error {
	link, err := s.issueRepo.FindLink(linkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLinkNotFound
		}
		return fmt.Errorf("failed to find link: %w", err)
	}

	if _, err := s.ownedIssue(actorID, link.IssueID); err != nil {
		return err
	}

	deleted, err := s.issueRepo.DeleteLink(linkID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if !deleted {
		return ErrLinkNotFound
	}
	return nil
}

// ownedIssue loads an issue and verifies that actorID owns it
func (s *IssueService) ownedIssue(actorID, issueID uint64) (*models.Issue, error) {
	issue, err := s.issueRepo.FindByID(issueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}

	if issue.UserID != actorID {
		return nil, ErrIssueForbidden
	}
	return issue, nil
}

// toTagModels skips blank names and rejects names the tag service would reject.
func toTagModels(names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		name, err := cleanTagName(name)
		if errors.Is(err, ErrTagNameRequired) {
			continue
		}
		if err != nil {
			return nil, ErrInvalidTags
		}
		tags = append(tags, models.Tag{Name: name, Color: utils.TagColor(name)})
	}
	return tags, nil
}

func toLinkModels(inputs []LinkInput) ([]models.IssueLink, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	links := make([]models.IssueLink, len(inputs))
	for i, in := range inputs {
		title := strings.TrimSpace(in.Title)
		url := strings.TrimSpace(in.URL)
		if title == "" {
			return nil, ErrLinkTitleRequired
		}
		if url == "" {
			return nil, ErrLinkURLRequired
		}
		links[i] = models.IssueLink{Title: title, URL: url}
	}
	return links, nil
}
