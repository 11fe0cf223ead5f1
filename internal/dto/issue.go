package dto

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yukikurage/bug-journal-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// TagDTO represents a tag in API responses
type TagDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// LinkDTO represents an issue link in API responses
type LinkDTO struct {
	ID      uint64 `json:"id"`
	IssueID uint64 `json:"issue_id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
}

// FileDTO represents uploaded file metadata in API responses
type FileDTO struct {
	ID           uint64    `json:"id"`
	IssueID      *uint64   `json:"issue_id"`
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
	SizeLabel    string    `json:"size_label"`
	MimeType     string    `json:"mime_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// IssueDTO is the aggregated issue view with tags, links and files
type IssueDTO struct {
	ID               uint64             `json:"id"`
	UserID           uint64             `json:"user_id"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	StepsToReproduce string             `json:"steps_to_reproduce"`
	Solution         string             `json:"solution"`
	Status           models.IssueStatus `json:"status"`
	Date             string             `json:"date"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	Tags             []TagDTO           `json:"tags"`
	Links            []LinkDTO          `json:"links"`
	Files            []FileDTO          `json:"files"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

// ToTagDTO converts a Tag model to TagDTO
func ToTagDTO(tag models.Tag) TagDTO {
	return TagDTO{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
	}
}

// ToTagDTOs converts tags, never returning nil
func ToTagDTOs(tags []models.Tag) []TagDTO {
	dtos := make([]TagDTO, len(tags))
	for i, tag := range tags {
		dtos[i] = ToTagDTO(tag)
	}
	return dtos
}

// ToLinkDTO converts an IssueLink model to LinkDTO
func ToLinkDTO(link models.IssueLink) LinkDTO {
	return LinkDTO{
		ID:      link.ID,
		IssueID: link.IssueID,
		Title:   link.Title,
		URL:     link.URL,
	}
}

// ToLinkDTOs converts links, never returning nil
func ToLinkDTOs(links []models.IssueLink) []LinkDTO {
	dtos := make([]LinkDTO, len(links))
	for i, link := range links {
		dtos[i] = ToLinkDTO(link)
	}
	return dtos
}

// ToFileDTO converts an IssueFile model to FileDTO
func ToFileDTO(file models.IssueFile) FileDTO {
	return FileDTO{
		ID:           file.ID,
		IssueID:      file.IssueID,
		Key:          file.Key,
		URL:          file.URL,
		OriginalName: file.OriginalName,
		Size:         file.Size,
		SizeLabel:    humanize.Bytes(uint64(file.Size)),
		MimeType:     file.MimeType,
		CreatedAt:    file.CreatedAt,
	}
}

// ToIssueDTO converts an Issue model with its relations to IssueDTO
func ToIssueDTO(issue models.Issue) IssueDTO {
	files := make([]FileDTO, len(issue.Files))
	for i, file := range issue.Files {
		files[i] = ToFileDTO(file)
	}

	return IssueDTO{
		ID:               issue.ID,
		UserID:           issue.UserID,
		Title:            issue.Title,
		Description:      issue.Description,
		StepsToReproduce: issue.StepsToReproduce,
		Solution:         issue.Solution,
		Status:           issue.Status,
		Date:             issue.Date,
		CreatedAt:        issue.CreatedAt,
		UpdatedAt:        issue.UpdatedAt,
		Tags:             ToTagDTOs(issue.Tags),
		Links:            ToLinkDTOs(issue.Links),
		Files:            files,
	}
}

// ToIssueDTOs converts a list of issues
func ToIssueDTOs(issues []models.Issue) []IssueDTO {
	dtos := make([]IssueDTO, len(issues))
	for i, issue := range issues {
		dtos[i] = ToIssueDTO(issue)
	}
	return dtos
}
