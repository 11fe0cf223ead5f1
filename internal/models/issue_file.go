package models

import "time"

// IssueFile is an uploaded attachment. IssueID stays nil until the file is
// associated with an issue.
type IssueFile struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	UserID       uint64    `gorm:"not null;index" json:"user_id"`
	IssueID      *uint64   `json:"issue_id"`
	Key          string    `gorm:"column:storage_key;type:varchar(36);uniqueIndex;not null" json:"key"`
	URL          string    `gorm:"type:varchar(255);not null" json:"url"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	Size         int64     `gorm:"not null" json:"size"`
	MimeType     string    `gorm:"type:varchar(255);not null" json:"mime_type"`
	Content      []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// FileMetadataColumns lists every column except the binary content.
var FileMetadataColumns = []string{
	"id", "user_id", "issue_id", "storage_key", "url", "original_name", "size", "mime_type", "created_at",
}
