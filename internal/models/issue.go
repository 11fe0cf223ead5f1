package models

import "time"

type IssueStatus string

const (
	IssueStatusUnresolved IssueStatus = "unresolved"
	IssueStatusInProgress IssueStatus = "in_progress"
	IssueStatusResolved   IssueStatus = "resolved"
)

// Valid reports whether s is one of the known statuses.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusUnresolved, IssueStatusInProgress, IssueStatusResolved:
		return true
	}
	return false
}

// Issue is a journal entry. Date is the calendar day the issue pertains to,
// stored as YYYY-MM-DD so that day lookups never depend on time zones.
type Issue struct {
	ID               uint64      `gorm:"primarykey" json:"id"`
	UserID           uint64      `gorm:"not null;index" json:"user_id"`
	Title            string      `gorm:"type:varchar(255);not null" json:"title"`
	Description      string      `gorm:"type:text" json:"description"`
	StepsToReproduce string      `gorm:"type:text" json:"steps_to_reproduce"`
	Solution         string      `gorm:"type:text" json:"solution"`
	Status           IssueStatus `gorm:"type:varchar(20);not null;default:'unresolved'" json:"status"`
	Date             string      `gorm:"type:varchar(10);not null" json:"date"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`

	// Relations
	User  User        `gorm:"foreignKey:UserID" json:"-"`
	Links []IssueLink `gorm:"foreignKey:IssueID" json:"links,omitempty"`
	Files []IssueFile `gorm:"foreignKey:IssueID" json:"files,omitempty"`

	// Tags are joined through issue_tags by the repository.
	Tags []Tag `gorm:"-" json:"tags,omitempty"`
}
