package models

type IssueTag struct {
	ID      uint64 `gorm:"primarykey" json:"id"`
	IssueID uint64 `gorm:"not null;uniqueIndex:idx_issue_tags_pair" json:"issue_id"`
	TagID   uint64 `gorm:"not null;uniqueIndex:idx_issue_tags_pair;index" json:"tag_id"`

	// Relations
	Issue Issue `gorm:"foreignKey:IssueID" json:"-"`
	Tag   Tag   `gorm:"foreignKey:TagID" json:"-"`
}
