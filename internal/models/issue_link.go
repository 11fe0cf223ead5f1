package models

type IssueLink struct {
	ID      uint64 `gorm:"primarykey" json:"id"`
	IssueID uint64 `gorm:"not null" json:"issue_id"`
	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	URL     string `gorm:"type:varchar(2048);not null" json:"url"`
}
