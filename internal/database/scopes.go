package database

import (
	"gorm.io/gorm"
)

// OwnedBy restricts issue queries to a single user.
func OwnedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("issues.user_id = ?", userID)
	}
}

// OnDate matches the stored calendar day exactly.
func OnDate(date string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("issues.date = ?", date)
	}
}

// NewestFirst orders issues by calendar day, then creation time.
func NewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("issues.date DESC").Order("issues.created_at DESC").Order("issues.id DESC")
}

// FileMetadata loads attachments without their binary content.
func FileMetadata(columns []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Select(columns).Order("issue_files.id ASC")
	}
}
