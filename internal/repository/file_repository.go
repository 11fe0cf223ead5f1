package repository

import (
	"github.com/yukikurage/bug-journal-api/internal/models"
	"gorm.io/gorm"
)

// GormFileRepository is a GORM implementation of FileRepository
type GormFileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *gorm.DB) FileRepository {
	return &GormFileRepository{db: db}
}

// Create stores an uploaded file
func (r *GormFileRepository) Create(file *models.IssueFile) error {
	return r.db.Create(file).Error
}

// FindByKey finds a file, including its content, by storage key
func (r *GormFileRepository) FindByKey(key string) (*models.IssueFile, error) {
	var file models.IssueFile
	if err := r.db.Where("storage_key = ?", key).First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}
