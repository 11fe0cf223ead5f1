package repository

import (
	"fmt"
	"time"

	"github.com/yukikurage/bug-journal-api/internal/database"
	"github.com/yukikurage/bug-journal-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormIssueRepository is a GORM implementation of IssueRepository
type GormIssueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new IssueRepository
func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &GormIssueRepository{db: db}
}

func (r *GormIssueRepository) withDetails() *gorm.DB {
	return r.db.
		Preload("Links", func(db *gorm.DB) *gorm.DB { return db.Order("issue_links.id ASC") }).
		Preload("Files", database.FileMetadata(models.FileMetadataColumns))
}

// FindByID finds an issue with its tags, links and files
func (r *GormIssueRepository) FindByID(id uint64) (*models.Issue, error) {
	var issue models.Issue
	if err := r.withDetails().First(&issue, id).Error; err != nil {
		return nil, err
	}
	if err := attachTags(r.db, []*models.Issue{&issue}); err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListByUser lists a user's issues, most recent day first
func (r *GormIssueRepository) ListByUser(userID uint64) ([]models.Issue, error) {
	return r.list(database.OwnedBy(userID))
}

// ListByUserAndDate lists a user's issues whose date equals date (YYYY-MM-DD)
func (r *GormIssueRepository) ListByUserAndDate(userID uint64, date string) ([]models.Issue, error) {
	return r.list(database.OwnedBy(userID), database.OnDate(date))
}

func (r *GormIssueRepository) list(scopes ...func(*gorm.DB) *gorm.DB) ([]models.Issue, error) {
	issues := []models.Issue{}
	if err := r.withDetails().
		Scopes(scopes...).
		Scopes(database.NewestFirst).
		Find(&issues).Error; err != nil {
		return nil, err
	}

	ptrs := make([]*models.Issue, len(issues))
	for i := range issues {
		ptrs[i] = &issues[i]
	}
	if err := attachTags(r.db, ptrs); err != nil {
		return nil, err
	}
	return issues, nil
}

// Create inserts an issue together with its tags, links and file associations
func (r *GormIssueRepository) Create(issue *models.Issue, details IssueDetails) (*models.Issue, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(issue).Error; err != nil {
			return fmt.Errorf("create issue: %w", err)
		}
		if err := replaceTags(tx, issue.ID, details.Tags); err != nil {
			return fmt.Errorf("create issue tags: %w", err)
		}
		if err := replaceLinks(tx, issue.ID, details.Links); err != nil {
			return fmt.Errorf("create issue links: %w", err)
		}
		return attachFiles(tx, issue.UserID, issue.ID, details.FileIDs)
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(issue.ID)
}

// Update applies a partial update and replaces the child sets present in details
func (r *GormIssueRepository) Update(id uint64, fields map[string]any, details IssueDetails) (*models.Issue, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current models.Issue
		if err := tx.Select("id", "user_id").First(&current, id).Error; err != nil {
			return err
		}

		updates := make(map[string]any, len(fields)+1)
		for k, v := range fields {
			updates[k] = v
		}
		updates["updated_at"] = time.Now()

		if err := tx.Model(&models.Issue{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update issue: %w", err)
		}

		if details.Tags != nil {
			if err := replaceTags(tx, id, details.Tags); err != nil {
				return fmt.Errorf("replace issue tags: %w", err)
			}
		}
		if details.Links != nil {
			if err := replaceLinks(tx, id, details.Links); err != nil {
				return fmt.Errorf("replace issue links: %w", err)
			}
		}
		return attachFiles(tx, current.UserID, id, details.FileIDs)
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(id)
}

// Delete removes an issue and every row that depends on it
func (r *GormIssueRepository) Delete(id uint64) (bool, error) {
	var deleted bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("issue_id = ?", id).Delete(&models.IssueLink{}).Error; err != nil {
			return fmt.Errorf("delete issue links: %w", err)
		}
		if err := tx.Where("issue_id = ?", id).Delete(&models.IssueTag{}).Error; err != nil {
			return fmt.Errorf("delete issue tags: %w", err)
		}
		if err := tx.Where("issue_id = ?", id).Delete(&models.IssueFile{}).Error; err != nil {
			return fmt.Errorf("delete issue files: %w", err)
		}

		result := tx.Delete(&models.Issue{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete issue: %w", result.Error)
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// ListLinks lists the links of an issue
func (r *GormIssueRepository) ListLinks(issueID uint64) ([]models.IssueLink, error) {
	links := []models.IssueLink{}
	if err := r.db.Where("issue_id = ?", issueID).Order("id ASC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

// AddLink adds a link to an issue
func (r *GormIssueRepository) AddLink(link *models.IssueLink) error {
	return r.db.Create(link).Error
}

// FindLink finds a link by ID
func (r *GormIssueRepository) FindLink(id uint64) (*models.IssueLink, error) {
	var link models.IssueLink
	if err := r.db.First(&link, id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// DeleteLink deletes a link and reports whether it existed
func (r *GormIssueRepository) DeleteLink(id uint64) (bool, error) {
	result := r.db.Delete(&models.IssueLink{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func replaceLinks(tx *gorm.DB, issueID uint64, links []models.IssueLink) error {
	if err := tx.Where("issue_id = ?", issueID).Delete(&models.IssueLink{}).Error; err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}

	rows := make([]models.IssueLink, len(links))
	for i, link := range links {
		rows[i] = models.IssueLink{
			IssueID: issueID,
			Title:   link.Title,
			URL:     link.URL,
		}
	}
	return tx.Create(&rows).Error
}

// attachFiles points previously uploaded files at an issue. Every id must
// belong to userID and be either unattached or already on this issue.
func attachFiles(tx *gorm.DB, userID, issueID uint64, fileIDs []uint64) error {
	ids := uniqueUint64(fileIDs)
	if len(ids) == 0 {
		return nil
	}

	var count int64
	if err := tx.Model(&models.IssueFile{}).
		Where("id IN ? AND user_id = ?", ids, userID).
		Where("(issue_id IS NULL OR issue_id = ?)", issueID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("verify files: %w", err)
	}
	if int(count) != len(ids) {
		return ErrInvalidFileReference
	}

	if err := tx.Model(&models.IssueFile{}).
		Where("id IN ?", ids).
		Update("issue_id", issueID).Error; err != nil {
		return fmt.Errorf("attach files: %w", err)
	}
	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
