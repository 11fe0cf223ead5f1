package repository

import (
	"errors"
	"strings"

	"github.com/yukikurage/bug-journal-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// List returns every tag ordered by name
func (r *GormTagRepository) List() ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := r.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// ListByIssue returns the tags associated with an issue
func (r *GormTagRepository) ListByIssue(issueID uint64) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := r.db.Model(&models.Tag{}).
		Joins("JOIN issue_tags ON issue_tags.tag_id = tags.id").
		Where("issue_tags.issue_id = ?", issueID).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// FindByID finds a tag by ID
func (r *GormTagRepository) FindByID(id uint64) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindOrCreate returns the tag named name, creating it with color if absent
func (r *GormTagRepository) FindOrCreate(name, color string) (*models.Tag, error) {
	return findOrCreateTag(r.db, name, color)
}

// AddToIssue associates a tag with an issue; existing pairs are left alone
func (r *GormTagRepository) AddToIssue(issueID, tagID uint64) error {
	return addTagToIssue(r.db, issueID, tagID)
}

// RemoveFromIssue removes the association if present
func (r *GormTagRepository) RemoveFromIssue(issueID, tagID uint64) error {
	return r.db.Where("issue_id = ? AND tag_id = ?", issueID, tagID).
		Delete(&models.IssueTag{}).Error
}

// findOrCreateTag looks a tag up by its unique name and inserts it only when
// missing. A concurrent insert of the same name is absorbed by the unique
// index, after which the winner's row is read back.
func findOrCreateTag(db *gorm.DB, name, color string) (*models.Tag, error) {
	var tag models.Tag
	err := db.Where("name = ?", name).Take(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	candidate := models.Tag{Name: name, Color: color}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidate).Error; err != nil {
		return nil, err
	}

	// The insert may have been skipped, so the generated ID is not trusted.
	if err := db.Where("name = ?", name).Take(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func addTagToIssue(db *gorm.DB, issueID, tagID uint64) error {
	var existing models.IssueTag
	err := db.Where("issue_id = ? AND tag_id = ?", issueID, tagID).Take(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "issue_id"}, {Name: "tag_id"}},
		DoNothing: true,
	}).Create(&models.IssueTag{IssueID: issueID, TagID: tagID}).Error
}

// replaceTags tears down every association of the issue and rebuilds it from
// tags. Removal finishes before any re-add starts.
func replaceTags(db *gorm.DB, issueID uint64, tags []models.Tag) error {
	if err := db.Where("issue_id = ?", issueID).Delete(&models.IssueTag{}).Error; err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		tag, err := findOrCreateTag(db, name, t.Color)
		if err != nil {
			return err
		}
		if err := addTagToIssue(db, issueID, tag.ID); err != nil {
			return err
		}
	}
	return nil
}

type issueTagRow struct {
	IssueID uint64
	ID      uint64
	Name    string
	Color   string
}

// attachTags fills the Tags field of each issue with one query.
func attachTags(db *gorm.DB, issues []*models.Issue) error {
	if len(issues) == 0 {
		return nil
	}

	ids := make([]uint64, len(issues))
	byID := make(map[uint64]*models.Issue, len(issues))
	for i, issue := range issues {
		ids[i] = issue.ID
		issue.Tags = []models.Tag{}
		byID[issue.ID] = issue
	}

	var rows []issueTagRow
	err := db.Table("issue_tags").
		Select("issue_tags.issue_id, tags.id, tags.name, tags.color").
		Joins("JOIN tags ON tags.id = issue_tags.tag_id").
		Where("issue_tags.issue_id IN ?", ids).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return err
	}

	for _, row := range rows {
		if issue, ok := byID[row.IssueID]; ok {
			issue.Tags = append(issue.Tags, models.Tag{ID: row.ID, Name: row.Name, Color: row.Color})
		}
	}
	return nil
}
