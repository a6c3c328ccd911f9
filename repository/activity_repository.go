package repository

import (
	"fmt"
	"time"

	"github.com/camden-git/genealogybackend/models"
	"gorm.io/gorm"
)

type GormActivityRepository struct {
	db *gorm.DB
}

func NewGormActivityRepository(db *gorm.DB) ActivityRepository {
	return &GormActivityRepository{db: db}
}

func (r *GormActivityRepository) Create(activity *models.Activity) error {
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}
	if err := r.db.Create(activity).Error; err != nil {
		return fmt.Errorf("failed to record %s of %s: %w", activity.Event, activity.Subject(), err)
	}
	return nil
}

// ListRecent returns the newest activities of a project first
func (r *GormActivityRepository) ListRecent(projectID uint, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activity of project %d: %w", projectID, err)
	}
	return activities, nil
}
