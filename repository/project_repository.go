package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/genealogybackend/database"
	"github.com/camden-git/genealogybackend/models"
	"gorm.io/gorm"
)

// ProjectRepository handles database operations for Project entities
type GormProjectRepository struct {
	DB *gorm.DB
}

func NewGormProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{DB: db}
}

// Create creates a new project record in the database
func (r *GormProjectRepository) Create(project *models.Project) error {
	if err := r.DB.Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project '%s': %w", project.Title, err)
	}
	return nil
}

// GetByID retrieves a project by its ID, preloading the owner
func (r *GormProjectRepository) GetByID(id uint) (*models.Project, error) {
	var project models.Project
	err := r.DB.Preload("Owner").First(&project, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get project by ID %d: %w", id, err)
	}
	return &project, nil
}

// ListVisibleTo lists projects the user owns or was invited into, most recently updated first
func (r *GormProjectRepository) ListVisibleTo(userID uint) ([]models.Project, error) {
	where, args, err := database.VisibleProjectsPredicate(userID)
	if err != nil {
		return nil, err
	}

	var projects []models.Project
	err = r.DB.Preload("Owner").
		Where(where, args...).
		Order("projects.updated_at DESC").
		Order("projects.id DESC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects for user %d: %w", userID, err)
	}
	return projects, nil
}

// Update applies a partial update to the given columns
func (r *GormProjectRepository) Update(projectID uint, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	changes["updated_at"] = time.Now()

	result := r.DB.Model(&models.Project{}).Where("id = ?", projectID).Updates(changes)
	if result.Error != nil {
		return fmt.Errorf("failed to update project ID %d: %w", projectID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Touch refreshes updated_at without changing any other column
func (r *GormProjectRepository) Touch(projectID uint) error {
	result := r.DB.Model(&models.Project{}).Where("id = ?", projectID).UpdateColumn("updated_at", time.Now())
	if result.Error != nil {
		return fmt.Errorf("failed to touch project ID %d: %w", projectID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a project and everything filed under it
func (r *GormProjectRepository) Delete(id uint) error {
	if err := r.DB.Where("project_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
		return fmt.Errorf("failed to delete activities of project ID %d: %w", id, err)
	}
	if err := r.DB.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
		return fmt.Errorf("failed to delete members of project ID %d: %w", id, err)
	}
	if err := r.DB.Where("project_id = ?", id).Delete(&models.Person{}).Error; err != nil {
		return fmt.Errorf("failed to delete people of project ID %d: %w", id, err)
	}

	result := r.DB.Delete(&models.Project{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete project ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
