package repository

import (
	"fmt"

	"github.com/camden-git/genealogybackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormMembershipRepository struct {
	db *gorm.DB
}

func NewGormMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

func (r *GormMembershipRepository) Add(projectID, userID uint) (*models.ProjectMember, bool, error) {
	member := &models.ProjectMember{ProjectID: projectID, UserID: userID}

	// the unique index on (project_id, user_id) decides; a concurrent invite
	// of the same pair becomes a no-op instead of an error
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(member)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to add user %d to project %d: %w", userID, projectID, result.Error)
	}
	created := result.RowsAffected > 0

	var stored models.ProjectMember
	err := r.db.Preload("User").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&stored).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to load membership of user %d in project %d: %w", userID, projectID, err)
	}
	return &stored, created, nil
}

func (r *GormMembershipRepository) IsMember(projectID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormMembershipRepository) ListByProject(projectID uint) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members of project %d: %w", projectID, err)
	}
	return members, nil
}
