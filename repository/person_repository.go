package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/genealogybackend/database"
	"github.com/camden-git/genealogybackend/models"
	"gorm.io/gorm"
)

// PersonRepository handles database operations for Person entities
type GormPersonRepository struct {
	DB     *gorm.DB
	Concat database.ConcatStrategy
}

// NewPersonRepository creates a new instance of PersonRepository
func NewGormPersonRepository(db *gorm.DB, concat database.ConcatStrategy) PersonRepository {
	return &GormPersonRepository{DB: db, Concat: concat}
}

// Create creates a new person record in the database
func (r *GormPersonRepository) Create(person *models.Person) error {
	err := r.DB.Create(person).Error
	if err != nil {
		return fmt.Errorf("failed to create person %s: %w", person.CompleteName(), err)
	}
	return nil
}

// GetInProject retrieves a person by ID, scoped to the project it must belong to
func (r *GormPersonRepository) GetInProject(projectID, personID uint) (*models.Person, error) {
	var person models.Person
	err := r.DB.Where("project_id = ?", projectID).First(&person, personID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person ID %d in project %d: %w", personID, projectID, err)
	}
	return &person, nil
}

// ListLatest retrieves the most recently created people of a project
func (r *GormPersonRepository) ListLatest(projectID uint, limit int) ([]models.Person, error) {
	var people []models.Person
	err := r.DB.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list latest people of project %d: %w", projectID, err)
	}
	return people, nil
}

// Search retrieves people whose "name firstname" starts with prefix, ordered by name then firstname
func (r *GormPersonRepository) Search(projectID uint, prefix string) ([]models.Person, error) {
	query := r.DB.Where("project_id = ?", projectID)
	if prefix != "" {
		where, args, err := database.NamePrefixPredicate(r.Concat, prefix)
		if err != nil {
			return nil, err
		}
		query = query.Where(where, args...)
	}

	var people []models.Person
	err := query.Order("name ASC").Order("firstname ASC").Order("id ASC").Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("error searching people of project %d for '%s': %w", projectID, prefix, err)
	}
	return people, nil
}

// Update applies a partial update to the given columns
func (r *GormPersonRepository) Update(personID uint, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	changes["updated_at"] = time.Now()

	result := r.DB.Model(&models.Person{}).Where("id = ?", personID).Updates(changes)
	if result.Error != nil {
		return fmt.Errorf("failed to update person ID %d: %w", personID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a person by their ID
func (r *GormPersonRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Person{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete person ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
