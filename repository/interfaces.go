package repository

import (
	"github.com/camden-git/genealogybackend/models"
)

// UserRepository defines the methods for user data operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// ProjectRepository defines the methods for project data operations
type ProjectRepository interface {
	Create(project *models.Project) error
	GetByID(id uint) (*models.Project, error)
	ListVisibleTo(userID uint) ([]models.Project, error)
	Update(projectID uint, changes map[string]interface{}) error
	Touch(projectID uint) error
	// Delete removes the project together with its people, memberships and activities.
	// Callers run it inside a transaction.
	Delete(id uint) error
}

// PersonRepository defines the methods for person data operations
type PersonRepository interface {
	Create(person *models.Person) error
	GetInProject(projectID, personID uint) (*models.Person, error)
	ListLatest(projectID uint, limit int) ([]models.Person, error)
	Search(projectID uint, prefix string) ([]models.Person, error)
	Update(personID uint, changes map[string]interface{}) error
	Delete(id uint) error
}

// MembershipRepository defines the methods for project membership operations
type MembershipRepository interface {
	// Add inserts the (project, user) pair unless it already exists.
	// created is false when the membership was already there.
	Add(projectID, userID uint) (member *models.ProjectMember, created bool, err error)
	IsMember(projectID, userID uint) (bool, error)
	ListByProject(projectID uint) ([]models.ProjectMember, error)
}

// ActivityRepository defines the methods for activity feed operations
type ActivityRepository interface {
	Create(activity *models.Activity) error
	ListRecent(projectID uint, limit int) ([]models.Activity, error)
}
