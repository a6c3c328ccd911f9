package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/camden-git/genealogybackend/models"
	"github.com/camden-git/genealogybackend/permissions"
	"github.com/camden-git/genealogybackend/repository"
	"gorm.io/gorm"
)

const (
	// ActivityFeedLimit caps the feed shown for a project.
	ActivityFeedLimit = 10
	// LatestPeopleLimit caps the "recently added" list on a project.
	LatestPeopleLimit = 5
)

type ProjectInput struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description"`
	Notes       *string `json:"notes"`
}

// ProjectPatch is a partial update; nil fields are left untouched.
type ProjectPatch struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
}

type InviteInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ProjectDetail is everything the project page shows.
type ProjectDetail struct {
	Project      *models.Project
	Members      []models.ProjectMember
	LatestPeople []models.Person
	Activity     []models.Activity
	CanManage    bool
}

type ProjectService struct {
	Repos    *repository.Repositories
	Policy   *permissions.Policy
	Recorder ActivityRecorder
}

func NewProjectService(repos *repository.Repositories) *ProjectService {
	return &ProjectService{
		Repos:  repos,
		Policy: permissions.NewPolicy(repos.Memberships),
	}
}

// ListForUser returns the dashboard: owned and invited projects, most recently active first.
func (s *ProjectService) ListForUser(user *models.User) ([]models.Project, error) {
	return s.Repos.Projects.ListVisibleTo(user.ID)
}

func (s *ProjectService) Create(user *models.User, input ProjectInput) (*models.Project, error) {
	input.Title = trimmed(input.Title)
	input.Description = trimmed(input.Description)
	if err := Validate(input); err != nil {
		return nil, err
	}

	project := &models.Project{
		OwnerID:     user.ID,
		Title:       input.Title,
		Description: input.Description,
		Notes:       nullable(input.Notes),
	}

	err := s.Repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Projects.Create(project); err != nil {
			return err
		}
		_, err := s.Recorder.Record(tx.Activities, user, project, models.EventCreated, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	project.Owner = *user
	return project, nil
}

func (s *ProjectService) Get(user *models.User, projectID uint) (*ProjectDetail, error) {
	project, err := s.viewable(s.Repos, user, projectID)
	if err != nil {
		return nil, err
	}

	detail := &ProjectDetail{Project: project, CanManage: s.Policy.CanManage(user, project)}
	if detail.Members, err = s.Repos.Memberships.ListByProject(project.ID); err != nil {
		return nil, err
	}
	if detail.LatestPeople, err = s.Repos.People.ListLatest(project.ID, LatestPeopleLimit); err != nil {
		return nil, err
	}
	if detail.Activity, err = s.Repos.Activities.ListRecent(project.ID, ActivityFeedLimit); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *ProjectService) Update(user *models.User, projectID uint, patch ProjectPatch) (*models.Project, error) {
	patch.Title = trimmedPtr(patch.Title)
	patch.Description = trimmedPtr(patch.Description)

	var updated *models.Project
	err := s.Repos.Transaction(func(tx *repository.Repositories) error {
		project, err := s.manageable(tx, user, projectID)
		if err != nil {
			return err
		}
		if err := Validate(patch); err != nil {
			return err
		}

		columns, changes := diffAttributes(projectAttributes(project), patch.attributes())
		if columns == nil {
			updated = project
			return nil
		}
		if err := tx.Projects.Update(project.ID, columns); err != nil {
			return err
		}
		if updated, err = tx.Projects.GetByID(project.ID); err != nil {
			return err
		}
		_, err = s.Recorder.Record(tx.Activities, user, updated, models.EventUpdated, changes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ProjectService) Delete(user *models.User, projectID uint) error {
	return s.Repos.Transaction(func(tx *repository.Repositories) error {
		project, err := s.manageable(tx, user, projectID)
		if err != nil {
			return err
		}
		if err := tx.Projects.Delete(project.ID); err != nil {
			return err
		}
		log.Printf("Project %d '%s' deleted by user %d", project.ID, project.Title, user.ID)
		return nil
	})
}

// Invite grants the user registered under email read access to the project.
// Inviting someone twice returns the existing membership.
func (s *ProjectService) Invite(user *models.User, projectID uint, input InviteInput) (*models.ProjectMember, bool, error) {
	input.Email = trimmed(input.Email)

	var (
		member  *models.ProjectMember
		created bool
	)
	err := s.Repos.Transaction(func(tx *repository.Repositories) error {
		project, err := s.manageable(tx, user, projectID)
		if err != nil {
			return err
		}
		if err := Validate(input); err != nil {
			return err
		}

		invitee, err := tx.Users.GetByEmail(input.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fieldError("email", "The user you are inviting must have an account.")
			}
			return fmt.Errorf("failed to look up invitee: %w", err)
		}
		if project.IsOwnedBy(invitee.ID) {
			return fieldError("email", "The project owner already has access.")
		}

		member, created, err = tx.Memberships.Add(project.ID, invitee.ID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return member, created, nil
}

func (s *ProjectService) Members(user *models.User, projectID uint) ([]models.ProjectMember, error) {
	project, err := s.viewable(s.Repos, user, projectID)
	if err != nil {
		return nil, err
	}
	return s.Repos.Memberships.ListByProject(project.ID)
}

func (s *ProjectService) Activity(user *models.User, projectID uint) ([]models.Activity, error) {
	project, err := s.viewable(s.Repos, user, projectID)
	if err != nil {
		return nil, err
	}
	return s.Repos.Activities.ListRecent(project.ID, ActivityFeedLimit)
}

// viewable loads the project and requires the view ability.
func (s *ProjectService) viewable(repos *repository.Repositories, user *models.User, projectID uint) (*models.Project, error) {
	return s.authorized(repos, user, projectID, permissions.AbilityView)
}

// manageable loads the project and requires the manage ability.
func (s *ProjectService) manageable(repos *repository.Repositories, user *models.User, projectID uint) (*models.Project, error) {
	return s.authorized(repos, user, projectID, permissions.AbilityManage)
}

// authorized loads the project, then checks ability; lookup failures win over
// authorization failures.
func (s *ProjectService) authorized(repos *repository.Repositories, user *models.User, projectID uint, ability permissions.Ability) (*models.Project, error) {
	project, err := findProject(repos, projectID)
	if err != nil {
		return nil, err
	}
	ok, err := s.Policy.Allows(ability, user, project)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return project, nil
}

func findProject(repos *repository.Repositories, projectID uint) (*models.Project, error) {
	project, err := repos.Projects.GetByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
		}
		return nil, err
	}
	return project, nil
}

func projectAttributes(p *models.Project) map[string]interface{} {
	return map[string]interface{}{
		"title":       p.Title,
		"description": p.Description,
		"notes":       p.Notes,
	}
}

func (p ProjectPatch) attributes() map[string]interface{} {
	attrs := make(map[string]interface{})
	if p.Title != nil {
		attrs["title"] = *p.Title
	}
	if p.Description != nil {
		attrs["description"] = *p.Description
	}
	if p.Notes != nil {
		attrs["notes"] = nullable(p.Notes)
	}
	return attrs
}
