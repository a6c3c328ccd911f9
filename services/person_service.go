package services

import (
	"errors"
	"fmt"

	"github.com/camden-git/genealogybackend/models"
	"github.com/camden-git/genealogybackend/permissions"
	"github.com/camden-git/genealogybackend/repository"
	"gorm.io/gorm"
)

type PersonInput struct {
	Name       string  `json:"name" validate:"required,max=255"`
	Firstname  string  `json:"firstname" validate:"required,max=255"`
	Profession *string `json:"profession" validate:"omitempty,max=255"`
	Birthdate  *string `json:"birthdate" validate:"omitempty,max=64"`
	Birthplace *string `json:"birthplace" validate:"omitempty,max=255"`
	DeathDate  *string `json:"death_date" validate:"omitempty,max=64"`
	DeathPlace *string `json:"death_place" validate:"omitempty,max=255"`
	Notes      *string `json:"notes"`
}

// PersonPatch is a partial update; nil fields are left untouched and blank
// optional fields are cleared.
type PersonPatch struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
	Firstname  *string `json:"firstname" validate:"omitempty,min=1,max=255"`
	Profession *string `json:"profession" validate:"omitempty,max=255"`
	Birthdate  *string `json:"birthdate" validate:"omitempty,max=64"`
	Birthplace *string `json:"birthplace" validate:"omitempty,max=255"`
	DeathDate  *string `json:"death_date" validate:"omitempty,max=64"`
	DeathPlace *string `json:"death_place" validate:"omitempty,max=255"`
	Notes      *string `json:"notes"`
}

type PersonDetail struct {
	Person    *models.Person
	Project   *models.Project
	CanManage bool
}

type PersonService struct {
	Repos    *repository.Repositories
	Policy   *permissions.Policy
	Recorder ActivityRecorder
	// projects shares the lookup and ability checks
	projects *ProjectService
}

func NewPersonService(projects *ProjectService) *PersonService {
	return &PersonService{
		Repos:    projects.Repos,
		Policy:   projects.Policy,
		Recorder: projects.Recorder,
		projects: projects,
	}
}

// Search lists the project's people whose "name firstname" starts with prefix.
// An empty prefix lists everybody.
func (s *PersonService) Search(user *models.User, projectID uint, prefix string) ([]models.Person, error) {
	project, err := s.projects.viewable(s.Repos, user, projectID)
	if err != nil {
		return nil, err
	}
	return s.Repos.People.Search(project.ID, prefix)
}

func (s *PersonService) Get(user *models.User, projectID, personID uint) (*PersonDetail, error) {
	project, err := s.projects.viewable(s.Repos, user, projectID)
	if err != nil {
		return nil, err
	}
	person, err := findPerson(s.Repos, project.ID, personID)
	if err != nil {
		return nil, err
	}
	return &PersonDetail{Person: person, Project: project, CanManage: s.Policy.CanManage(user, project)}, nil
}

func (s *PersonService) Create(user *models.User, projectID uint, input PersonInput) (*models.Person, error) {
	input.Name = trimmed(input.Name)
	input.Firstname = trimmed(input.Firstname)

	var person *models.Person
	err := s.Repos.Transaction(func(tx *repository.Repositories) error {
		project, err := s.projects.manageable(tx, user, projectID)
		if err != nil {
			return err
		}
		if err := Validate(input); err != nil {
			return err
		}

		person = &models.Person{
			ProjectID:  project.ID,
			Name:       input.Name,
			Firstname:  input.Firstname,
			Profession: nullable(input.Profession),
			Birthdate:  nullable(input.Birthdate),
			Birthplace: nullable(input.Birthplace),
			DeathDate:  nullable(input.DeathDate),
			DeathPlace: nullable(input.DeathPlace),
			Notes:      nullable(input.Notes),
		}
		if err := tx.People.Create(person); err != nil {
			return err
		}
		return s.afterWrite(tx, user, person, models.EventCreated, nil)
	})
	if err != nil {
		return nil, err
	}
	return person, nil
}

func (s *PersonService) Update(user *models.User, projectID, personID uint, patch PersonPatch) (*models.Person, error) {
	patch.Name = trimmedPtr(patch.Name)
	patch.Firstname = trimmedPtr(patch.Firstname)

	var updated *models.Person
	err := s.Repos.Transaction(func(tx *repository.Repositories) error {
		project, err := s.projects.manageable(tx, user, projectID)
		if err != nil {
			return err
		}
		person, err := findPerson(tx, project.ID, personID)
		if err != nil {
			return err
		}
		if err := Validate(patch); err != nil {
			return err
		}

		columns, changes := diffAttributes(personAttributes(person), patch.attributes())
		if columns == nil {
			updated = person
			return nil
		}
		if err := tx.People.Update(person.ID, columns); err != nil {
			return err
		}
		if updated, err = tx.People.GetInProject(project.ID, person.ID); err != nil {
			return err
		}
		return s.afterWrite(tx, user, updated, models.EventUpdated, changes)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the person and returns the parent project, where callers
// send the user next.
func (s *PersonService) Delete(user *models.User, projectID, personID uint) (*models.Project, error) {
	var parent *models.Project
	err := s.Repos.Transaction(func(tx *repository.Repositories) error {
		project, err := s.projects.manageable(tx, user, projectID)
		if err != nil {
			return err
		}
		person, err := findPerson(tx, project.ID, personID)
		if err != nil {
			return err
		}
		if err := tx.People.Delete(person.ID); err != nil {
			return err
		}
		parent = project
		return s.afterWrite(tx, user, person, models.EventDeleted, nil)
	})
	if err != nil {
		return nil, err
	}
	return parent, nil
}

// afterWrite runs the hooks every person write triggers: the activity entry
// and touching the parent project so it sorts as recently active.
func (s *PersonService) afterWrite(tx *repository.Repositories, actor *models.User, person *models.Person, event models.ActivityEvent, changes *models.AttributeChanges) error {
	if _, err := s.Recorder.Record(tx.Activities, actor, person, event, changes); err != nil {
		return err
	}
	if err := tx.Projects.Touch(person.ProjectID); err != nil {
		return fmt.Errorf("failed to touch parent of person %d: %w", person.ID, err)
	}
	return nil
}

func findPerson(repos *repository.Repositories, projectID, personID uint) (*models.Person, error) {
	person, err := repos.People.GetInProject(projectID, personID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("person %d in project %d: %w", personID, projectID, ErrNotFound)
		}
		return nil, err
	}
	return person, nil
}

func personAttributes(p *models.Person) map[string]interface{} {
	return map[string]interface{}{
		"name":        p.Name,
		"firstname":   p.Firstname,
		"profession":  p.Profession,
		"birthdate":   p.Birthdate,
		"birthplace":  p.Birthplace,
		"death_date":  p.DeathDate,
		"death_place": p.DeathPlace,
		"notes":       p.Notes,
	}
}

func (p PersonPatch) attributes() map[string]interface{} {
	attrs := make(map[string]interface{})
	if p.Name != nil {
		attrs["name"] = *p.Name
	}
	if p.Firstname != nil {
		attrs["firstname"] = *p.Firstname
	}
	optional := map[string]*string{
		"profession":  p.Profession,
		"birthdate":   p.Birthdate,
		"birthplace":  p.Birthplace,
		"death_date":  p.DeathDate,
		"death_place": p.DeathPlace,
		"notes":       p.Notes,
	}
	for column, value := range optional {
		if value != nil {
			attrs[column] = nullable(value)
		}
	}
	return attrs
}
