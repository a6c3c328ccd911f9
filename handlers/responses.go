package handlers

import (
	"time"

	"github.com/camden-git/genealogybackend/models"
	"github.com/camden-git/genealogybackend/services"
)

type userResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

type projectResponse struct {
	ID          uint         `json:"id"`
	Path        string       `json:"path"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Notes       *string      `json:"notes"`
	Owner       userResponse `json:"owner"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func newProjectResponse(p *models.Project) projectResponse {
	owner := userResponse{ID: p.OwnerID}
	if p.Owner.ID != 0 {
		owner = newUserResponse(&p.Owner)
	}
	return projectResponse{
		ID:          p.ID,
		Path:        p.Path(),
		Title:       p.Title,
		Description: p.Description,
		Notes:       p.Notes,
		Owner:       owner,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type personResponse struct {
	ID                  uint      `json:"id"`
	ProjectID           uint      `json:"project_id"`
	Path                string    `json:"path"`
	Name                string    `json:"name"`
	Firstname           string    `json:"firstname"`
	CompleteName        string    `json:"complete_name"`
	Profession          *string   `json:"profession"`
	ProfessionOrUnknown string    `json:"profession_display"`
	Birthdate           *string   `json:"birthdate"`
	Birthplace          *string   `json:"birthplace"`
	BirthSummary        string    `json:"birth_summary"`
	DeathDate           *string   `json:"death_date"`
	DeathPlace          *string   `json:"death_place"`
	DeathSummary        string    `json:"death_summary"`
	Notes               *string   `json:"notes"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func newPersonResponse(p *models.Person) personResponse {
	return personResponse{
		ID:                  p.ID,
		ProjectID:           p.ProjectID,
		Path:                p.Path(),
		Name:                p.Name,
		Firstname:           p.Firstname,
		CompleteName:        p.CompleteName(),
		Profession:          p.Profession,
		ProfessionOrUnknown: p.ProfessionOrUnknown(),
		Birthdate:           p.Birthdate,
		Birthplace:          p.Birthplace,
		BirthSummary:        p.BirthSummary(),
		DeathDate:           p.DeathDate,
		DeathPlace:          p.DeathPlace,
		DeathSummary:        p.DeathSummary(),
		Notes:               p.Notes,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func newPeopleResponse(people []models.Person) []personResponse {
	out := make([]personResponse, 0, len(people))
	for i := range people {
		out = append(out, newPersonResponse(&people[i]))
	}
	return out
}

type memberResponse struct {
	User      userResponse `json:"user"`
	InvitedAt time.Time    `json:"invited_at"`
}

func newMembersResponse(members []models.ProjectMember) []memberResponse {
	out := make([]memberResponse, 0, len(members))
	for i := range members {
		out = append(out, memberResponse{
			User:      newUserResponse(&members[i].User),
			InvitedAt: members[i].CreatedAt,
		})
	}
	return out
}

type activityResponse struct {
	ID          uint                     `json:"id"`
	Description string                   `json:"description"`
	Event       models.ActivityEvent     `json:"event"`
	Subject     models.Subject           `json:"subject"`
	UserID      *uint                    `json:"user_id,omitempty"`
	Changes     *models.AttributeChanges `json:"changes,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

func newActivityResponse(activities []models.Activity) []activityResponse {
	out := make([]activityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, activityResponse{
			ID:          a.ID,
			Description: a.Description(),
			Event:       a.Event,
			Subject:     a.Subject(),
			UserID:      a.UserID,
			Changes:     a.Changes,
			CreatedAt:   a.CreatedAt,
		})
	}
	return out
}

type projectDetailResponse struct {
	projectResponse
	CanManage    bool               `json:"can_manage"`
	Members      []memberResponse   `json:"members"`
	LatestPeople []personResponse   `json:"latest_people"`
	Activity     []activityResponse `json:"activity"`
}

func newProjectDetailResponse(d *services.ProjectDetail) projectDetailResponse {
	return projectDetailResponse{
		projectResponse: newProjectResponse(d.Project),
		CanManage:       d.CanManage,
		Members:         newMembersResponse(d.Members),
		LatestPeople:    newPeopleResponse(d.LatestPeople),
		Activity:        newActivityResponse(d.Activity),
	}
}

type personDetailResponse struct {
	personResponse
	Project   projectResponse `json:"project"`
	CanManage bool            `json:"can_manage"`
}
