package handlers

import (
	"net/http"

	"github.com/camden-git/genealogybackend/services"
)

type PersonHandler struct {
	People *services.PersonService
}

func NewPersonHandler(people *services.PersonService) *PersonHandler {
	return &PersonHandler{People: people}
}

// SearchPeople lists people of a project; ?q= restricts to names starting with the prefix.
func (ph *PersonHandler) SearchPeople(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}
	projectID, ok := urlID(w, r, "project_id", "project")
	if !ok {
		return
	}

	people, err := ph.People.Search(user, projectID, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err, "retrieve people")
		return
	}
	writeJSON(w, http.StatusOK, newPeopleResponse(people))
}

func (ph *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}
	projectID, ok := urlID(w, r, "project_id", "project")
	if !ok {
		return
	}

	var input services.PersonInput
	if err := decodeJSON(r, &input); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}

	person, err := ph.People.Create(user, projectID, input)
	if err != nil {
		writeServiceError(w, err, "create person")
		return
	}
	http.Redirect(w, r, person.Path(), http.StatusSeeOther)
}

func (ph *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}
	projectID, ok := urlID(w, r, "project_id", "project")
	if !ok {
		return
	}
	personID, ok := urlID(w, r, "person_id", "person")
	if !ok {
		return
	}

	detail, err := ph.People.Get(user, projectID, personID)
	if err != nil {
		writeServiceError(w, err, "retrieve person")
		return
	}
	writeJSON(w, http.StatusOK, personDetailResponse{
		personResponse: newPersonResponse(detail.Person),
		Project:        newProjectResponse(detail.Project),
		CanManage:      detail.CanManage,
	})
}

func (ph *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}
	projectID, ok := urlID(w, r, "project_id", "project")
	if !ok {
		return
	}
	personID, ok := urlID(w, r, "person_id", "person")
	if !ok {
		return
	}

	var patch services.PersonPatch
	if err := decodeJSON(r, &patch); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}

	person, err := ph.People.Update(user, projectID, personID, patch)
	if err != nil {
		writeServiceError(w, err, "update person")
		return
	}
	http.Redirect(w, r, person.Path(), http.StatusSeeOther)
}

func (ph *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}
	projectID, ok := urlID(w, r, "project_id", "project")
	if !ok {
		return
	}
	personID, ok := urlID(w, r, "person_id", "person")
	if !ok {
		return
	}

	project, err := ph.People.Delete(user, projectID, personID)
	if err != nil {
		writeServiceError(w, err, "delete person")
		return
	}
	http.Redirect(w, r, project.Path(), http.StatusSeeOther)
}
