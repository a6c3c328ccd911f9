package handlers

import (
	"net/http"
	"strconv"

	"github.com/camden-git/genealogybackend/models"
	"github.com/camden-git/genealogybackend/services"
	"github.com/go-chi/chi/v5"
)

type ProjectHandler struct {
	Projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Projects: projects}
}

// urlID parses a numeric chi URL parameter, answering 400 when it is malformed.
func urlID(w http.ResponseWriter, r *http.Request, param, label string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, param), 10, 64)
	if err != nil || id == 0 {
		WriteAPIError(w, http.StatusBadRequest, "invalid_id", "Invalid "+label+" ID format")
		return 0, false
	}
	return uint(id), true
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}

	projects, err := h.Projects.ListForUser(user)
	if err != nil {
		writeServiceError(w, err, "retrieve projects")
		return
	}

	response := make([]projectResponse, 0, len(projects))
	for i := range projects {
		response = append(response, newProjectResponse(&projects[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}

	var input services.ProjectInput
	if err := decodeJSON(r, &input); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}

	project, err := h.Projects.Create(user, input)
	if err != nil {
		writeServiceError(w, err, "create project")
		return
	}
	http.Redirect(w, r, project.Path(), http.StatusSeeOther)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}
	projectID, ok := urlID(w, r, "project_id", "project")
	if !ok {
		return
	}

	detail, err := h.Projects.Get(user, projectID)
	if err != nil {
		writeServiceError(w, err, "retrieve project")
		return
	}
	writeJSON(w, http.StatusOK, newProjectDetailResponse(detail))
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}
	projectID, ok := urlID(w, r, "project_id", "project")
	if !ok {
		return
	}

	var patch services.ProjectPatch
	if err := decodeJSON(r, &patch); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}

	project, err := h.Projects.Update(user, projectID, patch)
	if err != nil {
		writeServiceError(w, err, "update project")
		return
	}
	http.Redirect(w, r, project.Path(), http.StatusSeeOther)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}
	projectID, ok := urlID(w, r, "project_id", "project")
	if !ok {
		return
	}

	if err := h.Projects.Delete(user, projectID); err != nil {
		writeServiceError(w, err, "delete project")
		return
	}
	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

func (h *ProjectHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}
	projectID, ok := urlID(w, r, "project_id", "project")
	if !ok {
		return
	}

	var input services.InviteInput
	if err := decodeJSON(r, &input); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body: "+err.Error())
		return
	}

	member, _, err := h.Projects.Invite(user, projectID, input)
	if err != nil {
		writeServiceError(w, err, "invite member")
		return
	}
	http.Redirect(w, r, models.Project{ID: member.ProjectID}.Path(), http.StatusSeeOther)
}

func (h *ProjectHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}
	projectID, ok := urlID(w, r, "project_id", "project")
	if !ok {
		return
	}

	members, err := h.Projects.Members(user, projectID)
	if err != nil {
		writeServiceError(w, err, "retrieve members")
		return
	}
	writeJSON(w, http.StatusOK, newMembersResponse(members))
}

func (h *ProjectHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUserOrRedirect(w, r)
	if !ok {
		return
	}
	projectID, ok := urlID(w, r, "project_id", "project")
	if !ok {
		return
	}

	activities, err := h.Projects.Activity(user, projectID)
	if err != nil {
		writeServiceError(w, err, "retrieve activity")
		return
	}
	writeJSON(w, http.StatusOK, newActivityResponse(activities))
}
