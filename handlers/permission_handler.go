package handlers

import (
	"net/http"

	"github.com/camden-git/genealogybackend/permissions"
)

type PermissionsHandler struct{}

func NewPermissionsHandler() *PermissionsHandler {
	return &PermissionsHandler{}
}

// ListAbilities serves the statically defined project abilities and who holds them.
func (h *PermissionsHandler) ListAbilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissions.DefinedAbilities)
}
