package permissions

import (
	"fmt"

	"github.com/camden-git/genealogybackend/models"
)

// MembershipChecker answers whether a user was invited into a project.
type MembershipChecker interface {
	IsMember(projectID, userID uint) (bool, error)
}

// Policy decides what a user may do with a project. Abilities are granted
// according to DefinedAbilities: ownership is checked against the project row,
// membership through the MembershipChecker.
type Policy struct {
	Members MembershipChecker
}

func NewPolicy(members MembershipChecker) *Policy {
	return &Policy{Members: members}
}

// Allows reports whether user holds ability on project.
func (p *Policy) Allows(ability Ability, user *models.User, project *models.Project) (bool, error) {
	def, ok := GetAbilityDefinition(ability)
	if !ok {
		return false, fmt.Errorf("unknown ability '%s'", ability)
	}
	if user == nil || project == nil {
		return false, nil
	}
	if project.IsOwnedBy(user.ID) {
		return def.IsGrantedTo(GranteeOwner), nil
	}
	if !def.IsGrantedTo(GranteeMember) {
		return false, nil
	}

	member, err := p.Members.IsMember(project.ID, user.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership of user %d in project %d: %w", user.ID, project.ID, err)
	}
	return member, nil
}

// CanView is true for the owner and for invited members.
func (p *Policy) CanView(user *models.User, project *models.Project) (bool, error) {
	return p.Allows(AbilityView, user, project)
}

// CanManage is true only for the project's owner. Managing never needs a
// membership lookup, so it cannot fail.
func (p *Policy) CanManage(user *models.User, project *models.Project) bool {
	ok, _ := p.Allows(AbilityManage, user, project)
	return ok
}
