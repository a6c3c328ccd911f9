package permissions

// Ability names something a user may do with a project
type Ability string

const (
	// AbilityView allows reading a project, its people, members and activity
	AbilityView Ability = "project.view"
	// AbilityManage allows creating, updating and deleting a project and its people
	AbilityManage Ability = "project.manage"
)

// Grantee describes who holds an ability
type Grantee string

const (
	GranteeOwner  Grantee = "owner"
	GranteeMember Grantee = "member"
)

// AbilityDefinition describes a single ability and who is granted it
type AbilityDefinition struct {
	Key         Ability   `json:"key"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	GrantedTo   []Grantee `json:"granted_to"`
}

// DefinedAbilities holds every ability the policy knows about
var DefinedAbilities = []AbilityDefinition{
	{
		Key:         AbilityView,
		Name:        "View Project",
		Description: "Allows viewing a project, the people it contains, its members and its activity feed.",
		GrantedTo:   []Grantee{GranteeOwner, GranteeMember},
	},
	{
		Key:         AbilityManage,
		Name:        "Manage Project",
		Description: "Allows editing or deleting a project, inviting members and adding, editing or removing people.",
		GrantedTo:   []Grantee{GranteeOwner},
	},
}

var definitionsByKey map[Ability]AbilityDefinition

func init() {
	definitionsByKey = make(map[Ability]AbilityDefinition, len(DefinedAbilities))
	for _, def := range DefinedAbilities {
		definitionsByKey[def.Key] = def
	}
}

// IsGrantedTo reports whether the ability is held by grantee.
func (d AbilityDefinition) IsGrantedTo(grantee Grantee) bool {
	for _, g := range d.GrantedTo {
		if g == grantee {
			return true
		}
	}
	return false
}

// GetAbilityDefinition retrieves a specific ability definition by its key.
func GetAbilityDefinition(a Ability) (AbilityDefinition, bool) {
	def, ok := definitionsByKey[a]
	return def, ok
}
