package domain

// ProjectRole defines the roles an actor can hold within a project.
type ProjectRole string

const (
	RoleAdmin    ProjectRole = "ADMIN"
	RoleMember   ProjectRole = "MEMBER"
	RoleReadOnly ProjectRole = "READONLY" // Users with read-only access to project data
	RoleRemoved  ProjectRole = "REMOVED"  // For users who have been removed from the project
)

// Rank orders roles so that a higher rank satisfies any lower requirement.
func (r ProjectRole) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleMember:
		return 2
	case RoleReadOnly:
		return 1
	default:
		return 0
	}
}

// Satisfies reports whether r meets the required minimum role.
func (r ProjectRole) Satisfies(required ProjectRole) bool {
	return r.Rank() > 0 && r.Rank() >= required.Rank()
}

// Actor is the caller identity handed to the core by the auth collaborator.
type Actor struct {
	UserID string `json:"userID"`
	OrgID  string `json:"orgID"`
	// Role applies to every project of OrgID unless ProjectRoles overrides it.
	Role         ProjectRole            `json:"role"`
	ProjectRoles map[string]ProjectRole `json:"projectRoles,omitempty"`
}

// RoleFor returns the actor's effective role in projectID.
func (a Actor) RoleFor(projectID string) ProjectRole {
	if r, ok := a.ProjectRoles[projectID]; ok {
		return r
	}
	return a.Role
}

// Action names an operation submitted to the permission gate.
type Action string

const (
	ActionWbsRead         Action = "wbs.read"
	ActionWbsCreate       Action = "wbs.create"
	ActionWbsUpdate       Action = "wbs.update"
	ActionWbsMove         Action = "wbs.move"
	ActionWbsDelete       Action = "wbs.delete"
	ActionBudgetRead      Action = "budget.read"
	ActionVersionWrite    Action = "budget.version.write"
	ActionVersionLock     Action = "budget.version.baseline"
	ActionVersionApprove  Action = "budget.version.approve"
	ActionVersionOverride Action = "budget.version.override_status"
	ActionLineWrite       Action = "budget.line.write"
	ActionResourceWrite   Action = "budget.resource.write"
)
