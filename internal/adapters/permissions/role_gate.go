// Package permissions implements the permission gate from the roles carried
// in the caller's token.
package permissions

import (
	"context"
	"fmt"

	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
)

// RoleGate authorizes an actor when it belongs to the scope's organization
// and its effective project role ranks at least the required one.
type RoleGate struct{}

var _ portssvc.PermissionGate = RoleGate{}

// NewRoleGate returns the token-claims permission gate.
func NewRoleGate() RoleGate {
	return RoleGate{}
}

// Authorize implements portssvc.PermissionGate.
func (RoleGate) Authorize(_ context.Context, actor domain.Actor, scope domain.Scope, action domain.Action, minRole domain.ProjectRole) error {
	if actor.UserID == "" {
		return fmt.Errorf("%w: no caller identity for %s", apperrors.ErrUnauthorized, action)
	}
	if actor.OrgID != scope.OrgID {
		return fmt.Errorf("%w: user %s is not a member of organization %s", apperrors.ErrForbidden, actor.UserID, scope.OrgID)
	}
	role := actor.RoleFor(scope.ProjectID)
	if !role.Satisfies(minRole) {
		return fmt.Errorf("%w: %s requires role %s in project %s, user %s has %q", apperrors.ErrForbidden, action, minRole, scope.ProjectID, actor.UserID, role)
	}
	return nil
}
