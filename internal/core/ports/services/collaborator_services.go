package services

import (
	"context"

	"github.com/simonbravin/bloqer/internal/core/domain"
)

// PermissionGate decides whether an actor may perform an action in a scope.
// A refusal is returned as apperrors.ErrForbidden.
type PermissionGate interface {
	Authorize(ctx context.Context, actor domain.Actor, scope domain.Scope, action domain.Action, minRole domain.ProjectRole) error
}

// EventPublisher hands committed domain events to downstream consumers.
// Delivery is best effort; failures are logged by the implementation.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.DomainEvent)
}

// TemplateCatalog is the read-only source of node templates.
type TemplateCatalog interface {
	// FindTemplate returns the template with code or apperrors.ErrNotFound.
	FindTemplate(ctx context.Context, code string) (*domain.NodeTemplate, error)

	// ListTemplates returns every template ordered by code.
	ListTemplates(ctx context.Context) ([]domain.NodeTemplate, error)
}
