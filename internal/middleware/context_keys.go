package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/simonbravin/bloqer/internal/core/domain"
)

// actorKey is the key used to store the authenticated caller in the Gin context.
const actorKey = contextKey("actor")

type actorCtxKeyType struct{}

var actorCtxKey = actorCtxKeyType{}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey, actor)
}

// GetActorFromContext retrieves the authenticated caller from the Gin context.
// It returns the actor and a boolean indicating if it was found.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	if v, exists := c.Get(string(actorKey)); exists {
		actor, ok := v.(domain.Actor)
		return actor, ok
	}
	// check in the request context as well
	actor, ok := c.Request.Context().Value(actorCtxKey).(domain.Actor)
	return actor, ok
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	actor, ok := GetActorFromContext(c)
	if !ok || actor.UserID == "" {
		return "", false
	}
	return actor.UserID, true
}
