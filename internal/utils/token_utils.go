package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/simonbravin/bloqer/internal/core/domain"
)

// ActorClaims are the JWT claims describing the caller: the subject is the
// user id, the organization and org-wide role come with optional per-project
// role overrides.
type ActorClaims struct {
	OrgID        string            `json:"org_id"`
	Role         string            `json:"role"`
	ProjectRoles map[string]string `json:"project_roles,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts the claims to the core's caller identity.
func (c ActorClaims) Actor() domain.Actor {
	actor := domain.Actor{
		UserID: c.Subject,
		OrgID:  c.OrgID,
		Role:   domain.ProjectRole(c.Role),
	}
	if len(c.ProjectRoles) > 0 {
		actor.ProjectRoles = make(map[string]domain.ProjectRole, len(c.ProjectRoles))
		for projectID, role := range c.ProjectRoles {
			actor.ProjectRoles[projectID] = domain.ProjectRole(role)
		}
	}
	return actor
}

// GenerateJWT generates a signed HS256 token for actor.
func GenerateJWT(actor domain.Actor, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	now := time.Now()
	claims := ActorClaims{
		OrgID: actor.OrgID,
		Role:  string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if len(actor.ProjectRoles) > 0 {
		claims.ProjectRoles = make(map[string]string, len(actor.ProjectRoles))
		for projectID, role := range actor.ProjectRoles {
			claims.ProjectRoles[projectID] = string(role)
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a token string, validates its signature, issuer
// and time claims, and requires a subject and an organization.
func ParseAndValidateJWT(tokenString, secretKey, issuer string) (*ActorClaims, error) {
	claims := &ActorClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err // expired, not valid yet, bad signature, wrong issuer
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.Subject == "" || claims.OrgID == "" {
		return nil, errors.Join(jwt.ErrTokenInvalidClaims, errors.New("subject and org_id are required"))
	}
	return claims, nil
}
