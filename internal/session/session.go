// Package session resolves who is using the client: role, own technician
// name and whether technicians may sign off orders. The bearer token is the
// preferred source; configured values fill whatever the token lacks.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Roles known to the backend.
const (
	RoleTechnician  = "tecnico"
	RoleResponsible = "responsable"
	RoleAdmin       = "admin"
)

// Token claim names.
const (
	ClaimRole       = "nivel"
	ClaimTechnician = "tecnico"
	ClaimName       = "nombre"
	ClaimCanClose   = "tecnico_puede_cerrar"
)

// ErrMalformedToken is returned when the bearer token cannot be decoded.
var ErrMalformedToken = errors.New("malformed token")

// Identity is the resolved user.
type Identity struct {
	Role string `json:"role"`
	// Technician is the user's own technician name, pre-selected in the
	// technician prompt.
	Technician string `json:"technician,omitempty"`
	// CanClose mirrors the site setting letting technicians close orders.
	CanClose bool `json:"can_close"`
}

// IsTechnician reports whether the user has the technician role.
func (id Identity) IsTechnician() bool {
	return id.Role == RoleTechnician
}

// MayClose reports whether the user can perform the definitive close.
func (id Identity) MayClose() bool {
	return !id.IsTechnician() || id.CanClose
}

// MayDelete reports whether the user can delete orders.
func (id Identity) MayDelete() bool {
	return !id.IsTechnician()
}

// FromToken reads the identity claims of a bearer token. The signature is
// not checked: the backend verifies every request, the client only needs
// the claims to decide which actions to offer.
func FromToken(token string) (Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Identity{}, nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var id Identity
	if v, ok := claims[ClaimRole].(string); ok {
		id.Role = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := claims[ClaimTechnician].(string); ok {
		id.Technician = strings.TrimSpace(v)
	} else if v, ok := claims[ClaimName].(string); ok {
		id.Technician = strings.TrimSpace(v)
	}
	switch v := claims[ClaimCanClose].(type) {
	case bool:
		id.CanClose = v
	case string:
		id.CanClose = strings.EqualFold(v, "true")
	}
	return id, nil
}

// Resolve merges the token identity over the configured fallback. An
// empty role defaults to technician, the most restricted one.
func Resolve(token string, fallback Identity) (Identity, error) {
	id, err := FromToken(token)
	if err != nil {
		return fallback.withDefaults(), err
	}
	if id.Role == "" {
		id.Role = fallback.Role
	}
	if id.Technician == "" {
		id.Technician = fallback.Technician
	}
	id.CanClose = id.CanClose || fallback.CanClose
	return id.withDefaults(), nil
}

func (id Identity) withDefaults() Identity {
	if id.Role == "" {
		id.Role = RoleTechnician
	}
	return id
}
