package session

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	require.NoError(t, err)
	return s
}

func TestFromToken(t *testing.T) {
	token := signed(t, jwt.MapClaims{
		"nivel":                "Responsable",
		"tecnico":              "Ana Ruiz",
		"tecnico_puede_cerrar": true,
	})

	id, err := FromToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, RoleResponsible, id.Role)
	assert.Equal(t, "Ana Ruiz", id.Technician)
	assert.True(t, id.CanClose)
}

func TestFromTokenFallsBackToName(t *testing.T) {
	id, err := FromToken(signed(t, jwt.MapClaims{"nivel": "tecnico", "nombre": "Luis"}))
	require.NoError(t, err)
	assert.Equal(t, "Luis", id.Technician)
	assert.False(t, id.CanClose)
}

func TestFromTokenMalformed(t *testing.T) {
	_, err := FromToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestResolve(t *testing.T) {
	fallback := Identity{Role: RoleAdmin, Technician: "Config Tech"}

	t.Run("no token uses fallback", func(t *testing.T) {
		id, err := Resolve("", fallback)
		require.NoError(t, err)
		assert.Equal(t, fallback, id)
	})

	t.Run("token wins", func(t *testing.T) {
		id, err := Resolve(signed(t, jwt.MapClaims{"nivel": "tecnico"}), fallback)
		require.NoError(t, err)
		assert.Equal(t, RoleTechnician, id.Role)
		assert.Equal(t, "Config Tech", id.Technician)
	})

	t.Run("empty everything is technician", func(t *testing.T) {
		id, err := Resolve("", Identity{})
		require.NoError(t, err)
		assert.Equal(t, RoleTechnician, id.Role)
	})

	t.Run("bad token still returns fallback", func(t *testing.T) {
		id, err := Resolve("garbage", fallback)
		require.Error(t, err)
		assert.Equal(t, RoleAdmin, id.Role)
	})
}

func TestPermissions(t *testing.T) {
	tests := []struct {
		name      string
		id        Identity
		mayClose  bool
		mayDelete bool
	}{
		{"technician", Identity{Role: RoleTechnician}, false, false},
		{"technician with close right", Identity{Role: RoleTechnician, CanClose: true}, true, false},
		{"responsible", Identity{Role: RoleResponsible}, true, true},
		{"admin", Identity{Role: RoleAdmin}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.mayClose, tt.id.MayClose())
			assert.Equal(t, tt.mayDelete, tt.id.MayDelete())
		})
	}
}
