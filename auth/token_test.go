package auth

import (
	"testing"

	"scoutroster/repository"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	user := &repository.User{
		Id:          42,
		FirstName:   "Dana",
		LastName:    "Smith",
		Permissions: pq.StringArray{"admin"},
	}
	tokenString, err := CreateToken(user)
	assert.NoError(t, err)

	token, err := ParseToken(tokenString)
	assert.NoError(t, err)
	assert.True(t, token.Valid)

	claims := &Claims{}
	claims.FromJWTClaims(token.Claims)
	assert.NoError(t, claims.Valid())
	assert.Equal(t, 42, claims.UserId)
	assert.Equal(t, []string{"admin"}, claims.Permissions)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	user := &repository.User{Id: 42}
	tokenString, err := CreateToken(user)
	assert.NoError(t, err)

	_, err = ParseToken(tokenString + "x")
	assert.Error(t, err)
}
