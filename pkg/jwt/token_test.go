package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.Issue("0xa1", RoleAdmin)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "0xa1", claims.Subject)
	require.Equal(t, RoleAdmin, claims.Role)

	_, err = NewTokenIssuer("other", time.Hour).Parse(token)
	require.Error(t, err)

	_, err = issuer.Parse("not.a.token")
	require.Error(t, err)

	_, err = issuer.Issue("", RolePlayer)
	require.Error(t, err)

	expired, err := NewTokenIssuer("secret", -time.Minute).Issue("0xa1", RolePlayer)
	require.NoError(t, err)
	_, err = issuer.Parse(expired)
	require.ErrorIs(t, err, ErrTokenExpired)
}
