package services

import (
	"testing"

	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	u, err := f.users.Register(f.ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", u.Password)

	_, err = f.users.Register(f.ctx, RegisterInput{Username: "alice", Password: "secret2"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)

	_, err = f.users.Register(f.ctx, RegisterInput{Username: "bob", Password: "123"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)

	_, err = f.users.Register(f.ctx, RegisterInput{Username: "bob", Email: "not-an-email", Password: "123456"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	token, got, err := f.users.Login(f.ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, auth.RoleCustomer, claims.Role)

	_, _, err = f.users.Login(f.ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.users.Login(f.ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBecomeVendor(t *testing.T) {
	f := newFixture(t)
	u := f.user()

	v, err := f.users.BecomeVendor(f.ctx, u.ID, VendorInput{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, v.UserID)

	_, err = f.users.BecomeVendor(f.ctx, u.ID, VendorInput{Name: "Acme Again"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.users.BecomeVendor(f.ctx, 4242, VendorInput{Name: "Ghost"})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	token, _, err := f.users.Login(f.ctx, u.Username, "password123")
	require.NoError(t, err)
	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleVendor, claims.Role)
}
