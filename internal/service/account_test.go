package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paillette/internal/repository"
)

func TestAccounts_CreatePerson(t *testing.T) {
	f := newFixture(t)

	p, err := f.accounts.CreatePerson(f.ctx, PersonInput{Name: " Claire ", Mail: "Claire@Example.com", Password: "secret12", Confirm: "secret12"})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Claire", p.Name)
	assert.Equal(t, "claire@example.com", p.Mail)

	_, err = f.accounts.CreatePerson(f.ctx, PersonInput{Name: "Other", Mail: "claire@example.com"})
	assert.ErrorIs(t, err, repository.ErrEmailExists)

	_, err = f.accounts.CreatePerson(f.ctx, PersonInput{Name: "Dan", Password: "a", Confirm: "b"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	// persons without mail never collide
	_, err = f.accounts.CreatePerson(f.ctx, PersonInput{Name: "Eve"})
	require.NoError(t, err)
	_, err = f.accounts.CreatePerson(f.ctx, PersonInput{Name: "Fred"})
	require.NoError(t, err)
	assert.Equal(t, 4, f.count("person", ""))
}

func TestAccounts_UpdatePersonKeepsOwnMail(t *testing.T) {
	f := newFixture(t)
	p, err := f.accounts.CreatePerson(f.ctx, PersonInput{Name: "Claire", Mail: "claire@example.com"})
	require.NoError(t, err)

	got, err := f.accounts.UpdatePerson(f.ctx, p.ID, PersonInput{Name: "Claire B", Mail: "claire@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Claire B", got.Name)

	_, err = f.accounts.UpdatePerson(f.ctx, 999, PersonInput{Name: "Nobody"})
	assert.ErrorIs(t, err, repository.ErrPersonNotFound)
}

func TestAccounts_Authenticate(t *testing.T) {
	f := newFixture(t)
	_, err := f.accounts.CreatePerson(f.ctx, PersonInput{Name: "Claire", Mail: "claire@example.com", Password: "secret12", Confirm: "secret12"})
	require.NoError(t, err)
	_, err = f.accounts.CreateArtist(f.ctx, actor, PersonInput{Name: "Alice", Mail: "alice@example.com"}, "#00ff00")
	require.NoError(t, err)

	p, err := f.accounts.Authenticate(f.ctx, "CLAIRE@example.com", "secret12")
	require.NoError(t, err)
	assert.Equal(t, "Claire", p.Name)

	_, err = f.accounts.Authenticate(f.ctx, "claire@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.accounts.Authenticate(f.ctx, "nobody@example.com", "secret12")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.accounts.Authenticate(f.ctx, "alice@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccounts_ResetPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.accounts.CreatePerson(f.ctx, PersonInput{Name: "Claire", Mail: "claire@example.com", Password: "secret12", Confirm: "secret12"})
	require.NoError(t, err)

	_, err = f.accounts.RequestReset(f.ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrPersonNotFound)

	token, err := f.accounts.RequestReset(f.ctx, "claire@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.ErrorIs(t, f.accounts.ResetPassword(f.ctx, token, "newpass1", "other"), ErrPasswordMismatch)
	require.NoError(t, f.accounts.ResetPassword(f.ctx, token, "newpass1", "newpass1"))

	_, err = f.accounts.Authenticate(f.ctx, "claire@example.com", "newpass1")
	require.NoError(t, err)
	_, err = f.accounts.Authenticate(f.ctx, "claire@example.com", "secret12")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// the token is single use
	assert.ErrorIs(t, f.accounts.ResetPassword(f.ctx, token, "again123", "again123"), repository.ErrPersonNotFound)
}

func TestAccounts_CreateArtist(t *testing.T) {
	f := newFixture(t)
	a, err := f.accounts.CreateArtist(f.ctx, actor, PersonInput{Name: "Alice", Password: "ignored", Confirm: "x"}, "#123456")
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.NotZero(t, a.PersonID)
	assert.Equal(t, "#123456", a.Color)

	got, err := f.artists.GetByID(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, 0, f.count("person", "password <> ''"))
}
