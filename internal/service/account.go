package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/paillette/internal/model"
	"github.com/iliyamo/paillette/internal/repository"
	"github.com/iliyamo/paillette/internal/utils"
)

// Account errors reported to the user before anything is written.
var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Accounts manages persons, artists and their credentials.
type Accounts struct {
	DB         *sql.DB
	Persons    *repository.PersonRepo
	Artists    *repository.ArtistRepo
	BcryptCost int
}

// NewAccounts builds an Accounts service.
func NewAccounts(db *sql.DB, p *repository.PersonRepo, a *repository.ArtistRepo, bcryptCost int) *Accounts {
	return &Accounts{DB: db, Persons: p, Artists: a, BcryptCost: bcryptCost}
}

// PersonInput is the person form.  Password and Confirm are optional on
// update; when either is set they must match.
type PersonInput struct {
	Name     string
	Mail     string
	Phone    string
	Comment  string
	Password string
	Confirm  string
}

func (a *Accounts) toPerson(ctx context.Context, id uint64, in PersonInput) (model.Person, error) {
	p := model.Person{
		ID:      id,
		Name:    strings.TrimSpace(in.Name),
		Mail:    repository.NormalizeMail(in.Mail),
		Phone:   strings.TrimSpace(in.Phone),
		Comment: in.Comment,
	}
	if in.Password != in.Confirm {
		return p, ErrPasswordMismatch
	}
	taken, err := a.Persons.MailTaken(ctx, p.Mail, id)
	if err != nil {
		return p, err
	}
	if taken {
		return p, repository.ErrEmailExists
	}
	if in.Password != "" {
		if p.PasswordHash, err = utils.HashPassword(in.Password, a.BcryptCost); err != nil {
			return p, fmt.Errorf("hash password: %w", err)
		}
	}
	return p, nil
}

// CreatePerson validates and inserts a person.
func (a *Accounts) CreatePerson(ctx context.Context, in PersonInput) (model.Person, error) {
	p, err := a.toPerson(ctx, 0, in)
	if err != nil {
		return p, err
	}
	return p, a.Persons.Create(ctx, &p)
}

// UpdatePerson validates and rewrites a person.
func (a *Accounts) UpdatePerson(ctx context.Context, id uint64, in PersonInput) (model.Person, error) {
	if _, err := a.Persons.GetByID(ctx, id); err != nil {
		return model.Person{}, err
	}
	p, err := a.toPerson(ctx, id, in)
	if err != nil {
		return p, err
	}
	return p, a.Persons.Update(ctx, &p)
}

// CreateArtist inserts a person and casts it as an artist in one transaction.
// Artists never log in, so no password is stored.
func (a *Accounts) CreateArtist(ctx context.Context, actorID uint64, in PersonInput, color string) (model.Artist, error) {
	in.Password, in.Confirm = "", ""
	p, err := a.toPerson(ctx, 0, in)
	if err != nil {
		return model.Artist{}, err
	}
	artist := model.Artist{Name: p.Name, Color: color}
	err = InTx(ctx, a.DB, actorID, func(s Scope) error {
		if err := a.Persons.CreateTx(ctx, s.Tx, &p); err != nil {
			return err
		}
		artist.PersonID = p.ID
		return a.Artists.CreateTx(ctx, s.Tx, &artist)
	})
	return artist, err
}

// Authenticate checks the credentials of a login-eligible person.
func (a *Accounts) Authenticate(ctx context.Context, mail, password string) (model.Person, error) {
	p, err := a.Persons.GetLoginCandidate(ctx, mail)
	if errors.Is(err, repository.ErrPersonNotFound) {
		return p, ErrInvalidCredentials
	}
	if err != nil {
		return p, err
	}
	if p.PasswordHash == "" || !utils.VerifyPassword(p.PasswordHash, password) {
		return p, ErrInvalidCredentials
	}
	return p, nil
}

// RequestReset stores and returns a fresh reset token for mail.
func (a *Accounts) RequestReset(ctx context.Context, mail string) (string, error) {
	token := uuid.NewString()
	if err := a.Persons.SetResetToken(ctx, mail, token); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword sets a new password for the holder of token.
func (a *Accounts) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if password == "" || password != confirm {
		return ErrPasswordMismatch
	}
	hash, err := utils.HashPassword(password, a.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return a.Persons.ResetPassword(ctx, token, hash)
}
