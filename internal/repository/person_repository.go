package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/paillette/internal/model"
)

// ErrEmailExists is returned when another person already uses the mail address.
var ErrEmailExists = errors.New("email already exists")

// PersonRepo manages the `person` table.
type PersonRepo struct{ db *sql.DB }

func NewPersonRepo(db *sql.DB) *PersonRepo { return &PersonRepo{db: db} }

const personColumns = `p.id, p.name, p.mail, p.phone, p.password, p.reset_token, p.comment`

func scanPerson(row interface{ Scan(...any) error }) (model.Person, error) {
	var (
		p    model.Person
		mail sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &mail, &p.Phone, &p.PasswordHash, &p.ResetToken, &p.Comment)
	p.Mail = mail.String
	return p, err
}

// nullableMail stores an empty address as NULL so that the UNIQUE index
// only applies to real addresses.
func nullableMail(mail string) sql.NullString {
	mail = NormalizeMail(mail)
	return sql.NullString{String: mail, Valid: mail != ""}
}

// NormalizeMail trims and lower-cases a mail address.
func NormalizeMail(mail string) string {
	return strings.ToLower(strings.TrimSpace(mail))
}

// CreateTx inserts a person and assigns the generated ID.  PasswordHash must
// already be hashed.  A duplicate mail yields ErrEmailExists.
func (r *PersonRepo) CreateTx(ctx context.Context, tx DBTX, p *model.Person) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO person (name, mail, phone, password, comment) VALUES (?, ?, ?, ?, ?)`,
		p.Name, nullableMail(p.Mail), p.Phone, p.PasswordHash, p.Comment)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	p.Mail = NormalizeMail(p.Mail)
	return nil
}

// Create inserts a person outside of any caller transaction.
func (r *PersonRepo) Create(ctx context.Context, p *model.Person) error {
	return r.CreateTx(ctx, r.db, p)
}

// UpdateTx rewrites the contact fields of a person.  The password hash is
// only replaced when p.PasswordHash is non-empty.
func (r *PersonRepo) UpdateTx(ctx context.Context, tx DBTX, p *model.Person) error {
	if _, err := r.getByID(ctx, tx, p.ID); err != nil {
		return err
	}
	var err error
	if p.PasswordHash != "" {
		_, err = tx.ExecContext(ctx,
			`UPDATE person SET name = ?, mail = ?, phone = ?, comment = ?, password = ? WHERE id = ?`,
			p.Name, nullableMail(p.Mail), p.Phone, p.Comment, p.PasswordHash, p.ID)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE person SET name = ?, mail = ?, phone = ?, comment = ? WHERE id = ?`,
			p.Name, nullableMail(p.Mail), p.Phone, p.Comment, p.ID)
	}
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return classify(err)
	}
	return nil
}

// Update is UpdateTx on the repository's own handle.
func (r *PersonRepo) Update(ctx context.Context, p *model.Person) error {
	return r.UpdateTx(ctx, r.db, p)
}

// MailTaken reports whether another person (other than excludeID) uses mail.
// It lets callers report the conflict before any write happens.
func (r *PersonRepo) MailTaken(ctx context.Context, mail string, excludeID uint64) (bool, error) {
	mail = NormalizeMail(mail)
	if mail == "" {
		return false, nil
	}
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM person WHERE mail = ? AND id <> ? LIMIT 1`, mail, excludeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (r *PersonRepo) getByID(ctx context.Context, q DBTX, id uint64) (model.Person, error) {
	p, err := scanPerson(q.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM person p WHERE p.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrPersonNotFound
	}
	return p, err
}

// GetByID fetches a person by id.
func (r *PersonRepo) GetByID(ctx context.Context, id uint64) (model.Person, error) {
	return r.getByID(ctx, r.db, id)
}

// GetLoginCandidate fetches the person allowed to log in with mail.
// Persons linked to an artist are not eligible and yield ErrPersonNotFound.
func (r *PersonRepo) GetLoginCandidate(ctx context.Context, mail string) (model.Person, error) {
	p, err := scanPerson(r.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM person p
		 WHERE p.mail = ? AND NOT EXISTS (SELECT 1 FROM artist a WHERE a.person_id = p.id)
		 LIMIT 1`, NormalizeMail(mail)))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrPersonNotFound
	}
	return p, err
}

// ListNonArtists returns every person that is not an artist, ordered by name.
func (r *PersonRepo) ListNonArtists(ctx context.Context) ([]model.Person, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM person p
		 WHERE NOT EXISTS (SELECT 1 FROM artist a WHERE a.person_id = p.id)
		 ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetResetToken stores token for the login-eligible person owning mail.
func (r *PersonRepo) SetResetToken(ctx context.Context, mail, token string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE person SET reset_token = ?
		 WHERE mail = ? AND NOT EXISTS (SELECT 1 FROM artist a WHERE a.person_id = person.id)`,
		token, NormalizeMail(mail))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPersonNotFound
	}
	return nil
}

// ResetPassword replaces the password of the person holding token and
// consumes the token.
func (r *PersonRepo) ResetPassword(ctx context.Context, token, hash string) error {
	if strings.TrimSpace(token) == "" {
		return ErrPersonNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE person SET password = ?, reset_token = '' WHERE reset_token = ?`, hash, token)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPersonNotFound
	}
	return nil
}
