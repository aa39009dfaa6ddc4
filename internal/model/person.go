package model

// Person is anyone known to the application: staff accounts and artists
// alike.  Persons that are linked to an Artist cannot log in.
//
// Fields:
//
//	ID           – primary key identifier.
//	Name         – display name.
//	Mail         – unique e-mail address, also the login.
//	Phone        – optional phone number.
//	PasswordHash – bcrypt hash; empty when the person never set a password.
//	ResetToken   – pending password reset token, empty when none.
//	Comment      – free text.
type Person struct {
	ID           uint64 // person.id
	Name         string // person.name
	Mail         string // person.mail
	Phone        string // person.phone
	PasswordHash string // person.password
	ResetToken   string // person.reset_token
	Comment      string // person.comment
}

// Artist is a person cast as a performer.  Hidden artists are soft-deleted:
// they disappear from listings but keep their history.
type Artist struct {
	ID       uint64 // artist.id
	PersonID uint64 // artist.person_id
	Name     string // person.name, joined
	Color    string // artist.color
	Hidden   bool   // artist.hidden
}
