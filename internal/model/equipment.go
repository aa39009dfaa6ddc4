package model

// Equipment is a shared resource of one Category (a costume, a makeup kit,
// a sound kit, a vehicle, a credit card or a beeper).  Hidden equipment is
// not offered for new assignments but keeps its links to past shows.
type Equipment struct {
	ID       uint64
	Category Category
	Name     string
	Color    string
	Hidden   bool
}
