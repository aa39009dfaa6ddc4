package model

import (
	"errors"
	"strings"
)

// Category identifies one of the equipment families shared between shows.
// Table and column names used in SQL come exclusively from the lookup table
// below; they are never built from request input.
type Category int

const (
	Costume Category = iota + 1
	Makeup
	Sound
	Vehicle
	Card
	Beeper
)

// ErrUnknownCategory is returned by ParseCategory for names outside the closed set.
var ErrUnknownCategory = errors.New("unknown equipment category")

// CategoryTables names the tables backing a category.
//
// Fields:
//
//	Table     – the equipment table (e.g. costume).
//	JoinTable – the category↔show link table (e.g. costume_spectacle).
//	Column    – the equipment foreign key column inside JoinTable.
type CategoryTables struct {
	Table     string
	JoinTable string
	Column    string
}

var categoryTables = map[Category]CategoryTables{
	Costume: {Table: "costume", JoinTable: "costume_spectacle", Column: "costume_id"},
	Makeup:  {Table: "makeup", JoinTable: "makeup_spectacle", Column: "makeup_id"},
	Sound:   {Table: "sound", JoinTable: "sound_spectacle", Column: "sound_id"},
	Vehicle: {Table: "vehicle", JoinTable: "vehicle_spectacle", Column: "vehicle_id"},
	Card:    {Table: "card", JoinTable: "card_spectacle", Column: "card_id"},
	Beeper:  {Table: "beeper", JoinTable: "beeper_spectacle", Column: "beeper_id"},
}

// Categories lists every category in a stable order.
var Categories = []Category{Costume, Makeup, Sound, Vehicle, Card, Beeper}

// ParseCategory maps a category name (as used in URLs and form fields) to a Category.
func ParseCategory(name string) (Category, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, c := range Categories {
		if categoryTables[c].Table == n {
			return c, nil
		}
	}
	return 0, ErrUnknownCategory
}

// Tables returns the SQL identifiers for c.  It panics on an invalid
// Category value, which can only come from a programming error.
func (c Category) Tables() CategoryTables {
	t, ok := categoryTables[c]
	if !ok {
		panic("model: invalid category")
	}
	return t
}

// String returns the category name, which is also its form field name.
func (c Category) String() string {
	if t, ok := categoryTables[c]; ok {
		return t.Table
	}
	return "unknown"
}
