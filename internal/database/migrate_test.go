package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paillette/internal/database"
	"github.com/iliyamo/paillette/internal/database/dbtest"
)

func TestMigrate_CreatesEveryTable(t *testing.T) {
	db := dbtest.Open(t)

	tables := []string{
		"person", "artist", "spectacle", "representation", "representation_date",
		"artist_representation_date", "artist_availability", "spectacle_image",
		"costume", "costume_spectacle", "makeup", "makeup_spectacle",
		"sound", "sound_spectacle", "vehicle", "vehicle_spectacle",
		"card", "card_spectacle", "beeper", "beeper_spectacle",
	}
	for _, table := range tables {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, database.Migrate(context.Background(), db, database.SQLite))
}

func TestOpen_EnforcesForeignKeys(t *testing.T) {
	db := dbtest.Open(t)

	_, err := db.Exec(`INSERT INTO representation (spectacle_id, name) VALUES (?, ?)`, 999, "ghost")
	require.Error(t, err)
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := database.Open("postgres", "whatever")
	require.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	assert.Equal(t, "app:secret@tcp(db:3306)/paillette?charset=utf8mb4&parseTime=true&loc=UTC",
		database.MySQLDSN("app", "secret", "db", "3306", "paillette"))
	assert.Equal(t, "app@tcp(db:3306)/paillette?charset=utf8mb4&parseTime=true&loc=UTC",
		database.MySQLDSN("app", "", "db", "3306", "paillette"))
}
