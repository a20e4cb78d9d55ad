package migrate

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteMigrationsOnDb(t *testing.T) {
	l := logrus.New()
	l.Out = ioutil.Discard
	logger := logrus.NewEntry(l)

	db, err := sqlx.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, ExecuteMigrationsOnDb(db, logger))
	require.NoError(t, ExecuteMigrationsOnDb(db, logger), "migrations already executed are skipped")

	var versions []uint
	require.NoError(t, db.Select(&versions, `SELECT version FROM Migrations WHERE success = 1 ORDER BY version`))
	assert.Equal(t, []uint{1}, versions)

	_, err = db.Exec(`INSERT INTO KeyValues(name, value) VALUES('k', 'v')`)
	assert.NoError(t, err)
}
