package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"app:secret@tcp(db:3306)/events?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		DSN("app", "secret", "db", "3306", "events"))
	assert.Equal(t,
		"app@tcp(db:3306)/events?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		DSN("app", "", "db", "3306", "events"))
}

func TestStatementsCoverAllTables(t *testing.T) {
	stmts := Statements()
	require.NotEmpty(t, stmts)
	for _, table := range []string{"users", "refresh_tokens", "events", "bingo_cards", "bingo_progress",
		"schedule_items", "menu_items", "survey_questions", "survey_responses", "vendors",
		"wedding_budgets", "wedding_expenses", "wedding_checklist_items", "photos"} {
		found := false
		for _, s := range stmts {
			if strings.HasPrefix(s, "CREATE TABLE IF NOT EXISTS "+table+" ") {
				found = true
			}
		}
		assert.True(t, found, table)
	}
}

func TestMigrateStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS refresh_tokens").WillReturnError(errors.New("denied"))

	err = Migrate(context.Background(), db)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate statement 2")
	assert.NoError(t, mock.ExpectationsWereMet())
}
