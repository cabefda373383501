// Package repository is the MySQL record store. Every repository translates
// driver errors into the apperr taxonomy so handlers and the bingo engine
// never see database/sql or driver types: a missing row becomes
// apperr.ErrNotFound, a duplicate key becomes apperr.ErrConflict and
// anything else is wrapped as an apperr.StoreError.
package repository

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/eventpage/internal/apperr"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// translate maps a driver error for operation op onto the apperr taxonomy.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperr.ErrNotFound
	case isDuplicate(err):
		return apperr.ErrConflict
	}
	return apperr.Store(op, err)
}

// affected returns apperr.ErrNotFound when an UPDATE or DELETE touched no row.
func affected(op string, res sql.Result, err error) error {
	if err != nil {
		return translate(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Store(op, err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// rollback is deferred by transactional methods; it does nothing once the
// transaction has been committed.
func rollback(tx *sql.Tx, committed *bool) {
	if !*committed {
		_ = tx.Rollback()
	}
}

// jsonStrings encodes a string list for a JSON column. nil is stored as [].
func jsonStrings(v []string) ([]byte, error) {
	if v == nil {
		v = []string{}
	}
	return json.Marshal(v)
}

// decodeStrings decodes a nullable JSON column into a string list.
func decodeStrings(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// nullString turns an empty string into SQL NULL for TEXT columns.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
