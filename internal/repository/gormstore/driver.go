package gormstore

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// driverName is go-sqlite3 with LOWER replaced by a Unicode-aware version.
// The built-in one only folds ASCII, so "É" would never match "é" in the
// case-insensitive filters.
const driverName = "sqlite3_unicode"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

// unicodeLower leaves NULL and non-text values untouched.
func unicodeLower(v any) any {
	if s, ok := v.(string); ok {
		return strings.ToLower(s)
	}
	return v
}
