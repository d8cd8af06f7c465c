package dbutil

import (
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var limitRegex = regexp.MustCompile(`(?i)LIMIT\s+\?\s*,\s*\?`)

// BindType returns the placeholder style of a database/sql driver name.
func BindType(driver string) int {
	switch driver {
	case "sqlite", "sqlite3":
		return sqlx.QUESTION
	default:
		return sqlx.DOLLAR
	}
}

// Finalize turns gendry's "LIMIT ?,?" into "LIMIT ? OFFSET ?" and rebinds
// placeholders for the target driver.
func Finalize(bindType int, query string, args []interface{}) (string, []interface{}) {
	loc := limitRegex.FindStringIndex(query)
	if loc != nil {
		prefix := query[:loc[0]]
		qCount := strings.Count(prefix, "?")
		if qCount+1 < len(args) {
			args[qCount], args[qCount+1] = args[qCount+1], args[qCount]
		}
		query = limitRegex.ReplaceAllString(query, "LIMIT ? OFFSET ?")
	}
	return sqlx.Rebind(bindType, query), args
}

func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if pgErr, ok := err.(*pq.Error); ok {
		return pgErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint failed: UNIQUE")
}
