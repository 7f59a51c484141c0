package db

import "strings"

// IsUniqueViolation reports whether the provided error is a unique constraint
// violation. The hint narrows the match to a specific constraint or column;
// both the postgres constraint-name form and sqlite's table.column form are
// matched so service tests can run against either driver.
func IsUniqueViolation(err error, hint string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	unique := strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
	if !unique {
		return false
	}
	if hint == "" {
		return true
	}
	return strings.Contains(msg, hint)
}
