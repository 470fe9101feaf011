package util

import (
	"database/sql"
	"time"
)

// StringToNullString maps the empty string to SQL NULL and anything
// else to a valid NullString.
func StringToNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// TimeToNullTime maps the zero time to SQL NULL and anything else to
// a valid NullTime.
func TimeToNullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
