package postgres

import (
	"fmt"
	"strings"
	"time"
)

// placeholder returns a numbered placeholder for PostgreSQL (uses $1, $2, ...)
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns n placeholders for PostgreSQL
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// Timestamps are stored twice: an epoch-nanosecond column that all
// filtering and ordering runs against, and an RFC 3339 text column that
// preserves the device-local UTC offset across the round trip. Comparing
// the text directly would order by offset notation, not by instant.
func encodeTimestamp(t time.Time) int64 {
	return t.UnixNano()
}

func encodeTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
