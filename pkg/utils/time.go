package utils

import "time"

// ISO8601Micro is the storage timestamp layout: microsecond precision UTC
// with a Z suffix. Timestamps are stored as text, so every writer must use
// the same layout to keep lexical order equal to time order.
const ISO8601Micro = "2006-01-02T15:04:05.000000Z07:00"

// FormatUTC renders t in the shared storage layout.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(ISO8601Micro)
}
