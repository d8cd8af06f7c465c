package timeutil

import "time"

// NowMilli is the timestamp unit stored on pages and history entries.
func NowMilli() int64 {
	return time.Now().UnixMilli()
}
