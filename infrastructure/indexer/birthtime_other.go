//go:build !linux

package indexer

import "time"

// birthTime is unavailable on this platform; created_at stays optional.
func birthTime(_ string) (time.Time, bool) {
	return time.Time{}, false
}
