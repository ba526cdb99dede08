//go:build linux

package indexer

import (
	"time"

	"golang.org/x/sys/unix"
)

// birthTime reports the file's birth time via statx. Not every filesystem
// records one; the mask check keeps created_at absent rather than wrong.
func birthTime(path string) (time.Time, bool) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, false
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), true
}
