//go:build linux

package filesystem

import (
	"io/fs"
	"syscall"
	"time"
)

// creationTime reports the inode change time; Linux stat exposes no birth time.
func creationTime(fi fs.FileInfo) time.Time {
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return fi.ModTime()
}
