//go:build !linux

package filesystem

import (
	"io/fs"
	"time"
)

func creationTime(fi fs.FileInfo) time.Time {
	return fi.ModTime()
}
