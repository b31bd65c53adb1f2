package worktree

import (
	"io/fs"

	"github.com/odvcencio/gitodb/pkg/object"
)

// modeFromFileInfo maps a host file mode to a tree entry mode. Regular files
// with any executable bit set are recorded as 100755.
func modeFromFileInfo(info fs.FileInfo) (object.FileMode, bool) {
	m := info.Mode()
	switch {
	case m.IsDir():
		return object.ModeDir, true
	case m&fs.ModeSymlink != 0:
		return object.ModeSymlink, true
	case m.IsRegular():
		if m.Perm()&0o111 != 0 {
			return object.ModeExecutable, true
		}
		return object.ModeFile, true
	}
	return "", false
}
