package output

import (
	"path/filepath"

	"github.com/disiqueira/gotree/v3"
)

type VisualDirectoryTree struct {
	tree gotree.Tree
	dirs map[string]gotree.Tree
}

func NewVisualDirectoryTree(rootLabel string) VisualDirectoryTree {
	return VisualDirectoryTree{tree: gotree.New(rootLabel), dirs: make(map[string]gotree.Tree)}
}

func (t VisualDirectoryTree) getDir(dirPath string) (dir gotree.Tree) {
	if dirPath == "." {
		return t.tree
	}
	dir = t.dirs[dirPath]
	if dir == nil {
		parentDir := t.getDir(filepath.Dir(dirPath))
		dir = parentDir.Add(filepath.Base(dirPath))
		t.dirs[dirPath] = dir
	}
	return
}

// InsertDirectory adds the directory at the given root-relative path below its parent.
// Labels are fixed on insertion, so directories must be inserted before their children to get their own label.
func (t VisualDirectoryTree) InsertDirectory(dirPath string, label string) {
	if _, known := t.dirs[dirPath]; known || dirPath == "." {
		return
	}
	parentDir := t.getDir(filepath.Dir(dirPath))
	t.dirs[dirPath] = parentDir.Add(label)
}

func (t VisualDirectoryTree) Render() string {
	return t.tree.Print()
}
