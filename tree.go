package datacurator

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/n2code/datacurator/internal/fault"
	"github.com/n2code/datacurator/internal/output"
)

func (c *curator) PrintTree(dataset Dataset) error {
	var root string
	switch dataset {
	case PlacesDataset:
		if err := c.settings.ValidatePlaces(); err != nil {
			return err
		}
		root = filepath.Join(c.settings.Places.Dir, c.settings.Places.Dataset)
	case VpcDataset:
		if err := c.settings.ValidateVpc(); err != nil {
			return err
		}
		root = c.settings.Vpc.Dir
	default:
		return fault.Newf(fault.Config, nil, "unknown dataset %d", dataset)
	}

	rendered, err := renderTree(root)
	if err != nil {
		return err
	}
	c.out.Out(output.Required, "%s", rendered)
	return nil
}

// renderTree lists all directories below root, each labelled with the number of files directly inside.
func renderTree(root string) (string, error) {
	counts := make(map[string]int)
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, rel)
		} else {
			counts[filepath.Dir(rel)]++
		}
		return nil
	})
	if err != nil {
		return "", fault.Newf(fault.FileAccess, err, "dataset directory unreadable (%s)", root)
	}

	tree := output.NewVisualDirectoryTree(treeLabel(root, counts["."]))
	for _, dir := range dirs { //lexical walk order guarantees parents come first
		tree.InsertDirectory(dir, treeLabel(filepath.Base(dir), counts[dir]))
	}
	return tree.Render(), nil
}

func treeLabel(name string, files int) string {
	if files == 0 {
		return name
	}
	return fmt.Sprintf("%s (%d %s)", name, files, output.Plural(files, "file", "files"))
}
