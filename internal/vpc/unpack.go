package vpc

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/n2code/datacurator/internal/archive"
	"github.com/n2code/datacurator/internal/fault"
	"github.com/n2code/datacurator/internal/output"
)

const zipMarker = "zip"

type UnpackStats struct {
	Resets   int
	Archives int
	archive.ZipStats
}

// Unpack wipes every directory directly below root and then extracts every top-level zip archive into root.
func Unpack(root string, printer output.Printer) (stats UnpackStats, err error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return stats, fault.Newf(fault.FileAccess, err, "dataset directory unreadable (%s)", root)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		printer.Out(output.Normal, "Reset existing directory: %s\n", printer.Path(dir))
		if err = os.RemoveAll(dir); err != nil {
			return stats, fault.Newf(fault.FileAccess, err, "failed to reset %s", dir)
		}
		stats.Resets++
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), zipMarker) {
			continue
		}
		zipPath := filepath.Join(root, entry.Name())
		printer.Out(output.Normal, "Unzipping %s\n", printer.Path(zipPath))
		extracted, err := archive.ExtractZip(zipPath, root, func(target string) {
			printer.Out(output.Verbose, "  %s\n", printer.Path(target))
		})
		stats.Files += extracted.Files
		stats.Directories += extracted.Directories
		stats.Skipped += extracted.Skipped
		stats.Bytes += extracted.Bytes
		if err != nil {
			return stats, err
		}
		stats.Archives++
	}
	return stats, nil
}
