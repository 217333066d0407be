package places

import (
	"os"
	"path/filepath"

	"github.com/n2code/datacurator/internal/fault"
	"github.com/n2code/datacurator/internal/labels"
	"github.com/n2code/datacurator/internal/output"
)

const trainDirName = "train"
const valDirName = "val"

// Layout derives all dataset paths from the places root directory.
type Layout struct {
	Root    string
	Dataset string //subdirectory below Root holding the prepared dataset
}

func (l Layout) DatasetDir() string {
	return filepath.Join(l.Root, l.Dataset)
}

// TrainDir is specific to the environment type.
func (l Layout) TrainDir(environment string, class string) string {
	return filepath.Join(l.DatasetDir(), environment, trainDirName, class)
}

// ValDir is shared by all environment types.
func (l Layout) ValDir(class string) string {
	return filepath.Join(l.DatasetDir(), valDirName, class)
}

// Initialize recreates an empty train and val directory for every desired class of every environment.
// Existing directories are wiped, the reset is announced. Shared directories are recreated only once per run.
// An empty class name would resolve to the train or val root itself, so it is reported and left alone.
func (l Layout) Initialize(desired *labels.Desired, printer output.Printer) (resets int, err error) {
	prepared := make(map[string]bool)
	for _, environment := range desired.Environments() {
		for _, class := range desired.Names(environment) {
			if class == "" {
				printer.Out(output.Normal, "Skipping empty class name desired for %s\n", environment)
				continue
			}
			for _, dir := range []string{l.TrainDir(environment, class), l.ValDir(class)} {
				if prepared[dir] {
					continue
				}
				prepared[dir] = true
				reset, err := recreate(dir)
				if err != nil {
					return resets, err
				}
				if reset {
					printer.Out(output.Normal, "Reset existing dataset directory: %s\n", printer.Path(dir))
					resets++
				}
			}
		}
	}
	return resets, nil
}

func recreate(dir string) (reset bool, err error) {
	if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
		if err = os.RemoveAll(dir); err != nil {
			return false, fault.Newf(fault.FileAccess, err, "failed to reset %s", dir)
		}
		reset = true
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return reset, fault.Newf(fault.FileAccess, err, "failed to create %s", dir)
	}
	return reset, nil
}
