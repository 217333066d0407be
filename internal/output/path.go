package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/n2code/datacurator/internal"
)

const schemeSeparator = ":" + string(filepath.Separator) + string(filepath.Separator)

const dot string = "."
const dirSeparator = string(filepath.Separator)
const dotDirSeparator = dot + dirSeparator
const doubleDot = dot + dot
const doubleDotDirSeparator = doubleDot + dirSeparator

func isChildOf(child string, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	internal.AssertNoError(err, "paths should both be absolute")
	return !(rel == dot || rel == doubleDot || strings.HasPrefix(rel, doubleDotDirSeparator))
}

// pleasantPath turns an absolute path into something easily understandable from the current context.
// If the working directory is inside the dataset root a relative path is emitted, with leading "./" to stress relativity.
// If the current location is outside the dataset root the path is anchored, e.g. vpc://data_home03/1.
// Targets outside the dataset root are reflected unchanged.
func pleasantPath(absolute string, root string, wd string, scheme string) string {
	if absolute != root && !isChildOf(absolute, root) {
		return absolute
	}
	if wdInsideRoot := wd == root || isChildOf(wd, root); !wdInsideRoot {
		anchored, _ := filepath.Rel(root, absolute) //error impossible because both are rooted
		if anchored == dot {
			anchored = ""
		}
		return scheme + schemeSeparator + anchored
	}

	prefix := ""
	relative, _ := filepath.Rel(wd, absolute) //error impossible because both are rooted
	if relative != dot && !strings.HasPrefix(relative, doubleDotDirSeparator) && relative != doubleDot {
		prefix = dotDirSeparator
	}
	return prefix + relative
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return wd
}
