package datacurator

import (
	"os"
	"path/filepath"

	"github.com/n2code/datacurator/internal/config"
	"github.com/n2code/datacurator/internal/output"
)

type VerbosityLevel int

// CreateConfig holds a set of common configuration switches that concern all calls to the datacurator API.
// The zero value is a sensible default.
type CreateConfig struct {
	Verbosity VerbosityLevel
}

const (
	DefaultVerbosity VerbosityLevel = iota //progress, resets and a summary per run
	VerboseMode                            //every extracted, moved and ignored item
	QuietMode                              //only output errors and information that was explicitly requested (-> Print* functions)
)

type curator struct {
	settings config.Config //all paths absolute, system-native
	out      output.Printer
}

// New creates a curator operating on the given settings, which are copied.
// Validation happens per pipeline, so an incomplete configuration is fine as long as the affected pipeline is not run.
func New(settings *config.Config, options CreateConfig) Curator {
	return makeCurator(settings, options, output.EscapesSupported(os.Stdout))
}

func makeCurator(settings *config.Config, options CreateConfig, allowEscapes bool) *curator {
	instance := &curator{settings: *settings}
	instance.settings.Places.Dir = absFilepath(settings.Places.Dir)
	instance.settings.Vpc.Dir = absFilepath(settings.Vpc.Dir)
	instance.settings.Labels.Dir = absFilepath(settings.Labels.Dir)

	classes := []output.Class{output.Required, output.Error}
	switch options.Verbosity {
	case VerboseMode:
		classes = append(classes, output.Verbose)
		fallthrough
	case DefaultVerbosity:
		classes = append(classes, output.Normal)
	}
	instance.out = output.NewPrinter(classes, allowEscapes)
	return instance
}

// empty paths stay empty to be caught by validation
func absFilepath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}
