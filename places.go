package datacurator

import (
	"fmt"
	"path/filepath"

	"github.com/n2code/datacurator/internal/labels"
	"github.com/n2code/datacurator/internal/output"
	"github.com/n2code/datacurator/internal/places"
)

const placesScheme = "places"

func (c *curator) PreparePlaces() error {
	if err := c.settings.ValidatePlaces(); err != nil {
		return err
	}
	settings := c.settings.Places
	out := c.out.AnchoredAt(placesScheme, settings.Dir)

	desired, err := labels.ReadDesired(settings.Environments, c.settings.LabelFile)
	if err != nil {
		return newStageError("reading desired labels", err)
	}
	for _, environment := range desired.Environments() {
		names := desired.Names(environment)
		out.Out(output.Verbose, "Desired for %s: %d %s\n", environment, len(names), output.Plural(names, "class", "classes"))
	}

	layout := places.Layout{Root: settings.Dir, Dataset: settings.Dataset}
	resets, err := layout.Initialize(desired, out)
	if err != nil {
		return newStageError("creating dataset directories", err)
	}

	archivePath := filepath.Join(settings.Dir, settings.Archive)
	out.Out(output.Normal, "Extracting desired members of %s (this will take some time)...\n", out.Path(archivePath))
	stats, err := places.Extract(archivePath, layout, desired, out)
	if err != nil {
		return newStageError("extracting archive", err)
	}

	out.Out(output.Normal, "%s\n", placesSummary(resets, stats))
	return nil
}

func placesSummary(resets int, stats places.ExtractStats) string {
	return fmt.Sprintf("Places dataset complete: %d training %s and %d validation %s extracted, %s written, %d %s skipped, %d %s reset",
		stats.Train, output.Plural(stats.Train, "copy", "copies"),
		stats.Val, output.Plural(stats.Val, "image", "images"),
		output.Filesize(stats.Bytes),
		stats.Skipped, output.Plural(stats.Skipped, "member", "members"),
		resets, output.Plural(resets, "directory", "directories"))
}
