package datacurator

import (
	"fmt"

	"github.com/n2code/datacurator/internal/labels"
	"github.com/n2code/datacurator/internal/output"
	"github.com/n2code/datacurator/internal/vpc"
)

const vpcScheme = "vpc"

func (c *curator) PrepareVpc() error {
	if err := c.settings.ValidateVpc(); err != nil {
		return err
	}
	settings := c.settings.Vpc
	out := c.out.AnchoredAt(vpcScheme, settings.Dir)

	//read before anything is wiped
	desired, err := labels.ReadNames(c.settings.LabelFile(settings.DesiredEnvironment))
	if err != nil {
		return newStageError("reading desired labels", err)
	}
	out.Out(output.Verbose, "Desired: %d %s\n", len(desired), output.Plural(desired, "class", "classes"))

	unpacked, err := vpc.Unpack(settings.Dir, out)
	if err != nil {
		return newStageError("unpacking archives", err)
	}
	out.Out(output.Normal, "Unpacked %d %s, %d %s (%s)\n",
		unpacked.Archives, output.Plural(unpacked.Archives, "archive", "archives"),
		unpacked.Files, output.Plural(unpacked.Files, "file", "files"),
		output.Filesize(unpacked.Bytes))

	reorganizer := vpc.NewReorganizer(settings.Dir, desired, vpc.Options{
		HomeMarker: settings.HomeMarker,
		HomePrefix: settings.HomePrefix,
		LabelFile:  settings.LabelFile,
	}, out)
	stats, err := reorganizer.Run()
	if err != nil {
		return newStageError("reorganizing homes", err)
	}

	out.Out(output.Normal, "%s\n", vpcSummary(stats))
	return nil
}

func vpcSummary(stats vpc.Stats) string {
	return fmt.Sprintf("VPC dataset complete: %d %s with %d %s processed, %d %s moved (%d already in place), %d %s deleted",
		stats.Homes, output.Plural(stats.Homes, "home", "homes"),
		stats.Floors, output.Plural(stats.Floors, "floor", "floors"),
		stats.Moved, output.Plural(stats.Moved, "frame", "frames"),
		stats.Skipped,
		stats.Deleted, output.Plural(stats.Deleted, "file", "files"))
}
