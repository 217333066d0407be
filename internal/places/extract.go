package places

import (
	"io"
	"path"
	"strings"

	"github.com/n2code/datacurator/internal/archive"
	"github.com/n2code/datacurator/internal/labels"
	"github.com/n2code/datacurator/internal/output"
)

const trainMarker = "/train/"
const valMarker = "/val/"

type ExtractStats struct {
	Members int //regular files encountered
	Train   int //files written to train directories, counting every environment
	Val     int
	Skipped int //undesired or unclassifiable members
	Bytes   int64
}

// Extract streams the archive once and flattens every desired member into its class directory.
// Training images are copied for each environment claiming the class, validation images only for the first.
func Extract(archivePath string, layout Layout, desired *labels.Desired, printer output.Printer) (stats ExtractStats, err error) {
	stream, err := archive.OpenTar(archivePath)
	if err != nil {
		return
	}
	defer stream.Close()

	for {
		header, nextErr := stream.Next()
		if nextErr == io.EOF {
			return stats, nil
		} else if nextErr != nil {
			return stats, nextErr
		}
		if !header.FileInfo().Mode().IsRegular() {
			continue
		}
		stats.Members++

		destinations, isTrain, err := destinationsOf(header.Name, layout, desired)
		if err != nil {
			return stats, err
		}
		if len(destinations) == 0 {
			stats.Skipped++
			printer.Out(output.Verbose, "  skip %s\n", header.Name)
			continue
		}

		written, err := archive.WriteMember(destinations, stream, header.FileInfo().Mode(), header.ModTime)
		if err != nil {
			return stats, err
		}
		stats.Bytes += written * int64(len(destinations))
		if isTrain {
			stats.Train += len(destinations)
		} else {
			stats.Val += len(destinations)
		}
		if printer.Enabled(output.Verbose) {
			for _, destination := range destinations {
				printer.Out(output.Verbose, "  %s -> %s\n", header.Name, printer.Path(destination))
			}
		}
	}
}

// destinationsOf determines where a member goes based on its train/val marker and class, i.e. its parent directory name.
func destinationsOf(member string, layout Layout, desired *labels.Desired) (destinations []string, isTrain bool, err error) {
	segments := strings.Split(member, "/")
	if len(segments) < 2 {
		return nil, false, nil
	}
	class := segments[len(segments)-2]
	base := path.Base(member)

	var dirs []string
	switch {
	case strings.Contains(member, trainMarker):
		isTrain = true
		for _, environment := range desired.Claimants(class) {
			dirs = append(dirs, layout.TrainDir(environment, class))
		}
	case strings.Contains(member, valMarker):
		if claimants := desired.Claimants(class); len(claimants) > 0 {
			dirs = append(dirs, layout.ValDir(class))
		}
	}
	for _, dir := range dirs {
		destination, err := archive.SafeJoin(dir, base)
		if err != nil {
			return nil, isTrain, err
		}
		destinations = append(destinations, destination)
	}
	return destinations, isTrain, nil
}
