package vpc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/n2code/datacurator/internal/fault"
	"github.com/n2code/datacurator/internal/labels"
	"github.com/n2code/datacurator/internal/output"
)

type Options struct {
	HomeMarker string //directories containing it are homes
	HomePrefix string //prepended to the lowercased home name after processing
	LabelFile  string //range label file inside each home
}

type Stats struct {
	Homes   int
	Floors  int
	Moved   int
	Deleted int
	Skipped int //frames already in place
}

func (s *Stats) add(other Stats) {
	s.Homes += other.Homes
	s.Floors += other.Floors
	s.Moved += other.Moved
	s.Deleted += other.Deleted
	s.Skipped += other.Skipped
}

// Reorganizer sorts the labelled frames of every home into per-class directories and discards the rest.
type Reorganizer struct {
	root    string
	desired []string
	options Options
	out     output.Printer
}

func NewReorganizer(root string, desired []string, options Options, printer output.Printer) *Reorganizer {
	return &Reorganizer{root: root, desired: desired, options: options, out: printer}
}

// FrameFileName yields the zero-padded image name of the frame with the given index.
func FrameFileName(index int) string {
	return fmt.Sprintf("%08d.jpg", index)
}

// ProcessedName is the directory name a home is renamed to once it is done.
func (r *Reorganizer) ProcessedName(home string) string {
	return r.options.HomePrefix + strings.ToLower(home)
}

// Homes lists the unprocessed home directories below root in lexicographic order.
func (r *Reorganizer) Homes() (homes []string, err error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fault.Newf(fault.FileAccess, err, "dataset directory unreadable (%s)", r.root)
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.Contains(entry.Name(), r.options.HomeMarker) {
			homes = append(homes, entry.Name())
		}
	}
	return homes, nil
}

func (r *Reorganizer) Run() (total Stats, err error) {
	homes, err := r.Homes()
	if err != nil {
		return
	}
	for _, home := range homes {
		stats, err := r.ProcessHome(home)
		total.add(stats)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ProcessHome reorganizes all floors of the home according to its range label file and renames it afterwards.
func (r *Reorganizer) ProcessHome(home string) (stats Stats, err error) {
	homeDir := filepath.Join(r.root, home)
	r.out.Out(output.Normal, "Processing %s ...\n", home)

	labelPath := filepath.Join(homeDir, r.options.LabelFile)
	ranges, err := labels.ReadRanges(labelPath)
	if err != nil {
		return
	}
	for _, skipped := range ranges.Skipped {
		r.out.Out(output.Verbose, "  ignored line %d of %s: %q\n", skipped.Number, r.out.Path(labelPath), skipped.Text)
	}

	entries, err := os.ReadDir(homeDir)
	if err != nil {
		return stats, fault.Newf(fault.FileAccess, err, "home directory unreadable (%s)", homeDir)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		floor := entry.Name()
		mapping, labelled := ranges.Floors[floor]
		if !labelled {
			return stats, fault.Newf(fault.Parse, nil, "floor %s of %s has no section in %s", floor, home, labelPath)
		}
		r.out.Out(output.Normal, "  Processing floor %s ...\n", floor)
		if err = r.processFloor(filepath.Join(homeDir, floor), mapping, &stats); err != nil {
			return
		}
		stats.Floors++
	}

	target := filepath.Join(r.root, r.ProcessedName(home))
	r.out.Out(output.Normal, "  Renaming %s to %s\n", home, r.ProcessedName(home))
	if err = os.Rename(homeDir, target); err != nil {
		return stats, fault.Newf(fault.FileAccess, err, "renaming home %s failed", homeDir)
	}
	stats.Homes++
	return stats, nil
}

func (r *Reorganizer) processFloor(floorDir string, mapping labels.FloorLabels, stats *Stats) error {
	for _, class := range r.desired {
		frames, present := mapping[class]
		if !present {
			continue
		}
		r.out.Out(output.Verbose, "    Extracting images labelled %s\n", class)
		classDir := filepath.Join(floorDir, class)
		if err := os.MkdirAll(classDir, 0o755); err != nil {
			return fault.Newf(fault.FileAccess, err, "creating class directory %s failed", classDir)
		}
		for _, frame := range frames {
			name := FrameFileName(frame)
			source, destination := filepath.Join(floorDir, name), filepath.Join(classDir, name)
			if _, err := os.Lstat(destination); err == nil {
				stats.Skipped++
				continue
			}
			if info, err := os.Lstat(source); err != nil || !info.Mode().IsRegular() {
				return fault.Newf(fault.MissingSourceFile, err, "labelled frame %s", source)
			}
			if err := os.Rename(source, destination); err != nil {
				return fault.Newf(fault.FileAccess, err, "moving %s failed", source)
			}
			stats.Moved++
		}
	}

	r.out.Out(output.Verbose, "  Clearing all remaining images...\n")
	entries, err := os.ReadDir(floorDir)
	if err != nil {
		return fault.Newf(fault.FileAccess, err, "floor directory unreadable (%s)", floorDir)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		loose := filepath.Join(floorDir, entry.Name())
		if err := os.Remove(loose); err != nil {
			return fault.Newf(fault.FileAccess, err, "deleting %s failed", loose)
		}
		stats.Deleted++
	}
	return nil
}
