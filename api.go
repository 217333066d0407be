package datacurator

// Curator prepares the configured datasets. Use New to retrieve an instance.
type Curator interface {

	// PreparePlaces extracts the desired classes of the scene-recognition archive:
	// Training images go to <places>/<dataset>/<environment>/train/<class> for every environment desiring the class.
	// Validation images go to the shared <places>/<dataset>/val/<class> directory.
	// All class directories are wiped and recreated beforehand.
	PreparePlaces() error

	// PrepareVpc unpacks all home archives and sorts the labelled frames of every floor into class directories.
	// All directories below the dataset root are wiped beforehand, frames without desired label are deleted.
	// Processed homes are renamed to <prefix><lowercased home name> and are not picked up again.
	// Filesystem changes are immediate, there is no rollback.
	PrepareVpc() error

	// PrintTree outputs the directory tree of a dataset along with the number of files per directory.
	PrintTree(dataset Dataset) error
}

type Dataset int

const (
	PlacesDataset Dataset = iota
	VpcDataset
)

func (d Dataset) String() string {
	switch d {
	case PlacesDataset:
		return "places"
	case VpcDataset:
		return "vpc"
	default:
		return "unknown"
	}
}

// ParseDataset is the inverse of Dataset.String.
func ParseDataset(name string) (Dataset, bool) {
	for _, d := range []Dataset{PlacesDataset, VpcDataset} {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}
