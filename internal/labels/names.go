package labels

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/n2code/datacurator/internal/fault"
)

const maxLineLength = 1024 * 1024

// ReadNames parses a flat label file: the class name of each line is the last "/"-segment of its first token.
// Order and duplicates are preserved, lines without any token are skipped.
func ReadNames(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fault.Newf(fault.FileAccess, err, "label file unreadable (%s)", path)
	}
	defer file.Close()
	names, err := ParseNames(file)
	if err != nil {
		return nil, fault.Newf(fault.FileAccess, err, "reading label file failed (%s)", path)
	}
	return names, nil
}

func ParseNames(r io.Reader) (names []string, err error) {
	scanner := newLineScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		names = append(names, ClassName(fields[0]))
	}
	return names, scanner.Err()
}

// ClassName yields the last segment of a "/"-delimited path, e.g. "/k/kitchen" => "kitchen".
func ClassName(path string) string {
	return path[strings.LastIndexByte(path, '/')+1:]
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return scanner
}

// Desired maps environment types to the class names wanted for them.
// It remembers the order in which environments were added because validation images go to the first claimant.
type Desired struct {
	environments []string
	names        map[string][]string
	lookup       map[string]map[string]bool
}

func NewDesired() *Desired {
	return &Desired{names: make(map[string][]string), lookup: make(map[string]map[string]bool)}
}

// Add appends names to the given environment, registering the environment on first use.
func (d *Desired) Add(environment string, names ...string) {
	set, known := d.lookup[environment]
	if !known {
		d.environments = append(d.environments, environment)
		set = make(map[string]bool)
		d.lookup[environment] = set
	}
	d.names[environment] = append(d.names[environment], names...)
	for _, name := range names {
		set[name] = true
	}
}

func (d *Desired) Environments() []string {
	return d.environments
}

// Names lists the class names of the environment in file order, duplicates included.
func (d *Desired) Names(environment string) []string {
	return d.names[environment]
}

func (d *Desired) Wants(environment string, class string) bool {
	return d.lookup[environment][class]
}

// Claimants lists all environments wanting the class, in environment order.
func (d *Desired) Claimants(class string) (environments []string) {
	for _, environment := range d.environments {
		if d.Wants(environment, class) {
			environments = append(environments, environment)
		}
	}
	return
}

// ReadDesired loads one flat label file per environment; fileFor maps an environment type to its file path.
func ReadDesired(environments []string, fileFor func(environment string) string) (*Desired, error) {
	desired := NewDesired()
	for _, environment := range environments {
		names, err := ReadNames(fileFor(environment))
		if err != nil {
			return nil, err
		}
		desired.Add(environment, names...)
	}
	return desired, nil
}
