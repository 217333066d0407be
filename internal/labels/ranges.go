package labels

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/n2code/datacurator/internal/fault"
)

// FloorLabels maps a class name to the indices of all frames carrying that label.
// Indices are kept in file order, duplicates are possible.
type FloorLabels map[string][]int

// HomeLabels maps a floor ID to its labelled frames.
type HomeLabels map[string]FloorLabels

// SkippedLine is a range line that was ignored because it marks frames without a usable label.
type SkippedLine struct {
	Number int //1-based
	Text   string
}

type Ranges struct {
	Floors  HomeLabels
	Skipped []SkippedLine
}

const floorSeparator = "/"
const noLabelMarker = "-1"

// maxRangeLength bounds the frames a single range line may expand to.
const maxRangeLength = 1 << 24

// ReadRanges parses the range-label file of a home, see ParseRanges.
func ReadRanges(path string) (Ranges, error) {
	file, err := os.Open(path)
	if err != nil {
		return Ranges{}, fault.Newf(fault.FileAccess, err, "range label file unreadable (%s)", path)
	}
	defer file.Close()
	ranges, err := ParseRanges(file)
	if err != nil {
		return Ranges{}, fault.Newf(fault.Parse, err, "in %s", path)
	}
	return ranges, nil
}

// ParseRanges reads floor separators ("<floor>/...") and range lines ("<start> <end> <label>").
// A separator (re)declares a floor without labels; subsequent range lines accumulate into it.
// Range lines containing "-1" or no letter at all are skipped and reported.
func ParseRanges(r io.Reader) (Ranges, error) {
	scan := rangeScan{result: Ranges{Floors: make(HomeLabels)}}
	scanner := newLineScanner(r)
	number := 0
	for scanner.Scan() {
		number++
		var err error
		if scan, err = scan.step(number, scanner.Text()); err != nil {
			return Ranges{}, err
		}
	}
	if err := scanner.Err(); err != nil {
		return Ranges{}, fault.New(fault.FileAccess, "reading range label file failed", err)
	}
	return scan.result, nil
}

type rangeScan struct {
	floor    string
	declared bool //whether any floor separator has been seen yet
	result   Ranges
}

func (s rangeScan) step(number int, line string) (rangeScan, error) {
	if strings.Contains(line, floorSeparator) {
		s.floor = strings.Split(strings.TrimSpace(line), floorSeparator)[0]
		s.declared = true
		s.result.Floors[s.floor] = make(FloorLabels)
		return s, nil
	}
	if strings.Contains(line, noLabelMarker) || !containsLetter(line) {
		if strings.TrimSpace(line) != "" {
			s.result.Skipped = append(s.result.Skipped, SkippedLine{Number: number, Text: line})
		}
		return s, nil
	}
	if !s.declared {
		return s, fault.Newf(fault.Parse, nil, "line %d: range %q precedes the first floor separator", number, strings.TrimSpace(line))
	}
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return s, fault.Newf(fault.Parse, nil, "line %d: expected <start> <end> <label> but got %q", number, strings.TrimSpace(line))
	}
	start, err := strconv.Atoi(fields[0])
	if err != nil {
		return s, fault.Newf(fault.Parse, err, "line %d: bad range start", number)
	}
	end, err := strconv.Atoi(fields[1])
	if err != nil {
		return s, fault.Newf(fault.Parse, err, "line %d: bad range end", number)
	}
	if start <= end && (end-start < 0 || end-start >= maxRangeLength) {
		return s, fault.Newf(fault.Parse, nil, "line %d: range %d to %d exceeds %d frames", number, start, end, maxRangeLength)
	}
	floor := s.result.Floors[s.floor]
	floor[fields[2]] = appendRange(floor[fields[2]], start, end)
	return s, nil
}

// appendRange expands the inclusive range [start, end], which is empty if start > end.
// The caller guarantees that end-start does not overflow.
func appendRange(indices []int, start int, end int) []int {
	if start > end {
		return indices
	}
	for offset := 0; offset <= end-start; offset++ {
		indices = append(indices, start+offset)
	}
	return indices
}

func containsLetter(line string) bool {
	for _, char := range line {
		if ('a' <= char && char <= 'z') || ('A' <= char && char <= 'Z') {
			return true
		}
	}
	return false
}
