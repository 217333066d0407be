package labels

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/n2code/datacurator/internal/fault"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const homeCategories = `/b/bedroom 0
/c/childs_room 1
/d/dining_room 2
/k/kitchen 3

/l/living_room 4
/k/kitchen 3
`

func TestParseNames(t *testing.T) {
	names, err := ParseNames(strings.NewReader(homeCategories))
	require.NoError(t, err)
	want := []string{"bedroom", "childs_room", "dining_room", "kitchen", "living_room", "kitchen"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("ParseNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNamesEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "Empty", input: "", want: nil},
		{name: "NoSlash", input: "office 7\n", want: []string{"office"}},
		{name: "NestedPath", input: "/a/apartment_building/outdoor 12\n", want: []string{"outdoor"}},
		{name: "TrailingSlashYieldsEmptyName", input: "/a/ 1\n", want: []string{""}},
		{name: "TabsAndNoTrailingNewline", input: "\t/s/shower\t5", want: []string{"shower"}},
		{name: "WindowsLineEndings", input: "/o/office 1\r\n/c/corridor 2\r\n", want: []string{"office", "corridor"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNames(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadNamesIsDeterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories_places365_home.txt")
	require.NoError(t, os.WriteFile(path, []byte(homeCategories), 0o644))

	first, err := ReadNames(path)
	require.NoError(t, err)
	second, err := ReadNames(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, 6)
}

func TestReadNamesMissingFile(t *testing.T) {
	_, err := ReadNames(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.FileAccess))
	assert.Contains(t, err.Error(), "absent.txt")
}

func TestDesired(t *testing.T) {
	desired := NewDesired()
	desired.Add("home", "kitchen", "bedroom")
	desired.Add("office", "office", "kitchen")
	desired.Add("home", "bathroom")

	assert.Equal(t, []string{"home", "office"}, desired.Environments())
	assert.Equal(t, []string{"kitchen", "bedroom", "bathroom"}, desired.Names("home"))
	assert.True(t, desired.Wants("home", "bathroom"))
	assert.False(t, desired.Wants("office", "bathroom"))
	assert.False(t, desired.Wants("garage", "kitchen"))
	assert.Equal(t, []string{"home", "office"}, desired.Claimants("kitchen"))
	assert.Equal(t, []string{"office"}, desired.Claimants("office"))
	assert.Nil(t, desired.Claimants("ballroom"))
}

func TestReadDesired(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home.txt"), []byte("/k/kitchen 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "office.txt"), []byte("/o/office 2\n/c/conference_room 3\n"), 0o644))
	fileFor := func(environment string) string { return filepath.Join(dir, environment+".txt") }

	desired, err := ReadDesired([]string{"home", "office"}, fileFor)
	require.NoError(t, err)
	assert.Equal(t, []string{"kitchen"}, desired.Names("home"))
	assert.Equal(t, []string{"office", "conference_room"}, desired.Names("office"))

	_, err = ReadDesired([]string{"home", "garage"}, fileFor)
	assert.True(t, errors.Is(err, fault.FileAccess))
}

const home03Labels = `1/Home03/floor1
0 2 -1
3 5 chair
6 7 kitchen
8 9 chair
10 10 nothing-1
20 22
2/Home03/floor2
1 3 bed
`

func TestParseRanges(t *testing.T) {
	ranges, err := ParseRanges(strings.NewReader(home03Labels))
	require.NoError(t, err)

	want := HomeLabels{
		"1": {"chair": {3, 4, 5, 8, 9}, "kitchen": {6, 7}},
		"2": {"bed": {1, 2, 3}},
	}
	if diff := cmp.Diff(want, ranges.Floors); diff != "" {
		t.Errorf("floors mismatch (-want +got):\n%s", diff)
	}
	wantSkipped := []SkippedLine{
		{Number: 2, Text: "0 2 -1"},
		{Number: 6, Text: "10 10 nothing-1"},
		{Number: 7, Text: "20 22"},
	}
	if diff := cmp.Diff(wantSkipped, ranges.Skipped); diff != "" {
		t.Errorf("skipped lines mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRangesExpansionSize(t *testing.T) {
	tests := []struct {
		start, end int
	}{
		{0, 0}, {3, 5}, {100, 199}, {7, 1000},
		{math.MaxInt, math.MaxInt}, {math.MaxInt - 2, math.MaxInt}, {math.MinInt, math.MinInt + 1},
	}
	for _, tt := range tests {
		input := fmt.Sprintf("1/\n%d %d corridor\n", tt.start, tt.end)
		ranges, err := ParseRanges(strings.NewReader(input))
		require.NoError(t, err)
		indices := ranges.Floors["1"]["corridor"]
		require.Len(t, indices, tt.end-tt.start+1)
		seen := make(map[int]bool)
		for _, index := range indices {
			assert.False(t, seen[index], "index %d expanded twice", index)
			seen[index] = true
			assert.True(t, tt.start <= index && index <= tt.end)
		}
	}
}

func TestParseRangesReversedRangeIsEmpty(t *testing.T) {
	ranges, err := ParseRanges(strings.NewReader("1/\n5 3 chair\n"))
	require.NoError(t, err)
	assert.Empty(t, ranges.Floors["1"]["chair"])
}

func TestParseRangesFloorRedeclarationStartsOver(t *testing.T) {
	ranges, err := ParseRanges(strings.NewReader("1/\n1 2 chair\n2/\n1 1 bed\n1/\n7 7 desk\n"))
	require.NoError(t, err)
	want := HomeLabels{"1": {"desk": {7}}, "2": {"bed": {1}}}
	if diff := cmp.Diff(want, ranges.Floors); diff != "" {
		t.Errorf("floors mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRangesFloorWithoutRanges(t *testing.T) {
	ranges, err := ParseRanges(strings.NewReader("3/Home01\n0 9 -1\n"))
	require.NoError(t, err)
	floor, declared := ranges.Floors["3"]
	assert.True(t, declared)
	assert.Empty(t, floor)
}

func TestParseRangesErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{name: "RangeBeforeSeparator", input: "3 5 chair\n1/\n", message: "line 1"},
		{name: "TooManyFields", input: "1/\n3 5 dining room\n", message: "line 2"},
		{name: "TooFewFields", input: "1/\n3 chair\n", message: "line 2"},
		{name: "BadStart", input: "1/\nx3 5 chair\n", message: "bad range start"},
		{name: "BadEnd", input: "1/\n3 5.5 chair\n", message: "bad range end"},
		{name: "RangeTooLong", input: "1/\n0 9223372036854775807 chair\n", message: "line 2"},
		{name: "RangeLengthOverflows", input: "1/\n-9223372036854775808 9223372036854775807 chair\n", message: "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRanges(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, fault.Parse))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestSkippedLinesBeforeSeparatorAreTolerated(t *testing.T) {
	ranges, err := ParseRanges(strings.NewReader("0 10 -1\n\n1/\n"))
	require.NoError(t, err)
	assert.Equal(t, []SkippedLine{{Number: 1, Text: "0 10 -1"}}, ranges.Skipped)
}

func TestReadRanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label.txt")
	require.NoError(t, os.WriteFile(path, []byte(home03Labels), 0o644))

	ranges, err := ReadRanges(path)
	require.NoError(t, err)
	assert.Len(t, ranges.Floors, 2)

	_, err = ReadRanges(filepath.Join(t.TempDir(), "label.txt"))
	assert.True(t, errors.Is(err, fault.FileAccess))

	require.NoError(t, os.WriteFile(path, []byte("1 2 chair\n"), 0o644))
	_, err = ReadRanges(path)
	assert.True(t, errors.Is(err, fault.Parse))
	assert.Contains(t, err.Error(), path)
}
