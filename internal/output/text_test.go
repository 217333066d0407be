package output

import "testing"

func TestPlural(t *testing.T) {
	tests := []struct {
		name      string
		countable interface{}
		want      string
	}{
		{name: "ZeroInt", countable: 0, want: "files"},
		{name: "OneInt", countable: 1, want: "file"},
		{name: "ManyInt", countable: 7, want: "files"},
		{name: "OneInt64", countable: int64(1), want: "file"},
		{name: "SliceOfOne", countable: []string{"chair"}, want: "file"},
		{name: "SliceOfTwo", countable: []string{"chair", "desk"}, want: "files"},
		{name: "EmptyMap", countable: map[string]int{}, want: "files"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Plural(tt.countable, "file", "files"); got != tt.want {
				t.Errorf("Plural() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilesize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{size: 0, want: "0 bytes"},
		{size: 1024, want: "1024 bytes"},
		{size: 4096, want: "4 KiB (4096 bytes)"},
		{size: 3 * 1024 * 1024, want: "3.0 MiB (3145728 bytes)"},
		{size: 5 * 1024 * 1024 * 1024, want: "5.0 GiB (5368709120 bytes)"},
	}
	for _, tt := range tests {
		if got := Filesize(tt.size); got != tt.want {
			t.Errorf("Filesize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}
