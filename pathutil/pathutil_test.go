package pathutil

import (
	"testing"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"empty components skipped", []string{"dir", "", "subdir", "file.txt"}, "dir/subdir/file.txt"},
		{"trailing separator collapsed", []string{"dir/", "subdir", "file.txt"}, "dir/subdir/file.txt"},
		{"leading separators stripped from later parts", []string{"dir", "/subdir", "//file.txt"}, "dir/subdir/file.txt"},
		{"rooted first component preserved", []string{"/usr", "local", "bin"}, "/usr/local/bin"},
		{"volume marker preserved", []string{"C:/data", "logs"}, "C:/data/logs"},
		{"single component", []string{"file.txt"}, "file.txt"},
		{"all empty", []string{"", ""}, ""},
		{"no components", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Join(tt.parts...); got != tt.want {
				t.Errorf("Join(%v) = %q, want %q", tt.parts, got, tt.want)
			}
		})
	}
}

func TestJoin_EquivalentSpellings(t *testing.T) {
	a := Join("dir", "", "subdir", "file.txt")
	b := Join("dir/", "subdir", "file.txt")
	if a != b {
		t.Errorf("equivalent spellings differ: %q vs %q", a, b)
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a//b///c", "a/b/c"},
		{"/a//b/", "/a/b"},
		{"/", "/"},
		{"//", "/"},
		{"a/", "a"},
		{"C://x//y", "C:/x/y"},
		{"C:", "C:"},
	}

	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClean_Stable(t *testing.T) {
	for _, p := range []string{"a//b/", "/x//y", "C://z", "", "/"} {
		once := Clean(p)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not stable for %q: %q -> %q", p, once, twice)
		}
	}
}

func TestDirBase(t *testing.T) {
	tests := []struct {
		in       string
		wantDir  string
		wantBase string
	}{
		{"dir/subdir/file.txt", "dir/subdir", "file.txt"},
		{"file.txt", ".", "file.txt"},
		{"/file.txt", "/", "file.txt"},
		{"/a/b", "/a", "b"},
		{"/", "/", "/"},
		{"C:/a/b", "C:/a", "b"},
		{"C:/a", "C:/", "a"},
		{"C:a", "C:", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Dir(tt.in); got != tt.wantDir {
				t.Errorf("Dir(%q) = %q, want %q", tt.in, got, tt.wantDir)
			}
			if got := Base(tt.in); got != tt.wantBase {
				t.Errorf("Base(%q) = %q, want %q", tt.in, got, tt.wantBase)
			}
		})
	}
}

func TestJoinSplitRoundTrip(t *testing.T) {
	// Canonical form is stable under split-then-join.
	paths := []string{"dir/subdir/file.txt", "/usr/local/bin", "C:/data/logs/app.log"}
	for _, p := range paths {
		if got := Join(Dir(p), Base(p)); got != Clean(p) {
			t.Errorf("Join(Dir, Base) of %q = %q, want %q", p, got, Clean(p))
		}
	}
}

func TestNativeConversion(t *testing.T) {
	p := "dir/subdir/file.txt"

	native := ToNative(p, '\\')
	if native != `dir\subdir\file.txt` {
		t.Errorf("ToNative = %q", native)
	}
	if back := FromNative(native, '\\'); back != p {
		t.Errorf("FromNative round trip = %q, want %q", back, p)
	}

	// Same-separator hosts are pass-through.
	if got := ToNative(p, '/'); got != p {
		t.Errorf("ToNative('/') = %q, want %q", got, p)
	}
}

func TestIsVolume(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"C:", true},
		{"c:/x", true},
		{"/c", false},
		{"", false},
		{"1:", false},
		{"ab", false},
	}
	for _, tt := range tests {
		if got := IsVolume(tt.in); got != tt.want {
			t.Errorf("IsVolume(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
