package version

import "testing"

func withBuildInfo(t *testing.T, v, commit, dirty string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Dirty
	Version, Commit, Dirty = v, commit, dirty
	t.Cleanup(func() { Version, Commit, Dirty = oldV, oldC, oldD })
}

func TestString(t *testing.T) {
	cases := []struct {
		version, commit, dirty string
		want                   string
	}{
		{"", "", "", "dev"},
		{"", "abc123", "clean", "dev-abc123"},
		{"", "abc123", "dirty", "dev-abc123*"},
		{"v1.4.0", "abc123", "dirty", "v1.4.0"},
	}
	for _, tc := range cases {
		withBuildInfo(t, tc.version, tc.commit, tc.dirty)
		if got := String(); got != tc.want {
			t.Fatalf("String() with %+v = %q, want %q", tc, got, tc.want)
		}
	}
}
