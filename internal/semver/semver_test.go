package semver

import "testing"

func TestCompareOrdersComponentWise(t *testing.T) {
	cases := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "equal", a: "1.0.84", b: "1.0.84", want: 0},
		{name: "patch newer", a: "1.0.84", b: "1.0.83", want: 1},
		{name: "patch older", a: "1.0.83", b: "1.0.84", want: -1},
		{name: "double digit patch", a: "1.0.10", b: "1.0.9", want: 1},
		{name: "double digit minor", a: "1.10.0", b: "1.9.0", want: 1},
		{name: "missing component equals zero", a: "1.0", b: "1.0.0", want: 0},
		{name: "shorter but newer", a: "2", b: "1.9.9", want: 1},
		{name: "leading v", a: "v1.0.90", b: "1.0.89", want: 1},
		{name: "surrounding space", a: " 1.0.84 ", b: "1.0.84", want: 0},
		{name: "suffix ignored", a: "1.0.84-beta", b: "1.0.84", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Compare(tc.a, tc.b); got != tc.want {
				t.Fatalf("Compare(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestIsAtLeastReflexive(t *testing.T) {
	for _, v := range []string{"1.0.83", "1.0.90", "0.0.1", "v2.1.0"} {
		if !IsAtLeast(v, v) {
			t.Fatalf("IsAtLeast(%q, %q) = false, want true", v, v)
		}
	}
}

func TestIsNewerIsStrict(t *testing.T) {
	if IsNewer("1.0.84", "1.0.84") {
		t.Fatalf("IsNewer should be false for equal versions")
	}
	if !IsNewer("1.0.90", "1.0.84") {
		t.Fatalf("IsNewer(1.0.90, 1.0.84) = false, want true")
	}
	if IsNewer("1.0.84", "1.0.90") {
		t.Fatalf("IsNewer(1.0.84, 1.0.90) = true, want false")
	}
}

func TestNormalizeStripsTagDecorations(t *testing.T) {
	if got := Normalize(" v1.0.84\n"); got != "1.0.84" {
		t.Fatalf("unexpected normalized version: %q", got)
	}
}
