// Package semver orders the dotted release versions carried by Ghosler
// package manifests, release tags, and this tool.
package semver

import (
	"strconv"
	"strings"
)

// Normalize trims surrounding space and a leading "v" from a version tag.
func Normalize(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}

// Compare orders two dotted versions component-wise: -1 when a < b,
// 0 when equal, 1 when a > b. Missing components count as zero, so
// "1.0" equals "1.0.0". A component's value is its leading digit run;
// anything after it is ignored.
func Compare(a, b string) int {
	as := strings.Split(Normalize(a), ".")
	bs := strings.Split(Normalize(b), ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av := componentValue(as, i)
		bv := componentValue(bs, i)
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// IsAtLeast reports whether version a is the same as or newer than b.
func IsAtLeast(a, b string) bool {
	return Compare(a, b) >= 0
}

// IsNewer reports whether version a is strictly newer than b.
func IsNewer(a, b string) bool {
	return Compare(a, b) > 0
}

func componentValue(parts []string, i int) int64 {
	if i >= len(parts) {
		return 0
	}
	return numericPrefix(parts[i])
}

func numericPrefix(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
