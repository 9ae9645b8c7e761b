package export

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the semantic version carried by a WIT interface path,
// e.g. the 1.2.0 in "demo:host/counter@1.2.0".
type Version struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// ParseVersion parses a WIT version suffix: "1.2.0", or the short
// forms "1.2" and "1" with the omitted components zero.
func ParseVersion(s string) (Version, bool) {
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Version{}, false
	}
	var nums [3]uint32
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return Version{}, false
		}
		nums[i] = uint32(n)
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, true
}

// Compatible reports whether v satisfies a request for want under
// semver rules: same major, and v at least as new within that major.
func (v Version) Compatible(want Version) bool {
	if v.Major != want.Major {
		return false
	}
	if v.Minor != want.Minor {
		return v.Minor > want.Minor
	}
	return v.Patch >= want.Patch
}

// newer reports whether v is a later release than other.
func (v Version) newer(other Version) bool {
	if v.Minor != other.Minor {
		return v.Minor > other.Minor
	}
	return v.Patch > other.Patch
}

// String renders the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// splitNameVersion splits "name@version" into the base name and parsed
// version. The input comes back whole when no valid version suffix is
// present.
func splitNameVersion(s string) (string, *Version) {
	idx := strings.LastIndex(s, "@")
	if idx < 0 {
		return s, nil
	}
	v, ok := ParseVersion(s[idx+1:])
	if !ok {
		return s, nil
	}
	return s[:idx], &v
}

// splitFuncPath splits "ns:pkg/iface@v#func" into the interface path
// and function name parts.
func splitFuncPath(path string) (ifacePath, funcName string, ok bool) {
	idx := strings.LastIndex(path, "#")
	if idx < 0 {
		return "", "", false
	}
	return path[:idx], path[idx+1:], true
}
