package pkgmeta

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// DefaultImageTag is used when no engine version can be derived.
const DefaultImageTag = "latest"

// Version is a dot-separated release string.
type Version struct {
	Raw   string
	Parts []string
}

// ParseVersion splits s on dots. Empty input yields a zero Version.
func ParseVersion(s string) Version {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}
	}
	return Version{Raw: s, Parts: strings.Split(s, ".")}
}

func (v Version) String() string {
	return v.Raw
}

// Unset reports whether v is missing or the 0.0.0 placeholder.
func (v Version) Unset() bool {
	if len(v.Parts) == 0 {
		return true
	}
	for _, part := range v.Parts {
		if part != "0" {
			return false
		}
	}
	return true
}

// Compare orders v against other by the numeric prefix of each part.
// Missing parts count as zero, so 2.2 and 2.2.0 are equal.
func (v Version) Compare(other Version) int {
	n := max(len(v.Parts), len(other.Parts))
	for i := 0; i < n; i++ {
		if c := cmp.Compare(numericPart(v.Parts, i), numericPart(other.Parts, i)); c != 0 {
			return c
		}
	}
	return 0
}

// Less reports whether v is an older release than other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

func numericPart(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	digits := parts[i]
	for j, r := range digits {
		if r < '0' || r > '9' {
			digits = digits[:j]
			break
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// ImageTag returns "v<major>.<minor>" for a three-part release, or "" when
// v cannot name an engine image.
func (v Version) ImageTag() string {
	if len(v.Parts) != 3 || v.Unset() {
		return ""
	}
	return "v" + strings.Join(v.Parts[:2], ".")
}

// EngineImage builds the engine image reference for v, falling back to
// DefaultImageTag. The second result reports whether the fallback was used.
func EngineImage(registry, image string, v Version) (string, bool) {
	tag := v.ImageTag()
	fallback := tag == ""
	if fallback {
		tag = DefaultImageTag
	}
	ref := image + ":" + tag
	if registry = strings.Trim(strings.TrimSpace(registry), "/"); registry != "" {
		ref = fmt.Sprintf("%s/%s", registry, ref)
	}
	return ref, fallback
}
