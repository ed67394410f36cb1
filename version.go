// Package mathdoc holds release metadata for the mathdoc editor and its
// command line tool.
package mathdoc

import (
	_ "embed"
	"fmt"
	"regexp"
	"runtime/debug"
	"strconv"
	"strings"
)

var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`)

//go:embed VERSION
var embeddedVersion string

// Semver is a parsed SemVer 2.0.0 version.
type Semver struct {
	Major, Minor, Patch int
	Pre                 string
	Build               string
}

// ParseSemver parses v, with or without a leading "v".
func ParseSemver(v string) (Semver, error) {
	s := strings.TrimPrefix(strings.TrimSpace(v), "v")
	m := semverRE.FindStringSubmatch(s)
	if m == nil {
		return Semver{}, fmt.Errorf("invalid version %q", v)
	}
	var out Semver
	var err error
	if out.Major, err = strconv.Atoi(m[1]); err != nil {
		return Semver{}, fmt.Errorf("invalid version %q: %w", v, err)
	}
	if out.Minor, err = strconv.Atoi(m[2]); err != nil {
		return Semver{}, fmt.Errorf("invalid version %q: %w", v, err)
	}
	if out.Patch, err = strconv.Atoi(m[3]); err != nil {
		return Semver{}, fmt.Errorf("invalid version %q: %w", v, err)
	}
	out.Pre, out.Build = m[4], m[5]
	return out, nil
}

func (s Semver) String() string {
	out := fmt.Sprintf("%d.%d.%d", s.Major, s.Minor, s.Patch)
	if s.Pre != "" {
		out += "-" + s.Pre
	}
	if s.Build != "" {
		out += "+" + s.Build
	}
	return out
}

// Compare orders versions by precedence. Build metadata is ignored.
func (s Semver) Compare(o Semver) int {
	for _, d := range [...]int{s.Major - o.Major, s.Minor - o.Minor, s.Patch - o.Patch} {
		if d != 0 {
			return sign(d)
		}
	}
	switch {
	case s.Pre == o.Pre:
		return 0
	case s.Pre == "":
		return 1
	case o.Pre == "":
		return -1
	}
	a, b := strings.Split(s.Pre, "."), strings.Split(o.Pre, ".")
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := comparePreIdent(a[i], b[i]); c != 0 {
			return c
		}
	}
	return sign(len(a) - len(b))
}

// Numeric identifiers sort below alphanumeric ones.
func comparePreIdent(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return sign(na - nb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func sign(d int) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	}
	return 0
}

// Version returns the release version in SemVer format (without `v`).
func Version() string {
	return strings.TrimSpace(embeddedVersion)
}

// VersionTag returns the git tag form of Version (with leading `v`).
func VersionTag() string {
	return "v" + Version()
}

// IsSemver reports whether v matches SemVer 2.0.0.
func IsSemver(v string) bool {
	return semverRE.MatchString(strings.TrimSpace(v))
}

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	GoVersion string
	Revision  string
	Modified  bool
}

// ReadBuildInfo reports the embedded version plus whatever VCS details the
// toolchain stamped into the binary.
func ReadBuildInfo() BuildInfo {
	out := BuildInfo{Version: Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return out
	}
	out.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Revision = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}
	return out
}

// String renders the build as one line, e.g. "v0.1.0 (abc1234, go1.24.0)".
func (b BuildInfo) String() string {
	var details []string
	if b.Revision != "" {
		rev := b.Revision
		if len(rev) > 7 {
			rev = rev[:7]
		}
		if b.Modified {
			rev += "-dirty"
		}
		details = append(details, rev)
	}
	if b.GoVersion != "" {
		details = append(details, b.GoVersion)
	}
	if len(details) == 0 {
		return "v" + b.Version
	}
	return fmt.Sprintf("v%s (%s)", b.Version, strings.Join(details, ", "))
}
