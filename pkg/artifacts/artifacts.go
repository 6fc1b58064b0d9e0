package artifacts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/olimci/cordova-dev/pkg/version"
)

var (
	ErrNotFound  = errors.New("artifact not found")
	ErrAmbiguous = errors.New("more than one artifact matches")
)

var (
	jarPattern = regexp.MustCompile(`^cordova-\w+\.\w+\.\w+\.jar$`)
	jsPattern  = regexp.MustCompile(`^cordova-\w+\.\w+\.\w+\.js$`)

	jsReference       = regexp.MustCompile(`cordova-\w+\.\w+\.\w+\.js`)
	phonegapReference = regexp.MustCompile(`phonegap-\w+\.\w+\.\w+\.js`)
)

// Layout of the Android repository, relative to its root.
var (
	FrameworkDir = "framework"
	FrameworkWWW = filepath.Join("framework", "assets", "www")
)

// Pair names the jar and js produced by one Android framework build.
type Pair struct {
	JS  string
	Jar string
}

// Version is the SDK version encoded in the jar name, when it is numeric.
func (p Pair) Version() (version.Version, bool) {
	return VersionOf(p.Jar)
}

// VersionOf extracts the x.y.z part of a cordova-x.y.z.{js,jar} name.
func VersionOf(name string) (version.Version, bool) {
	s := strings.TrimPrefix(name, "cordova-")
	s = strings.TrimSuffix(strings.TrimSuffix(s, ".jar"), ".js")
	v, err := version.Parse(s)
	if err != nil {
		return version.Version{}, false
	}
	return v, true
}

// IsJar reports whether name looks like a versioned cordova jar.
func IsJar(name string) bool {
	return jarPattern.MatchString(name)
}

// IsJS reports whether name looks like a versioned cordova script.
func IsJS(name string) bool {
	return jsPattern.MatchString(name)
}

// Locate finds the built artifacts in an Android repository checkout.
func Locate(androidDir string) (Pair, error) {
	jar, err := Find(filepath.Join(androidDir, FrameworkDir), jarPattern)
	if err != nil {
		return Pair{}, fmt.Errorf("cordova jar: %w", err)
	}
	js, err := Find(filepath.Join(androidDir, FrameworkWWW), jsPattern)
	if err != nil {
		return Pair{}, fmt.Errorf("cordova js: %w", err)
	}
	return Pair{JS: js, Jar: jar}, nil
}

// Find returns the single file in dir whose name matches pattern.
func Find(dir string, pattern *regexp.Regexp) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w in %s: %w", ErrNotFound, dir, err)
	}

	var matches []string
	for _, e := range entries {
		if e.IsDir() || !pattern.MatchString(e.Name()) {
			continue
		}
		matches = append(matches, e.Name())
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w in %s", ErrNotFound, dir)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w in %s: %s", ErrAmbiguous, dir, strings.Join(matches, ", "))
	}
}

// Rewrite points every versioned cordova script reference in content at
// js.
func Rewrite(content []byte, js string) []byte {
	return jsReference.ReplaceAllLiteral(content, []byte(js))
}

// RewritePhonegap points every versioned phonegap script reference in
// content at js.
func RewritePhonegap(content []byte, js string) []byte {
	return phonegapReference.ReplaceAllLiteral(content, []byte(js))
}
