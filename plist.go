package macpack

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// plistString extracts the string value for a key from raw Info.plist
// content. A real plist parser is overkill for the single sanity check done
// after bundling; the bundler writes well-formed XML.
func plistString(raw []byte, key string) (string, bool) {
	pattern := regexp.MustCompile(
		`<key>` + regexp.QuoteMeta(key) + `</key>\s*<string>([^<]*)</string>`)
	match := pattern.FindSubmatch(raw)
	if match == nil {
		return "", false
	}
	return string(match[1]), true
}

// verifyBundle checks that path is a launchable application bundle: a
// directory with a non-empty Contents/MacOS and an Info.plist carrying the
// expected bundle identifier (if one is given).
func verifyBundle(path, identifier string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("no application bundle at %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not an application bundle", path)
	}
	executables, err := os.ReadDir(filepath.Join(path, "Contents", "MacOS"))
	if err != nil || len(executables) == 0 {
		return fmt.Errorf("%s has no Contents/MacOS executables", path)
	}
	raw, err := os.ReadFile(filepath.Join(path, "Contents", "Info.plist"))
	if err != nil {
		return fmt.Errorf("%s has no Info.plist: %w", path, err)
	}
	bundleID, ok := plistString(raw, "CFBundleIdentifier")
	if !ok {
		return fmt.Errorf("%s: Info.plist has no CFBundleIdentifier", path)
	}
	if identifier != "" && bundleID != identifier {
		return fmt.Errorf("%s: bundle identifier is '%s', want '%s'", path, bundleID, identifier)
	}
	return nil
}
