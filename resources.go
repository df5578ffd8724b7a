package macpack

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	rice "github.com/GeertJohan/go.rice"
)

var resourceBox *rice.Box

// OpenResources locates the embedded resources box. For go.rice's 'append'
// mode to work, the FindBox() call has to be made with a literal string
// parameter.
func OpenResources() {
	var err error
	resourceBox, err = rice.FindBox("resources")
	if err != nil {
		panic(err)
	}
}

// GetResource returns the contents of the named resource file. If name is a
// directory inside the box, a newline-separated listing of its files is
// returned instead.
func GetResource(name string) (string, error) {
	return GetResourceFiltered(name, regexp.MustCompile(`.*`))
}

// MustGetResource is GetResource for resources that ship with the program and
// cannot legitimately be absent.
func MustGetResource(name string) string {
	content, err := GetResource(name)
	if err != nil {
		panic(err)
	}
	return content
}

// GetResourceFiltered behaves like GetResource, but directory listings only
// include paths matching the given filter.
func GetResourceFiltered(name string, filter *regexp.Regexp) (string, error) {
	if resourceBox == nil {
		return "", fmt.Errorf("resource box not opened")
	}
	content, err := resourceBox.String(name)
	if err == nil {
		return content, nil
	}
	listing := []string{}
	err = resourceBox.Walk(name, func(path string, info os.FileInfo, err error) error {
		if err != nil || path == name {
			return err
		}
		if filter.FindStringIndex(path) != nil {
			listing = append(listing, path)
		}
		if info.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("resource %s not found", name)
	}
	return strings.Join(listing, "\n"), nil
}
