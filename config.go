package macpack

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v2"
)

// DescriptorFilename is the default name of the build descriptor, looked up
// in the current working directory.
const DescriptorFilename = "macpack.yml"

// Image tool selection values for ImageSpec.Tool.
const (
	ImageToolCreateDMG = "create-dmg"
	ImageToolHdiutil   = "hdiutil"
)

type (
	// Descriptor is the declarative build description for one application:
	// product metadata plus the configuration of the bundling and disk-image
	// steps. String values may reference the product metadata with templates
	// like {{.name}}.
	Descriptor struct {
		App     AppSpec      `yaml:"app"`
		Bundler BundlerSpec  `yaml:"bundler"`
		Image   ImageSpec    `yaml:"image"`
		Signing *SigningSpec `yaml:"signing,omitempty"`
	}

	// AppSpec holds the bundle metadata of the product.
	AppSpec struct {
		Name        string `yaml:"name"`
		Version     string `yaml:"version"`
		Identifier  string `yaml:"identifier"`
		Icon        string `yaml:"icon,omitempty"`
		EntryScript string `yaml:"entry_script"`
	}

	// BundlerSpec configures the external application bundler: the command to
	// invoke, the GUI framework submodules to force-include, and the
	// auxiliary data directories copied into the bundle verbatim.
	BundlerSpec struct {
		Command  string   `yaml:"command,omitempty"`
		Args     []string `yaml:"args,omitempty"`
		Includes []string `yaml:"includes,omitempty"`
		DataDirs []string `yaml:"data_dirs,omitempty"`
		Output   string   `yaml:"output,omitempty"`
	}

	// ImageSpec configures the disk-image step: which tool wraps the bundle
	// and how the installer window is laid out.
	ImageSpec struct {
		Tool        string `yaml:"tool,omitempty"`
		VolumeName  string `yaml:"volume_name,omitempty"`
		WindowPos   Point  `yaml:"window_pos,omitempty"`
		WindowSize  Point  `yaml:"window_size,omitempty"`
		IconSize    int    `yaml:"icon_size,omitempty"`
		IconPos     Point  `yaml:"icon_pos,omitempty"`
		DropLinkPos Point  `yaml:"drop_link_pos,omitempty"`
		Background  string `yaml:"background,omitempty"`
		Output      string `yaml:"output,omitempty"`
	}

	// SigningSpec enables the optional codesign and notarization steps.
	SigningSpec struct {
		Identity      string `yaml:"identity,omitempty"`
		NotaryProfile string `yaml:"notary_profile,omitempty"`
	}

	// Point is a pixel coordinate pair, written as a two-element flow list in
	// yaml, e.g. "window_size: [600, 400]".
	Point struct {
		X int
		Y int
	}
)

func (p *Point) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var pair []int
	if err := unmarshal(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("geometry value wants [x, y], got %d values", len(pair))
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

func (p Point) MarshalYAML() (interface{}, error) { return []int{p.X, p.Y}, nil }

func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }

// LoadDescriptor reads, expands and validates the build descriptor at the
// given path (DescriptorFilename if empty).
func LoadDescriptor(path string) (*Descriptor, error) {
	if path == "" {
		path = DescriptorFilename
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read build descriptor: %w", err)
	}
	descriptor, err := ParseDescriptor(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return descriptor, nil
}

// ParseDescriptor parses a build descriptor, fills in the defaults, expands
// template references and validates the result.
func ParseDescriptor(raw []byte) (*Descriptor, error) {
	descriptor := &Descriptor{}
	if err := yaml.UnmarshalStrict(raw, descriptor); err != nil {
		return nil, fmt.Errorf("unable to parse build descriptor: %w", err)
	}
	descriptor.applyDefaults()
	if err := descriptor.expand(); err != nil {
		return nil, err
	}
	if err := descriptor.Validate(); err != nil {
		return nil, err
	}
	return descriptor, nil
}

// Variables returns the product metadata as a template variable map.
func (d *Descriptor) Variables() StringMap {
	return StringMap{
		"name":       d.App.Name,
		"version":    d.App.Version,
		"identifier": d.App.Identifier,
	}
}

// BundlePath returns the path where the bundler step leaves the application
// bundle, and where the disk-image step expects to find it.
func (d *Descriptor) BundlePath() string { return filepath.FromSlash(d.Bundler.Output) }

// ImagePath returns the path of the output disk image.
func (d *Descriptor) ImagePath() string { return filepath.FromSlash(d.Image.Output) }

// The window layout defaults mirror the drag-to-Applications convention: app
// icon on the left, Applications shortcut on the right.
func (d *Descriptor) applyDefaults() {
	if d.Bundler.Command == "" {
		d.Bundler.Command = "python3"
	}
	if d.Bundler.Args == nil {
		d.Bundler.Args = []string{"py2app", "--dist-dir", "dist"}
	}
	if d.Bundler.Output == "" {
		d.Bundler.Output = "dist/{{.name}}.app"
	}
	if d.Image.Tool == "" {
		d.Image.Tool = ImageToolCreateDMG
	}
	if d.Image.VolumeName == "" {
		d.Image.VolumeName = "{{.name}}"
	}
	if d.Image.Output == "" {
		d.Image.Output = "dist/{{.name}}.dmg"
	}
	if d.Image.WindowPos.IsZero() {
		d.Image.WindowPos = Point{200, 120}
	}
	if d.Image.WindowSize.IsZero() {
		d.Image.WindowSize = Point{600, 400}
	}
	if d.Image.IconSize == 0 {
		d.Image.IconSize = 100
	}
	if d.Image.IconPos.IsZero() {
		d.Image.IconPos = Point{150, 185}
	}
	if d.Image.DropLinkPos.IsZero() {
		d.Image.DropLinkPos = Point{450, 185}
	}
}

func (d *Descriptor) expand() error {
	variables := d.Variables()
	for _, field := range []*string{
		&d.Bundler.Output,
		&d.Image.VolumeName,
		&d.Image.Output,
		&d.Image.Background,
	} {
		expanded, err := ExpandVariablesStrict(*field, variables)
		if err != nil {
			return fmt.Errorf("invalid template in build descriptor: %w", err)
		}
		*field = expanded
	}
	return nil
}

// Bundle identifiers are dot-separated alphanumeric segments; hyphens are
// allowed inside a segment but dots may not touch each other or the ends.
var identifierPattern = regexp.MustCompile(
	`^[A-Za-z0-9][A-Za-z0-9-]*(\.[A-Za-z0-9][A-Za-z0-9-]*)*$`)

// Validate checks the descriptor for missing mandatory fields and malformed
// values. It reports the first problem found.
func (d *Descriptor) Validate() error {
	switch {
	case d.App.Name == "":
		return fmt.Errorf("app.name is mandatory")
	case d.App.Version == "":
		return fmt.Errorf("app.version is mandatory")
	case d.App.Identifier == "":
		return fmt.Errorf("app.identifier is mandatory")
	case !identifierPattern.MatchString(d.App.Identifier):
		return fmt.Errorf("app.identifier '%s' is not a valid bundle identifier", d.App.Identifier)
	case d.App.EntryScript == "":
		return fmt.Errorf("app.entry_script is mandatory")
	case d.App.Icon != "" && !strings.HasSuffix(d.App.Icon, ".icns"):
		return fmt.Errorf("app.icon must be an .icns file, got '%s'", d.App.Icon)
	case !strings.HasSuffix(d.Bundler.Output, ".app"):
		return fmt.Errorf("bundler.output must end in .app, got '%s'", d.Bundler.Output)
	case !strings.HasSuffix(d.Image.Output, ".dmg"):
		return fmt.Errorf("image.output must end in .dmg, got '%s'", d.Image.Output)
	case d.Image.Tool != ImageToolCreateDMG && d.Image.Tool != ImageToolHdiutil:
		return fmt.Errorf("image.tool must be '%s' or '%s', got '%s'",
			ImageToolCreateDMG, ImageToolHdiutil, d.Image.Tool)
	case d.Image.WindowSize.X <= 0 || d.Image.WindowSize.Y <= 0:
		return fmt.Errorf("image.window_size must be positive")
	case d.Image.IconSize <= 0:
		return fmt.Errorf("image.icon_size must be positive")
	}
	return nil
}
