package macpack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

const (
	setupTemplateResource = "templates/setup_app.py.tmpl"
	buildDir              = "build"
	setupScriptName       = "setup_macpack.py"
)

// BundleStep drives the external application bundler: it renders the
// bundler's build descriptor from the embedded template, preflights the
// inputs, invokes the tool and verifies the bundle it produced.
type BundleStep struct {
	desc *Descriptor
	run  Runner
	msg  *Translator
}

func NewBundleStep(desc *Descriptor, run Runner, msg *Translator) *BundleStep {
	return &BundleStep{desc: desc, run: run, msg: msg}
}

func (s *BundleStep) Name() string { return "bundle" }

func (s *BundleStep) Run(ctx context.Context) error {
	if err := s.preflight(); err != nil {
		return err
	}
	setupScript, err := s.renderSetupScript()
	if err != nil {
		return err
	}
	bundlePath := s.desc.BundlePath()
	if err := removeStaleBundle(bundlePath); err != nil {
		return err
	}
	log.Info().Str("bundler", s.desc.Bundler.Command).Str("output", bundlePath).
		Msg("building application bundle")
	args := append([]string{setupScript}, s.desc.Bundler.Args...)
	if err := s.run.Run(ctx, s.desc.Bundler.Command, args...); err != nil {
		return err
	}
	return verifyBundle(bundlePath, s.desc.App.Identifier)
}

// preflight verifies all bundle inputs before anything is written, so a
// missing file can never leave a half-built bundle behind.
func (s *BundleStep) preflight() error {
	if _, err := s.run.LookPath(s.desc.Bundler.Command); err != nil {
		return fmt.Errorf("%s: %s", s.msg.Get("err_bundler_missing"), s.desc.Bundler.Command)
	}
	if _, err := os.Stat(s.desc.App.EntryScript); err != nil {
		return fmt.Errorf("%s: %s", s.msg.Get("err_entry_missing"), s.desc.App.EntryScript)
	}
	if icon := s.desc.App.Icon; icon != "" {
		if _, err := os.Stat(icon); err != nil {
			return fmt.Errorf("%s: %s", s.msg.Get("err_icon_missing"), icon)
		}
	}
	for _, dir := range s.desc.Bundler.DataDirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("%s: %s", s.msg.Get("err_datadir_missing"), dir)
		}
	}
	return nil
}

// renderSetupScript writes the bundler's declarative build descriptor to the
// build directory and returns its path.
func (s *BundleStep) renderSetupScript() (string, error) {
	templ, err := template.New(setupScriptName).Parse(MustGetResource(setupTemplateResource))
	if err != nil {
		return "", fmt.Errorf("setup script template: %w", err)
	}
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(buildDir, setupScriptName)
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	err = templ.Execute(file, struct {
		AppSpec
		Includes []string
		DataDirs []string
	}{s.desc.App, s.desc.Bundler.Includes, s.desc.Bundler.DataDirs})
	if err != nil {
		return "", fmt.Errorf("render setup script: %w", err)
	}
	log.Debug().Str("path", path).Msg("rendered bundler descriptor")
	return path, nil
}

// removeStaleBundle deletes a previous bundler output so re-runs start clean.
// The extension guard keeps a misconfigured output path from deleting an
// arbitrary directory tree.
func removeStaleBundle(path string) error {
	if filepath.Ext(path) != ".app" {
		return fmt.Errorf("refusing to remove '%s': not an application bundle path", path)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove stale bundle %s: %w", path, err)
	}
	return nil
}
