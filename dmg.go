package macpack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const applicationsLinkName = "Applications"

// DMGStep wraps the built application bundle into a distributable disk image
// with an installer-style window layout. The default tool is create-dmg; the
// hdiutil fallback produces a plain image without the custom layout for
// machines that don't have create-dmg installed.
type DMGStep struct {
	desc *Descriptor
	run  Runner
	msg  *Translator
}

func NewDMGStep(desc *Descriptor, run Runner, msg *Translator) *DMGStep {
	return &DMGStep{desc: desc, run: run, msg: msg}
}

func (s *DMGStep) Name() string { return "disk-image" }

func (s *DMGStep) Run(ctx context.Context) error {
	appPath := s.desc.BundlePath()
	if info, err := os.Stat(appPath); err != nil || !info.IsDir() {
		// Guard clause: without the bundle there is nothing to wrap, and the
		// image tool must not run at all.
		return errors.New(s.msg.Get("err_bundle_missing"))
	}
	output := s.desc.ImagePath()
	outputDir := filepath.Dir(output)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	if !osFileWriteAccess(outputDir) {
		return errors.New(s.msg.Get("err_output_not_writable"))
	}
	if !enoughDiskSpace(osDiskSpace(outputDir), treeSize(appPath)) {
		return errors.New(s.msg.Get("err_disk_space"))
	}
	tool := s.desc.Image.Tool
	if tool == "" {
		tool = ImageToolCreateDMG
	}
	// Tool availability is part of the preflight: every check must pass
	// before the previous image is touched, so a failing run leaves the last
	// good artifact in place.
	if _, err := s.run.LookPath(tool); err != nil {
		if tool == ImageToolCreateDMG {
			return errors.New(s.msg.Get("err_dmg_tool_missing"))
		}
		return fmt.Errorf("%s: %w", tool, err)
	}
	// A stale image from an earlier run would make the tool fail, re-runs
	// must regenerate it.
	if err := os.Remove(output); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale image %s: %w", output, err)
	}
	if tool == ImageToolHdiutil {
		return s.runHdiutil(ctx, appPath, output)
	}
	return s.runCreateDMG(ctx, appPath, output)
}

func (s *DMGStep) runCreateDMG(ctx context.Context, appPath, output string) error {
	image := s.desc.Image
	args := []string{
		"--volname", image.VolumeName,
		"--window-pos", strconv.Itoa(image.WindowPos.X), strconv.Itoa(image.WindowPos.Y),
		"--window-size", strconv.Itoa(image.WindowSize.X), strconv.Itoa(image.WindowSize.Y),
		"--icon-size", strconv.Itoa(image.IconSize),
		"--icon", filepath.Base(appPath),
		strconv.Itoa(image.IconPos.X), strconv.Itoa(image.IconPos.Y),
		"--app-drop-link",
		strconv.Itoa(image.DropLinkPos.X), strconv.Itoa(image.DropLinkPos.Y),
	}
	if image.Background != "" {
		args = append(args, "--background", image.Background)
	}
	args = append(args, output, appPath)
	log.Info().Str("volume", image.VolumeName).Str("output", output).
		Msg("creating disk image")
	return s.run.Run(ctx, ImageToolCreateDMG, args...)
}

// runHdiutil stages the bundle next to an /Applications symlink and creates a
// compressed image of the staging directory in one hdiutil call.
func (s *DMGStep) runHdiutil(ctx context.Context, appPath, output string) error {
	staging, err := os.MkdirTemp("", "macpack-dmg")
	if err != nil {
		return err
	}
	defer os.RemoveAll(staging)
	// cp -R instead of a native copy: it keeps the bundle's symlinks and
	// permissions intact.
	if err := s.run.Run(ctx, "cp", "-R", appPath, staging); err != nil {
		return err
	}
	if err := os.Symlink("/"+applicationsLinkName, filepath.Join(staging, applicationsLinkName)); err != nil {
		return err
	}
	log.Info().Str("volume", s.desc.Image.VolumeName).Str("output", output).
		Msg("creating disk image")
	return s.run.Run(ctx, "hdiutil", "create",
		"-volname", s.desc.Image.VolumeName,
		"-srcfolder", staging,
		"-ov", "-format", "UDZO",
		output)
}

// enoughDiskSpace decides whether free space suffices for an image of a
// bundle of the given size. The tools stage a copy before compressing, hence
// the factor of two. A negative free value means the space could not be
// determined and the check is waved through.
func enoughDiskSpace(free, bundleSize int64) bool {
	return free < 0 || free >= 2*bundleSize
}

// treeSize returns the combined size of all regular files under root. Used to
// estimate how much scratch space the image tools need.
func treeSize(root string) int64 {
	var total int64
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err == nil && info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	return total
}
