package macpack

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDMGStepMissingBundleInvokesNothing(t *testing.T) {
	dir := t.TempDir()
	desc := testDescriptor(t, dir)
	runner := &recordingRunner{}

	err := NewDMGStep(desc, runner, testTranslator(desc)).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), desc.BundlePath())
	assert.Contains(t, err.Error(), "macpack bundle")
	assert.Empty(t, runner.calls, "disk-image tool must not run without a bundle")
}

func TestDMGStepRemovesStaleImage(t *testing.T) {
	dir := t.TempDir()
	desc := testDescriptor(t, dir)
	writeTestBundle(t, desc.BundlePath(), desc.App.Identifier)
	stale := desc.ImagePath()
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0644))
	runner := &recordingRunner{}

	err := NewDMGStep(desc, runner, testTranslator(desc)).Run(context.Background())

	require.NoError(t, err)
	_, statErr := os.Stat(stale)
	assert.True(t, os.IsNotExist(statErr), "stale image should have been removed")
	assert.Len(t, runner.calls, 1)
}

func TestDMGStepCreateDMGInvocation(t *testing.T) {
	dir := t.TempDir()
	desc := testDescriptor(t, dir)
	writeTestBundle(t, desc.BundlePath(), desc.App.Identifier)
	runner := &recordingRunner{}

	err := NewDMGStep(desc, runner, testTranslator(desc)).Run(context.Background())

	require.NoError(t, err)
	require.Len(t, runner.calls, 1, "exactly one image-producing invocation")
	invocation := runner.calls[0]
	assert.Equal(t, ImageToolCreateDMG, invocation.name)
	assert.Equal(t, []string{
		"--volname", "Comic Lister",
		"--window-pos", "200", "120",
		"--window-size", "600", "400",
		"--icon-size", "100",
		"--icon", "Comic Lister.app", "150", "185",
		"--app-drop-link", "450", "185",
		desc.ImagePath(), desc.BundlePath(),
	}, invocation.args)
}

func TestDMGStepCreateDMGNotInstalled(t *testing.T) {
	dir := t.TempDir()
	desc := testDescriptor(t, dir)
	writeTestBundle(t, desc.BundlePath(), desc.App.Identifier)
	previous := desc.ImagePath()
	require.NoError(t, os.WriteFile(previous, []byte("last good image"), 0644))
	runner := &recordingRunner{missing: map[string]bool{ImageToolCreateDMG: true}}

	err := NewDMGStep(desc, runner, testTranslator(desc)).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), ImageToolCreateDMG)
	assert.Empty(t, runner.calls)
	content, readErr := os.ReadFile(previous)
	require.NoError(t, readErr, "failed preflight must not touch the previous image")
	assert.Equal(t, "last good image", string(content))
}

func TestDMGStepHdiutilNotInstalled(t *testing.T) {
	dir := t.TempDir()
	desc := testDescriptor(t, dir)
	desc.Image.Tool = ImageToolHdiutil
	writeTestBundle(t, desc.BundlePath(), desc.App.Identifier)
	runner := &recordingRunner{missing: map[string]bool{ImageToolHdiutil: true}}

	err := NewDMGStep(desc, runner, testTranslator(desc)).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), ImageToolHdiutil)
	assert.Empty(t, runner.calls)
}

func TestDMGStepOutputDirNotWritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("write access checks always pass for root")
	}
	dir := t.TempDir()
	desc := testDescriptor(t, dir)
	writeTestBundle(t, desc.BundlePath(), desc.App.Identifier)
	outputDir := filepath.Dir(desc.ImagePath())
	require.NoError(t, os.Chmod(outputDir, 0555))
	t.Cleanup(func() { os.Chmod(outputDir, 0755) })
	runner := &recordingRunner{}

	err := NewDMGStep(desc, runner, testTranslator(desc)).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), desc.ImagePath())
	assert.Empty(t, runner.calls)
}

func TestEnoughDiskSpace(t *testing.T) {
	assert.True(t, enoughDiskSpace(-1, 1<<30), "unknown free space is waved through")
	assert.True(t, enoughDiskSpace(200, 100))
	assert.True(t, enoughDiskSpace(2000, 100))
	assert.False(t, enoughDiskSpace(199, 100), "staging needs twice the bundle size")
	assert.False(t, enoughDiskSpace(0, 1))
}

func TestDMGStepHdiutilFallback(t *testing.T) {
	dir := t.TempDir()
	desc := testDescriptor(t, dir)
	desc.Image.Tool = ImageToolHdiutil
	writeTestBundle(t, desc.BundlePath(), desc.App.Identifier)
	runner := &recordingRunner{}

	err := NewDMGStep(desc, runner, testTranslator(desc)).Run(context.Background())

	require.NoError(t, err)
	require.Len(t, runner.named("cp"), 1, "bundle gets staged with cp -R")
	hdiutil := runner.named("hdiutil")
	require.Len(t, hdiutil, 1, "exactly one image-producing invocation")
	args := hdiutil[0].args
	assert.Equal(t, "create", args[0])
	assert.Contains(t, args, "-volname")
	assert.Contains(t, args, "Comic Lister")
	assert.Contains(t, args, "UDZO")
	assert.Equal(t, desc.ImagePath(), args[len(args)-1])
}

func TestDMGStepHdiutilStagesApplicationsLink(t *testing.T) {
	dir := t.TempDir()
	desc := testDescriptor(t, dir)
	desc.Image.Tool = ImageToolHdiutil
	writeTestBundle(t, desc.BundlePath(), desc.App.Identifier)
	var staging string
	runner := &recordingRunner{}
	runner.onRun = func(name string, args []string) error {
		if name == "hdiutil" {
			for i, arg := range args {
				if arg == "-srcfolder" {
					staging = args[i+1]
				}
			}
			link, err := os.Readlink(filepath.Join(staging, applicationsLinkName))
			assert.NoError(t, err)
			assert.Equal(t, "/Applications", link)
		}
		return nil
	}

	err := NewDMGStep(desc, runner, testTranslator(desc)).Run(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, staging)
	_, statErr := os.Stat(staging)
	assert.True(t, os.IsNotExist(statErr), "staging directory should be cleaned up")
}

func TestTreeSize(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte(strings.Repeat("x", 100)), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b"), []byte(strings.Repeat("y", 50)), 0644))
	assert.Equal(t, int64(150), treeSize(dir))
}
