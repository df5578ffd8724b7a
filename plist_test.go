package macpack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlistString(t *testing.T) {
	raw := []byte(`<dict>
	<key>CFBundleName</key>
	<string>Comic Lister</string>
	<key>CFBundleIdentifier</key>
	<string>com.example.comiclister</string>
</dict>`)

	value, ok := plistString(raw, "CFBundleIdentifier")
	require.True(t, ok)
	assert.Equal(t, "com.example.comiclister", value)

	_, ok = plistString(raw, "CFBundleVersion")
	assert.False(t, ok)
}

func TestVerifyBundle(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "Comic Lister.app")
	writeTestBundle(t, bundle, "com.example.comiclister")

	assert.NoError(t, verifyBundle(bundle, "com.example.comiclister"))
	assert.NoError(t, verifyBundle(bundle, ""), "empty identifier skips the check")
	assert.Error(t, verifyBundle(bundle, "com.example.other"))
	assert.Error(t, verifyBundle(filepath.Join(dir, "missing.app"), ""))
}

func TestVerifyBundleIncomplete(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "Empty.app")
	require.NoError(t, os.MkdirAll(filepath.Join(bundle, "Contents", "MacOS"), 0755))

	assert.Error(t, verifyBundle(bundle, ""), "no executables, no plist")

	require.NoError(t, os.WriteFile(
		filepath.Join(bundle, "Contents", "MacOS", "app"), []byte{}, 0755))
	assert.Error(t, verifyBundle(bundle, ""), "still no Info.plist")

	require.NoError(t, os.WriteFile(
		filepath.Join(bundle, "Contents", "Info.plist"), []byte("<dict></dict>"), 0644))
	assert.Error(t, verifyBundle(bundle, ""), "plist has no bundle identifier")
}
