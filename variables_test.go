package macpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandVariables(t *testing.T) {
	variables := StringMap{"name": "Comic Lister", "version": "1.0"}
	assert.Equal(t, "Comic Lister 1.0",
		ExpandVariables("{{.name}} {{.version}}", variables))
	assert.Equal(t, "COMIC LISTER",
		ExpandVariables("{{upper .name}}", variables))
	assert.Equal(t, "plain text", ExpandVariables("plain text", variables))
}

func TestExpandVariablesLenientOnBadTemplate(t *testing.T) {
	broken := "{{.name"
	assert.Equal(t, broken, ExpandVariables(broken, StringMap{}))
}

func TestExpandVariablesStrict(t *testing.T) {
	expanded, err := ExpandVariablesStrict("{{.name}}.dmg", StringMap{"name": "App"})
	require.NoError(t, err)
	assert.Equal(t, "App.dmg", expanded)

	_, err = ExpandVariablesStrict("{{.unknown}}", StringMap{"name": "App"})
	assert.Error(t, err)
}

func TestMergeVariables(t *testing.T) {
	merged := MergeVariables(
		StringMap{"a": "1", "b": "2"},
		StringMap{"b": "3", "c": "4"},
	)
	assert.Equal(t, StringMap{"a": "1", "b": "3", "c": "4"}, merged)
}
