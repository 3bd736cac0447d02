package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModuleName(t *testing.T) {
	dir := t.TempDir()
	goModPath := filepath.Join(dir, "go.mod")
	require.NoError(t, os.WriteFile(goModPath, []byte("module github.com/example/app\n\ngo 1.25\n"), 0o644))

	name, err := ParseModuleName(goModPath)
	require.NoError(t, err)
	assert.Equal(t, "github.com/example/app", name)
}

func TestParseModuleName_RejectsOtherFiles(t *testing.T) {
	_, err := ParseModuleName("/tmp/main.go")
	assert.Error(t, err)
}

func TestParseModuleName_MissingModuleDeclaration(t *testing.T) {
	dir := t.TempDir()
	goModPath := filepath.Join(dir, "go.mod")
	require.NoError(t, os.WriteFile(goModPath, []byte("go 1.25\n"), 0o644))

	_, err := ParseModuleName(goModPath)
	assert.Error(t, err)
}

func TestFindGoModFile_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "internal", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	goModPath := filepath.Join(root, "go.mod")
	require.NoError(t, os.WriteFile(goModPath, []byte("module example.com/m\n"), 0o644))

	found, err := FindGoModFile(nested)
	require.NoError(t, err)
	assert.Equal(t, goModPath, found)
}

func TestFindGoModFile_NotFound(t *testing.T) {
	// A fresh temp dir has no go.mod anywhere on the way up, unless the
	// system temp dir lives inside a module; skip in that unlikely case.
	dir := t.TempDir()
	if _, err := FindGoModFile(dir); err == nil {
		t.Skip("temp dir unexpectedly inside a Go module")
	}
}
