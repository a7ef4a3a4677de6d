package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandWiring(t *testing.T) {
	assert.Equal(t, "lint <file|dir>...", lintCmd().Use)
	assert.Equal(t, "analyze <file|dir>...", analyzeCmd().Use)
	assert.Equal(t, "validate <file|dir>...", validateCmd().Use)
	assert.Equal(t, "rules", rulesCmd().Use)
	assert.NotEmpty(t, fixCmd().Short)
	assert.NotEmpty(t, optimizeCmd().Short)

	fix := fixCmd()
	assert.NotNil(t, fix.Flags().Lookup("aggressive"))
	assert.NotNil(t, fix.Flags().Lookup("write"))
	assert.NotNil(t, fix.Flags().Lookup("output-dir"))

	root := newRootCmd()
	for _, name := range []string{"config", "output", "rules", "workers", "verbose"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested", ".hidden"), 0o755))
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt", "nested/c.yaml", "nested/.hidden/d.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("kind: Pod\n"), 0o644))
	}

	files, err := collectFiles([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "c.yaml"),
	}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing.yaml")})
	assert.Error(t, err)
}

func TestCollectFilesRejectsEmptyResult(t *testing.T) {
	dir := t.TempDir()
	_, err := collectFiles([]string{dir})
	assert.Error(t, err)
}

func TestWriteOptionsTargetPath(t *testing.T) {
	assert.Equal(t, "m/app.yaml", writeOptions{inPlace: true}.targetPath("m/app.yaml"))
	assert.Equal(t, filepath.Join("out", "app.yaml"), writeOptions{outputDir: "out"}.targetPath("m/app.yaml"))
	assert.Equal(t, "m/app.fixed.yaml", writeOptions{suffix: true}.targetPath("m/app.yaml"))
	assert.False(t, writeOptions{}.enabled())
}
