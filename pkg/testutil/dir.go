package testutil

import (
	"os"
	"path/filepath"

	"src.sexp.sh/pkg/must"
)

// TempDir creates a temporary directory for testing that will be removed
// after the test finishes. It is different from testing.TB.TempDir in that it
// resolves symlinks in the path of the directory.
//
// It panics if the test directory cannot be created or symlinks cannot be
// resolved. It is only suitable for use in tests.
func TempDir(c Cleanuper) string {
	dir := must.OK1(os.MkdirTemp("", "sexptest."))
	dir = must.OK1(filepath.EvalSymlinks(dir))
	c.Cleanup(func() {
		os.RemoveAll(dir)
	})
	return dir
}

// InTempDir is like TempDir, but also changes into the directory, and changes
// back to the original working directory when the test finishes. It returns
// the directory.
func InTempDir(c Cleanuper) string {
	dir := TempDir(c)
	Chdir(c, dir)
	return dir
}

// Chdir changes into a directory, and restores the original working directory
// when the test finishes. It returns the directory.
func Chdir(c Cleanuper, dir string) string {
	oldWd := must.OK1(os.Getwd())
	must.Chdir(dir)
	c.Cleanup(func() { must.Chdir(oldWd) })
	return dir
}

// TempHome is like TempDir, but also points $HOME and the XDG directory
// variables into the new directory for the duration of the test. It returns
// the directory.
func TempHome(c Cleanuper) string {
	dir := TempDir(c)
	Setenv(c, "HOME", dir)
	Setenv(c, "XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	Setenv(c, "XDG_DATA_HOME", filepath.Join(dir, ".local", "share"))
	return dir
}
