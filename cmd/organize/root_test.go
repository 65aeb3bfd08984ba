package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"organize/pkg/testutils"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunCommandMovesFiles(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"a.jpg":  "jpg content",
		"b.pdf":  "pdf content",
		"c.txt":  "text content",
		"README": "readme",
	})
	rulesPath := testutils.WriteRulesFile(t, `{"Images": [".jpg"], "Documents": [".pdf"]}`)
	logPath := filepath.Join(t.TempDir(), "audit.log")

	_, err := runCLI(t, "run", dir, "-c", rulesPath, "--log-file", logPath, "-q")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "Images", "a.jpg"))
	assert.FileExists(t, filepath.Join(dir, "Documents", "b.pdf"))
	assert.FileExists(t, filepath.Join(dir, "c.txt"))
	assert.FileExists(t, filepath.Join(dir, "README"))
	assert.FileExists(t, logPath)
}

func TestRootInvocationIsARun(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{"a.jpg": "jpg content"})
	rulesPath := testutils.WriteRulesFile(t, `{"Images": [".jpg"]}`)
	logPath := filepath.Join(t.TempDir(), "audit.log")

	_, err := runCLI(t, dir, "-c", rulesPath, "--log-file", logPath, "-q")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "Images", "a.jpg"))
}

func TestDryRunSucceedsWithZeroActions(t *testing.T) {
	dir := t.TempDir() // empty target
	rulesPath := testutils.WriteRulesFile(t, `{"Images": [".jpg"]}`)
	logPath := filepath.Join(t.TempDir(), "audit.log")

	_, err := runCLI(t, "run", dir, "-d", "-c", rulesPath, "--log-file", logPath, "-q")
	assert.NoError(t, err)
}

func TestMissingTargetFails(t *testing.T) {
	rulesPath := testutils.WriteRulesFile(t, `{"Images": [".jpg"]}`)
	logPath := filepath.Join(t.TempDir(), "audit.log")

	_, err := runCLI(t, "run", filepath.Join(t.TempDir(), "nope"), "-c", rulesPath, "--log-file", logPath, "-q")
	assert.Error(t, err)
}

func TestBadRulesFileFails(t *testing.T) {
	dir := t.TempDir()
	rulesPath := testutils.WriteRulesFile(t, `{"Images": ".jpg"}`)
	logPath := filepath.Join(t.TempDir(), "audit.log")

	_, err := runCLI(t, "run", dir, "-c", rulesPath, "--log-file", logPath, "-q")
	assert.Error(t, err)
}

func TestPerFileFailureKeepsExitZero(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"a.jpg": "new content",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Images"), 0755))
	testutils.CreateTestFilesWithContent(t, filepath.Join(dir, "Images"), map[string]string{
		"a.jpg": "old content",
	})
	rulesPath := testutils.WriteRulesFile(t, `{"Images": [".jpg"]}`)
	logPath := filepath.Join(t.TempDir(), "audit.log")

	// Collision under the default skip policy: logged, counted, exit 0.
	_, err := runCLI(t, "run", dir, "-c", rulesPath, "--log-file", logPath, "-q")
	assert.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "a.jpg"))
}

func TestRulesCommandPrintsTable(t *testing.T) {
	rulesPath := testutils.WriteRulesFile(t, `{"Images": [".jpg", ".png"]}`)

	out, err := runCLI(t, "rules", "-c", rulesPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Images")
	assert.Contains(t, out, ".jpg")
}
