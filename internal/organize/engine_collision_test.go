package organize_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"organize/internal/config"
	"organize/internal/errors"
	"organize/pkg/testutils"
)

// seedCollision creates a source file and an occupied destination.
func seedCollision(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"a.jpg": "new content",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Images"), 0755))
	testutils.CreateTestFilesWithContent(t, filepath.Join(dir, "Images"), map[string]string{
		"a.jpg": "old content",
	})
	return dir
}

func TestCollisionSkipPolicy(t *testing.T) {
	dir := seedCollision(t)

	engine := newTestEngine(t, testRules, nil) // skip is the default
	sum, err := engine.Organize(dir)
	require.NoError(t, err)

	// The occupied destination fails the move loudly; nothing is overwritten.
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 0, sum.Moved)
	assert.FileExists(t, filepath.Join(dir, "a.jpg"))

	content, err := os.ReadFile(filepath.Join(dir, "Images", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "old content", string(content))

	var found bool
	for _, res := range sum.Results {
		if res.Error != nil {
			found = true
			assert.True(t, errors.IsCollision(res.Error))
		}
	}
	assert.True(t, found, "expected a collision result")
}

func TestCollisionRenamePolicy(t *testing.T) {
	dir := seedCollision(t)

	engine := newTestEngine(t, testRules, func(s *config.Settings) {
		s.Collision = config.CollisionRename
	})
	sum, err := engine.Organize(dir)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Moved)
	assert.Equal(t, 0, sum.Failed)
	assert.NoFileExists(t, filepath.Join(dir, "a.jpg"))

	// The existing file keeps its content; the new one gets a counter name.
	content, err := os.ReadFile(filepath.Join(dir, "Images", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "old content", string(content))

	renamed, err := os.ReadFile(filepath.Join(dir, "Images", "a_(1).jpg"))
	require.NoError(t, err)
	assert.Equal(t, "new content", string(renamed))
}

func TestCollisionRenameCounterAdvances(t *testing.T) {
	dir := seedCollision(t)
	testutils.CreateTestFilesWithContent(t, filepath.Join(dir, "Images"), map[string]string{
		"a_(1).jpg": "taken too",
	})

	engine := newTestEngine(t, testRules, func(s *config.Settings) {
		s.Collision = config.CollisionRename
	})
	_, err := engine.Organize(dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "Images", "a_(2).jpg"))
}

func TestCollisionReportedInDryRun(t *testing.T) {
	dir := seedCollision(t)

	engine := newTestEngine(t, testRules, func(s *config.Settings) {
		s.DryRun = true
	})

	before := testutils.SnapshotTree(t, dir)
	sum, err := engine.Organize(dir)
	require.NoError(t, err)
	after := testutils.SnapshotTree(t, dir)

	// Dry run surfaces the same collision the real run would, while
	// still mutating nothing.
	assert.Equal(t, before, after)
	assert.Equal(t, 1, sum.Failed)
}
