package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	output, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, output, "fastlane dev")
	assert.Contains(t, output, "commit: none")
}

func TestLoadProfile(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		resetFlags()
		p, err := loadProfile("")
		require.NoError(t, err)
		assert.Equal(t, defaultProfile(), p)
	})

	t.Run("file", func(t *testing.T) {
		resetFlags()
		path := writeFile(t, "p.yaml", "levels: 6\nskip: 4\nlane_block: 2\nscan_batch: 8\n")
		p, err := loadProfile(path)
		require.NoError(t, err)
		assert.Equal(t, profile{Levels: 6, Skip: 4, LaneBlock: 2, ScanBatch: 8}, p)
		assert.Len(t, p.options(), 3)
	})

	t.Run("flags override file", func(t *testing.T) {
		resetFlags()
		levelsFlag, skipFlag = 2, 3
		path := writeFile(t, "p.yaml", "levels: 6\nskip: 4\n")
		p, err := loadProfile(path)
		require.NoError(t, err)
		assert.Equal(t, 2, p.Levels)
		assert.Equal(t, 3, p.Skip)
	})

	t.Run("bad yaml", func(t *testing.T) {
		resetFlags()
		path := writeFile(t, "p.yaml", "levels: [1, 2\n")
		_, err := loadProfile(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errBadProfile))
	})

	t.Run("negative field", func(t *testing.T) {
		resetFlags()
		path := writeFile(t, "p.yaml", "levels: 3\nlane_block: -1\n")
		_, err := loadProfile(path)
		require.ErrorIs(t, err, errBadProfile)
	})

	t.Run("missing file", func(t *testing.T) {
		resetFlags()
		_, err := loadProfile("/nonexistent/profile.yaml")
		require.Error(t, err)
	})
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2<<20))
}
