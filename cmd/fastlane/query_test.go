package main

import (
	"errors"
	"strconv"
	"testing"

	"github.com/metailurini/fastlane"
	"github.com/metailurini/fastlane/internal/column"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsCommand(t *testing.T) {
	col := buildColumn(t, "5", "1", "3", "3", "9")

	output, err := run(t, "contains", col, "1", "3", "9")
	require.NoError(t, err)
	assert.Contains(t, output, "1: found")
	assert.Contains(t, output, "3: found")
	assert.Contains(t, output, "9: found")

	output, err = run(t, "contains", col, "3", "4")
	require.Error(t, err)
	assert.Contains(t, output, "4: missing")
	assert.Contains(t, err.Error(), "1 of 2 keys missing")

	output, err = run(t, "contains", col, "2", "5", "--json")
	require.Error(t, err)
	var got []membership
	decodeJSON(t, output, &got)
	assert.Equal(t, []membership{{Key: 2, Found: false}, {Key: 5, Found: true}}, got)
}

func TestContainsCommand_BadInput(t *testing.T) {
	col := buildColumn(t, "1")

	_, err := run(t, "contains", col, "x")
	require.Error(t, err)

	_, err = run(t, "contains", writeFile(t, "junk.col", "not a column"), "1")
	require.Error(t, err)

	_, err = run(t, "contains", col)
	require.Error(t, err)
}

func TestContainsCommand_EmptyFileIsNotAColumn(t *testing.T) {
	_, err := run(t, "contains", writeFile(t, "empty.col", ""), "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, column.ErrBadMagic), "got %v", err)
}

func TestRangeCommand(t *testing.T) {
	keys := make([]string, 0, 300)
	for i := 0; i < 100; i++ {
		for range 3 {
			keys = append(keys, strconv.Itoa(i*10))
		}
	}
	col := buildColumn(t, keys...)

	t.Run("json", func(t *testing.T) {
		output, err := run(t, "range", col, "95", "200", "--limit=-1", "--json")
		require.NoError(t, err)

		var got rangeResult
		decodeJSON(t, output, &got)
		assert.Equal(t, 30, got.Count)
		assert.Equal(t, uint32(30), got.StartRef)
		assert.Equal(t, uint32(60), got.EndRef)
		require.NotNil(t, got.FirstKey)
		assert.Equal(t, int32(100), *got.FirstKey)
		require.NotNil(t, got.NextKey)
		assert.Equal(t, int32(200), *got.NextKey)
		require.Len(t, got.Keys, 30)
		assert.Equal(t, int32(100), got.Keys[0])
		assert.Equal(t, int32(190), got.Keys[29])
	})

	t.Run("limit", func(t *testing.T) {
		output, err := run(t, "range", col, "0", "50", "--limit", "2")
		require.NoError(t, err)
		assert.Contains(t, output, "Range [0, 50): 15 keys")
		assert.Contains(t, output, "... (13 more)")
	})

	t.Run("past the end", func(t *testing.T) {
		output, err := run(t, "range", col, "985", "5000", "--json")
		require.NoError(t, err)

		var got rangeResult
		decodeJSON(t, output, &got)
		assert.Equal(t, 3, got.Count)
		assert.Nil(t, got.NextKey)
		assert.Equal(t, uint32(300), got.EndRef)
	})

	t.Run("empty", func(t *testing.T) {
		output, err := run(t, "range", col, "11", "19", "--json")
		require.NoError(t, err)

		var got rangeResult
		decodeJSON(t, output, &got)
		assert.Zero(t, got.Count)
		assert.Nil(t, got.FirstKey)
		assert.Empty(t, got.Keys)
	})
}

func TestStatsCommand(t *testing.T) {
	keys := make([]string, 10)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	col := buildColumn(t, keys...)
	profilePath := writeFile(t, "profile.yaml", "levels: 3\nskip: 2\nlane_block: 1\nscan_batch: 2\n")

	output, err := run(t, "stats", col, "--config", profilePath, "--json")
	require.NoError(t, err)

	var got statsReport
	decodeJSON(t, output, &got)
	assert.Equal(t, col, got.Path)
	assert.Equal(t, 10, got.Index.Len)
	assert.Equal(t, 3, got.Index.Levels)
	assert.Equal(t, 2, got.Index.SkipFactor)
	assert.Equal(t, []int{8, 4, 2}, got.Index.LaneCapacity)
	assert.Equal(t, []int{5, 3, 2}, got.Index.LaneFill)
	assert.Equal(t, int64(10), got.Metrics.Inserts)
	assert.Equal(t, []int64{5, 3, 2}, got.Metrics.Promotions)

	output, err = run(t, "stats", col, "--config", profilePath)
	require.NoError(t, err)
	assert.Contains(t, output, "Level 0: 5 / 8 (62.5%)")
	assert.Contains(t, output, "Level 2: 2 / 2 (100.0%)")
}

func TestStatsCommand_RejectsSkipAboveMax(t *testing.T) {
	col := buildColumn(t, "1", "2")

	_, err := run(t, "stats", col, "--skip", "6")
	require.Error(t, err)
	assert.ErrorIs(t, err, fastlane.ErrSkipFactor)

	profilePath := writeFile(t, "wide.yaml", "levels: 4\nskip: 6\nmax_skip: 8\n")
	_, err = run(t, "stats", col, "--config", profilePath)
	require.NoError(t, err)
}
