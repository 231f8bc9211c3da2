package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchCommand(t *testing.T) {
	tests := []struct {
		dist     string
		wantHits int
	}{
		{dist: "dense", wantHits: 200},
		{dist: "dup", wantHits: 200},
	}

	for _, tt := range tests {
		t.Run(tt.dist, func(t *testing.T) {
			output, err := run(t, "bench", "-n", "3000", "--queries", "200", "--dist", tt.dist, "--json")
			require.NoError(t, err)

			var got benchReport
			decodeJSON(t, output, &got)
			assert.Equal(t, tt.dist, got.Dist)
			assert.Equal(t, 3000, got.Insert.Ops)
			assert.Equal(t, 200, got.Contains.Ops)
			assert.Equal(t, tt.wantHits, got.Hits)
			assert.Positive(t, got.Scanned)
			assert.Equal(t, int64(3000), got.Metrics.Inserts)
			assert.Equal(t, int64(200), got.Metrics.RangeScans)
		})
	}
}

func TestBenchCommand_Sparse(t *testing.T) {
	output, err := run(t, "bench", "-n", "1000", "--queries", "500", "--dist", "sparse",
		"--levels", "4", "--skip", "3", "--json")
	require.NoError(t, err)

	var got benchReport
	decodeJSON(t, output, &got)
	assert.Equal(t, 4, got.Profile.Levels)
	assert.Equal(t, 3, got.Profile.Skip)
	assert.Less(t, got.Hits, 500)
}

func TestBenchCommand_Text(t *testing.T) {
	output, err := run(t, "bench", "-n", "2000", "--queries", "10")
	require.NoError(t, err)
	assert.Contains(t, output, "insert:   2,000 keys")
	assert.Contains(t, output, "contains: 10 probes")
}

func TestBenchCommand_BadFlags(t *testing.T) {
	_, err := run(t, "bench", "--dist", "zipf")
	require.Error(t, err)

	_, err = run(t, "bench", "-n", "0")
	require.Error(t, err)

	_, err = run(t, "bench", "-n", "30000000", "--dist", "sparse")
	require.Error(t, err)
}
