package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleID = "1429989fe8ac4effbc8f57f56486db54"

func TestExtractDatabaseID(t *testing.T) {
	cases := []struct {
		name string
		url  string
	}{
		{"workspace-qualified", "https://notion.so/myworkspace/" + sampleID + "?v=abc123"},
		{"workspace-qualified with fragment", "https://www.notion.so/myworkspace/" + sampleID + "#section"},
		{"published site", "https://notion.site/" + sampleID},
		{"bare path", "https://notion.so/" + sampleID},
		{"uppercase hex", "https://notion.so/ws/" + "1429989FE8AC4EFFBC8F57F56486DB54"},
		{"bare identifier", sampleID},
		{"identifier buried in text", "my database id is " + sampleID + " thanks"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := ExtractDatabaseID(tc.url)
			require.True(t, ok)
			assert.Len(t, id, 32)
		})
	}
}

func TestExtractDatabaseID_CapturesExactID(t *testing.T) {
	id, ok := ExtractDatabaseID("https://notion.so/ws/" + sampleID + "?v=1")
	require.True(t, ok)
	assert.Equal(t, sampleID, id)
}

func TestExtractDatabaseID_NoMatch(t *testing.T) {
	cases := []string{
		"",
		"https://example.com/not-a-notion-url",
		"https://notion.so/ws/too-short-1234",
		"1429989fe8ac4effbc8f57f56486db5", // 31 chars
	}

	for _, url := range cases {
		id, ok := ExtractDatabaseID(url)
		assert.False(t, ok, "url %q", url)
		assert.Empty(t, id)
	}
}

func TestExtractDatabaseID_RoundTrip(t *testing.T) {
	// Extracting from an embedding URL then re-extracting from the result
	// must be a fixed point.
	id, ok := ExtractDatabaseID("https://notion.so/workspace/" + sampleID + "?v=1")
	require.True(t, ok)
	require.Equal(t, sampleID, id)

	again, ok := ExtractDatabaseID(id)
	require.True(t, ok)
	assert.Equal(t, id, again)
}

func TestExtractDatabaseID_PatternPriority(t *testing.T) {
	// The workspace-qualified pattern wins over the fallback scan: the
	// captured ID is the path segment, not an earlier hex run in the host.
	url := "https://notion.so/aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa/" + sampleID
	id, ok := ExtractDatabaseID(url)
	require.True(t, ok)
	assert.Equal(t, sampleID, id)
}
