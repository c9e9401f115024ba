package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sovtrack-engine/internal/domain"
)

func TestParseKeywords(t *testing.T) {
	csv := `job_title,location,search_volume
software engineer,"Austin, TX",12000
registered nurse,"Dallas-Fort Worth, TX",8000
warehouse associate,"Houston, TX",
`
	queries, err := parseKeywords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, queries, 3)

	assert.Equal(t, domain.Query{JobTitle: "software engineer", Location: "Austin, TX", SearchVolume: 12000}, queries[0])
	assert.Equal(t, "Dallas-Fort Worth, TX", queries[1].Location)
	assert.Equal(t, 0, queries[2].SearchVolume, "blank volume is allowed and stays 0")
}

func TestParseKeywordsNoVolumeColumn(t *testing.T) {
	csv := `job_title,location
software engineer,"Austin, TX"
`
	queries, err := parseKeywords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, 0, queries[0].SearchVolume)
}

func TestParseKeywordsHeaderNormalization(t *testing.T) {
	csv := `Job Title,Location,Search Volume
software engineer,"Austin, TX",100
`
	queries, err := parseKeywords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, 100, queries[0].SearchVolume)
}

func TestParseKeywordsErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"empty file", "", "empty"},
		{"missing job_title column", "location\nAustin, TX\n", "job_title"},
		{"missing location column", "job_title\nengineer\n", "location"},
		{"blank required field", "job_title,location\n,\"Austin, TX\"\n", "required"},
		{"bad volume", "job_title,location,search_volume\nengineer,\"Austin, TX\",lots\n", "search_volume"},
		{"negative volume", "job_title,location,search_volume\nengineer,\"Austin, TX\",-5\n", "search_volume"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseKeywords(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadKeywordsCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keywords.csv")
	require.NoError(t, os.WriteFile(path, []byte("job_title,location\nengineer,\"Austin, TX\"\n"), 0o644))

	queries, err := ReadKeywordsCSV(path)
	require.NoError(t, err)
	assert.Len(t, queries, 1)

	_, err = ReadKeywordsCSV(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
