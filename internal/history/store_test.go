package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/esports-edge/internal/models"
)

const fullHeader = "date,league,patch,t1,t2,total_towers,total_dragons,total_barons,total_kills,total_inhibitors,gamelength,firstdragon_t1,firstdragon_t2\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data_transformed.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidTable(t *testing.T) {
	path := writeCSV(t, fullHeader+
		"2024-01-10 10:00:00,LEC,14.1,G2 Esports,Fnatic,12,5,1,30,2,33.5,1,0\n"+
		"2024-01-11 10:00:00,LEC,14.1,Team BDS,G2 Esports,10,3,2,25,1,29.0,0,1\n")

	store, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, path, store.Source())
	assert.Equal(t, []string{"Fnatic", "G2 Esports", "Team BDS"}, store.Teams())
	assert.True(t, store.HasCategory(models.CategoryInhibitors))
	assert.True(t, store.HasCategory(models.CategoryGameLength))
	assert.True(t, store.HasCategory(models.CategoryFirstDragon))

	matches := store.TeamMatches("G2 Esports")
	require.Len(t, matches, 2)
	total, ok := matches[0].Total(models.CategoryDragons)
	assert.True(t, ok)
	assert.Equal(t, 5.0, total)
	assert.True(t, matches[0].TookFirstDragon("G2 Esports"))
	assert.True(t, matches[1].TookFirstDragon("G2 Esports"))
	assert.False(t, matches[1].TookFirstDragon("Team BDS"))
	assert.Equal(t, 2024, matches[0].Date.Year())
}

func TestHasTeamIsCaseSensitive(t *testing.T) {
	store, err := LoadReader(strings.NewReader(fullHeader+
		"2024-01-10,LEC,14.1,G2 Esports,Fnatic,12,5,1,30,2,33,1,0\n"), "mem")
	require.NoError(t, err)

	assert.True(t, store.HasTeam("Fnatic"))
	assert.False(t, store.HasTeam("fnatic"))
	assert.False(t, store.HasTeam("Unknown"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDataUnavailable))
}

func TestLoadEmptySource(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no bytes", content: ""},
		{name: "header only", content: fullHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReader(strings.NewReader(tt.content), "mem")
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrDataUnavailable))
		})
	}
}

func TestLoadMissingRequiredColumns(t *testing.T) {
	_, err := LoadReader(strings.NewReader("t1,t2,total_towers,league\nA,B,12,LEC\n"), "mem")
	require.Error(t, err)

	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.ElementsMatch(t, []string{"total_dragons", "total_barons", "total_kills", "patch/year"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "total_dragons")
}

func TestLoadAcceptsYearInsteadOfPatch(t *testing.T) {
	store, err := LoadReader(strings.NewReader(
		"league,year,t1,t2,total_towers,total_dragons,total_barons,total_kills\n"+
			"LCK,2023,T1,Gen.G,11,4,1,22\n"), "mem")
	require.NoError(t, err)

	matches := store.TeamMatches("T1")
	require.Len(t, matches, 1)
	assert.Equal(t, "2023", matches[0].Patch)
	assert.False(t, store.HasCategory(models.CategoryInhibitors))
	assert.False(t, store.HasCategory(models.CategoryFirstDragon))
}

func TestLoadFailsFastOnBadRow(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{name: "missing team", row: "2024-01-10,LEC,14.1,,Fnatic,12,5,1,30,2,33,1,0\n"},
		{name: "bad number", row: "2024-01-10,LEC,14.1,G2 Esports,Fnatic,twelve,5,1,30,2,33,1,0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadReader(strings.NewReader(fullHeader+
				"2024-01-09,LEC,14.1,G2 Esports,Fnatic,12,5,1,30,2,33,1,0\n"+tt.row), "mem")
			var schemaErr *models.SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, 3, schemaErr.Row)
		})
	}
}

func TestBlankCellsAreLeftOut(t *testing.T) {
	store, err := LoadReader(strings.NewReader(fullHeader+
		"2024-01-10,LEC,14.1,G2 Esports,Fnatic,12,5,1,30,,33,1,0\n"), "mem")
	require.NoError(t, err)

	m := store.TeamMatches("Fnatic")[0]
	_, ok := m.Total(models.CategoryInhibitors)
	assert.False(t, ok)
	_, ok = m.Total(models.CategoryGameLength)
	assert.True(t, ok)
}

func TestBadRowNamesFirstBadColumn(t *testing.T) {
	row := "2024-01-10,LEC,14.1,G2 Esports,Fnatic,x,y,z,w,v,u,1,0\n"
	for i := 0; i < 20; i++ {
		_, err := LoadReader(strings.NewReader(fullHeader+row), "mem")
		var schemaErr *models.SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Contains(t, schemaErr.Reason, "column total_dragons")
	}
}
