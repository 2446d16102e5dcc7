package names

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var knownTeams = []string{"Barça eSports", "Fnatic", "G2 Esports", "Team BDS", "Team Heretics"}

func TestResolve(t *testing.T) {
	r := NewResolver(Corrections{"Barca eSports": "Barça eSports"}, knownTeams, DefaultCutoff)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "correction table", in: "Barca eSports", want: "Barça eSports"},
		{name: "exact", in: "Fnatic", want: "Fnatic"},
		{name: "kills suffix", in: "Fnatic (Kills)", want: "Fnatic"},
		{name: "fuzzy", in: "G2 eSports", want: "G2 Esports"},
		{name: "too far", in: "Karmine Corp", want: "Karmine Corp"},
		{name: "whitespace", in: "  Team BDS ", want: "Team BDS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.in))
		})
	}
}

func TestResolveWithoutFuzzy(t *testing.T) {
	r := NewResolver(nil, knownTeams, 0)
	assert.Equal(t, "G2 eSports", r.Resolve("G2 eSports"))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 100, Similarity("Fnatic", "fnatic"))
	assert.Equal(t, 100, Similarity("", ""))
	assert.Less(t, Similarity("T1", "Gen.G"), DefaultCutoff)
}

func TestLoadCorrections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Barca eSports: Barça eSports\nMAD Lions KOI: MAD Lions\n"), 0o644))

	c, err := LoadCorrections(path)
	require.NoError(t, err)
	assert.Equal(t, "MAD Lions", c["MAD Lions KOI"])

	empty, err := LoadCorrections(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o644))
	_, err = LoadCorrections(path)
	assert.Error(t, err)
}
