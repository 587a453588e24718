package provinces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrozoom/internal/dataset"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ankara", "ankara"},
		{"İstanbul", "istanbul"},
		{"IZMIR", "izmir"},
		{"Şanlıurfa", "sanliurfa"},
		{"Çanakkale", "canakkale"},
		{"Gümüşhane", "gumushane"},
		{"Hakkâri", "hakkari"},
		{"  Muğla  ", "mugla"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), "in=%q", tt.in)
	}
}

func TestCanonical(t *testing.T) {
	got, ok := Canonical("diyarbakir")
	require.True(t, ok)
	assert.Equal(t, "Diyarbakır", got)

	got, ok = Canonical("İZMİR")
	require.True(t, ok)
	assert.Equal(t, "İzmir", got)

	_, ok = Canonical("Atlantis")
	assert.False(t, ok)
}

func TestCanonical_RoundTrip(t *testing.T) {
	// Every official spelling must fold back to itself.
	for folded, official := range canonical {
		got, ok := Canonical(official)
		require.True(t, ok, "official=%q folded=%q", official, folded)
		assert.Equal(t, official, got)
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, 81, Count())
}

func TestNormalizeColumn(t *testing.T) {
	ds, err := dataset.New(
		dataset.NewColumn("province",
			dataset.Str("ankara"),
			dataset.Str("IZMIR"),
			dataset.Str("Atlantis"),
			dataset.Missing(),
		),
		dataset.FloatColumn("value", 1, 2, 3, 4),
	)
	require.NoError(t, err)

	changed := NormalizeColumn(ds, "province")
	assert.Equal(t, 2, changed)

	col, _ := ds.Column("province")
	s0, _ := col.Values[0].Text()
	s1, _ := col.Values[1].Text()
	s2, _ := col.Values[2].Text()
	assert.Equal(t, "Ankara", s0)
	assert.Equal(t, "İzmir", s1)
	assert.Equal(t, "Atlantis", s2)
	assert.True(t, col.Values[3].IsMissing())

	assert.Equal(t, 0, NormalizeColumn(ds, "absent"))
}
